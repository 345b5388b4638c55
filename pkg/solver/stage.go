package solver

import (
	"encoding/csv"
	"fmt"
	"path/filepath"

	"github.com/noah-isme/timetable-api/pkg/storage"
)

// DataDir is the workspace-relative directory the solver reads its tables from.
const DataDir = "data"

// Staging table file names.
const (
	TeachersFile = "teachers.csv"
	RoomsFile    = "rooms.csv"
	CoursesFile  = "courses.csv"
	SlotsFile    = "slots.csv"
	GroupsFile   = "groups.csv"
)

// Stage writes the input tables into ws and returns the absolute data
// directory.
func Stage(ws *storage.Workspace, ds Dataset) (string, error) {
	teachers := make([][]string, len(ds.Teachers))
	for i, r := range ds.Teachers {
		teachers[i] = r.row()
	}
	rooms := make([][]string, len(ds.Rooms))
	for i, r := range ds.Rooms {
		rooms[i] = r.row()
	}
	courses := make([][]string, len(ds.Courses))
	for i, r := range ds.Courses {
		courses[i] = r.row()
	}
	slots := make([][]string, len(ds.Slots))
	for i, r := range ds.Slots {
		slots[i] = r.row()
	}
	groups := make([][]string, len(ds.Groups))
	for i, r := range ds.Groups {
		groups[i] = r.row()
	}

	tables := []struct {
		name   string
		header []string
		rows   [][]string
	}{
		{TeachersFile, teacherColumns, teachers},
		{RoomsFile, roomColumns, rooms},
		{CoursesFile, courseColumns, courses},
		{SlotsFile, slotColumns, slots},
		{GroupsFile, groupColumns, groups},
	}
	for _, table := range tables {
		if err := writeTable(ws, filepath.Join(DataDir, table.name), table.header, table.rows); err != nil {
			return "", err
		}
	}
	return filepath.Join(ws.Dir(), DataDir), nil
}

func writeTable(ws *storage.Workspace, name string, header []string, rows [][]string) (err error) {
	file, err := ws.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", name, cerr)
		}
	}()

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write %s header: %w", name, err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("write %s rows: %w", name, err)
	}
	return nil
}
