package solver

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidDataset marks input that cannot be staged for the solver.
var ErrInvalidDataset = errors.New("invalid solver dataset")

var validate = validator.New()

// listSeparator joins list-valued columns in the staging tables.
const listSeparator = ","

// TeacherRecord is one row of the teachers table.
type TeacherRecord struct {
	ID               string   `validate:"required"`
	Name             string   `validate:"required"`
	QualifiedCourses []string `validate:"dive,required,excludes=0x2C"`
	AvailableDays    []string `validate:"dive,required,excludes=0x2C"`
	PreferredPeriods []int    `validate:"dive,gt=0"`
}

// RoomRecord is one row of the rooms table.
type RoomRecord struct {
	ID       string `validate:"required"`
	Name     string `validate:"required"`
	Capacity int    `validate:"gt=0"`
}

// CourseRecord is one row of the courses table.
type CourseRecord struct {
	ID     string `validate:"required"`
	Course string `validate:"required"`
	Hours  int    `validate:"gt=0"`
	Group  string `validate:"required"`
	Size   int    `validate:"gt=0"`
}

// SlotRecord is one row of the slots table.
type SlotRecord struct {
	ID     string `validate:"required"`
	Day    string `validate:"required"`
	Period int    `validate:"gt=0"`
}

// GroupRecord is one row of the groups table.
type GroupRecord struct {
	ID   string `validate:"required"`
	Name string `validate:"required"`
}

// Dataset is the complete solver input.
type Dataset struct {
	Teachers []TeacherRecord `validate:"dive"`
	Rooms    []RoomRecord    `validate:"dive"`
	Courses  []CourseRecord  `validate:"dive"`
	Slots    []SlotRecord    `validate:"dive"`
	Groups   []GroupRecord   `validate:"dive"`
}

// Validate checks every record against its schema.
func (d Dataset) Validate() error {
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDataset, err)
	}
	return nil
}

// Column order of each staging table. The solver reads them positionally.
var (
	teacherColumns = []string{"id", "name", "qualified_courses", "available_days", "preferred_periods"}
	roomColumns    = []string{"id", "name", "capacity"}
	courseColumns  = []string{"id", "course", "hours", "group", "size"}
	slotColumns    = []string{"id", "day", "period"}
	groupColumns   = []string{"id", "name"}
)

func (r TeacherRecord) row() []string {
	periods := make([]string, len(r.PreferredPeriods))
	for i, p := range r.PreferredPeriods {
		periods[i] = strconv.Itoa(p)
	}
	return []string{
		r.ID,
		r.Name,
		strings.Join(r.QualifiedCourses, listSeparator),
		strings.Join(r.AvailableDays, listSeparator),
		strings.Join(periods, listSeparator),
	}
}

func (r RoomRecord) row() []string {
	return []string{r.ID, r.Name, strconv.Itoa(r.Capacity)}
}

func (r CourseRecord) row() []string {
	return []string{r.ID, r.Course, strconv.Itoa(r.Hours), r.Group, strconv.Itoa(r.Size)}
}

func (r SlotRecord) row() []string {
	return []string{r.ID, r.Day, strconv.Itoa(r.Period)}
}

func (r GroupRecord) row() []string {
	return []string{r.ID, r.Name}
}
