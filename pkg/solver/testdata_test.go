package solver

func sampleDataset() Dataset {
	return Dataset{
		Teachers: []TeacherRecord{{
			ID:               "T1",
			Name:             "Ada",
			QualifiedCourses: []string{"C1", "C2"},
			AvailableDays:    []string{"Monday", "Tuesday"},
			PreferredPeriods: []int{1, 2},
		}},
		Rooms:   []RoomRecord{{ID: "R1", Name: "Lab", Capacity: 30}},
		Courses: []CourseRecord{{ID: "C1", Course: "Math", Hours: 4, Group: "G1", Size: 25}},
		Slots: []SlotRecord{
			{ID: "S1", Day: "Monday", Period: 1},
			{ID: "S2", Day: "Monday", Period: 2},
		},
		Groups: []GroupRecord{{ID: "G1", Name: "Grade 10A"}},
	}
}
