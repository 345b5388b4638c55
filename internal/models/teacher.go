package models

// Teacher is a staff member that can be assigned to sessions.
type Teacher struct {
	ID               string     `db:"id" json:"id"`
	Name             string     `db:"name" json:"name"`
	QualifiedCourses StringList `db:"qualified_courses" json:"qualified_courses"`
	AvailableDays    StringList `db:"available_days" json:"available_days"`
	PreferredPeriods IntList    `db:"preferred_periods" json:"preferred_periods"`
}

// QualifiedFor reports whether the teacher may teach the named course.
func (t Teacher) QualifiedFor(course string) bool {
	for _, name := range t.QualifiedCourses {
		if name == course {
			return true
		}
	}
	return false
}
