package models

// Group is a cohort of students attending the same courses.
type Group struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}
