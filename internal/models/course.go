package models

// Course is a weekly teaching requirement owned by one group.
type Course struct {
	ID     string `db:"id" json:"id"`
	Course string `db:"course" json:"course"`
	Hours  int    `db:"hours" json:"hours"`
	Group  string `db:"group_id" json:"group"`
	Size   int    `db:"size" json:"size"`
}
