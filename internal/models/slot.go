package models

// Slot is an entry of the weekly calendar catalog.
type Slot struct {
	ID     string `db:"id" json:"id"`
	Day    string `db:"day" json:"day"`
	Period int    `db:"period" json:"period"`
}
