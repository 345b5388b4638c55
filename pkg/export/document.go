package export

import "fmt"

// Section is a titled block of rows sharing the document headers.
type Section struct {
	Title string
	Rows  [][]string
}

// Document is tabular export content split into sections.
type Document struct {
	Title    string
	Subtitle string
	Headers  []string
	Sections []Section
}

// RowCount returns the total number of body rows.
func (d Document) RowCount() int {
	total := 0
	for _, section := range d.Sections {
		total += len(section.Rows)
	}
	return total
}

func (d Document) validate() error {
	if len(d.Headers) == 0 {
		return fmt.Errorf("export requires at least one header")
	}
	for _, section := range d.Sections {
		for i, row := range section.Rows {
			if len(row) != len(d.Headers) {
				return fmt.Errorf("section %q row %d has %d cells, want %d", section.Title, i, len(row), len(d.Headers))
			}
		}
	}
	return nil
}
