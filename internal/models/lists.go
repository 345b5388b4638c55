package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringList is stored as a JSON array so the same column works on
// PostgreSQL JSONB and SQLite TEXT.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	raw, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src interface{}) error {
	var items []string
	if err := scanJSONArray(src, &items); err != nil {
		return fmt.Errorf("scan string list: %w", err)
	}
	*l = items
	return nil
}

// IntList is the integer counterpart of StringList.
type IntList []int

// Value implements driver.Valuer.
func (l IntList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	raw, err := json.Marshal([]int(l))
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// Scan implements sql.Scanner.
func (l *IntList) Scan(src interface{}) error {
	var items []int
	if err := scanJSONArray(src, &items); err != nil {
		return fmt.Errorf("scan int list: %w", err)
	}
	*l = items
	return nil
}

func scanJSONArray(src interface{}, dest interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		if len(v) == 0 {
			return nil
		}
		return json.Unmarshal(v, dest)
	case string:
		if v == "" {
			return nil
		}
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("unsupported source type %T", src)
	}
}
