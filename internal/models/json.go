package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
)

// StringSet stores a set of strings as a JSON array column.
type StringSet []string

// Value implements the driver.Valuer interface
func (s StringSet) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal(s.normalized())
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (s *StringSet) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*s = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into StringSet", value)
	}
	if len(raw) == 0 {
		*s = nil
		return nil
	}
	var items []string
	if err := json.Unmarshal(raw, &items); err != nil {
		return err
	}
	*s = StringSet(items).normalized()
	return nil
}

// SubsetOf reports whether every member of s is in other.
func (s StringSet) SubsetOf(other []string) bool {
	have := make(map[string]struct{}, len(other))
	for _, v := range other {
		have[v] = struct{}{}
	}
	for _, v := range s {
		if _, ok := have[v]; !ok {
			return false
		}
	}
	return true
}

func (s StringSet) normalized() StringSet {
	seen := make(map[string]struct{}, len(s))
	out := make(StringSet, 0, len(s))
	for _, v := range s {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
