package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// The audit's findings are stored in PostgreSQL JSONB columns. The named
// types below implement sql.Scanner and driver.Valuer so repositories can
// read and write them like plain columns.

// MetricsMap maps metric names to numeric values. Absence of a key means
// "not measured", never zero.
type MetricsMap map[string]float64

// IssueList is the JSONB-backed list of issues on an audit.
type IssueList []Issue

// RecommendationList is the JSONB-backed list of recommendations on an audit.
type RecommendationList []Recommendation

// ChecklistItems is the JSONB-backed checklist on an audit.
type ChecklistItems []ChecklistItem

// scanJSONB normalizes a driver value into JSON bytes.
func scanJSONB(value any) ([]byte, error) {
	switch v := value.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	default:
		return nil, errors.New("unsupported type for JSONB column")
	}
}

// Scan implements the sql.Scanner interface.
func (m *MetricsMap) Scan(value any) error {
	if value == nil {
		*m = nil
		return nil
	}
	data, err := scanJSONB(value)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		*m = MetricsMap{}
		return nil
	}
	return json.Unmarshal(data, m)
}

// Value implements the driver.Valuer interface.
func (m MetricsMap) Value() (driver.Value, error) {
	if len(m) == 0 {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

// Scan implements the sql.Scanner interface.
func (l *IssueList) Scan(value any) error {
	if value == nil {
		*l = nil
		return nil
	}
	data, err := scanJSONB(value)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		*l = IssueList{}
		return nil
	}
	return json.Unmarshal(data, l)
}

// Value implements the driver.Valuer interface.
func (l IssueList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface.
func (l *RecommendationList) Scan(value any) error {
	if value == nil {
		*l = nil
		return nil
	}
	data, err := scanJSONB(value)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		*l = RecommendationList{}
		return nil
	}
	return json.Unmarshal(data, l)
}

// Value implements the driver.Valuer interface.
func (l RecommendationList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface.
func (l *ChecklistItems) Scan(value any) error {
	if value == nil {
		*l = nil
		return nil
	}
	data, err := scanJSONB(value)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		*l = ChecklistItems{}
		return nil
	}
	return json.Unmarshal(data, l)
}

// Value implements the driver.Valuer interface.
func (l ChecklistItems) Value() (driver.Value, error) {
	if len(l) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}
