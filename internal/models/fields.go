package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSON-encoded column types. Postgres stores them as jsonb, the sqlite
// test driver as TEXT; both round-trip through Value/Scan below.

type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	return string(b), err
}

func (l *StringList) Scan(src any) error {
	return scanJSON(src, l)
}

func (StringList) GormDataType() string { return "jsonb" }

// SpecMap holds the structured specification fields of a keyboard
// (switch type, layout, keycap material and the like).
type SpecMap map[string]string

func (m SpecMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	return string(b), err
}

func (m *SpecMap) Scan(src any) error {
	return scanJSON(src, m)
}

func (SpecMap) GormDataType() string { return "jsonb" }

// InfoPair is one free-text label/value row shown on the product page.
type InfoPair struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type InfoPairList []InfoPair

func (l InfoPairList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	return string(b), err
}

func (l *InfoPairList) Scan(src any) error {
	return scanJSON(src, l)
}

func (InfoPairList) GormDataType() string { return "jsonb" }

func scanJSON(src, dest any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("unsupported column type %T", src)
	}
}
