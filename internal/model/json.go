package model

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringList is a list of strings stored as a JSON array in a text column.
type StringList []string

// Scan implements the sql.Scanner interface
func (l *StringList) Scan(value interface{}) error {
	*l = StringList{}
	b, err := textBytes(value)
	if err != nil || len(b) == 0 {
		return err
	}
	return json.Unmarshal(b, l)
}

// Value implements the driver.Valuer interface
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return encodeJSON([]string(l))
}

// Contains reports whether tag is present in the list.
func (l StringList) Contains(tag string) bool {
	for _, t := range l {
		if t == tag {
			return true
		}
	}
	return false
}

// JSONMap represents a generic object stored as JSON text.
type JSONMap map[string]interface{}

// Value implements the driver.Valuer interface for JSONMap
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	return encodeJSON(map[string]interface{}(m))
}

// Scan implements the sql.Scanner interface for JSONMap
func (m *JSONMap) Scan(value interface{}) error {
	*m = JSONMap{}
	b, err := textBytes(value)
	if err != nil || len(b) == 0 {
		return err
	}
	return json.Unmarshal(b, m)
}

// NullableJSONMap is a JSON object column that reads back as null when empty.
type NullableJSONMap map[string]interface{}

func (m NullableJSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return encodeJSON(map[string]interface{}(m))
}

func (m *NullableJSONMap) Scan(value interface{}) error {
	*m = nil
	b, err := textBytes(value)
	if err != nil || len(b) == 0 {
		return err
	}
	return json.Unmarshal(b, m)
}

// JSONList is a list of arbitrary JSON values stored as text.
type JSONList []interface{}

func (l JSONList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return encodeJSON([]interface{}(l))
}

func (l *JSONList) Scan(value interface{}) error {
	*l = JSONList{}
	b, err := textBytes(value)
	if err != nil || len(b) == 0 {
		return err
	}
	return json.Unmarshal(b, l)
}

func textBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported Scan, storing driver.Value type %T into JSON text", value)
	}
}

// encodeJSON writes v without HTML escaping so stored text keeps characters
// such as & and < as typed.
func encodeJSON(v interface{}) (driver.Value, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
