// Package jsonval provides a validated JSON document type used for the
// structured endpoint fields (tags, request bodies, responses, parameters)
// and for request/response snapshots. Values are validated once at the
// service boundary and serialized to text only at the storage boundary.
package jsonval

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

const (
	// MaxBytes caps the serialized size of a single document.
	MaxBytes = 256 << 10
	// MaxDepth caps the nesting of arrays and objects.
	MaxDepth = 32
)

// Value holds one validated JSON document. The zero Value means "absent" and
// is persisted as NULL; a NULL column hydrates back to the zero Value.
type Value struct {
	raw json.RawMessage
}

// Parse validates data as a single JSON document and returns it in compact
// form. Empty input yields the zero Value.
func Parse(data []byte) (Value, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return Value{}, nil
	}
	if len(trimmed) > MaxBytes {
		return Value{}, fmt.Errorf("jsonval: document exceeds %d bytes", MaxBytes)
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return Value{}, fmt.Errorf("jsonval: invalid JSON: %w", err)
	}
	if dec.More() {
		return Value{}, fmt.Errorf("jsonval: trailing data after document")
	}
	if err := checkDepth(doc, 0); err != nil {
		return Value{}, err
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, trimmed); err != nil {
		return Value{}, fmt.Errorf("jsonval: compact: %w", err)
	}
	return Value{raw: json.RawMessage(compact.Bytes())}, nil
}

// FromAny marshals an arbitrary Go value into a validated Value.
func FromAny(v any) (Value, error) {
	if v == nil {
		return Value{}, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return Value{}, fmt.Errorf("jsonval: marshal: %w", err)
	}
	return Parse(data)
}

// MustParse is a test helper that panics on invalid input.
func MustParse(s string) Value {
	v, err := Parse([]byte(s))
	if err != nil {
		panic(err)
	}
	return v
}

// IsZero reports whether the Value is absent.
func (v Value) IsZero() bool { return len(v.raw) == 0 }

// String returns the compact JSON text, or "" when absent.
func (v Value) String() string { return string(v.raw) }

// Decode unmarshals the document into dst. Decoding the zero Value is a no-op.
func (v Value) Decode(dst any) error {
	if v.IsZero() {
		return nil
	}
	return json.Unmarshal(v.raw, dst)
}

// MarshalJSON emits the document verbatim, or null when absent.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.IsZero() {
		return []byte("null"), nil
	}
	return v.raw, nil
}

// UnmarshalJSON validates incoming JSON. A JSON null yields the zero Value.
func (v *Value) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*v = Value{}
		return nil
	}
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Value implements driver.Valuer so the store can bind the document directly.
func (v Value) Value() (driver.Value, error) {
	if v.IsZero() {
		return nil, nil
	}
	return string(v.raw), nil
}

// Scan implements sql.Scanner. NULL columns scan to the zero Value.
func (v *Value) Scan(src any) error {
	switch s := src.(type) {
	case nil:
		*v = Value{}
		return nil
	case string:
		parsed, err := Parse([]byte(s))
		if err != nil {
			return err
		}
		*v = parsed
		return nil
	case []byte:
		parsed, err := Parse(s)
		if err != nil {
			return err
		}
		*v = parsed
		return nil
	default:
		return fmt.Errorf("jsonval: cannot scan %T", src)
	}
}

func checkDepth(doc any, depth int) error {
	if depth > MaxDepth {
		return fmt.Errorf("jsonval: nesting exceeds depth %d", MaxDepth)
	}
	switch t := doc.(type) {
	case map[string]any:
		for _, child := range t {
			if err := checkDepth(child, depth+1); err != nil {
				return err
			}
		}
	case []any:
		for _, child := range t {
			if err := checkDepth(child, depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}
