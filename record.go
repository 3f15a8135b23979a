package sheettable

import (
	"bytes"
	"encoding/json"
)

// Record maps field names to the cell values of one data row.
//
// Fields is shared between all records returned by the same
// ReadTable or ReadRecords call and must not be modified.
// Values has the same length and order as Fields.
type Record struct {
	Fields []string
	Values []any
}

// Get returns the value of field and if the record has such a field.
// For duplicate field names the value of the first one is returned.
func (r Record) Get(field string) (value any, ok bool) {
	for i, f := range r.Fields {
		if f == field {
			return r.Values[i], true
		}
	}
	return nil, false
}

// Map returns the record as map from field name to value.
func (r Record) Map() map[string]any {
	m := make(map[string]any, len(r.Fields))
	for i, f := range r.Fields {
		m[f] = r.Values[i]
	}
	return m
}

// MarshalJSON implements encoding/json.Marshaler
// by returning a JSON object with the keys in field order.
func (r Record) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, f := range r.Fields {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(f)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.Values[i])
		if err != nil {
			return nil, err
		}
		b.Write(key)
		b.WriteByte(':')
		b.Write(val)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}
