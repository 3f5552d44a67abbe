package wire

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Data accumulates payload fields and marshals them as a JSON
// object in insertion order. Setting an existing key updates it in place.
// Values may themselves be *Data for nested objects.
type Data struct {
	fields []dataField
}

type dataField struct {
	key   string
	value any
}

// NewData creates an empty object builder.
func NewData() *Data {
	return &Data{}
}

// Set adds or updates a field and returns the builder for chaining.
func (d *Data) Set(key string, value any) *Data {
	for i := range d.fields {
		if d.fields[i].key == key {
			d.fields[i].value = value
			return d
		}
	}
	d.fields = append(d.fields, dataField{key: key, value: value})
	return d
}

// Len returns the number of fields.
func (d *Data) Len() int {
	return len(d.fields)
}

// MarshalJSON writes the fields as a JSON object in insertion order.
func (d *Data) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range d.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.key)
		if err != nil {
			return nil, fmt.Errorf("encode key %q: %w", f.key, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(f.value)
		if err != nil {
			return nil, fmt.Errorf("encode field %q: %w", f.key, err)
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Compile-time interface satisfaction check.
var _ json.Marshaler = (*Data)(nil)
