// Package mapping holds the per-template record of extracted classes and
// reads and writes it as JSON, YAML or TOML.
package mapping

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Record is what an element's class attribute looked like before rewrite.
type Record struct {
	OriginalClasses []string `json:"originalClasses" yaml:"originalClasses" toml:"originalClasses"`
	NewClass        string   `json:"newClass" yaml:"newClass" toml:"newClass"`
}

// Mapping is an insertion-ordered identifier to Record map.
type Mapping struct {
	keys    []string
	records map[string]Record
}

// New returns an empty mapping.
func New() *Mapping {
	return &Mapping{records: make(map[string]Record)}
}

// Set stores rec under id. Setting an existing id replaces its record but
// keeps its original position; replaced reports whether that happened.
func (m *Mapping) Set(id string, rec Record) (replaced bool) {
	if rec.OriginalClasses == nil {
		rec.OriginalClasses = []string{}
	}
	if _, ok := m.records[id]; ok {
		replaced = true
	} else {
		m.keys = append(m.keys, id)
	}
	m.records[id] = rec
	return replaced
}

// Get returns the record stored under id.
func (m *Mapping) Get(id string) (Record, bool) {
	rec, ok := m.records[id]
	return rec, ok
}

// Keys returns the identifiers in insertion order.
func (m *Mapping) Keys() []string {
	return append([]string(nil), m.keys...)
}

// Len returns the number of records.
func (m *Mapping) Len() int {
	return len(m.keys)
}

// MarshalJSON writes the records as a JSON object in insertion order.
func (m *Mapping) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	buf.WriteByte('{')
	for i, id := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := enc.Encode(id); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := enc.Encode(m.records[id]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	// Encoder terminates every value with a newline
	return bytes.ReplaceAll(buf.Bytes(), []byte("\n"), nil), nil
}

// UnmarshalJSON reads a JSON object keeping the order of its keys.
func (m *Mapping) UnmarshalJSON(data []byte) error {
	*m = *New()

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		id, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected key, got %v", tok)
		}
		var rec Record
		if err := dec.Decode(&rec); err != nil {
			return fmt.Errorf("record %q: %w", id, err)
		}
		m.Set(id, rec)
	}
	if _, err := dec.Token(); err != nil && err != io.EOF {
		return err
	}
	return nil
}
