package mapping

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"go.yaml.in/yaml/v3"
)

// Format is the on-disk encoding of a mapping file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Suffix joins the template base name and the format extension.
const Suffix = "-classes"

// ErrUnknownFormat is returned for a format name other than json, yaml or toml.
var ErrUnknownFormat = errors.New("unknown mapping format")

// ParseFormat validates a format name. The empty string selects JSON.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("%w: %q (want json, yaml or toml)", ErrUnknownFormat, s)
}

// FileName returns the mapping file name for a template base name,
// e.g. "card" becomes "card-classes.json".
func FileName(base string, f Format) string {
	return base + Suffix + "." + string(f)
}

// ViewName recovers the template base name from a mapping file name.
// ok is false when name is not a mapping file of format f.
func ViewName(name string, f Format) (view string, ok bool) {
	tail := Suffix + "." + string(f)
	if !strings.HasSuffix(name, tail) || len(name) == len(tail) {
		return "", false
	}
	return strings.TrimSuffix(name, tail), true
}

// Encode serializes m. JSON output uses two-space indentation with no
// trailing newline; TOML output is sorted by identifier.
func Encode(m *Mapping, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		raw, err := m.MarshalJSON()
		if err != nil {
			return nil, err
		}
		var out bytes.Buffer
		if err := json.Indent(&out, raw, "", "  "); err != nil {
			return nil, err
		}
		return out.Bytes(), nil

	case FormatYAML:
		root := &yaml.Node{Kind: yaml.MappingNode}
		for _, id := range m.keys {
			val := &yaml.Node{}
			if err := val.Encode(m.records[id]); err != nil {
				return nil, fmt.Errorf("record %q: %w", id, err)
			}
			root.Content = append(root.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: id},
				val,
			)
		}
		var out bytes.Buffer
		enc := yaml.NewEncoder(&out)
		enc.SetIndent(2)
		if err := enc.Encode(root); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return out.Bytes(), nil

	case FormatTOML:
		return toml.Marshal(m.records)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// Decode parses data written by Encode. JSON and YAML keep the file's key
// order; TOML keys come back sorted.
func Decode(data []byte, f Format) (*Mapping, error) {
	m := New()
	switch f {
	case FormatJSON:
		if len(bytes.TrimSpace(data)) == 0 {
			return m, nil
		}
		if err := m.UnmarshalJSON(data); err != nil {
			return nil, err
		}
		return m, nil

	case FormatYAML:
		var doc yaml.Node
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		root := &doc
		if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
			root = root.Content[0]
		}
		switch root.Kind {
		case 0, yaml.DocumentNode:
			return m, nil
		case yaml.MappingNode:
		default:
			return nil, fmt.Errorf("line %d: expected mapping", root.Line)
		}
		for i := 0; i+1 < len(root.Content); i += 2 {
			var rec Record
			if err := root.Content[i+1].Decode(&rec); err != nil {
				return nil, fmt.Errorf("record %q: %w", root.Content[i].Value, err)
			}
			m.Set(root.Content[i].Value, rec)
		}
		return m, nil

	case FormatTOML:
		records := make(map[string]Record)
		if err := toml.Unmarshal(data, &records); err != nil {
			return nil, err
		}
		ids := make([]string, 0, len(records))
		for id := range records {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			m.Set(id, records[id])
		}
		return m, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// Write encodes m into dir as FileName(base, f), creating dir if needed,
// and returns the path written.
func Write(dir, base string, m *Mapping, f Format) (string, error) {
	data, err := Encode(m, f)
	if err != nil {
		return "", fmt.Errorf("encode mapping: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create mapping directory: %w", err)
	}
	path := filepath.Join(dir, FileName(base, f))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write mapping: %w", err)
	}
	return path, nil
}

// Read loads a mapping file.
func Read(path string, f Format) (*Mapping, error) {
	// #nosec G304 - path comes from the mapping directory listing
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mapping: %w", err)
	}
	m, err := Decode(data, f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return m, nil
}
