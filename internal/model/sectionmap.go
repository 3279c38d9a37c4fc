package model

import (
	"bytes"
	"encoding/json"

	"github.com/rotisserie/eris"
)

// SectionMap is an insertion-ordered mapping of section titles to content.
// Setting an existing key replaces its content but keeps the position where
// the key first appeared.
type SectionMap struct {
	keys   []string
	values map[string]string
}

// NewSectionMap returns an empty SectionMap.
func NewSectionMap() *SectionMap {
	return &SectionMap{values: make(map[string]string)}
}

// Set stores content under title, appending the title on first insert.
func (m *SectionMap) Set(title, content string) {
	if m.values == nil {
		m.values = make(map[string]string)
	}
	if _, ok := m.values[title]; !ok {
		m.keys = append(m.keys, title)
	}
	m.values[title] = content
}

// Get returns the content stored under title.
func (m *SectionMap) Get(title string) (string, bool) {
	content, ok := m.values[title]
	return content, ok
}

// Keys returns the titles in insertion order.
func (m *SectionMap) Keys() []string {
	keys := make([]string, len(m.keys))
	copy(keys, m.keys)
	return keys
}

// Len returns the number of sections.
func (m *SectionMap) Len() int {
	return len(m.keys)
}

// MarshalJSON encodes the map as a JSON object in insertion order.
func (m *SectionMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, eris.Wrap(err, "model: marshal section title")
		}
		v, err := json.Marshal(m.values[key])
		if err != nil {
			return nil, eris.Wrap(err, "model: marshal section content")
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object preserving document key order.
func (m *SectionMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return eris.Wrap(err, "model: decode section map")
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return eris.New("model: section map must be a JSON object")
	}
	m.keys = nil
	m.values = make(map[string]string)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return eris.Wrap(err, "model: decode section title")
		}
		key, ok := keyTok.(string)
		if !ok {
			return eris.New("model: section title must be a string")
		}
		var value string
		if err := dec.Decode(&value); err != nil {
			return eris.Wrap(err, "model: decode section content")
		}
		m.Set(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return eris.Wrap(err, "model: decode section map close")
	}
	return nil
}

// SectionSummary is one section's bullet condensation for the infographic.
type SectionSummary struct {
	Title   string   `json:"title"`
	Bullets []string `json:"bullets"`
}
