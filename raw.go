// FILE: lixenwraith/typedconf/raw.go
package typedconf

import "sort"

// RawConfig is the untyped result of reading an INI source: sections in file
// order, each holding keys in file order mapped to an optional raw value.
// A nil value means the key was present without a value.
type RawConfig struct {
	sections []*RawSection
	index    map[string]*RawSection
}

// RawSection is a single named section of a RawConfig.
type RawSection struct {
	name   string
	keys   []string
	values map[string]*string
}

// NewRawConfig creates an empty RawConfig.
func NewRawConfig() *RawConfig {
	return &RawConfig{
		index: make(map[string]*RawSection),
	}
}

// RawFromMap builds a RawConfig from nested maps. Map iteration order is not
// stable, so sections and keys are added in sorted order.
func RawFromMap(m map[string]map[string]*string) *RawConfig {
	raw := NewRawConfig()
	for _, name := range sortedKeys(m) {
		section := raw.Section(name)
		props := m[name]
		for _, key := range sortedKeys(props) {
			section.Set(key, props[key])
		}
	}
	return raw
}

// Section returns the named section, creating it at the end if it does not exist.
func (r *RawConfig) Section(name string) *RawSection {
	if s, exists := r.index[name]; exists {
		return s
	}
	s := &RawSection{
		name:   name,
		values: make(map[string]*string),
	}
	r.sections = append(r.sections, s)
	r.index[name] = s
	return s
}

// Lookup returns the named section if present.
func (r *RawConfig) Lookup(name string) (*RawSection, bool) {
	s, exists := r.index[name]
	return s, exists
}

// Sections returns section names in file order.
func (r *RawConfig) Sections() []string {
	names := make([]string, len(r.sections))
	for i, s := range r.sections {
		names[i] = s.name
	}
	return names
}

// Len returns the total number of key entries across all sections.
func (r *RawConfig) Len() int {
	n := 0
	for _, s := range r.sections {
		n += len(s.keys)
	}
	return n
}

// RedefinedKeys returns keys that appear in more than one section, sorted.
// Build keeps the last definition of such keys.
func (r *RawConfig) RedefinedKeys() []string {
	seen := make(map[string]int)
	for _, s := range r.sections {
		for _, key := range s.keys {
			seen[key]++
		}
	}
	var dup []string
	for key, n := range seen {
		if n > 1 {
			dup = append(dup, key)
		}
	}
	sort.Strings(dup)
	return dup
}

// Name returns the section name.
func (s *RawSection) Name() string {
	return s.name
}

// Set stores a raw value for key. A nil value marks the key as value-less.
// Setting an existing key replaces its value but keeps its position.
func (s *RawSection) Set(key string, value *string) {
	if _, exists := s.values[key]; !exists {
		s.keys = append(s.keys, key)
	}
	if value != nil {
		v := *value
		value = &v
	}
	s.values[key] = value
}

// SetValue stores a raw string value for key.
func (s *RawSection) SetValue(key, value string) {
	s.Set(key, &value)
}

// SetEmpty marks key as present without a value.
func (s *RawSection) SetEmpty(key string) {
	s.Set(key, nil)
}

// Get returns the raw value for key and whether the key exists.
// The value is nil for value-less keys.
func (s *RawSection) Get(key string) (*string, bool) {
	v, exists := s.values[key]
	return v, exists
}

// Keys returns keys in file order.
func (s *RawSection) Keys() []string {
	return append([]string(nil), s.keys...)
}
