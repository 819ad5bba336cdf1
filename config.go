// FILE: lixenwraith/typedconf/config.go
package typedconf

import (
	"fmt"
	"math/big"
	"sort"
)

// TypedConfig holds configuration values partitioned by inferred kind.
// Section names are not retained: keys from all sections share one namespace
// and every key lives in exactly one table. A TypedConfig is never modified
// after Build returns it.
type TypedConfig struct {
	integers map[string]*big.Int
	floats   map[string]float64
	bools    map[string]bool
	strings  map[string]string
	empty    map[string]struct{}
	kinds    map[string]Kind // key -> table holding it
}

func newTypedConfig() *TypedConfig {
	return &TypedConfig{
		integers: make(map[string]*big.Int),
		floats:   make(map[string]float64),
		bools:    make(map[string]bool),
		strings:  make(map[string]string),
		empty:    make(map[string]struct{}),
		kinds:    make(map[string]Kind),
	}
}

// Build classifies every value of raw into a new TypedConfig. Sections and
// keys are visited in file order; a key defined in several sections keeps
// its last definition.
func Build(raw *RawConfig) *TypedConfig {
	tc := newTypedConfig()
	if raw == nil {
		return tc
	}

	for _, section := range raw.sections {
		for _, key := range section.keys {
			value := section.values[key]
			if value == nil {
				tc.insert(key, NoValue())
				continue
			}
			tc.insert(key, Classify(*value))
		}
	}

	return tc
}

// insert files key under the table for v, evicting any earlier entry.
func (tc *TypedConfig) insert(key string, v Value) {
	if prev, exists := tc.kinds[key]; exists {
		tc.evict(key, prev)
	}

	switch v.kind {
	case KindNone:
		tc.empty[key] = struct{}{}
	case KindInteger:
		tc.integers[key] = v.i
	case KindFloat:
		tc.floats[key] = v.f
	case KindBoolean:
		tc.bools[key] = v.b
	case KindString:
		tc.strings[key] = v.s
	default:
		// Classify always falls back to KindString
		panic(fmt.Sprintf("typedconf: unclassified value of kind %v for key %q", v.kind, key))
	}
	tc.kinds[key] = v.kind
}

func (tc *TypedConfig) evict(key string, kind Kind) {
	switch kind {
	case KindNone:
		delete(tc.empty, key)
	case KindInteger:
		delete(tc.integers, key)
	case KindFloat:
		delete(tc.floats, key)
	case KindBoolean:
		delete(tc.bools, key)
	case KindString:
		delete(tc.strings, key)
	}
}

// Get returns the classified value for key.
func (tc *TypedConfig) Get(key string) (Value, bool) {
	kind, exists := tc.kinds[key]
	if !exists {
		return Value{}, false
	}

	switch kind {
	case KindInteger:
		return Value{kind: kind, i: tc.integers[key]}, true
	case KindFloat:
		return Value{kind: kind, f: tc.floats[key]}, true
	case KindBoolean:
		return Value{kind: kind, b: tc.bools[key]}, true
	case KindString:
		return Value{kind: kind, s: tc.strings[key]}, true
	default:
		return NoValue(), true
	}
}

// Kind returns the table key was filed under.
func (tc *TypedConfig) Kind(key string) (Kind, bool) {
	kind, exists := tc.kinds[key]
	return kind, exists
}

// Has reports whether key exists in any table.
func (tc *TypedConfig) Has(key string) bool {
	_, exists := tc.kinds[key]
	return exists
}

// IsEmpty reports whether key was present without a value.
func (tc *TypedConfig) IsEmpty(key string) bool {
	_, exists := tc.empty[key]
	return exists
}

// Len returns the number of distinct keys.
func (tc *TypedConfig) Len() int {
	return len(tc.kinds)
}

// Keys returns all keys, sorted.
func (tc *TypedConfig) Keys() []string {
	return sortedKeys(tc.kinds)
}

// KeysOf returns the keys of one table, sorted.
func (tc *TypedConfig) KeysOf(kind Kind) []string {
	var keys []string
	for key, k := range tc.kinds {
		if k == kind {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// Count returns the number of keys per kind.
func (tc *TypedConfig) Count() map[Kind]int {
	return map[Kind]int{
		KindInteger: len(tc.integers),
		KindFloat:   len(tc.floats),
		KindBoolean: len(tc.bools),
		KindString:  len(tc.strings),
		KindNone:    len(tc.empty),
	}
}

// Integers returns a copy of the integer table.
func (tc *TypedConfig) Integers() map[string]*big.Int {
	out := make(map[string]*big.Int, len(tc.integers))
	for k, v := range tc.integers {
		out[k] = new(big.Int).Set(v)
	}
	return out
}

// Floats returns a copy of the float table.
func (tc *TypedConfig) Floats() map[string]float64 {
	return copyMap(tc.floats)
}

// Bools returns a copy of the boolean table.
func (tc *TypedConfig) Bools() map[string]bool {
	return copyMap(tc.bools)
}

// Strings returns a copy of the string table.
func (tc *TypedConfig) Strings() map[string]string {
	return copyMap(tc.strings)
}

// Empty returns a copy of the value-less table.
func (tc *TypedConfig) Empty() map[string]struct{} {
	return copyMap(tc.empty)
}

// Equal reports whether both configs hold the same keys with equal values.
func (tc *TypedConfig) Equal(other *TypedConfig) bool {
	if other == nil || tc.Len() != other.Len() {
		return false
	}
	return len(tc.Diff(other)) == 0
}

// Diff returns the sorted keys that were added, removed, reclassified or
// changed value between tc and other.
func (tc *TypedConfig) Diff(other *TypedConfig) []string {
	if other == nil {
		other = newTypedConfig()
	}

	changed := make(map[string]bool)
	for key := range tc.kinds {
		a, _ := tc.Get(key)
		b, exists := other.Get(key)
		if !exists || !a.Equal(b) {
			changed[key] = true
		}
	}
	for key := range other.kinds {
		if !tc.Has(key) {
			changed[key] = true
		}
	}

	return sortedKeys(changed)
}
