// File: lixenwraith/typedconf/convenience.go
package typedconf

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format selects the rendering used by Dump
type Format string

const (
	FormatText Format = "text"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Formats lists every supported output format
var Formats = []Format{FormatText, FormatTOML, FormatYAML, FormatJSON}

// ParseFormat maps a format name to a Format
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "toml", "tml":
		return FormatTOML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unsupported output format %q", s)
}

// Quick loads and types a configuration file with default options.
func Quick(path string) (*TypedConfig, error) {
	raw, err := LoadFile(path, DefaultLoaderOptions())
	if err != nil {
		return nil, err
	}
	return Build(raw), nil
}

// MustQuick is like Quick but panics on error
func MustQuick(path string) *TypedConfig {
	tc, err := Quick(path)
	if err != nil {
		panic(fmt.Sprintf("config initialization failed: %v", err))
	}
	return tc
}

// Require returns a validator failing when any of keys is missing.
// Value-less keys count as present.
func Require(keys ...string) ValidatorFunc {
	return func(tc *TypedConfig) error {
		var missing []string
		for _, key := range keys {
			if !tc.Has(key) {
				missing = append(missing, key)
			}
		}
		if len(missing) > 0 {
			return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
		}
		return nil
	}
}

// RequireKind returns a validator failing unless key exists with the given kind.
func RequireKind(key string, kind Kind) ValidatorFunc {
	return func(tc *TypedConfig) error {
		have, exists := tc.Kind(key)
		if !exists {
			return fmt.Errorf("%w: %s", ErrKeyNotFound, key)
		}
		if have != kind {
			return mismatch(key, have, kind)
		}
		return nil
	}
}

// Debug returns the text rendering of all tables
func (tc *TypedConfig) Debug() string {
	var b strings.Builder
	tc.writeText(&b)
	return b.String()
}

// Dump writes the typed configuration to w in the given format
func (tc *TypedConfig) Dump(w io.Writer, format Format) error {
	switch format {
	case FormatText, "":
		var b strings.Builder
		tc.writeText(&b)
		_, err := io.WriteString(w, b.String())
		return err

	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(tc.tree(format)); err != nil {
			return fmt.Errorf("failed to marshal config data to TOML: %w", err)
		}
		_, err := w.Write(buf.Bytes())
		return err

	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(tc.tree(format)); err != nil {
			return fmt.Errorf("failed to marshal config data to YAML: %w", err)
		}
		return encoder.Close()

	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(tc.tree(format)); err != nil {
			return fmt.Errorf("failed to marshal config data to JSON: %w", err)
		}
		return nil
	}

	return fmt.Errorf("unsupported output format %q", format)
}

// tree arranges the tables for the structured encoders. Each encoder gets
// integers and floats in a shape it can represent without loss.
func (tc *TypedConfig) tree(format Format) map[string]any {
	integers := make(map[string]any, len(tc.integers))
	for key, i := range tc.integers {
		if format == FormatJSON {
			integers[key] = json.Number(i.String())
		} else {
			integers[key] = nativeInteger(i)
		}
	}

	floats := make(map[string]any, len(tc.floats))
	for key, f := range tc.floats {
		if format == FormatJSON && (math.IsInf(f, 0) || math.IsNaN(f)) {
			floats[key] = strconv.FormatFloat(f, 'g', -1, 64)
		} else {
			floats[key] = f
		}
	}

	none := sortedKeys(tc.empty)

	return map[string]any{
		KindInteger.String(): integers,
		KindFloat.String():   floats,
		KindBoolean.String(): copyMap(tc.bools),
		KindString.String():  copyMap(tc.strings),
		KindNone.String():    none,
	}
}

// writeText renders one block per kind with keys sorted
func (tc *TypedConfig) writeText(b *strings.Builder) {
	b.WriteString("Typed configuration:\n")
	for _, kind := range []Kind{KindInteger, KindFloat, KindBoolean, KindString, KindNone} {
		keys := tc.KeysOf(kind)
		fmt.Fprintf(b, "  %s (%d):\n", kind, len(keys))
		for _, key := range keys {
			v, _ := tc.Get(key)
			switch kind {
			case KindNone:
				fmt.Fprintf(b, "    %s\n", key)
			case KindString:
				fmt.Fprintf(b, "    %s = %q\n", key, v.String())
			default:
				fmt.Fprintf(b, "    %s = %s\n", key, v.String())
			}
		}
	}
}
