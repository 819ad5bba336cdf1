// File: lixenwraith/typedconf/helper.go
package typedconf

import (
	"math/big"
	"sort"
	"strings"
)

// sortedKeys returns the keys of m in ascending order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// copyMap returns a shallow copy of m.
func copyMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// nativeInteger narrows a 128-bit integer to int64 when it fits,
// otherwise returns its decimal text.
func nativeInteger(i *big.Int) any {
	if i.IsInt64() {
		return i.Int64()
	}
	return i.String()
}

// cutComment strips an inline comment: a prefix preceded by whitespace.
func cutComment(line string, prefixes []string) string {
	cut := len(line)
	for _, p := range prefixes {
		if p == "" {
			continue
		}
		for i := 1; i < len(line); i++ {
			if i >= cut {
				break
			}
			if strings.HasPrefix(line[i:], p) && (line[i-1] == ' ' || line[i-1] == '\t') {
				cut = i
				break
			}
		}
	}
	return strings.TrimSpace(line[:cut])
}

// splitDelimiter splits line at the earliest occurring delimiter.
func splitDelimiter(line string, delimiters []string) (key, value string, found bool) {
	at, width := -1, 0
	for _, d := range delimiters {
		if d == "" {
			continue
		}
		if i := strings.Index(line, d); i >= 0 && (at < 0 || i < at) {
			at, width = i, len(d)
		}
	}
	if at < 0 {
		return line, "", false
	}
	return line[:at], line[at+width:], true
}
