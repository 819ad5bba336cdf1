// File: lixenwraith/typedconf/doc.go

// Package typedconf loads INI configuration files and infers a concrete
// scalar type for every value, producing lookup tables partitioned by type.
//
// Features:
//   - INI reader with sections, comments, and case folding
//   - Type inference with a fixed precedence: integer, float, boolean, string
//   - 128-bit integers, exact and without leading zeros
//   - Typed accessors with kind checking
//   - Struct decoding via the "ini" tag
//   - Text, TOML, YAML and JSON output
//   - Builder with file discovery, validators and structured logging
//   - File watching with debounced reloads
//
// Quick Start:
//
//	tc, err := typedconf.Quick("app.conf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	count, _ := tc.Int64("count")
//	debug, _ := tc.Bool("debug")
//
// Classification:
//
// Every value is tested against the following, in order; the first full
// match decides the table the key is filed under:
//  1. Integer: optional sign and decimal digits, within signed 128 bits ("0100" is 100)
//  2. Float: decimal literal with fraction and/or exponent ("1.1", "2e3", "inf")
//  3. Boolean: exactly "true" or "false"
//  4. String: anything else, verbatim ("100 0000", "1,000")
//
// Keys without a value ("key" or "key=") go to the no-value table.
// Section names are dropped: keys from every section share one namespace
// and a later definition replaces an earlier one.
//
// Thread Safety:
// A TypedConfig is immutable once built and safe for concurrent reads.
// Watcher publishes each reload as a new TypedConfig.
package typedconf
