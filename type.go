// File: lixenwraith/typedconf/type.go
package typedconf

import (
	"fmt"
	"math/big"
)

// lookup returns the value for key or an ErrKeyNotFound error.
func (tc *TypedConfig) lookup(key string) (Value, error) {
	v, found := tc.Get(key)
	if !found {
		return Value{}, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	return v, nil
}

func mismatch(key string, have, want Kind) error {
	return fmt.Errorf("%w: key %s holds %s, not %s", ErrKindMismatch, key, have, want)
}

// Int retrieves an integer value with its full 128-bit precision.
func (tc *TypedConfig) Int(key string) (*big.Int, error) {
	v, err := tc.lookup(key)
	if err != nil {
		return nil, err
	}
	i, ok := v.Int()
	if !ok {
		return nil, mismatch(key, v.kind, KindInteger)
	}
	return i, nil
}

// Int64 retrieves an integer value that fits in int64.
func (tc *TypedConfig) Int64(key string) (int64, error) {
	i, err := tc.Int(key)
	if err != nil {
		return 0, err
	}
	if !i.IsInt64() {
		return 0, fmt.Errorf("cannot convert integer %s to int64 for key %s: overflow", i, key)
	}
	return i.Int64(), nil
}

// Float64 retrieves a float value. Integer values are converted, rounding
// to the nearest float64.
func (tc *TypedConfig) Float64(key string) (float64, error) {
	v, err := tc.lookup(key)
	if err != nil {
		return 0.0, err
	}

	switch v.kind {
	case KindFloat:
		return v.f, nil
	case KindInteger:
		f, _ := new(big.Float).SetInt(v.i).Float64()
		return f, nil
	}

	return 0.0, mismatch(key, v.kind, KindFloat)
}

// Bool retrieves a boolean value. No conversion from other kinds is
// attempted: "1" and "yes" are never booleans.
func (tc *TypedConfig) Bool(key string) (bool, error) {
	v, err := tc.lookup(key)
	if err != nil {
		return false, err
	}
	b, ok := v.Bool()
	if !ok {
		return false, mismatch(key, v.kind, KindBoolean)
	}
	return b, nil
}

// String retrieves a value as text. String values are returned verbatim,
// other kinds in canonical form, and value-less keys as "".
func (tc *TypedConfig) String(key string) (string, error) {
	v, err := tc.lookup(key)
	if err != nil {
		return "", err
	}
	return v.String(), nil
}
