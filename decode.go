// FILE: lixenwraith/typedconf/decode.go
package typedconf

import (
	"fmt"
	"math/big"
	"reflect"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// TagName is the struct tag Scan reads field names from
const TagName = "ini"

var bigIntType = reflect.TypeOf(big.Int{})

// Scan decodes the typed configuration into target, a non-nil pointer to a
// struct or map. Fields are matched by the "ini" tag. Value-less keys leave
// their fields untouched.
func (tc *TypedConfig) Scan(target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("target of Scan must be a non-nil pointer, got %T", target)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          TagName,
		WeaklyTypedInput: true,
		DecodeHook:       decodeHook(),
	})
	if err != nil {
		return fmt.Errorf("decoder creation failed: %w", err)
	}

	if err := decoder.Decode(tc.decodeInput()); err != nil {
		return fmt.Errorf("failed to scan config into %T: %w", target, err)
	}

	return nil
}

// decodeInput flattens the typed tables into a single map for mapstructure.
// Integers stay *big.Int so bigIntHookFunc can hand out exact values.
func (tc *TypedConfig) decodeInput() map[string]any {
	input := make(map[string]any, tc.Len())
	for key, v := range tc.integers {
		input[key] = v
	}
	for key, v := range tc.floats {
		input[key] = v
	}
	for key, v := range tc.bools {
		input[key] = v
	}
	for key, v := range tc.strings {
		input[key] = v
	}
	for key := range tc.empty {
		input[key] = nil
	}
	return input
}

// decodeHook returns the composite decode hook for all type conversions
func decodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		bigIntHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
}

// bigIntHookFunc passes 128-bit integers to *big.Int and big.Int fields and
// narrows them for every other target.
func bigIntHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		i, ok := data.(*big.Int)
		if !ok {
			return data, nil
		}

		switch {
		case t == bigIntType:
			return *new(big.Int).Set(i), nil
		case t.Kind() == reflect.Ptr && t.Elem() == bigIntType:
			return new(big.Int).Set(i), nil
		case t.Kind() == reflect.String:
			return i.String(), nil
		case t == reflect.TypeOf(time.Duration(0)):
			if !i.IsInt64() {
				return nil, fmt.Errorf("duration %s out of range", i)
			}
			return time.Duration(i.Int64()), nil
		}

		switch t.Kind() {
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			if i.Sign() < 0 || !i.IsUint64() {
				return nil, fmt.Errorf("integer %s does not fit %s", i, t)
			}
			return i.Uint64(), nil
		case reflect.Float32, reflect.Float64:
			f, _ := new(big.Float).SetInt(i).Float64()
			return f, nil
		}

		return nativeInteger(i), nil
	}
}
