package codec

import (
	"math"
	"math/big"
	"reflect"
	"strings"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const numericLike = "number, decimal string or big integer"

// ValidateNumeric checks that a gas-like or amount-like value is a number, a numeric string
// or a big integer. Falsy values (nil, zero, empty string) are treated as absent and pass.
func ValidateNumeric(name string, value any) error {
	if !truthy(value) {
		return nil
	}
	if _, err := ParseNumeric(value); err != nil {
		return &ArgumentTypeError{
			Name:     name,
			Expected: numericLike,
			Value:    value,
		}
	}
	return nil
}

// ParseNumeric converts any accepted numeric representation to decimal.
func ParseNumeric(value any) (decimal.Decimal, error) {
	switch typ := value.(type) {
	case decimal.Decimal:
		return typ, nil
	case *decimal.Decimal:
		if typ != nil {
			return *typ, nil
		}
	case *big.Int:
		if typ != nil {
			return decimal.NewFromBigInt(typ, 0), nil
		}
	case big.Int:
		return decimal.NewFromBigInt(&typ, 0), nil
	case *uint256.Int:
		if typ != nil {
			return decimal.NewFromBigInt(typ.ToBig(), 0), nil
		}
	case uint256.Int:
		return decimal.NewFromBigInt(typ.ToBig(), 0), nil
	case string:
		return parseNumericString(typ)
	case floater:
		if s, ok := value.(interface{ String() string }); ok {
			return parseNumericString(s.String())
		}
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return decimal.NewFromInt(v.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(v.Uint()), 0), nil
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return decimal.Zero, errors.Errorf("not a finite number: %v", f)
		}
		return decimal.NewFromFloat(f), nil
	}

	return decimal.Zero, errors.Errorf("not a numeric value: %T", value)
}

func parseNumericString(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "0x") || strings.HasPrefix(lower, "0o") || strings.HasPrefix(lower, "0b") {
		i, ok := new(big.Int).SetString(lower, 0)
		if !ok {
			return decimal.Zero, errors.Errorf("invalid numeric string: %s", s)
		}
		return decimal.NewFromBigInt(i, 0), nil
	}
	return decimal.NewFromString(s)
}
