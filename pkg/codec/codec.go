package codec

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"reflect"
	"sort"
	"strings"

	"github.com/dipdup-io/near-abi/pkg/abi"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// None - type of NoValue
type None struct{}

// NoValue is returned by Deserialize for an empty payload. It differs from an empty object.
var NoValue = None{}

// IsNoValue -
func IsNoValue(value any) bool {
	_, ok := value.(None)
	return ok
}

type options struct {
	strictPresence bool
}

// Option -
type Option func(*options)

// WithStrictPresence makes keyed calls test parameter presence by key existence.
// By default a key holding a falsy value (nil, false, 0, NaN, "") counts as missing.
func WithStrictPresence() Option {
	return func(o *options) {
		o.strictPresence = true
	}
}

// Serialize binds args to the declared params of the function and encodes them as a JSON object.
//
// Arguments are bound positionally when their count equals the parameter count.
// Otherwise a single mapping argument (Object, *Object or map[string]T) is taken as
// the parameter object itself and is encoded in its own key order. Every parameter is
// encoded as JSON regardless of its serialization type.
func Serialize(function string, args []any, params []abi.Parameter, opts ...Option) ([]byte, error) {
	var o options
	for i := range opts {
		opts[i](&o)
	}

	if len(args) == 0 {
		if len(params) > 0 {
			return nil, newArityError(function, len(params), 0,
				"passed no parameters for %s, expected %d", function, len(params))
		}
		return []byte{}, nil
	}

	if len(params) == 0 {
		return nil, newArityError(function, 0, len(args),
			"%s accepts no arguments, got %s", function, joinArgs(args))
	}

	var object Object
	switch {
	case len(args) == len(params):
		object = make(Object, len(params))
		for i := range params {
			object[i] = Field{Key: params[i].Name, Value: args[i]}
		}

	case len(args) == 1:
		obj, ok := asObject(args[0])
		if !ok {
			return nil, newArityError(function, len(params), len(args),
				"invalid number of parameters for %s, expected %d got %d", function, len(params), len(args))
		}
		if obj.Len() != len(params) {
			err := newArityError(function, len(params), obj.Len(),
				"invalid number of fields for %s, expected %d got %d", function, len(params), obj.Len())
			err.keyed = true
			return nil, err
		}
		for i := range params {
			value, has := obj.Get(params[i].Name)
			if !has || (!o.strictPresence && !truthy(value)) {
				return nil, &MissingFieldError{
					Function: function,
					Field:    params[i].Name,
				}
			}
		}
		object = obj

	default:
		return nil, newArityError(function, len(params), len(args),
			"invalid number of parameters for %s, expected %d got %d", function, len(params), len(args))
	}

	data, err := object.MarshalJSON()
	if err != nil {
		return nil, errors.Wrapf(err, "serialize arguments of %s", function)
	}
	return data, nil
}

// Deserialize decodes a JSON payload. Numbers are kept as json.Number.
func Deserialize(data []byte) (any, error) {
	if len(data) == 0 {
		return NoValue, nil
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, errors.Wrap(err, "deserialize")
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return nil, errors.New("deserialize: unexpected data after top-level value")
	}
	return value, nil
}

// DeserializeInto decodes a JSON payload into dst. An empty payload leaves dst untouched.
func DeserializeInto(data []byte, dst any) error {
	if len(data) == 0 {
		return nil
	}
	return errors.Wrap(json.Unmarshal(data, dst), "deserialize")
}

// joinArgs - comma separated arguments without brackets
func joinArgs(args []any) string {
	parts := make([]string, len(args))
	for i := range args {
		parts[i] = fmt.Sprint(args[i])
	}
	return strings.Join(parts, ",")
}

func asObject(arg any) (Object, bool) {
	switch typ := arg.(type) {
	case nil:
		return nil, false
	case Object:
		return typ, typ != nil
	case *Object:
		if typ == nil || *typ == nil {
			return nil, false
		}
		return *typ, true
	}

	value := reflect.ValueOf(arg)
	if value.Kind() != reflect.Map || value.Type().Key().Kind() != reflect.String || value.IsNil() {
		return nil, false
	}

	// go maps have no insertion order, sorted keys are the only stable one
	keys := make([]string, 0, value.Len())
	iter := value.MapRange()
	for iter.Next() {
		keys = append(keys, iter.Key().String())
	}
	sort.Strings(keys)

	obj := make(Object, len(keys))
	for i := range keys {
		obj[i] = Field{
			Key:   keys[i],
			Value: value.MapIndex(reflect.ValueOf(keys[i]).Convert(value.Type().Key())).Interface(),
		}
	}
	return obj, true
}

type floater interface {
	Float64() (float64, error)
}

func truthy(value any) bool {
	switch typ := value.(type) {
	case nil:
		return false
	case bool:
		return typ
	case string:
		return typ != ""
	case floater:
		f, err := typ.Float64()
		if err != nil {
			return true
		}
		return f != 0 && !math.IsNaN(f)
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() != 0
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		return f != 0 && !math.IsNaN(f)
	case reflect.String:
		return v.Len() > 0
	case reflect.Bool:
		return v.Bool()
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return !v.IsNil()
	}
	return true
}
