package codec

import (
	"bytes"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// Field -
type Field struct {
	Key   string
	Value any
}

// Object - JSON object which keeps insertion order of its keys.
// Encoding an Object writes keys in exactly that order.
type Object []Field

// Obj builds an Object from alternating keys and values: Obj("a", 1, "b", 2).
// It panics on an odd argument count or a non-string key.
func Obj(kv ...any) Object {
	if len(kv)%2 != 0 {
		panic("codec.Obj: odd number of arguments")
	}
	obj := make(Object, 0, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic("codec.Obj: key must be a string")
		}
		obj = obj.Set(key, kv[i+1])
	}
	return obj
}

// Set replaces the value of an existing key in place or appends a new one.
func (o Object) Set(key string, value any) Object {
	for i := range o {
		if o[i].Key == key {
			o[i].Value = value
			return o
		}
	}
	return append(o, Field{Key: key, Value: value})
}

// Get -
func (o Object) Get(key string) (any, bool) {
	for i := range o {
		if o[i].Key == key {
			return o[i].Value, true
		}
	}
	return nil, false
}

// Keys -
func (o Object) Keys() []string {
	keys := make([]string, len(o))
	for i := range o {
		keys[i] = o[i].Key
	}
	return keys
}

// Len -
func (o Object) Len() int {
	return len(o)
}

// MarshalJSON -
func (o Object) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("null"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.MarshalNoEscape(o[i].Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		value, err := json.MarshalNoEscape(o[i].Value)
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON keeps the order of keys as they appear in data. Nested objects become Object too.
func (o *Object) UnmarshalJSON(data []byte) error {
	value, err := ParseArgs(data)
	if err != nil {
		return err
	}
	obj, ok := value.(Object)
	if !ok {
		return errors.Errorf("expected JSON object, got %T", value)
	}
	*o = obj
	return nil
}
