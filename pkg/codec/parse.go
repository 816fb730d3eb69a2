package codec

import (
	"bytes"
	stdjson "encoding/json"
	"io"

	"github.com/pkg/errors"
)

// ParseArgs decodes a JSON value written by a caller. Objects are returned as Object
// with keys in the order they appear in data, so the value re-encodes with the same key order.
func ParseArgs(data []byte) (any, error) {
	decoder := stdjson.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	value, err := parseValue(decoder)
	if err != nil {
		return nil, errors.Wrap(err, "parse arguments")
	}
	if _, err := decoder.Token(); err != io.EOF {
		return nil, errors.New("parse arguments: unexpected data after top-level value")
	}
	return value, nil
}

func parseValue(decoder *stdjson.Decoder) (any, error) {
	token, err := decoder.Token()
	if err != nil {
		return nil, err
	}

	delim, ok := token.(stdjson.Delim)
	if !ok {
		return token, nil
	}

	switch delim {
	case '{':
		obj := make(Object, 0)
		for decoder.More() {
			keyToken, err := decoder.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyToken.(string)
			if !ok {
				return nil, errors.Errorf("unexpected object key: %v", keyToken)
			}
			value, err := parseValue(decoder)
			if err != nil {
				return nil, err
			}
			obj = obj.Set(key, value)
		}
		if _, err := decoder.Token(); err != nil {
			return nil, err
		}
		return obj, nil

	case '[':
		arr := make([]any, 0)
		for decoder.More() {
			value, err := parseValue(decoder)
			if err != nil {
				return nil, err
			}
			arr = append(arr, value)
		}
		if _, err := decoder.Token(); err != nil {
			return nil, err
		}
		return arr, nil
	}

	return nil, errors.Errorf("unexpected delimiter: %v", delim)
}
