package codec

import (
	"math"
	"testing"

	"github.com/dipdup-io/near-abi/pkg/abi"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func paramsOf(names ...string) []abi.Parameter {
	params := make([]abi.Parameter, len(names))
	for i := range names {
		params[i] = abi.Parameter{
			Name: names[i],
			TypeInfo: abi.TypeInfo{
				SerializationType: abi.SerializationJSON,
			},
		}
	}
	return params
}

func TestSerialize(t *testing.T) {
	tests := []struct {
		name   string
		fn     string
		args   []any
		params []abi.Parameter
		want   string
	}{
		{
			name:   "positional",
			fn:     "fn",
			args:   []any{[]int{1, 2}, []int{3, 4}, 5},
			params: paramsOf("a", "b", "c"),
			want:   `{"a":[1,2],"b":[3,4],"c":5}`,
		}, {
			name:   "keyed keeps caller order",
			fn:     "fn",
			args:   []any{Obj("c", 5, "a", []int{1, 2}, "b", []int{3, 4})},
			params: paramsOf("a", "b", "c"),
			want:   `{"c":5,"a":[1,2],"b":[3,4]}`,
		}, {
			name:   "keyed pointer object",
			fn:     "fn",
			args:   []any{&Object{{Key: "b", Value: "x"}, {Key: "a", Value: "y"}}},
			params: paramsOf("a", "b"),
			want:   `{"b":"x","a":"y"}`,
		}, {
			name:   "keyed go map is sorted",
			fn:     "fn",
			args:   []any{map[string]any{"c": 5, "b": []int{3, 4}, "a": []int{1, 2}}},
			params: paramsOf("a", "b", "c"),
			want:   `{"a":[1,2],"b":[3,4],"c":5}`,
		}, {
			name:   "keyed typed map",
			fn:     "fn",
			args:   []any{map[string]string{"y": "2", "x": "1"}},
			params: paramsOf("x", "y"),
			want:   `{"x":"1","y":"2"}`,
		}, {
			name:   "single object for single param is positional",
			fn:     "fn",
			args:   []any{Obj("x", 1)},
			params: paramsOf("point"),
			want:   `{"point":{"x":1}}`,
		}, {
			name:   "no params",
			fn:     "no_params",
			args:   nil,
			params: nil,
			want:   ``,
		}, {
			name:   "empty params",
			fn:     "no_params",
			args:   []any{},
			params: []abi.Parameter{},
			want:   ``,
		}, {
			name:   "html is not escaped",
			fn:     "fn",
			args:   []any{"<a&b>"},
			params: paramsOf("s"),
			want:   `{"s":"<a&b>"}`,
		}, {
			name:   "nested object order",
			fn:     "fn",
			args:   []any{Obj("z", 1, "y", Obj("q", true, "p", nil))},
			params: paramsOf("obj"),
			want:   `{"obj":{"z":1,"y":{"q":true,"p":null}}}`,
		}, {
			name:   "borsh tagged params are still json",
			fn:     "set_pair",
			args:   []any{[]int{1, 2}},
			params: []abi.Parameter{{Name: "pair", TypeInfo: abi.TypeInfo{SerializationType: abi.SerializationBorsh}}},
			want:   `{"pair":[1,2]}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Serialize(tt.fn, tt.args, tt.params)
			require.NoError(t, err)
			require.NotNil(t, got)
			require.Equal(t, tt.want, string(got))
		})
	}
}

func TestSerializeKeyedMatchesPositional(t *testing.T) {
	params := paramsOf("a", "b", "c")

	positional, err := Serialize("fn", []any{1, "two", []int{3}}, params)
	require.NoError(t, err)

	keyed, err := Serialize("fn", []any{Obj("a", 1, "b", "two", "c", []int{3})}, params)
	require.NoError(t, err)

	require.Equal(t, positional, keyed)
}

func TestSerializeIsDeterministic(t *testing.T) {
	params := paramsOf("a", "b", "c")
	args := []any{map[string]any{"c": 1, "a": 2, "b": 3}}

	first, err := Serialize("fn", args, params)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		next, err := Serialize("fn", args, params)
		require.NoError(t, err)
		require.Equal(t, first, next)
	}
}

func TestSerializeErrors(t *testing.T) {
	tests := []struct {
		name     string
		args     []any
		params   []abi.Parameter
		target   error
		contains []string
	}{
		{
			name:     "positional count mismatch",
			args:     []any{[]int{1, 2}, []int{3, 4}},
			params:   paramsOf("a", "b", "c"),
			target:   ErrArity,
			contains: []string{"fn", "expected 3 got 2"},
		}, {
			name:     "keyed field count mismatch",
			args:     []any{Obj("a", []int{1, 2}, "b", []int{3, 4})},
			params:   paramsOf("a", "b", "c"),
			target:   ErrMissingField,
			contains: []string{"fn", "fields", "expected 3 got 2"},
		}, {
			name:     "no arguments supplied",
			args:     nil,
			params:   paramsOf("a", "b"),
			target:   ErrArity,
			contains: []string{"fn", "expected 2"},
		}, {
			name:     "arguments for niladic function",
			args:     []any{"x", 1},
			params:   nil,
			target:   ErrArity,
			contains: []string{"fn accepts no arguments, got x,1"},
		}, {
			name:     "single non object argument",
			args:     []any{[]int{1, 2}},
			params:   paramsOf("a", "b"),
			target:   ErrArity,
			contains: []string{"invalid number of parameters", "expected 2 got 1"},
		}, {
			name:     "nil map is not an object",
			args:     []any{map[string]any(nil)},
			params:   paramsOf("a", "b"),
			target:   ErrArity,
			contains: []string{"expected 2 got 1"},
		}, {
			name:     "missing key",
			args:     []any{Obj("a", 1, "x", 2)},
			params:   paramsOf("a", "b"),
			target:   ErrMissingField,
			contains: []string{"fn", "expected key b"},
		}, {
			name:     "zero value counts as missing",
			args:     []any{Obj("a", 1, "b", 0)},
			params:   paramsOf("a", "b"),
			target:   ErrMissingField,
			contains: []string{"expected key b"},
		}, {
			name:     "empty string counts as missing",
			args:     []any{map[string]any{"a": "", "b": 1}},
			params:   paramsOf("a", "b"),
			target:   ErrMissingField,
			contains: []string{"expected key a"},
		}, {
			name:     "false counts as missing",
			args:     []any{Obj("a", false, "b", 1)},
			params:   paramsOf("a", "b"),
			target:   ErrMissingField,
			contains: []string{"expected key a"},
		}, {
			name:     "NaN counts as missing",
			args:     []any{Obj("a", math.NaN(), "b", 1)},
			params:   paramsOf("a", "b"),
			target:   ErrMissingField,
			contains: []string{"expected key a"},
		}, {
			name:     "json zero counts as missing",
			args:     []any{Obj("a", json.Number("0"), "b", 1)},
			params:   paramsOf("a", "b"),
			target:   ErrMissingField,
			contains: []string{"expected key a"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Serialize("fn", tt.args, tt.params)
			require.Error(t, err)
			require.Nil(t, got)
			require.True(t, errors.Is(err, tt.target), err.Error())
			for _, s := range tt.contains {
				require.Contains(t, err.Error(), s)
			}
		})
	}
}

func TestSerializeErrorTypes(t *testing.T) {
	_, err := Serialize("fn", []any{1, 2}, paramsOf("a", "b", "c"))
	var arity *ArityError
	require.ErrorAs(t, err, &arity)
	require.Equal(t, "fn", arity.Function)
	require.Equal(t, 3, arity.Expected)
	require.Equal(t, 2, arity.Got)
	require.False(t, errors.Is(err, ErrMissingField))

	_, err = Serialize("fn", []any{Obj("a", 1, "c", 2)}, paramsOf("a", "b"))
	var missing *MissingFieldError
	require.ErrorAs(t, err, &missing)
	require.Equal(t, "fn", missing.Function)
	require.Equal(t, "b", missing.Field)
	require.False(t, errors.Is(err, ErrArity))
}

func TestSerializeStrictPresence(t *testing.T) {
	params := paramsOf("a", "b")

	got, err := Serialize("fn", []any{Obj("a", 0, "b", "")}, params, WithStrictPresence())
	require.NoError(t, err)
	require.Equal(t, `{"a":0,"b":""}`, string(got))

	_, err = Serialize("fn", []any{Obj("a", 0, "c", "")}, params, WithStrictPresence())
	require.ErrorIs(t, err, ErrMissingField)
}

func TestDeserialize(t *testing.T) {
	tests := []struct {
		name string
		data string
		want any
	}{
		{
			name: "object",
			data: `{"a":[1,2],"b":"x"}`,
			want: map[string]any{
				"a": []any{json.Number("1"), json.Number("2")},
				"b": "x",
			},
		}, {
			name: "empty object",
			data: `{}`,
			want: map[string]any{},
		}, {
			name: "big number",
			data: `340282366920938463463374607431768211455`,
			want: json.Number("340282366920938463463374607431768211455"),
		}, {
			name: "string",
			data: `"near"`,
			want: "near",
		}, {
			name: "null",
			data: `null`,
			want: nil,
		}, {
			name: "empty",
			data: ``,
			want: NoValue,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Deserialize([]byte(tt.data))
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}

	_, err := Deserialize([]byte(`{"a":`))
	require.Error(t, err)
}

func TestDeserializeRejectsMalformedPayload(t *testing.T) {
	for _, data := range []string{
		`1 garbage`,
		`{"a":1}{"b":2}`,
		`[1,2] 3`,
		` `,
		"\n\t",
	} {
		t.Run(data, func(t *testing.T) {
			_, err := Deserialize([]byte(data))
			require.Error(t, err)
		})
	}

	value, err := Deserialize([]byte("{\"a\":1}\n"))
	require.NoError(t, err)
	require.Equal(t, map[string]any{"a": json.Number("1")}, value)

	var dst []int
	require.Error(t, DeserializeInto([]byte(`[1] [2]`), &dst))
}

func TestNoValueDiffersFromEmptyObject(t *testing.T) {
	empty, err := Deserialize(nil)
	require.NoError(t, err)
	require.True(t, IsNoValue(empty))

	obj, err := Deserialize([]byte(`{}`))
	require.NoError(t, err)
	require.False(t, IsNoValue(obj))
}

func TestRoundTrip(t *testing.T) {
	values := []any{
		map[string]any{
			"name":     "token",
			"decimals": json.Number("24"),
			"owners":   []any{"alice.near", "bob.near"},
			"paused":   false,
			"meta":     nil,
			"nested":   map[string]any{"x": []any{json.Number("1.5"), map[string]any{}}},
		},
		[]any{},
		"",
		true,
		json.Number("-12"),
	}
	for _, value := range values {
		data, err := json.Marshal(value)
		require.NoError(t, err)

		got, err := Deserialize(data)
		require.NoError(t, err)
		require.Equal(t, value, got)
	}
}

func TestDeserializeInto(t *testing.T) {
	var pair []uint32
	require.NoError(t, DeserializeInto([]byte(`[4,6]`), &pair))
	require.Equal(t, []uint32{4, 6}, pair)

	var untouched = []uint32{1}
	require.NoError(t, DeserializeInto(nil, &untouched))
	require.Equal(t, []uint32{1}, untouched)

	require.Error(t, DeserializeInto([]byte(`"x"`), &pair))
}
