package codec

import (
	stdjson "encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name string
		data string
		want any
	}{
		{
			name: "object order",
			data: `{"c":5,"a":[1,2],"b":[3,4]}`,
			want: Obj(
				"c", stdjson.Number("5"),
				"a", []any{stdjson.Number("1"), stdjson.Number("2")},
				"b", []any{stdjson.Number("3"), stdjson.Number("4")},
			),
		}, {
			name: "nested",
			data: `{"z":{"b":true,"a":null}}`,
			want: Obj("z", Obj("b", true, "a", nil)),
		}, {
			name: "empty object",
			data: ` {} `,
			want: Object{},
		}, {
			name: "array",
			data: `["alice.near", 10]`,
			want: []any{"alice.near", stdjson.Number("10")},
		}, {
			name: "scalar",
			data: `"bob.near"`,
			want: "bob.near",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseArgs([]byte(tt.data))
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestParseArgsErrors(t *testing.T) {
	for _, data := range []string{
		``,
		`{"a":}`,
		`[1,2`,
		`{"a":1} {"b":2}`,
	} {
		_, err := ParseArgs([]byte(data))
		require.Error(t, err, data)
	}
}

func TestParseArgsSerialize(t *testing.T) {
	arg, err := ParseArgs([]byte(`{"c":5,"a":[1,2],"b":[3,4]}`))
	require.NoError(t, err)

	got, err := Serialize("fn", []any{arg}, paramsOf("a", "b", "c"))
	require.NoError(t, err)
	require.Equal(t, `{"c":5,"a":[1,2],"b":[3,4]}`, string(got))
}

func TestObject(t *testing.T) {
	obj := Obj("b", 1, "a", 2)
	obj = obj.Set("b", 3)
	require.Equal(t, []string{"b", "a"}, obj.Keys())

	value, ok := obj.Get("b")
	require.True(t, ok)
	require.Equal(t, 3, value)

	_, ok = obj.Get("c")
	require.False(t, ok)

	data, err := obj.MarshalJSON()
	require.NoError(t, err)
	require.Equal(t, `{"b":3,"a":2}`, string(data))

	var decoded Object
	require.NoError(t, decoded.UnmarshalJSON([]byte(`{"y":1,"x":2}`)))
	require.Equal(t, []string{"y", "x"}, decoded.Keys())
	require.Error(t, decoded.UnmarshalJSON([]byte(`[1]`)))

	var nilObj Object
	data, err = nilObj.MarshalJSON()
	require.NoError(t, err)
	require.Equal(t, `null`, string(data))

	require.Panics(t, func() { Obj("a") })
	require.Panics(t, func() { Obj(1, 2) })
}
