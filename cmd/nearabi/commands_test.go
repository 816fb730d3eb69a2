package main

import (
	"bytes"
	"os"
	"testing"

	"github.com/dipdup-io/near-abi/pkg/abi"
	"github.com/dipdup-io/near-abi/pkg/codec"
	"github.com/stretchr/testify/require"
)

func TestParseCLIArgs(t *testing.T) {
	values := parseCLIArgs([]string{`{"b":1,"a":2}`, `[1,2]`, `alice.testnet`, `"quoted"`, `10`})
	require.Len(t, values, 5)

	obj, ok := values[0].(codec.Object)
	require.True(t, ok)
	require.Equal(t, []string{"b", "a"}, obj.Keys())

	require.Len(t, values[1], 2)
	require.Equal(t, "alice.testnet", values[2])
	require.Equal(t, "quoted", values[3])

	data, err := codec.Serialize("f", values[4:], []abi.Parameter{{Name: "x"}})
	require.NoError(t, err)
	require.Equal(t, `{"x":10}`, string(data))
}

func TestPrintMethods(t *testing.T) {
	data, err := os.ReadFile("../../pkg/abi/testdata/adder.json")
	require.NoError(t, err)
	doc, err := abi.Parse(data)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, printMethods(&buf, doc))
	require.Equal(t, "view\tadd(a, b, c)\n"+
		"view\tadd_callback()\n"+
		"view\tno_params()\n"+
		"init\tnew(owner_id)\n"+
		"call,payable\tset_pair(pair)\n", buf.String())
}

func TestPrintValue(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printValue(&buf, codec.NoValue))
	require.Empty(t, buf.String())

	require.NoError(t, printValue(&buf, map[string]any{"ok": true}))
	require.Equal(t, "{\n  \"ok\": true\n}\n", buf.String())
}

func TestCallCmdDescribesSigner(t *testing.T) {
	cmd := newCallCmd()
	require.Contains(t, cmd.Long, "caller.WithSigner")
	require.Contains(t, cmd.Long, "transaction signer is not set")
	require.NotNil(t, cmd.Flags().Lookup("signer"))
}
