package bytecode

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpcode_IsI32BinOp(t *testing.T) {
	require.True(t, OpI32Add.IsI32BinOp())
	require.True(t, OpI32RemU.IsI32BinOp())
	require.False(t, OpI64Add.IsI32BinOp())
	require.False(t, OpReturn.IsI32BinOp())
}

func TestOpcode_String(t *testing.T) {
	require.Equal(t, "i32.add", OpI32Add.String())
	require.Equal(t, "return_call", OpReturnCall.String())
	require.Equal(t, "unknown", Opcode(9999).String())
}
