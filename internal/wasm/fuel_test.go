package wasm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wuliuqii/wasmi/internal/wasmruntime"
)

func TestFuel_ChargeExhaustion(t *testing.T) {
	f := NewFuel(5, true)
	require.NoError(t, f.Charge(3))
	require.Equal(t, uint64(2), f.Remaining())

	err := f.Charge(3)
	require.ErrorIs(t, err, wasmruntime.ErrRuntimeOutOfFuel)
	require.Equal(t, uint64(0), f.Remaining())
}

func TestFuel_DisabledNeverCharges(t *testing.T) {
	f := NewFuel(0, false)
	require.NoError(t, f.Charge(1<<40))
}

func TestFuel_NilReceiverIsSafe(t *testing.T) {
	var f *Fuel
	require.NoError(t, f.Charge(100))
	require.Equal(t, uint64(0), f.Remaining())
	require.False(t, f.Enabled())
}
