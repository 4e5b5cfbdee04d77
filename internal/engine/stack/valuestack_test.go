package stack

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wuliuqii/wasmi/internal/engine/code"
	"github.com/wuliuqii/wasmi/internal/wasmruntime"
)

func TestValueStack_AllocCallFrameAndFillAt(t *testing.T) {
	vs := NewValueStack(0)
	cf := code.NewCompiledFunc(nil, 3)

	basePtr, framePtr, err := vs.AllocCallFrame(cf)
	require.NoError(t, err)
	require.Equal(t, 0, basePtr)
	require.Equal(t, basePtr, framePtr)
	require.Equal(t, 3, vs.Len())

	vs.FillAt(basePtr, []uint64{10, 20})
	sp := vs.StackPtrAt(basePtr)
	require.Equal(t, uint64(10), sp.Get(0))
	require.Equal(t, uint64(20), sp.Get(1))
	require.Equal(t, uint64(0), sp.Get(2))
}

func TestValueStack_Drop(t *testing.T) {
	vs := NewValueStack(0)
	vs.Reserve(4)
	vs.ExtendZeros(4)
	vs.Drop(2)
	require.Equal(t, 2, vs.Len())
}

func TestValueStack_Drop_PanicsOnUnderflow(t *testing.T) {
	vs := NewValueStack(0)
	require.Panics(t, func() { vs.Drop(1) })
}

func TestValueStack_Reserve_StackOverflow(t *testing.T) {
	vs := NewValueStack(4)
	require.NoError(t, vs.Reserve(4))
	vs.ExtendZeros(4)
	err := vs.Reserve(1)
	require.ErrorIs(t, err, wasmruntime.ErrRuntimeStackOverflow)
}

func TestValueStack_StackPtr_InvalidatedByGrowth(t *testing.T) {
	// Small initial capacity forces Reserve to reallocate on growth,
	// demonstrating the invariant from spec.md §3 that a StackPtr taken
	// before growth may observe a stale backing array afterward.
	vs := NewValueStack(0)
	vs.Reserve(1)
	vs.ExtendZeros(1)
	sp := vs.StackPtrAt(0)
	sp.Set(0, 99)

	for i := 0; i < 1024; i++ {
		vs.Reserve(1)
		vs.ExtendZeros(1)
	}

	// sp still reads back 99 from its own (now stale) window, and the
	// reallocation copied 99 into the live slot 0 as well.
	require.Equal(t, uint64(99), sp.Get(0))
	require.Equal(t, uint64(99), vs.StackPtrAt(0).Get(0))

	// The live stack's slot 0 is unaffected by anything written through sp
	// after reallocation, which is exactly the hazard the invariant warns
	// about.
	sp.Set(0, 7)
	require.Equal(t, uint64(99), vs.StackPtrAt(0).Get(0))
}

func TestValueStack_AsSlice(t *testing.T) {
	vs := NewValueStack(0)
	vs.Reserve(2)
	vs.ExtendZeros(2)
	vs.FillAt(0, []uint64{1, 2})
	require.Equal(t, []uint64{1, 2}, vs.AsSlice())
}
