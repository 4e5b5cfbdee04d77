package tracer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTracer_GetMTable_I32BinOpProducesTwoReadsOneWrite(t *testing.T) {
	tr := New(nil)
	tr.ETable.Push(1, I32BinOp(BinOpAdd,
		IVal{Val: 2, Addr: 0},
		IVal{Val: 3, Addr: 1},
		IVal{Val: 5, Addr: 2},
	))

	mt := tr.GetMTable()
	entries := mt.Entries()
	require.Len(t, entries, 3)

	require.Equal(t, AccessTypeRead, entries[0].AType)
	require.Equal(t, AccessTypeRead, entries[1].AType)
	require.Equal(t, AccessTypeWrite, entries[2].AType)
	require.Equal(t, LocationTypeStack, entries[0].LType)

	require.Equal(t, uint32(1), entries[0].EMID)
	require.Equal(t, uint32(2), entries[1].EMID)
	require.Equal(t, uint32(3), entries[2].EMID)

	for _, e := range entries {
		require.Equal(t, uint32(1), e.EID)
	}
}

func TestTracer_GetMTable_IsIdempotent(t *testing.T) {
	tr := New(nil)
	tr.ETable.Push(1, I32BinOp(BinOpMul, IVal{Val: 2, Addr: 0}, IVal{Val: 4, Addr: 1}, IVal{Val: 8, Addr: 2}))
	tr.ETable.Push(1, Unimplemented(0))

	require.Equal(t, tr.GetMTable().Entries(), tr.GetMTable().Entries())
}

func TestTracer_GetMTable_UnimplementedStepProducesNoEvents(t *testing.T) {
	tr := New(nil)
	tr.ETable.Push(0, Unimplemented(0))
	require.Empty(t, tr.GetMTable().Entries())
}
