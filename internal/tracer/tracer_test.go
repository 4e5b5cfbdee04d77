package tracer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wuliuqii/wasmi/api"
	"github.com/wuliuqii/wasmi/internal/wasm"
)

func TestTracer_PushInitMemory(t *testing.T) {
	mem := &wasm.MemoryInstance{Buffer: make([]byte, wasm.MemoryPageSize)}
	mem.Buffer[0] = 0x01

	tr := New(nil)
	tr.PushInitMemory(mem)

	entries := tr.IMTable.Entries()
	require.Len(t, entries, int(wasm.MemoryPageWords)+1)
	require.Equal(t, uint64(1), entries[0].Value)
	require.Equal(t, uint32(0xFFFFFFFF), entries[len(entries)-1].EndOffset, "unbounded memory terminates with the MaxUint32 sentinel")
}

func TestTracer_PushInitMemory_BoundedTerminator(t *testing.T) {
	max := uint32(4)
	mem := &wasm.MemoryInstance{Buffer: make([]byte, wasm.MemoryPageSize), Max: &max}

	tr := New(nil)
	tr.PushInitMemory(mem)

	entries := tr.IMTable.Entries()
	last := entries[len(entries)-1]
	require.Equal(t, max*wasm.MemoryPageWords-1, last.EndOffset)
}

func TestTracer_PushGlobal(t *testing.T) {
	g := &wasm.GlobalInstance{Type: api.ValueTypeI32, Mutable: true, Val: 42}
	tr := New(nil)
	tr.PushGlobal(3, g)

	entries := tr.IMTable.Entries()
	require.Len(t, entries, 1)
	require.Equal(t, LocationTypeGlobal, entries[0].LType)
	require.Equal(t, uint32(3), entries[0].StartOffset)
	require.Equal(t, uint64(42), entries[0].Value)
}
