package wasm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryInstance_GrowWithinMax(t *testing.T) {
	max := uint32(2)
	m := &MemoryInstance{Buffer: make([]byte, MemoryPageSize), Max: &max}

	prev := m.Grow(1, UnlimitedResourceLimiter())
	require.Equal(t, uint32(1), prev)
	require.Equal(t, uint32(2), m.PageSize())
}

func TestMemoryInstance_GrowBeyondMaxFails(t *testing.T) {
	max := uint32(1)
	m := &MemoryInstance{Buffer: make([]byte, MemoryPageSize), Max: &max}

	prev := m.Grow(1, UnlimitedResourceLimiter())
	require.Equal(t, ^uint32(0), prev)
	require.Equal(t, uint32(1), m.PageSize())
}

type denyAllLimiter struct{}

func (denyAllLimiter) CanGrowMemory(uint32, uint32) bool { return false }

func TestMemoryInstance_GrowDeniedByLimiter(t *testing.T) {
	m := &MemoryInstance{Buffer: make([]byte, MemoryPageSize)}
	prev := m.Grow(1, denyAllLimiter{})
	require.Equal(t, ^uint32(0), prev)
}

func TestMemoryInstance_GrowZeroIsNoop(t *testing.T) {
	m := &MemoryInstance{Buffer: make([]byte, MemoryPageSize)}
	prev := m.Grow(0, UnlimitedResourceLimiter())
	require.Equal(t, uint32(1), prev)
	require.Equal(t, uint32(1), m.PageSize())
}
