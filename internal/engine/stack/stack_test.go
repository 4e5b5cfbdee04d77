package stack

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wuliuqii/wasmi/internal/engine/bytecode"
)

func TestPool_ReuseOrNewAndRecycle(t *testing.T) {
	p := NewPool(0, 0)
	s1 := p.ReuseOrNew()
	require.NotNil(t, s1)

	s1.Values.Reserve(2)
	s1.Values.ExtendZeros(2)
	require.NoError(t, s1.Calls.Push(NewCallFrame(0, 0, bytecode.RegisterSpan{}, nil, 2, nil)))

	p.Recycle(s1)
	require.Equal(t, 0, s1.Values.Len())
	require.Equal(t, 0, s1.Calls.Len())

	s2 := p.ReuseOrNew()
	require.Same(t, s1, s2, "pool should reuse the recycled stack rather than mint a new one")
}
