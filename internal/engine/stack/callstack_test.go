package stack

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wuliuqii/wasmi/internal/engine/bytecode"
	"github.com/wuliuqii/wasmi/internal/wasmruntime"
)

func TestCallStack_PushPopPeek(t *testing.T) {
	cs := NewCallStack(0)
	require.Nil(t, cs.Peek())

	f1 := NewCallFrame(0, 0, bytecode.RegisterSpan{}, nil, 2, nil)
	f2 := NewCallFrame(2, 2, bytecode.RegisterSpan{}, nil, 3, nil)

	require.NoError(t, cs.Push(f1))
	require.NoError(t, cs.Push(f2))
	require.Equal(t, 2, cs.Len())
	require.Same(t, f2, cs.Peek())

	require.Same(t, f2, cs.Pop())
	require.Equal(t, 1, cs.Len())
	require.Same(t, f1, cs.Peek())
}

func TestCallStack_Push_StackOverflow(t *testing.T) {
	cs := NewCallStack(1)
	require.NoError(t, cs.Push(NewCallFrame(0, 0, bytecode.RegisterSpan{}, nil, 0, nil)))
	err := cs.Push(NewCallFrame(0, 0, bytecode.RegisterSpan{}, nil, 0, nil))
	require.ErrorIs(t, err, wasmruntime.ErrRuntimeStackOverflow)
}

func TestCallFrame_Accessors(t *testing.T) {
	results := bytecode.NewRegisterSpan(bytecode.FromInt16(2))
	f := NewCallFrame(1, 1, results, nil, 4, nil)
	require.Equal(t, 0, f.IP())
	f.SetIP(3)
	require.Equal(t, 3, f.IP())
	require.Equal(t, 1, f.FramePtr())
	require.Equal(t, 1, f.BaseOffset())
	require.Equal(t, results, f.Results())
	require.Equal(t, 4, f.FrameSize())
}
