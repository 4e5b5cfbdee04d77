package code

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wuliuqii/wasmi/api"
	"github.com/wuliuqii/wasmi/internal/wasmruntime"
)

type stubCharger struct {
	remaining uint64
}

func (c *stubCharger) Charge(amount uint64) error {
	if amount > c.remaining {
		c.remaining = 0
		return wasmruntime.ErrRuntimeOutOfFuel
	}
	c.remaining -= amount
	return nil
}

func TestCodeMap_AddAndGet(t *testing.T) {
	m := NewCodeMap()
	cf := NewCompiledFunc(nil, 2)
	h := m.Add(cf)

	got, err := m.Get(nil, h)
	require.NoError(t, err)
	require.Same(t, cf, got)
}

func TestCodeMap_Get_OutOfFuel(t *testing.T) {
	m := NewCodeMap()
	h := m.Add(NewCompiledFunc(nil, 1))

	charger := &stubCharger{remaining: 0}
	_, err := m.Get(charger, h)
	require.ErrorIs(t, err, wasmruntime.ErrRuntimeOutOfFuel)
}

func TestCodeMap_Get_InvalidHandlePanics(t *testing.T) {
	m := NewCodeMap()
	require.Panics(t, func() { m.Get(nil, Handle(0)) })
}

func TestFuncTypes_AddAndResolve(t *testing.T) {
	ft := NewFuncTypes()
	id := ft.Add(FuncType{
		Params:  []api.ValueType{api.ValueTypeI32, api.ValueTypeI32},
		Results: []api.ValueType{api.ValueTypeI32},
	})
	resolved := ft.ResolveFuncType(id)
	require.Equal(t, 2, resolved.LenParams())
	require.Equal(t, 1, resolved.LenResults())
}
