package wasm

import (
	"fmt"

	"github.com/wuliuqii/wasmi/internal/engine/code"
)

// Store owns the engine-external state a running invocation needs: the
// function table, fuel counter and resource limiter (spec.md §5 "The Store
// is exclusively owned by the active invocation for its duration"). The
// full object model (tables, exports, linking, instantiation) is out of
// scope for the core (spec.md §1); Store here is the minimal surface the
// executor actually calls through.
type Store struct {
	CodeMap   *code.CodeMap
	FuncTypes *code.FuncTypes
	Limiter   ResourceLimiter

	fuel  *Fuel
	funcs []FuncEntity
}

// NewStore creates an empty Store backed by the given shared, read-only
// engine resources.
func NewStore(codeMap *code.CodeMap, funcTypes *code.FuncTypes) *Store {
	return &Store{
		CodeMap:   codeMap,
		FuncTypes: funcTypes,
		Limiter:   UnlimitedResourceLimiter(),
	}
}

// SetFuel installs a fuel counter; a nil counter disables metering.
func (s *Store) SetFuel(f *Fuel) { s.fuel = f }

// Fuel returns the store's fuel counter, implementing code.FuelCharger (or
// nil if metering is disabled).
func (s *Store) Fuel() *Fuel { return s.fuel }

// AddWasmFunc registers a compiled Wasm function and returns its handle.
func (s *Store) AddWasmFunc(instance *Instance, body code.Handle, typeID code.TypeID) Func {
	s.funcs = append(s.funcs, FuncEntity{
		Kind: FuncKindWasm,
		Wasm: NewWasmFuncEntity(instance, body, typeID),
	})
	return Func(len(s.funcs) - 1)
}

// AddHostFunc registers a host function and returns its handle.
func (s *Store) AddHostFunc(trampoline Trampoline, typeID code.TypeID) Func {
	s.funcs = append(s.funcs, FuncEntity{
		Kind: FuncKindHost,
		Host: NewHostFuncEntity(trampoline, typeID),
	})
	return Func(len(s.funcs) - 1)
}

// ResolveFunc resolves a Func handle to its entity (spec.md §6
// "StoreContext.resolve_func").
func (s *Store) ResolveFunc(f Func) FuncEntity {
	if int(f) >= len(s.funcs) {
		panic(fmt.Errorf("wasmi: BUG: invalid func handle %d", f))
	}
	return s.funcs[f]
}
