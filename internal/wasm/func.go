package wasm

import (
	"context"

	"github.com/wuliuqii/wasmi/internal/engine/code"
)

// Func is an opaque handle to a function registered with a Store, resolved
// through Store.ResolveFunc (spec.md §6 "StoreContext.resolve_func").
type Func uint32

// FuncKind discriminates the two FuncEntity variants.
type FuncKind int

const (
	// FuncKindWasm identifies a compiled Wasm function.
	FuncKindWasm FuncKind = iota
	// FuncKindHost identifies a host-provided native function.
	FuncKindHost
)

// FuncEntity is the sum StoreContext.resolve_func returns (spec.md §3
// "HostFuncCaller" / §6): either a WasmFuncEntity or a HostFuncEntity.
// Exactly one of Wasm/Host is set, selected by Kind.
type FuncEntity struct {
	Kind FuncKind
	Wasm *WasmFuncEntity
	Host *HostFuncEntity
}

// WasmFuncEntity is a compiled Wasm function: its owning instance and the
// handle to its compiled body in the CodeMap.
type WasmFuncEntity struct {
	instance *Instance
	body     code.Handle
	typeID   code.TypeID
}

// NewWasmFuncEntity constructs a WasmFuncEntity.
func NewWasmFuncEntity(instance *Instance, body code.Handle, typeID code.TypeID) *WasmFuncEntity {
	return &WasmFuncEntity{instance: instance, body: body, typeID: typeID}
}

// Instance returns the owning module instance.
func (f *WasmFuncEntity) Instance() *Instance { return f.instance }

// FuncBody returns the handle to this function's compiled body.
func (f *WasmFuncEntity) FuncBody() code.Handle { return f.body }

// TypeID returns the dedup'd signature id.
func (f *WasmFuncEntity) TypeID() code.TypeID { return f.typeID }

// FuncParams is the typed view a host trampoline reads its inputs from and
// writes its outputs into (spec.md §6 "HostFunc.trampoline(...,
// params_results_view)"). It wraps the shared buffer slice carved out by
// HostDispatcher; the trampoline must not retain it past the call.
type FuncParams struct {
	buf         []uint64
	lenParams   int
	lenResults  int
}

// NewFuncParams wraps buf as a parameter/result view.
func NewFuncParams(buf []uint64, lenParams, lenResults int) FuncParams {
	return FuncParams{buf: buf, lenParams: lenParams, lenResults: lenResults}
}

// LenParams returns the number of input slots.
func (p FuncParams) LenParams() int { return p.lenParams }

// LenResults returns the number of output slots.
func (p FuncParams) LenResults() int { return p.lenResults }

// Param returns the i'th input value.
func (p FuncParams) Param(i int) uint64 { return p.buf[i] }

// SetResult writes the i'th output value.
func (p FuncParams) SetResult(i int, v uint64) { p.buf[i] = v }

// Trampoline adapts raw slots into a host call: it reads its inputs from
// the prefix of params and, on success, writes its outputs into the
// prefix. On failure the view's contents are undefined; the core
// unconditionally drops the temporary buffer (spec.md §4.F.4).
type Trampoline func(ctx context.Context, store *Store, instance *Instance, params FuncParams) error

// HostFuncEntity is a native function provided by the embedder.
type HostFuncEntity struct {
	trampoline Trampoline
	typeID     code.TypeID
}

// NewHostFuncEntity constructs a HostFuncEntity.
func NewHostFuncEntity(trampoline Trampoline, typeID code.TypeID) *HostFuncEntity {
	return &HostFuncEntity{trampoline: trampoline, typeID: typeID}
}

// TypeID returns the dedup'd signature id.
func (f *HostFuncEntity) TypeID() code.TypeID { return f.typeID }

// Call invokes the trampoline.
func (f *HostFuncEntity) Call(ctx context.Context, store *Store, instance *Instance, params FuncParams) error {
	return f.trampoline(ctx, store, instance, params)
}
