package instrs

import (
	"github.com/wuliuqii/wasmi/internal/engine/bytecode"
	"github.com/wuliuqii/wasmi/internal/wasm"
)

// CallKind discriminates a WasmOutcome.Call as an ordinary call (the caller
// frame stays on the CallStack, awaiting the callee's results) or a tail
// call (the caller frame is to be discarded once the callee completes;
// spec.md §4.G "return_call to a host function").
type CallKind int

const (
	CallKindNormal CallKind = iota
	CallKindTail
)

// OutcomeKind discriminates the two WasmOutcome variants.
type OutcomeKind int

const (
	// OutcomeReturn signals the CallStack emptied: the invocation's root
	// Wasm call has produced its results directly into the caller-supplied
	// register window (spec.md §4.E "the executor yields WasmOutcome::Return
	// only once the call stack is empty").
	OutcomeReturn OutcomeKind = iota
	// OutcomeCall signals control left the InstructionExecutor because the
	// next step is a host function: the driver must dispatch it (spec.md
	// §4.F).
	OutcomeCall
)

// WasmOutcome is what InstructionExecutor.Execute/ExecuteWithTrace returns
// when they stop running (spec.md §3 "WasmOutcome", §4.E).
type WasmOutcome struct {
	Kind OutcomeKind

	// CallParams names, in the *caller* frame's register file (still the
	// top-of-stack frame at the moment this outcome is returned), the
	// registers holding the call's arguments, in order.
	CallParams []bytecode.Register

	// Results names, in the caller frame's register file, where the
	// dispatched host call's results must land. Meaningful only when
	// Kind == OutcomeCall.
	Results bytecode.RegisterSpan

	// HostFunc identifies the host function to dispatch. Meaningful only
	// when Kind == OutcomeCall.
	HostFunc wasm.Func

	// CallKind distinguishes a normal call from a tail call. Meaningful only
	// when Kind == OutcomeCall.
	CallKind CallKind
}
