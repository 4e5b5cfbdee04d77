// Package tracer is the Go port of crates/wasmi/src/tracer/{etable,imtable,
// mtable,mod}.rs (original_source/): the optional step-by-step execution
// trace described in spec.md §3/§4.H, kept entirely off the hot path per
// spec.md §9 ("Tracer as optional collaborator").
package tracer

import "github.com/wuliuqii/wasmi/internal/engine/bytecode"

// IVal identifies one stack slot involved in a traced step: its value and
// its address on the ValueStack (spec.md §3 "IVal").
type IVal struct {
	Val  uint64
	Addr int
}

// BinOp is the arithmetic class of a traced I32BinOp step. Carried in full
// from the original (original_source/crates/wasmi/src/tracer/etable.rs
// `BinOp`), including the float-only variants the current StepInfo
// taxonomy does not yet emit (see StepInfo doc comment).
type BinOp int

const (
	BinOpAdd BinOp = iota
	BinOpSub
	BinOpMul
	BinOpDiv
	BinOpMin
	BinOpMax
	BinOpCopySign
	BinOpUnsignedDiv
	BinOpUnsignedRem
	BinOpSignedDiv
	BinOpSignedRem
)

// StepInfo is the tagged variant recorded per interpreted step. Per
// spec.md §9's open question, only I32BinOp is modeled with full fidelity;
// every other instruction class is recorded as Unimplemented and produces
// no memory events. The trace is therefore partial: the taxonomy is not
// completed here.
type StepInfo struct {
	// Kind discriminates which fields below are meaningful.
	Kind StepKind

	// I32BinOp fields, valid when Kind == StepI32BinOp.
	Class         BinOp
	Left, Right   IVal
	Result        IVal

	// Unimplemented fields, valid when Kind == StepUnimplemented.
	Opcode bytecode.Opcode
}

// StepKind discriminates the StepInfo variants.
type StepKind int

const (
	StepI32BinOp StepKind = iota
	StepUnimplemented
)

// I32BinOp builds a StepInfo for a traced i32 binary operation.
func I32BinOp(class BinOp, left, right, result IVal) StepInfo {
	return StepInfo{Kind: StepI32BinOp, Class: class, Left: left, Right: right, Result: result}
}

// Unimplemented builds a StepInfo recording an untraced opcode.
func Unimplemented(op bytecode.Opcode) StepInfo {
	return StepInfo{Kind: StepUnimplemented, Opcode: op}
}

// ETableEntry is one append-only execution event.
type ETableEntry struct {
	// EID is a 1-based, monotonically increasing event id (spec.md §3,
	// testable property 4).
	EID                uint32
	AllocatedMemPages  uint32
	StepInfo           StepInfo
}

// ETable is the append-only execution event log (spec.md §3 "ETable").
type ETable struct {
	entries []ETableEntry
}

// Entries returns the recorded events in execution order.
func (t *ETable) Entries() []ETableEntry { return t.entries }

// Push appends a new event, assigning it the next EID.
func (t *ETable) Push(allocatedMemPages uint32, step StepInfo) {
	t.entries = append(t.entries, ETableEntry{
		EID:               uint32(len(t.entries)) + 1,
		AllocatedMemPages: allocatedMemPages,
		StepInfo:          step,
	})
}
