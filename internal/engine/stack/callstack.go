package stack

import (
	"github.com/wuliuqii/wasmi/internal/engine/bytecode"
	"github.com/wuliuqii/wasmi/internal/wasm"
	"github.com/wuliuqii/wasmi/internal/wasmruntime"
)

// DefaultMaxCallDepth bounds how deep the CallStack may grow before Push
// reports StackOverflow.
const DefaultMaxCallDepth = 1 << 16

// CallFrame is one active call on the CallStack (spec.md §3 "CallFrame"):
// an instruction pointer into a compiled function's instruction vector,
// the frame's register-file offsets, where the caller expects this frame's
// results, and the owning Instance.
type CallFrame struct {
	ip int // index into instrs of the frame's CompiledFunc.

	framePtr int
	basePtr  int

	results  bytecode.RegisterSpan
	instance *wasm.Instance

	frameSize int
	instrs    []bytecode.Instruction
}

// NewCallFrame constructs a CallFrame. ip starts at 0 (the first
// instruction of the compiled body). instrs is the compiled function's
// instruction vector the frame's ip indexes into; the InstructionPtr of
// spec.md §3 collapses to this (instrs, ip) pair in Go, since Go has no
// raw pointer arithmetic for the teacher's InstructionPtr idiom to port
// directly.
func NewCallFrame(framePtr, basePtr int, results bytecode.RegisterSpan, instance *wasm.Instance, frameSize int, instrs []bytecode.Instruction) *CallFrame {
	return &CallFrame{framePtr: framePtr, basePtr: basePtr, results: results, instance: instance, frameSize: frameSize, instrs: instrs}
}

// Instrs returns the frame's compiled instruction vector.
func (f *CallFrame) Instrs() []bytecode.Instruction { return f.instrs }

// IP returns the current instruction index.
func (f *CallFrame) IP() int { return f.ip }

// SetIP updates the current instruction index.
func (f *CallFrame) SetIP(ip int) { f.ip = ip }

// FramePtr returns the offset of the frame's locals region.
func (f *CallFrame) FramePtr() int { return f.framePtr }

// BaseOffset returns the offset of the frame's register file, the base
// that RegisterSpan and Register offsets are relative to.
func (f *CallFrame) BaseOffset() int { return f.basePtr }

// Results returns the span, in the *caller's* register file, where this
// frame's return values must be written on Return.
func (f *CallFrame) Results() bytecode.RegisterSpan { return f.results }

// Instance returns the owning module instance.
func (f *CallFrame) Instance() *wasm.Instance { return f.instance }

// FrameSize returns the number of registers this frame occupies on the
// ValueStack.
func (f *CallFrame) FrameSize() int { return f.frameSize }

// CallStack is the LIFO of active CallFrames (spec.md §4.B). The
// InstructionExecutor always runs with respect to Peek().
type CallStack struct {
	frames  []*CallFrame
	maxSize int
}

// NewCallStack creates an empty CallStack bounded by maxSize frames.
func NewCallStack(maxSize int) *CallStack {
	if maxSize <= 0 {
		maxSize = DefaultMaxCallDepth
	}
	return &CallStack{maxSize: maxSize}
}

// Reset empties the call stack.
func (c *CallStack) Reset() { c.frames = c.frames[:0] }

// Len returns the current call depth.
func (c *CallStack) Len() int { return len(c.frames) }

// Push pushes frame, failing with ErrRuntimeStackOverflow beyond the
// configured depth.
func (c *CallStack) Push(frame *CallFrame) error {
	if len(c.frames) >= c.maxSize {
		return wasmruntime.ErrRuntimeStackOverflow
	}
	c.frames = append(c.frames, frame)
	return nil
}

// Pop removes and returns the top frame. Pop on an empty stack is a bug in
// the driver or executor; spec.md treats this as a fatal invariant
// violation, so it panics rather than returning an error.
func (c *CallStack) Pop() *CallFrame {
	n := len(c.frames)
	f := c.frames[n-1]
	c.frames = c.frames[:n-1]
	return f
}

// Peek returns the top frame, or nil if the call stack is empty.
func (c *CallStack) Peek() *CallFrame {
	if len(c.frames) == 0 {
		return nil
	}
	return c.frames[len(c.frames)-1]
}
