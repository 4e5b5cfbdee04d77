// Package stack implements the two-part stack described in spec.md §3/§4.A
// /§4.B/§4.C: a growable ValueStack of untyped 64-bit slots, a LIFO
// CallStack of CallFrames, and the Stack that pairs them with a
// reset/recycle lifecycle.
package stack

import (
	"fmt"

	"github.com/wuliuqii/wasmi/internal/engine/bytecode"
	"github.com/wuliuqii/wasmi/internal/engine/code"
	"github.com/wuliuqii/wasmi/internal/wasmruntime"
)

// DefaultMaxValueStackHeight bounds how far a ValueStack may grow before
// AllocCallFrame / Reserve report StackOverflow. Chosen to match the order
// of magnitude of the teacher's buildoptions.CallStackCeiling default.
const DefaultMaxValueStackHeight = 1 << 19

// ValueStack is the growable linear buffer of untyped 64-bit slots
// (spec.md §4.A). Its invariants: capacity grows monotonically within an
// invocation; len is always <= capacity; a StackPtr returned by
// StackPtrAt/StackPtrLastN remains valid only until the next growth;
// Drop(n) decreases len by exactly n without reallocation.
type ValueStack struct {
	values []uint64
	maxLen int
}

// NewValueStack creates an empty ValueStack bounded by maxLen slots.
func NewValueStack(maxLen int) *ValueStack {
	if maxLen <= 0 {
		maxLen = DefaultMaxValueStackHeight
	}
	return &ValueStack{maxLen: maxLen}
}

// Len returns the current number of live slots.
func (s *ValueStack) Len() int { return len(s.values) }

// Reset truncates the stack to zero length, preserving capacity.
func (s *ValueStack) Reset() { s.values = s.values[:0] }

// Reserve ensures capacity for at least n additional slots, failing with
// ErrRuntimeStackOverflow if growth would exceed maxLen. It does not change
// Len.
func (s *ValueStack) Reserve(n int) error {
	if len(s.values)+n > s.maxLen {
		return wasmruntime.ErrRuntimeStackOverflow
	}
	if cap(s.values)-len(s.values) >= n {
		return nil
	}
	grown := make([]uint64, len(s.values), growCap(len(s.values)+n))
	copy(grown, s.values)
	s.values = grown
	return nil
}

func growCap(need int) int {
	c := 64
	for c < need {
		c *= 2
	}
	return c
}

// ExtendZeros grows Len by n zero-valued slots. The caller must have
// already reserved capacity for n slots via Reserve.
func (s *ValueStack) ExtendZeros(n int) {
	l := len(s.values)
	s.values = s.values[:l+n]
	for i := l; i < l+n; i++ {
		s.values[i] = 0
	}
}

// Drop shrinks Len by exactly n, without reallocating.
func (s *ValueStack) Drop(n int) {
	if n > len(s.values) {
		panic(fmt.Errorf("wasmi: BUG: drop(%d) exceeds stack length %d", n, len(s.values)))
	}
	s.values = s.values[:len(s.values)-n]
}

// AllocCallFrame reserves frameSize slots for a new call frame, zero-fills
// them, and returns (basePtr, framePtr): the offsets of the new frame's
// register file. This implementation keeps the locals region and the
// register file co-located (framePtr == basePtr); spec.md's CallFrame
// invariant frame_ptr <= base_ptr <= values.len holds trivially as a
// result (see DESIGN.md for why the locals/temporaries split collapses
// here).
func (s *ValueStack) AllocCallFrame(cf *code.CompiledFunc) (basePtr, framePtr int, err error) {
	frameSize := cf.FrameSize()
	if err := s.Reserve(frameSize); err != nil {
		return 0, 0, err
	}
	basePtr = len(s.values)
	s.ExtendZeros(frameSize)
	return basePtr, basePtr, nil
}

// FillAt writes params into the frameSize-bounded slots starting at
// basePtr.
func (s *ValueStack) FillAt(basePtr int, params []uint64) {
	copy(s.values[basePtr:basePtr+len(params)], params)
}

// AsSlice exposes the live prefix of the stack for bulk reads.
func (s *ValueStack) AsSlice() []uint64 { return s.values }

// StackPtr is a raw cursor into a ValueStack's backing buffer, captured at
// a moment in time. Per spec.md §9 "Raw stack pointers vs growth", the
// cursor is invalidated by any subsequent growth: because it closes over
// the backing array at the time it was taken, a later Reserve/ExtendZeros
// that reallocates leaves the cursor pointing at a stale copy. Callers must
// not retain a StackPtr across any call that may grow the stack.
type StackPtr struct {
	window []uint64
}

// Get reads the value at register r relative to this cursor's base.
func (p StackPtr) Get(r bytecode.Register) uint64 { return p.window[r] }

// Set writes the value at register r relative to this cursor's base.
func (p StackPtr) Set(r bytecode.Register, v uint64) { p.window[r] = v }

// StackPtrAt returns a cursor rooted at offset.
func (s *ValueStack) StackPtrAt(offset int) StackPtr {
	return StackPtr{window: s.values[offset:]}
}

// StackPtrLastN returns a cursor rooted n slots below the current top,
// i.e. over the last n live slots.
func (s *ValueStack) StackPtrLastN(n int) StackPtr {
	return StackPtr{window: s.values[len(s.values)-n:]}
}
