package stack

import "sync"

// Stack pairs a ValueStack and a CallStack with a reset/recycle lifecycle
// (spec.md §3 "Stack", §4.C). It is the unit of ownership transferred into
// a ResumableInvocation on a resumable host trap (spec.md §3
// "ResumableInvocation").
type Stack struct {
	Values *ValueStack
	Calls  *CallStack
}

// NewStack creates a fresh Stack with the given capacity bounds.
func NewStack(maxValueStack, maxCallDepth int) *Stack {
	return &Stack{
		Values: NewValueStack(maxValueStack),
		Calls:  NewCallStack(maxCallDepth),
	}
}

// Reset empties both the value and call stacks, preserving their
// underlying capacity for reuse.
func (s *Stack) Reset() {
	s.Values.Reset()
	s.Calls.Reset()
}

// Pool is a shared, mutually-exclusive free list of Stacks (spec.md §5
// "A Stack pool is shared across invocations with mutually exclusive
// borrow: acquire-on-start, release-on-end"), amortising allocation across
// invocations (spec.md §4.G "Stack recycling"). This mirrors the teacher's
// own guarded-map idiom for shared engine state (engine.mux sync.RWMutex in
// internal/engine/interpreter/interpreter.go) applied to a free list
// instead of a cache, which is the shape wasmi's own
// Mutex<Vec<Stack>> free list takes when re-expressed in Go.
type Pool struct {
	mu            sync.Mutex
	free          []*Stack
	maxValueStack int
	maxCallDepth  int
}

// NewPool creates an empty Pool. New Stacks minted on demand are bounded by
// maxValueStack value-stack slots and maxCallDepth call frames.
func NewPool(maxValueStack, maxCallDepth int) *Pool {
	return &Pool{maxValueStack: maxValueStack, maxCallDepth: maxCallDepth}
}

// ReuseOrNew pops a Stack from the free list, or mints a new one if the
// pool is empty.
func (p *Pool) ReuseOrNew() *Stack {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := len(p.free)
	if n == 0 {
		return NewStack(p.maxValueStack, p.maxCallDepth)
	}
	s := p.free[n-1]
	p.free = p.free[:n-1]
	return s
}

// Recycle returns a Stack to the free list after resetting it. Per
// spec.md's testable property 2, a Stack returned on a non-resumable
// terminal outcome has Len() == 0 on both its value and call stacks.
func (p *Pool) Recycle(s *Stack) {
	s.Reset()
	p.mu.Lock()
	defer p.mu.Unlock()
	p.free = append(p.free, s)
}
