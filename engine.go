// Package wasmi is the public surface of the execution core: the Engine
// that owns a Store, a Stack pool and an Executor, and exposes the four
// invocation entry points (spec.md §6). This mirrors the teacher's
// top-level wazero.Runtime (api/wazero.go): a thin façade over the
// internal engine packages, built through a functional-options Config.
package wasmi

import (
	"context"

	"github.com/wuliuqii/wasmi/internal/engine/executor"
	"github.com/wuliuqii/wasmi/internal/engine/stack"
	"github.com/wuliuqii/wasmi/internal/engine/trap"
	"github.com/wuliuqii/wasmi/internal/tracer"
	"github.com/wuliuqii/wasmi/internal/wasm"
)

// Engine runs compiled Wasm functions against a Store (spec.md §2 "the
// Engine hands the driver a Func + params + a results sink"). The Stack
// pool hands each invocation its own working Stack, and the Store's CodeMap
// and FuncTypes are independently synchronized; the Store's function
// table, its fuel counter and instance memories are not synchronized, so
// invocations that share them must not run concurrently.
type Engine struct {
	store *wasm.Store
	pool  *stack.Pool
	exec  *executor.Executor
}

// NewEngine builds an Engine over store, applying cfg's stack bounds and
// fuel settings.
func NewEngine(cfg Config, store *wasm.Store) *Engine {
	if cfg.fuelEnabled {
		store.SetFuel(wasm.NewFuel(cfg.fuelLimit, true))
	}
	return &Engine{
		store: store,
		pool:  stack.NewPool(cfg.maxValueStackHeight, cfg.maxCallDepth),
		exec:  executor.New(store),
	}
}

// Store returns the Engine's underlying Store, for embedders that need to
// register functions or inspect fuel state.
func (e *Engine) Store() *wasm.Store { return e.store }

// ResumableCall is the sum execute_func_resumable/resume_func return
// (spec.md §6 "ResumableCall ∈ {Finished(Results), Resumable(invocation)}").
// Exactly one of Results/Invocation is set.
type ResumableCall struct {
	Results    []uint64
	Invocation *executor.ResumableInvocation
}

// IsFinished reports whether the call ran to completion.
func (r ResumableCall) IsFinished() bool { return r.Invocation == nil }

// ExecuteFunc runs f to completion, recycling its Stack regardless of
// outcome (spec.md §6 "execute_func").
func (e *Engine) ExecuteFunc(ctx context.Context, instance *wasm.Instance, f wasm.Func, params []uint64, resultsLen int) ([]uint64, error) {
	s := e.pool.ReuseOrNew()
	out, tt := e.exec.CallFunc(ctx, s, instance, f, params, resultsLen)
	e.pool.Recycle(s)
	if tt != nil {
		return nil, tt.IntoError()
	}
	return out, nil
}

// ExecuteFuncWithTrace is ExecuteFunc with a Tracer attached (spec.md §6
// "execute_func_with_trace").
func (e *Engine) ExecuteFuncWithTrace(ctx context.Context, instance *wasm.Instance, f wasm.Func, params []uint64, resultsLen int, tr *tracer.Tracer) ([]uint64, error) {
	s := e.pool.ReuseOrNew()
	out, tt := e.exec.CallFuncWithTrace(ctx, s, instance, f, params, resultsLen, tr)
	e.pool.Recycle(s)
	if tt != nil {
		return nil, tt.IntoError()
	}
	return out, nil
}

// ExecuteFuncResumable runs f to completion or, if a host function traps
// resumably, returns a ResumableCall carrying the parked invocation instead
// of recycling its Stack (spec.md §6 "execute_func_resumable", §7).
func (e *Engine) ExecuteFuncResumable(ctx context.Context, instance *wasm.Instance, f wasm.Func, params []uint64, resultsLen int) (ResumableCall, error) {
	s := e.pool.ReuseOrNew()
	out, tt := e.exec.CallFunc(ctx, s, instance, f, params, resultsLen)
	return e.settleResumable(s, resultsLen, out, tt)
}

// ResumeFunc supplies the results a trapped host call should have produced
// and continues invocation (spec.md §6 "resume_func"). inv is consumed:
// callers must not reuse it, win or lose.
func (e *Engine) ResumeFunc(ctx context.Context, inv *executor.ResumableInvocation, resumeResults []uint64) (ResumableCall, error) {
	out, tt := e.exec.ResumeFunc(ctx, inv, resumeResults)
	return e.settleResumable(inv.Stack(), inv.ResultsLen(), out, tt)
}

// settleResumable is the shared tail of ExecuteFuncResumable/ResumeFunc:
// decide whether to recycle s, return a finished result, or hand back a
// freshly parked ResumableInvocation.
func (e *Engine) settleResumable(s *stack.Stack, resultsLen int, out []uint64, tt *trap.TaggedTrap) (ResumableCall, error) {
	if tt == nil {
		e.pool.Recycle(s)
		return ResumableCall{Results: out}, nil
	}
	if !tt.IsResumable() {
		e.pool.Recycle(s)
		return ResumableCall{}, tt.IntoError()
	}
	return ResumableCall{Invocation: e.exec.Resumable(s, resultsLen, tt, nil)}, nil
}
