// Package executor implements the Executor driver of spec.md §3/§4.F/§4.G:
// the pump loop that alternates InstructionExecutor.Execute(WithTrace) steps
// with host-function dispatch, and the resumable-invocation machinery of
// spec.md §7. This is the Go re-expression of the teacher's callEngine.call
// (internal/engine/interpreter/interpreter.go), whose push-frame/run/pop
// shape this package keeps while swapping in register-based host dispatch
// and a stack that can be parked and resumed.
package executor

import (
	"context"
	"fmt"

	"github.com/wuliuqii/wasmi/internal/engine/bytecode"
	"github.com/wuliuqii/wasmi/internal/engine/cache"
	"github.com/wuliuqii/wasmi/internal/engine/instrs"
	"github.com/wuliuqii/wasmi/internal/engine/stack"
	"github.com/wuliuqii/wasmi/internal/engine/trap"
	"github.com/wuliuqii/wasmi/internal/tracer"
	"github.com/wuliuqii/wasmi/internal/wasm"
)

// Executor drives a single invocation against a Store (spec.md §4.F/§4.G).
// It is not safe for concurrent use from multiple goroutines; callers
// needing concurrency use one Executor per invocation, sharing only the
// read-only Store (spec.md §5).
type Executor struct {
	store *wasm.Store
}

// New creates an Executor bound to store.
func New(store *wasm.Store) *Executor {
	return &Executor{store: store}
}

// ResumableInvocation is a parked invocation awaiting ResumeFunc, produced
// when a host function traps with a resumable error (spec.md §3
// "ResumableInvocation", §7). It owns the Stack it was parked with.
// Executor.ResumeFunc does not recycle that Stack; the Engine returns it to
// its Pool once the resumed call finishes or fails non-resumably.
type ResumableInvocation struct {
	stack         *stack.Stack
	instance      *wasm.Instance
	hostFunc      wasm.Func
	hostErr       error
	callerResults bytecode.RegisterSpan
	resultsLen    int
	tracer        *tracer.Tracer
}

// HostFunc returns the function whose trap parked this invocation.
func (r *ResumableInvocation) HostFunc() wasm.Func { return r.hostFunc }

// HostError returns the error the trapping host function returned.
func (r *ResumableInvocation) HostError() error { return r.hostErr }

// Stack returns the parked Stack, so a non-resumable terminal outcome of
// ResumeFunc can still be recycled by the caller.
func (r *ResumableInvocation) Stack() *stack.Stack { return r.stack }

// Instance returns the module instance the parked invocation runs against.
func (r *ResumableInvocation) Instance() *wasm.Instance { return r.instance }

// ResultsLen returns the originating call's declared result count, carried
// across however many resumptions it takes to finish.
func (r *ResumableInvocation) ResultsLen() int { return r.resultsLen }

// CallFunc pushes the root call for f and runs the pump loop to completion
// (spec.md §6 "execute_func"). instance is handed to f's trampoline when f
// is a root-level host function and may be the zero value then; for a Wasm
// f the InstanceCache is seeded from f's own owning instance and instance
// is not used.
func (e *Executor) CallFunc(ctx context.Context, s *stack.Stack, instance *wasm.Instance, f wasm.Func, params []uint64, resultsLen int) ([]uint64, *trap.TaggedTrap) {
	return e.callFunc(ctx, s, instance, f, params, resultsLen, nil)
}

// CallFuncWithTrace is CallFunc with a Tracer attached (spec.md §6
// "execute_func_with_trace").
func (e *Executor) CallFuncWithTrace(ctx context.Context, s *stack.Stack, instance *wasm.Instance, f wasm.Func, params []uint64, resultsLen int, tr *tracer.Tracer) ([]uint64, *trap.TaggedTrap) {
	return e.callFunc(ctx, s, instance, f, params, resultsLen, tr)
}

func (e *Executor) callFunc(ctx context.Context, s *stack.Stack, instance *wasm.Instance, f wasm.Func, params []uint64, resultsLen int, tr *tracer.Tracer) ([]uint64, *trap.TaggedTrap) {
	if err := s.Values.Reserve(resultsLen); err != nil {
		tt := trap.Wasm(err)
		return nil, &tt
	}
	s.Values.ExtendZeros(resultsLen)
	rootResults := bytecode.NewRegisterSpan(bytecode.FromInt16(0))
	entity := e.store.ResolveFunc(f)

	switch entity.Kind {
	case wasm.FuncKindHost:
		// No Wasm frame is involved at all, so there is no instance to cache
		// (instance may be the zero value here): this is the
		// HostFuncCaller::Root case of spec.md §3, so any trap here is never
		// resumable.
		if tt := e.dispatchHostFunc(ctx, s, instance, f, entity.Host, params, rootResults, 0); tt != nil {
			flat := trap.Wasm(tt.IntoError())
			return nil, &flat
		}
	case wasm.FuncKindWasm:
		if err := e.pushRootWasmCall(s, entity.Wasm, params, rootResults); err != nil {
			tt := trap.Wasm(err)
			return nil, &tt
		}
		ic := cache.NewInstanceCache(entity.Wasm.Instance())
		if tt := e.pump(ctx, s, ic, tr); tt != nil {
			return nil, tt
		}
	}

	out := make([]uint64, resultsLen)
	copy(out, s.Values.AsSlice()[:resultsLen])
	return out, nil
}

func (e *Executor) pushRootWasmCall(s *stack.Stack, callee *wasm.WasmFuncEntity, params []uint64, results bytecode.RegisterSpan) error {
	cf, err := e.store.CodeMap.Get(e.store.Fuel(), callee.FuncBody())
	if err != nil {
		return err
	}
	basePtr, framePtr, err := s.Values.AllocCallFrame(cf)
	if err != nil {
		return err
	}
	s.Values.FillAt(basePtr, params)
	return s.Calls.Push(stack.NewCallFrame(framePtr, basePtr, results, callee.Instance(), cf.FrameSize(), cf.Instrs()))
}

// pump alternates InstructionExecutor runs with host dispatch until the
// call stack empties (spec.md §4.G "the outer loop").
func (e *Executor) pump(ctx context.Context, s *stack.Stack, ic *cache.InstanceCache, tr *tracer.Tracer) *trap.TaggedTrap {
	for {
		var outcome instrs.WasmOutcome
		var err error
		if tr != nil {
			outcome, err = instrs.ExecuteWithTrace(e.store, ic, s.Values, s.Calls, tr)
		} else {
			outcome, err = instrs.Execute(e.store, ic, s.Values, s.Calls)
		}
		if err != nil {
			tt := trap.Wasm(err)
			return &tt
		}
		if outcome.Kind == instrs.OutcomeReturn {
			return nil
		}

		// OutcomeCall: the caller frame is still on top of the call stack.
		caller := s.Calls.Peek()
		if caller == nil {
			panic(fmt.Errorf("wasmi: BUG: host call outcome with no caller frame"))
		}
		callerBase := caller.BaseOffset()
		entity := e.store.ResolveFunc(outcome.HostFunc)

		// A tail call made by the root frame (nothing beneath it on the call
		// stack) degrades to a Root caller once its own frame is discarded:
		// there is no Wasm frame left to resume into, so a trap here can
		// never be resumable (spec.md §8 scenario S4, §7 HostFuncCaller).
		rootCaller := outcome.CallKind == instrs.CallKindTail && s.Calls.Len() == 1

		params := readCallParams(s.Values, callerBase, outcome.CallParams)
		if tt := e.dispatchHostFunc(ctx, s, caller.Instance(), outcome.HostFunc, entity.Host, params, outcome.Results, callerBase); tt != nil {
			if rootCaller {
				flat := trap.Wasm(tt.IntoError())
				return &flat
			}
			// Dispatch already ran against the still-present caller frame's
			// base offset for both call kinds, so a resumable trap's
			// CallerResults is correct whether or not this was a tail call.
			return tt
		}

		if outcome.CallKind == instrs.CallKindTail {
			// The copy into callerBase completed above using the caller's own
			// (pre-pop) base offset; now discard its frame, mirroring the
			// ordering spec.md §4.G documents for return_call to a host
			// function: "compute caller_sp, copy results, then pop".
			popped := s.Calls.Pop()
			s.Values.Drop(popped.FrameSize())
			if s.Calls.Len() == 0 {
				return nil
			}
		}
	}
}

func readCallParams(values *stack.ValueStack, base int, regs []bytecode.Register) []uint64 {
	sp := values.StackPtrAt(base)
	out := make([]uint64, len(regs))
	for i, r := range regs {
		out[i] = sp.Get(r)
	}
	return out
}

// dispatchHostFunc implements spec.md §4.F's five-step contract: resolve
// the signature, carve a temporary params/results view, invoke the
// trampoline, copy results back into the caller's registers on success, or
// produce a resumable-candidate TaggedTrap on failure. callerBase is the
// offset results/params registers are relative to.
func (e *Executor) dispatchHostFunc(ctx context.Context, s *stack.Stack, instance *wasm.Instance, hostFunc wasm.Func, host *wasm.HostFuncEntity, paramVals []uint64, results bytecode.RegisterSpan, callerBase int) *trap.TaggedTrap {
	ft := e.store.FuncTypes.ResolveFuncType(host.TypeID())
	nParams, nResults := ft.LenParams(), ft.LenResults()

	bufLen := nParams
	if nResults > bufLen {
		bufLen = nResults
	}
	buf := make([]uint64, bufLen)
	copy(buf, paramVals)

	view := wasm.NewFuncParams(buf, nParams, nResults)
	if err := host.Call(ctx, e.store, instance, view); err != nil {
		tt := trap.Host(hostFunc, err, results)
		return &tt
	}

	sp := s.Values.StackPtrAt(callerBase)
	for i, r := range results.Iter(nResults) {
		sp.Set(r, buf[i])
	}
	return nil
}

// Resumable parks s (after a host trap reached here) into a
// ResumableInvocation, keeping it alive for ResumeFunc (spec.md §7
// "on a resumable Host trap, the Executor does not recycle the Stack"). A
// resumable trap is only ever produced with a caller frame still on s
// (HostFuncCaller::Wasm, spec.md §3); that frame's own instance, not
// whatever instance the original call happened to be rooted at, is what
// ResumeFunc must reattach the InstanceCache to.
func (e *Executor) Resumable(s *stack.Stack, resultsLen int, tt *trap.TaggedTrap, tr *tracer.Tracer) *ResumableInvocation {
	if !tt.IsResumable() {
		panic(fmt.Errorf("wasmi: BUG: Resumable called on a non-resumable trap"))
	}
	caller := s.Calls.Peek()
	if caller == nil {
		panic(fmt.Errorf("wasmi: BUG: resumable trap with no caller frame on the stack"))
	}
	return &ResumableInvocation{
		stack: s, instance: caller.Instance(), resultsLen: resultsLen,
		hostFunc: tt.Host.HostFunc, hostErr: tt.Host.HostErr, callerResults: tt.Host.CallerResults,
		tracer: tr,
	}
}

// ResumeFunc supplies the results the previously-trapping host call should
// have produced and continues the parked invocation's pump loop (spec.md §7
// "resume_func"). The ResumableInvocation is consumed: callers must not
// reuse it after this call, win or lose.
func (e *Executor) ResumeFunc(ctx context.Context, r *ResumableInvocation, resumeResults []uint64) ([]uint64, *trap.TaggedTrap) {
	s := r.stack

	// Write the embedder-supplied results into the registers the trapping
	// host call was originally asked to fill. The parked Stack's top frame,
	// if any, is the caller that issued the original host call; its base
	// offset is where r.callerResults is relative to. An empty call stack
	// means the trapping call was the invocation's root call, so the
	// destination is ValueStack offset 0, same as CallFunc's root results.
	var callerBase int
	if top := s.Calls.Peek(); top != nil {
		callerBase = top.BaseOffset()
	}
	dst := s.Values.StackPtrAt(callerBase)
	for i, reg := range r.callerResults.Iter(len(resumeResults)) {
		dst.Set(reg, resumeResults[i])
	}

	if s.Calls.Len() == 0 {
		out := make([]uint64, r.resultsLen)
		copy(out, s.Values.AsSlice()[:r.resultsLen])
		return out, nil
	}

	ic := cache.NewInstanceCache(r.instance)
	if tt := e.pump(ctx, s, ic, r.tracer); tt != nil {
		return nil, tt
	}
	out := make([]uint64, r.resultsLen)
	copy(out, s.Values.AsSlice()[:r.resultsLen])
	return out, nil
}
