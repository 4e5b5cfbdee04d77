// Package instrs implements the InstructionExecutor described in spec.md
// §3/§4.E: the per-step dispatch loop that interprets a CompiledFunc's
// instructions against the ValueStack and CallStack until it must either
// hand control back to the driver (a host call) or the invocation's root
// call returns (spec.md §4.E, §4.G). This follows the teacher's
// callEngine.exec dispatch loop (internal/engine/interpreter/interpreter.go)
// generalized from a stack machine to the register machine spec.md
// describes: register operands replace implicit stack push/pop, and the
// raw InstructionPtr collapses to a (instrs, ip) index pair.
package instrs

import (
	"fmt"
	"math"

	"github.com/wuliuqii/wasmi/internal/engine/bytecode"
	"github.com/wuliuqii/wasmi/internal/engine/cache"
	"github.com/wuliuqii/wasmi/internal/engine/stack"
	"github.com/wuliuqii/wasmi/internal/tracer"
	"github.com/wuliuqii/wasmi/internal/wasm"
	"github.com/wuliuqii/wasmi/internal/wasmruntime"
)

// Execute runs frames off calls.Peek() until a host call must be dispatched
// or the invocation's root call returns. It never traces.
func Execute(store *wasm.Store, ic *cache.InstanceCache, values *stack.ValueStack, calls *stack.CallStack) (WasmOutcome, error) {
	return run(store, ic, values, calls, nil)
}

// ExecuteWithTrace is Execute with a Tracer attached: every interpreted
// arithmetic, const, copy, memory.grow or unreachable step appends one
// ETableEntry, in addition to everything Execute does (spec.md §4.H, §6
// "execute_func_with_trace"). Call, return_call and return steps append
// nothing.
func ExecuteWithTrace(store *wasm.Store, ic *cache.InstanceCache, values *stack.ValueStack, calls *stack.CallStack, tr *tracer.Tracer) (WasmOutcome, error) {
	return run(store, ic, values, calls, tr)
}

func run(store *wasm.Store, ic *cache.InstanceCache, values *stack.ValueStack, calls *stack.CallStack, tr *tracer.Tracer) (WasmOutcome, error) {
	for {
		frame := calls.Peek()
		if frame == nil {
			panic(fmt.Errorf("wasmi: BUG: instruction executor invoked with an empty call stack"))
		}
		ic.Refresh(frame.Instance())

		// One unit of fuel per interpreted instruction; a nil or disabled
		// Fuel never fails.
		if err := store.Fuel().Charge(1); err != nil {
			return WasmOutcome{}, err
		}

		fi := frame.Instrs()
		ip := frame.IP()
		if ip >= len(fi) {
			panic(fmt.Errorf("wasmi: BUG: instruction pointer %d ran past compiled function of length %d", ip, len(fi)))
		}
		instr := fi[ip]
		sp := values.StackPtrAt(frame.BaseOffset())

		switch {
		case instr.Op.IsI32BinOp():
			if err := stepI32BinOp(tr, ic, frame, sp, instr); err != nil {
				return WasmOutcome{}, err
			}
			frame.SetIP(ip + 1)
			continue
		}

		switch instr.Op {
		case bytecode.OpUnreachable:
			traceUnimplemented(tr, ic, instr.Op)
			return WasmOutcome{}, wasmruntime.ErrRuntimeUnreachable

		case bytecode.OpConst:
			sp.Set(instr.Dst, instr.Imm)
			traceUnimplemented(tr, ic, instr.Op)
			frame.SetIP(ip + 1)

		case bytecode.OpCopy:
			sp.Set(instr.Dst, sp.Get(instr.Left))
			traceUnimplemented(tr, ic, instr.Op)
			frame.SetIP(ip + 1)

		case bytecode.OpI64Add, bytecode.OpI64Sub, bytecode.OpI64Mul,
			bytecode.OpI64DivS, bytecode.OpI64DivU, bytecode.OpI64RemS, bytecode.OpI64RemU:
			if err := stepI64BinOp(sp, instr); err != nil {
				return WasmOutcome{}, err
			}
			traceUnimplemented(tr, ic, instr.Op)
			frame.SetIP(ip + 1)

		case bytecode.OpF32Add, bytecode.OpF32Sub, bytecode.OpF32Mul, bytecode.OpF32Div,
			bytecode.OpF32Min, bytecode.OpF32Max, bytecode.OpF32Copysign:
			stepF32BinOp(sp, instr)
			traceUnimplemented(tr, ic, instr.Op)
			frame.SetIP(ip + 1)

		case bytecode.OpF64Add, bytecode.OpF64Sub, bytecode.OpF64Mul, bytecode.OpF64Div,
			bytecode.OpF64Min, bytecode.OpF64Max, bytecode.OpF64Copysign:
			stepF64BinOp(sp, instr)
			traceUnimplemented(tr, ic, instr.Op)
			frame.SetIP(ip + 1)

		case bytecode.OpMemoryGrow:
			mem := ic.Memory()
			prev := mem.Grow(uint32(sp.Get(instr.Left)), store.Limiter)
			sp.Set(instr.Dst, uint64(prev))
			traceUnimplemented(tr, ic, instr.Op)
			frame.SetIP(ip + 1)

		case bytecode.OpCall, bytecode.OpReturnCall:
			outcome, err := stepCall(store, values, calls, frame, sp, instr)
			if err != nil {
				return WasmOutcome{}, err
			}
			if outcome != nil {
				return *outcome, nil
			}
			// A Wasm callee was pushed; loop continues against the new top frame.

		case bytecode.OpReturn:
			done, err := stepReturn(values, calls, frame, sp, instr)
			if err != nil {
				return WasmOutcome{}, err
			}
			if done {
				return WasmOutcome{Kind: OutcomeReturn}, nil
			}

		default:
			panic(fmt.Errorf("wasmi: BUG: unhandled opcode %s", instr.Op))
		}
	}
}

func traceUnimplemented(tr *tracer.Tracer, ic *cache.InstanceCache, op bytecode.Opcode) {
	if tr == nil {
		return
	}
	tr.ETable.Push(memPages(ic), tracer.Unimplemented(op))
}

func memPages(ic *cache.InstanceCache) uint32 {
	if m := ic.Memory(); m != nil {
		return m.PageSize()
	}
	return 0
}

func i32BinOpClass(op bytecode.Opcode) tracer.BinOp {
	switch op {
	case bytecode.OpI32Add:
		return tracer.BinOpAdd
	case bytecode.OpI32Sub:
		return tracer.BinOpSub
	case bytecode.OpI32Mul:
		return tracer.BinOpMul
	case bytecode.OpI32DivS:
		return tracer.BinOpSignedDiv
	case bytecode.OpI32DivU:
		return tracer.BinOpUnsignedDiv
	case bytecode.OpI32RemS:
		return tracer.BinOpSignedRem
	default: // OpI32RemU
		return tracer.BinOpUnsignedRem
	}
}

func stepI32BinOp(tr *tracer.Tracer, ic *cache.InstanceCache, frame *stack.CallFrame, sp stack.StackPtr, instr bytecode.Instruction) error {
	left := uint32(sp.Get(instr.Left))
	right := uint32(sp.Get(instr.Right))

	var result uint32
	var err error
	switch instr.Op {
	case bytecode.OpI32Add:
		result, err = i32Add(left, right)
	case bytecode.OpI32Sub:
		result, err = i32Sub(left, right)
	case bytecode.OpI32Mul:
		result, err = i32Mul(left, right)
	case bytecode.OpI32DivS:
		var r int32
		r, err = i32DivS(int32(left), int32(right))
		result = uint32(r)
	case bytecode.OpI32DivU:
		result, err = i32DivU(left, right)
	case bytecode.OpI32RemS:
		var r int32
		r, err = i32RemS(int32(left), int32(right))
		result = uint32(r)
	case bytecode.OpI32RemU:
		result, err = i32RemU(left, right)
	}
	if err != nil {
		return err
	}
	sp.Set(instr.Dst, uint64(result))

	if tr != nil {
		base := frame.BaseOffset()
		tr.ETable.Push(memPages(ic), tracer.I32BinOp(
			i32BinOpClass(instr.Op),
			tracer.IVal{Val: uint64(left), Addr: base + int(instr.Left)},
			tracer.IVal{Val: uint64(right), Addr: base + int(instr.Right)},
			tracer.IVal{Val: uint64(result), Addr: base + int(instr.Dst)},
		))
	}
	return nil
}

func stepI64BinOp(sp stack.StackPtr, instr bytecode.Instruction) error {
	left := sp.Get(instr.Left)
	right := sp.Get(instr.Right)

	var result uint64
	var err error
	switch instr.Op {
	case bytecode.OpI64Add:
		result, err = i64Add(left, right)
	case bytecode.OpI64Sub:
		result, err = i64Sub(left, right)
	case bytecode.OpI64Mul:
		result, err = i64Mul(left, right)
	case bytecode.OpI64DivS:
		var r int64
		r, err = i64DivS(int64(left), int64(right))
		result = uint64(r)
	case bytecode.OpI64DivU:
		result, err = i64DivU(left, right)
	case bytecode.OpI64RemS:
		var r int64
		r, err = i64RemS(int64(left), int64(right))
		result = uint64(r)
	case bytecode.OpI64RemU:
		result, err = i64RemU(left, right)
	}
	if err != nil {
		return err
	}
	sp.Set(instr.Dst, result)
	return nil
}

func stepF32BinOp(sp stack.StackPtr, instr bytecode.Instruction) {
	left := math.Float32frombits(uint32(sp.Get(instr.Left)))
	right := math.Float32frombits(uint32(sp.Get(instr.Right)))

	var result float32
	switch instr.Op {
	case bytecode.OpF32Add:
		result = f32Add(left, right)
	case bytecode.OpF32Sub:
		result = f32Sub(left, right)
	case bytecode.OpF32Mul:
		result = f32Mul(left, right)
	case bytecode.OpF32Div:
		result = f32Div(left, right)
	case bytecode.OpF32Min:
		result = f32Min(left, right)
	case bytecode.OpF32Max:
		result = f32Max(left, right)
	case bytecode.OpF32Copysign:
		result = f32Copysign(left, right)
	}
	sp.Set(instr.Dst, uint64(math.Float32bits(result)))
}

func stepF64BinOp(sp stack.StackPtr, instr bytecode.Instruction) {
	left := math.Float64frombits(sp.Get(instr.Left))
	right := math.Float64frombits(sp.Get(instr.Right))

	var result float64
	switch instr.Op {
	case bytecode.OpF64Add:
		result = f64Add(left, right)
	case bytecode.OpF64Sub:
		result = f64Sub(left, right)
	case bytecode.OpF64Mul:
		result = f64Mul(left, right)
	case bytecode.OpF64Div:
		result = f64Div(left, right)
	case bytecode.OpF64Min:
		result = f64Min(left, right)
	case bytecode.OpF64Max:
		result = f64Max(left, right)
	case bytecode.OpF64Copysign:
		result = f64Copysign(left, right)
	}
	sp.Set(instr.Dst, math.Float64bits(result))
}

// stepCall handles OpCall and OpReturnCall. A Wasm callee pushes a new
// CallFrame and returns (nil, nil) so the dispatch loop continues against
// it; a host callee returns a populated WasmOutcome for the driver to
// dispatch (spec.md §4.E "stops only when the next instruction is a call to
// a host function").
func stepCall(store *wasm.Store, values *stack.ValueStack, calls *stack.CallStack, frame *stack.CallFrame, sp stack.StackPtr, instr bytecode.Instruction) (*WasmOutcome, error) {
	entity := store.ResolveFunc(wasm.Func(instr.FuncIdx))

	if entity.Kind == wasm.FuncKindHost {
		kind := CallKindNormal
		if instr.Op == bytecode.OpReturnCall {
			kind = CallKindTail
		} else {
			// Ordinary call: advance past it so the caller resumes here once
			// the driver has dispatched and copied back the host's results.
			frame.SetIP(frame.IP() + 1)
		}
		return &WasmOutcome{
			Kind: OutcomeCall, CallParams: instr.CallParams, Results: instr.Results,
			HostFunc: wasm.Func(instr.FuncIdx), CallKind: kind,
		}, nil
	}

	// Wasm callee: read its arguments out of the caller's register file
	// before anything below can reallocate the ValueStack and invalidate sp.
	params := make([]uint64, len(instr.CallParams))
	for i, r := range instr.CallParams {
		params[i] = sp.Get(r)
	}

	if instr.Op == bytecode.OpReturnCall {
		// Tail call to Wasm: discard the caller's frame first so the callee
		// reuses its space and inherits its results destination, i.e. the
		// grandparent never observes an extra call-stack level.
		calls.Pop()
		values.Drop(frame.FrameSize())
		return nil, pushWasmCallee(store, values, calls, entity.Wasm, frame.Results(), params)
	}

	frame.SetIP(frame.IP() + 1)
	return nil, pushWasmCallee(store, values, calls, entity.Wasm, instr.Results, params)
}

func pushWasmCallee(store *wasm.Store, values *stack.ValueStack, calls *stack.CallStack, callee *wasm.WasmFuncEntity, results bytecode.RegisterSpan, params []uint64) error {
	cf, err := store.CodeMap.Get(store.Fuel(), callee.FuncBody())
	if err != nil {
		return err
	}
	basePtr, framePtr, err := values.AllocCallFrame(cf)
	if err != nil {
		return err
	}
	values.FillAt(basePtr, params)
	return calls.Push(stack.NewCallFrame(framePtr, basePtr, results, callee.Instance(), cf.FrameSize(), cf.Instrs()))
}

// stepReturn pops the current frame, copies its declared return values into
// the new top-of-stack frame's register file (or, if the call stack is now
// empty, into the root call's own results at ValueStack offset 0), and
// drops the popped frame's registers. It reports done=true only once the
// call stack has emptied (spec.md §4.E "WasmOutcome::Return").
func stepReturn(values *stack.ValueStack, calls *stack.CallStack, frame *stack.CallFrame, sp stack.StackPtr, instr bytecode.Instruction) (bool, error) {
	returnVals := make([]uint64, len(instr.ReturnValues))
	for i, r := range instr.ReturnValues {
		returnVals[i] = sp.Get(r)
	}

	popped := calls.Pop()
	if popped != frame {
		panic(fmt.Errorf("wasmi: BUG: returning frame is not the call stack's top frame"))
	}
	values.Drop(frame.FrameSize())

	parent := calls.Peek()
	callerBase := 0
	if parent != nil {
		callerBase = parent.BaseOffset()
	}
	callerSP := values.StackPtrAt(callerBase)
	dst := frame.Results().Iter(len(returnVals))
	for i, r := range dst {
		callerSP.Set(r, returnVals[i])
	}

	return parent == nil, nil
}
