package instrs_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wuliuqii/wasmi/internal/engine/bytecode"
	"github.com/wuliuqii/wasmi/internal/engine/cache"
	"github.com/wuliuqii/wasmi/internal/engine/code"
	"github.com/wuliuqii/wasmi/internal/engine/instrs"
	"github.com/wuliuqii/wasmi/internal/engine/stack"
	"github.com/wuliuqii/wasmi/internal/tracer"
	"github.com/wuliuqii/wasmi/internal/wasm"
	"github.com/wuliuqii/wasmi/internal/wasmruntime"
)

func newTestStore() (*wasm.Store, *wasm.Instance) {
	store := wasm.NewStore(code.NewCodeMap(), code.NewFuncTypes())
	return store, &wasm.Instance{ID: 1}
}

// pushRootCall reserves resultsLen slots at ValueStack offset 0 (the root
// invocation's own results) and pushes fn's compiled body as the sole
// CallFrame, filling its registers with params.
func pushRootCall(t *testing.T, store *wasm.Store, instance *wasm.Instance, values *stack.ValueStack, calls *stack.CallStack, fn wasm.Func, params []uint64, resultsLen int) {
	t.Helper()
	require.NoError(t, values.Reserve(resultsLen))
	values.ExtendZeros(resultsLen)

	entity := store.ResolveFunc(fn)
	cf, err := store.CodeMap.Get(nil, entity.Wasm.FuncBody())
	require.NoError(t, err)
	basePtr, framePtr, err := values.AllocCallFrame(cf)
	require.NoError(t, err)
	values.FillAt(basePtr, params)
	require.NoError(t, calls.Push(stack.NewCallFrame(framePtr, basePtr, bytecode.NewRegisterSpan(0), instance, cf.FrameSize(), cf.Instrs())))
}

func TestRun_PureAdd_ReturnsToRoot(t *testing.T) {
	store, instance := newTestStore()
	typeID := store.FuncTypes.Add(code.FuncType{})
	handle := store.CodeMap.Add(code.NewCompiledFunc([]bytecode.Instruction{
		{Op: bytecode.OpI32Add, Dst: 2, Left: 0, Right: 1},
		{Op: bytecode.OpReturn, ReturnValues: []bytecode.Register{2}},
	}, 3))
	fn := store.AddWasmFunc(instance, handle, typeID)

	values := stack.NewValueStack(0)
	calls := stack.NewCallStack(0)
	ic := cache.NewInstanceCache(instance)
	pushRootCall(t, store, instance, values, calls, fn, []uint64{2, 3}, 1)

	outcome, err := instrs.Execute(store, ic, values, calls)
	require.NoError(t, err)
	require.Equal(t, instrs.OutcomeReturn, outcome.Kind)
	require.Equal(t, uint64(5), values.AsSlice()[0])
	require.Equal(t, 0, calls.Len())
	require.Equal(t, 1, values.Len(), "the callee's frame is dropped, leaving only the root result slot")
}

func TestRun_CallToHost_Normal_AdvancesIPAndKeepsCallerFrame(t *testing.T) {
	store, instance := newTestStore()
	typeID := store.FuncTypes.Add(code.FuncType{})
	hostFn := store.AddHostFunc(func(context.Context, *wasm.Store, *wasm.Instance, wasm.FuncParams) error { return nil }, typeID)

	handle := store.CodeMap.Add(code.NewCompiledFunc([]bytecode.Instruction{
		{Op: bytecode.OpCall, FuncIdx: uint32(hostFn), CallParams: []bytecode.Register{0}, Results: bytecode.NewRegisterSpan(1)},
		{Op: bytecode.OpReturn, ReturnValues: []bytecode.Register{1}},
	}, 2))
	wasmFn := store.AddWasmFunc(instance, handle, typeID)

	values := stack.NewValueStack(0)
	calls := stack.NewCallStack(0)
	ic := cache.NewInstanceCache(instance)
	pushRootCall(t, store, instance, values, calls, wasmFn, []uint64{7}, 1)

	frame := calls.Peek()
	outcome, err := instrs.Execute(store, ic, values, calls)
	require.NoError(t, err)
	require.Equal(t, instrs.OutcomeCall, outcome.Kind)
	require.Equal(t, instrs.CallKindNormal, outcome.CallKind)
	require.Equal(t, []bytecode.Register{0}, outcome.CallParams)
	require.Equal(t, bytecode.Register(1), outcome.Results.Head())
	require.Equal(t, hostFn, outcome.HostFunc)
	require.Equal(t, 1, frame.IP(), "a normal call advances past itself so resuming continues at Return")
	require.Equal(t, 1, calls.Len(), "the caller frame stays put awaiting the host's results")
}

func TestRun_CallToHost_Tail_LeavesIPAndFrameForDriver(t *testing.T) {
	store, instance := newTestStore()
	typeID := store.FuncTypes.Add(code.FuncType{})
	hostFn := store.AddHostFunc(func(context.Context, *wasm.Store, *wasm.Instance, wasm.FuncParams) error { return nil }, typeID)

	handle := store.CodeMap.Add(code.NewCompiledFunc([]bytecode.Instruction{
		{Op: bytecode.OpReturnCall, FuncIdx: uint32(hostFn), CallParams: []bytecode.Register{0}},
	}, 1))
	wasmFn := store.AddWasmFunc(instance, handle, typeID)

	values := stack.NewValueStack(0)
	calls := stack.NewCallStack(0)
	ic := cache.NewInstanceCache(instance)
	pushRootCall(t, store, instance, values, calls, wasmFn, []uint64{7}, 1)

	frame := calls.Peek()
	outcome, err := instrs.Execute(store, ic, values, calls)
	require.NoError(t, err)
	require.Equal(t, instrs.OutcomeCall, outcome.Kind)
	require.Equal(t, instrs.CallKindTail, outcome.CallKind)
	require.Equal(t, 0, frame.IP(), "a tail call leaves ip untouched; the driver pops the frame after dispatch")
	require.Equal(t, 1, calls.Len(), "InstructionExecutor never pops the caller frame for a tail call to host")
}

func TestRun_CallToWasm_Normal_ReturnsResultToCaller(t *testing.T) {
	store, instance := newTestStore()
	typeID := store.FuncTypes.Add(code.FuncType{})

	calleeHandle := store.CodeMap.Add(code.NewCompiledFunc([]bytecode.Instruction{
		{Op: bytecode.OpI32Add, Dst: 2, Left: 0, Right: 1},
		{Op: bytecode.OpReturn, ReturnValues: []bytecode.Register{2}},
	}, 3))
	calleeFn := store.AddWasmFunc(instance, calleeHandle, typeID)

	callerHandle := store.CodeMap.Add(code.NewCompiledFunc([]bytecode.Instruction{
		{Op: bytecode.OpConst, Dst: 0, Imm: 10},
		{Op: bytecode.OpConst, Dst: 1, Imm: 20},
		{Op: bytecode.OpCall, FuncIdx: uint32(calleeFn), CallParams: []bytecode.Register{0, 1}, Results: bytecode.NewRegisterSpan(2)},
		{Op: bytecode.OpReturn, ReturnValues: []bytecode.Register{2}},
	}, 3))
	callerFn := store.AddWasmFunc(instance, callerHandle, typeID)

	values := stack.NewValueStack(0)
	calls := stack.NewCallStack(0)
	ic := cache.NewInstanceCache(instance)
	pushRootCall(t, store, instance, values, calls, callerFn, nil, 1)

	outcome, err := instrs.Execute(store, ic, values, calls)
	require.NoError(t, err)
	require.Equal(t, instrs.OutcomeReturn, outcome.Kind)
	require.Equal(t, uint64(30), values.AsSlice()[0])
	require.Equal(t, 0, calls.Len())
}

func TestRun_ReturnCallToWasm_InheritsRootResultDestination(t *testing.T) {
	store, instance := newTestStore()
	typeID := store.FuncTypes.Add(code.FuncType{})

	calleeHandle := store.CodeMap.Add(code.NewCompiledFunc([]bytecode.Instruction{
		{Op: bytecode.OpI32Add, Dst: 2, Left: 0, Right: 1},
		{Op: bytecode.OpReturn, ReturnValues: []bytecode.Register{2}},
	}, 3))
	calleeFn := store.AddWasmFunc(instance, calleeHandle, typeID)

	callerHandle := store.CodeMap.Add(code.NewCompiledFunc([]bytecode.Instruction{
		{Op: bytecode.OpConst, Dst: 0, Imm: 10},
		{Op: bytecode.OpConst, Dst: 1, Imm: 20},
		{Op: bytecode.OpReturnCall, FuncIdx: uint32(calleeFn), CallParams: []bytecode.Register{0, 1}},
	}, 2))
	callerFn := store.AddWasmFunc(instance, callerHandle, typeID)

	values := stack.NewValueStack(0)
	calls := stack.NewCallStack(0)
	ic := cache.NewInstanceCache(instance)
	pushRootCall(t, store, instance, values, calls, callerFn, nil, 1)

	outcome, err := instrs.Execute(store, ic, values, calls)
	require.NoError(t, err)
	require.Equal(t, instrs.OutcomeReturn, outcome.Kind)
	require.Equal(t, uint64(30), values.AsSlice()[0], "the tail callee's return lands in the root's own result slot, not a discarded caller frame")
	require.Equal(t, 0, calls.Len())
	require.Equal(t, 1, values.Len(), "both the caller's and callee's frames are fully unwound")
}

func TestRun_Unreachable_Traps(t *testing.T) {
	store, instance := newTestStore()
	typeID := store.FuncTypes.Add(code.FuncType{})
	handle := store.CodeMap.Add(code.NewCompiledFunc([]bytecode.Instruction{
		{Op: bytecode.OpUnreachable},
	}, 0))
	fn := store.AddWasmFunc(instance, handle, typeID)

	values := stack.NewValueStack(0)
	calls := stack.NewCallStack(0)
	ic := cache.NewInstanceCache(instance)
	pushRootCall(t, store, instance, values, calls, fn, nil, 0)

	_, err := instrs.Execute(store, ic, values, calls)
	require.ErrorIs(t, err, wasmruntime.ErrRuntimeUnreachable)
}

func TestExecuteWithTrace_RecordsOneStepForPureAdd(t *testing.T) {
	store, instance := newTestStore()
	typeID := store.FuncTypes.Add(code.FuncType{})
	handle := store.CodeMap.Add(code.NewCompiledFunc([]bytecode.Instruction{
		{Op: bytecode.OpI32Add, Dst: 2, Left: 0, Right: 1},
		{Op: bytecode.OpReturn, ReturnValues: []bytecode.Register{2}},
	}, 3))
	fn := store.AddWasmFunc(instance, handle, typeID)

	values := stack.NewValueStack(0)
	calls := stack.NewCallStack(0)
	ic := cache.NewInstanceCache(instance)
	pushRootCall(t, store, instance, values, calls, fn, []uint64{2, 3}, 1)

	tr := tracer.New(nil)
	outcome, err := instrs.ExecuteWithTrace(store, ic, values, calls, tr)
	require.NoError(t, err)
	require.Equal(t, instrs.OutcomeReturn, outcome.Kind)
	require.Len(t, tr.ETable.Entries(), 1, "Return is control-flow bookkeeping and is not itself a traced step")
}
