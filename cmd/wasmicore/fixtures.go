package main

import (
	"context"
	"fmt"

	"github.com/wuliuqii/wasmi/api"
	"github.com/wuliuqii/wasmi/internal/engine/bytecode"
	"github.com/wuliuqii/wasmi/internal/engine/code"
	"github.com/wuliuqii/wasmi/internal/wasm"
)

// buildAddFixture registers a Wasm function (i32,i32)->i32 with body
// i32.add and returns a Store/Engine-ready handle, for the "run" and
// "trace" subcommands (spec.md §8 scenario S1).
func buildAddFixture(store *wasm.Store) wasm.Func {
	addType := store.FuncTypes.Add(code.FuncType{
		Params:  []api.ValueType{api.ValueTypeI32, api.ValueTypeI32},
		Results: []api.ValueType{api.ValueTypeI32},
	})
	cf := code.NewCompiledFunc([]bytecode.Instruction{
		{Op: bytecode.OpI32Add, Dst: 2, Left: 0, Right: 1},
		{Op: bytecode.OpReturn, ReturnValues: []bytecode.Register{2}},
	}, 3)
	handle := store.CodeMap.Add(cf)
	instance := &wasm.Instance{ID: 1}
	return store.AddWasmFunc(instance, handle, addType)
}

// errTrapped is the payload a trapping host function returns,
// matching spec.md §8 scenario S3's `HostError("E")`.
var errTrapped = fmt.Errorf("E")

// trappingTrampoline is a host function that always fails, used to drive
// the resumable-invocation demo (spec.md §8 scenario S3).
func trappingTrampoline(context.Context, *wasm.Store, *wasm.Instance, wasm.FuncParams) error {
	return errTrapped
}

// buildCallsHostFixture registers a Wasm function (i32)->i32 whose body
// calls a host function of the same signature and returns its result
// (spec.md §8 scenario S3): a normal (non-tail) call, so the caller frame
// survives a host trap and the invocation is resumable.
func buildCallsHostFixture(store *wasm.Store, hostFunc wasm.Func) wasm.Func {
	callerType := store.FuncTypes.Add(code.FuncType{
		Params:  []api.ValueType{api.ValueTypeI32},
		Results: []api.ValueType{api.ValueTypeI32},
	})
	cf := code.NewCompiledFunc([]bytecode.Instruction{
		{
			Op: bytecode.OpCall, FuncIdx: uint32(hostFunc),
			CallParams: []bytecode.Register{0},
			Results:    bytecode.NewRegisterSpan(bytecode.FromInt16(1)),
		},
		{Op: bytecode.OpReturn, ReturnValues: []bytecode.Register{1}},
	}, 2)
	handle := store.CodeMap.Add(cf)
	instance := &wasm.Instance{ID: 2}
	return store.AddWasmFunc(instance, handle, callerType)
}

// buildTailCallsHostFixture is buildCallsHostFixture's tail-call variant,
// used to drive spec.md §8 scenario S4 (non-resumable trap at the root
// frame).
func buildTailCallsHostFixture(store *wasm.Store, hostFunc wasm.Func) wasm.Func {
	callerType := store.FuncTypes.Add(code.FuncType{
		Params:  []api.ValueType{api.ValueTypeI32},
		Results: []api.ValueType{api.ValueTypeI32},
	})
	cf := code.NewCompiledFunc([]bytecode.Instruction{
		{
			Op: bytecode.OpReturnCall, FuncIdx: uint32(hostFunc),
			CallParams: []bytecode.Register{0},
			Results:    bytecode.NewRegisterSpan(bytecode.FromInt16(0)),
		},
	}, 1)
	handle := store.CodeMap.Add(cf)
	instance := &wasm.Instance{ID: 3}
	return store.AddWasmFunc(instance, handle, callerType)
}
