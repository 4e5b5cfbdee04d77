package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	wasmi "github.com/wuliuqii/wasmi"
	"github.com/wuliuqii/wasmi/api"
	"github.com/wuliuqii/wasmi/internal/engine/code"
	"github.com/wuliuqii/wasmi/internal/wasm"
)

func newResumeDemoCmd(log *zap.Logger) *cobra.Command {
	var tail bool
	cmd := &cobra.Command{
		Use:   "resume-demo",
		Short: "Drive the resumable-invocation cycle (spec scenarios S3/S4)",
		RunE: func(cmd *cobra.Command, args []string) error {
			store := wasm.NewStore(code.NewCodeMap(), code.NewFuncTypes())
			return runResumeDemo(context.Background(), log, store, tail)
		},
	}
	cmd.Flags().BoolVar(&tail, "tail", false, "trap via a tail call at the root frame (non-resumable, S4)")
	return cmd
}

func runResumeDemo(ctx context.Context, log *zap.Logger, store *wasm.Store, tail bool) error {
	hostType := store.FuncTypes.Add(code.FuncType{
		Params:  []api.ValueType{api.ValueTypeI32},
		Results: []api.ValueType{api.ValueTypeI32},
	})
	hostFunc := store.AddHostFunc(trappingTrampoline, hostType)

	var caller wasm.Func
	if tail {
		caller = buildTailCallsHostFixture(store, hostFunc)
	} else {
		caller = buildCallsHostFixture(store, hostFunc)
	}

	engine := wasmi.NewEngine(wasmi.NewConfig(), store)
	call, err := engine.ExecuteFuncResumable(ctx, nil, caller, []uint64{7}, 1)
	if err != nil {
		log.Info("trap was not resumable", zap.Error(err), zap.Bool("tail", tail))
		return nil
	}
	if call.IsFinished() {
		log.Info("call finished without trapping", zap.Uint64("result", call.Results[0]))
		return nil
	}

	log.Info("host function trapped, invocation parked", zap.Error(call.Invocation.HostError()))
	final, err := engine.ResumeFunc(ctx, call.Invocation, []uint64{42})
	if err != nil {
		log.Error("resume failed", zap.Error(err))
		return err
	}
	log.Info("resumed to completion", zap.Uint64("result", final.Results[0]))
	return nil
}
