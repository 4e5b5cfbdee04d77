package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	wasmi "github.com/wuliuqii/wasmi"
	"github.com/wuliuqii/wasmi/internal/engine/code"
	"github.com/wuliuqii/wasmi/internal/wasm"
)

func newRunCmd(log *zap.Logger) *cobra.Command {
	var x, y int32
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the i32.add fixture (spec scenario S1) and print its result",
		RunE: func(cmd *cobra.Command, args []string) error {
			store := wasm.NewStore(code.NewCodeMap(), code.NewFuncTypes())
			f := buildAddFixture(store)
			engine := wasmi.NewEngine(wasmi.NewConfig(), store)

			results, err := engine.ExecuteFunc(context.Background(), nil, f, []uint64{uint64(uint32(x)), uint64(uint32(y))}, 1)
			if err != nil {
				log.Error("execution trapped", zap.Error(err))
				return err
			}
			log.Info("execution finished", zap.Int32("x", x), zap.Int32("y", y), zap.Uint32("result", uint32(results[0])))
			return nil
		},
	}
	cmd.Flags().Int32Var(&x, "x", 2, "left operand")
	cmd.Flags().Int32Var(&y, "y", 3, "right operand")
	return cmd
}
