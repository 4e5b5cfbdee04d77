package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	wasmi "github.com/wuliuqii/wasmi"
	"github.com/wuliuqii/wasmi/internal/engine/code"
	"github.com/wuliuqii/wasmi/internal/tracer"
	"github.com/wuliuqii/wasmi/internal/wasm"
)

func newTraceCmd(log *zap.Logger) *cobra.Command {
	var x, y int32
	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Run the i32.add fixture with a Tracer attached and print the ETable/MTable as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			store := wasm.NewStore(code.NewCodeMap(), code.NewFuncTypes())
			f := buildAddFixture(store)
			engine := wasmi.NewEngine(wasmi.NewConfig(), store)

			tr := tracer.New(log)
			results, err := engine.ExecuteFuncWithTrace(context.Background(), nil, f, []uint64{uint64(uint32(x)), uint64(uint32(y))}, 1, tr)
			if err != nil {
				log.Error("execution trapped", zap.Error(err))
				return err
			}
			log.Info("execution finished", zap.Uint32("result", uint32(results[0])))

			out := struct {
				ETable []tracer.ETableEntry     `json:"etable"`
				MTable []tracer.MemoryTableEntry `json:"mtable"`
			}{
				ETable: tr.ETable.Entries(),
				MTable: tr.GetMTable().Entries(),
			}
			enc, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal trace: %w", err)
			}
			fmt.Println(string(enc))
			return nil
		},
	}
	cmd.Flags().Int32Var(&x, "x", 2, "left operand")
	cmd.Flags().Int32Var(&y, "y", 3, "right operand")
	return cmd
}
