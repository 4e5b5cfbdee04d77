// Command wasmicore is a demo runner for the execution core: it wires a
// handful of fixture functions (plain arithmetic, host dispatch, tail
// calls) through an Engine and prints what happened. It exists to exercise
// the core end to end, not as an embedding API — real embedders import the
// root wasmi package directly. Structured logging follows the corpus's
// go.uber.org/zap idiom; subcommands follow github.com/spf13/cobra.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	log, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "wasmicore: failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	root := newRootCmd(log)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(log *zap.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wasmicore",
		Short: "Demo runner for the wasmi register-machine execution core",
	}
	cmd.AddCommand(newRunCmd(log))
	cmd.AddCommand(newResumeDemoCmd(log))
	cmd.AddCommand(newTraceCmd(log))
	return cmd
}
