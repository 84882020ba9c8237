package main

import (
	"context"
	"fmt"
	"os"

	"load-planning-service/internal/config"
	"load-planning-service/internal/platform/logging"

	"github.com/spf13/cobra"
)

func main() {
	config.LoadDotEnv()
	cfg := config.Load()

	if _, err := logging.New(cfg.LogLevel, "console"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := newRootCmd(cfg).ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(cfg config.Config) *cobra.Command {
	var output string

	root := &cobra.Command{
		Use:          "planctl",
		Short:        "Plan truck loads from the command line",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&output, "output", "o", "json", "output format (json|yaml)")

	root.AddCommand(
		newPlanCmd(cfg, &output),
		newLayoutCmd(cfg, &output),
	)
	return root
}
