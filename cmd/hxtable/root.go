package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/pthm/hxtable/internal/logging"
	"github.com/spf13/cobra"
)

type globalFlags struct {
	logFormat string
	debug     bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var flags globalFlags

	root := &cobra.Command{
		Use:   "hxtable",
		Short: "Declarative HTML tables for Go",
		Long: `hxtable renders HTML tables from declared columns and row data, and
generates reflection-free row accessors for marked structs.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(flags.logFormat, flags.debug, stderr)
			if err != nil {
				return err
			}
			slog.SetDefault(logger)
			return nil
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&flags.logFormat, "log-format", logging.FormatText, "log format (text or json)")
	root.PersistentFlags().BoolVar(&flags.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newRenderCmd(),
		newGenerateCmd(),
		newCleanCmd(),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "hxtable version %s (%s)\n", Version, Commit)
		},
	}
}
