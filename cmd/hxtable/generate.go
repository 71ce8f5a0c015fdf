package main

import (
	"github.com/pthm/hxtable/lib/generator"
	"github.com/spf13/cobra"
)

func newGenerateCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "generate [packages]",
		Short: "Generate row accessors for //hxtable:row structs",
		Example: `  hxtable generate ./...                 Generate for all packages
  hxtable generate ./internal/store      Generate for one package
  hxtable generate --dry-run ./...       Preview generation`,
		RunE: func(cmd *cobra.Command, args []string) error {
			gen := generator.New(generator.Options{
				DryRun: dryRun,
				Out:    cmd.OutOrStdout(),
			})
			return gen.Generate(patterns(args)...)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be generated without writing files")
	return cmd
}

func newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean [packages]",
		Short: "Remove generated files (*" + generator.Suffix + ")",
		RunE: func(cmd *cobra.Command, args []string) error {
			gen := generator.New(generator.Options{Out: cmd.OutOrStdout()})
			return gen.Clean(patterns(args)...)
		},
	}
}

func patterns(args []string) []string {
	if len(args) == 0 {
		return []string{"./..."}
	}
	return args
}
