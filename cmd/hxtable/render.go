package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pthm/hxtable"
	"github.com/pthm/hxtable/internal/config"
	"github.com/pthm/hxtable/internal/rows"
	"github.com/spf13/cobra"
)

type renderFlags struct {
	config   string
	rows     string
	query    string
	jsonPath string
	output   string
	sortBy   string
	reverse  bool
}

func newRenderCmd() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "render --config table.yaml --rows items.json",
		Short: "Render rows through a table config",
		Long: `Render reads a YAML table config and a JSON or YAML row document and
writes the table HTML.

Use --query (jq) or --jsonpath to pick the rows out of a larger document.`,
		Example: `  hxtable render --config items.yaml --rows items.json
  hxtable render --config items.yaml --rows dump.json --query '.items[] | select(.active)'
  hxtable render --config items.yaml --rows dump.yaml --jsonpath '$.data.items[*]'
  curl -s api/items | hxtable render --config items.yaml --rows -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, flags)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.config, "config", "c", "", "table config file (YAML)")
	f.StringVarP(&flags.rows, "rows", "r", "-", "row document (JSON or YAML, - for stdin)")
	f.StringVarP(&flags.query, "query", "q", "", "jq expression selecting the rows")
	f.StringVar(&flags.jsonPath, "jsonpath", "", "JSONPath expression selecting the rows")
	f.StringVarP(&flags.output, "output", "o", "", "write HTML to a file instead of stdout")
	f.StringVar(&flags.sortBy, "sort", "", "mark a column as the active sort")
	f.BoolVar(&flags.reverse, "desc", false, "with --sort, mark the sort as descending")
	_ = cmd.MarkFlagRequired("config")
	cmd.MarkFlagsMutuallyExclusive("query", "jsonpath")

	return cmd
}

func runRender(cmd *cobra.Command, flags renderFlags) error {
	cfg, err := config.LoadFromPath(flags.config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	def, err := cfg.Build()
	if err != nil {
		return err
	}

	doc, err := rows.LoadFile(flags.rows)
	if err != nil {
		return fmt.Errorf("load rows: %w", err)
	}

	var selected any = doc
	switch {
	case flags.query != "":
		list, err := rows.Query(doc, flags.query)
		if err != nil {
			return err
		}
		selected = list
	case flags.jsonPath != "":
		if selected, err = rows.Select(doc, flags.jsonPath); err != nil {
			return err
		}
	}

	seq, err := rows.Seq(selected)
	if err != nil {
		return err
	}

	opts := []hxtable.Option{hxtable.WithLogger(slog.Default())}
	if cmd.Flags().Changed("sort") {
		state := hxtable.SortState{Key: flags.sortBy, Reverse: flags.reverse}.Sanitize(def)
		if state.Key != flags.sortBy {
			slog.Warn("ignoring unsortable column", "sort", flags.sortBy)
		}
		opts = append(opts, hxtable.SortBy(state.Key, state.Reverse))
	}

	slog.Debug("rendering table", "config", flags.config, "rows", flags.rows, "columns", def.Len())
	var buf strings.Builder
	if err := def.Table(seq, opts...).Render(cmd.Context(), &buf); err != nil {
		return err
	}
	buf.WriteString("\n")
	html := buf.String()

	if flags.output == "" {
		_, err = io.WriteString(cmd.OutOrStdout(), html)
		return err
	}
	return writeOutput(flags.output, html)
}

// writeOutput writes a finished render, so a failed one leaves no file.
func writeOutput(path, html string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(f, html); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
