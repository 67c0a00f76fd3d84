package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kilianp07/blendplan/config"
	"github.com/kilianp07/blendplan/core/model"
	"github.com/kilianp07/blendplan/core/planner"
	"github.com/kilianp07/blendplan/core/runlog"
	"github.com/kilianp07/blendplan/infra/logger"
	"github.com/kilianp07/blendplan/pkg/export"
	"github.com/kilianp07/blendplan/pkg/problemio"
)

func newSolveCmd(load configLoader) *cobra.Command {
	var file, out, format string
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve a problem file and print the plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != "json" && format != "csv" {
				return fmt.Errorf("unknown format %q, want json or csv", format)
			}
			cfg, err := load()
			if err != nil {
				return err
			}
			_, plan, err := solveFile(cmd.Context(), cfg, file)
			if err != nil {
				return err
			}
			return withOutput(cmd, out, func(w io.Writer) error {
				if format == "csv" {
					return export.WriteCSV(w, plan)
				}
				return export.WriteJSON(w, plan)
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "problem file (json, yaml or toml)")
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file, stdout when empty")
	cmd.Flags().StringVar(&format, "format", "json", "output format: json or csv")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newReportCmd(load configLoader) *cobra.Command {
	var file, out, format string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render a LaTeX report or an HTML chart of the plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != "latex" && format != "html" {
				return fmt.Errorf("unknown format %q, want latex or html", format)
			}
			cfg, err := load()
			if err != nil {
				return err
			}
			in, plan, err := solveFile(cmd.Context(), cfg, file)
			if err != nil {
				return err
			}
			return withOutput(cmd, out, func(w io.Writer) error {
				if format == "html" {
					return export.WriteChart(w, plan)
				}
				return export.WriteLatex(w, in, &plan)
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "problem file (json, yaml or toml)")
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file, stdout when empty")
	cmd.Flags().StringVar(&format, "format", "latex", "report format: latex or html")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// solveFile loads path and solves it with the configured backends, recording
// the run in the configured run log.
func solveFile(ctx context.Context, cfg *config.Config, path string) (model.ProblemInput, model.Plan, error) {
	in, err := problemio.Load(path)
	if err != nil {
		return in, model.Plan{}, err
	}
	p, err := planner.FromConfig(cfg.Solver, nil, nil, logger.New("planner"))
	if err != nil {
		return in, model.Plan{}, err
	}
	store, err := runlog.Open(cfg.RunLog)
	if err != nil {
		return in, model.Plan{}, err
	}
	defer func() { _ = store.Close() }()
	p.SetRunStore(store)
	plan, err := p.Plan(ctx, in)
	return in, plan, err
}

func withOutput(cmd *cobra.Command, path string, write func(io.Writer) error) (err error) {
	if path == "" {
		return write(cmd.OutOrStdout())
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return write(f)
}
