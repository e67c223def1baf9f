package main

import (
	"errors"
	"fmt"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"superforge/internal/config"
	"superforge/internal/content"
	"superforge/internal/convert"
	"superforge/internal/pipeline"
	"superforge/internal/preflight"
)

func newBuildCommand(ctx *commandContext) *cobra.Command {
	var all, convertFlag, check bool
	var jobs int
	var output string

	cmd := &cobra.Command{
		Use:   "build [book...]",
		Short: "Write descriptors and metadata for books, optionally converting them",
		Long: "Write sg{book}.yaml and the metadata documents into each book's html directory.\n" +
			"With no book arguments (or --all) every book is built. --check fails books whose\n" +
			"documents are missing; --convert also runs the converter and implies --check.",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutputFormat(output)
			if err != nil {
				return err
			}
			if all && len(args) > 0 {
				return errors.New("pass book numbers or --all, not both")
			}
			books, err := parseBooks(args)
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			return ctx.withStore(func(cfg *config.Config, store *content.Store) error {
				var runner convert.Runner
				if convertFlag {
					if failed := preflight.Failed(preflight.RunAll(signalCtx, cfg, store, nil)); len(failed) > 0 {
						names := make([]string, 0, len(failed))
						for _, r := range failed {
							names = append(names, fmt.Sprintf("%s: %s", r.Name, r.Detail))
						}
						return fmt.Errorf("preflight failed (run `superforge doctor`): %s", strings.Join(names, "; "))
					}
					client, err := convert.NewFromConfig(cfg, logger)
					if err != nil {
						return err
					}
					runner = client
				}

				p, err := pipeline.New(cfg, store, runner, logger)
				if err != nil {
					return err
				}
				summary, err := p.Build(signalCtx, books, pipeline.Options{Check: check, Convert: convertFlag, Jobs: jobs})
				if err != nil {
					return err
				}
				if done, err := writeStructured(cmd, format, summary); done {
					if err != nil {
						return err
					}
					return summaryError(summary)
				}
				renderBuildSummary(cmd, summary)
				return summaryError(summary)
			})
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Build every book")
	cmd.Flags().BoolVar(&convertFlag, "convert", false, "Run the converter after writing descriptors")
	cmd.Flags().BoolVar(&check, "check", false, "Fail books whose manifest documents are missing")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "Books processed in parallel (default build.jobs)")
	addOutputFlag(cmd, &output)
	return cmd
}

func renderBuildSummary(cmd *cobra.Command, summary pipeline.Summary) {
	rows := make([][]string, 0, len(summary.Results))
	for _, r := range summary.Results {
		rows = append(rows, []string{
			strconv.Itoa(r.Book),
			strconv.Itoa(r.Inputs),
			r.OutputFile,
			yesNo(r.Converted),
			formatDuration(r.Duration),
			orDash(r.Error),
		})
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderTable(
		[]string{"Book", "Inputs", "Output", "Converted", "Duration", "Error"},
		rows,
		[]columnAlignment{alignRight, alignRight, alignLeft, alignLeft, alignRight, alignLeft},
	))
	fmt.Fprintf(out, "Run %s: %s\n", summary.RunID, summary.Status)
}

func summaryError(summary pipeline.Summary) error {
	failed := summary.Failed()
	if len(failed) == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d books failed", len(failed), len(summary.Results))
}
