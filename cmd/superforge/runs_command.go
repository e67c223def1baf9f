package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"superforge/internal/config"
	"superforge/internal/content"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var output string
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent build runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutputFormat(output)
			if err != nil {
				return err
			}
			return ctx.withStore(func(_ *config.Config, store *content.Store) error {
				runs, err := store.Runs(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if done, err := writeStructured(cmd, format, runs); done {
					return err
				}
				if len(runs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No build runs recorded")
					return nil
				}
				rows := make([][]string, 0, len(runs))
				for _, run := range runs {
					finished := "-"
					if run.FinishedAt != nil {
						finished = formatTimestamp(*run.FinishedAt)
					}
					rows = append(rows, []string{
						run.ID,
						formatTimestamp(run.StartedAt),
						finished,
						joinInts(run.Books),
						string(run.Status),
						orDash(run.Error),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Run", "Started", "Finished", "Books", "Status", "Error"},
					rows,
					nil,
				))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum runs to list")
	addOutputFlag(cmd, &output)
	return cmd
}
