package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"superforge/internal/content"
	"superforge/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check directories, the content database and the converter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutputFormat(output)
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			var pinger preflight.Pinger
			store, openErr := content.Open(cfg)
			if openErr == nil {
				defer store.Close()
				pinger = store
			}
			results := preflight.RunAll(cmd.Context(), cfg, pinger, openErr)

			if done, err := writeStructured(cmd, format, results); done {
				if err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				if ctx.configPath != "" {
					fmt.Fprintln(out, renderStatusLine("Config", statusInfo, ctx.configPath, colorize))
				}
				for _, line := range preflightLines(results, colorize) {
					fmt.Fprintln(out, line)
				}
			}

			if failed := preflight.Failed(results); len(failed) > 0 {
				return fmt.Errorf("%d of %d checks failed", len(failed), len(results))
			}
			return nil
		},
	}
	addOutputFlag(cmd, &output)
	return cmd
}
