package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"superforge/internal/partition"
)

func newLocateCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:         "locate <chapter>",
		Short:       "Show the section, book and part of a chapter",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutputFormat(output)
			if err != nil {
				return err
			}
			chapter, err := parseNumber("chapter", args[0])
			if err != nil {
				return err
			}
			loc, err := partition.Locate(chapter)
			if err != nil {
				return err
			}
			if done, err := writeStructured(cmd, format, loc); done {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Chapter %d: section %d, book %d, %s\n", loc.Chapter, loc.Section, loc.Book, partLabel(loc.Part))
			return nil
		},
	}
	addOutputFlag(cmd, &output)
	return cmd
}

func newSectionsCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:         "sections",
		Short:       "List every section with its chapter range",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutputFormat(output)
			if err != nil {
				return err
			}
			catalog := partition.Catalog()
			if done, err := writeStructured(cmd, format, catalog); done {
				return err
			}
			rows := make([][]string, 0, len(catalog))
			for _, info := range catalog {
				rows = append(rows, []string{
					strconv.Itoa(info.Section),
					strconv.Itoa(info.Book),
					partLabel(info.Part),
					strconv.Itoa(info.Start),
					strconv.Itoa(info.End),
					strconv.Itoa(info.Chapters),
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Section", "Book", "Part", "First", "Last", "Chapters"},
				rows,
				[]columnAlignment{alignRight, alignRight, alignLeft, alignRight, alignRight, alignRight},
			))
			fmt.Fprintf(out, "%d chapters (skipped: %s)\n", partition.ChapterTotal(), joinInts(partition.SkippedChapters()))
			return nil
		},
	}
	addOutputFlag(cmd, &output)
	return cmd
}

func partLabel(part int) string {
	if part == 0 {
		return "whole book"
	}
	return fmt.Sprintf("part %d", part)
}
