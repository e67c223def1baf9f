package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"superforge/internal/config"
	"superforge/internal/content"
)

func newChaptersCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chapters",
		Short: "Manage chapter records in the content store",
	}
	cmd.AddCommand(newChaptersAddCommand(ctx))
	cmd.AddCommand(newChaptersListCommand(ctx))
	cmd.AddCommand(newChaptersMissingCommand(ctx))
	return cmd
}

func newChaptersAddCommand(ctx *commandContext) *cobra.Command {
	var htmlPath string
	cmd := &cobra.Command{
		Use:   "add <chapter> <title>",
		Short: "Record a chapter title (and optionally its source html)",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			chapter, err := parseNumber("chapter", args[0])
			if err != nil {
				return err
			}
			title := strings.TrimSpace(strings.Join(args[1:], " "))
			if htmlPath != "" {
				if htmlPath, err = config.ExpandPath(htmlPath); err != nil {
					return err
				}
			}
			return ctx.withStore(func(_ *config.Config, store *content.Store) error {
				rec, err := store.UpsertChapter(cmd.Context(), chapter, title, htmlPath)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Chapter %d %q stored (section %d, book %d)\n", rec.Chapter, rec.Title, rec.Section, rec.Book)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&htmlPath, "html", "", "Path to the chapter's source html")
	return cmd
}

func newChaptersListCommand(ctx *commandContext) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "list <book>",
		Short: "List stored chapters of a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutputFormat(output)
			if err != nil {
				return err
			}
			book, err := parseBook(args[0])
			if err != nil {
				return err
			}
			return ctx.withStore(func(_ *config.Config, store *content.Store) error {
				chapters, err := store.ChaptersOfBook(cmd.Context(), book)
				if err != nil {
					return err
				}
				if done, err := writeStructured(cmd, format, chapters); done {
					return err
				}
				if len(chapters) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "No chapters stored for book %d\n", book)
					return nil
				}
				rows := make([][]string, 0, len(chapters))
				for _, ch := range chapters {
					rows = append(rows, []string{
						strconv.Itoa(ch.Chapter),
						strconv.Itoa(ch.Section),
						orDash(ch.Title),
						orDash(ch.HTMLPath),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Chapter", "Section", "Title", "HTML"},
					rows,
					[]columnAlignment{alignRight, alignRight, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}
	addOutputFlag(cmd, &output)
	return cmd
}

func newChaptersMissingCommand(ctx *commandContext) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "missing <book>",
		Short: "List chapters of a book that have no stored record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutputFormat(output)
			if err != nil {
				return err
			}
			book, err := parseBook(args[0])
			if err != nil {
				return err
			}
			return ctx.withStore(func(_ *config.Config, store *content.Store) error {
				missing, err := store.MissingChapters(cmd.Context(), book)
				if err != nil {
					return err
				}
				if missing == nil {
					missing = []int{}
				}
				if done, err := writeStructured(cmd, format, missing); done {
					return err
				}
				out := cmd.OutOrStdout()
				if len(missing) == 0 {
					fmt.Fprintf(out, "Book %d: every chapter is stored\n", book)
					return nil
				}
				fmt.Fprintf(out, "Book %d: %d chapters missing\n", book, len(missing))
				for _, span := range compactRanges(missing) {
					fmt.Fprintln(out, span)
				}
				return nil
			})
		},
	}
	addOutputFlag(cmd, &output)
	return cmd
}

// compactRanges collapses ascending chapter numbers into "a-b" spans.
func compactRanges(values []int) []string {
	var out []string
	for i := 0; i < len(values); {
		j := i
		for j+1 < len(values) && values[j+1] == values[j]+1 {
			j++
		}
		if i == j {
			out = append(out, strconv.Itoa(values[i]))
		} else {
			out = append(out, fmt.Sprintf("%d-%d", values[i], values[j]))
		}
		i = j + 1
	}
	return out
}
