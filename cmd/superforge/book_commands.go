package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"superforge/internal/config"
	"superforge/internal/content"
	"superforge/internal/descriptor"
	"superforge/internal/fileutil"
	"superforge/internal/manifest"
	"superforge/internal/partition"
)

type bookRow struct {
	Book           int    `json:"book" yaml:"book"`
	Sections       []int  `json:"sections" yaml:"sections"`
	Chapters       int    `json:"chapters" yaml:"chapters"`
	StoredChapters int    `json:"stored_chapters" yaml:"stored_chapters"`
	Title          string `json:"title,omitempty" yaml:"title,omitempty"`
	OutputFile     string `json:"output_file" yaml:"output_file"`
	UUID           string `json:"uuid,omitempty" yaml:"uuid,omitempty"`
}

func newBooksCommand(ctx *commandContext) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "books",
		Short: "List books with their sections, chapter counts and titles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutputFormat(output)
			if err != nil {
				return err
			}
			return ctx.withStore(func(_ *config.Config, store *content.Store) error {
				rows, err := listBooks(cmd.Context(), store)
				if err != nil {
					return err
				}
				if done, err := writeStructured(cmd, format, rows); done {
					return err
				}
				table := make([][]string, 0, len(rows))
				for _, r := range rows {
					table = append(table, []string{
						strconv.Itoa(r.Book),
						joinInts(r.Sections),
						strconv.Itoa(r.Chapters),
						strconv.Itoa(r.StoredChapters),
						orDash(r.Title),
						r.OutputFile,
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Book", "Sections", "Chapters", "Stored", "Title", "Output"},
					table,
					[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}
	addOutputFlag(cmd, &output)
	cmd.AddCommand(newBooksSetTitleCommand(ctx))
	return cmd
}

func listBooks(ctx context.Context, store *content.Store) ([]bookRow, error) {
	if err := store.EnsureBooks(ctx); err != nil {
		return nil, err
	}
	stored, err := store.Books(ctx)
	if err != nil {
		return nil, err
	}
	byBook := make(map[int]content.Book, len(stored))
	for _, b := range stored {
		byBook[b.Book] = b
	}

	rows := make([]bookRow, 0, partition.BookCount)
	for _, book := range partition.Books() {
		m, err := manifest.Build(book)
		if err != nil {
			return nil, err
		}
		storedCount, err := store.ChapterCount(ctx, book)
		if err != nil {
			return nil, err
		}
		row := bookRow{
			Book:           book,
			Sections:       m.Sections,
			Chapters:       len(m.Chapters()),
			StoredChapters: storedCount,
			OutputFile:     descriptor.DefaultOutputFile(book),
		}
		if rec, ok := byBook[book]; ok {
			row.Title = rec.Title
			row.UUID = rec.UUID.String()
			if rec.OutputFile != "" {
				row.OutputFile = rec.OutputFile
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func newBooksSetTitleCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set-title <book> <title>",
		Short: "Store a book title; the EPUB filename is derived from it",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			book, err := parseBook(args[0])
			if err != nil {
				return err
			}
			title := strings.TrimSpace(strings.Join(args[1:], " "))
			if title == "" {
				return fmt.Errorf("title must not be empty")
			}
			return ctx.withStore(func(_ *config.Config, store *content.Store) error {
				rec, err := store.SetTitle(cmd.Context(), book, title)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Book %d titled %q (output %s)\n", rec.Book, rec.Title, rec.OutputFile)
				return nil
			})
		},
	}
}

func newManifestCommand(ctx *commandContext) *cobra.Command {
	var output string
	var fullPaths bool
	cmd := &cobra.Command{
		Use:   "manifest <book>",
		Short: "Print the ordered document list of a book",
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
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			m, err := manifest.Build(book)
			if err != nil {
				return err
			}
			docs := m.Render(cfg.Layout(), fullPaths)
			payload := struct {
				Book      int      `json:"book" yaml:"book"`
				Sections  []int    `json:"sections" yaml:"sections"`
				Documents []string `json:"documents" yaml:"documents"`
			}{Book: book, Sections: m.Sections, Documents: docs}
			if done, err := writeStructured(cmd, format, payload); done {
				return err
			}
			out := cmd.OutOrStdout()
			for _, doc := range docs {
				fmt.Fprintln(out, doc)
			}
			return nil
		},
	}
	addOutputFlag(cmd, &output)
	cmd.Flags().BoolVar(&fullPaths, "paths", false, "Print full paths under the books directory")
	return cmd
}

func newDescriptorCommand(ctx *commandContext) *cobra.Command {
	var write bool
	cmd := &cobra.Command{
		Use:   "descriptor <book>",
		Short: "Render the converter build descriptor of a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			book, err := parseBook(args[0])
			if err != nil {
				return err
			}
			return ctx.withStore(func(cfg *config.Config, store *content.Store) error {
				body, inputs, err := renderDescriptor(cmd.Context(), cfg, store, book)
				if err != nil {
					return err
				}
				if !write {
					_, err := cmd.OutOrStdout().Write(body)
					return err
				}
				path := cfg.Layout().DescriptorPath(book)
				if err := fileutil.WriteFileAtomic(path, body, 0o644); err != nil {
					return err
				}
				if err := store.SaveDescriptor(cmd.Context(), book, body, inputs); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d input files)\n", path, inputs)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&write, "write", false, "Write the descriptor into the book's html directory")
	cmd.AddCommand(newDescriptorShowCommand(ctx))
	return cmd
}

func renderDescriptor(ctx context.Context, cfg *config.Config, store *content.Store, book int) ([]byte, int, error) {
	m, err := manifest.Build(book)
	if err != nil {
		return nil, 0, err
	}
	outputFile := ""
	rec, err := store.Book(ctx, book)
	if err != nil {
		return nil, 0, err
	}
	if rec != nil {
		outputFile = rec.OutputFile
	}
	d, err := descriptor.Render(book, m, cfg.BookResources(book, outputFile))
	if err != nil {
		return nil, 0, err
	}
	body, err := d.Encode()
	if err != nil {
		return nil, 0, err
	}
	return body, len(d.InputFiles), nil
}

func newDescriptorShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <book>",
		Short: "Print the descriptor last written for a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			book, err := parseBook(args[0])
			if err != nil {
				return err
			}
			return ctx.withStore(func(_ *config.Config, store *content.Store) error {
				stored, err := store.Descriptor(cmd.Context(), book)
				if err != nil {
					return err
				}
				if stored == nil {
					return fmt.Errorf("no descriptor stored for book %d; run `superforge build %d` first", book, book)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "# book %d, %d input files, generated %s\n", stored.Book, stored.InputCount, formatTimestamp(stored.GeneratedAt))
				fmt.Fprint(out, stored.Body)
				return nil
			})
		},
	}
}
