package main

import (
	"encoding/json"
	"os"
	"strings"
	"testing"

	"superforge/internal/descriptor"
)

func TestManifestCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"manifest", "1"}, env.configPath)
	if err != nil {
		t.Fatalf("manifest: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 428 {
		t.Fatalf("book 1 manifest printed %d lines, want 428", len(lines))
	}
	if lines[0] != "cover1.html" || lines[1] != "titlepage-01.html" || lines[427] != "endofbook-01.html" {
		t.Fatalf("unexpected manifest bounds %q %q %q", lines[0], lines[1], lines[427])
	}

	out, _, err = runCLI(t, []string{"manifest", "4", "--paths"}, env.configPath)
	if err != nil {
		t.Fatalf("manifest --paths: %v", err)
	}
	requireContains(t, out, env.cfg.Layout().HTMLDir(4))

	out, _, err = runCLI(t, []string{"manifest", "10", "--output", "json"}, env.configPath)
	if err != nil {
		t.Fatalf("manifest json: %v", err)
	}
	var payload struct {
		Sections  []int    `json:"sections"`
		Documents []string `json:"documents"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Sections) != 2 || payload.Sections[0] != 16 {
		t.Fatalf("unexpected sections %v", payload.Sections)
	}

	if _, _, err := runCLI(t, []string{"manifest", "11"}, env.configPath); err == nil {
		t.Fatal("expected error for unknown book")
	}
}

func TestBooksSetTitleAndList(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"books", "set-title", "3", "the", "third", "tide"}, env.configPath)
	if err != nil {
		t.Fatalf("books set-title: %v", err)
	}
	requireContains(t, out, "Book 3 titled")

	out, _, err = runCLI(t, []string{"books"}, env.configPath)
	if err != nil {
		t.Fatalf("books: %v", err)
	}
	requireContains(t, out, "the third tide")
	requireContains(t, out, "The Third Tide.epub")
	requireContains(t, out, "book01.epub")

	out, _, err = runCLI(t, []string{"books", "-o", "json"}, env.configPath)
	if err != nil {
		t.Fatalf("books json: %v", err)
	}
	var rows []bookRow
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rows) != 10 || rows[0].Chapters != 424 || rows[0].UUID == "" {
		t.Fatalf("unexpected rows %+v", rows[0])
	}
	if rows[2].OutputFile != "The Third Tide.epub" {
		t.Fatalf("expected title-derived output for book 3, got %q", rows[2].OutputFile)
	}
}

func TestDescriptorWriteAndShow(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"descriptor", "show", "2"}, env.configPath); err == nil {
		t.Fatal("expected error before any descriptor is stored")
	}

	out, _, err := runCLI(t, []string{"descriptor", "2"}, env.configPath)
	if err != nil {
		t.Fatalf("descriptor: %v", err)
	}
	parsed, err := descriptor.Parse([]byte(out))
	if err != nil {
		t.Fatalf("parse printed descriptor: %v", err)
	}
	if parsed.OutputFile != "book02.epub" || parsed.InputFiles[0] != "cover2.html" {
		t.Fatalf("unexpected descriptor %+v", parsed)
	}

	out, _, err = runCLI(t, []string{"descriptor", "2", "--write"}, env.configPath)
	if err != nil {
		t.Fatalf("descriptor --write: %v", err)
	}
	path := env.cfg.Layout().DescriptorPath(2)
	requireContains(t, out, path)
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected descriptor at %s: %v", path, err)
	}

	out, _, err = runCLI(t, []string{"descriptor", "show", "2"}, env.configPath)
	if err != nil {
		t.Fatalf("descriptor show: %v", err)
	}
	requireContains(t, out, "# book 2")
	requireContains(t, out, "output-file: book02.epub")
}
