package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"superforge/internal/content"
	"superforge/internal/descriptor"
	"superforge/internal/manifest"
	"superforge/internal/pipeline"
	"superforge/internal/testsupport"
)

func TestBuildCommandWritesDescriptors(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"build", "2", "1", "2"}, env.configPath)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	requireContains(t, out, "succeeded")
	for _, book := range []int{1, 2} {
		path := env.cfg.Layout().DescriptorPath(book)
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected descriptor for book %d: %v", book, err)
		}
		meta := filepath.Join(env.cfg.Layout().HTMLDir(book), descriptor.EpubMetadataName(book))
		if _, err := os.Stat(meta); err != nil {
			t.Fatalf("expected epub metadata for book %d: %v", book, err)
		}
	}
	if _, err := os.Stat(env.cfg.Layout().DescriptorPath(3)); !os.IsNotExist(err) {
		t.Fatalf("book 3 should not be built, stat err = %v", err)
	}

	out, _, err = runCLI(t, []string{"runs", "-o", "json"}, env.configPath)
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	var runs []content.Run
	if err := json.Unmarshal([]byte(out), &runs); err != nil {
		t.Fatalf("decode runs: %v", err)
	}
	if len(runs) != 1 || runs[0].Status != content.RunSucceeded || len(runs[0].Books) != 2 {
		t.Fatalf("unexpected runs %+v", runs)
	}
}

func TestBuildCommandRejectsMixedSelection(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"build", "1", "--all"}, env.configPath); err == nil {
		t.Fatal("expected error for books plus --all")
	}
	if _, _, err := runCLI(t, []string{"build", "12"}, env.configPath); err == nil {
		t.Fatal("expected error for unknown book")
	}
}

func TestBuildCommandCheckReportsMissingDocuments(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"build", "1", "--check", "-o", "json"}, env.configPath)
	if err == nil {
		t.Fatal("expected failure when documents are missing")
	}
	var summary pipeline.Summary
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.Status != content.RunFailed || len(summary.Results) != 1 || summary.Results[0].Error == "" {
		t.Fatalf("unexpected summary %+v", summary)
	}
}

func TestBuildCommandConvertsWithStubConverter(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithStubScript("pandoc", "#!/bin/sh\nif [ \"$1\" = \"--version\" ]; then echo stub 1.0; exit 0; fi\ntouch book01.epub\n"))
	m, err := manifest.Build(1)
	if err != nil {
		t.Fatalf("manifest.Build: %v", err)
	}
	testsupport.WriteDocuments(t, env.cfg.Layout(), m)

	out, _, err := runCLI(t, []string{"build", "1", "--convert"}, env.configPath)
	if err != nil {
		t.Fatalf("build --convert: %v\n%s", err, out)
	}
	requireContains(t, out, "yes")
	if _, err := os.Stat(filepath.Join(env.cfg.Layout().HTMLDir(1), "book01.epub")); err != nil {
		t.Fatalf("expected converted output: %v", err)
	}
}

func TestChaptersAddListAndMissing(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"chapters", "add", "425", "a", "new", "dawn"}, env.configPath)
	if err != nil {
		t.Fatalf("chapters add: %v", err)
	}
	requireContains(t, out, "section 2, book 2")

	if _, _, err := runCLI(t, []string{"chapters", "add", "3095", "ghost"}, env.configPath); err == nil {
		t.Fatal("expected error for skipped chapter")
	}

	out, _, err = runCLI(t, []string{"chapters", "list", "2"}, env.configPath)
	if err != nil {
		t.Fatalf("chapters list: %v", err)
	}
	requireContains(t, out, "a new dawn")

	out, _, err = runCLI(t, []string{"chapters", "missing", "2"}, env.configPath)
	if err != nil {
		t.Fatalf("chapters missing: %v", err)
	}
	requireContains(t, out, "457 chapters missing")
	requireContains(t, out, "426-882")

	out, _, err = runCLI(t, []string{"chapters", "missing", "2", "-o", "json"}, env.configPath)
	if err != nil {
		t.Fatalf("chapters missing json: %v", err)
	}
	var missing []int
	if err := json.Unmarshal([]byte(out), &missing); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(missing) != 457 || missing[0] != 426 {
		t.Fatalf("unexpected missing list head %v (len %d)", missing[:1], len(missing))
	}
}

func TestRunsEmpty(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"runs"}, env.configPath)
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	requireContains(t, out, "No build runs recorded")
}
