package content_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/google/uuid"

	"superforge/internal/content"
	"superforge/internal/partition"
	"superforge/internal/testsupport"
)

func TestOpenCreatesSchema(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	if store.Path() != cfg.Paths.ContentDB {
		t.Fatalf("Path() = %q, want %q", store.Path(), cfg.Paths.ContentDB)
	}
	if err := store.Ping(context.Background()); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened := testsupport.MustOpenStore(t, cfg)
	if err := reopened.Ping(context.Background()); err != nil {
		t.Fatalf("Ping after reopen failed: %v", err)
	}
}

func TestEnsureBooksSeedsOnce(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	if err := store.EnsureBooks(ctx); err != nil {
		t.Fatalf("EnsureBooks failed: %v", err)
	}
	first, err := store.Books(ctx)
	if err != nil {
		t.Fatalf("Books failed: %v", err)
	}
	if len(first) != partition.BookCount {
		t.Fatalf("expected %d books, got %d", partition.BookCount, len(first))
	}
	if first[0].OutputFile != "book01.epub" || first[0].UUID == uuid.Nil {
		t.Fatalf("unexpected seeded book: %+v", first[0])
	}

	if err := store.EnsureBooks(ctx); err != nil {
		t.Fatalf("second EnsureBooks failed: %v", err)
	}
	second, err := store.Books(ctx)
	if err != nil {
		t.Fatalf("Books failed: %v", err)
	}
	for i := range first {
		if first[i].UUID != second[i].UUID {
			t.Fatalf("book %d uuid changed on reseed", first[i].Book)
		}
	}
}

func TestSetTitleKeepsIdentifier(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	if err := store.EnsureBooks(ctx); err != nil {
		t.Fatalf("EnsureBooks failed: %v", err)
	}
	before, err := store.Book(ctx, 2)
	if err != nil || before == nil {
		t.Fatalf("Book(2) = %v, %v", before, err)
	}

	after, err := store.SetTitle(ctx, 2, "  the path of the gods ")
	if err != nil {
		t.Fatalf("SetTitle failed: %v", err)
	}
	if after.Title != "the path of the gods" {
		t.Fatalf("Title = %q", after.Title)
	}
	if after.OutputFile != "The Path of the Gods.epub" {
		t.Fatalf("OutputFile = %q", after.OutputFile)
	}
	if after.UUID != before.UUID {
		t.Fatalf("uuid changed from %s to %s", before.UUID, after.UUID)
	}
}

func TestBookLookups(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	rec, err := store.Book(ctx, 7)
	if err != nil {
		t.Fatalf("Book(7) failed: %v", err)
	}
	if rec != nil {
		t.Fatalf("expected nil for unseeded book, got %+v", rec)
	}

	_, err = store.Book(ctx, 11)
	var missing *partition.BookNotFoundError
	if !errors.As(err, &missing) || missing.Book != 11 {
		t.Fatalf("Book(11) error = %v, want *BookNotFoundError", err)
	}

	explicit := uuid.New()
	stored, err := store.UpsertBook(ctx, content.Book{Book: 7, Title: "Seven", OutputFile: "custom.epub", UUID: explicit})
	if err != nil {
		t.Fatalf("UpsertBook failed: %v", err)
	}
	if stored.UUID != explicit || stored.OutputFile != "custom.epub" {
		t.Fatalf("unexpected stored book: %+v", stored)
	}
}

func TestUpsertChapterDerivesPlacement(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	rec, err := store.UpsertChapter(ctx, 1711, "Chapter Title", "/tmp/chapter-1711.html")
	if err != nil {
		t.Fatalf("UpsertChapter failed: %v", err)
	}
	if rec.Section != 5 || rec.Book != 4 {
		t.Fatalf("chapter 1711 stored as section %d book %d", rec.Section, rec.Book)
	}
	if rec.HTMLPath != "/tmp/chapter-1711.html" {
		t.Fatalf("HTMLPath = %q", rec.HTMLPath)
	}

	updated, err := store.UpsertChapter(ctx, 1711, "Renamed", "")
	if err != nil {
		t.Fatalf("second UpsertChapter failed: %v", err)
	}
	if updated.Title != "Renamed" || updated.HTMLPath != "" {
		t.Fatalf("unexpected updated chapter: %+v", updated)
	}

	for _, chapter := range []int{0, 3095, 3117, 3463} {
		if _, err := store.UpsertChapter(ctx, chapter, "x", ""); !errors.Is(err, partition.ErrInvalidChapter) {
			t.Fatalf("UpsertChapter(%d) error = %v, want ErrInvalidChapter", chapter, err)
		}
	}

	missing, err := store.Chapter(ctx, 1)
	if err != nil || missing != nil {
		t.Fatalf("Chapter(1) = %v, %v; want nil, nil", missing, err)
	}
}

func TestMissingChapters(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	chapters, err := partition.ChaptersOf(5)
	if err != nil {
		t.Fatalf("ChaptersOf(5) failed: %v", err)
	}
	for _, chapter := range chapters {
		testsupport.AddChapter(t, store, chapter, "")
	}
	testsupport.AddChapter(t, store, 1000, "")

	missing, err := store.MissingChapters(ctx, 4)
	if err != nil {
		t.Fatalf("MissingChapters failed: %v", err)
	}
	want, _ := partition.ChaptersOf(4)
	if !slices.Equal(missing, want) {
		t.Fatalf("missing = %d chapters, want the %d chapters of section 4", len(missing), len(want))
	}

	count, err := store.ChapterCount(ctx, 4)
	if err != nil {
		t.Fatalf("ChapterCount failed: %v", err)
	}
	if count != len(chapters) {
		t.Fatalf("ChapterCount(4) = %d, want %d", count, len(chapters))
	}

	listed, err := store.ChaptersOfBook(ctx, 3)
	if err != nil {
		t.Fatalf("ChaptersOfBook failed: %v", err)
	}
	if len(listed) != 1 || listed[0].Chapter != 1000 || listed[0].Section != 3 {
		t.Fatalf("unexpected book 3 chapters: %+v", listed)
	}
}

func TestDescriptorRoundTrip(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	if rec, err := store.Descriptor(ctx, 1); err != nil || rec != nil {
		t.Fatalf("Descriptor(1) before save = %v, %v", rec, err)
	}
	if err := store.SaveDescriptor(ctx, 1, []byte("from: html\n"), 428); err != nil {
		t.Fatalf("SaveDescriptor failed: %v", err)
	}
	if err := store.SaveDescriptor(ctx, 1, []byte("from: html\nto: epub\n"), 428); err != nil {
		t.Fatalf("second SaveDescriptor failed: %v", err)
	}
	rec, err := store.Descriptor(ctx, 1)
	if err != nil {
		t.Fatalf("Descriptor failed: %v", err)
	}
	if rec.Body != "from: html\nto: epub\n" || rec.InputCount != 428 || rec.GeneratedAt.IsZero() {
		t.Fatalf("unexpected descriptor: %+v", rec)
	}
	if err := store.SaveDescriptor(ctx, 1, nil, 0); err == nil {
		t.Fatal("expected error for empty body")
	}
}

func TestRunLifecycle(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	run, err := store.StartRun(ctx, "run-1", []int{1, 4})
	if err != nil {
		t.Fatalf("StartRun failed: %v", err)
	}
	if run.Status != content.RunRunning || run.IsFinished() || !slices.Equal(run.Books, []int{1, 4}) {
		t.Fatalf("unexpected started run: %+v", run)
	}

	if err := store.FinishRun(ctx, "run-1", content.RunPartial, "book 4: converter failed"); err != nil {
		t.Fatalf("FinishRun failed: %v", err)
	}
	if err := store.FinishRun(ctx, "run-1", content.RunRunning, ""); err == nil {
		t.Fatal("expected error for non-terminal status")
	}
	if err := store.FinishRun(ctx, "missing", content.RunFailed, ""); !errors.Is(err, content.ErrRunNotFound) {
		t.Fatalf("FinishRun(missing) error = %v, want ErrRunNotFound", err)
	}

	runs, err := store.Runs(ctx, 10)
	if err != nil {
		t.Fatalf("Runs failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	got := runs[0]
	if got.Status != content.RunPartial || got.FinishedAt == nil || got.Error != "book 4: converter failed" {
		t.Fatalf("unexpected finished run: %+v", got)
	}
}
