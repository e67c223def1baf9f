package convert_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"superforge/internal/convert"
	"superforge/internal/manifest"
	"superforge/internal/services"
	"superforge/internal/testsupport"
)

type stubExecutor struct {
	errs   []error
	stderr string
	output string
	calls  int
	dirs   []string
	args   [][]string
}

func (s *stubExecutor) Run(ctx context.Context, dir, binary string, args []string) ([]byte, error) {
	s.calls++
	s.dirs = append(s.dirs, dir)
	s.args = append(s.args, append([]string(nil), args...))
	var err error
	if len(s.errs) > 0 {
		err = s.errs[0]
		s.errs = s.errs[1:]
	}
	if err == nil && s.output != "" {
		if writeErr := os.WriteFile(filepath.Join(dir, s.output), []byte("epub"), 0o644); writeErr != nil {
			return nil, writeErr
		}
	}
	return []byte(s.stderr), err
}

func newRequest(t *testing.T) (convert.Request, manifest.Layout) {
	t.Helper()
	layout := manifest.Layout{BooksDir: t.TempDir()}
	req := convert.RequestFor(layout, 3, "book03.epub")
	if err := os.MkdirAll(req.WorkDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(req.WorkDir, req.Descriptor), []byte("from: html\n"), 0o644); err != nil {
		t.Fatalf("write descriptor: %v", err)
	}
	return req, layout
}

func TestRequestFor(t *testing.T) {
	layout := manifest.Layout{BooksDir: "/srv/books"}
	req := convert.RequestFor(layout, 10, "out.epub")
	if req.WorkDir != "/srv/books/book10/html" || req.Descriptor != "sg10.yaml" || req.OutputFile != "out.epub" {
		t.Fatalf("unexpected request: %+v", req)
	}
}

func TestConvertRunsInHTMLDir(t *testing.T) {
	req, _ := newRequest(t)
	exec := &stubExecutor{output: req.OutputFile}
	client, err := convert.New("pandoc", time.Minute, 0, []string{"--verbose"}, convert.WithExecutor(exec))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	result, err := client.Convert(context.Background(), req)
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	if result.Attempts != 1 || result.OutputPath != filepath.Join(req.WorkDir, "book03.epub") {
		t.Fatalf("unexpected result: %+v", result)
	}
	if exec.dirs[0] != req.WorkDir {
		t.Fatalf("ran in %q, want %q", exec.dirs[0], req.WorkDir)
	}
	if want := []string{"--defaults", "sg3.yaml", "--verbose"}; !slices.Equal(exec.args[0], want) {
		t.Fatalf("args = %v, want %v", exec.args[0], want)
	}
}

func TestConvertRetriesTimeouts(t *testing.T) {
	req, _ := newRequest(t)
	exec := &stubExecutor{
		errs:   []error{context.DeadlineExceeded, nil},
		output: req.OutputFile,
	}
	client, err := convert.New("pandoc", time.Minute, 2, nil, convert.WithExecutor(exec), convert.WithRetryDelay(0))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	result, err := client.Convert(context.Background(), req)
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	if exec.calls != 2 || result.Attempts != 2 {
		t.Fatalf("calls = %d attempts = %d, want 2", exec.calls, result.Attempts)
	}
}

func TestConvertDoesNotRetryExitFailures(t *testing.T) {
	req, _ := newRequest(t)
	exec := &stubExecutor{
		errs:   []error{errors.New("exit status 64")},
		stderr: "Could not find data file templates/default.epub3",
	}
	client, err := convert.New("pandoc", time.Minute, 3, nil, convert.WithExecutor(exec), convert.WithRetryDelay(0))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	_, err = client.Convert(context.Background(), req)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("error = %v, want ErrExternalTool", err)
	}
	if !strings.Contains(err.Error(), "Could not find data file") {
		t.Fatalf("error should carry stderr, got %v", err)
	}
	if exec.calls != 1 {
		t.Fatalf("expected a single attempt, got %d", exec.calls)
	}
}

func TestConvertRequiresOutput(t *testing.T) {
	req, _ := newRequest(t)
	client, err := convert.New("pandoc", time.Minute, 0, nil, convert.WithExecutor(&stubExecutor{}))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := client.Convert(context.Background(), req); !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("error = %v, want ErrExternalTool", err)
	}
}

func TestConvertRequiresDescriptor(t *testing.T) {
	layout := manifest.Layout{BooksDir: t.TempDir()}
	client, err := convert.New("pandoc", time.Minute, 0, nil, convert.WithExecutor(&stubExecutor{}))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	_, err = client.Convert(context.Background(), convert.RequestFor(layout, 1, "book01.epub"))
	if services.Kind(err) != services.KindNotFound {
		t.Fatalf("error kind = %q (%v), want not_found", services.Kind(err), err)
	}
}

func TestConvertValidatesRequest(t *testing.T) {
	client, err := convert.New("pandoc", time.Minute, 0, nil, convert.WithExecutor(&stubExecutor{}))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := client.Convert(context.Background(), convert.Request{Book: 1}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}
	if _, err := convert.New("  ", time.Minute, 0, nil); err == nil {
		t.Fatal("expected error for empty binary")
	}
}

func TestConvertWithStubBinary(t *testing.T) {
	cfg := testsupport.NewConfig(t,
		testsupport.WithConverter("fake-pandoc", 0),
		testsupport.WithStubScript("fake-pandoc", "#!/bin/sh\n[ \"$1\" = \"--defaults\" ] || exit 2\n: > book05.epub\n"),
	)
	layout := cfg.Layout()
	req := convert.RequestFor(layout, 5, "book05.epub")
	if err := os.MkdirAll(req.WorkDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(req.WorkDir, req.Descriptor), []byte("from: html\n"), 0o644); err != nil {
		t.Fatalf("write descriptor: %v", err)
	}

	client, err := convert.NewFromConfig(cfg, nil)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	result, err := client.Convert(context.Background(), req)
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	if _, err := os.Stat(result.OutputPath); err != nil {
		t.Fatalf("expected output file: %v", err)
	}
}

func TestConvertMissingBinary(t *testing.T) {
	req, _ := newRequest(t)
	client, err := convert.New("clearly-not-present-converter", time.Minute, 2, nil, convert.WithRetryDelay(0))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	_, err = client.Convert(context.Background(), req)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
	if services.Retryable(err) {
		t.Fatal("missing binary should not be retryable")
	}
}
