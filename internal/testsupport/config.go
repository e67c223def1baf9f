package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"superforge/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.BooksDir = filepath.Join(base, "books")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.ContentDB = filepath.Join(base, "logs", "content.db")
	cfgVal.Paths.APIBind = "127.0.0.1:0"
	cfgVal.Converter.TimeoutSeconds = 10
	cfgVal.Converter.RetryAttempts = 1

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithJobs overrides the build parallelism on the test config.
func WithJobs(jobs int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Build.Jobs = jobs
	}
}

// WithConverter points the converter at binary with the given retry budget.
func WithConverter(binary string, retryAttempts int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Converter.Binary = binary
		b.cfg.Converter.RetryAttempts = retryAttempts
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, the configured converter binary
// is stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{b.cfg.Converter.Binary}
		}
		stubs := make(map[string]string, len(names))
		for _, name := range names {
			stubs[name] = "#!/bin/sh\nexit 0\n"
		}
		installStubs(b, stubs)
	}
}

// WithStubScript installs a stub executable named name whose body is the
// given shell script, prepending its directory to PATH.
func WithStubScript(name, script string) ConfigOption {
	return func(b *configBuilder) {
		installStubs(b, map[string]string{name: script})
	}
}

func installStubs(b *configBuilder, stubs map[string]string) {
	b.t.Helper()
	binDir := filepath.Join(b.baseDir, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		b.t.Fatalf("mkdir bin dir: %v", err)
	}
	for name, script := range stubs {
		target := filepath.Join(binDir, name)
		if err := os.WriteFile(target, []byte(script), 0o755); err != nil {
			b.t.Fatalf("write stub %s: %v", name, err)
		}
	}

	oldPath := os.Getenv("PATH")
	if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
		b.t.Fatalf("set PATH: %v", err)
	}
	b.t.Cleanup(func() {
		_ = os.Setenv("PATH", oldPath)
	})
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.BooksDir)
}
