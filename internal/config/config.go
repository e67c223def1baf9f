package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"superforge/internal/descriptor"
	"superforge/internal/manifest"
	"superforge/internal/metadata"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	BooksDir  string `toml:"books_dir"`
	AssetsDir string `toml:"assets_dir"`
	LogDir    string `toml:"log_dir"`
	ContentDB string `toml:"content_db"`
	APIBind   string `toml:"api_bind"`
}

// Resources names the non-content files copied into every book.
type Resources struct {
	Fonts         []string `toml:"fonts"`
	Stylesheet    string   `toml:"stylesheet"`
	TitleImage    string   `toml:"title_image"`
	OrnamentImage string   `toml:"ornament_image"`
}

// Converter configures the external EPUB converter.
type Converter struct {
	Binary         string   `toml:"binary"`
	TimeoutSeconds int      `toml:"timeout_seconds"`
	RetryAttempts  int      `toml:"retry_attempts"`
	ExtraArgs      []string `toml:"extra_args"`
}

// Build contains batch build settings and series-wide metadata.
type Build struct {
	Jobs       int    `toml:"jobs"`
	Author     string `toml:"author"`
	Editor     string `toml:"editor"`
	Collection string `toml:"collection"`
}

// Server configures the read-only HTTP API.
type Server struct {
	RateLimitPerMinute int    `toml:"rate_limit_per_minute"`
	CacheTTLSeconds    int    `toml:"cache_ttl_seconds"`
	Token              string `toml:"token"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for superforge.
//
// Configuration sections by subsystem:
//   - Paths: books directory, logs, content database and API bind address
//   - Resources: stylesheet, fonts and images referenced by build descriptors
//   - Converter: external converter binary, timeout and retries
//   - Build: parallelism and the author/editor/collection metadata
//   - Server: HTTP API rate limit and descriptor cache lifetime
//   - Logging: log format and level
type Config struct {
	Paths     Paths     `toml:"paths"`
	Resources Resources `toml:"resources"`
	Converter Converter `toml:"converter"`
	Build     Build     `toml:"build"`
	Server    Server    `toml:"server"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("superforge.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the log directory, the books directory and the
// parent of the content database.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.LogDir, c.Paths.BooksDir, filepath.Dir(c.Paths.ContentDB)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// Layout returns the on-disk layout rooted at the books directory.
func (c *Config) Layout() manifest.Layout {
	return manifest.Layout{BooksDir: c.Paths.BooksDir}
}

// BookResources returns the descriptor resources for book with the configured
// stylesheet, fonts and images. outputFile replaces the default name when set.
func (c *Config) BookResources(book int, outputFile string) descriptor.Resources {
	res := descriptor.DefaultResources(book, c.Layout())
	if len(c.Resources.Fonts) > 0 {
		res.Fonts = append([]string(nil), c.Resources.Fonts...)
	}
	if c.Resources.Stylesheet != "" {
		res.Stylesheet = c.Resources.Stylesheet
	}
	if c.Resources.TitleImage != "" {
		res.TitleImage = c.Resources.TitleImage
	}
	if c.Resources.OrnamentImage != "" {
		res.OrnamentImage = c.Resources.OrnamentImage
	}
	if strings.TrimSpace(outputFile) != "" {
		res.OutputFile = outputFile
	}
	return res
}

// MetadataOptions returns the series-wide values used by the metadata documents.
func (c *Config) MetadataOptions() metadata.Options {
	return metadata.Options{
		Author:     c.Build.Author,
		Editor:     c.Build.Editor,
		Collection: c.Build.Collection,
		Stylesheet: c.Resources.Stylesheet,
	}
}

// ConverterTimeout returns the per-invocation converter timeout.
func (c *Config) ConverterTimeout() time.Duration {
	return time.Duration(c.Converter.TimeoutSeconds) * time.Second
}

// CacheTTL returns how long the HTTP API keeps encoded descriptors.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Server.CacheTTLSeconds) * time.Second
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
