package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"superforge/internal/descriptor"
)

const (
	envBooksDir  = "SUPERFORGE_BOOKS_DIR"
	envConverter = "SUPERFORGE_CONVERTER"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeResources()
	c.normalizeConverter()
	c.normalizeBuild()
	c.normalizeServer()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv(envBooksDir); ok && strings.TrimSpace(value) != "" {
		c.Paths.BooksDir = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Paths.BooksDir) == "" {
		c.Paths.BooksDir = defaultBooksDir
	}
	var err error
	if c.Paths.BooksDir, err = expandPath(strings.TrimSpace(c.Paths.BooksDir)); err != nil {
		return fmt.Errorf("paths.books_dir: %w", err)
	}
	if c.Paths.AssetsDir, err = expandPath(strings.TrimSpace(c.Paths.AssetsDir)); err != nil {
		return fmt.Errorf("paths.assets_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ContentDB) == "" {
		c.Paths.ContentDB = filepath.Join(c.Paths.LogDir, defaultContentDBName)
	}
	if c.Paths.ContentDB, err = expandPath(strings.TrimSpace(c.Paths.ContentDB)); err != nil {
		return fmt.Errorf("paths.content_db: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	return nil
}

func (c *Config) normalizeResources() {
	fonts := make([]string, 0, len(c.Resources.Fonts))
	seen := make(map[string]struct{}, len(c.Resources.Fonts))
	for _, font := range c.Resources.Fonts {
		font = strings.TrimSpace(font)
		if font == "" {
			continue
		}
		if _, exists := seen[font]; exists {
			continue
		}
		seen[font] = struct{}{}
		fonts = append(fonts, font)
	}
	if len(fonts) == 0 {
		fonts = descriptor.DefaultFonts()
	}
	c.Resources.Fonts = fonts
	c.Resources.Stylesheet = trimOrDefault(c.Resources.Stylesheet, descriptor.DefaultStylesheet)
	c.Resources.TitleImage = trimOrDefault(c.Resources.TitleImage, descriptor.DefaultTitleImage)
	c.Resources.OrnamentImage = trimOrDefault(c.Resources.OrnamentImage, descriptor.DefaultOrnamentImage)
}

func trimOrDefault(value, fallback string) string {
	if value = strings.TrimSpace(value); value != "" {
		return value
	}
	return fallback
}

func (c *Config) normalizeConverter() {
	if value, ok := os.LookupEnv(envConverter); ok && strings.TrimSpace(value) != "" {
		c.Converter.Binary = value
	}
	c.Converter.Binary = strings.TrimSpace(c.Converter.Binary)
	if c.Converter.Binary == "" {
		c.Converter.Binary = defaultConverterBinary
	}
	if c.Converter.TimeoutSeconds <= 0 {
		c.Converter.TimeoutSeconds = defaultConverterTimeout
	}
	if c.Converter.RetryAttempts < 0 {
		c.Converter.RetryAttempts = 0
	}
	args := c.Converter.ExtraArgs[:0]
	for _, arg := range c.Converter.ExtraArgs {
		if arg = strings.TrimSpace(arg); arg != "" {
			args = append(args, arg)
		}
	}
	c.Converter.ExtraArgs = args
}

func (c *Config) normalizeBuild() {
	if c.Build.Jobs <= 0 {
		c.Build.Jobs = defaultBuildJobs
	}
	c.Build.Author = strings.TrimSpace(c.Build.Author)
	c.Build.Editor = strings.TrimSpace(c.Build.Editor)
	c.Build.Collection = strings.TrimSpace(c.Build.Collection)
}

func (c *Config) normalizeServer() {
	if c.Server.RateLimitPerMinute < 0 {
		c.Server.RateLimitPerMinute = 0
	}
	if c.Server.CacheTTLSeconds <= 0 {
		c.Server.CacheTTLSeconds = defaultCacheTTLSeconds
	}
	c.Server.Token = strings.TrimSpace(c.Server.Token)
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
