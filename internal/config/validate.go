package config

import (
	"errors"
	"fmt"
	"net"
	"path/filepath"
	"strings"
)

const maxBuildJobs = 10

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateResources(); err != nil {
		return err
	}
	if err := c.validateConverter(); err != nil {
		return err
	}
	if err := c.validateBuild(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.BooksDir) == "" {
		return errors.New("paths.books_dir must be set")
	}
	if strings.TrimSpace(c.Paths.ContentDB) == "" {
		return errors.New("paths.content_db must be set")
	}
	if _, _, err := net.SplitHostPort(c.Paths.APIBind); err != nil {
		return fmt.Errorf("paths.api_bind %q must be host:port: %w", c.Paths.APIBind, err)
	}
	return nil
}

func (c *Config) validateResources() error {
	names := []struct {
		key   string
		value string
	}{
		{"resources.stylesheet", c.Resources.Stylesheet},
		{"resources.title_image", c.Resources.TitleImage},
		{"resources.ornament_image", c.Resources.OrnamentImage},
	}
	for _, name := range names {
		if name.value == "" {
			return fmt.Errorf("%s must be set", name.key)
		}
		if filepath.Base(name.value) != name.value {
			return fmt.Errorf("%s must be a bare filename, got %q", name.key, name.value)
		}
	}
	for _, font := range c.Resources.Fonts {
		if filepath.Base(font) != font {
			return fmt.Errorf("resources.fonts entry %q must be a bare filename", font)
		}
	}
	return nil
}

func (c *Config) validateConverter() error {
	if c.Converter.TimeoutSeconds <= 0 {
		return errors.New("converter.timeout_seconds must be positive")
	}
	if c.Converter.RetryAttempts > 10 {
		return errors.New("converter.retry_attempts must be at most 10")
	}
	for _, arg := range c.Converter.ExtraArgs {
		if arg == "--defaults" || strings.HasPrefix(arg, "--defaults=") || arg == "-d" {
			return errors.New("converter.extra_args must not override --defaults")
		}
	}
	return nil
}

func (c *Config) validateBuild() error {
	if c.Build.Jobs < 1 || c.Build.Jobs > maxBuildJobs {
		return fmt.Errorf("build.jobs must be between 1 and %d", maxBuildJobs)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q must be one of debug, info, warn, error", c.Logging.Level)
	}
}
