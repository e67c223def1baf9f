package config

import "superforge/internal/descriptor"

const (
	defaultConfigPath         = "~/.config/superforge/config.toml"
	defaultBooksDir           = "~/superforge/books"
	defaultLogDir             = "~/.local/share/superforge/logs"
	defaultContentDBName      = "content.db"
	defaultAPIBind            = "127.0.0.1:7489"
	defaultConverterBinary    = "pandoc"
	defaultConverterTimeout   = 600
	defaultConverterRetries   = 2
	defaultBuildJobs          = 4
	defaultAuthor             = "Twelve Winged Dark Seraphim"
	defaultEditor             = "Max Ludden"
	defaultCollection         = "Super Gene"
	defaultRateLimitPerMinute = 120
	defaultCacheTTLSeconds    = 300
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			BooksDir: defaultBooksDir,
			LogDir:   defaultLogDir,
			APIBind:  defaultAPIBind,
		},
		Resources: Resources{
			Fonts:         descriptor.DefaultFonts(),
			Stylesheet:    descriptor.DefaultStylesheet,
			TitleImage:    descriptor.DefaultTitleImage,
			OrnamentImage: descriptor.DefaultOrnamentImage,
		},
		Converter: Converter{
			Binary:         defaultConverterBinary,
			TimeoutSeconds: defaultConverterTimeout,
			RetryAttempts:  defaultConverterRetries,
		},
		Build: Build{
			Jobs:       defaultBuildJobs,
			Author:     defaultAuthor,
			Editor:     defaultEditor,
			Collection: defaultCollection,
		},
		Server: Server{
			RateLimitPerMinute: defaultRateLimitPerMinute,
			CacheTTLSeconds:    defaultCacheTTLSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
