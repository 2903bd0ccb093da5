// Package config holds the runtime settings for pagemd. Values come from
// defaults, an optional .pagemd.yaml, PAGEMD_* environment variables and
// command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config is the complete runtime configuration.
type Config struct {
	Engine           string      `mapstructure:"engine" validate:"oneof=native library"`
	Format           string      `mapstructure:"format" validate:"oneof=markdown frontmatter json pdf"`
	OutputDir        string      `mapstructure:"output_dir"`
	MaxDepth         int         `mapstructure:"max_depth" validate:"min=1,max=10000"`
	InlineFormatting bool        `mapstructure:"inline"`
	StripChrome      bool        `mapstructure:"strip_chrome"`
	Fetch            FetchConfig `mapstructure:"fetch"`
	Crawl            CrawlConfig `mapstructure:"crawl"`
}

// FetchConfig controls how pages are retrieved.
type FetchConfig struct {
	// Mode is "http" for a plain GET or "browser" for a headless Chrome
	// render of the live document.
	Mode      string        `mapstructure:"mode" validate:"oneof=http browser"`
	Timeout   time.Duration `mapstructure:"timeout" validate:"gt=0"`
	UserAgent string        `mapstructure:"user_agent" validate:"required"`
}

// CrawlConfig bounds --all runs.
type CrawlConfig struct {
	MaxPages int `mapstructure:"max_pages" validate:"min=1"`
	MaxDepth int `mapstructure:"max_depth" validate:"min=0"`
	Workers  int `mapstructure:"workers" validate:"min=1,max=64"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Engine:   "native",
		Format:   "markdown",
		MaxDepth: 256,
		Fetch: FetchConfig{
			Mode:      "http",
			Timeout:   30 * time.Second,
			UserAgent: "pagemd/1.0 (https://github.com/gaurav-prasanna/pagemd)",
		},
		Crawl: CrawlConfig{
			MaxPages: 500,
			MaxDepth: 3,
			Workers:  4,
		},
	}
}

// SetDefaults registers every key with v so environment variables and
// config files can override it.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("engine", d.Engine)
	v.SetDefault("format", d.Format)
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("max_depth", d.MaxDepth)
	v.SetDefault("inline", d.InlineFormatting)
	v.SetDefault("strip_chrome", d.StripChrome)
	v.SetDefault("fetch.mode", d.Fetch.Mode)
	v.SetDefault("fetch.timeout", d.Fetch.Timeout)
	v.SetDefault("fetch.user_agent", d.Fetch.UserAgent)
	v.SetDefault("crawl.max_pages", d.Crawl.MaxPages)
	v.SetDefault("crawl.max_depth", d.Crawl.MaxDepth)
	v.SetDefault("crawl.workers", d.Crawl.Workers)
}

// ConfigureEnv makes PAGEMD_FETCH_MODE and friends visible to v.
func ConfigureEnv(v *viper.Viper) {
	v.SetEnvPrefix("PAGEMD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)
	cfg := Default()
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate = validator.New()

// Validate checks cfg against its field constraints.
func Validate(cfg Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, e := range fieldErrs {
		msgs = append(msgs, e.Namespace()+" "+describe(e))
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}

func describe(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", e.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", e.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", e.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", e.Param())
	default:
		return fmt.Sprintf("failed validation '%s'", e.Tag())
	}
}
