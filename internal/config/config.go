package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"activity-charts/internal/activity"
	apperr "activity-charts/internal/errors"
	"activity-charts/internal/layout"

	"github.com/joho/godotenv"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

const envPrefix = "CHARTGEN"

// Config is the full chartgen configuration. Every field has a default,
// so an empty environment reproduces the plain two-argument behaviour.
type Config struct {
	Chart ChartConfig `mapstructure:"chart"`
	Tree  TreeConfig  `mapstructure:"tree"`
	Log   LogConfig   `mapstructure:"log"`
}

type ChartConfig struct {
	Width         int     `mapstructure:"width"`
	Height        int     `mapstructure:"height"`
	Supersample   int     `mapstructure:"supersample"`     // draw at N× and downscale
	PieStartAngle float64 `mapstructure:"pie_start_angle"` // degrees, counter-clockwise from 3 o'clock
	BaseRadius    float64 `mapstructure:"base_radius"`     // empty centre, in ring units
	RingWidth     float64 `mapstructure:"ring_width"`
	FontPath      string  `mapstructure:"font_path"`
	FontSize      float64 `mapstructure:"font_size"`
	Legend        bool    `mapstructure:"legend"`
	Title         string  `mapstructure:"title"`
	PaletteSeed   int     `mapstructure:"palette_seed"`
	Background    string  `mapstructure:"background"`
}

type TreeConfig struct {
	DanglingParent   string `mapstructure:"dangling_parent"`
	ExplicitDuration string `mapstructure:"explicit_duration"`
	EmptyLeaf        string `mapstructure:"empty_leaf"`
	LabelStyle       string `mapstructure:"label_style"`
}

type LogConfig struct {
	Dir     string `mapstructure:"dir"` // empty disables the file log
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
}

// Policy converts the tree section into builder policy.
func (t TreeConfig) Policy() activity.Policy {
	return activity.Policy{
		DanglingParent:   activity.DanglingParentPolicy(t.DanglingParent),
		ExplicitDuration: activity.ExplicitDurationPolicy(t.ExplicitDuration),
		EmptyLeaf:        activity.EmptyLeafPolicy(t.EmptyLeaf),
	}
}

func (t TreeConfig) LayoutOptions() layout.Options {
	return layout.Options{LabelStyle: layout.LabelStyle(t.LabelStyle)}
}

type loadSettings struct {
	workingDir string
	configFile string
	flags      *pflag.FlagSet
}

// Option configures LoadConfig. Useful for tests to override paths.
type Option func(*loadSettings)

// WithWorkingDir overrides the directory searched for chartgen.yaml and .env.
func WithWorkingDir(dir string) Option {
	return func(s *loadSettings) { s.workingDir = dir }
}

// WithConfigFile uses an explicit config file instead of discovery.
func WithConfigFile(path string) Option {
	return func(s *loadSettings) { s.configFile = path }
}

// WithFlags binds flags registered by RegisterFlags.
func WithFlags(fs *pflag.FlagSet) Option {
	return func(s *loadSettings) { s.flags = fs }
}

// LoadConfig loads configuration with the precedence:
// 1. defaults
// 2. chartgen.yaml (or the file given with WithConfigFile)
// 3. .env file
// 4. CHARTGEN_* environment variables
// 5. flags
func LoadConfig(opts ...Option) (*Config, error) {
	settings := loadSettings{workingDir: "."}
	for _, opt := range opts {
		opt(&settings)
	}

	// .env is optional; a missing file is not an error
	envFile := filepath.Join(settings.workingDir, ".env")
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return nil, apperr.Wrap(apperr.CodeConfig, err, "load %s", envFile)
		}
	}

	v := viper.New()
	setDefaults(v)

	if settings.configFile != "" {
		v.SetConfigFile(settings.configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, apperr.Wrap(apperr.CodeConfig, err, "read config file %s", settings.configFile)
		}
	} else {
		v.SetConfigName("chartgen")
		v.SetConfigType("yaml")
		v.AddConfigPath(settings.workingDir)
		if err := v.ReadInConfig(); err != nil {
			if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
				return nil, apperr.Wrap(apperr.CodeConfig, err, "read chartgen.yaml")
			}
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if settings.flags != nil {
		if err := bindFlags(v, settings.flags); err != nil {
			return nil, apperr.Wrap(apperr.CodeConfig, err, "bind flags")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, apperr.Wrap(apperr.CodeConfig, err, "decode configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no source overrides anything.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// defaults are plain scalars; decoding them cannot fail
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// setDefaults registers the built-in values for every key.
func setDefaults(v *viper.Viper) {
	// Chart
	v.SetDefault("chart.width", 1600)
	v.SetDefault("chart.height", 1600)
	v.SetDefault("chart.supersample", 1)
	v.SetDefault("chart.pie_start_angle", 140.0)
	v.SetDefault("chart.base_radius", 0.5)
	v.SetDefault("chart.ring_width", 1.0)
	v.SetDefault("chart.font_path", "")
	v.SetDefault("chart.font_size", 22.0)
	v.SetDefault("chart.legend", true)
	v.SetDefault("chart.title", "")
	v.SetDefault("chart.palette_seed", 0)
	v.SetDefault("chart.background", "#ffffff")

	// Tree
	v.SetDefault("tree.dangling_parent", string(activity.DanglingAsRoot))
	v.SetDefault("tree.explicit_duration", string(activity.DurationOverride))
	v.SetDefault("tree.empty_leaf", string(activity.EmptyLeafReject))
	v.SetDefault("tree.label_style", string(layout.LabelName))

	// Log
	v.SetDefault("log.dir", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.console", false)
}

// Validate rejects out-of-range sizes and unknown enum values.
func (c *Config) Validate() error {
	ch := c.Chart
	if ch.Width <= 0 || ch.Height <= 0 || ch.Width > 10000 || ch.Height > 10000 {
		return apperr.New(apperr.CodeConfig, "chart size %dx%d out of range (1..10000)", ch.Width, ch.Height)
	}
	if ch.Supersample < 1 || ch.Supersample > 4 {
		return apperr.New(apperr.CodeConfig, "chart.supersample must be between 1 and 4, got %d", ch.Supersample)
	}
	if ch.FontSize <= 0 {
		return apperr.New(apperr.CodeConfig, "chart.font_size must be positive, got %v", ch.FontSize)
	}
	if ch.RingWidth <= 0 || ch.BaseRadius < 0 {
		return apperr.New(apperr.CodeConfig, "chart.ring_width must be positive and chart.base_radius non-negative")
	}
	if _, err := colorful.Hex(ch.Background); err != nil {
		return apperr.Wrap(apperr.CodeConfig, err, "chart.background %q", ch.Background)
	}

	if err := c.Tree.Policy().Validate(); err != nil {
		return apperr.Wrap(apperr.CodeConfig, err, "tree policy")
	}
	switch layout.LabelStyle(c.Tree.LabelStyle) {
	case "", layout.LabelName, layout.LabelPath:
	default:
		return apperr.New(apperr.CodeConfig, "unknown tree.label_style %q (want name or path)", c.Tree.LabelStyle)
	}

	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return apperr.Wrap(apperr.CodeConfig, err, "log.level")
	}
	return nil
}

func (c *Config) String() string {
	return fmt.Sprintf("chart=%dx%d@%dx tree=%s/%s/%s labels=%s",
		c.Chart.Width, c.Chart.Height, c.Chart.Supersample,
		c.Tree.DanglingParent, c.Tree.ExplicitDuration, c.Tree.EmptyLeaf, c.Tree.LabelStyle)
}
