// Package config provides configuration management for opt-report.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables overriding config keys.
// "report.output_dir" is read from OPTREPORT_REPORT_OUTPUT_DIR.
const EnvPrefix = "OPTREPORT"

// Config holds all configuration for the application.
type Config struct {
	Report    ReportConfig    `mapstructure:"report"`
	Xref      XrefConfig      `mapstructure:"xref"`
	Highlight HighlightConfig `mapstructure:"highlight"`
	Filter    FilterConfig    `mapstructure:"filter"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Log       LogConfig       `mapstructure:"log"`
}

// ReportConfig holds report generation settings.
type ReportConfig struct {
	BuildDir          string              `mapstructure:"build_dir"`
	OutputDir         string              `mapstructure:"output_dir"`
	CollapseThreshold int                 `mapstructure:"collapse_threshold"`
	Jobs              int                 `mapstructure:"jobs"`
	Summary           bool                `mapstructure:"summary"`
	SourceBrowser     SourceBrowserConfig `mapstructure:"source_browser"`
}

// SourceBrowserConfig maps compiler implementation locations to a browsable URL.
type SourceBrowserConfig struct {
	Prefix    string `mapstructure:"prefix"`
	URLFormat string `mapstructure:"url_format"` // %s path, %d line
}

// XrefConfig holds the document naming policy.
type XrefConfig struct {
	SeparatorPolicy string `mapstructure:"separator_policy"` // base or flatten
	Replacement     string `mapstructure:"replacement"`
}

// HighlightConfig holds syntax highlighting settings.
type HighlightConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Style          string `mapstructure:"style"`
	LexerCacheSize int    `mapstructure:"lexer_cache_size"`
}

// FilterConfig lists records excluded before rendering.
type FilterConfig struct {
	ExcludePasses []string `mapstructure:"exclude_passes"`
	ExcludeFiles  []string `mapstructure:"exclude_files"`
}

// StorageConfig holds object storage configuration for publishing reports.
type StorageConfig struct {
	Type      string `mapstructure:"type"` // "", local, cos or s3
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	SecretID  string `mapstructure:"secret_id"`
	SecretKey string `mapstructure:"secret_key"`
	Domain    string `mapstructure:"domain"` // e.g., "myqcloud.com"
	Scheme    string `mapstructure:"scheme"` // e.g., "https" or "http"
	LocalPath string `mapstructure:"local_path"`
	Endpoint  string `mapstructure:"endpoint"` // s3 only
	UseSSL    bool   `mapstructure:"use_ssl"`
	Prefix    string `mapstructure:"prefix"`
}

// DatabaseConfig holds run history database configuration.
type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Type     string `mapstructure:"type"` // sqlite, mysql or postgres
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Database string `mapstructure:"database"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Path     string `mapstructure:"path"` // sqlite file
	MaxConns int    `mapstructure:"max_conns"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
}

// Load reads configuration from the specified file path. An empty path
// searches the standard locations; a missing file falls back to defaults.
func Load(configPath string) (*Config, error) {
	v := newViper()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("opt-report")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/opt-report")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return unmarshal(v)
}

// LoadFromReader loads configuration from raw content (useful for testing).
func LoadFromReader(configType string, content []byte) (*Config, error) {
	v := newViper()
	v.SetConfigType(configType)
	if err := v.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return unmarshal(v)
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg, err := unmarshal(newViper())
	if err != nil {
		panic(fmt.Sprintf("default config: %v", err))
	}
	return cfg
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// setDefaults sets default configuration values. Every key needs a default
// so AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("report.build_dir", ".")
	v.SetDefault("report.output_dir", "./opt-report")
	v.SetDefault("report.collapse_threshold", 7)
	v.SetDefault("report.jobs", 1)
	v.SetDefault("report.summary", true)
	v.SetDefault("report.source_browser.prefix", "../../src/")
	v.SetDefault("report.source_browser.url_format", "https://github.com/gcc-mirror/gcc/tree/master/%s#L%d")

	v.SetDefault("xref.separator_policy", "base")
	v.SetDefault("xref.replacement", "|")

	v.SetDefault("highlight.enabled", true)
	v.SetDefault("highlight.style", "default")
	v.SetDefault("highlight.lexer_cache_size", 64)

	v.SetDefault("filter.exclude_passes", []string{})
	v.SetDefault("filter.exclude_files", []string{})

	v.SetDefault("storage.type", "")
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.region", "")
	v.SetDefault("storage.secret_id", "")
	v.SetDefault("storage.secret_key", "")
	v.SetDefault("storage.domain", "myqcloud.com")
	v.SetDefault("storage.scheme", "https")
	v.SetDefault("storage.local_path", "./published")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.use_ssl", true)
	v.SetDefault("storage.prefix", "opt-report")

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 0)
	v.SetDefault("database.database", "opt_report")
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.path", "./opt-report.db")
	v.SetDefault("database.max_conns", 10)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.output_path", "")
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Report.CollapseThreshold < 0 {
		return fmt.Errorf("collapse threshold must not be negative")
	}
	if c.Report.Jobs < 1 {
		return fmt.Errorf("jobs must be at least 1")
	}

	switch c.Xref.SeparatorPolicy {
	case "base", "flatten":
	default:
		return fmt.Errorf("unsupported separator policy: %s", c.Xref.SeparatorPolicy)
	}
	if c.Xref.SeparatorPolicy == "flatten" && (c.Xref.Replacement == "" || strings.ContainsAny(c.Xref.Replacement, `/\`)) {
		return fmt.Errorf("invalid path separator replacement %q", c.Xref.Replacement)
	}

	switch c.Storage.Type {
	case "", "local":
	case "cos", "s3":
		if c.Storage.Bucket == "" {
			return fmt.Errorf("storage bucket is required for %s", c.Storage.Type)
		}
	default:
		return fmt.Errorf("unsupported storage type: %s", c.Storage.Type)
	}
	if c.Storage.Type == "s3" && c.Storage.Endpoint == "" {
		return fmt.Errorf("storage endpoint is required for s3")
	}

	if c.Database.Enabled {
		switch c.Database.Type {
		case "sqlite":
			if c.Database.Path == "" {
				return fmt.Errorf("database path is required for sqlite")
			}
		case "mysql", "postgres":
			if c.Database.Host == "" {
				return fmt.Errorf("database host is required")
			}
		default:
			return fmt.Errorf("unsupported database type: %s", c.Database.Type)
		}
	}

	return nil
}

// EnsureOutputDir creates the output directory if it doesn't exist.
func (c *Config) EnsureOutputDir() error {
	if c.Report.OutputDir == "" {
		return nil
	}
	return os.MkdirAll(c.Report.OutputDir, 0755)
}
