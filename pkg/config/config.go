// Package config provides configuration management for jar-analysis.
package config

import (
	"bytes"
	"errors"
	"os"
	"strings"

	"github.com/spf13/viper"

	apperrors "github.com/jar-analysis/pkg/errors"
	"github.com/jar-analysis/pkg/model"
	"github.com/jar-analysis/pkg/telemetry"
	"github.com/jar-analysis/pkg/utils"
)

// EnvPrefix prefixes environment overrides, e.g. JAR_ANALYSIS_OUTPUT_FORMAT.
const EnvPrefix = "JAR_ANALYSIS"

// Config holds all configuration for the application.
type Config struct {
	Analysis  AnalysisConfig   `mapstructure:"analysis"`
	Output    OutputConfig     `mapstructure:"output"`
	Storage   StorageConfig    `mapstructure:"storage"`
	Database  DatabaseConfig   `mapstructure:"database"`
	Log       LogConfig        `mapstructure:"log"`
	Telemetry telemetry.Config `mapstructure:"telemetry"`
}

// AnalysisConfig holds analysis-related configuration.
type AnalysisConfig struct {
	Workers int `mapstructure:"workers"`
	// RuntimeEnv names the environment variable bestfit reads the release from.
	RuntimeEnv string `mapstructure:"runtime_env"`
	// DefaultRelease is used by bestfit when no release is given.
	DefaultRelease string `mapstructure:"default_release"`
	Identify       bool   `mapstructure:"identify"`
	Hashes         bool   `mapstructure:"hashes"`
	DataDir        string `mapstructure:"data_dir"`
}

// OutputConfig controls report files.
type OutputConfig struct {
	Dir    string `mapstructure:"dir"`
	Format string `mapstructure:"format"` // json, json.gz or yaml
	Pretty bool   `mapstructure:"pretty"`
}

// ReportFormat returns the parsed output format.
func (o OutputConfig) ReportFormat() model.ReportFormat {
	return model.ParseReportFormat(o.Format)
}

// StorageConfig holds object storage configuration.
type StorageConfig struct {
	// Enabled uploads reports and allows analyzing stored archives.
	Enabled   bool   `mapstructure:"enabled"`
	Type      string `mapstructure:"type"` // cos or local
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	SecretID  string `mapstructure:"secret_id"`
	SecretKey string `mapstructure:"secret_key"`
	Domain    string `mapstructure:"domain"`     // e.g., "myqcloud.com"
	Scheme    string `mapstructure:"scheme"`     // e.g., "https" or "http"
	Endpoint  string `mapstructure:"endpoint"`   // overrides the derived COS bucket URL
	LocalPath string `mapstructure:"local_path"` // for local storage
}

// DatabaseConfig holds report history database configuration.
type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Type     string `mapstructure:"type"` // sqlite, postgres or mysql
	Path     string `mapstructure:"path"` // sqlite file
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Database string `mapstructure:"database"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	MaxConns int    `mapstructure:"max_conns"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"` // empty logs to stderr
}

// Load reads configuration from the specified file path. A missing file
// leaves the defaults in place. Environment variables override both.
func Load(configPath string) (*Config, error) {
	v := newViper()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/jar-analysis")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			utils.GetGlobalLogger().Debug("config file %q not found, using defaults", configPath)
		} else {
			return nil, apperrors.Wrap(apperrors.CodeConfigError, "failed to read config file", err)
		}
	}

	return unmarshal(v)
}

// LoadFromReader loads configuration from raw content (useful for testing).
func LoadFromReader(configType string, content []byte) (*Config, error) {
	v := newViper()
	v.SetConfigType(configType)
	if err := v.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeConfigError, "failed to read config", err)
	}
	return unmarshal(v)
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
		return nil, apperrors.Wrap(apperrors.CodeConfigError, "failed to unmarshal config", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("analysis.workers", 4)
	v.SetDefault("analysis.runtime_env", "JAVA_SPECIFICATION_VERSION")
	v.SetDefault("analysis.default_release", "")
	v.SetDefault("analysis.identify", true)
	v.SetDefault("analysis.hashes", true)
	v.SetDefault("analysis.data_dir", "./data")

	v.SetDefault("output.dir", "")
	v.SetDefault("output.format", "json")
	v.SetDefault("output.pretty", true)

	v.SetDefault("storage.enabled", false)
	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.local_path", "./storage")
	v.SetDefault("storage.scheme", "https")
	v.SetDefault("storage.domain", "myqcloud.com")

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.path", "./data/reports.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.max_conns", 10)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.output_path", "")

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "jar-analyzer")
	v.SetDefault("telemetry.service_version", "unknown")
	v.SetDefault("telemetry.protocol", "grpc")
	v.SetDefault("telemetry.sampler", "always_on")
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Analysis.Workers < 1 {
		return apperrors.New(apperrors.CodeConfigError, "analysis workers must be at least 1")
	}

	if !model.ReportFormat(strings.ToLower(c.Output.Format)).Valid() {
		return apperrors.Newf(apperrors.CodeConfigError, "unsupported output format: %s", c.Output.Format)
	}

	if c.Database.Enabled {
		switch c.Database.Type {
		case "sqlite":
			if c.Database.Path == "" {
				return apperrors.New(apperrors.CodeConfigError, "database path is required for sqlite")
			}
		case "postgres", "mysql":
			if c.Database.Host == "" {
				return apperrors.New(apperrors.CodeConfigError, "database host is required")
			}
		default:
			return apperrors.Newf(apperrors.CodeConfigError, "unsupported database type: %s", c.Database.Type)
		}
	}

	// Storage config validation is delegated to storage package
	return nil
}

// EnsureDataDir creates the data directory if it doesn't exist.
func (c *Config) EnsureDataDir() error {
	if c.Analysis.DataDir == "" {
		return nil
	}
	return os.MkdirAll(c.Analysis.DataDir, 0755)
}
