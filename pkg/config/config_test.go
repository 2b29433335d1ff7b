package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/jar-analysis/pkg/errors"
	"github.com/jar-analysis/pkg/model"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_DefaultValues(t *testing.T) {
	cfg, err := Load(writeConfig(t, "storage:\n  type: local\n"))
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Analysis.Workers)
	assert.Equal(t, "JAVA_SPECIFICATION_VERSION", cfg.Analysis.RuntimeEnv)
	assert.True(t, cfg.Analysis.Identify)
	assert.True(t, cfg.Analysis.Hashes)
	assert.Equal(t, model.FormatJSON, cfg.Output.ReportFormat())
	assert.True(t, cfg.Output.Pretty)
	assert.False(t, cfg.Database.Enabled)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "jar-analyzer", cfg.Telemetry.ServiceName)
	assert.Equal(t, "grpc", cfg.Telemetry.Protocol)
}

func TestLoad_CustomValues(t *testing.T) {
	path := writeConfig(t, `
analysis:
  workers: 12
  runtime_env: MY_RELEASE
  default_release: "17"
  identify: false
output:
  dir: /tmp/reports
  format: yaml
  pretty: false
database:
  enabled: true
  type: postgres
  host: db.example.com
  port: 5432
  database: jars
  user: admin
  password: secret
storage:
  type: local
  local_path: /tmp/storage
telemetry:
  enabled: true
  endpoint: http://collector:4317
  sampler: traceidratio
  sampler_arg: "0.5"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 12, cfg.Analysis.Workers)
	assert.Equal(t, "MY_RELEASE", cfg.Analysis.RuntimeEnv)
	assert.Equal(t, "17", cfg.Analysis.DefaultRelease)
	assert.False(t, cfg.Analysis.Identify)
	assert.Equal(t, "/tmp/reports", cfg.Output.Dir)
	assert.Equal(t, model.FormatYAML, cfg.Output.ReportFormat())
	assert.False(t, cfg.Output.Pretty)
	assert.Equal(t, "db.example.com", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "jars", cfg.Database.Database)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "http://collector:4317", cfg.Telemetry.Endpoint)
	assert.Equal(t, "0.5", cfg.Telemetry.SamplerArg)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("JAR_ANALYSIS_OUTPUT_FORMAT", "json.gz")
	t.Setenv("JAR_ANALYSIS_ANALYSIS_WORKERS", "2")

	cfg, err := Load(writeConfig(t, "output:\n  format: yaml\n"))
	require.NoError(t, err)
	assert.Equal(t, model.FormatJSONGz, cfg.Output.ReportFormat())
	assert.Equal(t, 2, cfg.Analysis.Workers)
}

func TestLoad_InvalidDatabaseType(t *testing.T) {
	path := writeConfig(t, `
database:
  enabled: true
  type: oracle
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeConfigError, apperrors.GetErrorCode(err))
	assert.Contains(t, err.Error(), "unsupported database type")
}

func TestLoad_InvalidFormat(t *testing.T) {
	_, err := Load(writeConfig(t, "output:\n  format: xml\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}

func TestLoad_MalformedFile(t *testing.T) {
	_, err := Load(writeConfig(t, "analysis: [unclosed\n"))
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeConfigError, apperrors.GetErrorCode(err))
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Analysis: AnalysisConfig{Workers: 1},
			Output:   OutputConfig{Format: "json"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "zero workers", mutate: func(c *Config) { c.Analysis.Workers = 0 }, wantErr: "workers must be at least 1"},
		{name: "database disabled ignores type", mutate: func(c *Config) { c.Database.Type = "oracle" }},
		{
			name:    "sqlite without path",
			mutate:  func(c *Config) { c.Database = DatabaseConfig{Enabled: true, Type: "sqlite"} },
			wantErr: "database path is required",
		},
		{
			name:    "mysql without host",
			mutate:  func(c *Config) { c.Database = DatabaseConfig{Enabled: true, Type: "mysql"} },
			wantErr: "database host is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEnsureDataDir(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "analysis", "data")
	cfg := &Config{Analysis: AnalysisConfig{DataDir: dataDir}}

	require.NoError(t, cfg.EnsureDataDir())
	_, err := os.Stat(dataDir)
	assert.NoError(t, err)
}

func TestLoad_FileNotFound(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Analysis.Workers)
}

func TestLoadFromReader(t *testing.T) {
	cfg, err := LoadFromReader("yaml", []byte(`
database:
  enabled: true
  type: mysql
  host: mysql.local
`))
	require.NoError(t, err)
	assert.Equal(t, "mysql", cfg.Database.Type)
	assert.Equal(t, "mysql.local", cfg.Database.Host)
}
