package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "opt-report.yaml")
	content := `
report:
  build_dir: /build
`
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0644))

	cfg, err := Load(configFile)
	require.NoError(t, err)

	assert.Equal(t, "/build", cfg.Report.BuildDir)
	assert.Equal(t, "./opt-report", cfg.Report.OutputDir)
	assert.Equal(t, 7, cfg.Report.CollapseThreshold)
	assert.Equal(t, 1, cfg.Report.Jobs)
	assert.True(t, cfg.Report.Summary)
	assert.Equal(t, "../../src/", cfg.Report.SourceBrowser.Prefix)
	assert.Equal(t, "https://github.com/gcc-mirror/gcc/tree/master/%s#L%d", cfg.Report.SourceBrowser.URLFormat)
	assert.Equal(t, "base", cfg.Xref.SeparatorPolicy)
	assert.Equal(t, "|", cfg.Xref.Replacement)
	assert.True(t, cfg.Highlight.Enabled)
	assert.Equal(t, "default", cfg.Highlight.Style)
	assert.Equal(t, "", cfg.Storage.Type)
	assert.False(t, cfg.Database.Enabled)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Report.CollapseThreshold)
}

func TestLoad_CustomValues(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "opt-report.yaml")
	content := `
report:
  output_dir: /tmp/report
  collapse_threshold: 3
  jobs: 4
xref:
  separator_policy: flatten
  replacement: "~"
filter:
  exclude_passes: [slp, vect]
  exclude_files: [/usr/include]
storage:
  type: s3
  bucket: reports
  endpoint: localhost:9000
database:
  enabled: true
  type: postgres
  host: db.example.com
  port: 5432
`
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0644))

	cfg, err := Load(configFile)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/report", cfg.Report.OutputDir)
	assert.Equal(t, 3, cfg.Report.CollapseThreshold)
	assert.Equal(t, 4, cfg.Report.Jobs)
	assert.Equal(t, "flatten", cfg.Xref.SeparatorPolicy)
	assert.Equal(t, "~", cfg.Xref.Replacement)
	assert.Equal(t, []string{"slp", "vect"}, cfg.Filter.ExcludePasses)
	assert.Equal(t, []string{"/usr/include"}, cfg.Filter.ExcludeFiles)
	assert.Equal(t, "s3", cfg.Storage.Type)
	assert.Equal(t, "db.example.com", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("OPTREPORT_REPORT_JOBS", "6")
	t.Setenv("OPTREPORT_LOG_LEVEL", "debug")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Report.Jobs)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "opt-report.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("report: [unclosed"), 0644))

	_, err := Load(configFile)
	assert.Error(t, err)
}

func TestLoadFromReader(t *testing.T) {
	cfg, err := LoadFromReader("yaml", []byte("highlight:\n  enabled: false\n  style: monokai\n"))
	require.NoError(t, err)
	assert.False(t, cfg.Highlight.Enabled)
	assert.Equal(t, "monokai", cfg.Highlight.Style)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"zero jobs", func(c *Config) { c.Report.Jobs = 0 }, "jobs must be at least 1"},
		{"negative threshold", func(c *Config) { c.Report.CollapseThreshold = -1 }, "collapse threshold"},
		{"bad policy", func(c *Config) { c.Xref.SeparatorPolicy = "hash" }, "unsupported separator policy"},
		{"slash replacement", func(c *Config) {
			c.Xref.SeparatorPolicy = "flatten"
			c.Xref.Replacement = "/"
		}, "invalid path separator replacement"},
		{"cos without bucket", func(c *Config) { c.Storage.Type = "cos" }, "storage bucket is required"},
		{"s3 without endpoint", func(c *Config) {
			c.Storage.Type = "s3"
			c.Storage.Bucket = "b"
		}, "storage endpoint is required"},
		{"unknown storage", func(c *Config) { c.Storage.Type = "ftp" }, "unsupported storage type"},
		{"unknown database", func(c *Config) {
			c.Database.Enabled = true
			c.Database.Type = "oracle"
		}, "unsupported database type"},
		{"disabled database ignored", func(c *Config) { c.Database.Type = "oracle" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
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

func TestEnsureOutputDir(t *testing.T) {
	cfg := Default()
	cfg.Report.OutputDir = filepath.Join(t.TempDir(), "nested", "out")
	require.NoError(t, cfg.EnsureOutputDir())
	assert.DirExists(t, cfg.Report.OutputDir)
}
