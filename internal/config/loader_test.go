package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func newTestLoader() *Loader {
	return NewLoaderWithViper(viper.New())
}

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewLoader(t *testing.T) {
	loader := NewLoader()
	require.NotNil(t, loader)
	assert.Same(t, viper.GetViper(), loader.GetViper())
}

func TestLoadWithNoConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := newTestLoader().Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().LogLevel, cfg.LogLevel)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.True(t, cfg.Extraction.AutoClassify)
}

func TestLoadFindsFileInWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	writeConfig(t, dir, "docscan.yaml", "log_level: warn\noutput:\n  format: csv\n")

	loader := newTestLoader()
	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "csv", cfg.Output.Format)
	assert.Contains(t, loader.GetConfigFileUsed(), "docscan.yaml")
}

func TestLoadWithValidYAMLFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "custom.yaml", `
log_level: debug
verbose: true
extraction:
  auto_classify: false
  normalize_form: NFKC
ocr:
  command: tesseract
  args: ["{input}", "stdout", "-l", "nep+eng"]
  timeout_sec: 15
server:
  host: 0.0.0.0
  port: 9090
  rate_limit:
    enabled: true
    requests_per_minute: 5
batch:
  workers: 2
  include: ["*.txt"]
archive:
  driver: sqlite
  dsn: /tmp/scans.db
`)

	cfg, err := newTestLoader().LoadWithFile(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.Verbose)
	assert.False(t, cfg.Extraction.AutoClassify)
	assert.Equal(t, "NFKC", cfg.Extraction.NormalizeForm)
	assert.True(t, cfg.Extraction.RemoveZeroWidth, "unset keys keep defaults")
	assert.Equal(t, "tesseract", cfg.OCR.Command)
	assert.Equal(t, []string{"{input}", "stdout", "-l", "nep+eng"}, cfg.OCR.Args)
	assert.Equal(t, 15, cfg.OCR.TimeoutSec)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.Server.RateLimit.Enabled)
	assert.Equal(t, 5, cfg.Server.RateLimit.RequestsPerMinute)
	assert.Equal(t, 1000, cfg.Server.RateLimit.RequestsPerHour)
	assert.Equal(t, 2, cfg.Batch.Workers)
	assert.Equal(t, []string{"*.txt"}, cfg.Batch.Include)
	assert.Equal(t, ArchiveSQLite, cfg.Archive.Driver)
	assert.Equal(t, "/tmp/scans.db", cfg.Archive.DSN)
}

func TestLoadWithInvalidValues(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "bad.yaml", "server:\n  port: 0\n")

	_, err := newTestLoader().LoadWithFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration validation failed")

	cfg, err := newTestLoader().LoadWithFileWithoutValidation(path)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Server.Port)
}

func TestLoadWithMalformedFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "broken.yaml", "server: [unclosed\n")

	_, err := newTestLoader().LoadWithFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoadWithMissingFile(t *testing.T) {
	_, err := newTestLoader().LoadWithFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("DOCSCAN_LOG_LEVEL", "error")
	t.Setenv("DOCSCAN_SERVER_PORT", "7070")
	t.Setenv("DOCSCAN_SERVER_RATE_LIMIT_ENABLED", "true")
	t.Setenv("DOCSCAN_EXTRACTION_AUTO_CLASSIFY", "false")

	cfg, err := newTestLoader().Load()
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.True(t, cfg.Server.RateLimit.Enabled)
	assert.False(t, cfg.Extraction.AutoClassify)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "c.yaml", "batch:\n  workers: 2\n")
	t.Setenv("DOCSCAN_BATCH_WORKERS", "6")

	cfg, err := newTestLoader().LoadWithFile(path)
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Batch.Workers)
}

func TestLoaderAccessors(t *testing.T) {
	loader := newTestLoader()
	loader.Set("output.format", "yaml")
	assert.Equal(t, "yaml", loader.GetString("output.format"))
	assert.Equal(t, "yaml", loader.Get("output.format"))

	var buf bytes.Buffer
	loader.PrintConfigInfo(&buf)
	assert.Contains(t, buf.String(), "Environment prefix: DOCSCAN")
}

func TestGenerateDefaultConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docscan.yaml")
	require.NoError(t, GenerateDefaultConfigFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, yaml.Unmarshal(data, &raw))
	assert.Contains(t, raw, "server")
	assert.Contains(t, raw, "extraction")

	cfg, err := newTestLoader().LoadWithFile(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Server, cfg.Server)
}

func TestGetConfigSearchPaths(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	paths := GetConfigSearchPaths()
	assert.Equal(t, ".", paths[0])
	assert.Contains(t, paths, filepath.Join(xdg, "docscan"))
	assert.Equal(t, "/etc/docscan", paths[len(paths)-1])
}
