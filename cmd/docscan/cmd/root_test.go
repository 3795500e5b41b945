package cmd

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/MeKo-Tech/docscan/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// executeCommand runs the root command in-process with fresh flags and
// configuration and returns what it wrote to stdout and stderr.
func executeCommand(t *testing.T, stdin io.Reader, args ...string) (string, string, error) {
	t.Helper()

	ResetConfig()
	t.Cleanup(ResetConfig)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	if stdin == nil {
		stdin = strings.NewReader("")
	}
	rootCmd.SetIn(stdin)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootCommand(t *testing.T) {
	assert.NotNil(t, rootCmd)
	assert.Equal(t, "docscan", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
	assert.Same(t, rootCmd, GetRootCommand())
}

func TestRootCommandHelp(t *testing.T) {
	stdout, _, err := executeCommand(t, nil, "--help")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Nepali identity documents")
	assert.Contains(t, stdout, "Available Commands:")
	assert.Contains(t, stdout, "Usage:")
}

func TestRootCommandVersion(t *testing.T) {
	stdout, _, err := executeCommand(t, nil, "--version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "docscan version dev")
}

func TestRootCommandSubcommands(t *testing.T) {
	commandNames := make([]string, 0, len(rootCmd.Commands()))
	for _, subcmd := range rootCmd.Commands() {
		commandNames = append(commandNames, subcmd.Name())
	}

	for _, expected := range []string{"extract", "classify", "batch", "serve", "mcp", "config", "scans"} {
		assert.Contains(t, commandNames, expected, "Expected subcommand '%s' not found", expected)
	}
}

func TestRootCommandInvalidFlag(t *testing.T) {
	_, stderr, err := executeCommand(t, nil, "--invalid-flag")
	require.Error(t, err)
	assert.Contains(t, stderr, "unknown flag")
}

func TestRootCommandNoArgs(t *testing.T) {
	stdout, _, err := executeCommand(t, nil)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Usage:")
}

func TestRootCommandInvalidConfig(t *testing.T) {
	t.Setenv("DOCSCAN_OUTPUT_FORMAT", "xml")
	_, _, err := executeCommand(t, nil, "classify", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration validation failed")
}

func TestResetConfigRestoresFlags(t *testing.T) {
	_, _, err := executeCommand(t, strings.NewReader("passport"), "classify", "--explain")
	require.NoError(t, err)

	ResetConfig()
	explain, err := classifyCmd.Flags().GetBool("explain")
	require.NoError(t, err)
	assert.False(t, explain)
	assert.False(t, classifyCmd.Flags().Changed("explain"))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	d := config.DefaultConfig()
	cfg := &d
	cfg.LogLevel = "warn"
	logger := newLogger(&buf, cfg)
	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"key":"value"`)

	cfg.Verbose = true
	buf.Reset()
	newLogger(&buf, cfg).Debug("debugging")
	assert.Contains(t, buf.String(), "debugging")
}
