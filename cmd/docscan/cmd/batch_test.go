package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/MeKo-Tech/docscan/internal/batch"
	"github.com/MeKo-Tech/docscan/internal/config"
	"github.com/MeKo-Tech/docscan/internal/document"
	"github.com/MeKo-Tech/docscan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchCommand(t *testing.T) {
	assert.NotNil(t, batchCmd)
	assert.NotEmpty(t, batchCmd.Short)

	for _, name := range []string{"type", "format", "output", "sidecar-dir", "workers", "recursive", "include", "exclude", "continue-on-error"} {
		assert.NotNil(t, batchCmd.Flags().Lookup(name), "missing flag %s", name)
	}
}

func TestBatchCommandRequiresArgs(t *testing.T) {
	_, _, err := executeCommand(t, nil, "batch")
	require.Error(t, err)
}

func TestBatchCommandProcessesDirectory(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteSampleFiles(t, dir)
	sidecars := filepath.Join(t.TempDir(), "sidecars")

	stdout, _, err := executeCommand(t, nil, "batch", dir,
		"--workers", "2", "--sidecar-dir", sidecars, "--continue-on-error")
	require.NoError(t, err)

	var out struct {
		Documents []struct {
			File   string                 `json:"file"`
			Error  string                 `json:"error"`
			Result map[string]interface{} `json:"result"`
		} `json:"documents"`
		Stats map[string]interface{} `json:"stats"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	require.Len(t, out.Documents, len(testutil.Samples()))

	byFile := make(map[string]string)
	for _, d := range out.Documents {
		if d.Result != nil {
			byFile[filepath.Base(d.File)], _ = d.Result["document_type"].(string)
		}
	}
	assert.Equal(t, "passport", byFile["passport.txt"])
	assert.Equal(t, "national_id", byFile["national_id.txt"])
	assert.Equal(t, "driving_license", byFile["driving_license.txt"])
	// Devanagari-only text cannot be classified.
	assert.NotContains(t, byFile, "citizenship_ne.txt")

	_, err = os.Stat(filepath.Join(sidecars, "passport"+batch.SidecarSuffix))
	assert.NoError(t, err)
}

func TestBatchCommandFailsWithoutContinueOnError(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "a.txt", testutil.PassportText)
	testutil.WriteFile(t, dir, "b.txt", "hello world")

	stdout, _, err := executeCommand(t, nil, "batch", dir, "--format", "csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "batch processing failed")
	// Results are still written.
	assert.Contains(t, stdout, "passport_number,PA1234567")
}

func TestBatchCommandExplicitType(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "nepali.txt", testutil.CitizenshipNepaliText)
	out := filepath.Join(t.TempDir(), "results.yaml")

	stdout, _, err := executeCommand(t, nil, "batch", dir, "--type", "citizenship", "--format", "yaml", "-o", out, "--quiet")
	require.NoError(t, err)
	assert.Empty(t, stdout)

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(b), "document_type: citizenship")
	assert.Contains(t, string(b), "2045-05-12")
}

func TestBatchCommandArchives(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteSampleFiles(t, dir)
	archiveDir := filepath.Join(t.TempDir(), "archive")

	_, _, err := executeCommand(t, nil, "batch", dir, "--continue-on-error",
		"--archive-driver", "json", "--archive-dsn", archiveDir)
	require.NoError(t, err)

	entries, err := os.ReadDir(archiveDir)
	require.NoError(t, err)
	// Every sample except the unclassifiable Devanagari one.
	assert.Len(t, entries, len(testutil.Samples())-1)
}

func TestConfigToBatchConfig(t *testing.T) {
	ResetConfig()
	t.Cleanup(ResetConfig)

	cfg := config.DefaultConfig()
	cfg.Batch.Workers = 3
	cfg.Batch.Include = []string{"*.txt"}
	cfg.Batch.SidecarDir = "from-config"

	require.NoError(t, batchCmd.Flags().Set("workers", "5"))
	require.NoError(t, batchCmd.Flags().Set("type", "passport"))

	bc, err := configToBatchConfig(&cfg, batchCmd)
	require.NoError(t, err)
	assert.Equal(t, 5, bc.Workers)
	assert.Equal(t, document.Passport, bc.Type)
	assert.Equal(t, []string{"*.txt"}, bc.IncludePatterns)
	assert.Equal(t, "from-config", bc.SidecarDir)
	assert.Equal(t, "json", bc.Format)

	require.NoError(t, batchCmd.Flags().Set("format", "xml"))
	_, err = configToBatchConfig(&cfg, batchCmd)
	assert.Error(t, err)
}
