package cmd

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/MeKo-Tech/docscan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyCommand(t *testing.T) {
	tests := []struct {
		name  string
		input string
		args  []string
		want  string
	}{
		{name: "passport", input: testutil.PassportText, args: []string{"classify"}, want: "passport\n"},
		{name: "citizenship", input: testutil.CitizenshipText, args: []string{"classify", "-"}, want: "citizenship\n"},
		{
			name:  "explain",
			input: testutil.BirthCertificateText,
			args:  []string{"classify", "--explain"},
			want:  "birth_certificate (matched keyword \"birth certificate\")\n",
		},
		{
			name:  "explain without match",
			input: "hello world",
			args:  []string{"classify", "--explain"},
			want:  "unknown (no keyword matched)\n",
		},
		{
			name:  "devanagari only",
			input: testutil.CitizenshipNepaliText,
			args:  []string{"classify"},
			want:  "unknown\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := executeCommand(t, strings.NewReader(tt.input), tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, stdout)
		})
	}
}

func TestClassifyCommandJSON(t *testing.T) {
	stdout, _, err := executeCommand(t, strings.NewReader(testutil.NationalIDText), "classify", "--format", "json")
	require.NoError(t, err)

	var m map[string]string
	require.NoError(t, json.Unmarshal([]byte(stdout), &m))
	assert.Equal(t, "national_id", m["document_type"])
	assert.Equal(t, "national id", m["keyword"])
}

func TestClassifyCommandFile(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "dl.txt", testutil.DrivingLicenseText)

	stdout, _, err := executeCommand(t, nil, "classify", path)
	require.NoError(t, err)
	assert.Equal(t, "driving_license\n", stdout)

	_, _, err = executeCommand(t, nil, "classify", path+".missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input file not found")
}

func TestClassifyCommandInvalidFormat(t *testing.T) {
	_, _, err := executeCommand(t, strings.NewReader("passport"), "classify", "--format", "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")
}
