package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"safariconverter/blocker"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("SAFARI_CONVERTER_LOG_LEVEL", "off")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestRootCmd_Stdin(t *testing.T) {
	output := filepath.Join(t.TempDir(), "blockerList.json")

	stdout, err := execute(t, "||example.com^\n##.ad\n! comment\n||bad^$unknown\n", "-s", "15", "-O", output)
	require.NoError(t, err)

	assert.Contains(t, stdout, "Converted Count: 2\n")
	assert.Contains(t, stdout, "Errors Count: 1\n")
	assert.Contains(t, stdout, "Over Limit: false\n")
	assert.Contains(t, stdout, "JSON Output: "+output)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	var entries []blocker.Entry
	require.NoError(t, json.Unmarshal(data, &entries))
	assert.Len(t, entries, 2)
}

func TestRootCmd_Config(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "base.txt"), []byte("||example.com^\nexample.com#%#window.a = 1;\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "extra.txt"), []byte("##.ad\n"), 0o644))

	output := filepath.Join(dir, "out.json")
	advanced := filepath.Join(dir, "advanced.txt")
	profile := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(profile, []byte(`
safari_version: 14
advanced_blocking: true
advanced_blocking_format: txt
output: `+output+`
advanced_output: `+advanced+`
sources:
  - name: base
    path: base.txt
  - name: extra
    path: extra.txt
`), 0o644))

	stdout, err := execute(t, "", "-c", profile)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Converted Count: 2\n")
	assert.Contains(t, stdout, "Advanced Blocking Converted Count: 1\n")

	data, err := os.ReadFile(advanced)
	require.NoError(t, err)
	assert.Equal(t, "example.com#%#window.a = 1;", string(data))
}

func TestRootCmd_InvalidVersion(t *testing.T) {
	_, err := execute(t, "||example.com^\n", "-s", "9", "-O", filepath.Join(t.TempDir(), "out.json"))
	assert.ErrorIs(t, err, blocker.ErrUnsupportedVersion)

	_, err = execute(t, "||example.com^\n", "-f", "xml", "-O", filepath.Join(t.TempDir(), "out.json"))
	assert.ErrorIs(t, err, blocker.ErrUnsupportedFormat)
}
