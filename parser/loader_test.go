package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadLines(t *testing.T) {
	lines, err := ReadLines(strings.NewReader("||a.com^\r\n##.ad\n\n! end"))
	require.NoError(t, err)
	assert.Equal(t, []string{"||a.com^\r", "##.ad", "", "! end"}, lines)

	long := strings.Repeat("a", 200*1024)
	lines, err = ReadLines(strings.NewReader(long))
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Len(t, lines[0], len(long))
}

func TestLoader_LoadFromPath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "list.txt"), []byte("||a.com^\n##.ad\n"), 0o644))

	l := NewLoader(dir)
	lines, err := l.LoadFromPath("list.txt")
	require.NoError(t, err)
	assert.Equal(t, []string{"||a.com^", "##.ad"}, lines)

	lines, err = NewLoader("").LoadFromPath(filepath.Join(dir, "list.txt"))
	require.NoError(t, err)
	assert.Len(t, lines, 2)

	_, err = l.LoadFromPath("missing.txt")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestErrorsCounter(t *testing.T) {
	var c ErrorsCounter
	c.Add()
	c.Add()
	assert.Equal(t, 2, c.Count())
}
