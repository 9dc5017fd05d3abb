package parser

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Filter lists carry some very long lines (scriptlets, selector lists).
const maxLineSize = 1024 * 1024

// Loader reads rule lines from local sources.
type Loader struct {
	BaseDir string // Directory relative paths are resolved against
}

// NewLoader creates a new Loader resolving relative paths against baseDir.
func NewLoader(baseDir string) *Loader {
	return &Loader{BaseDir: baseDir}
}

// LoadFromPath reads all lines of a local file.
func (l *Loader) LoadFromPath(path string) ([]string, error) {
	if !filepath.IsAbs(path) && l.BaseDir != "" {
		path = filepath.Join(l.BaseDir, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	lines, err := ReadLines(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return lines, nil
}

// ReadLines reads every line from r, without line terminators.
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
