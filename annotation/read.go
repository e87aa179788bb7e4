package annotation

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/hupe1980/mmprep/internal/mmap"
)

// mmapThreshold is the file size from which files are mapped instead of read.
const mmapThreshold = 1 << 20

// withFile hands the contents of path to fn. The slice is only valid during fn.
func withFile(path string, fn func(data []byte) error) error {
	fi, err := os.Stat(path)
	if err != nil {
		return err
	}

	if fi.Size() < mmapThreshold {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return fn(data)
	}

	m, err := mmap.Open(path)
	if err != nil {
		return err
	}
	defer m.Close()

	_ = m.Advise(mmap.AccessSequential)
	return fn(m.Bytes())
}

// LoadLines returns the lines of a text file without their line terminators.
// A trailing newline does not produce an empty last line; blank lines inside
// the file are kept so positional lists stay aligned.
func LoadLines(path string) ([]string, error) {
	var lines []string
	err := withFile(path, func(data []byte) error {
		lines = splitLines(data)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("annotation: read %s: %w", path, err)
	}
	return lines, nil
}

func splitLines(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	data = bytes.TrimSuffix(data, []byte("\n"))

	lines := make([]string, 0, bytes.Count(data, []byte("\n"))+1)
	for line := range bytes.SplitSeq(data, []byte("\n")) {
		lines = append(lines, string(bytes.TrimSuffix(line, []byte("\r"))))
	}
	return lines
}

// ListFiles returns the names of the regular files in dir, sorted.
func ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("annotation: list %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Exists reports whether the slash-separated path rel exists under root.
func Exists(root, rel string) bool {
	_, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel)))
	return err == nil
}
