package annotation

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hupe1980/mmprep/mapping"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadLines(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"trailing newline", "a\nb\n", []string{"a", "b"}},
		{"no trailing newline", "a\nb", []string{"a", "b"}},
		{"crlf", "a\r\nb\r\n", []string{"a", "b"}},
		{"blank lines kept", "a\n\nb\n", []string{"a", "", "b"}},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.name+".txt", tt.content)
			got, err := LoadLines(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadLines_Large(t *testing.T) {
	var sb strings.Builder
	for sb.Len() <= mmapThreshold {
		sb.WriteString("0\n1\n")
	}
	path := writeFile(t, t.TempDir(), "Labels_sky.txt", sb.String())

	lines, err := LoadLines(path)
	require.NoError(t, err)
	assert.Equal(t, strings.Count(sb.String(), "\n"), len(lines))
	assert.Equal(t, "0", lines[0])
	assert.Equal(t, "1", lines[len(lines)-1])
}

func TestLoadLines_Missing(t *testing.T) {
	_, err := LoadLines(filepath.Join(t.TempDir(), "nope.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "captions_val2017.json", `{
		"info": {"year": 2017},
		"images": [{"id": 139, "file_name": "000000000139.jpg"}],
		"annotations": [
			{"image_id": 139, "caption": "a room"},
			{"image_id": 139, "caption": "a tv"}
		]
	}`)

	doc, err := LoadJSON(path)
	require.NoError(t, err)
	assert.Equal(t, path, doc.Path())
	assert.True(t, doc.Has("info"))
	assert.False(t, doc.Has("categories"))

	images, err := doc.Records("images")
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, json.Number("139"), images[0]["id"])

	anns, err := doc.Records("annotations")
	require.NoError(t, err)
	m, err := mapping.Build(anns, "image_id", "caption", mapping.ParseKey, mapping.String)
	require.NoError(t, err)
	caps, ok := m.Get(139)
	require.True(t, ok)
	assert.Equal(t, []string{"a room", "a tv"}, caps)

	_, err = doc.Records("categories")
	assert.ErrorIs(t, err, ErrMissingSection)

	_, err = doc.Records("info")
	assert.Error(t, err)
}

func TestLoadJSON_Malformed(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.json", `{"images": [`)
	_, err := LoadJSON(path)
	assert.Error(t, err)
}

func TestListFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "tree.txt", "1\n")
	writeFile(t, dir, "animals.txt", "2\n")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	names, err := ListFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"animals.txt", "tree.txt"}, names)
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "mirflickr/im1.jpg", "")

	assert.True(t, Exists(dir, "mirflickr/im1.jpg"))
	assert.False(t, Exists(dir, "mirflickr/im2.jpg"))
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	p := NewProgress(logger, "checking files", 3, 0)
	for i := 1; i <= 3; i++ {
		p.Step(context.Background(), i)
	}
	assert.Contains(t, buf.String(), "checking files")
	assert.Contains(t, buf.String(), "total=3")

	NewProgress(nil, "x", 1, 0).Step(context.Background(), 1)
}
