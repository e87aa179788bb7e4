package persistence

import (
	"bufio"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// ErrFileClosed is returned when writing to a committed or aborted AtomicFile.
var ErrFileClosed = errors.New("persistence: file already closed")

// AtomicFile writes to a temp file next to its target and renames it into
// place on Close. Until then the target is untouched; Abort discards the data.
type AtomicFile struct {
	mu       sync.Mutex
	f        *os.File
	buf      *bufio.Writer
	filename string
	done     bool
}

// CreateAtomic starts an atomic write of filename. Missing parent directories
// are created.
func CreateAtomic(filename string) (*AtomicFile, error) {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	f, err := os.CreateTemp(dir, filepath.Base(filename)+TempSuffix+"*")
	if err != nil {
		return nil, err
	}
	_ = f.Chmod(0o644)

	return &AtomicFile{
		f:        f,
		buf:      bufio.NewWriterSize(f, 256*1024),
		filename: filename,
	}, nil
}

// TempSuffix marks in-progress files. Listings skip names containing it.
const TempSuffix = ".tmp-"

// Write implements io.Writer.
func (a *AtomicFile) Write(p []byte) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.done {
		return 0, ErrFileClosed
	}
	return a.buf.Write(p)
}

// Sync flushes buffered data and fsyncs the temp file.
func (a *AtomicFile) Sync() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.done {
		return ErrFileClosed
	}
	if err := a.buf.Flush(); err != nil {
		return err
	}
	return a.f.Sync()
}

// Close commits the file: flush, fsync, rename over the target and fsync the
// directory. On failure the temp file is removed.
func (a *AtomicFile) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.done {
		return ErrFileClosed
	}
	a.done = true

	tmpName := a.f.Name()
	err := a.buf.Flush()
	if err == nil {
		err = a.f.Sync()
	}
	if cerr := a.f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmpName, a.filename)
	}
	if err != nil {
		_ = os.Remove(tmpName)
		return err
	}

	// Best-effort: fsync the directory so the rename is durable on POSIX.
	if d, err := os.Open(filepath.Dir(a.filename)); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}
	return nil
}

// Abort discards the temp file. It is a no-op after Close.
func (a *AtomicFile) Abort() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.done {
		return nil
	}
	a.done = true

	_ = a.f.Close()
	return os.Remove(a.f.Name())
}

// SaveToFile writes filename atomically through writeFunc. A failed write
// leaves no file at filename and keeps any previous content.
func SaveToFile(filename string, writeFunc func(io.Writer) error) error {
	a, err := CreateAtomic(filename)
	if err != nil {
		return err
	}
	if err := writeFunc(a); err != nil {
		_ = a.Abort()
		return err
	}
	return a.Close()
}

// LoadFromFile opens filename and hands a buffered reader to readFunc.
func LoadFromFile(filename string, readFunc func(io.Reader) error) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	return readFunc(bufio.NewReaderSize(f, 256*1024))
}
