package fs

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// MaxInputSize caps payloads read from a file or stdin.
const MaxInputSize = 32 << 20

// ReadInput resolves the json-data argument: "-" reads stdin, "@path"
// reads a file, anything else is the document itself.
func ReadInput(arg string, stdin io.Reader) ([]byte, error) {
	switch {
	case arg == "-":
		return readLimited(stdin, "stdin")
	case strings.HasPrefix(arg, "@"):
		path := arg[1:]
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open input file: %w", err)
		}
		defer f.Close()
		return readLimited(f, path)
	default:
		return []byte(arg), nil
	}
}

func readLimited(r io.Reader, name string) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxInputSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if len(data) > MaxInputSize {
		return nil, fmt.Errorf("%s exceeds %d bytes", name, MaxInputSize)
	}
	return data, nil
}

// WriteAtomic streams write into a temp file next to path and renames it
// over path once the file is synced, closed and non-empty. On any failure
// the temp file is removed and path is left untouched.
func WriteAtomic(path string, write func(w io.Writer) error) (size int64, err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	closed := false
	defer func() {
		if !closed {
			tmp.Close()
		}
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err = write(bw); err != nil {
		return 0, err
	}
	if err = bw.Flush(); err != nil {
		return 0, fmt.Errorf("failed to flush output: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return 0, fmt.Errorf("failed to sync output: %w", err)
	}
	closed = true
	if err = tmp.Close(); err != nil {
		return 0, fmt.Errorf("failed to close output: %w", err)
	}

	size, err = FileSize(tmpName)
	if err != nil {
		return 0, err
	}
	if size == 0 {
		err = fmt.Errorf("output file is empty after rendering")
		return 0, err
	}

	if err = os.Chmod(tmpName, 0644); err != nil {
		return 0, fmt.Errorf("failed to set output permissions: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return 0, fmt.Errorf("failed to move output into place: %w", err)
	}
	return size, nil
}

// FileSize stats path and returns its size.
func FileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("failed to stat file: %w", err)
	}
	return info.Size(), nil
}
