// Package tablefile reads and writes whole table files. Writes are
// all-or-nothing; a ".xz" suffix selects xz compression.
package tablefile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"
)

// Compressed reports whether a path names an xz-compressed table.
func Compressed(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".xz")
}

// Write streams a table into path. The data goes to a temporary file in the
// same directory which is renamed over path only after encode succeeds, so
// readers never see a partial table.
func Write(path string, encode func(w io.Writer) error) (int64, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if err := encodeTo(tmp, path, encode); err != nil {
		return 0, err
	}

	if err := tmp.Sync(); err != nil {
		return 0, fmt.Errorf("failed to sync table file: %w", err)
	}
	info, err := tmp.Stat()
	if err != nil {
		return 0, fmt.Errorf("failed to stat table file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("failed to close table file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return 0, fmt.Errorf("failed to set table file mode: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return 0, fmt.Errorf("failed to move table into place: %w", err)
	}
	committed = true

	return info.Size(), nil
}

func encodeTo(f *os.File, path string, encode func(w io.Writer) error) error {
	if !Compressed(path) {
		if err := encode(f); err != nil {
			return fmt.Errorf("failed to encode table: %w", err)
		}
		return nil
	}

	xw, err := xz.NewWriter(f)
	if err != nil {
		return fmt.Errorf("failed to create xz writer: %w", err)
	}
	if err := encode(xw); err != nil {
		xw.Close()
		return fmt.Errorf("failed to encode table: %w", err)
	}
	if err := xw.Close(); err != nil {
		return fmt.Errorf("failed to finish xz stream: %w", err)
	}
	return nil
}

// Read opens path and hands the (decompressed) contents to decode.
func Read(path string, decode func(r io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open table: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if Compressed(path) {
		xr, err := xz.NewReader(f)
		if err != nil {
			return fmt.Errorf("failed to read xz header: %w", err)
		}
		r = xr
	}

	if err := decode(r); err != nil {
		return fmt.Errorf("failed to load %s: %w", filepath.Base(path), err)
	}
	return nil
}
