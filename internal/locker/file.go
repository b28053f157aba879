package locker

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EncryptedPath appends Suffix to path.
func EncryptedPath(path string) string {
	return path + Suffix
}

// DecryptedPath strips Suffix from path. Without the suffix the last
// extension is dropped instead, and a name with no extension gets
// DecryptedSuffix so the input is never chosen as its own output.
func DecryptedPath(path string) string {
	base := filepath.Base(path)

	if strings.HasSuffix(base, Suffix) && base != Suffix {
		return strings.TrimSuffix(path, Suffix)
	}

	ext := filepath.Ext(base)
	if ext == "" || ext == base {
		return path + DecryptedSuffix
	}

	return strings.TrimSuffix(path, ext)
}

// writeFileAtomic writes data to a temporary file beside path and renames it
// into place, so readers see either the old file, no file, or all of data.
func writeFileAtomic(path string, data []byte, perm os.FileMode) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}

	if err = tmp.Chmod(perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}

	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}
