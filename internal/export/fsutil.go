package export

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
)

// writeAtomic writes data to a sibling temp file and renames it over path.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return eris.Wrapf(err, "export: create temp file for %s", path)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return eris.Wrapf(err, "export: write %s", path)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return eris.Wrapf(err, "export: close %s", path)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return eris.Wrapf(err, "export: chmod %s", path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return eris.Wrapf(err, "export: rename into %s", path)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return eris.Wrapf(err, "export: open %s", src)
	}
	defer in.Close() //nolint:errcheck

	out, err := os.Create(dst)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", dst)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return eris.Wrapf(err, "export: copy %s", src)
	}
	if err := out.Close(); err != nil {
		return eris.Wrapf(err, "export: close %s", dst)
	}
	return nil
}

func copyDir(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return eris.Wrapf(err, "export: walk %s", path)
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return eris.Wrapf(err, "export: relative path %s", path)
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return ensureDir(target)
		}
		return copyFile(path, target)
	})
}
