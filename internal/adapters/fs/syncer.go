package fs

import (
	"io"
	"os"
	"path/filepath"

	"go.trai.ch/sitepress/internal/core/domain"
	"go.trai.ch/sitepress/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.FileSyncer = (*Syncer)(nil)

// Syncer implements ports.FileSyncer.
type Syncer struct {
	hasher *Hasher
}

// NewSyncer creates a new Syncer.
func NewSyncer(hasher *Hasher) *Syncer {
	return &Syncer{hasher: hasher}
}

// Copy copies src to dst, creating parent directories. With ChangeByMtime a
// destination at least as new as the source is kept; with ChangeByContent a
// destination with identical bytes is kept.
func (s *Syncer) Copy(src, dst string, strategy domain.ChangeStrategy) (bool, error) {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return false, zerr.With(zerr.Wrap(err, "failed to stat source"), "path", src)
	}

	current, err := s.isCurrent(src, dst, srcInfo, strategy)
	if err != nil || current {
		return false, err
	}

	if err := copyFile(src, dst, srcInfo.Mode().Perm()); err != nil {
		return false, err
	}
	// Keep the source mtime so the mtime filter sees the copy as current.
	if err := os.Chtimes(dst, srcInfo.ModTime(), srcInfo.ModTime()); err != nil {
		return false, zerr.With(zerr.Wrap(err, "failed to set modification time"), "path", dst)
	}
	return true, nil
}

func (s *Syncer) isCurrent(src, dst string, srcInfo os.FileInfo, strategy domain.ChangeStrategy) (bool, error) {
	dstInfo, err := os.Stat(dst)
	if err != nil {
		if isNotExist(err) {
			return false, nil
		}
		return false, zerr.With(zerr.Wrap(err, "failed to stat destination"), "path", dst)
	}

	if strategy == domain.ChangeByContent {
		if dstInfo.Size() != srcInfo.Size() {
			return false, nil
		}
		srcHash, err := s.hasher.ComputeFileHash(src)
		if err != nil {
			return false, err
		}
		dstHash, err := s.hasher.ComputeFileHash(dst)
		if err != nil {
			return false, err
		}
		return srcHash == dstHash, nil
	}

	return !dstInfo.ModTime().Before(srcInfo.ModTime()), nil
}

// WriteIfChanged writes data to path unless the file already holds the same bytes.
func (s *Syncer) WriteIfChanged(path string, data []byte) (bool, error) {
	info, err := os.Stat(path)
	switch {
	case err == nil && info.Size() == int64(len(data)):
		existing, err := s.hasher.ComputeFileHash(path)
		if err != nil {
			return false, err
		}
		if existing == s.hasher.ComputeHash(data) {
			return false, nil
		}
	case err != nil && !isNotExist(err):
		return false, zerr.With(zerr.Wrap(err, "failed to stat file"), "path", path)
	}

	if err := WriteFile(path, data); err != nil {
		return false, err
	}
	return true, nil
}

// WriteFile writes data to path, creating parent directories.
func WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create directory"), "path", filepath.Dir(path))
	}
	if err := os.WriteFile(path, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write file"), "path", path)
	}
	return nil
}

func copyFile(src, dst string, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(dst), domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create directory"), "path", filepath.Dir(dst))
	}

	in, err := os.Open(src) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to open source"), "path", src)
	}
	defer in.Close() //nolint:errcheck // Read-only handle

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create destination"), "path", dst)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return zerr.With(zerr.Wrap(err, "failed to copy file"), "path", dst)
	}
	if err := out.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to close destination"), "path", dst)
	}
	return nil
}
