package site

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jdeanwallace/jinjabread/utils"
	"github.com/pkg/errors"
)

// copyDirContents recursively copies src into dst, merging with whatever dst
// already holds. Hidden files and directories are not copied.
func copyDirContents(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.WithStack(err)
		}
		if path != src && utils.IsHidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		relPath, err := filepath.Rel(src, path)
		if err != nil {
			return errors.Wrapf(err, "relative path for %s", path)
		}
		dstPath := filepath.Join(dst, relPath)

		if d.IsDir() {
			return errors.WithStack(os.MkdirAll(dstPath, os.ModePerm))
		}
		return copyFile(path, dstPath)
	})
}

// copyFile copies srcFile to dstFile byte for byte, creating parent
// directories and keeping the source permissions.
func copyFile(srcFile, dstFile string) error {
	srcF, err := os.Open(srcFile)
	if err != nil {
		return errors.WithStack(err)
	}
	defer srcF.Close()

	if err := os.MkdirAll(filepath.Dir(dstFile), os.ModePerm); err != nil {
		return errors.WithStack(err)
	}

	dstF, err := os.Create(dstFile)
	if err != nil {
		return errors.WithStack(err)
	}
	if _, err := io.Copy(dstF, srcF); err != nil {
		dstF.Close()
		return errors.Wrapf(err, "copy %s to %s", srcFile, dstFile)
	}
	if err := dstF.Close(); err != nil {
		return errors.WithStack(err)
	}

	if info, err := srcF.Stat(); err == nil {
		if err := os.Chmod(dstFile, info.Mode().Perm()); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}
