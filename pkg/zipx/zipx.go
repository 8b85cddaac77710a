// Package zipx extracts a full-install zip artifact into an unpack
// directory.
package zipx

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	zip "github.com/STARRY-S/zip"
)

// Extractor unpacks a zip archive into a destination directory.
type Extractor interface {
	Extract(zipPath, destDir string) error
}

// DefaultExtractor extracts using github.com/STARRY-S/zip, a drop-in,
// symlink-aware replacement for the standard library's archive/zip.
type DefaultExtractor struct{}

// Extract unpacks every entry in zipPath into destDir, preserving
// directory structure and file permissions. Entries whose resolved path
// would escape destDir are rejected (a malicious or corrupt archive
// should not be able to write outside the unpack tree).
func (DefaultExtractor) Extract(zipPath, destDir string) error {
	rc, err := zip.OpenReader(zipPath)
	if err != nil {
		return fmt.Errorf("opening zip %s: %w", zipPath, err)
	}
	defer rc.Close()

	for _, f := range rc.File {
		if err := extractEntry(f, destDir); err != nil {
			return fmt.Errorf("extracting %s: %w", f.Name, err)
		}
	}
	return nil
}

func extractEntry(f *zip.File, destDir string) error {
	target := filepath.Join(destDir, f.Name)
	if !withinDir(destDir, target) {
		return fmt.Errorf("entry %q escapes destination directory", f.Name)
	}

	if f.FileInfo().IsDir() {
		return os.MkdirAll(target, 0o755)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	if f.Mode()&fs.ModeSymlink != 0 {
		return extractSymlink(f, target)
	}

	src, err := f.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode().Perm())
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, src)
	return err
}

func extractSymlink(f *zip.File, target string) error {
	src, err := f.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	linkTarget, err := io.ReadAll(src)
	if err != nil {
		return err
	}

	_ = os.Remove(target)
	return os.Symlink(string(linkTarget), target)
}

// withinDir reports whether target lies within (or equals) dir, guarding
// against zip-slip entries such as "../../etc/passwd".
func withinDir(dir, target string) bool {
	rel, err := filepath.Rel(dir, target)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
