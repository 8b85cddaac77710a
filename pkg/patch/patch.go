// Package patch defines the collaborator contract the preparer uses to
// apply a single patch artifact against an unpack directory.
//
// The production patch codec (the actual byte-level diff format used by
// a real deployment) is out of scope here; this package defines the
// interface the preparer depends on and ships one reference
// implementation suitable for tests and small deployments.
package patch

import (
	"archive/zip"
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Applier mutates the tree rooted at dir in place according to the
// patch artifact read from r, or returns an error identifying what
// failed. Implementations own the patch wire format entirely; the
// preparer only knows that a successful Apply leaves dir holding the
// next version's tree.
type Applier interface {
	Apply(dir string, r io.Reader) error
}

// deletedManifestName is the reserved entry name a ZipApplier patch uses
// to list paths (relative to the tree root) that the patch removes.
const deletedManifestName = "esky-patch-deleted.txt"

// ZipApplier applies patches encoded as a zip archive holding every
// added or changed file at its final relative path, plus an optional
// deletedManifestName entry listing one relative path per line to
// remove. This is simpler than a true binary diff but exercises the
// same contract the preparer depends on: streamed in, applied in place,
// replaceable with a production bsdiff-style codec without touching the
// preparer.
type ZipApplier struct{}

// Apply reads r fully (zip archives require random access) and applies
// its contents against dir: every non-manifest entry overwrites or
// creates the corresponding file, then every path named in the deleted
// manifest is removed.
func (ZipApplier) Apply(dir string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading patch stream: %w", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("opening patch archive: %w", err)
	}

	var deleted []string
	for _, f := range zr.File {
		if f.Name == deletedManifestName {
			deleted, err = readDeletedManifest(f)
			if err != nil {
				return err
			}
			continue
		}
		if err := applyPatchEntry(f, dir); err != nil {
			return fmt.Errorf("applying %s: %w", f.Name, err)
		}
	}

	for _, rel := range deleted {
		target := filepath.Join(dir, rel)
		if !withinTree(dir, target) {
			return fmt.Errorf("deletion entry %q escapes patch target directory", rel)
		}
		if err := os.RemoveAll(target); err != nil {
			return fmt.Errorf("removing %s: %w", rel, err)
		}
	}

	return nil
}

func readDeletedManifest(f *zip.File) ([]string, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var paths []string
	scanner := bufio.NewScanner(rc)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		paths = append(paths, line)
	}
	return paths, scanner.Err()
}

func applyPatchEntry(f *zip.File, dir string) error {
	target := filepath.Join(dir, f.Name)
	if !withinTree(dir, target) {
		return fmt.Errorf("entry escapes patch target directory")
	}

	if f.FileInfo().IsDir() {
		return os.MkdirAll(target, 0o755)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
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

func withinTree(dir, target string) bool {
	rel, err := filepath.Rel(dir, target)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
