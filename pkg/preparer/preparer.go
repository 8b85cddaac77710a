// Package preparer builds a ready-to-run version tree from a planned
// path of artifact edges: extracting a full install, or copying the
// running version forward and applying patches in order, then staging
// the result under the app's ready directory.
package preparer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ajxudir/esky/pkg/app"
	"github.com/ajxudir/esky/pkg/config"
	eskyerrors "github.com/ajxudir/esky/pkg/errors"
	"github.com/ajxudir/esky/pkg/patch"
	"github.com/ajxudir/esky/pkg/planner"
	"github.com/ajxudir/esky/pkg/summary"
	"github.com/ajxudir/esky/pkg/verbose"
	"github.com/ajxudir/esky/pkg/zipx"
)

const bootstrapSubdir = "esky-bootstrap"

// Preparer turns a planned path into a staged, ready-to-run version
// tree under the app's ready directory.
type Preparer struct {
	ZipExtractor zipx.Extractor
	PatchApplier patch.Applier
}

// New creates a Preparer with the default zip extractor and patch
// applier.
func New() *Preparer {
	return &Preparer{
		ZipExtractor: zipx.DefaultExtractor{},
		PatchApplier: patch.ZipApplier{},
	}
}

// Prepare builds the version tree named by path's final edge and stages
// it into a.ReadyDir. An empty path means the running version is
// already the target; Prepare is then a no-op.
func (p *Preparer) Prepare(a *app.App, cfg *config.Config, path planner.PlannedPath) error {
	if len(path) == 0 {
		return nil
	}

	target := path[len(path)-1].Version
	verbose.PrepareStep(a.Name, target.String(), "start")

	if err := os.MkdirAll(a.UnpackDir(), 0o755); err != nil {
		return eskyerrors.NewPatchError(a.Name, a.Platform, target.String(), "", fmt.Errorf("creating unpack dir: %w", err))
	}
	workDir, err := os.MkdirTemp(a.UnpackDir(),a.VersionDirName(target.String())+"-")
	if err != nil {
		return eskyerrors.NewPatchError(a.Name, a.Platform, target.String(), "", fmt.Errorf("creating unpack workdir: %w", err))
	}
	defer os.RemoveAll(workDir)

	remaining := path
	first := path[0]
	if first.IsFullInstall() {
		verbose.PrepareStep(a.Name, target.String(), "extract full install "+first.URL)
		if err := p.ZipExtractor.Extract(first.GetFullFilename(a), workDir); err != nil {
			return eskyerrors.NewPatchError(a.Name, a.Platform, first.Version.String(), first.URL, err)
		}
		remaining = path[1:]
	} else {
		verbose.PrepareStep(a.Name, target.String(), "copy running version forward")
		if err := p.seedFromRunningVersion(a, cfg, workDir); err != nil {
			return eskyerrors.NewPatchError(a.Name, a.Platform, target.String(), "", err)
		}
	}

	for _, edge := range remaining {
		verbose.PrepareStep(a.Name, target.String(), "apply patch "+edge.URL)
		if err := p.applyPatch(a, edge, workDir); err != nil {
			return eskyerrors.NewPatchError(a.Name, a.Platform, edge.Version.String(), edge.URL, err)
		}
	}

	finalTree, err := normalizeLayout(workDir, a.VersionDirName(target.String()))
	if err != nil {
		return eskyerrors.NewPatchError(a.Name, a.Platform, target.String(), "", fmt.Errorf("normalizing layout: %w", err))
	}

	if err := stageReady(a, target.String(), finalTree); err != nil {
		return eskyerrors.NewPatchError(a.Name, a.Platform, target.String(), "", fmt.Errorf("staging ready directory: %w", err))
	}

	verbose.PrepareStep(a.Name, target.String(), "ready")
	return nil
}

// seedFromRunningVersion copies the currently installed tree (a.AppDir,
// excluding its own updates/ working directory) into workDir, then
// copies every extra path listed in the current version's bootstrap
// manifest, resolved relative to AppDir's parent.
func (p *Preparer) seedFromRunningVersion(a *app.App, cfg *config.Config, workDir string) error {
	if err := copyTreeExcluding(a.AppDir, workDir, "updates"); err != nil {
		return fmt.Errorf("copying running version tree: %w", err)
	}

	manifestPath := filepath.Join(a.AppDir, cfg.BootstrapManifestName)
	entries, err := readBootstrapManifest(manifestPath)
	if err != nil {
		return fmt.Errorf("reading bootstrap manifest: %w", err)
	}

	base := filepath.Dir(a.AppDir)
	for _, rel := range entries {
		src := filepath.Join(base, rel)
		dst := filepath.Join(workDir, rel)
		info, statErr := os.Stat(src)
		if statErr != nil {
			continue
		}
		if info.IsDir() {
			if err := copyTreeExcluding(src, dst); err != nil {
				return fmt.Errorf("copying bootstrap entry %s: %w", rel, err)
			}
			continue
		}
		if err := copyFile(src, dst, info.Mode().Perm()); err != nil {
			return fmt.Errorf("copying bootstrap entry %s: %w", rel, err)
		}
	}
	return nil
}

func (p *Preparer) applyPatch(a *app.App, edge *summary.KnownFile, workDir string) error {
	f, err := os.Open(edge.GetFullFilename(a))
	if err != nil {
		return err
	}
	defer f.Close()
	return p.PatchApplier.Apply(workDir, f)
}

// normalizeLayout ensures the prepared tree lives at workDir/versionDir.
// If the build already produced that directory at the top level (common
// for full-install zips that bundle their own wrapper folder), every
// sibling entry is relocated under its esky-bootstrap/ subfolder. If it
// didn't, workDir's existing contents are wrapped into a new
// versionDir, since the copy-forward path writes directly into workDir.
func normalizeLayout(workDir, versionDir string) (string, error) {
	target := filepath.Join(workDir, versionDir)
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		entries, err := os.ReadDir(workDir)
		if err != nil {
			return "", err
		}
		bootstrapDir := filepath.Join(target, bootstrapSubdir)
		for _, entry := range entries {
			if entry.Name() == versionDir {
				continue
			}
			if err := os.MkdirAll(bootstrapDir, 0o755); err != nil {
				return "", err
			}
			src := filepath.Join(workDir, entry.Name())
			dst := filepath.Join(bootstrapDir, entry.Name())
			if err := moveEntry(src, dst); err != nil {
				return "", err
			}
		}
		return target, nil
	}

	if err := os.MkdirAll(target, 0o755); err != nil {
		return "", err
	}
	entries, err := os.ReadDir(workDir)
	if err != nil {
		return "", err
	}
	for _, entry := range entries {
		if entry.Name() == versionDir {
			continue
		}
		src := filepath.Join(workDir, entry.Name())
		dst := filepath.Join(target, entry.Name())
		if err := moveEntry(src, dst); err != nil {
			return "", err
		}
	}
	return target, nil
}

// stageReady moves finalTree into a.ReadyDir under its canonical name,
// replacing any prior contents for that version.
func stageReady(a *app.App, version string, finalTree string) error {
	if err := os.MkdirAll(a.ReadyDir(), 0o755); err != nil {
		return err
	}
	dest := a.ReadyPath(version)
	if err := os.RemoveAll(dest); err != nil {
		return err
	}
	return moveEntry(finalTree, dest)
}

func readBootstrapManifest(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var entries []string
	start := 0
	for i := 0; i <= len(data); i++ {
		if i == len(data) || data[i] == '\n' {
			line := string(data[start:i])
			line = trimCR(line)
			if line != "" {
				entries = append(entries, line)
			}
			start = i + 1
		}
	}
	return entries, nil
}

func trimCR(s string) string {
	if len(s) > 0 && s[len(s)-1] == '\r' {
		return s[:len(s)-1]
	}
	return s
}

func moveEntry(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := copyTreeExcluding(src, dst); err != nil {
		return err
	}
	return os.RemoveAll(src)
}

func copyTreeExcluding(src, dst string, exclude ...string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return copyFile(src, dst, info.Mode().Perm())
	}

	if err := os.MkdirAll(dst, info.Mode().Perm()); err != nil {
		return err
	}
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if contains(exclude, entry.Name()) {
			continue
		}
		if err := copyTreeExcluding(filepath.Join(src, entry.Name()), filepath.Join(dst, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dst string, perm os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
