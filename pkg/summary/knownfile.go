// Package summary parses the version summary document into KnownFile
// records: one artifact edge per line, with cost and integrity metadata.
package summary

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/ajxudir/esky/pkg/app"
	"github.com/ajxudir/esky/pkg/config"
	"github.com/ajxudir/esky/pkg/version"
)

// KnownFile is a single summary row: an artifact that upgrades an
// application from one of FromVersions to Version.
type KnownFile struct {
	AppName      string
	Platform     string
	Version      version.Version
	FromVersions []version.Version
	URL          string

	// Size is the declared artifact size in bytes, or 0 if not declared.
	Size int64

	// SHA256 is the declared lowercase hex digest, or "" if not declared.
	SHA256 string
}

// IsFullInstall reports whether this artifact applies with no prior
// installation present: one of its FromVersions patterns matches the
// empty version (the bare "*" wildcard, or a literal "" pattern).
func (f *KnownFile) IsFullInstall() bool {
	empty := version.Parse("")
	for _, v := range f.FromVersions {
		if v.Contains(empty) {
			return true
		}
	}
	return false
}

// GetFilename returns the basename of the artifact's URL path.
func (f *KnownFile) GetFilename() string {
	return path.Base(f.URL)
}

// GetFullFilename returns the local path this artifact downloads to:
// the app's downloads directory joined with GetFilename.
func (f *KnownFile) GetFullFilename(a *app.App) string {
	return filepath.Join(a.DownloadsDir(), f.GetFilename())
}

// CheckHash reports whether the local file for this artifact already
// satisfies its declared size and hash.
//
//   - no local file: false.
//   - no declared hash and no declared size: true iff the file is non-empty.
//   - no declared hash but a declared size: true iff the file size matches.
//   - a declared hash: true iff the SHA-256 of the first Size bytes (or
//     the whole file when Size is 0) matches SHA256.
func (f *KnownFile) CheckHash(a *app.App) bool {
	localPath := f.GetFullFilename(a)
	info, err := os.Stat(localPath)
	if err != nil {
		return false
	}

	if f.SHA256 == "" {
		if f.Size == 0 {
			return info.Size() > 0
		}
		return info.Size() == f.Size
	}

	file, err := os.Open(localPath)
	if err != nil {
		return false
	}
	defer file.Close()

	h := sha256.New()
	var reader io.Reader = file
	if f.Size > 0 {
		reader = io.LimitReader(file, f.Size)
	}
	if _, err := io.Copy(h, reader); err != nil {
		return false
	}
	return hex.EncodeToString(h.Sum(nil)) == f.SHA256
}

// GetCost returns the planner's heuristic edge weight: the declared size
// if present, otherwise the config's full-install or patch default. If
// the local file already satisfies CheckHash, the cost is discounted by
// the config's cached-cost divisor (floor, minimum 1), so the planner
// favors artifacts already on disk.
func (f *KnownFile) GetCost(a *app.App, cfg *config.Config) int64 {
	cost := f.Size
	if cost == 0 {
		if f.IsFullInstall() {
			cost = cfg.FullInstallCostBytes
		} else {
			cost = cfg.PatchCostBytes
		}
	}

	if f.CheckHash(a) {
		cost /= cfg.CachedCostDivisor
		if cost < 1 {
			cost = 1
		}
	}

	return cost
}
