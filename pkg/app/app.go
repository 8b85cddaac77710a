// Package app describes the running application identity (name,
// version, platform, and install directory) threaded through the
// summary, fetcher, and preparer components.
package app

import "path/filepath"

// App identifies a running, self-updating application instance.
type App struct {
	Name     string
	Version  string
	Platform string
	AppDir   string

	downloadsDir string
	unpackDir    string
	readyDir     string
}

// New constructs an App rooted at appDir, using the given config-provided
// subdirectory names for downloads/unpack/ready.
func New(name, version, platform, appDir, downloadsDir, unpackDir, readyDir string) *App {
	return &App{
		Name:         name,
		Version:      version,
		Platform:     platform,
		AppDir:       appDir,
		downloadsDir: downloadsDir,
		unpackDir:    unpackDir,
		readyDir:     readyDir,
	}
}

// UpdateDir returns the per-app working root under which downloads/,
// unpack/, and ready/ live.
func (a *App) UpdateDir() string {
	return filepath.Join(a.AppDir, "updates")
}

// DownloadsDir returns the directory raw artifacts are downloaded into,
// keyed by URL basename.
func (a *App) DownloadsDir() string {
	return filepath.Join(a.UpdateDir(), a.downloadsDir)
}

// UnpackDir returns the scratch directory new version trees are built in
// before being moved into ReadyDir.
func (a *App) UnpackDir() string {
	return filepath.Join(a.UpdateDir(), a.unpackDir)
}

// ReadyDir returns the directory staged <app>-<version>.<platform> trees
// are moved into once fully prepared.
func (a *App) ReadyDir() string {
	return filepath.Join(a.UpdateDir(), a.readyDir)
}

// VersionDirName returns the canonical name of a version's staged
// directory: <app>-<version>.<platform>.
func (a *App) VersionDirName(version string) string {
	return a.Name + "-" + version + "." + a.Platform
}

// ReadyPath returns the full path to a version's staged directory under
// ReadyDir.
func (a *App) ReadyPath(version string) string {
	return filepath.Join(a.ReadyDir(), a.VersionDirName(version))
}

// HasVersion reports whether the given version is already staged in
// ReadyDir.
func (a *App) HasVersion(version string) bool {
	info, err := statFunc(a.ReadyPath(version))
	return err == nil && info.IsDir()
}
