package cmd

import (
	"github.com/ajxudir/esky/pkg/app"
	"github.com/ajxudir/esky/pkg/config"
	"github.com/ajxudir/esky/pkg/errors"
)

// requireFlags rejects a command invocation missing any of the named
// required string flag values, reporting them all in a single
// ConfigError rather than stopping at the first one.
func requireFlags(values map[string]string) error {
	var missing []string
	for name, value := range values {
		if value == "" {
			missing = append(missing, "--"+name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return errors.NewExitErrorf(errors.ExitConfigError, "missing required flag(s): %v", missing)
}

// loadAppConfig loads configuration from configPath (or workDir's
// .esky.yml, or the built-in default) and records workDir on it.
func loadAppConfig(configPath, workDir string) (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath, workDir)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// newApp builds an *app.App rooted at dir using cfg's configured
// subdirectory names.
func newApp(name, currentVersion, platform, dir string, cfg *config.Config) *app.App {
	return app.New(name, currentVersion, platform, dir, cfg.DownloadsDir, cfg.UnpackDir, cfg.ReadyDir)
}
