package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadConfig("", dir)
	require.NoError(t, err)
	assert.Equal(t, "downloads", cfg.DownloadsDir)
	assert.Equal(t, "unpack", cfg.UnpackDir)
	assert.Equal(t, "ready", cfg.ReadyDir)
	assert.Equal(t, 2, cfg.FetchAttempts)
	assert.Equal(t, "esky-bootstrap.txt", cfg.BootstrapManifestName)
	assert.Equal(t, []string{"pre", "alpha", "beta", "rc"}, cfg.QualifierOrder)
}

func TestLoadConfigFromLocalFile(t *testing.T) {
	dir := t.TempDir()
	content := "fetch_attempts: 5\ndownloads_dir: dl\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".esky.yml"), []byte(content), 0o644))

	cfg, err := LoadConfig("", dir)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.FetchAttempts)
	assert.Equal(t, "dl", cfg.DownloadsDir)
	// Unset fields still fall back to defaults.
	assert.Equal(t, "ready", cfg.ReadyDir)
}

func TestLoadConfigExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yml")
	require.NoError(t, os.WriteFile(path, []byte("fetch_attempts: 3\n"), 0o644))

	cfg, err := LoadConfig(path, dir)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.FetchAttempts)
}

func TestLoadConfigExtendsDefault(t *testing.T) {
	dir := t.TempDir()
	content := "extends: [\"default\"]\nfetch_attempts: 9\n"
	path := filepath.Join(dir, "custom.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path, dir)
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.FetchAttempts)
	assert.Equal(t, "downloads", cfg.DownloadsDir)
}

func TestLoadConfigExtendsCycleDetected(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.yml")
	b := filepath.Join(dir, "b.yml")
	require.NoError(t, os.WriteFile(a, []byte("extends: [\"b.yml\"]\n"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("extends: [\"a.yml\"]\n"), 0o644))

	_, err := LoadConfig(a, dir)
	assert.Error(t, err)
}

func TestLoadConfigPathTraversalRejected(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	path := filepath.Join(sub, "custom.yml")
	require.NoError(t, os.WriteFile(path, []byte("extends: [\"../outside.yml\"]\n"), 0o644))

	_, err := LoadConfig(path, sub)
	assert.Error(t, err)
}

func TestValidateRejectsInvalidFields(t *testing.T) {
	cfg := loadDefaultConfig()
	cfg.FetchAttempts = 0
	assert.Error(t, Validate(cfg))

	cfg = loadDefaultConfig()
	cfg.CachedCostDivisor = 0
	assert.Error(t, Validate(cfg))

	cfg = loadDefaultConfig()
	cfg.QualifierOrder = []string{"rc", "rc"}
	assert.Error(t, Validate(cfg))

	cfg = loadDefaultConfig()
	assert.NoError(t, Validate(cfg))
}

func TestQualifierOrderIndex(t *testing.T) {
	cfg := loadDefaultConfig()
	assert.Equal(t, 0, cfg.QualifierOrderIndex("pre"))
	assert.Equal(t, 3, cfg.QualifierOrderIndex("rc"))
	assert.Equal(t, -1, cfg.QualifierOrderIndex("unknown"))
}
