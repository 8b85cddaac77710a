package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ajxudir/esky/pkg/verbose"
	"gopkg.in/yaml.v3"
)

// configFileName is the default config filename looked up in a working
// directory when no explicit path is given.
const configFileName = ".esky.yml"

// LoadConfig loads configuration from the specified path or defaults.
//
// If configPath is provided, it loads that specific config file.
// Otherwise, it looks for .esky.yml in the working directory. If no
// config is found, it returns the built-in default configuration.
// Supports config inheritance via the extends mechanism.
func LoadConfig(configPath, workDir string) (*Config, error) {
	var cfg *Config
	var extended []string

	if configPath != "" {
		verbose.Infof("Loading config from: %s", configPath)
		loaded, err := loadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		cfg = loaded
		cfg.SetRootConfig(true)
		extended = cfg.Extends

		cfg, err = processExtendsSecure(cfg, filepath.Dir(configPath), cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to process extends: %w", err)
		}
		verbose.WithDocRef("config", fmt.Sprintf("loaded %s (extends %v)", configPath, extended))
	} else {
		localConfig := filepath.Join(workDir, configFileName)
		if _, err := os.Stat(localConfig); err == nil {
			verbose.Infof("Found local config: %s", localConfig)
			loaded, err := loadConfigFile(localConfig)
			if err == nil {
				cfg = loaded
				cfg.SetRootConfig(true)
				extended = cfg.Extends
				cfg, err = processExtendsSecure(cfg, workDir, cfg)
				if err != nil {
					return nil, fmt.Errorf("failed to process extends: %w", err)
				}
				verbose.WithDocRef("config", fmt.Sprintf("loaded %s (extends %v)", localConfig, extended))
			}
		}

		if cfg == nil {
			verbose.Info("Using built-in default configuration")
			cfg = loadDefaultConfig()
			cfg.SetRootConfig(true)
		}
	}

	if workDir != "" {
		cfg.WorkingDir = workDir
	} else if cfg.WorkingDir == "" {
		cfg.WorkingDir = "."
	}

	applyZeroValueDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyZeroValueDefaults fills in any field left unset after extends
// processing with the corresponding built-in default.
func applyZeroValueDefaults(cfg *Config) {
	d := loadDefaultConfig()
	if cfg.DownloadsDir == "" {
		cfg.DownloadsDir = d.DownloadsDir
	}
	if cfg.UnpackDir == "" {
		cfg.UnpackDir = d.UnpackDir
	}
	if cfg.ReadyDir == "" {
		cfg.ReadyDir = d.ReadyDir
	}
	if cfg.HTTPTimeoutSeconds == 0 {
		cfg.HTTPTimeoutSeconds = d.HTTPTimeoutSeconds
	}
	if cfg.FetchAttempts == 0 {
		cfg.FetchAttempts = d.FetchAttempts
	}
	if cfg.FullInstallCostBytes == 0 {
		cfg.FullInstallCostBytes = d.FullInstallCostBytes
	}
	if cfg.PatchCostBytes == 0 {
		cfg.PatchCostBytes = d.PatchCostBytes
	}
	if cfg.CachedCostDivisor == 0 {
		cfg.CachedCostDivisor = d.CachedCostDivisor
	}
	if cfg.BootstrapManifestName == "" {
		cfg.BootstrapManifestName = d.BootstrapManifestName
	}
	if len(cfg.QualifierOrder) == 0 {
		cfg.QualifierOrder = d.QualifierOrder
	}
}

// loadConfigFileWithLimit loads a config file with a configurable size limit.
func loadConfigFileWithLimit(path string, maxSize int64) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > maxSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d bytes)", info.Size(), maxSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return loadConfigData(data)
}

// loadConfigFile loads a config file with the default size limit.
func loadConfigFile(path string) (*Config, error) {
	return loadConfigFileWithLimit(path, DefaultMaxConfigFileSize)
}

// loadConfigData parses YAML configuration data.
func loadConfigData(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	return &cfg, nil
}

// processExtendsSecure processes extends with security policy enforcement
// from the root config.
func processExtendsSecure(cfg *Config, baseDir string, rootCfg *Config) (*Config, error) {
	return processExtendsWithStackSecure(cfg, baseDir, make(map[string]bool), rootCfg)
}

// validateExtendPath checks if an extend path is allowed based on security settings.
func validateExtendPath(extend string, rootCfg *Config) error {
	if strings.Contains(extend, "..") && !rootCfg.AllowsPathTraversal() {
		return fmt.Errorf("path traversal not allowed in extends: '%s' - "+
			"to allow, add security.allow_path_traversal: true to your root config", extend)
	}
	if filepath.IsAbs(extend) && !rootCfg.AllowsAbsolutePaths() {
		return fmt.Errorf("absolute paths not allowed in extends: '%s' - "+
			"to allow, add security.allow_absolute_paths: true to your root config", extend)
	}
	return nil
}

// processExtendsWithStackSecure processes extends with cycle detection and
// security enforcement.
func processExtendsWithStackSecure(cfg *Config, baseDir string, stack map[string]bool, rootCfg *Config) (*Config, error) {
	if len(cfg.Extends) == 0 {
		return cfg, nil
	}

	base := &Config{}
	maxFileSize := rootCfg.GetMaxConfigFileSize()

	for _, extend := range cfg.Extends {
		var (
			extendCfg  *Config
			extendKey  string
			cleanupKey bool
		)

		if extend == "default" {
			extendKey = "__default__"
			if stack[extendKey] {
				return nil, fmt.Errorf("cyclic extends detected at %s", extend)
			}
			stack[extendKey] = true
			cleanupKey = true
			extendCfg = loadDefaultConfig()
		} else {
			if err := validateExtendPath(extend, rootCfg); err != nil {
				return nil, err
			}

			extendPath := extend
			if !filepath.IsAbs(extendPath) {
				extendPath = filepath.Join(baseDir, extend)
			}
			absPath, absErr := filepath.Abs(extendPath)
			if absErr != nil {
				return nil, fmt.Errorf("failed to resolve extend path '%s': %w", extend, absErr)
			}
			if _, statErr := os.Stat(absPath); statErr != nil {
				return nil, fmt.Errorf("failed to resolve extend '%s': %w", extend, statErr)
			}

			extendKey = absPath
			if stack[extendKey] {
				return nil, fmt.Errorf("cyclic extends detected at %s", extendPath)
			}
			stack[extendKey] = true
			cleanupKey = true

			loaded, err := loadConfigFileWithLimit(extendPath, maxFileSize)
			if err != nil {
				return nil, fmt.Errorf("failed to load extend '%s': %w", extend, err)
			}
			loaded, err = processExtendsWithStackSecure(loaded, filepath.Dir(extendPath), stack, rootCfg)
			if err != nil {
				return nil, err
			}
			extendCfg = loaded
		}

		base = mergeConfigs(base, extendCfg)
		verbose.Debugf("extended from %q", extend)

		if cleanupKey {
			delete(stack, extendKey)
		}
	}

	result := mergeConfigs(base, cfg)
	result.Extends = nil
	return result, nil
}

// mergeConfigs overlays every non-zero field of overlay onto base,
// returning a new Config. Slice fields replace rather than append.
func mergeConfigs(base, overlay *Config) *Config {
	merged := *base
	if overlay.WorkingDir != "" {
		merged.WorkingDir = overlay.WorkingDir
	}
	if overlay.DownloadsDir != "" {
		merged.DownloadsDir = overlay.DownloadsDir
	}
	if overlay.UnpackDir != "" {
		merged.UnpackDir = overlay.UnpackDir
	}
	if overlay.ReadyDir != "" {
		merged.ReadyDir = overlay.ReadyDir
	}
	if overlay.HTTPTimeoutSeconds != 0 {
		merged.HTTPTimeoutSeconds = overlay.HTTPTimeoutSeconds
	}
	if overlay.FetchAttempts != 0 {
		merged.FetchAttempts = overlay.FetchAttempts
	}
	if overlay.FullInstallCostBytes != 0 {
		merged.FullInstallCostBytes = overlay.FullInstallCostBytes
	}
	if overlay.PatchCostBytes != 0 {
		merged.PatchCostBytes = overlay.PatchCostBytes
	}
	if overlay.CachedCostDivisor != 0 {
		merged.CachedCostDivisor = overlay.CachedCostDivisor
	}
	if overlay.BootstrapManifestName != "" {
		merged.BootstrapManifestName = overlay.BootstrapManifestName
	}
	if len(overlay.QualifierOrder) > 0 {
		merged.QualifierOrder = overlay.QualifierOrder
	}
	if overlay.Security != nil {
		merged.Security = overlay.Security
	}
	merged.Extends = overlay.Extends
	return &merged
}
