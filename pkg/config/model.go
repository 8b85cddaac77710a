// Package config handles configuration loading, validation, and merging
// for the update planning and fetch pipeline. It supports YAML-based
// configuration files with inheritance (extends) and a small set of
// ambient knobs the core algorithms leave as implementation choices.
package config

// Config is the root configuration structure.
type Config struct {
	Extends    []string `yaml:"extends,omitempty"`
	WorkingDir string   `yaml:"working_dir,omitempty"`

	// DownloadsDir, UnpackDir, and ReadyDir name the three subdirectories
	// of an app's update directory (see pkg/app).
	DownloadsDir string `yaml:"downloads_dir,omitempty"`
	UnpackDir    string `yaml:"unpack_dir,omitempty"`
	ReadyDir     string `yaml:"ready_dir,omitempty"`

	// HTTPTimeoutSeconds bounds a single HTTP round trip made by the
	// summary parser or fetcher. LoadConfig replaces zero with the
	// built-in default; a value that is still zero or negative when the
	// HTTP clients are built means no timeout.
	HTTPTimeoutSeconds int `yaml:"http_timeout_seconds,omitempty"`

	// FetchAttempts is the maximum number of download attempts the
	// fetcher makes for a single file before giving up.
	FetchAttempts int `yaml:"fetch_attempts,omitempty"`

	// FullInstallCostBytes and PatchCostBytes are the default edge costs
	// the planner uses when a known file doesn't carry an explicit size.
	FullInstallCostBytes int64 `yaml:"full_install_cost_bytes,omitempty"`
	PatchCostBytes       int64 `yaml:"patch_cost_bytes,omitempty"`

	// CachedCostDivisor discounts the cost of an edge whose artifact is
	// already present in the downloads directory, favoring plans that
	// reuse cached files.
	CachedCostDivisor int64 `yaml:"cached_cost_divisor,omitempty"`

	// BootstrapManifestName is the filename the preparer looks for in an
	// installed version's tree when building an upgrade base.
	BootstrapManifestName string `yaml:"bootstrap_manifest_name,omitempty"`

	// QualifierOrder lists recognized version qualifiers from lowest to
	// highest precedence (e.g. pre, alpha, beta, rc).
	QualifierOrder []string `yaml:"qualifier_order,omitempty"`

	Security *SecurityCfg `yaml:"security,omitempty"`

	// NoTimeout is a runtime flag that disables HTTP timeouts when set.
	// It is not persisted to YAML. No CLI flag sets it, and the HTTP
	// clients built by orchestrator.New do not read it.
	NoTimeout bool `yaml:"-"`

	// isRootConfig is true only for the root config file (not imported
	// configs). Security settings can only be enabled from the root config.
	isRootConfig bool `yaml:"-"`
}

// SecurityCfg holds security-related configuration options. These
// settings can ONLY be enabled from the root config file, not from
// configs pulled in via extends.
type SecurityCfg struct {
	// AllowPathTraversal permits ".." in extends paths. Default: false.
	AllowPathTraversal bool `yaml:"allow_path_traversal,omitempty"`

	// AllowAbsolutePaths permits absolute paths in extends. Default: false.
	AllowAbsolutePaths bool `yaml:"allow_absolute_paths,omitempty"`

	// MaxConfigFileSize overrides the default 10MB config file size limit.
	MaxConfigFileSize int64 `yaml:"max_config_file_size,omitempty"`
}

// IsRootConfig returns true if this is the root configuration (not an
// imported config).
func (c *Config) IsRootConfig() bool {
	return c.isRootConfig
}

// SetRootConfig marks this config as the root config.
func (c *Config) SetRootConfig(isRoot bool) {
	c.isRootConfig = isRoot
}

// GetMaxConfigFileSize returns the configured max file size or the default.
func (c *Config) GetMaxConfigFileSize() int64 {
	if c.Security != nil && c.Security.MaxConfigFileSize > 0 {
		return c.Security.MaxConfigFileSize
	}
	return DefaultMaxConfigFileSize
}

// AllowsPathTraversal returns true if path traversal is allowed in extends.
func (c *Config) AllowsPathTraversal() bool {
	return c.Security != nil && c.Security.AllowPathTraversal
}

// AllowsAbsolutePaths returns true if absolute paths are allowed in extends.
func (c *Config) AllowsAbsolutePaths() bool {
	return c.Security != nil && c.Security.AllowAbsolutePaths
}

// DefaultMaxConfigFileSize is the default maximum config file size (10MB).
const DefaultMaxConfigFileSize = 10 * 1024 * 1024

// QualifierOrderIndex returns the precedence index of a qualifier name
// within the configured order, or -1 if the name isn't recognized.
func (c *Config) QualifierOrderIndex(name string) int {
	for i, q := range c.QualifierOrder {
		if q == name {
			return i
		}
	}
	return -1
}
