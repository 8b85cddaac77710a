package config

import "fmt"

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// Validate rejects a configuration with a negative timeout or size
// value, a fetch attempt budget or cached-cost divisor below 1, an empty
// bootstrap manifest name, or empty or duplicate qualifier names - the
// things downstream packages assume are already sane by the time they
// see a *Config. Qualifier names are not checked against a known list.
func Validate(cfg *Config) error {
	if cfg.HTTPTimeoutSeconds < 0 {
		return ValidationError{Field: "http_timeout_seconds", Message: "must not be negative"}
	}
	if cfg.FetchAttempts < 1 {
		return ValidationError{Field: "fetch_attempts", Message: "must be at least 1"}
	}
	if cfg.FullInstallCostBytes < 0 {
		return ValidationError{Field: "full_install_cost_bytes", Message: "must not be negative"}
	}
	if cfg.PatchCostBytes < 0 {
		return ValidationError{Field: "patch_cost_bytes", Message: "must not be negative"}
	}
	if cfg.CachedCostDivisor < 1 {
		return ValidationError{Field: "cached_cost_divisor", Message: "must be at least 1"}
	}
	if cfg.BootstrapManifestName == "" {
		return ValidationError{Field: "bootstrap_manifest_name", Message: "must not be empty"}
	}
	seen := make(map[string]bool, len(cfg.QualifierOrder))
	for _, q := range cfg.QualifierOrder {
		if q == "" {
			return ValidationError{Field: "qualifier_order", Message: "entries must not be empty"}
		}
		if seen[q] {
			return ValidationError{Field: "qualifier_order", Message: fmt.Sprintf("duplicate qualifier %q", q)}
		}
		seen[q] = true
	}
	return nil
}
