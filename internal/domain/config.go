package domain

// Config mirrors ~/.cmdgate/config.yaml.
type Config struct {
	ConfigFormatVersion string            `yaml:"config_format_version"`
	Execution           ExecutionSettings `yaml:"execution"`
	Security            SecuritySettings  `yaml:"security"`
}

// ExecutionSettings controls how commands run.
type ExecutionSettings struct {
	// Backend selects the command runner: "simulated" or "shell".
	Backend   string `yaml:"backend"`
	Shell     string `yaml:"shell"`
	TimeoutMS int    `yaml:"timeout_ms"`
}

// SecuritySettings defines sanitization and classification policy.
// Enabled is a pointer so an absent security section hydrates to on
// instead of silently disabling validation.
type SecuritySettings struct {
	Enabled    *bool  `yaml:"enabled"`
	PolicyFile string `yaml:"policy_file"`
}

// IsEnabled reports whether the protection layer is on; unset means on.
func (s SecuritySettings) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}
