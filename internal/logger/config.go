// config.go
package logger

// moduleKey is the slog attribute key under which the module path is logged.
const moduleKey = "module"

// traceIDKey is the field key used when a trace ID is pulled from context.
const traceIDKey = "trace_id"

// bytesPerMB converts the MB-denominated config fields to bytes for RotationConfig.
const bytesPerMB = 1024 * 1024

// LoggingConfig is the YAML-driven root configuration for NewCentralLogger.
type LoggingConfig struct {
	DefaultLevel string            `yaml:"default_level" mapstructure:"default_level"`
	Timezone     string            `yaml:"timezone" mapstructure:"timezone"`
	ModuleLevels map[string]string `yaml:"module_levels" mapstructure:"module_levels"`

	Console    *ConsoleOutput          `yaml:"console" mapstructure:"console"`
	FileOutput *FileOutput             `yaml:"file_output" mapstructure:"file_output"`
	ModuleOutputs map[string]ModuleOutput `yaml:"modules" mapstructure:"modules"`
}

// ConsoleOutput configures the human-readable console handler.
type ConsoleOutput struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Level   string `yaml:"level" mapstructure:"level"`
}

// FileOutput configures the main JSON log file and its default rotation policy.
type FileOutput struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
	Level   string `yaml:"level" mapstructure:"level"`

	// MaxSize is in megabytes; 0 disables size-based rotation.
	MaxSize int `yaml:"max_size_mb" mapstructure:"max_size_mb"`
	// MaxAge is in days; 0 disables age-based cleanup.
	MaxAge int `yaml:"max_age_days" mapstructure:"max_age_days"`
	// MaxRotatedFiles caps how many rotated files are retained; 0 means no count limit.
	MaxRotatedFiles int  `yaml:"max_rotated_files" mapstructure:"max_rotated_files"`
	Compress        bool `yaml:"compress" mapstructure:"compress"`
}

// ModuleOutput configures a dedicated log file for a single module. Rotation
// fields left at zero fall back to the LoggingConfig.FileOutput defaults.
type ModuleOutput struct {
	Enabled     bool   `yaml:"enabled" mapstructure:"enabled"`
	FilePath    string `yaml:"file_path" mapstructure:"file_path"`
	Level       string `yaml:"level" mapstructure:"level"`
	ConsoleAlso bool   `yaml:"console_also" mapstructure:"console_also"`

	MaxSize         int  `yaml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxAge          int  `yaml:"max_age_days" mapstructure:"max_age_days"`
	MaxRotatedFiles int  `yaml:"max_rotated_files" mapstructure:"max_rotated_files"`
	Compress        bool `yaml:"compress" mapstructure:"compress"`
}

// applyConfigDefaults fills in nil Console/FileOutput so callers that only set
// DefaultLevel still get sensible, non-silent logging behavior.
func applyConfigDefaults(cfg *LoggingConfig) {
	if cfg.DefaultLevel == "" {
		cfg.DefaultLevel = "info"
	}
	if cfg.Console == nil {
		cfg.Console = &ConsoleOutput{Enabled: true, Level: cfg.DefaultLevel}
	}
}

// RotationConfig describes a resolved, byte-denominated rotation policy.
type RotationConfig struct {
	MaxSize         int64 // bytes
	MaxAge          int   // days
	MaxRotatedFiles int
	Compress        bool
}

// IsEnabled reports whether size-based rotation should run at all.
func (c RotationConfig) IsEnabled() bool {
	return c.MaxSize > 0
}

// RotationConfigFromFileOutput converts a FileOutput's MB-denominated policy
// into a RotationConfig. A nil input disables rotation.
func RotationConfigFromFileOutput(fo *FileOutput) RotationConfig {
	if fo == nil {
		return RotationConfig{}
	}
	return RotationConfig{
		MaxSize:         int64(fo.MaxSize) * bytesPerMB,
		MaxAge:          fo.MaxAge,
		MaxRotatedFiles: fo.MaxRotatedFiles,
		Compress:        fo.Compress,
	}
}

// RotationConfigFromModuleOutput resolves a module's rotation policy,
// falling back field-by-field to the shared FileOutput defaults when the
// module leaves a numeric field at zero. Compress is never defaulted since
// false is itself a meaningful, explicit choice.
func RotationConfigFromModuleOutput(mo *ModuleOutput, fallback *FileOutput) RotationConfig {
	base := RotationConfigFromFileOutput(fallback)
	if mo == nil {
		return base
	}

	cfg := base
	if mo.MaxSize > 0 {
		cfg.MaxSize = int64(mo.MaxSize) * bytesPerMB
	}
	if mo.MaxAge > 0 {
		cfg.MaxAge = mo.MaxAge
	}
	if mo.MaxRotatedFiles > 0 {
		cfg.MaxRotatedFiles = mo.MaxRotatedFiles
	}
	cfg.Compress = mo.Compress

	return cfg
}
