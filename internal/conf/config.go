// conf/config.go
package conf

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yaml
var configFiles embed.FS

// Settings is the complete configuration tree for a station. It is loaded
// once at startup from config.yaml (or environment overrides) and then
// treated as read-only by the pipeline; only the API/CLI mutate it, under
// settingsMutex, via UpdateSettings.
type Settings struct {
	Debug bool // true to enable debug mode

	Station StationConfig
	MQTT    MQTTConfig
	HTTP    HTTPConfig
	Output  OutputConfig
	Backup  BackupConfig
}

// StationConfig describes the physical station and the constants its
// weather core needs to interpret raw sensor readings.
type StationConfig struct {
	NodeID    string  // identifier advertised over MQTT and in API responses
	Name      string  // human-friendly station name
	Latitude  float64 // station latitude, degrees
	Longitude float64 // station longitude, degrees
	AltitudeM float64 // station altitude above sea level, meters

	// PressureIsSeaLevel, when true, indicates the barometer reports
	// already-reduced sea-level pressure and AltitudeCorrector should
	// pass it through unchanged.
	PressureIsSeaLevel bool

	// LuminanceMultiplier scales a lux sensor reading into the
	// dimensionless cloud-index input expected by the cloud analyzer.
	LuminanceMultiplier float64

	// ZenithMaxRadiationWm2 is the clear-sky reference irradiance used
	// by the cloud analyzer's absolute regime, in W/m^2.
	ZenithMaxRadiationWm2 float64

	// SolarAvgWindowMinutes sizes the moving average the cloud analyzer
	// uses to smooth noisy solar radiation samples.
	SolarAvgWindowMinutes int

	UnitsOut string // "metric" or "imperial"; passed to weathercore.Config.UnitsOut, API/MQTT output stays Imperial

	Log LogConfig
}

// MQTTConfig controls publishing inferences to a broker. The Discovery
// settings are loaded, but nothing in this module publishes Home Assistant
// discovery configs.
type MQTTConfig struct {
	Enabled  bool   // true to enable MQTT publishing
	Debug    bool   // true to enable debug mode
	Broker   string // MQTT broker URI, tcp://host:port
	Topic    string // base topic prefix for publishes and discovery
	Username string
	Password string
	Retain   bool // true to publish state topics with the retain flag

	Discovery struct {
		Enabled bool   // true to publish Home Assistant discovery configs
		Prefix  string // Home Assistant discovery prefix, usually "homeassistant"
	}

	RetrySettings struct {
		Enabled           bool
		MaxRetries        int
		InitialDelay      int
		MaxDelay          int
		BackoffMultiplier float64
	}
}

// HTTPConfig controls the observe/forecast REST API.
type HTTPConfig struct {
	Enabled bool   // true to enable the HTTP API
	Port    string // port for the HTTP API

	AutoTLS         bool     // true to obtain certificates automatically via Let's Encrypt
	TLSCertFile     string   // path to a manually-provisioned TLS certificate
	TLSKeyFile      string   // path to the certificate's private key
	RedirectToHTTPS bool     // true to redirect plain HTTP requests to HTTPS
	AllowedOrigins  []string // CORS origins permitted to call the API

	Log LogConfig
}

// OutputConfig selects where inference/forecast history is persisted.
type OutputConfig struct {
	SQLite struct {
		Enabled bool   // true to enable sqlite output
		Path    string // path to sqlite database
	}

	MySQL struct {
		Enabled  bool   // true to enable mysql output
		Username string // username for mysql database
		Password string // password for mysql database
		Database string // database name for mysql database
		Host     string // host for mysql database
		Port     string // port for mysql database
	}

	RetentionDays int // days of history/forecast rows to keep before pruning
}

// BackupConfig schedules and targets for datastore backups.
type BackupConfig struct {
	Enabled       bool
	Debug         bool
	Encryption    bool
	EncryptionKey string // path to the encryption key file; generated on first use if empty

	Schedules []BackupScheduleConfig
	Targets   []BackupTargetConfig

	Retention         BackupRetentionConfig
	OperationTimeouts BackupTimeoutsConfig
}

// BackupScheduleConfig describes one recurring backup run, either daily
// (Weekday empty) or weekly (IsWeekly true, Weekday set).
type BackupScheduleConfig struct {
	Enabled  bool
	Hour     int
	Minute   int
	Weekday  string // "", "monday", "tuesday", ... ; empty means daily
	IsWeekly bool
}

// BackupTargetConfig configures one backup destination. Settings holds the
// target-specific options (e.g. "path" for local, host/user/key for sftp);
// its shape depends on Type.
type BackupTargetConfig struct {
	Enabled  bool
	Type     string // "local", "ftp", "sftp", "rsync", "gdrive"
	Settings map[string]any
}

// BackupRetentionConfig bounds how many backups are kept.
type BackupRetentionConfig struct {
	MaxAge     string // duration string, e.g. "720h"
	MinBackups int
	MaxBackups int
}

// BackupTimeoutsConfig overrides the default per-operation timeouts.
type BackupTimeoutsConfig struct {
	Backup  time.Duration
	Store   time.Duration
	Cleanup time.Duration
	Delete  time.Duration
}

// LogConfig defines the configuration for a log file
type LogConfig struct {
	Enabled     bool         // true to enable this log
	Path        string       // Path to the log file
	Rotation    RotationType // Type of log rotation
	MaxSize     int64        // Max size in bytes for RotationSize
}

// RotationType defines different types of log rotations.
type RotationType string

const (
	RotationDaily RotationType = "daily"
	RotationSize  RotationType = "size"
)

var (
	settingsInstance *Settings
	once             sync.Once
	settingsMutex    sync.RWMutex
)

// Load reads the configuration file and environment variables into Settings.
func Load() (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	settings := &Settings{}

	if err := initViper(); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	settingsInstance = settings
	return settings, nil
}

// initViper initializes viper with default values and reads the configuration file.
func initViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}
	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	setDefaultConfig()

	if err := configureEnvironmentVariables(); err != nil {
		return fmt.Errorf("error configuring environment variables: %w", err)
	}

	err = viper.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return createDefaultConfig()
		}
		return fmt.Errorf("fatal error reading config file: %w", err)
	}

	return nil
}

// createDefaultConfig creates a default config file and writes it to the default config path
func createDefaultConfig() error {
	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}
	configPath := filepath.Join(configPaths[0], "config.yaml")
	defaultConfig := getDefaultConfig()

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("error creating directories for config file: %w", err)
	}
	if err := os.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return fmt.Errorf("error writing default config file: %w", err)
	}

	return viper.ReadInConfig()
}

// getDefaultConfig reads the default configuration from the embedded config.yaml file.
func getDefaultConfig() string {
	data, err := fs.ReadFile(configFiles, "config.yaml")
	if err != nil {
		panic(fmt.Sprintf("error reading embedded default config: %v", err))
	}
	return string(data)
}

// GetSettings returns the current settings instance
func GetSettings() *Settings {
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()
	return settingsInstance
}

// UpdateSettings validates and installs a new settings instance, persisting it to disk.
func UpdateSettings(newSettings *Settings) error {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	if err := ValidateSettings(newSettings); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	settingsInstance = newSettings
	return viper.WriteConfig()
}

// Setting returns the current settings instance, loading it on first use.
func Setting() *Settings {
	once.Do(func() {
		if settingsInstance == nil {
			if _, err := Load(); err != nil {
				panic(fmt.Sprintf("error loading settings: %v", err))
			}
		}
	})
	return GetSettings()
}
