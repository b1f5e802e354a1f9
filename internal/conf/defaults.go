// conf/defaults.go default values for settings
package conf

import "github.com/spf13/viper"

// setDefaultConfig sets default values for the configuration, used both to
// seed viper before a config file is read and to backfill fields an older
// config file on disk doesn't yet contain.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	// Logging configuration
	viper.SetDefault("logging.default_level", "info")
	viper.SetDefault("logging.timezone", "Local")
	viper.SetDefault("logging.console.enabled", true)
	viper.SetDefault("logging.console.level", "info")
	viper.SetDefault("logging.file_output.enabled", true)
	viper.SetDefault("logging.file_output.path", "logs/application.log")
	viper.SetDefault("logging.file_output.level", "info")
	viper.SetDefault("logging.file_output.max_size", 100)
	viper.SetDefault("logging.file_output.max_age", 30)
	viper.SetDefault("logging.file_output.max_backups", 10)
	viper.SetDefault("logging.file_output.compress", true)

	setModuleLogDefaults("weathercore", true)
	setModuleLogDefaults("datastore", true)
	setModuleLogDefaults("api", true)
	setModuleLogDefaults("mqtt", false)
	setModuleLogDefaults("backup", true)
	setModuleLogDefaults("config", true)
	setModuleLogDefaults("events", true)
	setModuleLogDefaults("suncalc", false)

	// Station configuration
	viper.SetDefault("station.nodeid", "station-01")
	viper.SetDefault("station.name", "Home Weather Station")
	viper.SetDefault("station.latitude", 0.0)
	viper.SetDefault("station.longitude", 0.0)
	viper.SetDefault("station.altitudem", 0.0)
	viper.SetDefault("station.pressureisseaLevel", false)
	viper.SetDefault("station.luminancemultiplier", 1.0)
	viper.SetDefault("station.zenithmaxradiationwm2", 1000.0)
	viper.SetDefault("station.solaravgwindowminutes", 15)
	viper.SetDefault("station.unitsout", "metric")

	// MQTT configuration
	viper.SetDefault("mqtt.enabled", false)
	viper.SetDefault("mqtt.debug", false)
	viper.SetDefault("mqtt.broker", "tcp://localhost:1883")
	viper.SetDefault("mqtt.topic", "wxcore")
	viper.SetDefault("mqtt.username", "")
	viper.SetDefault("mqtt.password", "")
	viper.SetDefault("mqtt.retain", true)
	viper.SetDefault("mqtt.discovery.enabled", true)
	viper.SetDefault("mqtt.discovery.prefix", "homeassistant")
	viper.SetDefault("mqtt.retrysettings.enabled", true)
	viper.SetDefault("mqtt.retrysettings.maxretries", 10)
	viper.SetDefault("mqtt.retrysettings.initialdelay", 30)
	viper.SetDefault("mqtt.retrysettings.maxdelay", 3600)
	viper.SetDefault("mqtt.retrysettings.backoffmultiplier", 2.0)

	// HTTP configuration
	viper.SetDefault("http.enabled", true)
	viper.SetDefault("http.port", "8090")

	// Output configuration
	viper.SetDefault("output.sqlite.enabled", true)
	viper.SetDefault("output.sqlite.path", "wxcore.db")
	viper.SetDefault("output.mysql.enabled", false)
	viper.SetDefault("output.mysql.username", "wxcore")
	viper.SetDefault("output.mysql.password", "secret")
	viper.SetDefault("output.mysql.database", "wxcore")
	viper.SetDefault("output.mysql.host", "localhost")
	viper.SetDefault("output.mysql.port", "3306")
	viper.SetDefault("output.retentiondays", 365)

	// Backup configuration
	viper.SetDefault("backup.enabled", false)
	viper.SetDefault("backup.schedule", "0 3 * * *")
	viper.SetDefault("backup.targets", []string{})
}

// setModuleLogDefaults sets default values for a module log configuration
func setModuleLogDefaults(module string, enabled bool) {
	prefix := "logging.modules." + module
	viper.SetDefault(prefix+".enabled", enabled)
	viper.SetDefault(prefix+".file_path", "logs/"+module+".log")
	viper.SetDefault(prefix+".level", "debug")
	viper.SetDefault(prefix+".console_also", false)
}
