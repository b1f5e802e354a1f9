// conf/consts.go hard coded constants
package conf

const (
	// DefaultTrendsWindowSize is the number of historical samples the
	// trends store retains for pressure/temperature/wind regression.
	DefaultTrendsWindowSize = 180

	// DefaultForecastHorizonDays bounds the daily forecast ladder.
	DefaultForecastHorizonDays = 5

	// DefaultForecastHorizonHours bounds the hourly forecast ladder.
	DefaultForecastHorizonHours = 24
)
