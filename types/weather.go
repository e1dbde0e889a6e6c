package types

// CurrentWeather is the instantaneous weather at a resolved location.
type CurrentWeather struct {
	// Temperature is the air temperature at 2m in degrees Celsius.
	Temperature float64 `json:"temperature"`

	// Humidity is the relative humidity in percent. Zero when the upstream
	// omits it.
	Humidity float64 `json:"humidity"`

	// Rainfall is the precipitation in millimetres. Zero when the upstream
	// omits it.
	Rainfall float64 `json:"rainfall"`

	// Description is the raw WMO weather code reported upstream.
	Description int `json:"description"`

	// Summary is the human-readable text for Description.
	Summary string `json:"summary"`
}

// ForecastDay is one row of a daily forecast.
type ForecastDay struct {
	Day         string  `json:"day"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Rainfall    float64 `json:"rainfall"`
}
