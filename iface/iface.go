package iface

import (
	"context"
	"io"
	"time"
)

// WeatherCode is the general condition of a day, independent of the
// provider's own condition ids.
type WeatherCode int

const (
	CodeUnknown WeatherCode = iota
	CodeCloudy
	CodeFog
	CodeHeavyRain
	CodeHeavyShowers
	CodeHeavySnow
	CodeHeavySnowShowers
	CodeLightRain
	CodeLightShowers
	CodeLightSleet
	CodeLightSleetShowers
	CodeLightSnow
	CodeLightSnowShowers
	CodePartlyCloudy
	CodeSunny
	CodeThunderyHeavyRain
	CodeThunderyShowers
	CodeVeryCloudy
)

type UnitSystem int

const (
	UnitsMetric UnitSystem = iota
	UnitsImperial
)

// Param is the value of the provider's units query parameter.
func (u UnitSystem) Param() string {
	if u == UnitsImperial {
		return "imperial"
	}
	return "metric"
}

// Temp returns the label for temperatures requested in this unit system.
func (u UnitSystem) Temp() string {
	if u == UnitsImperial {
		return "°F"
	}
	return "°C"
}

// Speed returns the label for wind speeds requested in this unit system.
func (u UnitSystem) Speed() string {
	if u == UnitsImperial {
		return "Mph"
	}
	return "M/s"
}

// ParseUnits maps a flag value to a UnitSystem. The boolean is false for
// unknown names.
func ParseUnits(s string) (UnitSystem, bool) {
	switch s {
	case "metric", "":
		return UnitsMetric, true
	case "imperial":
		return UnitsImperial, true
	}
	return UnitsMetric, false
}

// Request is everything a backend needs for one forecast query.
type Request struct {
	// City is the location query, optionally qualified with a country code
	// like "Melbourne,AU".
	City string

	Units  UnitSystem
	APIKey string
}

// Result is the display-ready summary of one day.
type Result struct {
	City string `json:"city"`

	// Day is the label shown to the user, either "Today" or a date.
	Day  string    `json:"day"`
	Date time.Time `json:"date"`

	// AverageTemp is in the unit system of the request.
	AverageTemp float64 `json:"average_temperature"`

	Description string `json:"description"`

	// Code is the condition matching Description.
	Code WeatherCode `json:"code"`

	// Humidity is a percentage in the range [0, 100].
	Humidity int `json:"humidity"`

	// WindSpeed is in m/s for metric and mph for imperial requests.
	WindSpeed float64 `json:"wind_speed"`

	// Visibility is in meters regardless of the unit system.
	Visibility float64 `json:"visibility"`
}

type Backend interface {
	Setup()
	CheckAPIKey(ctx context.Context, key string) error
	Current(ctx context.Context, req Request) (Result, error)
	Daily(ctx context.Context, req Request) ([]Result, error)
}

type Frontend interface {
	Setup()
	Render(w io.Writer, days []Result, unit UnitSystem, verbose bool) error
}

var (
	AllBackends  = make(map[string]Backend)
	AllFrontends = make(map[string]Frontend)
)
