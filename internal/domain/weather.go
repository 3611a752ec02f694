package domain

import "strings"

// WeatherCategory is the bucket a free-text weather description falls into.
type WeatherCategory string

const (
	WeatherClear   WeatherCategory = "Clear"
	WeatherCloudy  WeatherCategory = "Cloudy"
	WeatherRain    WeatherCategory = "Rain"
	WeatherIndoors WeatherCategory = "Indoors"
	WeatherHot     WeatherCategory = "Hot"
	WeatherCold    WeatherCategory = "Cold"
	WeatherUnknown WeatherCategory = "Unknown"
)

// WeatherCategories lists every category in rule order, Unknown last.
var WeatherCategories = []WeatherCategory{
	WeatherClear, WeatherCloudy, WeatherRain, WeatherIndoors, WeatherHot, WeatherCold, WeatherUnknown,
}

type weatherRule struct {
	category WeatherCategory
	keywords []string // lower-case
}

// weatherRules are evaluated in order; "Partly Cloudy and Humid" is Cloudy, not Hot.
var weatherRules = []weatherRule{
	{WeatherClear, []string{"sunny", "clear", "fair", "beautiful", "nice"}},
	{WeatherCloudy, []string{"cloudy", "cldy", "clouds", "foggy", "overcast", "haze"}},
	{WeatherRain, []string{"rain", "showers", "storms", "scattered"}},
	{WeatherIndoors, []string{"roof closed", "indoors", "indoor", "dome"}},
	{WeatherHot, []string{"humidity", "humid", "hot", "warm", "muggy"}},
	{WeatherCold, []string{"cool"}},
}

// CategorizeWeather buckets a weather description. Matching is a
// case-insensitive substring test; the first rule with any matching keyword wins.
func CategorizeWeather(text string) WeatherCategory {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return WeatherUnknown
	}
	for _, rule := range weatherRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.category
			}
		}
	}
	return WeatherUnknown
}

// Valid reports whether c is one of the seven categories.
func (c WeatherCategory) Valid() bool {
	for _, known := range WeatherCategories {
		if c == known {
			return true
		}
	}
	return false
}
