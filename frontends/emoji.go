package frontends

import (
	"bytes"
	"fmt"
	"io"

	"github.com/mattn/go-runewidth"

	"github.com/check-weather/check_weather/iface"
)

type emojiConfig struct{}

var emojiCodes = map[iface.WeatherCode]string{
	iface.CodeUnknown:           "✨",
	iface.CodeCloudy:            "☁️",
	iface.CodeFog:               "🌫",
	iface.CodeHeavyRain:         "🌧",
	iface.CodeHeavyShowers:      "🌧",
	iface.CodeHeavySnow:         "❄️",
	iface.CodeHeavySnowShowers:  "❄️",
	iface.CodeLightRain:         "🌦",
	iface.CodeLightShowers:      "🌦",
	iface.CodeLightSleet:        "🌧",
	iface.CodeLightSleetShowers: "🌧",
	iface.CodeLightSnow:         "🌨",
	iface.CodeLightSnowShowers:  "🌨",
	iface.CodePartlyCloudy:      "⛅️",
	iface.CodeSunny:             "☀️",
	iface.CodeThunderyHeavyRain: "🌩",
	iface.CodeThunderyShowers:   "⛈",
	iface.CodeVeryCloudy:        "☁️",
}

// tempColor picks a 256 color palette entry from cold blue to hot red.
func tempColor(temp float64, unit iface.UnitSystem) int {
	if unit == iface.UnitsImperial {
		temp = (temp - 32) * 5 / 9
	}
	colmap := []struct {
		maxtemp float64
		color   int
	}{
		{-15, 21}, {-12, 27}, {-9, 33}, {-6, 39}, {-3, 45},
		{0, 51}, {2, 50}, {4, 49}, {6, 48}, {8, 47},
		{10, 46}, {13, 82}, {16, 118}, {19, 154}, {22, 190},
		{25, 226}, {28, 220}, {31, 214}, {34, 208}, {37, 202},
	}
	for _, candidate := range colmap {
		if temp < candidate.maxtemp {
			return candidate.color
		}
	}
	return 196
}

func (c *emojiConfig) formatDay(buf *bytes.Buffer, d iface.Result, unit iface.UnitSystem, verbose bool) {
	icon, ok := emojiCodes[d.Code]
	if !ok {
		icon = emojiCodes[iface.CodeUnknown]
	}
	// some terminals render these one column wide
	if runewidth.StringWidth(icon) == 1 {
		icon += " "
	}

	temp := pad(fmt.Sprintf("%.0f%s", d.AverageTemp, unit.Temp()), 6)
	fmt.Fprintf(buf, "%s %s \033[38;5;%03dm%s\033[0m %s\n", icon, pad(d.Day, 10), tempColor(d.AverageTemp, unit), temp, d.Description)
	if verbose {
		fmt.Fprintf(buf, "   %s 💧 %d%%  🌬 %.2f %s  👁 %.0f m\n", pad("", 10), d.Humidity, d.WindSpeed, unit.Speed(), d.Visibility)
	}
}

func (c *emojiConfig) Setup() {
}

// Render prints a compact line per day led by a condition icon.
func (c *emojiConfig) Render(w io.Writer, days []iface.Result, unit iface.UnitSystem, verbose bool) error {
	if len(days) == 0 {
		return nil
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Weather for %s\n\n", days[0].City)
	for _, d := range days {
		c.formatDay(&buf, d, unit, verbose)
	}
	_, err := NewWriter(w).Write(buf.Bytes())
	return err
}

func init() {
	iface.AllFrontends["emoji"] = &emojiConfig{}
}
