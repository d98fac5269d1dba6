package frontends

import (
	"bytes"
	"flag"
	"fmt"
	"io"

	"github.com/mattn/go-colorable"

	"github.com/check-weather/check_weather/iface"
)

type textConfig struct {
	noColor bool
}

const (
	// cellWidth is the column count of the day and city cells in the header.
	cellWidth = 18

	ansiHeader = "\033[45m"
	ansiTemp   = "\033[4;35m"
	ansiReset  = "\033[0m"
)

func (c *textConfig) formatDay(buf *bytes.Buffer, d iface.Result, unit iface.UnitSystem, verbose bool) {
	fmt.Fprintf(buf, "%s%s/%s%s\n", ansiHeader, center(d.Day, cellWidth), center(d.City, cellWidth), ansiReset)
	fmt.Fprintf(buf, "Average temperature - %s(%.2f%s)%s\n", ansiTemp, d.AverageTemp, unit.Temp(), ansiReset)
	if !verbose {
		return
	}
	fmt.Fprintf(buf, "Weather description: %s\n", d.Description)
	fmt.Fprintf(buf, "Humidity - %d%%\n", d.Humidity)
	fmt.Fprintf(buf, "Wind speed - %.2f %s\n", d.WindSpeed, unit.Speed())
	fmt.Fprintf(buf, "Visibility - %.0f m\n", d.Visibility)
}

func (c *textConfig) Setup() {
	flag.BoolVar(&c.noColor, "text-no-color", false, "text frontend: never print colors")
}

// Render prints one block per day, separated by blank lines.
func (c *textConfig) Render(w io.Writer, days []iface.Result, unit iface.UnitSystem, verbose bool) error {
	var buf bytes.Buffer
	for i, d := range days {
		if i > 0 {
			buf.WriteByte('\n')
		}
		c.formatDay(&buf, d, unit, verbose)
	}

	out := NewWriter(w)
	if c.noColor {
		out = colorable.NewNonColorable(w)
	}
	_, err := out.Write(buf.Bytes())
	return err
}

func init() {
	iface.AllFrontends["text"] = &textConfig{}
}
