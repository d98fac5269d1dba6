package frontends

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-colorable"

	"github.com/check-weather/check_weather/iface"
)

type mdConfig struct {
	descWidth int
}

func (c *mdConfig) row(cells []string, widths []int) string {
	for i := range cells {
		cells[i] = pad(cells[i], widths[i])
	}
	return "| " + strings.Join(cells, " | ") + " |"
}

func (c *mdConfig) Setup() {
	flag.IntVar(&c.descWidth, "md-desc-width", 25, "md-frontend: `COLUMNS` reserved for the weather description")
}

// Render writes one table with a row per day. Verbose adds the description,
// humidity, wind and visibility columns.
func (c *mdConfig) Render(w io.Writer, days []iface.Result, unit iface.UnitSystem, verbose bool) error {
	if len(days) == 0 {
		return nil
	}
	head := []string{"Day", "City", "Temperature"}
	widths := []int{10, 18, 11}
	if verbose {
		descWidth := c.descWidth
		if descWidth < len("Description") {
			descWidth = len("Description")
		}
		head = append(head, "Description", "Humidity", "Wind", "Visibility")
		widths = append(widths, descWidth, 8, 10, 10)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "## Weather for %s\n\n", days[0].City)
	fmt.Fprintln(&buf, c.row(head, widths))
	sep := make([]string, len(widths))
	for i, n := range widths {
		sep[i] = strings.Repeat("-", n)
	}
	fmt.Fprintln(&buf, "| "+strings.Join(sep, " | ")+" |")

	for _, d := range days {
		cells := []string{d.Day, d.City, fmt.Sprintf("%.1f %s", d.AverageTemp, unit.Temp())}
		if verbose {
			cells = append(cells,
				d.Description,
				fmt.Sprintf("%d%%", d.Humidity),
				fmt.Sprintf("%.1f %s", d.WindSpeed, unit.Speed()),
				fmt.Sprintf("%.0f m", d.Visibility))
		}
		fmt.Fprintln(&buf, c.row(cells, widths))
	}

	_, err := colorable.NewNonColorable(w).Write(buf.Bytes())
	return err
}

func init() {
	iface.AllFrontends["markdown"] = &mdConfig{descWidth: 25}
}
