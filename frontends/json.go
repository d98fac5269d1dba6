package frontends

import (
	"encoding/json"
	"flag"
	"io"

	"github.com/check-weather/check_weather/iface"
)

type jsnConfig struct {
	noIndent bool
}

func (c *jsnConfig) Setup() {
	flag.BoolVar(&c.noIndent, "jsn-no-indent", false, "json frontend: do not indent the output")
}

// Render ignores verbose, every field is always printed.
func (c *jsnConfig) Render(w io.Writer, days []iface.Result, unit iface.UnitSystem, verbose bool) error {
	out := struct {
		Units string         `json:"units"`
		Days  []iface.Result `json:"days"`
	}{unit.Param(), days}

	var b []byte
	var err error
	if c.noIndent {
		b, err = json.Marshal(out)
	} else {
		b, err = json.MarshalIndent(out, "", "\t")
	}
	if err != nil {
		return err
	}
	_, err = w.Write(append(b, '\n'))
	return err
}

func init() {
	iface.AllFrontends["json"] = &jsnConfig{}
}
