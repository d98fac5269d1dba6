package backends

import (
	"context"
	"flag"
	"os"
	"path/filepath"

	"github.com/check-weather/check_weather/iface"
)

type jsnConfig struct {
	dir string
}

func (c *jsnConfig) Setup() {
	flag.StringVar(&c.dir, "json-dir", ".", "json backend: `DIRECTORY` holding recorded weather.json and forecast.json payloads")
}

// CheckAPIKey accepts every key, recorded payloads need no authentication.
func (c *jsnConfig) CheckAPIKey(ctx context.Context, key string) error {
	return nil
}

func (c *jsnConfig) read(name string) ([]byte, error) {
	b, err := os.ReadFile(filepath.Join(c.dir, name))
	if os.IsNotExist(err) {
		return nil, iface.Wrap(iface.NotFoundError, err, "no recorded payload")
	}
	if err != nil {
		return nil, iface.Wrap(iface.UnknownError, err, "reading recorded payload")
	}
	return b, nil
}

// Current ignores the request and replays weather.json. The city name comes
// from the recording.
func (c *jsnConfig) Current(ctx context.Context, r iface.Request) (iface.Result, error) {
	b, err := c.read("weather.json")
	if err != nil {
		return iface.Result{}, err
	}
	return ParseCurrent(b)
}

// Daily replays forecast.json.
func (c *jsnConfig) Daily(ctx context.Context, r iface.Request) ([]iface.Result, error) {
	b, err := c.read("forecast.json")
	if err != nil {
		return nil, err
	}
	return ParseDaily(b)
}

func init() {
	iface.AllBackends["json"] = &jsnConfig{dir: "."}
}
