package backends

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"github.com/check-weather/check_weather/iface"
)

// OpenWeatherMap talks to the OpenWeatherMap 2.5 API. Each call is a single
// attempt; failures are returned as *iface.Error and never retried.
type OpenWeatherMap struct {
	baseURL string
	lang    string
	debug   bool
	rps     float64
	client  *http.Client
	limiter *rate.Limiter
}

const (
	openweathermapURI = "https://api.openweathermap.org/data/2.5"

	// checkCity is queried to validate a key; any known city would do.
	checkCity = "London"
)

// NewOpenWeatherMap returns a backend sending requests to baseURL. A nil
// client gets a 10 second timeout.
func NewOpenWeatherMap(baseURL string, client *http.Client) *OpenWeatherMap {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &OpenWeatherMap{baseURL: baseURL, lang: "en", client: client}
}

func (c *OpenWeatherMap) Setup() {
	flag.StringVar(&c.lang, "owm-lang", "en", "openweathermap backend: the `LANGUAGE` to request from openweathermap")
	flag.BoolVar(&c.debug, "owm-debug", false, "openweathermap backend: print raw requests and responses")
	flag.Float64Var(&c.rps, "owm-rps", 1, "openweathermap backend: at most `N` requests per second, 0 disables pacing")
}

func (c *OpenWeatherMap) wait(ctx context.Context) error {
	if c.limiter == nil {
		limit := rate.Inf
		if c.rps > 0 {
			limit = rate.Limit(c.rps)
		}
		c.limiter = rate.NewLimiter(limit, 1)
	}
	return c.limiter.Wait(ctx)
}

// providerError is the body OpenWeatherMap sends along with error statuses.
type providerError struct {
	Message string `json:"message"`
}

func (c *OpenWeatherMap) get(ctx context.Context, endpoint string, params url.Values, cityLookup bool) ([]byte, error) {
	if err := c.wait(ctx); err != nil {
		return nil, iface.Wrap(iface.ConnectionError, err, "waiting to send request")
	}

	uri := c.baseURL + endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, iface.Wrap(iface.UnknownError, err, "building request for "+endpoint)
	}

	if c.debug {
		masked := url.Values{}
		for k, v := range params {
			if k != "appid" {
				masked[k] = v
			}
		}
		log.Printf("Fetching %s%s?%s&appid=***", c.baseURL, endpoint, masked.Encode())
	}

	res, err := c.client.Do(req)
	if err != nil {
		// *url.Error repeats the full URL including the key
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return nil, iface.Wrap(iface.ConnectionError, err, "GET "+endpoint)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, iface.Wrap(iface.ConnectionError, err, "reading response of "+endpoint)
	}

	if c.debug {
		log.Printf("Response (%s): %s\n%s", endpoint, res.Status, body)
	}

	if res.StatusCode != http.StatusOK {
		var perr providerError
		_ = json.Unmarshal(body, &perr)
		return nil, iface.Errorf(statusKind(res.StatusCode, cityLookup), "%s returned %s %s", endpoint, res.Status, perr.Message)
	}
	return body, nil
}

func (c *OpenWeatherMap) query(r iface.Request) url.Values {
	params := url.Values{}
	params.Set("q", r.City)
	params.Set("units", r.Units.Param())
	params.Set("appid", r.APIKey)
	if c.lang != "" {
		params.Set("lang", c.lang)
	}
	return params
}

// CheckAPIKey makes the cheapest authenticated request the provider offers.
func (c *OpenWeatherMap) CheckAPIKey(ctx context.Context, key string) error {
	params := url.Values{}
	params.Set("q", checkCity)
	params.Set("appid", key)
	_, err := c.get(ctx, "/weather", params, false)
	return err
}

// FetchCurrent returns the raw current conditions payload for r.City.
func (c *OpenWeatherMap) FetchCurrent(ctx context.Context, r iface.Request) ([]byte, error) {
	return c.get(ctx, "/weather", c.query(r), true)
}

// FetchDaily returns the raw 5 day / 3 hour forecast payload for r.City.
func (c *OpenWeatherMap) FetchDaily(ctx context.Context, r iface.Request) ([]byte, error) {
	return c.get(ctx, "/forecast", c.query(r), true)
}

func (c *OpenWeatherMap) Current(ctx context.Context, r iface.Request) (iface.Result, error) {
	body, err := c.FetchCurrent(ctx, r)
	if err != nil {
		return iface.Result{}, err
	}
	res, err := ParseCurrent(body)
	if err == nil && c.debug {
		log.Print(spew.Sdump(res))
	}
	return res, err
}

func (c *OpenWeatherMap) Daily(ctx context.Context, r iface.Request) ([]iface.Result, error) {
	body, err := c.FetchDaily(ctx, r)
	if err != nil {
		return nil, err
	}
	days, err := ParseDaily(body)
	if err == nil && c.debug {
		log.Print(spew.Sdump(days))
	}
	return days, err
}

func init() {
	iface.AllBackends["openweathermap"] = NewOpenWeatherMap(openweathermapURI, nil)
}
