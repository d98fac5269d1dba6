package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/check-weather/check_weather/backends"
	"github.com/check-weather/check_weather/config"
	"github.com/check-weather/check_weather/iface"
)

// fakeOWM answers like OpenWeatherMap: only the key "valid" is accepted
// and only London is known.
func fakeOWM(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("appid") != "valid" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"cod":401,"message":"Invalid API key."}`))
			return
		}
		if !strings.HasPrefix(q.Get("q"), "London") {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"cod":"404","message":"city not found"}`))
			return
		}
		switch r.URL.Path {
		case "/weather":
			http.ServeFile(w, r, "backends/testdata/weather.json")
		case "/forecast":
			http.ServeFile(w, r, "backends/testdata/forecast.json")
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

type testApp struct {
	*app
	stdout, stderr *bytes.Buffer
	configPath     string
}

func newTestApp(t *testing.T, be iface.Backend, stdin string) *testApp {
	t.Helper()
	path := filepath.Join(t.TempDir(), "check_weather", "config.yaml")
	ta := &testApp{stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}, configPath: path}
	ta.app = &app{
		store:    config.NewStore(path),
		backend:  be,
		frontend: iface.AllFrontends["text"],
		stdin:    strings.NewReader(stdin),
		stdout:   ta.stdout,
		stderr:   ta.stderr,
	}
	return ta
}

func (ta *testApp) saveKey(t *testing.T, key string) {
	t.Helper()
	if err := ta.store.Save(key); err != nil {
		t.Fatal(err)
	}
}

func TestInitValidKey(t *testing.T) {
	srv := fakeOWM(t)
	ta := newTestApp(t, backends.NewOpenWeatherMap(srv.URL, srv.Client()), "valid\n")

	if code := ta.run(context.Background(), []string{"init"}); code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, ta.stderr)
	}
	if !strings.Contains(ta.stdout.String(), "Congratulations") {
		t.Fatalf("stdout: %s", ta.stdout)
	}
	key, err := ta.store.Load()
	if err != nil || key != "valid" {
		t.Fatalf("stored key = %q, %v", key, err)
	}
}

func TestInitInvalidKey(t *testing.T) {
	srv := fakeOWM(t)
	ta := newTestApp(t, backends.NewOpenWeatherMap(srv.URL, srv.Client()), "nope\n")

	if code := ta.run(context.Background(), []string{"init"}); code != 1 {
		t.Fatalf("exit code %d, want 1", code)
	}
	if got := ta.stderr.String(); got != "FAILED with \"api key error\"\n" {
		t.Fatalf("stderr = %q", got)
	}
	if _, err := os.Stat(ta.configPath); !os.IsNotExist(err) {
		t.Fatalf("no config may be written for a rejected key")
	}
}

func TestInitUnreachableProvider(t *testing.T) {
	srv := fakeOWM(t)
	be := backends.NewOpenWeatherMap(srv.URL, srv.Client())
	srv.Close()
	ta := newTestApp(t, be, "valid")

	if code := ta.run(context.Background(), []string{"init"}); code != 1 {
		t.Fatalf("exit code %d, want 1", code)
	}
	if !strings.Contains(ta.stderr.String(), "connection error") {
		t.Fatalf("stderr = %q", ta.stderr)
	}
}

func TestTodayInvalidKey(t *testing.T) {
	srv := fakeOWM(t)
	ta := newTestApp(t, backends.NewOpenWeatherMap(srv.URL, srv.Client()), "")
	ta.saveKey(t, "expired")

	if code := ta.run(context.Background(), []string{"today", "London"}); code != 1 {
		t.Fatalf("exit code %d, want 1", code)
	}
	if !strings.Contains(ta.stderr.String(), "api key error") {
		t.Fatalf("stderr = %q", ta.stderr)
	}
	if ta.stdout.Len() != 0 {
		t.Fatalf("nothing may be displayed on failure, got %q", ta.stdout)
	}
}

func TestTodayWithoutConfig(t *testing.T) {
	srv := fakeOWM(t)
	ta := newTestApp(t, backends.NewOpenWeatherMap(srv.URL, srv.Client()), "")

	if code := ta.run(context.Background(), []string{"today", "London"}); code != 1 {
		t.Fatalf("exit code %d, want 1", code)
	}
	if got := ta.stderr.String(); got != "Config file not found. Please, run \"check_weather init\"\n" {
		t.Fatalf("stderr = %q", got)
	}
}

func TestTodayBrokenConfig(t *testing.T) {
	srv := fakeOWM(t)
	ta := newTestApp(t, backends.NewOpenWeatherMap(srv.URL, srv.Client()), "")
	if err := os.MkdirAll(filepath.Dir(ta.configPath), 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(ta.configPath, []byte("token: abc\n"), 0600); err != nil {
		t.Fatal(err)
	}

	if code := ta.run(context.Background(), []string{"today", "London"}); code != 1 {
		t.Fatalf("exit code %d, want 1", code)
	}
	if !strings.Contains(ta.stderr.String(), "config file structure error") {
		t.Fatalf("stderr = %q", ta.stderr)
	}
}

func TestToday(t *testing.T) {
	srv := fakeOWM(t)
	ta := newTestApp(t, backends.NewOpenWeatherMap(srv.URL, srv.Client()), "")
	ta.saveKey(t, "valid")

	code := ta.run(context.Background(), []string{"today", "London,", "GB", "--imperial", "-v"})
	if code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, ta.stderr)
	}
	out := ta.stdout.String()
	for _, s := range []string{"Today", "London", "(12.34°F)", "Humidity - 81%", "Wind speed - 4.63 Mph"} {
		if !strings.Contains(out, s) {
			t.Errorf("stdout lacks %q:\n%s", s, out)
		}
	}
}

func TestTodayUnknownCity(t *testing.T) {
	srv := fakeOWM(t)
	ta := newTestApp(t, backends.NewOpenWeatherMap(srv.URL, srv.Client()), "")
	ta.saveKey(t, "valid")

	if code := ta.run(context.Background(), []string{"today", "Atlantis"}); code != 1 {
		t.Fatalf("exit code %d, want 1", code)
	}
	if !strings.Contains(ta.stderr.String(), "not found error") {
		t.Fatalf("stderr = %q", ta.stderr)
	}
}

func TestDaily(t *testing.T) {
	srv := fakeOWM(t)
	ta := newTestApp(t, backends.NewOpenWeatherMap(srv.URL, srv.Client()), "")
	ta.saveKey(t, "valid")

	if code := ta.run(context.Background(), []string{"daily", "London"}); code != 0 {
		t.Fatalf("exit code %d, stderr: %s", code, ta.stderr)
	}
	out := ta.stdout.String()
	if strings.Count(out, "Average temperature") != 2 {
		t.Fatalf("expected two days:\n%s", out)
	}
	if strings.Index(out, "Sat 18 Oct") > strings.Index(out, "Sun 19 Oct") {
		t.Fatalf("days out of order:\n%s", out)
	}
	if strings.Contains(out, "Humidity") {
		t.Fatalf("details only with -v:\n%s", out)
	}
}

func TestDailyAbortsOnFirstError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// second entry lacks its temperature
		w.Write([]byte(`{"city":{"name":"London"},"list":[
			{"dt":1760788800,"main":{"temp":1,"humidity":1},"wind":{"speed":1},"weather":[{"description":"d"}]},
			{"dt":1760875200,"main":{"humidity":1},"wind":{"speed":1},"weather":[{"description":"d"}]}]}`))
	}))
	defer srv.Close()
	ta := newTestApp(t, backends.NewOpenWeatherMap(srv.URL, srv.Client()), "")
	ta.saveKey(t, "valid")

	if code := ta.run(context.Background(), []string{"daily", "London"}); code != 1 {
		t.Fatalf("exit code %d, want 1", code)
	}
	if !strings.Contains(ta.stderr.String(), "json error") {
		t.Fatalf("stderr = %q", ta.stderr)
	}
	if ta.stdout.Len() != 0 {
		t.Fatalf("no partial output expected, got %q", ta.stdout)
	}
}

func TestUsageErrors(t *testing.T) {
	ta := newTestApp(t, iface.AllBackends["json"], "")
	for _, args := range [][]string{
		nil,
		{"tomorrow", "London"},
		{"today"},
		{"daily", "-i"},
		{"today", "London", "--celsius"},
		{"init", "extra"},
	} {
		if code := ta.run(context.Background(), args); code != 2 {
			t.Errorf("run(%q) = %d, want 2", args, code)
		}
	}
}

func TestVersion(t *testing.T) {
	ta := newTestApp(t, iface.AllBackends["json"], "")
	if code := ta.run(context.Background(), []string{"version"}); code != 0 {
		t.Fatalf("exit code %d", code)
	}
	if got := ta.stdout.String(); got != "check_weather v0.1.0\n" {
		t.Fatalf("stdout = %q", got)
	}
}

func TestNoConfigDirectory(t *testing.T) {
	ta := newTestApp(t, iface.AllBackends["json"], "")
	ta.store = config.NewStoreFunc(func() (string, error) {
		return "", iface.Errorf(iface.DirError, "$HOME is not defined")
	})

	for _, args := range [][]string{{"version"}, {"help"}} {
		if code := ta.run(context.Background(), args); code != 0 {
			t.Errorf("run(%q) = %d, want 0; stderr: %s", args, code, ta.stderr)
		}
	}
	if code := ta.run(context.Background(), []string{"today", "London"}); code != 1 {
		t.Fatalf("today: exit code %d, want 1", code)
	}
	if !strings.Contains(ta.stderr.String(), "config directory error") {
		t.Fatalf("stderr = %q", ta.stderr)
	}
}

func TestCityQuery(t *testing.T) {
	tests := []struct {
		words []string
		want  string
	}{
		{[]string{"London"}, "London"},
		{[]string{"New", "York"}, "New York"},
		{[]string{"Melbourne,", "AU"}, "Melbourne,AU"},
		{[]string{"Melbourne", ",", "US"}, "Melbourne,US"},
		{[]string{"London,GB"}, "London,GB"},
		{[]string{"  Rio  de ", "Janeiro"}, "Rio de Janeiro"},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := cityQuery(tt.words); got != tt.want {
			t.Errorf("cityQuery(%q) = %q, want %q", tt.words, got, tt.want)
		}
	}
}

func TestParseForecastArgs(t *testing.T) {
	var out bytes.Buffer
	city, imperial, verbose, err := parseForecastArgs("daily", []string{"-v", "New", "York", "-i"}, &out)
	if err != nil {
		t.Fatal(err)
	}
	if city != "New York" || !imperial || !verbose {
		t.Fatalf("got city=%q imperial=%v verbose=%v", city, imperial, verbose)
	}
}
