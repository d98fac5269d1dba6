package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/check-weather/check_weather/config"
	"github.com/check-weather/check_weather/frontends"
	"github.com/check-weather/check_weather/iface"
)

const (
	appName = "check_weather"
	version = "0.1.0"

	ansiRed   = "\033[0;31m"
	ansiGreen = "\033[0;32m"
	ansiReset = "\033[0m"
)

var errUsage = errors.New("usage error")

// app holds everything a single invocation needs. run is the only place
// that turns errors into messages and exit codes.
type app struct {
	store    *config.Store
	backend  iface.Backend
	frontend iface.Frontend
	units    iface.UnitSystem
	verbose  bool

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func usage(w io.Writer, global *flag.FlagSet) {
	fmt.Fprintf(w, `Usage: %[1]s [flags] COMMAND [ARGS]

Awesome CLI app for weather checking.

Commands:
  init                  Initialize the OpenWeather API key.
  today CITY... [-i] [-v]
                        Show today's weather of CITY.
  daily CITY... [-i] [-v]
                        Daily weather forecast for 5 days.
  version               Print the version.

There are cities with the same names.
To avoid conflicts, please add the country code after the city:
  Melbourne, US; Melbourne, AU
`, appName)
	if global != nil {
		fmt.Fprintln(w, "\nFlags:")
		global.PrintDefaults()
	}
}

func (a *app) run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		usage(a.stderr, nil)
		return 2
	}
	switch args[0] {
	case "init":
		return a.initKey(ctx, args[1:])
	case "today", "daily":
		return a.forecast(ctx, args[0], args[1:])
	case "version":
		fmt.Fprintf(a.stdout, "%s v%s\n", appName, version)
		return 0
	case "help":
		usage(a.stdout, nil)
		return 0
	}
	fmt.Fprintf(a.stderr, "Unknown command \"%s\"\n\n", args[0])
	usage(a.stderr, nil)
	return 2
}

func (a *app) initKey(ctx context.Context, args []string) int {
	if len(args) != 0 {
		fmt.Fprintf(a.stderr, "Usage: %s init\n", appName)
		return 2
	}

	fmt.Fprint(a.stdout, "Please input OpenWeather API key: ")
	key, err := bufio.NewReader(a.stdin).ReadString('\n')
	if err != nil && err != io.EOF {
		return fail(a.stderr, iface.Wrap(iface.UnknownError, err, "reading api key"))
	}
	if err := a.store.Init(ctx, key, a.backend); err != nil {
		return fail(a.stderr, err)
	}

	fmt.Fprintln(frontends.NewWriter(a.stdout), ansiGreen+"Congratulations, your API key is valid! Now you can use this app :)"+ansiReset)
	return 0
}

func (a *app) forecast(ctx context.Context, name string, args []string) int {
	city, imperial, verbose, err := parseForecastArgs(name, args, a.stderr)
	if err == flag.ErrHelp {
		return 0
	} else if err != nil {
		return 2
	}

	key, err := a.store.Load()
	if err != nil {
		msg := fmt.Sprintf("FAILED with \"%s\". Please, run \"%s init\"", iface.Message(iface.KindOf(err)), appName)
		if iface.KindOf(err) == iface.FileNotFound {
			msg = fmt.Sprintf("Config file not found. Please, run \"%s init\"", appName)
		}
		fmt.Fprintln(frontends.NewWriter(a.stderr), ansiRed+msg+ansiReset)
		return 1
	}

	units := a.units
	if imperial {
		units = iface.UnitsImperial
	}
	req := iface.Request{City: city, Units: units, APIKey: key}

	var days []iface.Result
	if name == "today" {
		var day iface.Result
		day, err = a.backend.Current(ctx, req)
		days = []iface.Result{day}
	} else {
		days, err = a.backend.Daily(ctx, req)
	}
	if err != nil {
		return fail(a.stderr, err)
	}

	if err := a.frontend.Render(a.stdout, days, units, verbose || a.verbose); err != nil {
		return fail(a.stderr, err)
	}
	return 0
}

// parseForecastArgs accepts flags before, between and after the city words.
func parseForecastArgs(name string, args []string, out io.Writer) (city string, imperial, verbose bool, err error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	fs.BoolVar(&imperial, "i", false, "display the temperature in imperial units (shorthand)")
	fs.BoolVar(&imperial, "imperial", false, "display the temperature in imperial units")
	fs.BoolVar(&verbose, "v", false, "display the detailed weather forecast (shorthand)")
	fs.BoolVar(&verbose, "verbose", false, "display the detailed weather forecast")
	fs.Usage = func() {
		fmt.Fprintf(out, "Usage: %s %s CITY... [-i|--imperial] [-v|--verbose]\n\n", appName, name)
		fs.PrintDefaults()
	}

	var words []string
	for {
		if err = fs.Parse(args); err != nil {
			return
		}
		args = fs.Args()
		if len(args) == 0 {
			break
		}
		words = append(words, args[0])
		args = args[1:]
	}

	if city = cityQuery(words); city == "" {
		fmt.Fprintln(out, "Missing argument CITY.")
		fs.Usage()
		err = errUsage
	}
	return
}

// cityQuery joins the city words to a provider query. Blanks around commas
// are dropped, so "Melbourne, AU" becomes "Melbourne,AU".
func cityQuery(words []string) string {
	parts := strings.Split(strings.Join(words, " "), ",")
	for i, p := range parts {
		parts[i] = strings.Join(strings.Fields(p), " ")
	}
	return strings.Trim(strings.Join(parts, ","), ",")
}

func fail(w io.Writer, err error) int {
	fmt.Fprintf(frontends.NewWriter(w), "%sFAILED with \"%s\"%s\n", ansiRed, iface.Message(iface.KindOf(err)), ansiReset)
	return 1
}
