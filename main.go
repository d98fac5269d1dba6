package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/schachmat/ingo"

	_ "github.com/check-weather/check_weather/backends"
	"github.com/check-weather/check_weather/config"
	_ "github.com/check-weather/check_weather/frontends"
	"github.com/check-weather/check_weather/iface"
)

func main() {
	// initialize backends and frontends (flags and default config)
	for _, be := range iface.AllBackends {
		be.Setup()
	}
	for _, fe := range iface.AllFrontends {
		fe.Setup()
	}

	// initialize global flags and default config
	unitSystem := flag.String("units", "metric", "default `UNITSYSTEM` when -i is not given.\n    \tChoices are: metric, imperial")
	flag.StringVar(unitSystem, "u", "metric", "default `UNITSYSTEM` when -i is not given (shorthand)")
	verbose := flag.Bool("verbose", false, "always display the detailed forecast")
	selectedBackend := flag.String("backend", "openweathermap", "`BACKEND` to be used")
	flag.StringVar(selectedBackend, "b", "openweathermap", "`BACKEND` to be used (shorthand)")
	selectedFrontend := flag.String("frontend", "text", "`FRONTEND` to be used")
	flag.StringVar(selectedFrontend, "f", "text", "`FRONTEND` to be used (shorthand)")
	configPath := flag.String("config", "", "`FILE` holding the API key, empty for the per-user config directory")
	flag.Usage = func() { usage(flag.CommandLine.Output(), flag.CommandLine) }

	// read/write preferences and parse flags
	if err := ingo.Parse(appName); err != nil {
		log.Fatalf("Error parsing config: %v", err)
	}

	unit, ok := iface.ParseUnits(*unitSystem)
	if !ok {
		log.Fatalf("Unknown unit system \"%s\"", *unitSystem)
	}
	be, ok := iface.AllBackends[*selectedBackend]
	if !ok {
		log.Fatalf("Could not find selected backend \"%s\"", *selectedBackend)
	}
	fe, ok := iface.AllFrontends[*selectedFrontend]
	if !ok {
		log.Fatalf("Could not find selected frontend \"%s\"", *selectedFrontend)
	}

	store := config.NewStoreFunc(config.DefaultPath)
	if *configPath != "" {
		store = config.NewStore(*configPath)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	a := &app{
		store:    store,
		backend:  be,
		frontend: fe,
		units:    unit,
		verbose:  *verbose,
		stdin:    os.Stdin,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
	}
	code := a.run(ctx, flag.Args())
	stop()
	os.Exit(code)
}
