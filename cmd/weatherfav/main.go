package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/Ulannnnnnn/WebFinal/internal/api"
	"github.com/Ulannnnnnn/WebFinal/internal/app"
	"github.com/Ulannnnnnn/WebFinal/internal/config"
	"github.com/Ulannnnnnn/WebFinal/internal/observability"
	"github.com/Ulannnnnnn/WebFinal/internal/session"
	"github.com/Ulannnnnnn/WebFinal/internal/validation"
	"github.com/Ulannnnnnn/WebFinal/internal/view"
)

const usage = `weatherfav - weather favorites client

Usage:
  weatherfav register -u USERNAME -e EMAIL -p PASSWORD
  weatherfav login -e EMAIL -p PASSWORD
  weatherfav logout
  weatherfav profile
  weatherfav favorites list
  weatherfav favorites add -label LABEL -city CITY -lat LAT -lon LON
  weatherfav favorites rm -id ID
  weatherfav forecast -lat LAT -lon LON [-city CITY]
  weatherfav forecast -id ID
  weatherfav shell
`

func main() {
	logger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}

	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	client, err := api.NewClient(cfg.APIBaseURL, cfg.RequestTimeout, limiter, logger)
	if err != nil {
		logger.Fatal("api client", zap.Error(err))
	}
	store := session.NewStore(cfg.SessionFile)
	application := app.New(client, store, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, application, os.Args[1:]))
}

// Exit codes: 0 success, 1 error shown as a message, 2 guard redirect
// (protected command without a stored token).
const (
	exitOK       = 0
	exitError    = 1
	exitRedirect = 2
)

func run(ctx context.Context, a *app.App, args []string) int {
	if len(args) == 0 {
		fmt.Print(usage)
		return exitError
	}

	switch args[0] {
	case "register":
		return cmdRegister(ctx, a, args[1:])
	case "login":
		return cmdLogin(ctx, a, args[1:])
	case "logout":
		if err := a.Logout(); err != nil {
			return fail(err)
		}
		fmt.Println("Logged out.")
		return exitOK
	case "profile":
		return cmdProfile(ctx, a)
	case "favorites":
		return cmdFavorites(ctx, a, args[1:])
	case "forecast":
		return cmdForecast(ctx, a, args[1:])
	case "shell":
		return runShell(ctx, a, os.Stdin, os.Stdout)
	case "help", "-h", "--help":
		fmt.Print(usage)
		return exitOK
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", args[0], usage)
		return exitError
	}
}

// fail maps an error to output and an exit code. Guard failures redirect to
// sign-in; everything else renders as a plain message.
func fail(err error) int {
	if errors.Is(err, app.ErrNotAuthenticated) {
		fmt.Fprintln(os.Stderr, "Not signed in. Run 'weatherfav login' or 'weatherfav register' first.")
		return exitRedirect
	}
	fmt.Fprintln(os.Stderr, err.Error())
	return exitError
}

func cmdRegister(ctx context.Context, a *app.App, args []string) int {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	username := fs.String("u", "", "username")
	email := fs.String("e", "", "email")
	password := fs.String("p", "", "password")
	_ = fs.Parse(args)

	if err := a.Register(ctx, *username, *email, *password); err != nil {
		return fail(err)
	}
	fmt.Println("Registered. Token saved.")
	return exitOK
}

func cmdLogin(ctx context.Context, a *app.App, args []string) int {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("e", "", "email")
	password := fs.String("p", "", "password")
	_ = fs.Parse(args)

	if err := a.Login(ctx, *email, *password); err != nil {
		return fail(err)
	}
	fmt.Println("Logged in. Token saved.")
	return exitOK
}

func cmdProfile(ctx context.Context, a *app.App) int {
	raw, err := a.Profile(ctx)
	if err != nil {
		return fail(err)
	}
	fmt.Println(view.Profile(raw))
	return exitOK
}

func cmdFavorites(ctx context.Context, a *app.App, args []string) int {
	if len(args) == 0 {
		args = []string{"list"}
	}

	switch args[0] {
	case "list":
		items, err := a.LoadFavorites(ctx)
		if err != nil {
			return fail(err)
		}
		fmt.Println(view.Favorites(items))
		return exitOK

	case "add":
		fs := flag.NewFlagSet("favorites add", flag.ExitOnError)
		label := fs.String("label", "", "display label")
		city := fs.String("city", "", "city name")
		lat := fs.String("lat", "", "latitude")
		lon := fs.String("lon", "", "longitude")
		_ = fs.Parse(args[1:])

		items, err := a.AddFavorite(ctx, app.AddInput{Label: *label, City: *city, Lat: *lat, Lon: *lon})
		if err != nil {
			return fail(err)
		}
		fmt.Println("Added.")
		fmt.Println(view.Favorites(items))
		return exitOK

	case "rm":
		fs := flag.NewFlagSet("favorites rm", flag.ExitOnError)
		id := fs.String("id", "", "favorite identifier")
		_ = fs.Parse(args[1:])
		if *id == "" {
			fmt.Fprintln(os.Stderr, "favorites rm: -id is required")
			return exitError
		}

		items, err := a.DeleteFavorite(ctx, *id)
		if err != nil {
			return fail(err)
		}
		fmt.Println("Deleted.")
		fmt.Println(view.Favorites(items))
		return exitOK

	default:
		fmt.Fprintf(os.Stderr, "unknown favorites subcommand %q\n", args[0])
		return exitError
	}
}

func cmdForecast(ctx context.Context, a *app.App, args []string) int {
	fs := flag.NewFlagSet("forecast", flag.ExitOnError)
	id := fs.String("id", "", "favorite identifier to look up coordinates from")
	latStr := fs.String("lat", "", "latitude")
	lonStr := fs.String("lon", "", "longitude")
	city := fs.String("city", "", "display city name")
	_ = fs.Parse(args)

	var lat, lon float64
	switch {
	case *id != "":
		items, err := a.LoadFavorites(ctx)
		if err != nil {
			return fail(err)
		}
		found := false
		for _, item := range items {
			if item.ID == *id {
				lat, lon, *city = item.Lat, item.Lon, item.City
				found = true
				break
			}
		}
		if !found {
			fmt.Fprintf(os.Stderr, "no favorite with id %q\n", *id)
			return exitError
		}
	case *latStr != "" && *lonStr != "":
		var err error
		if lat, err = validation.CoerceCoordinate(*latStr); err != nil {
			return fail(err)
		}
		if lon, err = validation.CoerceCoordinate(*lonStr); err != nil {
			return fail(err)
		}
	default:
		fmt.Fprintln(os.Stderr, "forecast: provide -id, or both -lat and -lon")
		return exitError
	}

	fmt.Println(view.LoadingForecast)
	result, err := a.Forecast(ctx, lat, lon, *city)
	if err != nil {
		return fail(err)
	}
	fmt.Println(view.Forecast(result))
	return exitOK
}
