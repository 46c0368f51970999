package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Ulannnnnnn/WebFinal/internal/api"
	"github.com/Ulannnnnnn/WebFinal/internal/app"
	"github.com/Ulannnnnnn/WebFinal/internal/models"
	"github.com/Ulannnnnnn/WebFinal/internal/view"
)

const shellHelp = `Commands:
  list            reload and show favorites
  add             add a favorite (prompts for fields)
  rm N|ID         delete a favorite by row number or raw id
  forecast N      show forecast for a favorite by row number
  profile         show your profile
  logout          clear the stored token and exit
  quit            exit
`

// runShell is the interactive session mirroring the app view: guard first,
// auto-load the favorites, then handle commands until EOF or quit. The list
// held here is only a render snapshot for row addressing; every mutation does
// a full reload from the backend.
func runShell(ctx context.Context, a *app.App, in io.Reader, out io.Writer) int {
	if a.NavState() != app.Authenticated {
		return fail(app.ErrNotAuthenticated)
	}

	items, err := a.LoadFavorites(ctx)
	if err != nil {
		return fail(err)
	}
	fmt.Fprintln(out, view.Favorites(items))

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return exitOK
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		cmd, args := fields[0], fields[1:]

		switch cmd {
		case "quit", "exit":
			return exitOK

		case "help":
			fmt.Fprint(out, shellHelp)

		case "list", "reload":
			reloaded, err := a.LoadFavorites(ctx)
			if err != nil {
				items = showShellError(out, items, err)
				continue
			}
			items = reloaded
			fmt.Fprintln(out, view.Favorites(items))
			if cmd == "reload" {
				fmt.Fprintln(out, "Reloaded.")
			}

		case "add":
			input := promptAdd(scanner, out)
			reloaded, err := a.AddFavorite(ctx, input)
			if err != nil {
				// Keep the typed values visible so the user can retry them.
				fmt.Fprintf(out, "%s (kept: label=%q city=%q lat=%q lon=%q)\n",
					err.Error(), input.Label, input.City, input.Lat, input.Lon)
				continue
			}
			items = reloaded
			fmt.Fprintln(out, "Added.")
			fmt.Fprintln(out, view.Favorites(items))

		case "rm":
			if len(args) != 1 {
				fmt.Fprintln(out, "usage: rm N|ID")
				continue
			}
			// A row number resolves through the last render; anything else is
			// sent to the backend as-is, no local existence check.
			id := args[0]
			if n, err := strconv.Atoi(id); err == nil && n >= 1 && n <= len(items) {
				id = items[n-1].ID
			}
			reloaded, err := a.DeleteFavorite(ctx, id)
			if err != nil {
				items = showShellError(out, items, err)
				continue
			}
			items = reloaded
			fmt.Fprintln(out, "Deleted.")
			fmt.Fprintln(out, view.Favorites(items))

		case "forecast":
			if len(args) != 1 {
				fmt.Fprintln(out, "usage: forecast N")
				continue
			}
			fav, ok := favoriteByRow(items, args[0])
			if !ok {
				fmt.Fprintln(out, "no such row; run 'list' first")
				continue
			}
			fmt.Fprintln(out, view.LoadingForecast)
			result, err := a.Forecast(ctx, fav.Lat, fav.Lon, fav.City)
			if err != nil {
				if errors.Is(err, app.ErrSuperseded) {
					continue
				}
				items = showShellError(out, items, err)
				continue
			}
			fmt.Fprintln(out, view.Forecast(result))

		case "profile":
			raw, err := a.Profile(ctx)
			if err != nil {
				items = showShellError(out, items, err)
				continue
			}
			fmt.Fprintln(out, view.Profile(raw))

		case "logout":
			if err := a.Logout(); err != nil {
				fmt.Fprintln(out, err.Error())
				continue
			}
			fmt.Fprintln(out, "Logged out.")
			return exitOK

		default:
			fmt.Fprintf(out, "unknown command %q; try 'help'\n", cmd)
		}
	}
}

// showShellError prints the error as the message line. A 401 means the stored
// token went stale; the list snapshot stays as-is either way, since nothing
// was mutated locally.
func showShellError(out io.Writer, items []models.Favorite, err error) []models.Favorite {
	fmt.Fprintln(out, err.Error())
	if errors.Is(err, api.ErrUnauthorized) {
		fmt.Fprintln(out, "Your session may have expired. Run 'logout' and sign in again.")
	}
	return items
}

func favoriteByRow(items []models.Favorite, arg string) (models.Favorite, bool) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(items) {
		return models.Favorite{}, false
	}
	return items[n-1], true
}

func promptAdd(scanner *bufio.Scanner, out io.Writer) app.AddInput {
	var input app.AddInput
	input.Label = promptField(scanner, out, "Label")
	input.City = promptField(scanner, out, "City")
	input.Lat = promptField(scanner, out, "Latitude")
	input.Lon = promptField(scanner, out, "Longitude")
	return input
}

func promptField(scanner *bufio.Scanner, out io.Writer, name string) string {
	fmt.Fprintf(out, "%s: ", name)
	if !scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(scanner.Text())
}
