package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
)

func TestShell_RedirectsWithoutToken(t *testing.T) {
	var requests atomic.Int64
	a, _ := newTestAppWithBackend(t, nil, &requests)

	var out bytes.Buffer
	code := runShell(context.Background(), a, strings.NewReader(""), &out)
	if code != exitRedirect {
		t.Errorf("exit = %d, want %d", code, exitRedirect)
	}
	if n := requests.Load(); n != 0 {
		t.Errorf("backend saw %d requests, want 0", n)
	}
}

func TestShell_AutoLoadsFavoritesAndQuits(t *testing.T) {
	a, store := newTestAppWithBackend(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"resources": []map[string]any{
				{"_id": "f1", "label": "Home", "city": "Berlin", "lat": 52.52, "lon": 13.405},
			},
		})
	}, nil)
	if err := store.Save("tok"); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	code := runShell(context.Background(), a, strings.NewReader("quit\n"), &out)
	if code != exitOK {
		t.Fatalf("exit = %d", code)
	}
	if !strings.Contains(out.String(), "Berlin • 52.52, 13.405") {
		t.Errorf("favorites not auto-loaded:\n%s", out.String())
	}
}

func TestShell_EmptyListRendersEmptyState(t *testing.T) {
	a, store := newTestAppWithBackend(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"resources": []any{}})
	}, nil)
	if err := store.Save("tok"); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	runShell(context.Background(), a, strings.NewReader("quit\n"), &out)
	if !strings.Contains(out.String(), "No favorites yet.") {
		t.Errorf("missing empty state:\n%s", out.String())
	}
}

func TestShell_RmByRowNumber(t *testing.T) {
	var deletedPath string
	a, store := newTestAppWithBackend(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodDelete:
			deletedPath = r.URL.Path
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "deleted"})
		default:
			_ = json.NewEncoder(w).Encode(map[string]any{
				"resources": []map[string]any{
					{"_id": "row-one-id", "label": "Home", "city": "Berlin", "lat": 52.52, "lon": 13.405},
				},
			})
		}
	}, nil)
	if err := store.Save("tok"); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	runShell(context.Background(), a, strings.NewReader("rm 1\nquit\n"), &out)
	if deletedPath != "/api/resource/row-one-id" {
		t.Errorf("delete path = %q, want row 1 resolved to its id", deletedPath)
	}
	if !strings.Contains(out.String(), "Deleted.") {
		t.Errorf("missing confirmation:\n%s", out.String())
	}
}

func TestShell_RmByRawIDSkipsLocalCheck(t *testing.T) {
	var deletedPath string
	a, store := newTestAppWithBackend(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodDelete:
			deletedPath = r.URL.Path
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "deleted"})
		default:
			_ = json.NewEncoder(w).Encode(map[string]any{"resources": []any{}})
		}
	}, nil)
	if err := store.Save("tok"); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	runShell(context.Background(), a, strings.NewReader("rm not-in-the-list\nquit\n"), &out)
	if deletedPath != "/api/resource/not-in-the-list" {
		t.Errorf("delete path = %q; unknown ids must still be sent", deletedPath)
	}
}

func TestShell_ForecastByRow(t *testing.T) {
	a, store := newTestAppWithBackend(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/resource":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"resources": []map[string]any{
					{"_id": "f1", "label": "Home", "city": "Berlin", "lat": 52.52, "lon": 13.405},
				},
			})
		case "/api/weather/forecast":
			_, _ = w.Write([]byte(`{"forecast":{"city":{"name":"Berlin"},"list":[{"dt_txt":"2026-08-28 12:00:00","main":{"temp":21.4,"feels_like":20.9},"weather":[{"description":"clear sky"}]}]}}`))
		}
	}, nil)
	if err := store.Save("tok"); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	runShell(context.Background(), a, strings.NewReader("forecast 1\nquit\n"), &out)
	s := out.String()
	if !strings.Contains(s, "Loading forecast...") {
		t.Errorf("missing loading placeholder:\n%s", s)
	}
	if !strings.Contains(s, `"tempC": 21.4`) || !strings.Contains(s, "clear sky") {
		t.Errorf("missing summary fields:\n%s", s)
	}
}

func TestShell_AddPromptsAndReloads(t *testing.T) {
	var posted map[string]any
	a, store := newTestAppWithBackend(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost:
			_ = json.NewDecoder(r.Body).Decode(&posted)
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(map[string]any{"_id": "f1"})
		default:
			_ = json.NewEncoder(w).Encode(map[string]any{
				"resources": []map[string]any{
					{"_id": "f1", "label": "Home", "city": "Berlin", "lat": 52.52, "lon": 13.405},
				},
			})
		}
	}, nil)
	if err := store.Save("tok"); err != nil {
		t.Fatal(err)
	}

	input := "add\nHome\nBerlin\n52.52\n13.405\nquit\n"
	var out bytes.Buffer
	runShell(context.Background(), a, strings.NewReader(input), &out)

	if posted["label"] != "Home" || posted["city"] != "Berlin" {
		t.Errorf("posted = %v", posted)
	}
	if posted["lat"] != 52.52 || posted["lon"] != 13.405 {
		t.Errorf("posted coordinates = %v, %v", posted["lat"], posted["lon"])
	}
	if !strings.Contains(out.String(), "Added.") {
		t.Errorf("missing confirmation:\n%s", out.String())
	}
}

func TestShell_AddValidationFailureKeepsInput(t *testing.T) {
	var requests atomic.Int64
	a, store := newTestAppWithBackend(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"resources": []any{}})
	}, &requests)
	if err := store.Save("tok"); err != nil {
		t.Fatal(err)
	}

	input := "add\nHome\nBerlin\nnorth\n13.405\nquit\n"
	var out bytes.Buffer
	runShell(context.Background(), a, strings.NewReader(input), &out)

	if !strings.Contains(out.String(), "Latitude and longitude must be numbers") {
		t.Errorf("missing validation message:\n%s", out.String())
	}
	if !strings.Contains(out.String(), `lat="north"`) {
		t.Errorf("typed values not echoed back:\n%s", out.String())
	}
	// Only the auto-load hit the backend; the invalid add never did.
	if n := requests.Load(); n != 1 {
		t.Errorf("backend saw %d requests, want 1", n)
	}
}
