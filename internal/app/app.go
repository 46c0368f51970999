// Package app is the application layer between the CLI surfaces and the
// backend: it runs the access guard, applies client-side validation, and
// orchestrates the full-reload flows for favorites.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Ulannnnnnn/WebFinal/internal/api"
	"github.com/Ulannnnnnn/WebFinal/internal/models"
	"github.com/Ulannnnnnn/WebFinal/internal/session"
	"github.com/Ulannnnnnn/WebFinal/internal/validation"
)

// ErrNotAuthenticated is the guard precondition failure: no token is stored.
// It is raised before any API call is issued and handled as a redirect to
// sign-in, not as a message.
var ErrNotAuthenticated = errors.New("not signed in")

// NavState is the two-state navigation machine keyed solely on token
// presence. The token is never validated client-side.
type NavState int

const (
	Unauthenticated NavState = iota
	Authenticated
)

// App wires the API client and the session store. All operations take the
// token from the store per call; nothing is cached in memory between calls.
type App struct {
	client *api.Client
	store  *session.Store
	logger *zap.Logger

	forecastSeq uint64
}

// New creates the application layer. logger may be nil.
func New(client *api.Client, store *session.Store, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{client: client, store: store, logger: logger}
}

// NavState reports which view the user belongs on.
func (a *App) NavState() NavState {
	if _, err := a.store.Load(); err != nil {
		return Unauthenticated
	}
	return Authenticated
}

// requireAuth is the access guard: protected operations call it before doing
// anything else, so a missing token never produces an API call.
func (a *App) requireAuth() (string, error) {
	token, err := a.store.Load()
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return "", ErrNotAuthenticated
		}
		return "", fmt.Errorf("load session: %w", err)
	}
	return token, nil
}

// Register validates the form fields, submits the registration, and persists
// the issued token. Validation failure blocks the request entirely.
func (a *App) Register(ctx context.Context, username, email, password string) error {
	username, err := validation.ValidateUsername(username)
	if err != nil {
		return err
	}
	email, err = validation.ValidateEmail(email)
	if err != nil {
		return err
	}
	if err := validation.ValidateRegistrationPassword(password); err != nil {
		return err
	}

	token, err := a.client.Register(ctx, username, email, password)
	if err != nil {
		return err
	}
	if err := a.store.Save(token); err != nil {
		return err
	}
	a.logger.Info("registered", zap.String("email", email))
	return nil
}

// Login validates the form fields, submits the login, and persists the
// issued token.
func (a *App) Login(ctx context.Context, email, password string) error {
	email, err := validation.ValidateEmail(email)
	if err != nil {
		return err
	}
	if err := validation.ValidateLoginPassword(password); err != nil {
		return err
	}

	token, err := a.client.Login(ctx, email, password)
	if err != nil {
		return err
	}
	if err := a.store.Save(token); err != nil {
		return err
	}
	a.logger.Info("logged in", zap.String("email", email))
	return nil
}

// Logout clears the stored token. Logging out while signed out is a no-op.
func (a *App) Logout() error {
	return a.store.Clear()
}

// Profile fetches the raw profile object for display.
func (a *App) Profile(ctx context.Context) (json.RawMessage, error) {
	token, err := a.requireAuth()
	if err != nil {
		return nil, err
	}
	return a.client.Profile(ctx, token)
}

// LoadFavorites fetches the full favorites collection. The client never holds
// an authoritative copy; every view of the list starts here.
func (a *App) LoadFavorites(ctx context.Context) ([]models.Favorite, error) {
	token, err := a.requireAuth()
	if err != nil {
		return nil, err
	}
	return a.client.ListFavorites(ctx, token)
}

// AddInput is the raw add-form input, before coercion.
type AddInput struct {
	Label string
	City  string
	Lat   string
	Lon   string
}

// AddFavorite validates and coerces the input, creates the record, then
// reloads the list. On failure the caller keeps the input for retry.
func (a *App) AddFavorite(ctx context.Context, input AddInput) ([]models.Favorite, error) {
	token, err := a.requireAuth()
	if err != nil {
		return nil, err
	}

	label, err := validation.ValidateLabel(input.Label)
	if err != nil {
		return nil, err
	}
	city, err := validation.ValidateCity(input.City)
	if err != nil {
		return nil, err
	}
	lat, err := validation.CoerceCoordinate(input.Lat)
	if err != nil {
		return nil, err
	}
	lon, err := validation.CoerceCoordinate(input.Lon)
	if err != nil {
		return nil, err
	}

	if _, err := a.client.AddFavorite(ctx, token, models.FavoriteInput{
		Label: label,
		City:  city,
		Lat:   lat,
		Lon:   lon,
	}); err != nil {
		return nil, err
	}

	return a.client.ListFavorites(ctx, token)
}

// DeleteFavorite deletes by identifier and reloads the list. No local
// existence check is made; the backend decides whether the id is real. On
// failure the previously rendered list stays valid since nothing was mutated
// locally.
func (a *App) DeleteFavorite(ctx context.Context, id string) ([]models.Favorite, error) {
	token, err := a.requireAuth()
	if err != nil {
		return nil, err
	}
	if err := a.client.DeleteFavorite(ctx, token, id); err != nil {
		return nil, err
	}
	return a.client.ListFavorites(ctx, token)
}
