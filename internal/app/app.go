// Package app wires the dependencies shared by the commands.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/abdulachik/litminer/internal/config"
	"github.com/abdulachik/litminer/internal/db"
	"github.com/abdulachik/litminer/internal/model"
	"github.com/abdulachik/litminer/internal/profile"
	"github.com/abdulachik/litminer/internal/vectorstore"
)

// App is the main application container holding all dependencies.
type App struct {
	Config  *config.Config
	Store   *db.Store
	Profile *profile.Profile

	names map[string]string
}

// New loads the book profile and opens the store.
func New(ctx context.Context, cfg *config.Config, profilePath string) (*App, error) {
	a, err := Load(cfg, profilePath)
	if err != nil {
		return nil, err
	}
	if err := a.OpenStore(ctx); err != nil {
		return nil, err
	}
	return a, nil
}

// Load loads the book profile without touching the database. A non-empty
// profilePath overrides PROFILE_PATH.
func Load(cfg *config.Config, profilePath string) (*App, error) {
	if profilePath == "" {
		profilePath = cfg.ProfilePath
	}
	p, err := profile.LoadOrDefault(profilePath)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	return &App{
		Config:  cfg,
		Profile: p,
		names:   p.Names(),
	}, nil
}

// OpenStore opens and migrates the store. It is a no-op when the store is
// already open.
func (a *App) OpenStore(ctx context.Context) error {
	if a.Store != nil {
		return nil
	}

	slog.Debug("connecting to database", "path", a.Config.DatabasePath)
	store, err := db.NewStore(ctx, a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return fmt.Errorf("run migrations: %w", err)
	}

	a.Store = store
	return nil
}

// OpenIndex opens the VecLite quote index.
func (a *App) OpenIndex() (*vectorstore.QuoteStore, error) {
	idx, err := vectorstore.New(vectorstore.Config{
		Path:       a.Config.VecLitePath,
		ConfigPath: a.Config.VecLiteConfig,
	})
	if err != nil {
		return nil, fmt.Errorf("open quote index: %w", err)
	}
	return idx, nil
}

// Speaker resolves a character id to its profile name. Unattributed and
// unknown ids resolve to the narrator.
func (a *App) Speaker(id *string) string {
	if id == nil {
		return model.NarratorLabel
	}
	if name, ok := a.names[*id]; ok {
		return name
	}
	return model.NarratorLabel
}

// Title returns the book title used in attributions.
func (a *App) Title() string {
	if a.Profile.Title == "" {
		return "Unknown"
	}
	return a.Profile.Title
}

// Close closes all resources.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
