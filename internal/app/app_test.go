package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdulachik/litminer/internal/config"
	"github.com/abdulachik/litminer/internal/model"
)

func TestNew(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{DatabasePath: filepath.Join(dir, "data", "litminer.db")}

	t.Run("built-in profile", func(t *testing.T) {
		a, err := New(context.Background(), cfg, "")
		require.NoError(t, err)
		defer a.Close()

		assert.Equal(t, "1984", a.Title())
		count, err := a.Store.CountRuns(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})

	t.Run("profile flag overrides config", func(t *testing.T) {
		path := filepath.Join(dir, "book.yaml")
		content := "title: Small Book\nparts:\n  - {number: 1, first: 1, last: 2}\ncharacters:\n  - {id: a, name: Alice}\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		withBad := *cfg
		withBad.ProfilePath = filepath.Join(dir, "missing.yaml")

		a, err := New(context.Background(), &withBad, path)
		require.NoError(t, err)
		defer a.Close()
		assert.Equal(t, "Small Book", a.Title())
	})

	t.Run("bad profile", func(t *testing.T) {
		_, err := New(context.Background(), cfg, filepath.Join(dir, "missing.yaml"))
		assert.ErrorContains(t, err, "load profile")
	})
}

func TestLoad(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "data", "litminer.db")

	a, err := Load(&config.Config{DatabasePath: dbPath}, "")
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.Store)
	assert.NoFileExists(t, dbPath)

	require.NoError(t, a.OpenStore(context.Background()))
	require.NotNil(t, a.Store)
	assert.FileExists(t, dbPath)

	store := a.Store
	require.NoError(t, a.OpenStore(context.Background()))
	assert.Same(t, store, a.Store)
}

func TestSpeaker(t *testing.T) {
	a, err := New(context.Background(), &config.Config{DatabasePath: filepath.Join(t.TempDir(), "t.db")}, "")
	require.NoError(t, err)
	defer a.Close()

	id := "3"
	unknown := "99"
	assert.Equal(t, "O'Brien", a.Speaker(&id))
	assert.Equal(t, model.NarratorLabel, a.Speaker(&unknown))
	assert.Equal(t, model.NarratorLabel, a.Speaker(nil))
}
