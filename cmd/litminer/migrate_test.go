package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateCommand(t *testing.T) {
	t.Setenv("DATABASE_PATH", filepath.Join(t.TempDir(), "litminer.db"))

	execute := func(args ...string) string {
		t.Helper()
		migrateStatus, migrateDown = false, false
		var buf bytes.Buffer
		rootCmd.SetOut(&buf)
		rootCmd.SetArgs(append([]string{"migrate"}, args...))
		require.NoError(t, rootCmd.ExecuteContext(context.Background()))
		return buf.String()
	}

	assert.Contains(t, execute("--status"), "001_initial.sql          pending")
	assert.Contains(t, execute(), "Applied 001_initial.sql")
	assert.Empty(t, execute())
	assert.NotContains(t, execute("--status"), "pending")
	assert.Contains(t, execute("--down"), "Reverted 001_initial.sql")
	assert.Contains(t, execute("--down"), "No migrations applied.")
}
