package main

import (
	"path/filepath"
	"testing"

	"github.com/pevans/kboarchive/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestOpenRunHistory_DryRun verifies a dry run creates neither the history
// database nor its directory
func TestOpenRunHistory_DryRun(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".kbo")
	path := filepath.Join(dir, "history.db")

	store := openRunHistory(path, true, logger.Get("test"))

	assert.Nil(t, store)
	assert.NoFileExists(t, path)
	assert.NoDirExists(t, dir)
}

// TestOpenRunHistory_Live verifies a normal run opens the database,
// creating its directory
func TestOpenRunHistory_Live(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".kbo")
	path := filepath.Join(dir, "history.db")

	store := openRunHistory(path, false, logger.Get("test"))
	require.NotNil(t, store)
	defer store.Close()

	assert.FileExists(t, path)
}
