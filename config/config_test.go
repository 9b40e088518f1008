package config

import (
	"log/slog"
	"path/filepath"
	"testing"

	"library-lending/library"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestDefaults(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(nil))
	require.NoError(t, err)

	assert.Equal(t, BackendJSON, cfg.Backend)
	assert.Equal(t, 14, cfg.LoanDays)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "library.json", cfg.StorePath())
}

func TestOverrides(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{
		"LIBRARY_FILE":       "data/books.db",
		"LIBRARY_BACKEND":    "SQLite",
		"LIBRARY_LOAN_DAYS":  " 21 ",
		"LIBRARY_LOG_LEVEL":  "debug",
		"LIBRARY_LOG_FORMAT": "json",
	}))
	require.NoError(t, err)

	assert.Equal(t, "data/books.db", cfg.StorePath())
	assert.Equal(t, BackendSQLite, cfg.Backend)
	assert.Equal(t, 21, cfg.LoanDays)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestSQLiteDefaultPath(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{"LIBRARY_BACKEND": "sqlite"}))
	require.NoError(t, err)
	assert.Equal(t, "library.db", cfg.StorePath())
}

func TestInvalidValues(t *testing.T) {
	tests := map[string]map[string]string{
		"loan days not a number": {"LIBRARY_LOAN_DAYS": "two weeks"},
		"loan days zero":         {"LIBRARY_LOAN_DAYS": "0"},
		"unknown backend":        {"LIBRARY_BACKEND": "csv"},
		"unknown level":          {"LIBRARY_LOG_LEVEL": "loud"},
		"unknown format":         {"LIBRARY_LOG_FORMAT": "xml"},
	}

	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := FromLookup(lookupFrom(env))
			assert.Error(t, err)
		})
	}
}

func TestOpenStoreSelectsBackend(t *testing.T) {
	dir := t.TempDir()

	jsonCfg := &Config{File: filepath.Join(dir, "library.json"), Backend: BackendJSON}
	store, err := jsonCfg.OpenStore()
	require.NoError(t, err)
	assert.IsType(t, &library.JSONStore{}, store)
	require.NoError(t, store.Close())

	sqliteCfg := &Config{File: filepath.Join(dir, "library.db"), Backend: BackendSQLite}
	store, err = sqliteCfg.OpenStore()
	require.NoError(t, err)
	assert.IsType(t, &library.SQLiteStore{}, store)
	require.NoError(t, store.Close())

	_, err = (&Config{Backend: "csv"}).OpenStore()
	assert.Error(t, err)
}
