package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.APIURL)
	assert.Equal(t, "durable", cfg.StorageScope)
}

func TestLoad_ReadsYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "libraryctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"api_url: http://library.internal:9090\nstorage_scope: session\ndatabase_path: /tmp/auth.db\n",
	), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://library.internal:9090", cfg.APIURL)
	assert.Equal(t, "session", cfg.StorageScope)
	assert.Equal(t, "/tmp/auth.db", cfg.DatabasePath)
}

func TestLoad_ExplicitMissingFileIsAnError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "libraryctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_url: http://from-file:8080\n"), 0o644))

	t.Setenv(EnvAPIURL, "http://from-env:8080")
	t.Setenv(EnvStorageScope, "session")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://from-env:8080", cfg.APIURL)
	assert.Equal(t, "session", cfg.StorageScope)
}

func TestLoad_RejectsUnknownScope(t *testing.T) {
	t.Setenv(EnvStorageScope, "ephemeral")
	chdir(t, t.TempDir())

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage_scope")
}

func TestLoad_RejectsBadTimeout(t *testing.T) {
	t.Setenv(EnvRequestTimeout, "soon")
	chdir(t, t.TempDir())

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request_timeout")
}

func TestTimeout(t *testing.T) {
	d, err := Config{}.Timeout()
	require.NoError(t, err)
	assert.Zero(t, d)

	d, err = Config{RequestTimeout: "30s"}.Timeout()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, d)

	_, err = Config{RequestTimeout: "-5s"}.Timeout()
	assert.Error(t, err)
}

func TestLoad_RejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_url: [unclosed\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestResolveDatabasePath_UsesConfiguredPath(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{DatabasePath: filepath.Join(dir, "nested", "auth.db")}

	path, err := cfg.ResolveDatabasePath()
	require.NoError(t, err)
	assert.Equal(t, cfg.DatabasePath, path)
	assert.DirExists(t, filepath.Dir(path))
}
