package config

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/bnema/spaceo-chat/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("SPACEO_SESSION", "")

	v, cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIURL, cfg.APIURL)
	assert.Equal(t, domain.DefaultAccountIDs, cfg.DefaultAccounts)
	assert.Equal(t, domain.DefaultAllowedFileTypes, cfg.AllowedTypes)
	assert.Equal(t, filepath.Join(home, ".spaceo", "sessions"), cfg.SessionsDir)
	assert.Equal(t, filepath.Join(home, ".spaceo", "storage.toml"), v.GetString(KeyStoragePath))
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 80, cfg.RenderWidth)
	assert.Equal(t, "auto", cfg.RenderStyle)
	assert.Equal(t, strconv.Itoa(os.Getppid()), cfg.Session)
}

func TestLoadReadsConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".spaceo"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(home, ".spaceo", "config.toml"), []byte(`api_url = "http://chat.internal:9000"

[accounts]
defaults = ["acc-a", " ", "acc-b"]

[render]
width = 100
style = "dark"
`), 0o600))

	_, cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://chat.internal:9000", cfg.APIURL)
	assert.Equal(t, []domain.AccountID{"acc-a", "acc-b"}, cfg.DefaultAccounts)
	assert.Equal(t, 100, cfg.RenderWidth)
	assert.Equal(t, "dark", cfg.RenderStyle)
}

func TestLoadEnvOverrides(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("SPACEO_API_URL", "http://127.0.0.1:1234")
	t.Setenv("SPACEO_LOG_LEVEL", "debug")
	t.Setenv("SPACEO_SESSION", "tty-7")

	_, cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:1234", cfg.APIURL)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "tty-7", cfg.Session)
}

func TestLoadRejectsMalformedConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".spaceo"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(home, ".spaceo", "config.toml"), []byte("api_url = ["), 0o600))

	_, _, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}
