package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".roriquery", "config.json")

	cfg, err := LoadConfigFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "default", cfg.ActiveProfile)
	assert.Equal(t, DefaultBaseURL, cfg.GetBaseURL())
	assert.Equal(t, DefaultTheme, cfg.GetTheme())
	assert.Equal(t, filepath.Join(filepath.Dir(path), "roriquery.log"), cfg.GetLogFile())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestLoadConfigFallsBackToExistingProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"profiles":{"campus":{"base_url":"http://campus/api/v1"}},"active_profile":"gone"}`), 0600))

	cfg, err := LoadConfigFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "campus", cfg.ActiveProfile)
	assert.Equal(t, "http://campus/api/v1", cfg.GetBaseURL())
}

func TestLoadConfigRejectsEmptyProfiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"profiles":{}}`), 0600))

	_, err := LoadConfigFrom(path)
	assert.Error(t, err)
}

func TestBaseURLEnvOverride(t *testing.T) {
	cfg, err := LoadConfigFrom(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)

	t.Setenv("RORIQUERY_BASE_URL", "http://override/api")
	assert.Equal(t, "http://override/api", cfg.GetBaseURL())
}

func TestTokenStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg, err := LoadConfigFrom(path)
	require.NoError(t, err)
	store := NewTokenStore(cfg)

	assert.Empty(t, store.Token())

	require.NoError(t, store.SetToken("abc", 7))
	assert.Equal(t, "abc", store.Token())

	reloaded, err := LoadConfigFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "abc", reloaded.Current().Token)
	assert.Equal(t, 7, reloaded.Current().RoleID)

	require.NoError(t, store.ClearToken())
	assert.Empty(t, store.Token())
}

func TestTokenStoreSeesExternalLogin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg, err := LoadConfigFrom(path)
	require.NoError(t, err)
	store := NewTokenStore(cfg)

	other, err := LoadConfigFrom(path)
	require.NoError(t, err)
	require.NoError(t, NewTokenStore(other).SetToken("from-elsewhere", 1))

	assert.Equal(t, "from-elsewhere", store.Token())
}

func TestTokenStoreFollowsSwitch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg, err := LoadConfigFrom(path)
	require.NoError(t, err)
	store := NewTokenStore(cfg)
	require.NoError(t, store.SetToken("d-tok", 7))

	cfg.Profiles["staging"] = Profile{BaseURL: DefaultBaseURL, Token: "s-tok"}
	require.NoError(t, cfg.Save())
	assert.Error(t, cfg.Switch("missing"))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			assert.Contains(t, []string{"d-tok", "s-tok"}, store.Token())
		}
	}()
	go func() {
		defer wg.Done()
		for _, name := range []string{"staging", "default", "staging"} {
			assert.NoError(t, cfg.Switch(name))
		}
	}()
	wg.Wait()

	assert.Equal(t, "staging", cfg.Active())
	assert.Equal(t, "s-tok", store.Token())
}
