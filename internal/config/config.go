package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const (
	DefaultBaseURL = "http://localhost:8000/api/v1"
	DefaultTheme   = "dark"
)

// Profile describes one backend deployment and the session held against it.
type Profile struct {
	BaseURL           string  `json:"base_url"`
	Token             string  `json:"token,omitempty"`
	Email             string  `json:"email,omitempty"`
	RoleID            int     `json:"role_id,omitempty"`
	Theme             string  `json:"theme,omitempty"`
	RequestsPerSecond float64 `json:"requests_per_second,omitempty"`
}

type Config struct {
	Profiles      map[string]Profile `json:"profiles"`
	ActiveProfile string             `json:"active_profile"`
	ExportDir     string             `json:"export_dir,omitempty"`
	LogFile       string             `json:"log_file,omitempty"`
	LogLevel      string             `json:"log_level,omitempty"`

	path string
	mu   sync.Mutex
}

func LoadConfig() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	return LoadConfigFrom(configPath)
}

// LoadConfigFrom loads (or creates) the config file at configPath.
func LoadConfigFrom(configPath string) (*Config, error) {
	if err := ensureConfigDir(configPath); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	config, err := loadConfigFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	config.path = configPath

	if err := config.setCurrentProfile(); err != nil {
		return nil, fmt.Errorf("failed to set current profile: %w", err)
	}

	return config, nil
}

// Current returns a copy of the active profile.
func (c *Config) Current() Profile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Profiles[c.ActiveProfile]
}

// Active returns the active profile's name.
func (c *Config) Active() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ActiveProfile
}

// Switch makes name the active profile and writes the file.
func (c *Config) Switch(name string) error {
	c.mu.Lock()
	if _, exists := c.Profiles[name]; !exists {
		c.mu.Unlock()
		return fmt.Errorf("profile '%s' does not exist", name)
	}
	c.ActiveProfile = name
	c.mu.Unlock()
	return c.Save()
}

func (c *Config) GetBaseURL() string {
	if url := os.Getenv("RORIQUERY_BASE_URL"); url != "" {
		return url
	}
	if p := c.Current(); p.BaseURL != "" {
		return p.BaseURL
	}
	return DefaultBaseURL
}

func (c *Config) GetTheme() string {
	if p := c.Current(); p.Theme != "" {
		return p.Theme
	}
	return DefaultTheme
}

func (c *Config) GetExportDir() string {
	if c.ExportDir != "" {
		return c.ExportDir
	}
	return "."
}

func (c *Config) GetLogFile() string {
	if c.LogFile != "" {
		return c.LogFile
	}
	return filepath.Join(filepath.Dir(c.path), "roriquery.log")
}

// UpdateProfile applies fn to the active profile and writes the file.
func (c *Config) UpdateProfile(fn func(p *Profile)) error {
	c.mu.Lock()
	p := c.Profiles[c.ActiveProfile]
	fn(&p)
	c.Profiles[c.ActiveProfile] = p
	c.mu.Unlock()
	return c.Save()
}

func getConfigPath() (string, error) {
	var configDir string

	// Use RORIQUERY_HOME if set, otherwise use user's home directory
	if home := os.Getenv("RORIQUERY_HOME"); home != "" {
		configDir = home
	} else {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = homeDir
	}

	return filepath.Join(configDir, ".roriquery", "config.json"), nil
}

func ensureConfigDir(configPath string) error {
	configDir := filepath.Dir(configPath)
	return os.MkdirAll(configDir, 0755)
}

func loadConfigFile(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return createDefaultConfig(configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	return &config, nil
}

func DefaultProfile() Profile {
	return Profile{
		BaseURL: DefaultBaseURL,
		Theme:   DefaultTheme,
	}
}

func createDefaultConfig(configPath string) (*Config, error) {
	config := &Config{
		Profiles: map[string]Profile{
			"default": DefaultProfile(),
		},
		ActiveProfile: "default",
		LogLevel:      "info",
	}

	if err := saveConfig(config, configPath); err != nil {
		return nil, err
	}

	return config, nil
}

func saveConfig(config *Config, configPath string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	// 0600: the file holds bearer tokens
	return os.WriteFile(configPath, data, 0600)
}

func (c *Config) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	configPath := c.path
	if configPath == "" {
		var err error
		configPath, err = getConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}
	}

	return saveConfig(c, configPath)
}

// Path returns the file the config was loaded from.
func (c *Config) Path() string {
	return c.path
}

func (c *Config) setCurrentProfile() error {
	if len(c.Profiles) == 0 {
		return fmt.Errorf("no profiles defined")
	}

	if _, exists := c.Profiles[c.ActiveProfile]; exists {
		return nil
	}

	// If active profile doesn't exist, fall back to the first available one
	for name := range c.Profiles {
		c.ActiveProfile = name
		return nil
	}

	return fmt.Errorf("no valid profiles found")
}
