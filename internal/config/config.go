package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/clive/forget-me-not/internal/prefs"
	"github.com/clive/forget-me-not/internal/taskstore"
)

const (
	dirName  = ".forget-me-not"
	fileName = "config.yaml"
	logName  = "forget-me-not.log"
)

// Config represents the user's configuration
type Config struct {
	Backend      prefs.Backend `yaml:"backend"`
	DataDir      string        `yaml:"data_dir"`
	StoreName    string        `yaml:"store_name"`
	TickInterval time.Duration `yaml:"tick_interval"` // 0 = once a minute on the minute
	LogLevel     string        `yaml:"log_level"`
	Debug        bool          `yaml:"debug"` // show the debug panel

	// Source is the file the config was read from, empty for defaults
	Source string `yaml:"-"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	dataDir := dirName
	if dir, err := globalConfigDir(); err == nil {
		dataDir = dir
	}
	return &Config{
		Backend:   prefs.BackendFile,
		DataDir:   dataDir,
		StoreName: taskstore.DefaultStoreName,
		LogLevel:  "info",
	}
}

// globalConfigDir returns the global config directory path (~/.forget-me-not)
func globalConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, dirName), nil
}

// projectConfigPath returns the project-level config path (.forget-me-not/config.yaml in cwd)
func projectConfigPath() string {
	return filepath.Join(dirName, fileName)
}

// LogPath returns where the screen writes its log
func (c *Config) LogPath() string {
	return filepath.Join(c.DataDir, logName)
}

// Load reads the config at path, or when path is empty the project config
// then the global one, falling back to defaults. Environment variables
// (including those from a local .env file) override the file. The result
// is not validated; callers apply their own overrides and then Validate.
func Load(path string) (*Config, error) {
	// A missing .env is normal
	_ = godotenv.Load()

	cfg := DefaultConfig()

	candidates := []string{path}
	if path == "" {
		candidates = []string{projectConfigPath()}
		if dir, err := globalConfigDir(); err == nil {
			candidates = append(candidates, filepath.Join(dir, fileName))
		}
	}

	for _, p := range candidates {
		data, err := os.ReadFile(p)
		if err != nil {
			if os.IsNotExist(err) && path == "" {
				continue
			}
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", p, err)
		}
		cfg.Source = p
		break
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Backend = prefs.Backend(envStr("FMN_BACKEND", string(c.Backend)))
	c.DataDir = envStr("FMN_DATA_DIR", c.DataDir)
	c.StoreName = envStr("FMN_STORE", c.StoreName)
	c.TickInterval = envDuration("FMN_TICK_INTERVAL", c.TickInterval)
	c.LogLevel = envStr("LOG_LEVEL", c.LogLevel)
	c.Debug = envBool("FMN_DEBUG", c.Debug)
}

// Validate checks the config is usable
func (c *Config) Validate() error {
	if _, err := prefs.ParseBackend(string(c.Backend)); err != nil {
		return err
	}
	if c.DataDir == "" && c.Backend != prefs.BackendMemory {
		return fmt.Errorf("data_dir must not be empty for backend %q", c.Backend)
	}
	if c.StoreName == "" {
		return fmt.Errorf("store_name must not be empty")
	}
	if c.TickInterval < 0 {
		return fmt.Errorf("tick_interval must not be negative, got %s", c.TickInterval)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn or error, got %q", c.LogLevel)
	}
	return nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
