package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Session store kinds.
const (
	SessionStoreFile   = "file"
	SessionStoreRedis  = "redis"
	SessionStoreMemory = "memory"
)

// ClientConfig configures the command line client.
type ClientConfig struct {
	APIURL          string        `mapstructure:"api_url"`
	Timeout         time.Duration `mapstructure:"timeout"`
	SessionStore    string        `mapstructure:"session_store"`
	SessionPath     string        `mapstructure:"session_path"`
	SessionRedisURL string        `mapstructure:"session_redis_url"`
	SessionKey      string        `mapstructure:"session_key"`
	LogLevel        string        `mapstructure:"log_level"`
	Output          string        `mapstructure:"output"`
}

// ConfigDir returns the directory holding client config and session files.
func ConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "gamerhub")
	}
	return ".gamerhub"
}

// SetClientDefaults registers client defaults on the global viper instance.
func SetClientDefaults() {
	viper.SetDefault("api_url", "http://localhost:8080")
	viper.SetDefault("timeout", "15s")
	viper.SetDefault("session_store", SessionStoreFile)
	viper.SetDefault("session_path", filepath.Join(ConfigDir(), "session.yaml"))
	viper.SetDefault("session_redis_url", "localhost:6379")
	viper.SetDefault("session_key", "gamerhub:session")
	viper.SetDefault("log_level", "warn")
	viper.SetDefault("output", "text")
}

// InitClientViper wires file and GAMERHUB_* environment lookup. cfgFile may be empty.
func InitClientViper(cfgFile string) {
	SetClientDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(ConfigDir())
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix("GAMERHUB")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}

// LoadClientConfig decodes the client configuration from the global viper instance.
func LoadClientConfig() (*ClientConfig, error) {
	var cfg ClientConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode client config: %w", err)
	}
	cfg.APIURL = strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/")
	cfg.SessionStore = strings.ToLower(strings.TrimSpace(cfg.SessionStore))
	cfg.Output = strings.ToLower(strings.TrimSpace(cfg.Output))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid client configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the client configuration.
func (c *ClientConfig) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("api_url must be an absolute http(s) URL, got %q", c.APIURL)
	}
	if c.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}
	switch c.SessionStore {
	case SessionStoreFile:
		if c.SessionPath == "" {
			return errors.New("session_path is required for the file session store")
		}
	case SessionStoreRedis:
		if c.SessionRedisURL == "" || c.SessionKey == "" {
			return errors.New("session_redis_url and session_key are required for the redis session store")
		}
	case SessionStoreMemory:
	default:
		return fmt.Errorf("unknown session_store %q", c.SessionStore)
	}
	switch c.Output {
	case "text", "yaml", "json":
	default:
		return fmt.Errorf("output must be text, yaml or json, got %q", c.Output)
	}
	return nil
}
