package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Viper keys. Flags are bound onto the same keys by the CLI.
const (
	KeyMiddlewareURL = "middleware_url"
	KeyInterval      = "interval"
	KeyStatusTimeout = "status_timeout"
	KeyLoadTimeout   = "load_timeout"
	KeyInsecure      = "insecure"
	KeyLogFile       = "log_file"
	KeyLogLevel      = "log_level"
)

const (
	DefaultMiddlewareURL = "http://localhost:4000"
	DefaultInterval      = 5 * time.Second
	DefaultStatusTimeout = 2 * time.Second

	envPrefix      = "CASAMATRIZ"
	configFileName = "config"
)

// DefaultLogFile is where the TUI writes its log; stdout belongs to the UI.
var DefaultLogFile = filepath.Join(os.TempDir(), "casamatriz.log")

// Config is the resolved runtime configuration.
type Config struct {
	MiddlewareURL string
	Interval      time.Duration
	StatusTimeout time.Duration
	// LoadTimeout bounds data loads; zero means no timeout.
	LoadTimeout time.Duration
	Insecure    bool
	LogFile     string
	LogLevel    string
	// Path is the config file that was read, empty if none.
	Path string
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyMiddlewareURL, DefaultMiddlewareURL)
	v.SetDefault(KeyInterval, DefaultInterval)
	v.SetDefault(KeyStatusTimeout, DefaultStatusTimeout)
	v.SetDefault(KeyLoadTimeout, time.Duration(0))
	v.SetDefault(KeyInsecure, false)
	v.SetDefault(KeyLogFile, DefaultLogFile)
	v.SetDefault(KeyLogLevel, "info")
}

// Load resolves configuration into v and returns it. configPath names an
// explicit config file; when empty, $HOME/.config/casamatriz/config.* is read
// if present. Environment variables are CASAMATRIZ_<KEY>, plus the bare
// MIDDLEWARE_URL the middleware deployment already exports.
func Load(v *viper.Viper, configPath string) (*Config, error) {
	SetDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "casamatriz"))
		}
		v.SetConfigName(configFileName)
	}

	if err := v.ReadInConfig(); err != nil {
		enoent := errors.Is(err, os.ErrNotExist)
		_, notFound := err.(viper.ConfigFileNotFoundError)
		if !enoent && !notFound {
			return nil, fmt.Errorf("config read '%s': %w", v.ConfigFileUsed(), err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv(KeyMiddlewareURL, envPrefix+"_MIDDLEWARE_URL", "MIDDLEWARE_URL"); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	cfg := &Config{
		MiddlewareURL: v.GetString(KeyMiddlewareURL),
		Interval:      v.GetDuration(KeyInterval),
		StatusTimeout: v.GetDuration(KeyStatusTimeout),
		LoadTimeout:   v.GetDuration(KeyLoadTimeout),
		Insecure:      v.GetBool(KeyInsecure),
		LogFile:       v.GetString(KeyLogFile),
		LogLevel:      v.GetString(KeyLogLevel),
		Path:          v.ConfigFileUsed(),
	}
	return cfg, nil
}

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is not an
// error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.MiddlewareURL == "" {
		return errors.New("config: middleware url is required")
	}
	u, err := url.Parse(c.MiddlewareURL)
	if err != nil {
		return fmt.Errorf("config: invalid middleware url %q: %w", c.MiddlewareURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("config: unsupported scheme %q (must be http or https)", u.Scheme)
	}
	if u.Hostname() == "" {
		return fmt.Errorf("config: invalid middleware url %q: host is required", c.MiddlewareURL)
	}
	if c.Interval <= 0 {
		return errors.New("config: interval must be positive")
	}
	if c.StatusTimeout <= 0 {
		return errors.New("config: status timeout must be positive")
	}
	if c.LoadTimeout < 0 {
		return errors.New("config: load timeout must not be negative")
	}
	return nil
}
