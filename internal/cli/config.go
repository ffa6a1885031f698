package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// appName is the application name used for directories and display.
const appName = "flowmark"

// Config holds settings loaded from flowmark.toml.
//
// The file is looked up in the current directory first, then in the
// user config directory (~/.config/flowmark/flowmark.toml). A missing
// file yields the defaults.
type Config struct {
	Render RenderConfig `toml:"render"`
	Serve  ServeConfig  `toml:"serve"`
	Cache  CacheConfig  `toml:"cache"`
}

// RenderConfig controls default render behavior.
type RenderConfig struct {
	Format string  `toml:"format"` // svg, png, pdf, dot
	Labels bool    `toml:"labels"` // draw link labels
	Scale  float64 `toml:"scale"`  // png scale factor
}

// ServeConfig controls the preview server.
type ServeConfig struct {
	Addr     string `toml:"addr"`
	Store    string `toml:"store"` // memory, mongo
	MongoURI string `toml:"mongo_uri"`
}

// CacheConfig controls the render cache backend.
type CacheConfig struct {
	Backend   string `toml:"backend"` // file, redis, none
	RedisAddr string `toml:"redis_addr"`
	TTLHours  int    `toml:"ttl_hours"`
}

// defaultConfig returns the built-in defaults.
func defaultConfig() Config {
	return Config{
		Render: RenderConfig{Format: "svg", Labels: true, Scale: 2.0},
		Serve:  ServeConfig{Addr: ":8080", Store: "memory"},
		Cache:  CacheConfig{Backend: "file", RedisAddr: "localhost:6379"},
	}
}

// loadConfig reads flowmark.toml from the working directory or the
// user config directory. Values not present in the file keep defaults.
func loadConfig() (Config, error) {
	cfg := defaultConfig()

	path, ok := findConfigFile()
	if !ok {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func findConfigFile() (string, bool) {
	candidates := []string{appName + ".toml"}
	if dir, err := configDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, appName+".toml"))
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

// configDir returns the config directory using XDG standard (~/.config/flowmark/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// cacheDir returns the cache directory using XDG standard (~/.cache/flowmark/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
