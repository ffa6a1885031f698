package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCacheDirXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/custom-cache")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join("/tmp/custom-cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirDefault(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	os.Unsetenv("XDG_CACHE_HOME")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	home, _ := os.UserHomeDir()
	if !strings.HasPrefix(dir, home) || !strings.HasSuffix(dir, appName) {
		t.Errorf("cacheDir() = %q, want a %s dir under home", dir, appName)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Chdir(t.TempDir())

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.Render.Format != "svg" {
		t.Errorf("default Render.Format = %q, want svg", cfg.Render.Format)
	}
	if cfg.Serve.Store != "memory" {
		t.Errorf("default Serve.Store = %q, want memory", cfg.Serve.Store)
	}
	if cfg.Cache.Backend != "file" {
		t.Errorf("default Cache.Backend = %q, want file", cfg.Cache.Backend)
	}
}

func TestLoadConfig_File(t *testing.T) {
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	t.Chdir(t.TempDir())

	appDir := filepath.Join(configHome, appName)
	if err := os.MkdirAll(appDir, 0755); err != nil {
		t.Fatal(err)
	}
	content := "[render]\nformat = \"png\"\n\n[serve]\naddr = \":9000\"\n"
	if err := os.WriteFile(filepath.Join(appDir, appName+".toml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.Render.Format != "png" {
		t.Errorf("Render.Format = %q, want png", cfg.Render.Format)
	}
	if cfg.Serve.Addr != ":9000" {
		t.Errorf("Serve.Addr = %q, want :9000", cfg.Serve.Addr)
	}
	// Values absent from the file keep their defaults.
	if cfg.Cache.Backend != "file" {
		t.Errorf("Cache.Backend = %q, want default file", cfg.Cache.Backend)
	}
}
