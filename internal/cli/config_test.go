package cli

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestReadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".depsweep.toml")
	content := `
[cache]
backend = "redis"
ttl = "30m"

[registry]
jsr_url = "https://jsr.example.com"

[redis]
addr = "localhost:6380"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := readConfig(path)
	if err != nil {
		t.Fatalf("readConfig: %v", err)
	}
	if cfg.Cache.Backend != "redis" {
		t.Errorf("Backend = %q, want redis", cfg.Cache.Backend)
	}
	if got := cfg.Cache.TTLDuration(); got != 30*time.Minute {
		t.Errorf("TTLDuration = %v, want 30m", got)
	}
	if cfg.Registry.JSRURL != "https://jsr.example.com" {
		t.Errorf("JSRURL = %q", cfg.Registry.JSRURL)
	}
	if cfg.Redis.Addr != "localhost:6380" {
		t.Errorf("Redis.Addr = %q", cfg.Redis.Addr)
	}
}

func TestTTLDuration(t *testing.T) {
	tests := []struct {
		ttl  string
		want time.Duration
	}{
		{"", 0},
		{"24h", 24 * time.Hour},
		{"90s", 90 * time.Second},
		{"not-a-duration", 0},
	}
	for _, tt := range tests {
		cfg := CacheConfig{TTL: tt.ttl}
		if got := cfg.TTLDuration(); got != tt.want {
			t.Errorf("TTLDuration(%q) = %v, want %v", tt.ttl, got, tt.want)
		}
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.workDir = t.TempDir()

	cfg, err := c.loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Cache.Backend != "" || cfg.Cache.TTL != "" {
		t.Errorf("expected zero config without a file, got %+v", cfg)
	}
}

func TestLoadConfigFromWorkspace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, configFileName)
	if err := os.WriteFile(path, []byte("[cache]\nbackend = \"memory\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(io.Discard, LogInfo)
	c.workDir = dir

	cfg, err := c.loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Cache.Backend != "memory" {
		t.Errorf("Backend = %q, want memory", cfg.Cache.Backend)
	}
}

func TestLoadConfigExplicitPathErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.toml")
	if err := os.WriteFile(path, []byte("[cache\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(io.Discard, LogInfo)
	c.configPath = path

	if _, err := c.loadConfig(); err == nil {
		t.Error("expected error for malformed explicit config")
	}
}
