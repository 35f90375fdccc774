package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/bidchain/pkg/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Chain.SSPs != 6 {
		t.Errorf("SSPs = %d, want 6", cfg.Chain.SSPs)
	}
	if cfg.Chain.Bid != 4.0 {
		t.Errorf("Bid = %v, want 4.0", cfg.Chain.Bid)
	}
	if cfg.Chain.Policy != "conversion" {
		t.Errorf("Policy = %q, want conversion", cfg.Chain.Policy)
	}
	if cfg.Chain.Seed != nil {
		t.Errorf("Seed = %v, want nil", *cfg.Chain.Seed)
	}
	if cfg.Limits.MinSSPs != 1 || cfg.Limits.MaxSSPs != 10 {
		t.Errorf("SSP limits = [%d,%d], want [1,10]", cfg.Limits.MinSSPs, cfg.Limits.MaxSSPs)
	}
	if cfg.Limits.MinBid != 1.0 || cfg.Limits.BidStep != 0.1 {
		t.Errorf("bid limits = (%v,%v), want (1.0,0.1)", cfg.Limits.MinBid, cfg.Limits.BidStep)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestParseOverrides(t *testing.T) {
	data := []byte(`
[chain]
ssps = 3
policy = "cheapest"
seed = 42

[render]
formats = ["dot", "json"]
detailed = true

[server]
addr = "127.0.0.1:9000"
cache_ttl = "90s"
`)
	cfg, err := Parse(data, Default())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Chain.SSPs != 3 {
		t.Errorf("SSPs = %d, want 3", cfg.Chain.SSPs)
	}
	if cfg.Chain.Bid != 4.0 {
		t.Errorf("Bid = %v, want default 4.0", cfg.Chain.Bid)
	}
	if cfg.Chain.Policy != "cheapest" {
		t.Errorf("Policy = %q, want cheapest", cfg.Chain.Policy)
	}
	if cfg.Chain.Seed == nil || *cfg.Chain.Seed != 42 {
		t.Errorf("Seed = %v, want 42", cfg.Chain.Seed)
	}
	if len(cfg.Render.Formats) != 2 || cfg.Render.Formats[0] != "dot" {
		t.Errorf("Formats = %v, want [dot json]", cfg.Render.Formats)
	}
	if !cfg.Render.Detailed {
		t.Error("Detailed = false, want true")
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
	if cfg.Server.CacheTTL != 90*time.Second {
		t.Errorf("CacheTTL = %v, want 90s", cfg.Server.CacheTTL)
	}
	if cfg.Server.CacheEntries != 128 {
		t.Errorf("CacheEntries = %d, want default 128", cfg.Server.CacheEntries)
	}
	if cfg.Limits.MaxSSPs != 10 {
		t.Errorf("MaxSSPs = %d, want default 10", cfg.Limits.MaxSSPs)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"malformed", "[chain\nssps = 3"},
		{"unknown key", "[chain]\ncolour = \"blue\""},
		{"ssps above limit", "[chain]\nssps = 11"},
		{"ssps below limit", "[chain]\nssps = 0"},
		{"bid below min", "[chain]\nbid = 0.5"},
		{"bad policy", "[chain]\npolicy = \"greedy\""},
		{"inverted limits", "[limits]\nmin_ssps = 5\nmax_ssps = 2\n[chain]\nssps = 5"},
		{"zero step", "[limits]\nbid_step = 0.0"},
		{"negative cache", "[server]\ncache_entries = -1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), Default())
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.GetCode(err); got != errors.ErrCodeInvalidConfig {
				t.Errorf("code = %q, want %q", got, errors.ErrCodeInvalidConfig)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Chain.SSPs != Default().Chain.SSPs {
		t.Errorf("SSPs = %d, want default", cfg.Chain.SSPs)
	}
}

func TestWriteThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	want := Default()
	want.Chain.SSPs = 8
	want.Chain.Bid = 2.5

	if err := Write(want, path); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Chain.SSPs != 8 || got.Chain.Bid != 2.5 {
		t.Errorf("chain = %+v", got.Chain)
	}
}

func TestDefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	path, err := DefaultPath()
	if err != nil {
		t.Fatalf("DefaultPath: %v", err)
	}
	if want := filepath.Join(dir, "bidchain", "config.toml"); path != want {
		t.Errorf("path = %q, want %q", path, want)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("[chain]\nssps = 2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Chain.SSPs != 2 {
		t.Errorf("SSPs = %d, want 2 from XDG file", cfg.Chain.SSPs)
	}
}
