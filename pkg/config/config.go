// Package config loads bidchain settings from a TOML file.
//
// Every field has a default matching the reference controls: six
// intermediaries out of a 1–10 range, a $4.00 bid with a $1.00 floor and a
// 0.1 step, and the conversion policy. A missing file is not an error.
//
//	[chain]
//	ssps   = 6
//	bid    = 4.0
//	policy = "conversion"
//	seed   = 42          # omit for a fresh draw per evaluation
//
//	[limits]
//	min_ssps = 1
//	max_ssps = 10
//	min_bid  = 1.0
//	bid_step = 0.1
//
//	[render]
//	formats  = ["svg"]
//	detailed = false
//
//	[server]
//	addr          = ":8080"
//	cache_entries = 128      # rendered artifacts kept for seeded requests; 0 disables
//	cache_ttl     = "10m"
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/bidchain/pkg/chain"
	"github.com/matzehuels/bidchain/pkg/errors"
)

const (
	appName  = "bidchain"
	fileName = "config.toml"
)

// Config is the full application configuration.
type Config struct {
	Chain  Chain  `toml:"chain"`
	Limits Limits `toml:"limits"`
	Render Render `toml:"render"`
	Server Server `toml:"server"`
}

// Chain holds the default evaluation inputs.
type Chain struct {
	SSPs   int     `toml:"ssps"`
	Bid    float64 `toml:"bid"`
	Policy string  `toml:"policy"`
	Seed   *uint64 `toml:"seed"`
}

// Limits bounds what callers may request.
type Limits struct {
	MinSSPs int     `toml:"min_ssps"`
	MaxSSPs int     `toml:"max_ssps"`
	MinBid  float64 `toml:"min_bid"`
	BidStep float64 `toml:"bid_step"`
}

// Render holds output defaults.
type Render struct {
	Formats  []string `toml:"formats"`
	Detailed bool     `toml:"detailed"`
}

// Server holds HTTP settings.
type Server struct {
	Addr         string        `toml:"addr"`
	CacheEntries int           `toml:"cache_entries"`
	CacheTTL     time.Duration `toml:"cache_ttl"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Chain: Chain{
			SSPs:   6,
			Bid:    4.0,
			Policy: chain.PolicyNameConversion,
		},
		Limits: Limits{
			MinSSPs: 1,
			MaxSSPs: 10,
			MinBid:  1.0,
			BidStep: 0.1,
		},
		Render: Render{
			Formats: []string{"svg"},
		},
		Server: Server{
			Addr:         ":8080",
			CacheEntries: 128,
			CacheTTL:     10 * time.Minute,
		},
	}
}

// Load reads path on top of the defaults. An empty path falls back to
// DefaultPath; a file that does not exist yields the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	return Parse(data, cfg)
}

// Parse decodes TOML data over base and validates the result.
func Parse(data []byte, base Config) (Config, error) {
	cfg := base
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return base, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return base, errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q", undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return base, err
	}
	return cfg, nil
}

// Validate checks limits first, then the chain defaults against them.
func (c Config) Validate() error {
	l := c.Limits
	if l.MinSSPs < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "limits.min_ssps must be at least 1, got %d", l.MinSSPs)
	}
	if l.MaxSSPs != 0 && l.MaxSSPs < l.MinSSPs {
		return errors.New(errors.ErrCodeInvalidConfig, "limits.max_ssps (%d) is below limits.min_ssps (%d)", l.MaxSSPs, l.MinSSPs)
	}
	if l.MinBid < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "limits.min_bid must not be negative")
	}
	if l.BidStep <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "limits.bid_step must be positive")
	}
	if c.Server.CacheEntries < 0 || c.Server.CacheTTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server cache settings must not be negative")
	}
	if err := errors.ValidateSSPCount(c.Chain.SSPs, l.MinSSPs, l.MaxSSPs); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "chain.ssps")
	}
	if err := errors.ValidateBid(c.Chain.Bid, l.MinBid); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "chain.bid")
	}
	if _, err := chain.ParsePolicy(c.Chain.Policy); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "chain.policy")
	}
	return nil
}

// DefaultPath returns the config file location using the XDG standard
// (~/.config/bidchain/config.toml).
func DefaultPath() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName, fileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, fileName), nil
}

// Write encodes cfg as TOML to path, creating parent directories.
func Write(cfg Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}
