package config

import (
	"fmt"
	"unicode/utf16"

	"github.com/BurntSushi/toml"
)

// Realm list fields are bit-packed on the wire: a 5-bit realm count, a
// 14-bit realm id and a 7-bit name length. Values past these caps cannot
// be carried, so Validate rejects them before they reach an encoder.
const (
	maxRealms       = 31
	maxRealmID      = 1<<14 - 1
	maxRealmNameLen = 127
)

// RealmEntry is one world server the gateway advertises and redirects to.
type RealmEntry struct {
	ID         uint16 `toml:"id"`
	Name       string `toml:"name"`
	Host       string `toml:"host"`
	Port       uint16 `toml:"port"`
	Population uint8  `toml:"population"`
	Online     bool   `toml:"online"`
}

// Config holds the gateway configuration.
type Config struct {
	Port          int          `toml:"port"`
	MetricsAddr   string       `toml:"metrics_addr"` // empty disables the /metrics listener
	AuthVersion   uint32       `toml:"auth_version"`
	RequiredBuild uint32       `toml:"required_build"` // 0 accepts any client build
	Debug         bool         `toml:"debug"`
	Realms        []RealmEntry `toml:"realm"`
}

// DefaultConfig returns a Config with sensible defaults and a single local
// realm.
func DefaultConfig() *Config {
	return &Config{
		Port:        24000,
		AuthVersion: 2,
		Realms: []RealmEntry{
			{ID: 1, Name: "Bezgelor", Host: "127.0.0.1", Port: 24001, Online: true},
		},
	}
}

// Load reads a TOML config file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Merge applies file-loaded config values into cfg, but only for fields
// that were NOT explicitly set via CLI flags. explicitFlags contains the
// flag names that were explicitly provided on the command line.
func Merge(cfg *Config, fromFile *Config, explicitFlags map[string]bool) {
	if !explicitFlags["port"] {
		cfg.Port = fromFile.Port
	}
	if !explicitFlags["metrics-addr"] {
		cfg.MetricsAddr = fromFile.MetricsAddr
	}
	if !explicitFlags["auth-version"] {
		cfg.AuthVersion = fromFile.AuthVersion
	}
	if !explicitFlags["required-build"] {
		cfg.RequiredBuild = fromFile.RequiredBuild
	}
	if !explicitFlags["debug"] {
		cfg.Debug = fromFile.Debug
	}
	cfg.Realms = fromFile.Realms
}

// Validate rejects configurations the gateway cannot serve.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if len(c.Realms) == 0 {
		return fmt.Errorf("no realms configured")
	}
	if len(c.Realms) > maxRealms {
		return fmt.Errorf("%d realms configured, realm list carries at most %d", len(c.Realms), maxRealms)
	}
	seen := make(map[uint16]bool, len(c.Realms))
	for _, r := range c.Realms {
		if r.Name == "" {
			return fmt.Errorf("realm %d has no name", r.ID)
		}
		if n := len(utf16.Encode([]rune(r.Name))); n > maxRealmNameLen {
			return fmt.Errorf("realm %d name is %d UTF-16 units, limit %d", r.ID, n, maxRealmNameLen)
		}
		if r.ID > maxRealmID {
			return fmt.Errorf("realm id %d exceeds wire limit %d", r.ID, maxRealmID)
		}
		if seen[r.ID] {
			return fmt.Errorf("realm id %d configured twice", r.ID)
		}
		seen[r.ID] = true
	}
	return nil
}

// Realm returns the configured realm with the given id.
func (c *Config) Realm(id uint16) (RealmEntry, bool) {
	for _, r := range c.Realms {
		if r.ID == id {
			return r, true
		}
	}
	return RealmEntry{}, false
}
