// Package config loads the YAML configuration file.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"golang.org/x/net/idna"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "isiprint.yaml"

// Config is the resolved application configuration.
type Config struct {
	Bridge        BridgeConfig
	Storage       StorageConfig
	Notifications NotificationsConfig
	Logs          LogsConfig
	// Language overrides the initial display language when nothing is
	// stored yet. Empty keeps the built-in default.
	Language string
}

type BridgeConfig struct {
	URL         string
	CallTimeout time.Duration
	DialTimeout time.Duration
}

type StorageConfig struct {
	Driver string
	Path   string
}

type NotificationsConfig struct {
	Duration time.Duration
}

type LogsConfig struct {
	RefreshInterval time.Duration
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Bridge: BridgeConfig{
			URL:         "ws://127.0.0.1:1421/bridge",
			CallTimeout: 30 * time.Second,
			DialTimeout: 2 * time.Second,
		},
		Storage: StorageConfig{
			Driver: "file",
			Path:   defaultStoragePath("settings.json"),
		},
		Notifications: NotificationsConfig{Duration: 3 * time.Second},
		Logs:          LogsConfig{RefreshInterval: 5 * time.Second},
	}
}

func defaultStoragePath(name string) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return name
	}
	return filepath.Join(dir, "isiprint", name)
}

// fileConfig mirrors the YAML document. Durations stay strings until the
// schema has accepted them.
type fileConfig struct {
	Bridge struct {
		URL         string `yaml:"url"`
		CallTimeout string `yaml:"callTimeout"`
		DialTimeout string `yaml:"dialTimeout"`
	} `yaml:"bridge"`
	Storage struct {
		Driver string `yaml:"driver"`
		Path   string `yaml:"path"`
	} `yaml:"storage"`
	Notifications struct {
		Duration string `yaml:"duration"`
	} `yaml:"notifications"`
	Logs struct {
		RefreshInterval string `yaml:"refreshInterval"`
	} `yaml:"logs"`
	Language string `yaml:"language"`
}

// Load reads path. A missing file yields Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := Default()
			return cfg, cfg.normalize()
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse validates and resolves a YAML document on top of Default.
func Parse(data []byte) (*Config, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := validate(doc); err != nil {
		return nil, err
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg := Default()
	if fc.Bridge.URL != "" {
		cfg.Bridge.URL = fc.Bridge.URL
	}
	if fc.Storage.Driver != "" {
		cfg.Storage.Driver = fc.Storage.Driver
		if fc.Storage.Driver == "sqlite" && fc.Storage.Path == "" {
			cfg.Storage.Path = defaultStoragePath("settings.db")
		}
	}
	if fc.Storage.Path != "" {
		cfg.Storage.Path = fc.Storage.Path
	}
	cfg.Language = fc.Language

	durations := []struct {
		raw string
		dst *time.Duration
	}{
		{fc.Bridge.CallTimeout, &cfg.Bridge.CallTimeout},
		{fc.Bridge.DialTimeout, &cfg.Bridge.DialTimeout},
		{fc.Notifications.Duration, &cfg.Notifications.Duration},
		{fc.Logs.RefreshInterval, &cfg.Logs.RefreshInterval},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		v, err := time.ParseDuration(d.raw)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		if v <= 0 {
			return nil, fmt.Errorf("config: duration %q must be positive", d.raw)
		}
		*d.dst = v
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks the raw document against the embedded CUE schema.
func validate(doc map[string]any) error {
	if doc == nil {
		return nil
	}
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE)
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	def := schema.LookupPath(cue.ParsePath("#Config"))
	v := def.Unify(ctx.Encode(doc))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// normalize converts an internationalised bridge host to its ASCII form.
func (c *Config) normalize() error {
	u, err := url.Parse(c.Bridge.URL)
	if err != nil {
		return fmt.Errorf("config: bridge url: %w", err)
	}

	host := u.Hostname()
	if net.ParseIP(host) != nil {
		return nil
	}
	ascii, err := idna.Lookup.ToASCII(host)
	if err != nil {
		return fmt.Errorf("config: bridge host %q: %w", host, err)
	}
	if ascii != host {
		if port := u.Port(); port != "" {
			u.Host = net.JoinHostPort(ascii, port)
		} else {
			u.Host = ascii
		}
		c.Bridge.URL = u.String()
	}
	return nil
}
