package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultExportPath  = "data/symbols.db"
	DefaultProjectKey  = "default"
	DefaultServiceName = "symtab"
)

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	if err := finalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default is the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	normalizeBuiltins(cfg)
	return cfg
}

func finalize(cfg *Config) error {
	applyDefaults(cfg)
	normalizeBuiltins(cfg)

	if err := validateVersion(cfg); err != nil {
		return err
	}
	if err := validateBuiltins(cfg); err != nil {
		return err
	}
	if err := validateExport(cfg); err != nil {
		return err
	}
	if err := validateObservability(cfg); err != nil {
		return err
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}
	if cfg.Analysis.HydrateOnLookup == nil {
		enabled := true
		cfg.Analysis.HydrateOnLookup = &enabled
	}
	if strings.TrimSpace(cfg.Export.Path) == "" {
		cfg.Export.Path = DefaultExportPath
	}
	if strings.TrimSpace(cfg.Export.ProjectKey) == "" {
		cfg.Export.ProjectKey = DefaultProjectKey
	}
	if cfg.Export.BusyTimeout <= 0 {
		cfg.Export.BusyTimeout = 5 * time.Second
	}
	if strings.TrimSpace(cfg.Observability.ServiceName) == "" {
		cfg.Observability.ServiceName = DefaultServiceName
	}
}

func normalizeBuiltins(cfg *Config) {
	cfg.Builtins.Catalog = strings.TrimSpace(cfg.Builtins.Catalog)
	cfg.Builtins.Exclude = compact(cfg.Builtins.Exclude)
	cfg.Builtins.Stubs = compact(cfg.Builtins.Stubs)
	for i, stub := range cfg.Builtins.Stubs {
		cfg.Builtins.Stubs[i] = filepath.Clean(stub)
	}
}

func compact(values []string) []string {
	out := values[:0]
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
