package config

import (
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/gobwas/glob"
)

func validateVersion(cfg *Config) error {
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported config version %d; supported version is 1", cfg.Version)
	}
	return nil
}

func validateBuiltins(cfg *Config) error {
	for i, pattern := range cfg.Builtins.Exclude {
		if _, err := glob.Compile(strings.ToLower(pattern)); err != nil {
			return fmt.Errorf("builtins.exclude[%d]: invalid pattern %q: %w", i, pattern, err)
		}
	}
	seen := make(map[string]bool, len(cfg.Builtins.Stubs))
	for i, stub := range cfg.Builtins.Stubs {
		if seen[stub] {
			return fmt.Errorf("builtins.stubs[%d]: duplicate stub %q", i, stub)
		}
		seen[stub] = true
	}
	return nil
}

func validateExport(cfg *Config) error {
	if !cfg.Export.Enabled {
		return nil
	}
	path := strings.TrimSpace(cfg.Export.Path)
	if path == "" {
		return fmt.Errorf("export.path must not be empty when export is enabled")
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return fmt.Errorf("export.path %q is a directory", path)
	}
	return nil
}

func validateObservability(cfg *Config) error {
	addr := strings.TrimSpace(cfg.Observability.MetricsAddress)
	if addr == "" {
		return nil
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return fmt.Errorf("observability.metrics_address %q: %w", addr, err)
	}
	return nil
}

// Validate collects every problem instead of stopping at the first.
func Validate(cfg *Config) []error {
	var errs []error
	for _, check := range []func(*Config) error{
		validateVersion,
		validateBuiltins,
		validateExport,
		validateObservability,
	} {
		if err := check(cfg); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
