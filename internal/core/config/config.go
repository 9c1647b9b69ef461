package config

import "time"

type Config struct {
	Version       int           `toml:"version"`
	Analysis      Analysis      `toml:"analysis"`
	Builtins      Builtins      `toml:"builtins"`
	Export        Export        `toml:"export"`
	Observability Observability `toml:"observability"`
}

type Analysis struct {
	DeadCodeDetection bool `toml:"dead_code_detection"`
	// Nil means true.
	HydrateOnLookup *bool `toml:"hydrate_on_lookup"`
}

type Builtins struct {
	// Catalog overrides the embedded catalog when set.
	Catalog string   `toml:"catalog"`
	Exclude []string `toml:"exclude"`
	Stubs   []string `toml:"stubs"`
}

type Export struct {
	Enabled     bool          `toml:"enabled"`
	Path        string        `toml:"path"`
	ProjectKey  string        `toml:"project_key"`
	BusyTimeout time.Duration `toml:"busy_timeout"`
}

type Observability struct {
	MetricsAddress string `toml:"metrics_address"`
	OTLPEndpoint   string `toml:"otlp_endpoint"`
	ServiceName    string `toml:"service_name"`
}

// HydrateOnLookupEnabled resolves the tri-state setting.
func (a Analysis) HydrateOnLookupEnabled() bool {
	return a.HydrateOnLookup == nil || *a.HydrateOnLookup
}
