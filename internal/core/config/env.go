package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// ApplyEnvOverrides applies environment variable overrides.
// Pattern: SYMTAB_[SECTION]_[KEY] (e.g. SYMTAB_EXPORT_PATH).
func ApplyEnvOverrides(cfg *Config) {
	setEnvBool(&cfg.Analysis.DeadCodeDetection, "SYMTAB_ANALYSIS_DEAD_CODE_DETECTION")
	if val, ok := lookupBool("SYMTAB_ANALYSIS_HYDRATE_ON_LOOKUP"); ok {
		cfg.Analysis.HydrateOnLookup = &val
	}

	setEnvString(&cfg.Builtins.Catalog, "SYMTAB_BUILTINS_CATALOG")

	setEnvBool(&cfg.Export.Enabled, "SYMTAB_EXPORT_ENABLED")
	setEnvString(&cfg.Export.Path, "SYMTAB_EXPORT_PATH")
	setEnvString(&cfg.Export.ProjectKey, "SYMTAB_EXPORT_PROJECT_KEY")

	setEnvString(&cfg.Observability.MetricsAddress, "SYMTAB_OBSERVABILITY_METRICS_ADDRESS")
	setEnvString(&cfg.Observability.OTLPEndpoint, "SYMTAB_OBSERVABILITY_OTLP_ENDPOINT")
	setEnvString(&cfg.Observability.ServiceName, "SYMTAB_OBSERVABILITY_SERVICE_NAME")
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = val
	}
}

func setEnvBool(target *bool, key string) {
	if val, ok := lookupBool(key); ok {
		*target = val
	}
}

func lookupBool(key string) (bool, bool) {
	val, ok := os.LookupEnv(key)
	if !ok {
		return false, false
	}
	b, err := strconv.ParseBool(strings.ToLower(val))
	if err != nil {
		slog.Warn("ignoring malformed env override", "key", key, "value", val)
		return false, false
	}
	slog.Debug("applying env override", "key", key, "value", val)
	return b, true
}
