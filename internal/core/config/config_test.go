package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "symtab.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
version = 1

[analysis]
dead_code_detection = true
hydrate_on_lookup = false

[builtins]
catalog = " builtins.toml "
exclude = ["mysql_*", "", "ereg*"]
stubs = ["stubs/app.toml"]

[export]
enabled = true
path = "out/symbols.db"
project_key = "shop"
busy_timeout = "2s"

[observability]
metrics_address = "127.0.0.1:9464"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !cfg.Analysis.DeadCodeDetection {
		t.Error("expected dead code detection enabled")
	}
	if cfg.Analysis.HydrateOnLookupEnabled() {
		t.Error("expected hydrate_on_lookup to be disabled")
	}
	if cfg.Builtins.Catalog != "builtins.toml" {
		t.Errorf("expected trimmed catalog path, got %q", cfg.Builtins.Catalog)
	}
	if len(cfg.Builtins.Exclude) != 2 {
		t.Errorf("expected blank exclude pattern dropped, got %v", cfg.Builtins.Exclude)
	}
	if cfg.Export.ProjectKey != "shop" || cfg.Export.BusyTimeout != 2*time.Second {
		t.Errorf("unexpected export section: %+v", cfg.Export)
	}
	if cfg.Observability.ServiceName != DefaultServiceName {
		t.Errorf("expected default service name, got %q", cfg.Observability.ServiceName)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Version != 1 {
		t.Errorf("expected version 1, got %d", cfg.Version)
	}
	if !cfg.Analysis.HydrateOnLookupEnabled() {
		t.Error("expected hydrate_on_lookup to default to true")
	}
	if cfg.Export.Path != DefaultExportPath || cfg.Export.ProjectKey != DefaultProjectKey {
		t.Errorf("unexpected export defaults: %+v", cfg.Export)
	}
	if cfg.Export.Enabled {
		t.Error("export must be opt-in")
	}
}

func TestDefaultMatchesEmptyFile(t *testing.T) {
	cfg := Default()
	if errs := Validate(cfg); len(errs) != 0 {
		t.Fatalf("default config invalid: %v", errs)
	}
	if cfg.Builtins.Catalog != "" {
		t.Errorf("expected embedded catalog by default, got %q", cfg.Builtins.Catalog)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "version",
			content: "version = 3\n",
			want:    "unsupported config version",
		},
		{
			name:    "exclude pattern",
			content: "[builtins]\nexclude = [\"[oops\"]\n",
			want:    "builtins.exclude[0]",
		},
		{
			name:    "duplicate stub",
			content: "[builtins]\nstubs = [\"a.toml\", \"a.toml\"]\n",
			want:    "duplicate stub",
		},
		{
			name:    "metrics address",
			content: "[observability]\nmetrics_address = \"not-an-address\"\n",
			want:    "metrics_address",
		},
		{
			name:    "syntax",
			content: "[analysis\n",
			want:    "decode config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected %q in error, got %v", tt.want, err)
			}
		})
	}
}

func TestExportPathMustNotBeDirectory(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Export.Enabled = true
	cfg.Export.Path = dir
	if err := validateExport(cfg); err == nil {
		t.Fatal("expected directory export path to be rejected")
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("SYMTAB_ANALYSIS_HYDRATE_ON_LOOKUP", "false")
	t.Setenv("SYMTAB_EXPORT_ENABLED", "true")
	t.Setenv("SYMTAB_EXPORT_PROJECT_KEY", "ci")
	t.Setenv("SYMTAB_ANALYSIS_DEAD_CODE_DETECTION", "not-a-bool")

	cfg := Default()
	ApplyEnvOverrides(cfg)

	if cfg.Analysis.HydrateOnLookupEnabled() {
		t.Error("expected env to disable hydrate_on_lookup")
	}
	if !cfg.Export.Enabled || cfg.Export.ProjectKey != "ci" {
		t.Errorf("unexpected export overrides: %+v", cfg.Export)
	}
	if cfg.Analysis.DeadCodeDetection {
		t.Error("malformed bool override must be ignored")
	}
}
