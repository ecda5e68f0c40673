package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	return path
}

// chdirTemp moves into an empty directory so no ./config.yaml is found.
func chdirTemp(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
}

const validYAML = `
api:
  base_url: "http://127.0.0.1:8000"
  token: "tok"
  rating_timeout: "3s"
  retry:
    max_attempts: 4
    initial_wait: "500ms"
    max_wait: "4s"

store:
  path: "/tmp/cards.db"

log:
  level: "debug"
  format: "json"
  file: "/tmp/cards.log"

study:
  limit: 25
  include_new: false
  new_limit: 5
`

func TestLoad_ValidYAML(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeYAML(t, validYAML))

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.API.BaseURL != "http://127.0.0.1:8000" || cfg.API.Token != "tok" {
		t.Errorf("API = %+v", cfg.API)
	}
	if cfg.API.RatingTimeout != 3*time.Second {
		t.Errorf("RatingTimeout = %v, want 3s", cfg.API.RatingTimeout)
	}
	if cfg.API.QueueTimeout != 30*time.Second {
		t.Errorf("QueueTimeout = %v, want default 30s", cfg.API.QueueTimeout)
	}
	if cfg.API.Retry.MaxAttempts != 4 || cfg.API.Retry.InitialWait != 500*time.Millisecond {
		t.Errorf("Retry = %+v", cfg.API.Retry)
	}
	if cfg.Store.Path != "/tmp/cards.db" {
		t.Errorf("Store.Path = %q", cfg.Store.Path)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v", cfg.Log)
	}
	opts := cfg.Study.QueueOptions()
	if opts.Limit != 25 || opts.NewLimit != 5 || opts.IncludeNew == nil || *opts.IncludeNew {
		t.Errorf("QueueOptions() = %+v", opts)
	}
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	chdirTemp(t)
	t.Setenv("CONFIG_PATH", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if !cfg.API.Offline() {
		t.Error("expected offline without a base URL")
	}
	if cfg.API.RatingTimeout != 5*time.Second || cfg.API.SyncTimeout != 10*time.Second {
		t.Errorf("timeouts = %v/%v, want 5s/10s", cfg.API.RatingTimeout, cfg.API.SyncTimeout)
	}
	if cfg.Study.Limit != 50 || cfg.Study.NewLimit != 20 || !cfg.Study.IncludeNew {
		t.Errorf("Study = %+v, want 50/20/true", cfg.Study)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Errorf("Log = %+v", cfg.Log)
	}
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeYAML(t, validYAML))
	t.Setenv("CARDS_STUDY_API_URL", "https://cards.example.com")
	t.Setenv("CARDS_STUDY_LIMIT", "100")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.API.BaseURL != "https://cards.example.com" {
		t.Errorf("BaseURL = %q, want env value", cfg.API.BaseURL)
	}
	if cfg.Study.Limit != 100 {
		t.Errorf("Limit = %d, want 100", cfg.Study.Limit)
	}
}

func TestLoad_ExplicitPathWins(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "absent.yaml"))
	path := writeYAML(t, "study:\n  limit: 7\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Study.Limit != 7 {
		t.Errorf("Limit = %d, want 7", cfg.Study.Limit)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "absent.yaml"))

	if _, err := Load(""); err == nil {
		t.Fatal("Load() succeeded with a missing CONFIG_PATH file")
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"limit too high", "study:\n  limit: 500\n", "Limit"},
		{"new limit too high", "study:\n  new_limit: 80\n", "NewLimit"},
		{"bad log level", "log:\n  level: loud\n", "Level"},
		{"bad base url", "api:\n  base_url: \"not a url\"\n", "BaseURL"},
		{"max wait below initial", "api:\n  retry:\n    initial_wait: \"5s\"\n    max_wait: \"1s\"\n", "MaxWait"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdirTemp(t)
			t.Setenv("CONFIG_PATH", writeYAML(t, tt.yaml))

			_, err := Load("")
			if err == nil {
				t.Fatal("Load() succeeded, want validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want mention of %s", err, tt.want)
			}
		})
	}
}

func TestLoad_IncludeNew(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		env  string
		want bool
	}{
		{"yaml false is kept", "study:\n  include_new: false\n", "", false},
		{"yaml true", "study:\n  include_new: true\n", "", true},
		{"absent defaults to true", "study:\n  limit: 10\n", "", true},
		{"env overrides yaml", "study:\n  include_new: true\n", "false", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CONFIG_PATH", writeYAML(t, tt.yaml))
			if tt.env != "" {
				t.Setenv("CARDS_STUDY_INCLUDE_NEW", tt.env)
			}

			cfg, err := Load("")
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			if cfg.Study.IncludeNew != tt.want {
				t.Errorf("IncludeNew = %v, want %v", cfg.Study.IncludeNew, tt.want)
			}
		})
	}
}
