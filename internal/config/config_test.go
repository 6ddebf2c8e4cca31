package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := loadDefaults()
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	if cfg.Community != "Hypnotheraai" {
		t.Errorf("expected default community, got %q", cfg.Community)
	}
	if cfg.GetReplyQuota() != 3 {
		t.Errorf("expected default quota 3, got %d", cfg.GetReplyQuota())
	}
	if cfg.GetBaseURL() == "" {
		t.Error("expected a default base url")
	}
}

func TestLoadCustomConfig(t *testing.T) {
	path := writeConfig(t, `
community: TestSub
reply_quota: 5
bridge:
  command: /usr/local/bin/poster
  args: ["--headless"]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Community != "TestSub" {
		t.Errorf("community = %q", cfg.Community)
	}
	if cfg.GetReplyQuota() != 5 {
		t.Errorf("quota = %d", cfg.GetReplyQuota())
	}
	if cfg.Bridge.Command != "/usr/local/bin/poster" {
		t.Errorf("bridge command = %q", cfg.Bridge.Command)
	}
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Community != "Hypnotheraai" {
		t.Errorf("expected defaults, got %q", cfg.Community)
	}

	// Defaults should have been written for next time.
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected defaults written to %s: %v", path, err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"valid", Config{Community: "X"}, true},
		{"missing community", Config{}, false},
		{"negative quota", Config{Community: "X", ReplyQuota: -1}, false},
		{"negative limit", Config{Community: "X", FetchLimit: -1}, false},
		{"missing catalog file", Config{Community: "X", Catalog: "/does/not/exist.yaml"}, false},
	}

	for _, tt := range tests {
		err := validate(&tt.cfg)
		if tt.ok && err != nil {
			t.Errorf("%s: unexpected error: %v", tt.name, err)
		}
		if !tt.ok && err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestCredentialsFromEnv(t *testing.T) {
	t.Setenv("REDDIT_USERNAME", "bot")
	t.Setenv("REDDIT_PASSWORD", "secret")
	t.Setenv("PACKETSTREAM_PROXY", "http://proxy:1234")

	creds := Credentials()
	if creds.Username != "bot" || creds.Password != "secret" || creds.Proxy != "http://proxy:1234" {
		t.Errorf("unexpected credentials: %+v", creds)
	}
}
