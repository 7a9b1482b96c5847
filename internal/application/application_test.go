package application

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/angelajfisher/conference-bridge/internal/types"
)

func TestValidateEnvDevMode(t *testing.T) {
	t.Setenv("BRIDGE_SECRET", "")
	t.Setenv("BOT_TOKEN", "token")
	t.Setenv("APP_ID", "app")

	s, err := validateEnv(Options{DevMode: true, DBDisabled: true, Port: ":9999"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if s.server.Port != ":9999" {
		t.Errorf("expected flag port :9999, got %s", s.server.Port)
	}
	if s.server.BaseURL != "/projects/conference-bridge" {
		t.Errorf("expected default base URL, got %s", s.server.BaseURL)
	}
	if s.database.Enabled {
		t.Error("expected database to be disabled")
	}
	if !s.bot.Enabled() {
		t.Error("expected bot to pick up BOT_TOKEN and APP_ID")
	}
	if s.configPath != "" {
		t.Errorf("expected no config to watch, got %s", s.configPath)
	}
}

func TestValidateEnvProductionRequirements(t *testing.T) {
	t.Setenv("SSL_CERT", "")
	t.Setenv("SSL_KEY", "")
	t.Setenv("BRIDGE_SECRET", "")

	if _, err := validateEnv(Options{DBDisabled: true}); err == nil {
		t.Error("expected an error without SSL_CERT and SSL_KEY")
	}

	t.Setenv("SSL_CERT", "cert.pem")
	t.Setenv("SSL_KEY", "key.pem")
	if _, err := validateEnv(Options{DBDisabled: true}); err == nil {
		t.Error("expected an error without BRIDGE_SECRET")
	}

	t.Setenv("BRIDGE_SECRET", "s3cret")
	s, err := validateEnv(Options{DBDisabled: true})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if s.server.Secret != "s3cret" || s.server.DevMode {
		t.Errorf("expected a signed production server, got %+v", s.server)
	}
}

func TestValidateEnvConfigFileAndDatabase(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "bridge.yaml")
	content := "base_url: /bridge\nnotify:\n  kinds: [CONFERENCE_TERMINATED]\n"
	if err := os.WriteFile(configPath, []byte(content), 0o600); err != nil {
		t.Fatalf("could not write config: %v", err)
	}

	s, err := validateEnv(Options{
		DevMode:    true,
		ConfigPath: configPath,
		DBPath:     filepath.Join(dir, "bridge.sqlite3"),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	t.Cleanup(func() { s.database.Close() })

	if s.server.BaseURL != "/bridge" {
		t.Errorf("expected /bridge, got %s", s.server.BaseURL)
	}
	if !s.database.Enabled {
		t.Error("expected database to be enabled")
	}
	if s.configPath != configPath {
		t.Errorf("expected config to be watched, got %q", s.configPath)
	}
	if want := []types.EventKind{types.ConferenceTerminated}; !reflect.DeepEqual(s.orchestrator.DefaultKinds(), want) {
		t.Errorf("expected default kinds %v, got %v", want, s.orchestrator.DefaultKinds())
	}
}

func TestValidateEnvMissingEnvFile(t *testing.T) {
	if _, err := validateEnv(Options{DevMode: true, DBDisabled: true, EnvPath: "/nonexistent/.env"}); err == nil {
		t.Error("expected an error for a missing .env file")
	}
}
