package config

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/angelajfisher/conference-bridge/internal/types"
)

func writeFile(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("could not write %s: %v", path, err)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	for _, path := range []string{"", "/nonexistent/path/bridge.yaml"} {
		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("expected no error for %q, got %v", path, err)
		}
		if !reflect.DeepEqual(cfg, DefaultConfig()) {
			t.Errorf("expected defaults for %q, got %+v", path, cfg)
		}
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bridge.yaml")
	writeFile(t, path, `
port: ":8080"
notify:
  kinds:
    - PARTICIPANT_JOINED
    - PARTICIPANT_LEFT
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Port != ":8080" {
		t.Errorf("expected port :8080, got %s", cfg.Port)
	}
	if cfg.BaseURL != DefaultConfig().BaseURL {
		t.Errorf("expected default base URL, got %s", cfg.BaseURL)
	}

	kinds, err := cfg.NotifyKinds()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if want := []types.EventKind{types.ParticipantJoined, types.ParticipantLeft}; !reflect.DeepEqual(kinds, want) {
		t.Errorf("expected %v, got %v", want, kinds)
	}
}

func TestLoadConfigRejectsUnknownKind(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bridge.yaml")
	writeFile(t, path, "notify:\n  kinds: [participant_joined]\n")

	if _, err := LoadConfig(path); err == nil {
		t.Error("expected an error for a lower-case short name")
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bridge.yaml")
	writeFile(t, path, "port: [unterminated\n")

	if _, err := LoadConfig(path); err == nil {
		t.Error("expected a parse error")
	}
}

func TestReloaderPicksUpChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bridge.yaml")
	writeFile(t, path, "notify:\n  kinds: [CONFERENCE_JOINED]\n")

	changes := make(chan Config, 4)
	r, err := NewReloader(path, func(cfg Config) { changes <- cfg })
	if err != nil {
		t.Fatalf("could not create reloader: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	writeFile(t, path, "notify:\n  kinds: [CONFERENCE_TERMINATED]\n")

	select {
	case cfg := <-changes:
		if want := []string{"CONFERENCE_TERMINATED"}; !reflect.DeepEqual(cfg.Notify.Kinds, want) {
			t.Errorf("expected %v, got %v", want, cfg.Notify.Kinds)
		}
	case <-time.After(5 * time.Second):
		t.Error("expected a reload within 5s")
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("expected clean stop, got %v", err)
	}
}

func expectReload(t *testing.T, changes <-chan Config, want []string) {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case cfg := <-changes:
			if reflect.DeepEqual(cfg.Notify.Kinds, want) {
				return
			}
		case <-timeout:
			t.Fatalf("expected a reload to %v within 5s", want)
		}
	}
}

func TestReloaderSurvivesReplacedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bridge.yaml")
	writeFile(t, path, "notify:\n  kinds: [CONFERENCE_JOINED]\n")

	changes := make(chan Config, 16)
	r, err := NewReloader(path, func(cfg Config) { changes <- cfg })
	if err != nil {
		t.Fatalf("could not create reloader: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	// editors save by writing a sibling file and renaming it over the original
	tmp := filepath.Join(dir, "bridge.yaml.tmp")
	writeFile(t, tmp, "notify:\n  kinds: [PARTICIPANT_JOINED]\n")
	if err := os.Rename(tmp, path); err != nil {
		t.Fatalf("could not rename: %v", err)
	}
	expectReload(t, changes, []string{"PARTICIPANT_JOINED"})

	writeFile(t, path, "notify:\n  kinds: [PARTICIPANT_LEFT]\n")
	expectReload(t, changes, []string{"PARTICIPANT_LEFT"})

	cancel()
	if err := <-done; err != nil {
		t.Errorf("expected clean stop, got %v", err)
	}
}

func TestReloaderIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bridge.yaml")
	writeFile(t, path, "notify:\n  kinds: [CONFERENCE_JOINED]\n")

	changes := make(chan Config, 4)
	r, err := NewReloader(path, func(cfg Config) { changes <- cfg })
	if err != nil {
		t.Fatalf("could not create reloader: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	writeFile(t, filepath.Join(dir, "other.yaml"), "notify:\n  kinds: [PARTICIPANT_LEFT]\n")

	select {
	case cfg := <-changes:
		t.Errorf("expected no reload, got %+v", cfg)
	case <-time.After(2 * reloadDebounce):
	}

	cancel()
	<-done
}

func TestNewReloaderMissingFile(t *testing.T) {
	if _, err := NewReloader(filepath.Join(t.TempDir(), "missing.yaml"), func(Config) {}); err == nil {
		t.Error("expected an error for a missing file")
	}
}
