package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want :8080", cfg.HTTPAddr)
	}
	if cfg.Session.LocateAttempts != 10 {
		t.Errorf("LocateAttempts = %d, want 10", cfg.Session.LocateAttempts)
	}
	if cfg.Session.LocateInterval != 200*time.Millisecond {
		t.Errorf("LocateInterval = %v, want 200ms", cfg.Session.LocateInterval)
	}
	if cfg.Session.LeaveDeadline != 2*time.Second {
		t.Errorf("LeaveDeadline = %v, want 2s", cfg.Session.LeaveDeadline)
	}
	if cfg.Grid.PollInterval != 5*time.Second {
		t.Errorf("Grid.PollInterval = %v, want 5s", cfg.Grid.PollInterval)
	}
}

func TestLoadFile_OverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
client_key: file-key
http_addr: ":9090"
session:
  locate_attempts: 3
  leave_deadline: 500ms
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg := Default()
	if err := LoadFile(path, cfg); err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.ClientKey != "file-key" {
		t.Errorf("ClientKey = %q, want file-key", cfg.ClientKey)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Errorf("HTTPAddr = %q, want :9090", cfg.HTTPAddr)
	}
	if cfg.Session.LocateAttempts != 3 {
		t.Errorf("LocateAttempts = %d, want 3", cfg.Session.LocateAttempts)
	}
	if cfg.Session.LeaveDeadline != 500*time.Millisecond {
		t.Errorf("LeaveDeadline = %v, want 500ms", cfg.Session.LeaveDeadline)
	}

	// Keys the file omits keep their defaults.
	if cfg.Session.LocateInterval != 200*time.Millisecond {
		t.Errorf("LocateInterval = %v, want default 200ms", cfg.Session.LocateInterval)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want default info", cfg.LogLevel)
	}
}

func TestLoadFile_MissingFile(t *testing.T) {
	cfg := Default()
	if err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"), cfg); err == nil {
		t.Error("LoadFile on a missing file should fail")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		secret  string
		wantErr error
	}{
		{"complete", "key", "secret", nil},
		{"missing key", "", "secret", ErrMissingClientKey},
		{"missing secret", "key", "", ErrMissingClientSecret},
		{"missing both reports key first", "", "", ErrMissingClientKey},
	}

	for _, test := range tests {
		cfg := Default()
		cfg.ClientKey = test.key
		cfg.ClientSecret = test.secret

		if err := cfg.Validate(); !errors.Is(err, test.wantErr) {
			t.Errorf("%s: Validate() = %v, want %v", test.name, err, test.wantErr)
		}
	}
}
