package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}
	return path
}

func TestLoadServer(t *testing.T) {
	t.Run("Empty Path Uses Defaults", func(t *testing.T) {
		cfg, err := LoadServer("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Addr != ":8080" {
			t.Errorf("addr = %q, want :8080", cfg.Addr)
		}
		if cfg.HTTPTimeout != 30*time.Second {
			t.Errorf("http_timeout = %v, want 30s", cfg.HTTPTimeout)
		}
	})

	t.Run("File Overrides Defaults", func(t *testing.T) {
		path := writeConfig(t, `
addr: ":9090"
http_timeout: 10s
audit:
  enabled: true
  type: memory
zoom:
  api_base_url: "https://api.zoom.us/v2"
`)
		cfg, err := LoadServer(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Addr != ":9090" {
			t.Errorf("addr = %q, want :9090", cfg.Addr)
		}
		if cfg.HTTPTimeout != 10*time.Second {
			t.Errorf("http_timeout = %v, want 10s", cfg.HTTPTimeout)
		}
		if !cfg.Audit.Enabled || cfg.Audit.Type != "memory" {
			t.Errorf("audit = %+v", cfg.Audit)
		}
	})

	t.Run("Missing File", func(t *testing.T) {
		if _, err := LoadServer(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Fatal("expected an error")
		}
	})
}

func TestServerValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Server)
		wantErr bool
	}{
		{
			name:   "Defaults Are Valid",
			mutate: func(*Server) {},
		},
		{
			name:    "Empty Addr",
			mutate:  func(c *Server) { c.Addr = "" },
			wantErr: true,
		},
		{
			name:    "Zero Timeout",
			mutate:  func(c *Server) { c.HTTPTimeout = 0 },
			wantErr: true,
		},
		{
			name:    "File Audit Without Path",
			mutate:  func(c *Server) { c.Audit = AuditConfig{Enabled: true, Type: "file"} },
			wantErr: true,
		},
		{
			name:   "File Audit With Path",
			mutate: func(c *Server) { c.Audit = AuditConfig{Enabled: true, Type: "file", Path: "/tmp/audit.log"} },
		},
		{
			name:    "Unknown Audit Type",
			mutate:  func(c *Server) { c.Audit = AuditConfig{Enabled: true, Type: "syslog"} },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultServer()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
