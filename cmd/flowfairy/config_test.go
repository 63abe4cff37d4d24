package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	t.Run("missing file is zero config", func(t *testing.T) {
		got, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		if err != nil {
			t.Fatalf("LoadConfig returned error: %v", err)
		}
		if got.LogLevel != "" || got.Workers != nil {
			t.Fatalf("expected zero config, got %+v", got)
		}
	})

	t.Run("empty path", func(t *testing.T) {
		if _, err := LoadConfig(""); err != nil {
			t.Fatalf("LoadConfig returned error: %v", err)
		}
	})

	t.Run("values", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		body := "log_level: debug\nlog_format: json\nlenient_keywords: true\nworkers: 3\n" +
			"server_address: 0.0.0.0:9000\nmax_upload_bytes: 1024\nupload_rate: 2.5\nupload_burst: 7\n"
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}
		got, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig returned error: %v", err)
		}
		if got.LogLevel != "debug" || got.LogFormat != "json" || got.ServerAddress != "0.0.0.0:9000" {
			t.Fatalf("unexpected strings: %+v", got)
		}
		if got.LenientKeywords == nil || !*got.LenientKeywords {
			t.Fatalf("lenient_keywords not loaded")
		}
		if got.Workers == nil || *got.Workers != 3 {
			t.Fatalf("workers not loaded")
		}
		if got.MaxUploadBytes == nil || *got.MaxUploadBytes != 1024 {
			t.Fatalf("max_upload_bytes not loaded")
		}
		if got.UploadRate == nil || *got.UploadRate != 2.5 || got.UploadBurst == nil || *got.UploadBurst != 7 {
			t.Fatalf("upload limits not loaded")
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte("workers: [1, 2\n"), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}
		if _, err := LoadConfig(path); err == nil {
			t.Fatalf("expected parse error")
		}
	})
}

func TestResolveConfigPath(t *testing.T) {
	if got := resolveConfigPath("/etc/flowfairy.yaml"); got != "/etc/flowfairy.yaml" {
		t.Fatalf("explicit path: got %q", got)
	}

	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	want := filepath.Join("/tmp/xdg", "flowfairy", "config.yaml")
	if got := resolveConfigPath(""); got != want {
		t.Fatalf("default path: got %q want %q", got, want)
	}
}
