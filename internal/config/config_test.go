package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoad_DefaultsWithoutConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("BOARD_CONFIG_DIR", dir)

	v, err := New()
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	cfg, err := Load(v, "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DataDir != dir || cfg.Store != "sqlite" || cfg.LogLevel != "warn" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.DictationCommand != nil || cfg.File != "" {
		t.Fatalf("expected no dictation command and no file: %+v", cfg)
	}
}

func TestLoad_ReadsYAMLAndSplitsCommands(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("BOARD_CONFIG_DIR", dir)
	yml := `
store: file
dictation:
  command: whisper-stream --model 'base en'
speech:
  command: espeak-ng -s 160
tui:
  preview: true
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yml), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	v, _ := New()
	cfg, err := Load(v, "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Store != "file" || !cfg.Preview {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if want := []string{"whisper-stream", "--model", "base en"}; !reflect.DeepEqual(cfg.DictationCommand, want) {
		t.Fatalf("dictation argv=%v, want %v", cfg.DictationCommand, want)
	}
	if want := []string{"espeak-ng", "-s", "160"}; !reflect.DeepEqual(cfg.SpeechCommand, want) {
		t.Fatalf("speech argv=%v, want %v", cfg.SpeechCommand, want)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("BOARD_CONFIG_DIR", dir)
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("store: file\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("BOARD_STORE", "memory")
	t.Setenv("BOARD_LOG_LEVEL", "debug")

	v, _ := New()
	cfg, err := Load(v, "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Store != "memory" || cfg.LogLevel != "debug" {
		t.Fatalf("expected env overrides, got %+v", cfg)
	}
}

func TestLoad_ExplicitMissingFileIsError(t *testing.T) {
	t.Setenv("BOARD_CONFIG_DIR", t.TempDir())
	v, _ := New()
	if _, err := Load(v, filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing explicit config")
	}
}

func TestLoad_BadCommandQuoting(t *testing.T) {
	t.Setenv("BOARD_CONFIG_DIR", t.TempDir())
	t.Setenv("BOARD_DICTATION_COMMAND", "rec 'unterminated")
	v, _ := New()
	if _, err := Load(v, ""); err == nil {
		t.Fatalf("expected quoting error")
	}
}
