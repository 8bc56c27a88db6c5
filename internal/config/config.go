// Package config resolves board settings from the config file, BOARD_* environment
// variables and command-line flags (in increasing precedence).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/viper"
)

const (
	KeyDataDir          = "data_dir"
	KeyStore            = "store"
	KeyExportDir        = "export_dir"
	KeyDictationCommand = "dictation.command"
	KeySpeechCommand    = "speech.command"
	KeyLogFile          = "log.file"
	KeyLogLevel         = "log.level"
	KeyTUIPreview       = "tui.preview"
)

type Config struct {
	DataDir   string
	Store     string
	ExportDir string

	// Argv of the external recognizer / synthesizer; empty means not configured
	// (speech falls back to auto-detection).
	DictationCommand []string
	SpeechCommand    []string

	LogFile  string
	LogLevel string

	Preview bool

	// File is the config file that was read, if any.
	File string
}

// Dir returns the directory holding config.yaml and, by default, board data.
func Dir() (string, error) {
	// Test/advanced override (keeps unit tests from touching the home dir).
	if v := strings.TrimSpace(os.Getenv("BOARD_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".meeting-board"), nil
}

// New returns a viper instance with defaults and env bindings applied.
func New() (*viper.Viper, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	v := viper.New()
	v.SetDefault(KeyDataDir, dir)
	v.SetDefault(KeyStore, "sqlite")
	v.SetDefault(KeyExportDir, ".")
	v.SetDefault(KeyDictationCommand, "")
	v.SetDefault(KeySpeechCommand, "")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyTUIPreview, false)

	v.SetEnvPrefix("BOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v, nil
}

// Load reads the config file (explicit path, or config.yaml in Dir) into v and
// decodes the result. A missing default config file is not an error.
func Load(v *viper.Viper, file string) (*Config, error) {
	if strings.TrimSpace(file) != "" {
		v.SetConfigFile(file)
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || strings.TrimSpace(file) != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	dictation, err := splitCommand(v.GetString(KeyDictationCommand))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", KeyDictationCommand, err)
	}
	speech, err := splitCommand(v.GetString(KeySpeechCommand))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", KeySpeechCommand, err)
	}

	return &Config{
		DataDir:          expandHome(v.GetString(KeyDataDir)),
		Store:            strings.ToLower(strings.TrimSpace(v.GetString(KeyStore))),
		ExportDir:        expandHome(v.GetString(KeyExportDir)),
		DictationCommand: dictation,
		SpeechCommand:    speech,
		LogFile:          expandHome(v.GetString(KeyLogFile)),
		LogLevel:         v.GetString(KeyLogLevel),
		Preview:          v.GetBool(KeyTUIPreview),
		File:             v.ConfigFileUsed(),
	}, nil
}

func splitCommand(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	return shellquote.Split(s)
}

func expandHome(p string) string {
	p = strings.TrimSpace(p)
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
