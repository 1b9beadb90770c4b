package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Settings is the per-user configuration (~/.smeta/config.yaml).
type Settings struct {
	Connection ConnParams `yaml:"connection"`

	// Lang selects kind-words in outlines and panels ("ru" or "en").
	Lang string `yaml:"lang,omitempty"`
	// Orphans is the orphan policy: drop, warn or strict.
	Orphans string `yaml:"orphans,omitempty"`
	// PersistTypes controls whether display-type changes are written back; nil means yes.
	PersistTypes *bool `yaml:"persistTypes,omitempty"`
	// LogFile enables structured logging to the given path.
	LogFile string `yaml:"logFile,omitempty"`
}

func (s Settings) PersistTypesEnabled() bool {
	return s.PersistTypes == nil || *s.PersistTypes
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.smeta).
	if v := strings.TrimSpace(os.Getenv("SMETA_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".smeta"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// LoadSettings reads the settings file; a missing file yields defaults.
func LoadSettings() (*Settings, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Settings{Connection: DefaultConnParams()}, nil
		}
		return nil, err
	}
	cfg := Settings{Connection: DefaultConnParams()}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	if t, err := ParseDBType(string(cfg.Connection.DBType)); err == nil {
		cfg.Connection.DBType = t
	}
	return &cfg, nil
}

func SaveSettings(cfg *Settings) error {
	if cfg == nil {
		return errors.New("nil settings")
	}
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	// The file may hold a database password.
	return atomicWriteFile(dir, "config.yaml.*.tmp", path, b, 0o600)
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}
