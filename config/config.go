package config

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/check-weather/check_weather/iface"
)

const (
	appDir   = "check_weather"
	fileName = "config.yaml"
)

// Config is the on-disk layout of the config file.
type Config struct {
	APIKey string `yaml:"api_key"`
}

// KeyChecker verifies an API key against the weather provider.
type KeyChecker interface {
	CheckAPIKey(ctx context.Context, key string) error
}

// Store persists the API key to a single file. The file location is
// resolved on first use, so commands that never touch the key work without
// a config directory.
type Store struct {
	path    string
	resolve func() (string, error)
}

// DefaultPath returns the config file location below the per-user config
// directory of the OS.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", iface.Wrap(iface.DirError, err, "locating user config directory")
	}
	return filepath.Join(dir, appDir, fileName), nil
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// NewStoreFunc returns a Store whose path comes from resolve the first time
// the file is read or written. NewStoreFunc(DefaultPath) is the default.
func NewStoreFunc(resolve func() (string, error)) *Store {
	return &Store{resolve: resolve}
}

// Path returns the config file location. A resolver failure is a DirError.
func (s *Store) Path() (string, error) {
	if s.path == "" && s.resolve != nil {
		p, err := s.resolve()
		if err != nil {
			if iface.KindOf(err) == iface.UnknownError {
				err = iface.Wrap(iface.DirError, err, "locating config file")
			}
			return "", err
		}
		s.path = p
	}
	if s.path == "" {
		return "", iface.Errorf(iface.DirError, "no config file location")
	}
	return s.path, nil
}

// Init validates key with checker and saves it on success. Nothing is
// written when the check fails.
func (s *Store) Init(ctx context.Context, key string, checker KeyChecker) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return iface.Errorf(iface.APIKeyError, "empty api key")
	}
	if _, err := s.Path(); err != nil {
		return err
	}
	if err := checker.CheckAPIKey(ctx, key); err != nil {
		return err
	}
	return s.Save(key)
}

// Save writes key to the config file, creating parent directories as needed.
func (s *Store) Save(key string) error {
	path, err := s.Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return iface.Wrap(iface.DirError, err, "creating config directory")
	}
	b, err := yaml.Marshal(Config{APIKey: key})
	if err != nil {
		return iface.Wrap(iface.FileWriteError, err, "encoding config")
	}
	if err := os.WriteFile(path, b, 0600); err != nil {
		return iface.Wrap(iface.FileWriteError, err, "writing config")
	}
	return nil
}

// Load reads the API key back.
func (s *Store) Load() (string, error) {
	path, err := s.Path()
	if err != nil {
		return "", err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", iface.Wrap(iface.FileNotFound, err, "reading config")
	}

	var c Config
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return "", iface.Wrap(iface.FileStructureError, err, "parsing "+path)
	}
	if c.APIKey == "" {
		return "", iface.Errorf(iface.FileStructureError, "%s: api_key is missing", path)
	}
	return c.APIKey, nil
}
