// Package config loads squaremap's TOML configuration file.
//
// The file lives at $XDG_CONFIG_HOME/squaremap/config.toml (or
// ~/.config/squaremap/config.toml) unless --config names another one. Every
// key is optional; command-line flags that are set explicitly take
// precedence over the file, and the file takes precedence over built-in
// defaults.
//
//	width = 600
//	height = 400
//	format = "svg"
//	background = "#f8f8f8"
//	stroke = 0
//	order = "name"
//	category_column = "Region"
//	subcategory_column = "State"
//
//	[serve]
//	addr = ":9000"
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	apperrors "github.com/matzehuels/squaremap/pkg/errors"
)

const (
	appName  = "squaremap"
	fileName = "config.toml"

	// DefaultAddr is the listen address of the serve command.
	DefaultAddr = ":8080"
	// DefaultMaxBodyBytes bounds uploaded data files.
	DefaultMaxBodyBytes = 32 << 20
)

// Config mirrors the file layout. Zero values mean "not set".
type Config struct {
	Width             int      `toml:"width"`
	Height            int      `toml:"height"`
	Format            string   `toml:"format"`
	Background        string   `toml:"background"`
	Stroke            *float64 `toml:"stroke"`
	Order             string   `toml:"order"`
	CategoryColumn    string   `toml:"category_column"`
	SubcategoryColumn string   `toml:"subcategory_column"`
	Sheet             string   `toml:"sheet"`
	NoCache           bool     `toml:"no_cache"`
	Serve             Serve    `toml:"serve"`
}

// Serve configures the HTTP server.
type Serve struct {
	Addr         string `toml:"addr"`
	MaxBodyBytes int64  `toml:"max_body_bytes"`
}

// SetServeDefaults fills empty server settings.
func (c *Config) SetServeDefaults() {
	if c.Serve.Addr == "" {
		c.Serve.Addr = DefaultAddr
	}
	if c.Serve.MaxBodyBytes <= 0 {
		c.Serve.MaxBodyBytes = DefaultMaxBodyBytes
	}
}

// DefaultPath returns the XDG location of the config file.
func DefaultPath() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName, fileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, fileName), nil
}

// Parse decodes a config document. The returned slice lists keys that were
// present but not recognised.
func Parse(data []byte) (Config, []string, error) {
	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "parse config")
	}
	return cfg, undecoded(md), nil
}

// Load reads the config file at path. When path is empty the default
// location is used, and a missing default file yields an empty Config. A
// missing explicit path is an error.
func Load(path string) (Config, []string, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Config{}, nil, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		if explicit {
			return Config{}, nil, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return Config{}, nil, nil
	}
	if err != nil {
		return Config{}, nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "read config %s", path)
	}

	cfg, unknown, err := Parse(data)
	if err != nil {
		return Config{}, nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, unknown, nil
}

func undecoded(md toml.MetaData) []string {
	keys := md.Undecoded()
	if len(keys) == 0 {
		return nil
	}
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = k.String()
	}
	return out
}
