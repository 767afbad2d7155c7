// Package config loads the portal connection settings the CLI passes to
// every task invocation.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
	"go.yaml.in/yaml/v3"

	"github.com/bloxops/b1apply/internal/bloxone"
)

// DefaultPath is used when no config file is given and the
// B1APPLY_CONFIG_PATH environment variable is unset.
const DefaultPath = "configs/b1apply.yaml"

// Config holds the portal connection settings. All fields fall back to
// the BLOXONE_* environment variables when unset.
type Config struct {
	CSPURL     string `yaml:"csp_url"`
	APIKey     string `yaml:"api_key"`
	ClientName string `yaml:"client_name"`
}

// Load reads the config from the given path. An empty path falls back to
// the B1APPLY_CONFIG_PATH environment variable, then DefaultPath; in that
// case a missing file is fine and yields an empty config, so credentials
// can come entirely from the environment.
func Load(fsys afero.Fs, path string) (*Config, error) {
	explicit := path != ""
	if path == "" {
		path = os.Getenv("B1APPLY_CONFIG_PATH")
	}
	if path == "" {
		path = DefaultPath
	}

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Expand ${ENV_VAR} references so keys never live in the file itself.
	cfg.CSPURL = os.ExpandEnv(cfg.CSPURL)
	cfg.APIKey = os.ExpandEnv(cfg.APIKey)
	cfg.ClientName = os.ExpandEnv(cfg.ClientName)

	return &cfg, nil
}

// Bloxone converts the config into the client's settings. Environment
// fallbacks and defaults apply when the client is constructed.
func (c *Config) Bloxone() bloxone.Config {
	return bloxone.Config{
		CSPURL:     c.CSPURL,
		APIKey:     c.APIKey,
		ClientName: c.ClientName,
	}
}
