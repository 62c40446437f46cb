// Package config loads the user configuration of rnobuild.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/rno-g/rnobuild/internal/env"
	"gopkg.in/yaml.v3"
)

// EnvWorkDir overrides the default work directory.
const EnvWorkDir = "RNOBUILD_WORK_DIR"

// Config holds rnobuild configuration.
type Config struct {
	// WorkDir holds fetched sources, install prefixes and build caches.
	WorkDir string `yaml:"work_dir"`

	// Python is the interpreter used for Python bindings.
	Python string `yaml:"python,omitempty"`

	// EnvFile is a dotenv file with build overrides such as CC and CXX.
	// A relative path is relative to the config file.
	EnvFile string `yaml:"env_file,omitempty"`

	// Env holds build overrides with the lowest precedence.
	Env map[string]string `yaml:"env,omitempty"`

	// Externals maps dependencies without a recipe to their install prefix.
	Externals map[string]string `yaml:"externals,omitempty"`

	// Jobs is the build parallelism; 0 lets the build tool decide.
	Jobs int `yaml:"jobs,omitempty"`

	Debug bool `yaml:"debug,omitempty"`

	// path is the file the config was loaded from, if any.
	path string
}

// DefaultConfig returns a default configuration.
func DefaultConfig() *Config {
	return &Config{
		WorkDir:   defaultWorkDir(),
		Python:    "python3",
		Externals: make(map[string]string),
	}
}

func defaultWorkDir() string {
	if dir := os.Getenv(EnvWorkDir); dir != "" {
		return dir
	}
	dir, err := env.WorkDir()
	if err != nil {
		return filepath.Join(os.TempDir(), env.AppName)
	}
	return dir
}

// Load loads configuration from path. An empty path means the default
// location; a missing file yields the default configuration.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := env.ConfigFile()
		if err != nil {
			return DefaultConfig(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.Jobs < 0 {
		return nil, fmt.Errorf("parsing config %s: jobs must not be negative", path)
	}
	cfg.path = path
	return cfg, nil
}

// Save saves cfg to path.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Path returns the file cfg was loaded from, or "".
func (c *Config) Path() string { return c.path }

// envFilePath resolves EnvFile against the config file's directory.
func (c *Config) envFilePath() string {
	if c.EnvFile == "" || filepath.IsAbs(c.EnvFile) || c.path == "" {
		return c.EnvFile
	}
	return filepath.Join(filepath.Dir(c.path), c.EnvFile)
}

// DotEnv reads EnvFile into a map. The process environment is left alone.
func (c *Config) DotEnv() (map[string]string, error) {
	path := c.envFilePath()
	if path == "" {
		return map[string]string{}, nil
	}
	vars, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("reading env file: %w", err)
	}
	return vars, nil
}

// Lookup returns a function resolving build overrides: the process
// environment first, then EnvFile, then Env.
func (c *Config) Lookup() (func(key string) (string, bool), error) {
	dotenv, err := c.DotEnv()
	if err != nil {
		return nil, err
	}
	layers := []map[string]string{dotenv, c.Env}
	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		for _, layer := range layers {
			if v, ok := layer[key]; ok {
				return v, true
			}
		}
		return "", false
	}, nil
}
