// Package config loads the terms settings from a YAML file and TERMS_
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	EnvPrefix = "TERMS"

	// file name searched in the working directory
	LocalFile = "terms.yaml"
)

type Bridge struct {
	Command string
	Args    []string
	Env     []string
}

type Log struct {
	// Level is one of debug, info, warn, error
	Level string

	// File, when set, receives the log output instead of stderr. The file is
	// rotated.
	File       string
	MaxSizeMB  int
	MaxBackups int
}

type Config struct {
	Model     string
	Patterns  string
	BatchSize int
	Exclusive bool
	Format    string
	Normalize string
	Language  string

	SubjectDeps []string
	HeadPos     string

	Bridge Bridge
	Log    Log

	// File is the config file used, empty if none was found.
	File string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("model", "prose")
	v.SetDefault("patterns", "")
	v.SetDefault("batch-size", 25)
	v.SetDefault("exclusive", false)
	v.SetDefault("format", "table")
	v.SetDefault("normalize", "lemma")
	v.SetDefault("language", "en")

	v.SetDefault("subject.deps", []string{"nsubj", "nsubjpass", "nsubj:pass"})
	v.SetDefault("subject.head-pos", "VERB")

	v.SetDefault("bridge.command", "python3")
	v.SetDefault("bridge.args", []string{"scripts/spacy_bridge.py"})
	v.SetDefault("bridge.env", []string{})

	v.SetDefault("log.level", "warn")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max-size-mb", 10)
	v.SetDefault("log.max-backups", 3)
}

// Load reads the configuration. The file is path if not empty, otherwise the
// first existing of ./terms.yaml and $XDG_CONFIG_HOME/terms/config.yaml. No
// file is not an error: defaults and environment variables apply.
//
// Environment variables take precedence over the file, f.ex. TERMS_MODEL,
// TERMS_BATCH_SIZE or TERMS_LOG_LEVEL.
//
// Relative .py scripts in bridge.args, like the default
// scripts/spacy_bridge.py, are looked up in the working directory and then
// next to the executable.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if path == "" {
		path = find()
	}

	v.SetEnvPrefix(EnvPrefix)
	// TERMS_BATCH_SIZE maps to batch-size, TERMS_LOG_LEVEL to log.level
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	c := &Config{
		Model:     v.GetString("model"),
		Patterns:  v.GetString("patterns"),
		BatchSize: v.GetInt("batch-size"),
		Exclusive: v.GetBool("exclusive"),
		Format:    v.GetString("format"),
		Normalize: v.GetString("normalize"),
		Language:  v.GetString("language"),

		SubjectDeps: v.GetStringSlice("subject.deps"),
		HeadPos:     v.GetString("subject.head-pos"),

		Bridge: Bridge{
			Command: v.GetString("bridge.command"),
			Args:    ResolveScripts(v.GetStringSlice("bridge.args"), ".", executableDir()),
			Env:     v.GetStringSlice("bridge.env"),
		},

		Log: Log{
			Level:      v.GetString("log.level"),
			File:       v.GetString("log.file"),
			MaxSizeMB:  v.GetInt("log.max-size-mb"),
			MaxBackups: v.GetInt("log.max-backups"),
		},

		File: v.ConfigFileUsed(),
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Config) Validate() error {
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be positive, got %d", c.BatchSize)
	}

	if c.Model == "" {
		return errors.New("model can not be empty")
	}

	if len(c.SubjectDeps) == 0 {
		return errors.New("subject.deps can not be empty")
	}

	return nil
}

func find() string {
	if _, err := os.Stat(LocalFile); err == nil {
		return LocalFile
	}

	if configDir, err := os.UserConfigDir(); err == nil {
		configPath := filepath.Join(configDir, "terms", "config.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
	}

	return ""
}

// ResolveScripts replaces each relative .py argument with its path in the
// first of dirs where it exists. Arguments not found are left unchanged.
func ResolveScripts(args []string, dirs ...string) []string {
	resolved := make([]string, len(args))
	for i, arg := range args {
		resolved[i] = arg
		if filepath.Ext(arg) != ".py" || filepath.IsAbs(arg) {
			continue
		}

		for _, dir := range dirs {
			if dir == "" {
				continue
			}

			path := filepath.Join(dir, arg)
			if _, err := os.Stat(path); err == nil {
				if abs, err := filepath.Abs(path); err == nil {
					path = abs
				}
				resolved[i] = path
				break
			}
		}
	}

	return resolved
}

func executableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}

	if target, err := filepath.EvalSymlinks(exe); err == nil {
		exe = target
	}

	return filepath.Dir(exe)
}
