package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const configFile = ".malgo.yml"

// Config holds the CLI-level settings. The evaluation core takes no flags or
// environment variables; everything here concerns the REPL and the library
// fetcher.
type Config struct {
	Prompt  string `yaml:"prompt"`
	History string `yaml:"history"`
	Color   bool   `yaml:"color"`
	LibDir  string `yaml:"libdir"`
}

func defaultConfig() *Config {
	return &Config{
		Prompt:  "user> ",
		History: ".malgo_history",
		Color:   true,
		LibDir:  filepath.Join(".malgo", "lib"),
	}
}

// loadConfig returns the defaults overlaid with ~/.malgo.yml when it exists.
// Unknown keys are an error so typos surface instead of being ignored.
func loadConfig() (*Config, error) {
	cfg := defaultConfig()

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, nil
	}
	path := filepath.Join(home, configFile)
	f, err := os.Open(path)
	if err != nil {
		return cfg, nil
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) historyPath() string {
	if filepath.IsAbs(c.History) {
		return c.History
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return c.History
	}
	return filepath.Join(home, c.History)
}

func (c *Config) libPath() string {
	if filepath.IsAbs(c.LibDir) {
		return c.LibDir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return c.LibDir
	}
	return filepath.Join(home, c.LibDir)
}
