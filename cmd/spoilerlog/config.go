package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/spoilerlog/spoilerlog-go/internal/logfinder"
	"github.com/spoilerlog/spoilerlog-go/internal/render"
	"github.com/spoilerlog/spoilerlog-go/pkg/spoilerlog"
)

// cliConfig holds command defaults read from the config file.
type cliConfig struct {
	Format       string
	Dir          string
	Pattern      string
	PollInterval time.Duration
	DB           string
}

const (
	defaultConfigPath = "~/.config/spoilerlog/config.toml"
	defaultFormat     = "pretty"
)

func defaultConfig() cliConfig {
	return cliConfig{
		Format:       defaultFormat,
		Pattern:      logfinder.DefaultPattern,
		PollInterval: spoilerlog.DefaultPollInterval,
	}
}

// loadConfig parses the config file at path, falling back to defaults when it is missing.
func loadConfig(path string) (cliConfig, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return cliConfig{}, err
	}

	cfg := defaultConfig()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cliConfig{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return cliConfig{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		Format       string `toml:"format"`
		Dir          string `toml:"dir"`
		Pattern      string `toml:"pattern"`
		PollInterval string `toml:"poll_interval"`
		DB           string `toml:"db"`
	}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return cliConfig{}, fmt.Errorf("parse config: %w", err)
	}

	if format := strings.TrimSpace(raw.Format); format != "" {
		if !render.ValidFormats[format] {
			return cliConfig{}, fmt.Errorf("parse config: invalid format %q (valid: %s)",
				format, strings.Join(render.FormatNames(), ", "))
		}
		cfg.Format = format
	}
	if pattern := strings.TrimSpace(raw.Pattern); pattern != "" {
		cfg.Pattern = pattern
	}
	if interval := strings.TrimSpace(raw.PollInterval); interval != "" {
		d, err := time.ParseDuration(interval)
		if err != nil {
			return cliConfig{}, fmt.Errorf("parse config: poll_interval: %w", err)
		}
		if d <= 0 {
			return cliConfig{}, fmt.Errorf("parse config: poll_interval must be positive, got %v", d)
		}
		cfg.PollInterval = d
	}
	if dir := strings.TrimSpace(raw.Dir); dir != "" {
		cfg.Dir = mustExpand(dir)
	}
	if db := strings.TrimSpace(raw.DB); db != "" {
		cfg.DB = mustExpand(db)
	}

	return cfg, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
