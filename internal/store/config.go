package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	BackendFile  = "file"
	BackendRedis = "redis"

	configFile = "config.yaml"
)

type Config struct {
	Schema  int         `yaml:"schema"`
	Backend string      `yaml:"backend"`
	Redis   RedisConfig `yaml:"redis,omitempty"`
	HelpDir string      `yaml:"help_dir,omitempty"`
	Color   string      `yaml:"color,omitempty"` // auto|always|never
	Match   string      `yaml:"match,omitempty"` // exact|prefix|contains
}

type RedisConfig struct {
	Addr     string `yaml:"addr,omitempty"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`
	Prefix   string `yaml:"prefix,omitempty"`
}

func defaultConfig() Config {
	return Config{
		Schema:  1,
		Backend: BackendFile,
		Redis: RedisConfig{
			Addr:   "localhost:6379",
			Prefix: defaultRedisPrefix,
		},
		Color: "auto",
		Match: MatchContains,
	}
}

func (w *Workspace) configPath() string {
	return filepath.Join(w.Root, configFile)
}

func (w *Workspace) loadOrDefaultConfig() error {
	w.cfg = defaultConfig()
	b, err := os.ReadFile(w.configPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load config: %w", err)
	}
	b = []byte(os.ExpandEnv(string(b)))
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	w.cfg = normalizeConfig(cfg)
	return nil
}

func normalizeConfig(cfg Config) Config {
	def := defaultConfig()
	if cfg.Schema == 0 {
		cfg.Schema = def.Schema
	}
	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	if cfg.Backend == "" {
		cfg.Backend = def.Backend
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = def.Redis.Addr
	}
	if cfg.Redis.Prefix == "" {
		cfg.Redis.Prefix = def.Redis.Prefix
	}
	if cfg.Color == "" {
		cfg.Color = def.Color
	}
	cfg.Match = normalizeMatchMode(cfg.Match)
	if cfg.HelpDir != "" {
		cfg.HelpDir = expandHome(cfg.HelpDir)
	}
	return cfg
}

func (w *Workspace) ensureConfig() error {
	if _, err := os.Stat(w.configPath()); err == nil {
		return w.loadOrDefaultConfig()
	}
	return w.SaveConfig(defaultConfig())
}

func (w *Workspace) SaveConfig(cfg Config) error {
	cfg = normalizeConfig(cfg)
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := atomicWriteFile(w.configPath(), b, 0o644); err != nil {
		return err
	}
	w.cfg = cfg
	return nil
}
