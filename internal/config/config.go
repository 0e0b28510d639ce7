package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config es la configuración del proceso: YAML opcional + overrides por env.
type Config struct {
	App struct {
		// dev | prod
		Env string `yaml:"env"`
	} `yaml:"app"`

	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	Storage struct {
		// postgres | memory
		Driver   string `yaml:"driver"`
		DSN      string `yaml:"dsn"`
		Postgres struct {
			MaxConns        int    `yaml:"max_conns"`
			MinConns        int    `yaml:"min_conns"`
			ConnMaxLifetime string `yaml:"conn_max_lifetime"`
		} `yaml:"postgres"`
	} `yaml:"storage"`

	Cache struct {
		// memory | redis
		Kind  string `yaml:"kind"`
		Redis struct {
			Addr   string `yaml:"addr"`
			DB     int    `yaml:"db"`
			Prefix string `yaml:"prefix"`
		} `yaml:"redis"`
		Memory struct {
			DefaultTTL string `yaml:"default_ttl"`
		} `yaml:"memory"`
	} `yaml:"cache"`

	JWT struct {
		Issuer    string `yaml:"issuer"`
		Secret    string `yaml:"secret"`
		AccessTTL string `yaml:"access_ttl"`
	} `yaml:"jwt"`

	Rate struct {
		Enabled bool `yaml:"enabled"`
		Login   struct {
			Limit  int    `yaml:"limit"`
			Window string `yaml:"window"`
		} `yaml:"login"`
	} `yaml:"rate"`
}

// Load lee el YAML (si path existe) y aplica overrides de entorno.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.defaults()

	if path != "" {
		b, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(b, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) defaults() {
	c.App.Env = "dev"
	c.Server.Addr = ":8080"
	c.Log.Level = "info"
	c.Storage.Driver = "postgres"
	c.Cache.Kind = "memory"
	c.Cache.Memory.DefaultTTL = "5m"
	c.JWT.Issuer = "coldquote"
	c.JWT.AccessTTL = "1h"
	c.Rate.Enabled = true
	c.Rate.Login.Limit = 10
	c.Rate.Login.Window = "1m"
}

func (c *Config) applyEnv() {
	c.App.Env = envStr("COLDQUOTE_ENV", c.App.Env)
	c.Server.Addr = envStr("COLDQUOTE_ADDR", c.Server.Addr)
	c.Log.Level = envStr("COLDQUOTE_LOG_LEVEL", c.Log.Level)
	c.Storage.Driver = envStr("COLDQUOTE_STORAGE_DRIVER", c.Storage.Driver)
	c.Storage.DSN = envStr("COLDQUOTE_DSN", c.Storage.DSN)
	c.Cache.Kind = envStr("COLDQUOTE_CACHE_KIND", c.Cache.Kind)
	c.Cache.Redis.Addr = envStr("COLDQUOTE_REDIS_ADDR", c.Cache.Redis.Addr)
	c.Cache.Redis.DB = envInt("COLDQUOTE_REDIS_DB", c.Cache.Redis.DB)
	c.JWT.Issuer = envStr("COLDQUOTE_JWT_ISSUER", c.JWT.Issuer)
	c.JWT.Secret = envStr("COLDQUOTE_JWT_SECRET", c.JWT.Secret)
	c.JWT.AccessTTL = envStr("COLDQUOTE_JWT_ACCESS_TTL", c.JWT.AccessTTL)
}

// AccessTTL parsea el TTL del token (0 si es inválido).
func (c *Config) AccessTTL() time.Duration {
	d, err := time.ParseDuration(c.JWT.AccessTTL)
	if err != nil {
		return 0
	}
	return d
}

// LoginWindow parsea la ventana del rate limiter de login.
func (c *Config) LoginWindow() time.Duration {
	d, err := time.ParseDuration(c.Rate.Login.Window)
	if err != nil || d <= 0 {
		return time.Minute
	}
	return d
}

// MemoryTTL parsea el TTL por defecto del cache en memoria.
func (c *Config) MemoryTTL() time.Duration {
	d, err := time.ParseDuration(c.Cache.Memory.DefaultTTL)
	if err != nil || d <= 0 {
		return 5 * time.Minute
	}
	return d
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
