// Package config holds the server settings.  Values come from an
// optional YAML file and are then overridden by command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Store backends accepted by Config.Store.
const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// Config is the full server configuration.
type Config struct {
	GRPCAddr string   `yaml:"grpcAddr"`
	HTTPAddr string   `yaml:"httpAddr"`
	Store    string   `yaml:"store"`
	Redis    Redis    `yaml:"redis"`
	Postgres Postgres `yaml:"postgres"`
	TLS      TLS      `yaml:"tls"`
	Log      Log      `yaml:"log"`
}

type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
}

type Postgres struct {
	DSN string `yaml:"dsn"`
	// Migrate applies the embedded schema migrations at startup.
	Migrate bool `yaml:"migrate"`
}

// TLS enables mutual TLS on the gRPC listener when MTLS is set.
type TLS struct {
	MTLS bool   `yaml:"mtls"`
	Cert string `yaml:"cert"`
	Key  string `yaml:"key"`
	CA   string `yaml:"ca"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when nothing is specified.
func Default() Config {
	return Config{
		GRPCAddr: "0.0.0.0:9090",
		HTTPAddr: "0.0.0.0:8080",
		Store:    StoreMemory,
		Redis:    Redis{Addr: "127.0.0.1:6379"},
		Postgres: Postgres{Migrate: true},
		Log:      Log{Level: "info", Format: "json"},
	}
}

// Load reads path on top of Default.  An empty path returns Default.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports the first inconsistency in c.
func (c Config) Validate() error {
	switch c.Store {
	case StoreMemory, StoreRedis:
	case StorePostgres:
		if c.Postgres.DSN == "" {
			return errors.New("postgres store requires a dsn")
		}
	default:
		return fmt.Errorf("unknown store %q", c.Store)
	}
	if c.TLS.MTLS && (c.TLS.Cert == "" || c.TLS.Key == "" || c.TLS.CA == "") {
		return errors.New("mtls mode requires cert, key, and ca")
	}
	if c.GRPCAddr == "" && c.HTTPAddr == "" {
		return errors.New("at least one of the grpc or http addresses must be set")
	}
	return nil
}
