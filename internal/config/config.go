// Package config defines the JSON-serializable database connection model.
// Settings live in a .DBConfig file in the working directory and may be
// overridden per-field through TUSK_DB_* environment variables, so a deploy
// can point the same checkout at a different database without editing files.
//
// Decoding is performed by the standard library; the model is intentionally
// small and dependency-free.
//
// Example .DBConfig:
//
//	{
//	  "host": "localhost",
//	  "port": 5432,
//	  "user": "tuskorm",
//	  "password": "tuskorm",
//	  "database": "tuskorm_test"
//	}
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strconv"
)

// DefaultPath is the conventional config file name, relative to the working
// directory.
const DefaultPath = ".DBConfig"

// Config holds the connection details for one Postgres database.
type Config struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Database string `json:"database"`
}

// Load reads path, applies environment overrides, and returns the result.
// A missing file is an error; use Default() followed by FromEnv for
// environment-only setups.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	var c Config
	if err := json.NewDecoder(f).Decode(&c); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return c.FromEnv(), nil
}

// Default returns the connection details assumed when nothing is configured.
func Default() Config {
	return Config{Host: "localhost", Port: 5432, User: "tuskorm", Password: "tuskorm", Database: "tuskorm_test"}
}

// FromEnv returns a copy of c with any TUSK_DB_HOST, TUSK_DB_PORT,
// TUSK_DB_USER, TUSK_DB_PASSWORD, or TUSK_DB_NAME values applied on top.
// A malformed TUSK_DB_PORT is ignored rather than fatal.
func (c Config) FromEnv() Config {
	if v := os.Getenv("TUSK_DB_HOST"); v != "" {
		c.Host = v
	}
	if v := os.Getenv("TUSK_DB_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Port = p
		}
	}
	if v := os.Getenv("TUSK_DB_USER"); v != "" {
		c.User = v
	}
	if v := os.Getenv("TUSK_DB_PASSWORD"); v != "" {
		c.Password = v
	}
	if v := os.Getenv("TUSK_DB_NAME"); v != "" {
		c.Database = v
	}
	return c
}

// Save writes c to path as indented JSON. The file is created user-readable
// only, since it carries a password.
func (c Config) Save(path string) error {
	b, err := json.MarshalIndent(c, "", "    ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, append(b, '\n'), 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// DSN renders the config as a postgres:// connection URL.
func (c Config) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   "/" + c.Database,
	}
	return u.String()
}
