package main

import (
	"fmt"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	Port       int    `env:"PORT" envDefault:"8000"`
	Env        string `env:"ENV" envDefault:"dev"`
	UploadsDir string `env:"UPLOADS_DIR" envDefault:"uploads"`

	Database PostgresConfig `envPrefix:"DB_"`
}

type PostgresConfig struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     int    `env:"PORT" envDefault:"5432"`
	User     string `env:"USER" envDefault:"postgres"`
	Password string `env:"PASSWORD"`
	Name     string `env:"NAME" envDefault:"mini_twitter"`
}

func (pc PostgresConfig) ConnectionInfo() string {
	if pc.Password == "" {
		return fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=disable", pc.Host, pc.Port, pc.User, pc.Name)
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable", pc.Host, pc.Port, pc.User, pc.Password, pc.Name)
}

func (c Config) IsProd() bool {
	return c.Env == "prod"
}

// LoadConfig reads configuration from the environment, after loading a .env
// file if one is present. If prod is true, the environment is the only source
// of truth and a database password is required before the application starts.
func LoadConfig(prod bool) Config {
	_ = godotenv.Load()

	var c Config
	if err := env.Parse(&c); err != nil {
		panic(fmt.Errorf("err parsing config from environment: %w", err))
	}
	if prod {
		c.Env = "prod"
		if c.Database.Password == "" {
			panic("running with -prod requires DB_PASSWORD to be set")
		}
	}
	return c
}
