// Package config loads CLI configuration from the config file,
// environment and .env files. The library core takes no configuration;
// everything here exists for the cmdql tool.
package config

import (
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// AppFs is the filesystem seam; tests swap it for an in-memory fs.
var AppFs = afero.NewOsFs()

// Config holds the cmdql tool configuration.
type Config struct {
	// Driver names the database/sql driver used by exec:
	// sqlserver, sqlite3, postgres or mysql.
	Driver string
	// DatabaseURL is the connection string for exec. Usually supplied
	// via DATABASE_URL rather than the config file.
	DatabaseURL string
	// Schema qualifies targets when a command file does not set one.
	Schema string
	// UpsertStrategy selects merge (default) or portable rendering.
	UpsertStrategy string
	// Telemetry enables the opt-in usage collector.
	Telemetry bool
}

// Load reads configuration in priority order: flags (handled by cobra),
// CMDQL_* environment, .env.local, .env, then the config file from the
// working directory, the home directory, or ~/.config/cmdql.
func Load() (*Config, error) {
	home, err := homedir.Dir()
	if err != nil {
		return nil, err
	}

	viper.SetConfigName(".cmdql")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath(home)
	viper.AddConfigPath(filepath.Join(home, ".config", "cmdql"))

	viper.SetEnvPrefix("CMDQL")
	viper.AutomaticEnv()

	viper.SetDefault("driver", "sqlserver")
	viper.SetDefault("upsert_strategy", "merge")
	viper.SetDefault("telemetry", false)

	_ = viper.ReadInConfig()

	// .env loads first, .env.local overrides it.
	if _, err := AppFs.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}
	if _, err := AppFs.Stat(".env.local"); err == nil {
		_ = godotenv.Overload(".env.local")
	}

	_ = viper.BindEnv("database_url", "DATABASE_URL", "CMDQL_DATABASE_URL")

	return &Config{
		Driver:         viper.GetString("driver"),
		DatabaseURL:    viper.GetString("database_url"),
		Schema:         viper.GetString("schema"),
		UpsertStrategy: viper.GetString("upsert_strategy"),
		Telemetry:      viper.GetBool("telemetry"),
	}, nil
}

// Save writes the configuration to ~/.config/cmdql/.cmdql.yaml.
func Save(cfg *Config) error {
	viper.Set("driver", cfg.Driver)
	viper.Set("schema", cfg.Schema)
	viper.Set("upsert_strategy", cfg.UpsertStrategy)
	viper.Set("telemetry", cfg.Telemetry)

	home, err := homedir.Dir()
	if err != nil {
		return err
	}
	dir := filepath.Join(home, ".config", "cmdql")
	if err := AppFs.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return viper.WriteConfigAs(filepath.Join(dir, ".cmdql.yaml"))
}
