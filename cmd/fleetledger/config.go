package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gorm.io/gorm/logger"
)

const (
	configFileName = "fleetledger"
	configFileType = "yaml"
	envPrefix      = "FLEETLEDGER"

	cfgKeyDBDialect       = "db.dialect"
	cfgKeyDBDSN           = "db.dsn"
	cfgKeyDBLogLevel      = "db.log_level"
	cfgKeyLogLevel        = "log.level"
	cfgKeyLogJSON         = "log.json"
	cfgKeyActor           = "ledger.actor"
	cfgKeyAllowBootstrap  = "ledger.allow_counter_bootstrap"
	cfgKeyCounterSeed     = "ledger.counter_seed"
	cfgKeyExportDirectory = "export.dir"
)

// DatabaseConfig ledger storage settings
type DatabaseConfig struct {
	// Dialect "sqlite" or "postgres"
	Dialect string `mapstructure:"dialect" validate:"required,oneof=sqlite postgres"`
	// DSN sqlite DB file, or Postgres connection DSN
	DSN string `mapstructure:"dsn" validate:"required"`
	// LogLevel SQL log level
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=silent error warn info"`
}

// LogConfig application log settings
type LogConfig struct {
	// Level log level
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error fatal"`
	// JSON emit log entries as JSON
	JSON bool `mapstructure:"json"`
}

// LedgerSettings versioning behavior settings
type LedgerSettings struct {
	// Actor who writes are attributed to. Empty means anonymous.
	Actor string `mapstructure:"actor"`
	// AllowCounterBootstrap seed a missing fleet number counter at 1 instead of failing
	AllowCounterBootstrap bool `mapstructure:"allow_counter_bootstrap"`
	// CounterSeed the first fleet number `init` hands out
	CounterSeed int64 `mapstructure:"counter_seed" validate:"min=1"`
}

// ExportConfig spreadsheet export settings
type ExportConfig struct {
	// Dir where exports are written when no output file is given
	Dir string `mapstructure:"dir"`
}

// Config fleetledger CLI configuration
type Config struct {
	DB     DatabaseConfig `mapstructure:"db" validate:"required"`
	Log    LogConfig      `mapstructure:"log" validate:"required"`
	Ledger LedgerSettings `mapstructure:"ledger" validate:"required"`
	Export ExportConfig   `mapstructure:"export"`
}

// installDefaults every config key gets a default, so env overrides reach Unmarshal
func installDefaults(v *viper.Viper) {
	v.SetDefault(cfgKeyDBDialect, "sqlite")
	v.SetDefault(cfgKeyDBDSN, "fleetledger.db")
	v.SetDefault(cfgKeyDBLogLevel, "error")
	v.SetDefault(cfgKeyLogLevel, "info")
	v.SetDefault(cfgKeyLogJSON, false)
	v.SetDefault(cfgKeyActor, "")
	v.SetDefault(cfgKeyAllowBootstrap, false)
	v.SetDefault(cfgKeyCounterSeed, 1)
	v.SetDefault(cfgKeyExportDirectory, ".")
}

/*
loadConfig read the CLI configuration

Without an explicit file, `fleetledger.yaml` is searched for in the working directory
and in $HOME/.fleetledger. A missing config file is not an error. Every key can be
overridden with a FLEETLEDGER_ prefixed environment variable, e.g. FLEETLEDGER_DB_DSN.

	@param configFile string - explicit config file. Optional.
	@returns the validated configuration
*/
func loadConfig(configFile string) (Config, error) {
	v := viper.New()
	installDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.fleetledger")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config [%w]", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config [%w]", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return Config{}, fmt.Errorf("config is not valid [%w]", err)
	}

	return cfg, nil
}

// sqlLogLevel GORM log level for the configured SQL log level
func (c DatabaseConfig) sqlLogLevel() logger.LogLevel {
	switch c.LogLevel {
	case "silent":
		return logger.Silent
	case "warn":
		return logger.Warn
	case "info":
		return logger.Info
	}
	return logger.Error
}
