// Package config loads application configuration and initializes logging.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/namecleaner/internal/rules"
)

// Config holds the full application configuration.
type Config struct {
	Clean  CleanConfig  `yaml:"clean" mapstructure:"clean"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// CleanConfig configures the normalization and grouping pipeline.
type CleanConfig struct {
	Threshold               int    `yaml:"threshold" mapstructure:"threshold"`
	Group                   bool   `yaml:"group" mapstructure:"group"`
	Column                  string `yaml:"column" mapstructure:"column"`
	ColumnKeyword           string `yaml:"column_keyword" mapstructure:"column_keyword"`
	Concurrency             int    `yaml:"concurrency" mapstructure:"concurrency"`
	RulesPath               string `yaml:"rules_path" mapstructure:"rules_path"`
	AmpersandPolicy         string `yaml:"ampersand_policy" mapstructure:"ampersand_policy"`
	HyphenPolicy            string `yaml:"hyphen_policy" mapstructure:"hyphen_policy"`
	CapitalizeFirstStopword bool   `yaml:"capitalize_first_stopword" mapstructure:"capitalize_first_stopword"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           int     `yaml:"port" mapstructure:"port"`
	RateLimitRPS   float64 `yaml:"rate_limit_rps" mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `yaml:"rate_limit_burst" mapstructure:"rate_limit_burst"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Policies maps the configured policy names onto rule policies, validating
// the values at the boundary.
func (c CleanConfig) Policies() (rules.Policies, error) {
	pol := rules.Policies{
		Ampersand:               rules.AmpersandPolicy(c.AmpersandPolicy),
		Hyphen:                  rules.HyphenPolicy(c.HyphenPolicy),
		CapitalizeFirstStopword: c.CapitalizeFirstStopword,
	}
	if err := pol.Validate(); err != nil {
		return rules.Policies{}, err
	}
	return pol, nil
}

// Ruleset loads the configured rule tables, or the defaults when no custom
// file is set.
func (c CleanConfig) Ruleset() (rules.Ruleset, error) {
	if c.RulesPath == "" {
		return rules.Default(), nil
	}
	return rules.LoadFile(c.RulesPath)
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("NAMECLEANER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("clean.threshold", 92)
	v.SetDefault("clean.group", false)
	v.SetDefault("clean.column_keyword", "company")
	v.SetDefault("clean.concurrency", 4)
	v.SetDefault("clean.ampersand_policy", string(rules.AmpersandSpacedAnd))
	v.SetDefault("clean.hyphen_policy", string(rules.HyphenToSpace))
	v.SetDefault("clean.capitalize_first_stopword", true)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_limit_rps", 5)
	v.SetDefault("server.rate_limit_burst", 10)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
