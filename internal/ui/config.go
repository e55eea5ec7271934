package ui

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"github.com/appengine-ltd/vintner/internal/game"
)

// LoadRunConfig builds the run configuration from defaults, an optional
// vintner.yaml, VINTNER_* environment variables, and command-line overrides,
// in that order of precedence.
func LoadRunConfig(cfg AppConfig) (game.RunConfig, error) {
	v := viper.New()
	v.SetDefault("winery_name", "Long Row Cellars")
	v.SetDefault("seed", 0)
	v.SetDefault("starting_cash_eur", 10000.0)
	v.SetDefault("season_weeks", 52)

	v.SetEnvPrefix("VINTNER")
	v.AutomaticEnv()

	if cfg.ConfigPath != "" {
		v.SetConfigFile(cfg.ConfigPath)
	} else {
		v.SetConfigName("vintner")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/vintner")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfg.ConfigPath != "" || !errors.As(err, &notFound) {
			return game.RunConfig{}, fmt.Errorf("read config: %w", err)
		}
	}

	run := game.RunConfig{
		WineryName:      v.GetString("winery_name"),
		Seed:            v.GetInt64("seed"),
		StartingCashEUR: v.GetFloat64("starting_cash_eur"),
		SeasonWeeks:     v.GetInt("season_weeks"),
	}
	if cfg.Seed != 0 {
		run.Seed = cfg.Seed
	}
	if err := run.Validate(); err != nil {
		return game.RunConfig{}, err
	}
	return run, nil
}
