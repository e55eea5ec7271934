package game

import (
	"fmt"
	"strings"
)

type RunConfig struct {
	WineryName      string  `json:"winery_name"`
	Seed            int64   `json:"seed"`
	StartingCashEUR float64 `json:"starting_cash_eur"`
	SeasonWeeks     int     `json:"season_weeks"`
}

const defaultSeasonWeeks = 52

func (c RunConfig) Validate() error {
	if strings.TrimSpace(c.WineryName) == "" {
		return fmt.Errorf("winery name is required")
	}
	if c.StartingCashEUR < 0 {
		return fmt.Errorf("starting cash must not be negative, got %.2f", c.StartingCashEUR)
	}
	if c.SeasonWeeks < 0 {
		return fmt.Errorf("season weeks must not be negative, got %d", c.SeasonWeeks)
	}
	return nil
}
