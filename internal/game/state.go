package game

import (
	"fmt"
	"time"
)

// CellarState is the whole simulation: the winery's vineyards, every batch in
// the cellar, and the clock. One AdvanceWeek call is one simulated week.
type CellarState struct {
	Config    RunConfig   `json:"config"`
	Week      int         `json:"week"`
	Vineyards []Vineyard  `json:"vineyards"`
	Batches   []WineBatch `json:"batches"`
	CashEUR   float64     `json:"cash_eur"`
	Prestige  float64     `json:"prestige"`

	// RollFn overrides the deterministic manifestation roll; nil means the
	// seeded default. Never persisted.
	RollFn func(batchID, featureID string, week int) float64 `json:"-"`
}

func NewCellarState(config RunConfig) (CellarState, error) {
	resolved := config

	if err := resolved.Validate(); err != nil {
		return CellarState{}, err
	}
	if resolved.Seed == 0 {
		resolved.Seed = time.Now().UnixNano()
	}
	if resolved.SeasonWeeks == 0 {
		resolved.SeasonWeeks = defaultSeasonWeeks
	}
	if resolved.StartingCashEUR == 0 {
		resolved.StartingCashEUR = 10000
	}

	return CellarState{
		Config:    resolved,
		Week:      1,
		Vineyards: BuiltinVineyards(),
		CashEUR:   resolved.StartingCashEUR,
		Prestige:  0.1,
	}, nil
}

// AdvanceWeek moves the simulation one week: vineyards ripen, every batch
// runs risk accumulation, then severity evolution, then a quality refresh.
// That ordering matters: severity growth and effect magnitude both depend on
// the post-accumulation manifestation state. Returns player-facing messages
// for anything that changed.
func (s *CellarState) AdvanceWeek() []string {
	s.Week++
	var messages []string

	for i := range s.Vineyards {
		v := &s.Vineyards[i]
		if !v.Planted || v.Ripeness >= 1 {
			continue
		}
		v.Ripeness = clamp01(v.Ripeness + RipenessGainForWeek(s.Config.Seed, v.ID, s.Week))
		if v.Ripeness >= 1 {
			messages = append(messages, fmt.Sprintf("%s is fully ripe.", v.Name))
		}
	}

	for i := range s.Batches {
		b := &s.Batches[i]
		b.WeeksInState++
		if b.State == BatchBottled {
			b.AgingWeeks++
		}

		before := presentFeatureSet(b)
		s.AdvanceFeatureRisk(b, "", nil)
		s.AdvanceFeatureSeverity(b)
		b.RefreshQuality()

		for _, id := range presentFeatureSet(b) {
			if containsString(before, id) {
				continue
			}
			if cfg, ok := FeatureConfig(id); ok {
				messages = append(messages, fmt.Sprintf("%s has set into the %s batch.", cfg.Name, b.VineyardName))
			}
		}
	}

	return messages
}

func presentFeatureSet(b *WineBatch) []string {
	out := make([]string, 0, len(b.Features))
	for _, f := range b.Features {
		if f.Present {
			out = append(out, f.ID)
		}
	}
	return out
}

func containsString(list []string, target string) bool {
	for _, v := range list {
		if v == target {
			return true
		}
	}
	return false
}

func (s *CellarState) vineyard(id string) *Vineyard {
	for i := range s.Vineyards {
		if s.Vineyards[i].ID == id {
			return &s.Vineyards[i]
		}
	}
	return nil
}

func (s *CellarState) batch(id string) *WineBatch {
	for i := range s.Batches {
		if s.Batches[i].ID == id {
			return &s.Batches[i]
		}
	}
	return nil
}
