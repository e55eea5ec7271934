package game

// Discovery summary:
// - One accumulation step per feature slot per tick or event; manifested slots are frozen.
// - The manifestation draw is a seam on CellarState so tests can force or forbid it.
// - Independent-strategy features never carry risk between events; their pre-event
//   numbers are intentionally erased so displays cannot show stale chances.

// manifestRoll produces the [0,1) draw that converts risk into presence.
// RollFn overrides the default deterministic roll; tests use it to pin draws.
func (s *CellarState) manifestRoll(batchID, featureID string, week int) float64 {
	if s.RollFn != nil {
		return s.RollFn(batchID, featureID, week)
	}
	return featureRoll(s.Config.Seed, batchID, featureID, week)
}

// AdvanceFeatureRisk runs one risk-accumulation step for every feature slot on
// the batch. An empty event means a plain weekly tick; event-triggered and
// independent features react only to their named events. vineyard supplies
// context for harvest triggers and may be nil for winery events.
func (s *CellarState) AdvanceFeatureRisk(b *WineBatch, event CellarEvent, vineyard *Vineyard) []FeatureInstance {
	if b == nil {
		return nil
	}
	for _, def := range AllFeatureConfigs() {
		s.advanceFeatureRiskOne(def, b.feature(def.ID), b, event, vineyard)
	}
	return b.Features
}

func (s *CellarState) advanceFeatureRiskOne(def FeatureDefinition, inst *FeatureInstance, b *WineBatch, event CellarEvent, vineyard *Vineyard) {
	if inst.Present {
		// No double manifestation, no further accumulation.
		return
	}

	switch def.Strategy {
	case StrategyTimeBased, StrategyCumulative:
		if event != "" {
			return
		}
		rate := def.Risk.BaseRate * stateMultiplier(def.Risk.StateMultipliers, b)
		if def.Risk.CompoundEffect {
			rate *= 1 + inst.Risk
		}
		inst.Risk = clamp01(inst.Risk + rate)
		if inst.Risk > 0 && s.manifestRoll(b.ID, def.ID, s.Week) < inst.Risk {
			manifest(def, inst)
		}

	case StrategyEventTriggered:
		if event == "" {
			return
		}
		fired := false
		for _, t := range def.triggersFor(event) {
			if t.Condition != nil && !t.Condition(vineyard, b) {
				continue
			}
			increase := t.RiskIncrease.resolve(vineyard, b)
			if increase <= 0 {
				continue
			}
			inst.Risk = clamp01(inst.Risk + increase)
			fired = true
		}
		if fired && s.manifestRoll(b.ID, def.ID, s.Week) < inst.Risk {
			manifest(def, inst)
		}

	case StrategyIndependent:
		if event == "" {
			return
		}
		for _, t := range def.triggersFor(event) {
			if t.Condition != nil && !t.Condition(vineyard, b) {
				continue
			}
			p := clamp01(t.Probability.resolve(vineyard, b))
			if p <= 0 {
				continue
			}
			if s.manifestRoll(b.ID, def.ID, s.Week) < p {
				manifest(def, inst)
				break
			}
		}
		// The event has passed; whatever chance it had is history.
		inst.Risk = 0

	case StrategySeverityGrowth:
		// Manifests when the batch reaches a state the catalog explicitly
		// marks with a positive growth multiplier (bottle aging: bottled).
		if m, ok := def.Risk.StateMultipliers[b.State]; ok && resolveMultiplier(m, b) > 0 {
			manifest(def, inst)
		}

	case StrategyDormant:
		// Unrecognised config shape: never accumulates, never manifests.
	}
}

// manifest flips a feature instance to present, seeding graduated severity so
// evolution has a starting point.
func manifest(def FeatureDefinition, inst *FeatureInstance) {
	inst.Present = true
	if def.Style == ManifestGraduated {
		inst.Severity = severitySeed
	}
	if def.Strategy == StrategyIndependent {
		inst.Risk = 0
	}
}
