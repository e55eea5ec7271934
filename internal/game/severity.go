package game

// AdvanceFeatureSeverity grows severity for manifested graduated features.
// Bottle aging never grows through the generic formula: its severity is kept
// in lockstep with the batch's aging-progress counter.
func (s *CellarState) AdvanceFeatureSeverity(b *WineBatch) []FeatureInstance {
	if b == nil {
		return nil
	}
	for _, def := range AllFeatureConfigs() {
		inst := b.feature(def.ID)
		if !inst.Present || def.Style != ManifestGraduated {
			continue
		}
		if def.ID == FeatureBottleAging {
			inst.Severity = syncedBottleAgingSeverity(b)
			continue
		}
		rate := weeklyGrowthRate(def, b)
		if rate <= 0 {
			continue
		}
		inst.Severity = clamp01(inst.Severity + rate)
	}
	return b.Features
}

// weeklyGrowthRate is the base growth rate scaled by the current state
// multiplier. Zero base rate means the feature never evolves.
func weeklyGrowthRate(def FeatureDefinition, b *WineBatch) float64 {
	if def.Risk.BaseGrowthRate <= 0 {
		return 0
	}
	return def.Risk.BaseGrowthRate * stateMultiplier(def.Risk.StateMultipliers, b)
}

// effectiveSeverity is the severity effect evaluation should use: 1 for
// binary features, the synchronized aging progress for bottle aging, the
// stored severity otherwise. Absent features contribute nothing.
func effectiveSeverity(def FeatureDefinition, b *WineBatch, inst FeatureInstance) float64 {
	if !inst.Present {
		return 0
	}
	if def.Style == ManifestBinary {
		return 1
	}
	if def.ID == FeatureBottleAging {
		return syncedBottleAgingSeverity(b)
	}
	return inst.Severity
}

func syncedBottleAgingSeverity(b *WineBatch) float64 {
	if b == nil {
		return 0
	}
	return clamp01(float64(b.AgingWeeks) / bottleAgingPeakWeeks)
}
