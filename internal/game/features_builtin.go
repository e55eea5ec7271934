package game

import "sync"

const (
	FeatureOxidation       = "oxidation"
	FeatureVolatileAcidity = "volatile_acidity"
	FeatureGreenFlavors    = "green_flavors"
	FeatureCorkTaint       = "cork_taint"
	FeatureTerroir         = "terroir"
	FeatureBottleAging     = "bottle_aging"
)

// severitySeed is the starting severity for graduated features at the moment
// of manifestation, so evolution has a non-zero starting point.
const severitySeed = 0.05

// bottleAgingPeakWeeks is how long a bottled wine takes to reach full aging
// severity. Bottle aging severity is always derived from the batch's aging
// counter, never grown independently.
const bottleAgingPeakWeeks = 156

var (
	catalogOnce sync.Once
	catalog     []FeatureDefinition
)

// AllFeatureConfigs returns the full feature catalog, order-stable across
// calls. Strategies are inferred from parameter shape once, at first load.
func AllFeatureConfigs() []FeatureDefinition {
	catalogOnce.Do(func() {
		catalog = builtinFeatureConfigs()
		for i := range catalog {
			catalog[i].Strategy = inferRiskStrategy(catalog[i].Risk)
		}
	})
	out := make([]FeatureDefinition, len(catalog))
	copy(out, catalog)
	return out
}

// FeatureConfig looks up one catalog entry by id.
func FeatureConfig(id string) (FeatureDefinition, bool) {
	for _, cfg := range AllFeatureConfigs() {
		if cfg.ID == id {
			return cfg, true
		}
	}
	return FeatureDefinition{}, false
}

func builtinFeatureConfigs() []FeatureDefinition {
	return []FeatureDefinition{
		{
			ID:          FeatureOxidation,
			Name:        "Oxidation",
			Icon:        "wind",
			Description: "Air exposure flattens aroma and browns the wine.",
			Kind:        FeatureFault,
			Style:       ManifestGraduated,
			Risk: RiskAccumulation{
				BaseRate:       0.02,
				CompoundEffect: true,
				StateMultipliers: map[BatchState]Multiplier{
					BatchGrapes:     constMult(1.2),
					BatchCrushing:   {Fn: oxidationCrushMultiplier},
					BatchFermenting: {Fn: oxidationFermentMultiplier},
					BatchAging:      constMult(0.8),
					BatchBottled:    constMult(0.1),
				},
				BaseGrowthRate: 0.015,
			},
			Quality: QualityEffect{Kind: QualityPower, BasePenalty: 0.10, Exponent: 2},
			Effects: []CharacteristicEffect{
				{CharAroma, Modifier{Fn: scaled(-0.10)}},
				{CharAcidity, Modifier{Fn: scaled(0.05)}},
				{CharBody, Modifier{Fn: scaled(-0.04)}},
			},
		},
		{
			ID:          FeatureVolatileAcidity,
			Name:        "Volatile Acidity",
			Icon:        "flask",
			Description: "Acetic character from warm or open fermentation.",
			Kind:        FeatureFault,
			Style:       ManifestGraduated,
			Risk: RiskAccumulation{
				BaseRate: 0.015,
				StateMultipliers: map[BatchState]Multiplier{
					BatchGrapes:     constMult(0.5),
					BatchFermenting: {Fn: volatileAcidityFermentMultiplier},
					BatchAging:      constMult(0.6),
					BatchBottled:    constMult(0.2),
				},
				BaseGrowthRate: 0.02,
			},
			Quality: QualityEffect{Kind: QualityLinear, Amount: -0.20},
			Effects: []CharacteristicEffect{
				{CharAcidity, Modifier{Fn: scaled(0.12)}},
				{CharAroma, Modifier{Fn: scaled(-0.06)}},
			},
		},
		{
			ID:          FeatureGreenFlavors,
			Name:        "Green Flavors",
			Icon:        "leaf",
			Description: "Herbaceous, underripe character from early picking or stems.",
			Kind:        FeatureFault,
			Style:       ManifestBinary,
			Risk: RiskAccumulation{
				EventTriggers: []EventTrigger{
					{
						Event:        EventHarvest,
						Condition:    func(v *Vineyard, _ *WineBatch) bool { return v != nil && v.Ripeness < 0.5 },
						RiskIncrease: RiskAmount{Fn: underripenessRisk},
					},
					{
						Event:        EventCrushing,
						Condition:    func(_ *Vineyard, b *WineBatch) bool { return b != nil && b.Crushing != nil && !b.Crushing.Destemmed },
						RiskIncrease: RiskAmount{Constant: 0.15},
					},
				},
			},
			Quality: QualityEffect{Kind: QualityLinear, Amount: -0.12},
			Effects: []CharacteristicEffect{
				{CharAroma, constMod(-0.08)},
				{CharTannins, constMod(0.06)},
				{CharSpice, constMod(-0.03)},
			},
		},
		{
			ID:          FeatureCorkTaint,
			Name:        "Cork Taint",
			Icon:        "cork",
			Description: "TCA contamination from a bad cork. Musty cellar smell.",
			Kind:        FeatureFault,
			Style:       ManifestBinary,
			Risk: RiskAccumulation{
				EventTriggers: []EventTrigger{
					{Event: EventBottling, Probability: RiskAmount{Constant: 0.03}},
				},
			},
			Quality: QualityEffect{Kind: QualityLinear, Amount: -0.35},
			Effects: []CharacteristicEffect{
				{CharAroma, constMod(-0.15)},
				{CharBody, constMod(-0.05)},
			},
		},
		{
			ID:          FeatureTerroir,
			Name:        "Terroir Expression",
			Icon:        "mountain",
			Description: "The site speaks through the wine. Only ripe fruit carries it.",
			Kind:        FeatureTrait,
			Style:       ManifestGraduated,
			Risk: RiskAccumulation{
				EventTriggers: []EventTrigger{
					{
						Event:       EventHarvest,
						Condition:   func(v *Vineyard, _ *WineBatch) bool { return v != nil && v.Ripeness >= 0.8 },
						Probability: RiskAmount{Fn: terroirChance},
					},
				},
				StateMultipliers: map[BatchState]Multiplier{
					BatchFermenting: constMult(0.5),
					BatchAging:      constMult(1),
					BatchBottled:    constMult(0.3),
				},
				BaseGrowthRate: 0.01,
			},
			Quality: QualityEffect{Kind: QualityBonus, BonusFn: func(s float64) float64 { return 0.05 + 0.10*s }},
			Effects: []CharacteristicEffect{
				{CharBody, Modifier{Fn: scaled(0.06)}},
				{CharAroma, Modifier{Fn: scaled(0.05)}},
				{CharSpice, Modifier{Fn: scaled(0.04)}},
			},
		},
		{
			ID:          FeatureBottleAging,
			Name:        "Bottle Aging",
			Icon:        "hourglass",
			Description: "Time in bottle softens tannin and builds depth.",
			Kind:        FeatureTrait,
			Style:       ManifestGraduated,
			Risk: RiskAccumulation{
				StateMultipliers: map[BatchState]Multiplier{
					BatchBottled: constMult(1),
				},
				BaseGrowthRate: 1.0 / bottleAgingPeakWeeks,
			},
			Quality: QualityEffect{Kind: QualityBonus, BonusFn: func(s float64) float64 { return 0.18 * s }},
			Effects: []CharacteristicEffect{
				{CharBody, Modifier{Fn: scaled(0.10)}},
				{CharTannins, Modifier{Fn: scaled(-0.08)}},
				{CharSweetness, Modifier{Fn: scaled(0.02)}},
			},
		},
	}
}

// scaled returns a severity-proportional modifier function.
func scaled(perUnit float64) func(float64) float64 {
	return func(severity float64) float64 { return perUnit * severity }
}

func underripenessRisk(v *Vineyard, _ *WineBatch) float64 {
	if v == nil {
		return 0
	}
	return clamp01((0.5 - v.Ripeness) * 1.6)
}

func terroirChance(v *Vineyard, _ *WineBatch) float64 {
	if v == nil {
		return 0
	}
	return clamp01((v.Ripeness - 0.8) * 1.5 * (0.6 + 0.8*v.LandValue))
}

func oxidationCrushMultiplier(b *WineBatch) float64 {
	if b == nil || b.Crushing == nil {
		return 1.5
	}
	m := 1.5
	switch b.Crushing.Method {
	case CrushHandPress:
		m = 1.2
	case CrushMechanical:
		m = 1.8
	case CrushPneumatic:
		m = 0.9
	case CrushFootTread:
		m = 1.5
	}
	if b.Crushing.Destemmed {
		m *= 0.9
	}
	return m
}

func oxidationFermentMultiplier(b *WineBatch) float64 {
	if b == nil || b.Fermentation == nil {
		return 1.5
	}
	m := 1.0
	switch b.Fermentation.Method {
	case FermentOpenVat:
		m = 1.6
	case FermentClosedTank:
		m = 0.6
	case FermentBarrel:
		m = 1.0
	}
	m *= temperatureFactor(b.Fermentation.TemperatureC, 20, 0.03, 0.4)
	return m
}

func volatileAcidityFermentMultiplier(b *WineBatch) float64 {
	if b == nil || b.Fermentation == nil {
		return 1.5
	}
	m := 1.0
	switch b.Fermentation.Method {
	case FermentOpenVat:
		m = 1.8
	case FermentClosedTank:
		m = 0.7
	case FermentBarrel:
		m = 1.1
	}
	m *= temperatureFactor(b.Fermentation.TemperatureC, 22, 0.05, 0.3)
	return m
}

// temperatureFactor scales a rate by degrees above a pivot temperature; cool
// fermentation drops the factor, floored so risk never fully disappears.
func temperatureFactor(tempC, pivot, perDegree, floor float64) float64 {
	f := 1 + (tempC-pivot)*perDegree
	if f < floor {
		return floor
	}
	return f
}
