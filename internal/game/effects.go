package game

// Discovery summary:
// - Composition is a single pass over the catalog: present slots contribute effects,
//   latent slots contribute displayable risk.
// - Sums are signed and never clamped per feature; clamping happens only where a
//   value is finally applied to the batch.
// - Weekly effects are the marginal deltas of one tick of severity growth, so a
//   display can show where an evolving feature is heading.

type ActiveFeature struct {
	ID                    string
	Name                  string
	Icon                  string
	Kind                  FeatureKind
	Severity              float64
	QualityImpact         float64
	CharacteristicEffects map[Characteristic]float64
}

type EvolvingFeature struct {
	ID               string
	Name             string
	WeeklyGrowthRate float64
	WeeklyEffects    map[Characteristic]float64
}

type FeatureRisk struct {
	ID   string
	Name string
	Risk float64
}

type FeatureDisplay struct {
	Active                []ActiveFeature
	Evolving              []EvolvingFeature
	Risks                 []FeatureRisk
	CombinedActiveEffects map[Characteristic]float64
	CombinedWeeklyEffects map[Characteristic]float64
	TotalQualityEffect    float64
}

// findFeature is the read-only instance lookup; a batch that predates a
// catalog addition reads as a zero instance without being mutated.
func findFeature(b *WineBatch, id string) FeatureInstance {
	if b == nil {
		return FeatureInstance{ID: id}
	}
	for _, f := range b.Features {
		if f.ID == id {
			return f
		}
	}
	return FeatureInstance{ID: id}
}

// FeatureDisplayForBatch composes every present feature's effects into net
// quality and per-characteristic deltas, and collects latent risks worth
// showing. It never mutates the batch.
func FeatureDisplayForBatch(b *WineBatch) FeatureDisplay {
	display := FeatureDisplay{
		CombinedActiveEffects: make(map[Characteristic]float64),
		CombinedWeeklyEffects: make(map[Characteristic]float64),
	}
	if b == nil {
		return display
	}

	for _, def := range AllFeatureConfigs() {
		inst := findFeature(b, def.ID)
		if !inst.Present {
			if displayableRisk(def, inst) {
				display.Risks = append(display.Risks, FeatureRisk{ID: def.ID, Name: def.Name, Risk: inst.Risk})
			}
			continue
		}

		severity := effectiveSeverity(def, b, inst)
		active := ActiveFeature{
			ID:                    def.ID,
			Name:                  def.Name,
			Icon:                  def.Icon,
			Kind:                  def.Kind,
			Severity:              severity,
			QualityImpact:         def.Quality.impact(severity),
			CharacteristicEffects: make(map[Characteristic]float64, len(def.Effects)),
		}
		for _, ce := range def.Effects {
			value := resolveModifier(ce.Modifier, severity)
			active.CharacteristicEffects[ce.Characteristic] = value
			display.CombinedActiveEffects[ce.Characteristic] += value
		}
		display.TotalQualityEffect += active.QualityImpact
		display.Active = append(display.Active, active)

		if def.Style != ManifestGraduated {
			continue
		}
		rate := weeklyGrowthRate(def, b)
		if rate <= 0 || severity >= 1 {
			continue
		}
		next := clamp01(severity + rate)
		evolving := EvolvingFeature{
			ID:               def.ID,
			Name:             def.Name,
			WeeklyGrowthRate: rate,
			WeeklyEffects:    make(map[Characteristic]float64, len(def.Effects)),
		}
		for _, ce := range def.Effects {
			delta := resolveModifier(ce.Modifier, next) - resolveModifier(ce.Modifier, severity)
			evolving.WeeklyEffects[ce.Characteristic] = delta
			display.CombinedWeeklyEffects[ce.Characteristic] += delta
		}
		display.Evolving = append(display.Evolving, evolving)
	}

	return display
}

// displayableRisk filters which latent risks a display should surface:
// accumulating strategies with any pressure show their current number;
// independent features never show anything between events.
func displayableRisk(def FeatureDefinition, inst FeatureInstance) bool {
	switch def.Strategy {
	case StrategyTimeBased, StrategyCumulative, StrategyEventTriggered:
		return inst.Risk > 0
	default:
		return false
	}
}
