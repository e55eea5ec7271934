package game

import "fmt"

// Discovery summary:
// - Previews answer "what would this action do to feature risk" without touching
//   any batch or vineyard; all projection happens on value copies.
// - Harvest risk depends on ripeness, a continuous input, so it projects a min/max
//   range over the remaining ripening window.
// - Winery risk depends on finite production options, so it projects a value per
//   option combination (crush method x destemming, ferment method x temperature).

type PreviewContext struct {
	Event    CellarEvent
	Vineyard *Vineyard
	Batch    *WineBatch
}

type RiskPreviewKind string

const (
	PreviewSingle  RiskPreviewKind = "single"
	PreviewOptions RiskPreviewKind = "options"
	PreviewRange   RiskPreviewKind = "range"
)

type OptionRisk struct {
	Label string
	Risk  float64
}

type RiskPreview struct {
	FeatureID string
	Name      string
	Kind      RiskPreviewKind
	Risk      float64 // single value, or the value at current conditions for ranges
	Options   []OptionRisk
	MinRisk   float64
	MaxRisk   float64
}

// FeatureRisksForDisplay projects feature risk for an upcoming action. Missing
// context degrades to an empty list; nothing is ever mutated.
func FeatureRisksForDisplay(ctx PreviewContext) []RiskPreview {
	switch ctx.Event {
	case EventHarvest:
		if ctx.Vineyard == nil {
			return nil
		}
		return harvestPreviews(*ctx.Vineyard)
	case EventCrushing, EventFermentation, EventBottling:
		if ctx.Batch == nil {
			return nil
		}
		return wineryPreviews(ctx.Event, *ctx.Batch)
	default:
		return nil
	}
}

// harvestPreviews evaluates each harvest trigger across the remaining
// ripening window, from the vineyard's current ripeness to fully ripe.
func harvestPreviews(v Vineyard) []RiskPreview {
	previews := make([]RiskPreview, 0, 2)
	for _, def := range AllFeatureConfigs() {
		triggers := def.triggersFor(EventHarvest)
		if len(triggers) == 0 {
			continue
		}

		amountAt := func(ripeness float64) float64 {
			probe := v
			probe.Ripeness = ripeness
			total := 0.0
			for _, t := range triggers {
				if t.Condition != nil && !t.Condition(&probe, nil) {
					continue
				}
				if t.Probability.isSet() {
					total += clamp01(t.Probability.resolve(&probe, nil))
				} else {
					total += clamp01(t.RiskIncrease.resolve(&probe, nil))
				}
			}
			return clamp01(total)
		}

		current := amountAt(v.Ripeness)
		minRisk, maxRisk := current, current
		for r := v.Ripeness; r < 1.0; r += 0.05 {
			a := amountAt(r)
			if a < minRisk {
				minRisk = a
			}
			if a > maxRisk {
				maxRisk = a
			}
		}
		if a := amountAt(1.0); a < minRisk {
			minRisk = a
		} else if a > maxRisk {
			maxRisk = a
		}

		preview := RiskPreview{FeatureID: def.ID, Name: def.Name, Risk: current}
		if maxRisk-minRisk < 1e-9 {
			preview.Kind = PreviewSingle
		} else {
			preview.Kind = PreviewRange
			preview.MinRisk = minRisk
			preview.MaxRisk = maxRisk
		}
		previews = append(previews, preview)
	}
	return previews
}

type optionCombo struct {
	label string
	batch WineBatch
}

func wineryPreviews(event CellarEvent, b WineBatch) []RiskPreview {
	combos := optionCombos(event, b)
	previews := make([]RiskPreview, 0, 3)

	for _, def := range AllFeatureConfigs() {
		inst := findFeature(&b, def.ID)
		if inst.Present {
			continue
		}
		triggers := def.triggersFor(event)

		var values []float64
		switch {
		case len(triggers) > 0:
			values = make([]float64, len(combos))
			for i, combo := range combos {
				total := inst.Risk
				for _, t := range triggers {
					probe := combo.batch
					if t.Condition != nil && !t.Condition(nil, &probe) {
						continue
					}
					if t.Probability.isSet() {
						total += clamp01(t.Probability.resolve(nil, &probe))
					} else {
						total += clamp01(t.RiskIncrease.resolve(nil, &probe))
					}
				}
				values[i] = clamp01(total)
			}
		case def.Strategy == StrategyTimeBased || def.Strategy == StrategyCumulative:
			// Always-upcoming strategies: project the first tick in the
			// post-action state under each option combination.
			values = make([]float64, len(combos))
			for i, combo := range combos {
				probe := combo.batch
				rate := def.Risk.BaseRate * stateMultiplier(def.Risk.StateMultipliers, &probe)
				if def.Risk.CompoundEffect {
					rate *= 1 + inst.Risk
				}
				values[i] = clamp01(inst.Risk + rate)
			}
		default:
			continue
		}

		preview := RiskPreview{FeatureID: def.ID, Name: def.Name}
		if allEqual(values) {
			preview.Kind = PreviewSingle
			preview.Risk = values[0]
		} else {
			preview.Kind = PreviewOptions
			preview.Options = make([]OptionRisk, len(values))
			for i, v := range values {
				preview.Options[i] = OptionRisk{Label: combos[i].label, Risk: v}
			}
		}
		previews = append(previews, preview)
	}
	return previews
}

// optionCombos enumerates the selectable option combinations for an action,
// each applied to a value copy of the batch in the post-action state.
func optionCombos(event CellarEvent, b WineBatch) []optionCombo {
	switch event {
	case EventCrushing:
		methods := []CrushMethod{CrushHandPress, CrushMechanical, CrushPneumatic, CrushFootTread}
		combos := make([]optionCombo, 0, len(methods)*2)
		for _, method := range methods {
			for _, destemmed := range []bool{true, false} {
				probe := b
				probe.State = BatchCrushing
				probe.Crushing = &CrushingOptions{Method: method, Destemmed: destemmed}
				label := string(method) + "/with stems"
				if destemmed {
					label = string(method) + "/destemmed"
				}
				combos = append(combos, optionCombo{label: label, batch: probe})
			}
		}
		return combos
	case EventFermentation:
		methods := []FermentMethod{FermentOpenVat, FermentClosedTank, FermentBarrel}
		temps := []float64{16, 20, 24}
		combos := make([]optionCombo, 0, len(methods)*len(temps))
		for _, method := range methods {
			for _, temp := range temps {
				probe := b
				probe.State = BatchFermenting
				probe.Fermentation = &FermentationOptions{Method: method, TemperatureC: temp}
				combos = append(combos, optionCombo{
					label: fmt.Sprintf("%s@%.0fC", method, temp),
					batch: probe,
				})
			}
		}
		return combos
	case EventBottling:
		probe := b
		probe.State = BatchBottled
		return []optionCombo{{label: "bottle", batch: probe}}
	default:
		probe := b
		return []optionCombo{{label: "", batch: probe}}
	}
}

func allEqual(values []float64) bool {
	if len(values) <= 1 {
		return true
	}
	for _, v := range values[1:] {
		diff := v - values[0]
		if diff < -1e-9 || diff > 1e-9 {
			return false
		}
	}
	return true
}
