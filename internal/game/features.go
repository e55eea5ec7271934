package game

import "math"

// Discovery summary:
// - Feature definitions are static catalog data; batches only ever hold FeatureInstance slots.
// - Multipliers and modifiers are tagged constant-or-function values resolved through
//   single helpers, so option-dependent risk lives in the catalog, not in call sites.
// - The accumulation strategy is inferred once at catalog load from the parameter shape.

type Characteristic string

const (
	CharAcidity   Characteristic = "acidity"
	CharAroma     Characteristic = "aroma"
	CharBody      Characteristic = "body"
	CharSpice     Characteristic = "spice"
	CharSweetness Characteristic = "sweetness"
	CharTannins   Characteristic = "tannins"
)

func AllCharacteristics() []Characteristic {
	return []Characteristic{CharAcidity, CharAroma, CharBody, CharSpice, CharSweetness, CharTannins}
}

type FeatureKind string

const (
	FeatureFault FeatureKind = "fault"
	FeatureTrait FeatureKind = "trait"
)

type ManifestationStyle string

const (
	ManifestBinary    ManifestationStyle = "binary"
	ManifestGraduated ManifestationStyle = "graduated"
)

type RiskStrategy string

const (
	StrategyTimeBased      RiskStrategy = "time_based"
	StrategyCumulative     RiskStrategy = "cumulative"
	StrategyEventTriggered RiskStrategy = "event_triggered"
	StrategyIndependent    RiskStrategy = "independent"
	StrategySeverityGrowth RiskStrategy = "severity_growth"
	// StrategyDormant is the safe fallback for unrecognised parameter shapes:
	// the feature never accumulates risk and never manifests.
	StrategyDormant RiskStrategy = "dormant"
)

type CellarEvent string

const (
	EventHarvest      CellarEvent = "harvest"
	EventCrushing     CellarEvent = "crushing"
	EventFermentation CellarEvent = "fermentation"
	EventBottling     CellarEvent = "bottling"
)

// Multiplier is either a constant or a function of the batch, so production
// options (crush method, fermentation temperature) can shape the effective rate.
type Multiplier struct {
	Constant float64
	Fn       func(batch *WineBatch) float64
}

func constMult(v float64) Multiplier {
	return Multiplier{Constant: v}
}

func resolveMultiplier(m Multiplier, batch *WineBatch) float64 {
	if m.Fn != nil {
		return m.Fn(batch)
	}
	return m.Constant
}

// stateMultiplier looks up the multiplier for the batch's current state.
// Missing state keys default to 1.0 rather than suppressing accumulation.
func stateMultiplier(multipliers map[BatchState]Multiplier, batch *WineBatch) float64 {
	if batch == nil {
		return 1
	}
	m, ok := multipliers[batch.State]
	if !ok {
		return 1
	}
	return resolveMultiplier(m, batch)
}

// Modifier is a per-characteristic delta, constant or a function of severity.
type Modifier struct {
	Constant float64
	Fn       func(severity float64) float64
}

func constMod(v float64) Modifier {
	return Modifier{Constant: v}
}

func resolveModifier(m Modifier, severity float64) float64 {
	if m.Fn != nil {
		return m.Fn(severity)
	}
	return m.Constant
}

// RiskAmount is an event-trigger payload, constant or derived from the
// vineyard/batch the event is happening to.
type RiskAmount struct {
	Constant float64
	Fn       func(v *Vineyard, b *WineBatch) float64
}

func (a RiskAmount) resolve(v *Vineyard, b *WineBatch) float64 {
	if a.Fn != nil {
		return a.Fn(v, b)
	}
	return a.Constant
}

func (a RiskAmount) isSet() bool {
	return a.Constant != 0 || a.Fn != nil
}

// EventTrigger fires on a named cellar event. A trigger carries either
// RiskIncrease (added to accumulated risk) or Probability (a single
// independent draw at event time); the catalog never sets both.
type EventTrigger struct {
	Event        CellarEvent
	Condition    func(v *Vineyard, b *WineBatch) bool
	RiskIncrease RiskAmount
	Probability  RiskAmount
}

type RiskAccumulation struct {
	BaseRate         float64
	CompoundEffect   bool
	StateMultipliers map[BatchState]Multiplier
	EventTriggers    []EventTrigger
	BaseGrowthRate   float64 // weekly severity growth after manifestation
}

type QualityEffectKind int

const (
	QualityLinear QualityEffectKind = iota
	QualityPower
	QualityBonus
)

// QualityEffect is a closed sum over the three effect shapes. Linear carries
// Amount, power carries BasePenalty+Exponent, bonus carries Amount or BonusFn.
type QualityEffect struct {
	Kind        QualityEffectKind
	Amount      float64
	BasePenalty float64
	Exponent    float64
	BonusFn     func(severity float64) float64
}

// impact evaluates the quality delta at the given severity. Binary features
// pass severity 1.
func (e QualityEffect) impact(severity float64) float64 {
	switch e.Kind {
	case QualityLinear:
		return e.Amount * severity
	case QualityPower:
		return -e.BasePenalty * (1 + math.Pow(severity, e.Exponent))
	case QualityBonus:
		if e.BonusFn != nil {
			return e.BonusFn(severity)
		}
		return e.Amount
	default:
		return 0
	}
}

type CharacteristicEffect struct {
	Characteristic Characteristic
	Modifier       Modifier
}

type FeatureDefinition struct {
	ID          string
	Name        string
	Icon        string
	Description string
	Kind        FeatureKind
	Style       ManifestationStyle
	Strategy    RiskStrategy // inferred from Risk at catalog load
	Risk        RiskAccumulation
	Quality     QualityEffect
	Effects     []CharacteristicEffect
}

// triggersFor returns the triggers matching one event; triggers for other
// events never fire.
func (d FeatureDefinition) triggersFor(event CellarEvent) []EventTrigger {
	if event == "" {
		return nil
	}
	out := make([]EventTrigger, 0, len(d.Risk.EventTriggers))
	for _, t := range d.Risk.EventTriggers {
		if t.Event == event {
			out = append(out, t)
		}
	}
	return out
}

// inferRiskStrategy classifies the accumulation parameters by shape. The raw
// catalog entries do not store a strategy tag, so classification happens once
// when the catalog loads and is stored on the definition.
func inferRiskStrategy(p RiskAccumulation) RiskStrategy {
	switch {
	case p.BaseRate > 0 && p.CompoundEffect:
		return StrategyCumulative
	case p.BaseRate > 0:
		return StrategyTimeBased
	case len(p.EventTriggers) > 0 && allTriggersAreDraws(p.EventTriggers):
		return StrategyIndependent
	case len(p.EventTriggers) > 0:
		return StrategyEventTriggered
	case p.BaseGrowthRate > 0:
		return StrategySeverityGrowth
	default:
		return StrategyDormant
	}
}

func allTriggersAreDraws(triggers []EventTrigger) bool {
	for _, t := range triggers {
		if !t.Probability.isSet() {
			return false
		}
	}
	return true
}

// FeatureInstance is the per-batch slot for one catalog feature.
// Severity stays 0 until the feature is present.
type FeatureInstance struct {
	ID       string  `json:"id"`
	Risk     float64 `json:"risk"`
	Present  bool    `json:"present"`
	Severity float64 `json:"severity"`
}

// NewFeatureInstances creates one zero instance per catalog feature, in
// catalog order.
func NewFeatureInstances() []FeatureInstance {
	configs := AllFeatureConfigs()
	out := make([]FeatureInstance, len(configs))
	for i, cfg := range configs {
		out[i] = FeatureInstance{ID: cfg.ID}
	}
	return out
}
