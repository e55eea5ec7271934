package game

import (
	"testing"
)

func TestInferRiskStrategyTable(t *testing.T) {
	drawTrigger := EventTrigger{Event: EventBottling, Probability: RiskAmount{Constant: 0.1}}
	increaseTrigger := EventTrigger{Event: EventHarvest, RiskIncrease: RiskAmount{Constant: 0.2}}

	tests := []struct {
		name string
		risk RiskAccumulation
		want RiskStrategy
	}{
		{
			name: "compound base rate is cumulative",
			risk: RiskAccumulation{BaseRate: 0.02, CompoundEffect: true},
			want: StrategyCumulative,
		},
		{
			name: "plain base rate is time based",
			risk: RiskAccumulation{BaseRate: 0.015},
			want: StrategyTimeBased,
		},
		{
			name: "all draw triggers is independent",
			risk: RiskAccumulation{EventTriggers: []EventTrigger{drawTrigger}},
			want: StrategyIndependent,
		},
		{
			name: "any increase trigger is event triggered",
			risk: RiskAccumulation{EventTriggers: []EventTrigger{increaseTrigger}},
			want: StrategyEventTriggered,
		},
		{
			name: "mixed triggers fall back to event triggered",
			risk: RiskAccumulation{EventTriggers: []EventTrigger{drawTrigger, increaseTrigger}},
			want: StrategyEventTriggered,
		},
		{
			name: "growth rate only is severity growth",
			risk: RiskAccumulation{BaseGrowthRate: 0.01},
			want: StrategySeverityGrowth,
		},
		{
			name: "triggers win over growth rate",
			risk: RiskAccumulation{EventTriggers: []EventTrigger{drawTrigger}, BaseGrowthRate: 0.01},
			want: StrategyIndependent,
		},
		{
			name: "empty parameters are dormant",
			risk: RiskAccumulation{},
			want: StrategyDormant,
		},
	}
	for _, tc := range tests {
		if got := inferRiskStrategy(tc.risk); got != tc.want {
			t.Fatalf("%s: inferRiskStrategy=%s want=%s", tc.name, got, tc.want)
		}
	}
}

func TestBuiltinCatalogStrategies(t *testing.T) {
	want := map[string]RiskStrategy{
		FeatureOxidation:       StrategyCumulative,
		FeatureVolatileAcidity: StrategyTimeBased,
		FeatureGreenFlavors:    StrategyEventTriggered,
		FeatureCorkTaint:       StrategyIndependent,
		FeatureTerroir:         StrategyIndependent,
		FeatureBottleAging:     StrategySeverityGrowth,
	}
	for id, strategy := range want {
		cfg, ok := FeatureConfig(id)
		if !ok {
			t.Fatalf("missing catalog entry %s", id)
		}
		if cfg.Strategy != strategy {
			t.Fatalf("%s strategy=%s want=%s", id, cfg.Strategy, strategy)
		}
	}
}

func TestAllFeatureConfigsReturnsStableCopy(t *testing.T) {
	first := AllFeatureConfigs()
	first[0].Name = "mutated"

	second := AllFeatureConfigs()
	if second[0].Name == "mutated" {
		t.Fatal("catalog copy leaked mutation back into the catalog")
	}
	if len(first) != len(second) {
		t.Fatalf("catalog length changed between calls: %d vs %d", len(first), len(second))
	}
	for i := range second {
		if first2 := AllFeatureConfigs(); first2[i].ID != second[i].ID {
			t.Fatalf("catalog order changed at %d", i)
		}
	}
}

func TestNewFeatureInstancesMatchesCatalogOrder(t *testing.T) {
	configs := AllFeatureConfigs()
	instances := NewFeatureInstances()
	if len(instances) != len(configs) {
		t.Fatalf("instances=%d want=%d", len(instances), len(configs))
	}
	for i, inst := range instances {
		if inst.ID != configs[i].ID {
			t.Fatalf("instance %d id=%s want=%s", i, inst.ID, configs[i].ID)
		}
		if inst.Present || inst.Risk != 0 || inst.Severity != 0 {
			t.Fatalf("instance %s not zero: %+v", inst.ID, inst)
		}
	}
}

func TestStateMultiplierDefaultsToOne(t *testing.T) {
	b := &WineBatch{State: BatchAging}
	multipliers := map[BatchState]Multiplier{BatchBottled: constMult(0.3)}
	if got := stateMultiplier(multipliers, b); got != 1 {
		t.Fatalf("missing state multiplier=%v want 1", got)
	}
	b.State = BatchBottled
	if got := stateMultiplier(multipliers, b); got != 0.3 {
		t.Fatalf("bottled multiplier=%v want 0.3", got)
	}
}

func TestQualityEffectImpactShapes(t *testing.T) {
	linear := QualityEffect{Kind: QualityLinear, Amount: -0.2}
	if got := linear.impact(0.5); !near(got, -0.1) {
		t.Fatalf("linear impact=%v want -0.1", got)
	}

	power := QualityEffect{Kind: QualityPower, BasePenalty: 0.10, Exponent: 2}
	if got := power.impact(0.5); !near(got, -0.125) {
		t.Fatalf("power impact=%v want -0.125", got)
	}
	if got := power.impact(1); !near(got, -0.2) {
		t.Fatalf("power impact at full severity=%v want -0.2", got)
	}

	bonus := QualityEffect{Kind: QualityBonus, BonusFn: func(s float64) float64 { return 0.05 + 0.10*s }}
	if got := bonus.impact(0.5); !near(got, 0.1) {
		t.Fatalf("bonus impact=%v want 0.1", got)
	}
	flat := QualityEffect{Kind: QualityBonus, Amount: 0.08}
	if got := flat.impact(0.3); !near(got, 0.08) {
		t.Fatalf("flat bonus impact=%v want 0.08", got)
	}
}

func near(got, want float64) bool {
	diff := got - want
	if diff < 0 {
		diff = -diff
	}
	return diff < 1e-9
}
