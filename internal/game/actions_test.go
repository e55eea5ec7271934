package game

import (
	"strings"
	"testing"
)

func harvestTestBatch(t *testing.T, s *CellarState) *WineBatch {
	t.Helper()
	s.Vineyards[0].Ripeness = 0.9
	b, err := s.HarvestVineyard(s.Vineyards[0].ID)
	if err != nil {
		t.Fatalf("harvest: %v", err)
	}
	return b
}

func TestHarvestVineyardCreatesBatch(t *testing.T) {
	s := newTestCellar(t)
	v := &s.Vineyards[0]
	v.Ripeness = 0.9
	wantQuality := HarvestQuality(*v)

	b, err := s.HarvestVineyard(v.ID)
	if err != nil {
		t.Fatalf("harvest: %v", err)
	}
	if b.State != BatchGrapes {
		t.Fatalf("state=%s want grapes", b.State)
	}
	if !near(b.BornQuality, wantQuality) {
		t.Fatalf("born quality=%v want=%v", b.BornQuality, wantQuality)
	}
	if !near(b.Liters, v.Hectares*4500*(0.4+0.6*0.9)) {
		t.Fatalf("liters=%v want yield from ripeness", b.Liters)
	}
	if v.Ripeness != 0 {
		t.Fatalf("ripeness=%v want reset to 0", v.Ripeness)
	}
	if len(s.Batches) != 1 {
		t.Fatalf("batches=%d want 1", len(s.Batches))
	}
	if len(b.Features) != len(AllFeatureConfigs()) {
		t.Fatalf("feature slots=%d want one per catalog entry", len(b.Features))
	}
}

func TestHarvestRequiresRipeFruit(t *testing.T) {
	s := newTestCellar(t)
	s.Vineyards[0].Ripeness = 0.05

	if _, err := s.HarvestVineyard(s.Vineyards[0].ID); err == nil {
		t.Fatal("expected error for unripe vineyard")
	}
	if _, err := s.HarvestVineyard("no_such_site"); err == nil {
		t.Fatal("expected error for unknown vineyard")
	}
}

func TestPipelineEnforcesStateOrder(t *testing.T) {
	s := newTestCellar(t)
	b := harvestTestBatch(t, s)

	if err := s.FermentBatch(b.ID, FermentationOptions{Method: FermentBarrel, TemperatureC: 20}); err == nil {
		t.Fatal("fermenting uncrushed grapes should fail")
	}
	if err := s.BottleBatch(b.ID); err == nil {
		t.Fatal("bottling grapes should fail")
	}

	if err := s.CrushBatch(b.ID, CrushingOptions{Method: CrushPneumatic, Destemmed: true}); err != nil {
		t.Fatalf("crush: %v", err)
	}
	if err := s.CrushBatch(b.ID, CrushingOptions{Method: CrushPneumatic, Destemmed: true}); err == nil {
		t.Fatal("double crush should fail")
	}
	if err := s.FermentBatch(b.ID, FermentationOptions{Method: FermentClosedTank, TemperatureC: 18}); err != nil {
		t.Fatalf("ferment: %v", err)
	}
	if err := s.RackBatch(b.ID); err != nil {
		t.Fatalf("rack: %v", err)
	}
	if err := s.BottleBatch(b.ID); err != nil {
		t.Fatalf("bottle: %v", err)
	}

	got := s.batch(b.ID)
	if got.State != BatchBottled {
		t.Fatalf("state=%s want bottled", got.State)
	}
	if got.Bottles != int(got.Liters/litersPerBottle) {
		t.Fatalf("bottles=%d want %d", got.Bottles, int(got.Liters/litersPerBottle))
	}
	if got.AgingWeeks != 0 {
		t.Fatalf("aging weeks=%d want fresh clock", got.AgingWeeks)
	}
}

func TestStateTransitionsResetWeeksInState(t *testing.T) {
	s := newTestCellar(t)
	b := harvestTestBatch(t, s)
	s.Batches[0].WeeksInState = 4

	if err := s.CrushBatch(b.ID, CrushingOptions{Method: CrushHandPress, Destemmed: true}); err != nil {
		t.Fatalf("crush: %v", err)
	}
	if got := s.batch(b.ID); got.WeeksInState != 0 {
		t.Fatalf("weeks in state=%d want 0 after transition", got.WeeksInState)
	}
}

func TestSellBottles(t *testing.T) {
	s := newTestCellar(t)
	b := harvestTestBatch(t, s)
	if err := s.CrushBatch(b.ID, CrushingOptions{Method: CrushPneumatic, Destemmed: true}); err != nil {
		t.Fatalf("crush: %v", err)
	}
	if err := s.FermentBatch(b.ID, FermentationOptions{Method: FermentClosedTank, TemperatureC: 18}); err != nil {
		t.Fatalf("ferment: %v", err)
	}
	if err := s.RackBatch(b.ID); err != nil {
		t.Fatalf("rack: %v", err)
	}
	if err := s.BottleBatch(b.ID); err != nil {
		t.Fatalf("bottle: %v", err)
	}

	got := s.batch(b.ID)
	cashBefore := s.CashEUR
	prestigeBefore := s.Prestige
	bottlesBefore := got.Bottles

	revenue, err := s.SellBottles(b.ID, 10)
	if err != nil {
		t.Fatalf("sell: %v", err)
	}
	if revenue <= 0 {
		t.Fatalf("revenue=%v want positive", revenue)
	}
	if got.Bottles != bottlesBefore-10 {
		t.Fatalf("bottles=%d want %d", got.Bottles, bottlesBefore-10)
	}
	if !near(s.CashEUR, cashBefore+revenue) {
		t.Fatalf("cash=%v want %v", s.CashEUR, cashBefore+revenue)
	}
	if s.Prestige <= prestigeBefore {
		t.Fatalf("prestige=%v should grow with a sale", s.Prestige)
	}

	if _, err := s.SellBottles(b.ID, got.Bottles+1); err == nil {
		t.Fatal("overselling should fail")
	}
	if _, err := s.SellBottles(b.ID, 0); err == nil {
		t.Fatal("zero-count sale should fail")
	}
}

func TestSellRequiresBottledState(t *testing.T) {
	s := newTestCellar(t)
	b := harvestTestBatch(t, s)
	if _, err := s.SellBottles(b.ID, 1); err == nil {
		t.Fatal("selling unbottled wine should fail")
	}
}

func TestHarvestUnderripeFiresGreenFlavors(t *testing.T) {
	s := newTestCellar(t)
	s.RollFn = rollAlways
	s.Vineyards[0].Ripeness = 0.3

	b, err := s.HarvestVineyard(s.Vineyards[0].ID)
	if err != nil {
		t.Fatalf("harvest: %v", err)
	}
	if !b.PresentFeature(FeatureGreenFlavors) {
		t.Fatal("underripe harvest with a forced roll should manifest green flavors")
	}
	if !strings.Contains(string(b.State), "grapes") {
		t.Fatalf("state=%s want grapes", b.State)
	}
	if b.Quality >= b.BornQuality {
		t.Fatalf("quality=%v should drop below born %v with green flavors", b.Quality, b.BornQuality)
	}
}
