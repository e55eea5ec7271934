package game

import (
	"fmt"

	"github.com/google/uuid"
)

// Discovery summary:
// - Player actions move a batch between pipeline states and fire the matching
//   cellar event through the risk engine before quality is refreshed.
// - Actions validate the current state first; a batch can only move forward.

const litersPerBottle = 0.75

// HarvestVineyard picks a planted vineyard into a fresh batch. Harvest-time
// features (green flavors, terroir) get their one chance to fire here.
func (s *CellarState) HarvestVineyard(vineyardID string) (*WineBatch, error) {
	v := s.vineyard(vineyardID)
	if v == nil {
		return nil, fmt.Errorf("vineyard not found: %s", vineyardID)
	}
	if !v.Planted {
		return nil, fmt.Errorf("%s has no vines planted", v.Name)
	}
	if v.Ripeness < 0.15 {
		return nil, fmt.Errorf("%s is not worth picking yet (ripeness %.0f%%)", v.Name, v.Ripeness*100)
	}

	batch := WineBatch{
		ID:              uuid.NewString(),
		VineyardID:      v.ID,
		VineyardName:    v.Name,
		Variety:         v.Variety,
		VintageWeek:     s.Week,
		State:           BatchGrapes,
		Liters:          v.Hectares * 4500 * (0.4 + 0.6*v.Ripeness),
		BornQuality:     HarvestQuality(*v),
		Characteristics: baseCharacteristicsForVariety(v.Variety, v.Ripeness),
		Features:        NewFeatureInstances(),
	}
	batch.Quality = batch.BornQuality

	s.AdvanceFeatureRisk(&batch, EventHarvest, v)
	batch.RefreshQuality()

	v.Ripeness = 0
	s.Batches = append(s.Batches, batch)
	return &s.Batches[len(s.Batches)-1], nil
}

// CrushBatch moves harvested grapes into the crusher with the chosen options.
func (s *CellarState) CrushBatch(batchID string, opts CrushingOptions) error {
	b := s.batch(batchID)
	if b == nil {
		return fmt.Errorf("batch not found: %s", batchID)
	}
	if b.State != BatchGrapes {
		return fmt.Errorf("batch is %s, only harvested grapes can be crushed", b.State)
	}
	b.State = BatchCrushing
	b.WeeksInState = 0
	b.Crushing = &opts

	s.AdvanceFeatureRisk(b, EventCrushing, nil)
	b.RefreshQuality()
	return nil
}

// FermentBatch starts fermentation. Method and temperature feed the
// state-dependent risk multipliers for oxidation and volatile acidity.
func (s *CellarState) FermentBatch(batchID string, opts FermentationOptions) error {
	b := s.batch(batchID)
	if b == nil {
		return fmt.Errorf("batch not found: %s", batchID)
	}
	if b.State != BatchCrushing {
		return fmt.Errorf("batch is %s, only crushed must can be fermented", b.State)
	}
	b.State = BatchFermenting
	b.WeeksInState = 0
	b.Fermentation = &opts

	s.AdvanceFeatureRisk(b, EventFermentation, nil)
	b.RefreshQuality()
	return nil
}

// RackBatch moves finished fermentation into the aging cellar.
func (s *CellarState) RackBatch(batchID string) error {
	b := s.batch(batchID)
	if b == nil {
		return fmt.Errorf("batch not found: %s", batchID)
	}
	if b.State != BatchFermenting {
		return fmt.Errorf("batch is %s, only fermenting wine can be racked", b.State)
	}
	b.State = BatchAging
	b.WeeksInState = 0
	b.RefreshQuality()
	return nil
}

// BottleBatch bottles an aged wine. Cork taint gets its single draw here and
// bottle aging starts tracking from week zero.
func (s *CellarState) BottleBatch(batchID string) error {
	b := s.batch(batchID)
	if b == nil {
		return fmt.Errorf("batch not found: %s", batchID)
	}
	if b.State != BatchAging {
		return fmt.Errorf("batch is %s, only aging wine can be bottled", b.State)
	}
	b.State = BatchBottled
	b.WeeksInState = 0
	b.AgingWeeks = 0
	b.Bottles = int(b.Liters / litersPerBottle)

	s.AdvanceFeatureRisk(b, EventBottling, nil)
	s.AdvanceFeatureSeverity(b)
	b.RefreshQuality()
	return nil
}

// SellBottles sells from a bottled batch at the estimated price, credits
// cash, and nudges winery prestige with the sale.
func (s *CellarState) SellBottles(batchID string, count int) (float64, error) {
	b := s.batch(batchID)
	if b == nil {
		return 0, fmt.Errorf("batch not found: %s", batchID)
	}
	if b.State != BatchBottled {
		return 0, fmt.Errorf("batch is %s, only bottled wine can be sold", b.State)
	}
	if count <= 0 {
		return 0, fmt.Errorf("bottle count must be positive, got %d", count)
	}
	if count > b.Bottles {
		return 0, fmt.Errorf("only %d bottles left, cannot sell %d", b.Bottles, count)
	}

	v := s.vineyard(b.VineyardID)
	vineyardPrestige := 0.0
	if v != nil {
		vineyardPrestige = v.Prestige
	}
	price := EstimatedBottlePrice(b, v, s.Prestige, vineyardPrestige)
	revenue := price * float64(count)

	b.Bottles -= count
	s.CashEUR += revenue
	s.Prestige = clamp01(s.Prestige + 0.0005*float64(count)*b.Quality)
	return revenue, nil
}
