package game

type BatchState string

const (
	BatchGrapes     BatchState = "grapes"
	BatchCrushing   BatchState = "crushing"
	BatchFermenting BatchState = "fermenting"
	BatchAging      BatchState = "aging"
	BatchBottled    BatchState = "bottled"
)

type CrushMethod string

const (
	CrushHandPress  CrushMethod = "hand_press"
	CrushMechanical CrushMethod = "mechanical"
	CrushPneumatic  CrushMethod = "pneumatic"
	CrushFootTread  CrushMethod = "foot_tread"
)

type FermentMethod string

const (
	FermentOpenVat    FermentMethod = "open_vat"
	FermentClosedTank FermentMethod = "closed_tank"
	FermentBarrel     FermentMethod = "barrel"
)

type CrushingOptions struct {
	Method    CrushMethod `json:"method"`
	Destemmed bool        `json:"destemmed"`
}

type FermentationOptions struct {
	Method       FermentMethod `json:"method"`
	TemperatureC float64       `json:"temperature_c"`
}

// WineBatch is one lot of grapes/wine moving through the production pipeline.
// BornQuality is fixed at harvest; Quality is recomputed from BornQuality plus
// the summed quality effects of all present features.
type WineBatch struct {
	ID              string                     `json:"id"`
	VineyardID      string                     `json:"vineyard_id"`
	VineyardName    string                     `json:"vineyard_name"`
	Variety         string                     `json:"variety"`
	VintageWeek     int                        `json:"vintage_week"`
	State           BatchState                 `json:"state"`
	WeeksInState    int                        `json:"weeks_in_state"`
	Liters          float64                    `json:"liters"`
	Bottles         int                        `json:"bottles"`
	BornQuality     float64                    `json:"born_quality"`
	Quality         float64                    `json:"quality"`
	Characteristics map[Characteristic]float64 `json:"characteristics"`
	Features        []FeatureInstance          `json:"features"`
	Crushing        *CrushingOptions           `json:"crushing,omitempty"`
	Fermentation    *FermentationOptions       `json:"fermentation,omitempty"`
	AgingWeeks      int                        `json:"aging_weeks"`
}

// feature returns the instance slot for a catalog feature, synthesizing a
// zero instance when the batch predates a catalog addition.
func (b *WineBatch) feature(id string) *FeatureInstance {
	for i := range b.Features {
		if b.Features[i].ID == id {
			return &b.Features[i]
		}
	}
	b.Features = append(b.Features, FeatureInstance{ID: id})
	return &b.Features[len(b.Features)-1]
}

// PresentFeature reports whether the named feature has manifested on this batch.
func (b *WineBatch) PresentFeature(id string) bool {
	for _, f := range b.Features {
		if f.ID == id {
			return f.Present
		}
	}
	return false
}

// RefreshQuality reapplies the feature quality total on top of the born
// quality. Only this final applied value is clamped.
func (b *WineBatch) RefreshQuality() {
	display := FeatureDisplayForBatch(b)
	b.Quality = clamp01(b.BornQuality + display.TotalQualityEffect)
}

// EffectiveCharacteristics returns base characteristics plus all active
// feature deltas, clamped at the point of application.
func (b *WineBatch) EffectiveCharacteristics() map[Characteristic]float64 {
	display := FeatureDisplayForBatch(b)
	out := make(map[Characteristic]float64, len(AllCharacteristics()))
	for _, c := range AllCharacteristics() {
		out[c] = clamp01(b.Characteristics[c] + display.CombinedActiveEffects[c])
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
