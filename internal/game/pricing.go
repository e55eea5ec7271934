package game

const baseBottlePriceEUR = 25.0

// EstimatedBottlePrice derives a sale price from feature-adjusted quality,
// characteristic balance, and vineyard/prestige inputs. It is a pure function
// of its arguments: calling it with a features-stripped copy of the same batch
// yields the counterfactual "price without faults" for comparison displays.
func EstimatedBottlePrice(b *WineBatch, v *Vineyard, prestige, vineyardPrestige float64) float64 {
	if b == nil {
		return 0
	}
	display := FeatureDisplayForBatch(b)
	quality := clamp01(b.BornQuality + display.TotalQualityEffect)

	chars := make(map[Characteristic]float64, len(AllCharacteristics()))
	for _, c := range AllCharacteristics() {
		chars[c] = clamp01(b.Characteristics[c] + display.CombinedActiveEffects[c])
	}
	balance := characteristicBalance(chars)

	landValue := 0.0
	if v != nil {
		landValue = clamp01(v.LandValue)
	}

	index := 0.55*quality + 0.25*balance + 0.20*landValue
	multiplier := 1 + 0.35*clamp01(prestige) + 0.25*clamp01(vineyardPrestige)
	return baseBottlePriceEUR * index * multiplier
}

// characteristicBalance scores how close the profile sits to the balanced
// midpoint; 1 is perfectly balanced, 0 is every characteristic at an extreme.
func characteristicBalance(chars map[Characteristic]float64) float64 {
	all := AllCharacteristics()
	if len(all) == 0 {
		return 0
	}
	deviation := 0.0
	for _, c := range all {
		d := chars[c] - 0.5
		if d < 0 {
			d = -d
		}
		deviation += d
	}
	return clamp01(1 - 2*deviation/float64(len(all)))
}

// StrippedCopy returns a copy of the batch with no features, for
// counterfactual pricing. The original batch is untouched.
func StrippedCopy(b *WineBatch) *WineBatch {
	if b == nil {
		return nil
	}
	copyBatch := *b
	copyBatch.Features = nil
	return &copyBatch
}

// PriceImpact is the estimated per-bottle cost (or benefit) of the batch's
// manifested features: price without features minus price with them.
func PriceImpact(b *WineBatch, v *Vineyard, prestige, vineyardPrestige float64) float64 {
	with := EstimatedBottlePrice(b, v, prestige, vineyardPrestige)
	without := EstimatedBottlePrice(StrippedCopy(b), v, prestige, vineyardPrestige)
	return without - with
}
