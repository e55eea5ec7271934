package game

import (
	"fmt"
	"hash/fnv"
)

// Vineyard is a plantable site. Ripeness advances weekly during the growing
// season and resets on harvest; land value and prestige are normalized [0,1]
// inputs consumed by price derivation.
type Vineyard struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Region       string  `json:"region"`
	Variety      string  `json:"variety"`
	Hectares     float64 `json:"hectares"`
	Planted      bool    `json:"planted"`
	VineAgeYears int     `json:"vine_age_years"`
	Ripeness     float64 `json:"ripeness"`
	LandValue    float64 `json:"land_value"`
	Prestige     float64 `json:"prestige"`
}

// RipenessGainForWeek is the deterministic weekly ripeness increment for a
// planted vineyard: a base gain plus seeded jitter so two runs with the same
// seed ripen identically.
func RipenessGainForWeek(seed int64, vineyardID string, week int) float64 {
	if week < 1 {
		week = 1
	}
	base := 0.035
	jitter := float64(deterministicRipenessRoll(seed, vineyardID, week)%21-10) / 1000.0
	gain := base + jitter
	if gain < 0 {
		gain = 0
	}
	return gain
}

func deterministicRipenessRoll(seed int64, vineyardID string, week int) int {
	h := fnv.New64a()
	_, _ = h.Write([]byte(fmt.Sprintf("%d:%s:%d:ripeness", seed, vineyardID, week)))
	return int(h.Sum64() & 0x7fffffff)
}

// HarvestQuality derives the born grape quality from ripeness and vine age.
// Overripe fruit loses a little; older vines add depth.
func HarvestQuality(v Vineyard) float64 {
	q := 0.35 + 0.5*v.Ripeness
	if v.Ripeness > 0.95 {
		q -= (v.Ripeness - 0.95) * 0.8
	}
	if v.VineAgeYears > 10 {
		q += 0.05
	} else if v.VineAgeYears > 3 {
		q += 0.02
	}
	return clamp01(q)
}

// baseCharacteristicsForVariety gives starting characteristic values for a
// freshly harvested batch.
func baseCharacteristicsForVariety(variety string, ripeness float64) map[Characteristic]float64 {
	chars := map[Characteristic]float64{
		CharAcidity:   0.5,
		CharAroma:     0.5,
		CharBody:      0.5,
		CharSpice:     0.5,
		CharSweetness: 0.5,
		CharTannins:   0.5,
	}
	switch variety {
	case "Pinot Noir":
		chars[CharAroma] = 0.6
		chars[CharBody] = 0.4
		chars[CharTannins] = 0.4
	case "Cabernet Sauvignon":
		chars[CharBody] = 0.65
		chars[CharTannins] = 0.7
		chars[CharSpice] = 0.55
	case "Riesling":
		chars[CharAcidity] = 0.7
		chars[CharSweetness] = 0.6
		chars[CharBody] = 0.35
	case "Syrah":
		chars[CharSpice] = 0.7
		chars[CharBody] = 0.6
		chars[CharTannins] = 0.6
	case "Chardonnay":
		chars[CharBody] = 0.55
		chars[CharAcidity] = 0.55
		chars[CharTannins] = 0.3
	}
	// Riper fruit trades acidity for sweetness.
	chars[CharSweetness] = clamp01(chars[CharSweetness] + (ripeness-0.5)*0.2)
	chars[CharAcidity] = clamp01(chars[CharAcidity] - (ripeness-0.5)*0.15)
	return chars
}
