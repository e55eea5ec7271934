package game

// BuiltinVineyards is the site catalog a new cellar starts with. Land value
// and prestige are normalized [0,1] inputs for price derivation.
func BuiltinVineyards() []Vineyard {
	return []Vineyard{
		{
			ID:           "willow_bend",
			Name:         "Willow Bend",
			Region:       "Loire Valley",
			Variety:      "Chardonnay",
			Hectares:     2.5,
			Planted:      true,
			VineAgeYears: 8,
			LandValue:    0.45,
			Prestige:     0.30,
		},
		{
			ID:           "stone_terrace",
			Name:         "Stone Terrace",
			Region:       "Mosel",
			Variety:      "Riesling",
			Hectares:     1.8,
			Planted:      true,
			VineAgeYears: 22,
			LandValue:    0.70,
			Prestige:     0.55,
		},
		{
			ID:           "black_slope",
			Name:         "Black Slope",
			Region:       "Barossa Valley",
			Variety:      "Syrah",
			Hectares:     3.2,
			Planted:      true,
			VineAgeYears: 15,
			LandValue:    0.60,
			Prestige:     0.50,
		},
		{
			ID:           "old_creek",
			Name:         "Old Creek",
			Region:       "Willamette Valley",
			Variety:      "Pinot Noir",
			Hectares:     2.0,
			Planted:      true,
			VineAgeYears: 12,
			LandValue:    0.55,
			Prestige:     0.40,
		},
		{
			ID:           "long_row",
			Name:         "Long Row",
			Region:       "Bordeaux",
			Variety:      "Cabernet Sauvignon",
			Hectares:     4.0,
			Planted:      true,
			VineAgeYears: 18,
			LandValue:    0.65,
			Prestige:     0.60,
		},
	}
}
