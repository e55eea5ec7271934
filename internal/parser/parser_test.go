package parser

import "testing"

func TestNormalisationTable(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "  HARVST  ", want: "harvst"},
		{in: "bring-in   SYRAH!!", want: "bring in syrah"},
		{in: "next   2W", want: "next 2w"},
	}
	for _, tc := range tests {
		got := normaliseInput(tc.in)
		if got != tc.want {
			t.Fatalf("normaliseInput(%q)=%q want=%q", tc.in, got, tc.want)
		}
	}
}

func TestAliasVinesMapsToVineyards(t *testing.T) {
	p := New()
	intent := p.Parse(ParseContext{}, "vines")
	if intent.Verb != "vineyards" {
		t.Fatalf("expected vineyards verb, got %q", intent.Verb)
	}
	if intent.Clarify != nil {
		t.Fatalf("did not expect clarify: %+v", intent.Clarify)
	}
}

func TestTypoHarvstMapsToHarvest(t *testing.T) {
	p := New()
	ctx := ParseContext{
		Vineyards: []string{"willow bend", "stone terrace"},
	}
	intent := p.Parse(ctx, "harvst willow bend")
	if intent.Verb != "harvest" {
		t.Fatalf("expected harvest verb, got %q", intent.Verb)
	}
	if intent.Confidence < 0.6 {
		t.Fatalf("expected decent confidence for typo correction, got %.2f", intent.Confidence)
	}
	if len(intent.Args) == 0 || intent.Args[0] != "willow bend" {
		t.Fatalf("expected first arg willow bend, got %+v", intent.Args)
	}
}

func TestVineyardBoostResolvesTypo(t *testing.T) {
	p := New()
	ctx := ParseContext{
		Vineyards: []string{"willow bend", "stone terrace"},
	}
	intent := p.Parse(ctx, "pick willow bnd")
	if intent.Verb != "harvest" {
		t.Fatalf("expected harvest verb, got %q", intent.Verb)
	}
	if len(intent.Args) == 0 || intent.Args[0] != "willow bend" {
		t.Fatalf("expected first arg willow bend, got %+v", intent.Args)
	}
}

func TestTargetlessCrushReturnsClarify(t *testing.T) {
	p := New()
	ctx := ParseContext{
		Batches: []string{"willow bend chardonnay", "black slope syrah"},
	}
	intent := p.Parse(ctx, "crush")
	if intent.Clarify == nil {
		t.Fatalf("expected clarify for target-less crush")
	}
	if len(intent.Clarify.Options) < 2 {
		t.Fatalf("expected at least 2 clarify options, got %d", len(intent.Clarify.Options))
	}
}

func TestFreeTextCellarInference(t *testing.T) {
	p := New()
	intent := p.Parse(ParseContext{}, "lets check the cellar")
	if intent.Verb != "cellar" {
		t.Fatalf("expected cellar inference, got %q", intent.Verb)
	}
}

func TestFreeTextNextWeekInference(t *testing.T) {
	p := New()
	intent := p.Parse(ParseContext{}, "just skip a week")
	if intent.Verb != "next" {
		t.Fatalf("expected next command, got %q", intent.Verb)
	}
}

func TestNextCommandParsesWeeksQuantity(t *testing.T) {
	p := New()
	intent := p.Parse(ParseContext{}, "next 3w")
	if intent.Verb != "next" {
		t.Fatalf("expected next verb, got %q", intent.Verb)
	}
	if intent.Quantity == nil || intent.Quantity.N != 3 || intent.Quantity.Unit != "weeks" {
		t.Fatalf("expected 3 week quantity, got %+v", intent.Quantity)
	}
}

func TestPronounResolutionBottleIt(t *testing.T) {
	p := New()
	ctx := ParseContext{
		Batches:    []string{"willow bend chardonnay"},
		LastEntity: "willow bend chardonnay",
	}
	intent := p.Parse(ctx, "bottle it")
	if intent.Clarify != nil {
		t.Fatalf("unexpected clarify: %+v", intent.Clarify)
	}
	if intent.Verb != "bottle" {
		t.Fatalf("expected bottle verb, got %q", intent.Verb)
	}
	if len(intent.Args) == 0 || intent.Args[0] != "willow bend chardonnay" {
		t.Fatalf("expected pronoun to resolve to the batch, got %+v", intent.Args)
	}
}
