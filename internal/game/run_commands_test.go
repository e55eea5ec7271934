package game

import (
	"strings"
	"testing"
)

func TestExecuteCellarCommandHelp(t *testing.T) {
	s := newTestCellar(t)
	result := s.ExecuteCellarCommand("help")
	if !result.Handled {
		t.Fatal("help should be handled")
	}
	for _, verb := range []string{"harvest", "crush", "ferment", "bottle", "preview", "sell"} {
		if !strings.Contains(result.Message, verb) {
			t.Fatalf("help is missing %q: %s", verb, result.Message)
		}
	}
}

func TestExecuteCellarCommandUnknownNotHandled(t *testing.T) {
	s := newTestCellar(t)
	if result := s.ExecuteCellarCommand("dance"); result.Handled {
		t.Fatalf("unknown command handled: %+v", result)
	}
	if result := s.ExecuteCellarCommand("   "); result.Handled {
		t.Fatalf("blank command handled: %+v", result)
	}
}

func TestStatusReportsWineryAndWeek(t *testing.T) {
	s := newTestCellar(t)
	result := s.ExecuteCellarCommand("status")
	if !result.Handled {
		t.Fatal("status should be handled")
	}
	if !strings.Contains(result.Message, "Test Cellars") {
		t.Fatalf("status missing winery name: %s", result.Message)
	}
	if !strings.Contains(result.Message, "week 1") {
		t.Fatalf("status missing week: %s", result.Message)
	}
}

func TestHarvestCommandByNamePrefix(t *testing.T) {
	s := newTestCellar(t)
	s.Vineyards[0].Ripeness = 0.9

	result := s.ExecuteCellarCommand("harvest willow")
	if !result.Handled {
		t.Fatal("harvest should be handled")
	}
	if !strings.Contains(result.Message, "Harvested") {
		t.Fatalf("unexpected harvest output: %s", result.Message)
	}
	if len(s.Batches) != 1 {
		t.Fatalf("batches=%d want 1", len(s.Batches))
	}
}

func TestInspectCommandByCellarIndex(t *testing.T) {
	s := newTestCellar(t)
	s.Vineyards[0].Ripeness = 0.9
	if result := s.ExecuteCellarCommand("harvest willow"); !result.Handled {
		t.Fatal("harvest should be handled")
	}

	result := s.ExecuteCellarCommand("inspect 1")
	if !result.Handled {
		t.Fatal("inspect should be handled")
	}
	if !strings.Contains(result.Message, "Willow Bend") {
		t.Fatalf("inspect missing batch name: %s", result.Message)
	}
	if !strings.Contains(result.Message, "Profile:") {
		t.Fatalf("inspect missing characteristic profile: %s", result.Message)
	}
}

func TestNextCommandAdvancesWeeks(t *testing.T) {
	s := newTestCellar(t)
	result := s.ExecuteCellarCommand("next 3")
	if !result.Handled {
		t.Fatal("next should be handled")
	}
	if result.WeeksAdvanced != 3 {
		t.Fatalf("weeks advanced=%d want 3", result.WeeksAdvanced)
	}
	if s.Week != 4 {
		t.Fatalf("week=%d want 4", s.Week)
	}
	if !strings.Contains(result.Message, "Week 4.") {
		t.Fatalf("unexpected next output: %s", result.Message)
	}
}

func TestNextCommandAcceptsWeekSuffix(t *testing.T) {
	s := newTestCellar(t)
	if result := s.ExecuteCellarCommand("next 2w"); result.WeeksAdvanced != 2 {
		t.Fatalf("weeks advanced=%d want 2", result.WeeksAdvanced)
	}
}

func TestPreviewCommandForCrush(t *testing.T) {
	s := newTestCellar(t)
	s.Vineyards[0].Ripeness = 0.9
	if result := s.ExecuteCellarCommand("harvest willow"); !result.Handled {
		t.Fatal("harvest should be handled")
	}

	result := s.ExecuteCellarCommand("preview crush 1")
	if !result.Handled {
		t.Fatal("preview should be handled")
	}
	if !strings.Contains(result.Message, "Risk preview for crushing") {
		t.Fatalf("unexpected preview output: %s", result.Message)
	}
	if !strings.Contains(result.Message, "Oxidation") {
		t.Fatalf("preview missing oxidation options: %s", result.Message)
	}
}

func TestSellCommandValidatesCount(t *testing.T) {
	s := newTestCellar(t)
	s.Vineyards[0].Ripeness = 0.9
	if result := s.ExecuteCellarCommand("harvest willow"); !result.Handled {
		t.Fatal("harvest should be handled")
	}

	result := s.ExecuteCellarCommand("sell 1 ten")
	if !result.Handled {
		t.Fatal("sell should report the parse problem")
	}
	if !strings.Contains(result.Message, "must be a number") {
		t.Fatalf("unexpected sell output: %s", result.Message)
	}
}

func TestBatchRefDisambiguation(t *testing.T) {
	s := newTestCellar(t)
	s.Vineyards[0].Ripeness = 0.9
	s.Vineyards[1].Ripeness = 0.9
	if result := s.ExecuteCellarCommand("harvest willow"); !result.Handled {
		t.Fatal("first harvest should be handled")
	}
	if result := s.ExecuteCellarCommand("harvest stone"); !result.Handled {
		t.Fatal("second harvest should be handled")
	}

	s.Batches[0].ID = "lot-a"
	s.Batches[1].ID = "lot-b"
	if _, err := s.resolveBatchRef("lot"); err == nil {
		t.Fatal("ambiguous prefix should error")
	}
	b, err := s.resolveBatchRef("stone")
	if err != nil {
		t.Fatalf("resolve stone: %v", err)
	}
	if b.VineyardName != "Stone Terrace" {
		t.Fatalf("resolved %s want Stone Terrace", b.VineyardName)
	}
	if _, err := s.resolveBatchRef("9"); err == nil {
		t.Fatal("out-of-range index should error")
	}
}
