package game

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Discovery summary:
// - Command handlers are thin adapters over CellarState actions and the display
//   engines; all formatting for the console lives here.
// - Batch references accept a cellar index or an id prefix; vineyard references
//   accept an id or name prefix.

type CellarCommandResult struct {
	Handled       bool
	Message       string
	WeeksAdvanced int
}

func (s *CellarState) ExecuteCellarCommand(raw string) CellarCommandResult {
	command := strings.TrimSpace(strings.ToLower(raw))
	if command == "" {
		return CellarCommandResult{Handled: false}
	}
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return CellarCommandResult{Handled: false}
	}

	switch fields[0] {
	case "help", "commands":
		return CellarCommandResult{
			Handled: true,
			Message: "Commands: status, vineyards, cellar, inspect <batch>, harvest <vineyard>, crush <batch> <hand_press|mechanical|pneumatic|foot_tread> [destem|stems], ferment <batch> <open_vat|closed_tank|barrel> <tempC>, rack <batch>, bottle <batch>, preview <harvest|crush|ferment|bottle> <target>, price <batch>, sell <batch> <count>, next [weeks], save, load, quit.",
		}
	case "status":
		return s.executeStatusCommand()
	case "vineyards":
		return s.executeVineyardsCommand()
	case "cellar", "batches":
		return s.executeCellarListCommand()
	case "inspect", "examine":
		return s.executeInspectCommand(fields[1:])
	case "harvest", "pick":
		return s.executeHarvestCommand(fields[1:])
	case "crush":
		return s.executeCrushCommand(fields[1:])
	case "ferment":
		return s.executeFermentCommand(fields[1:])
	case "rack", "age":
		return s.executeRackCommand(fields[1:])
	case "bottle":
		return s.executeBottleCommand(fields[1:])
	case "preview":
		return s.executePreviewCommand(fields[1:])
	case "price":
		return s.executePriceCommand(fields[1:])
	case "sell":
		return s.executeSellCommand(fields[1:])
	case "next", "wait":
		return s.executeNextCommand(fields[1:])
	default:
		return CellarCommandResult{Handled: false}
	}
}

func (s *CellarState) executeStatusCommand() CellarCommandResult {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s — week %d\n", s.Config.WineryName, s.Week)
	fmt.Fprintf(&sb, "Cash: €%.2f  Prestige: %.0f%%\n", s.CashEUR, s.Prestige*100)
	fmt.Fprintf(&sb, "Vineyards: %d  Batches in cellar: %d", len(s.Vineyards), len(s.Batches))
	return CellarCommandResult{Handled: true, Message: sb.String()}
}

func (s *CellarState) executeVineyardsCommand() CellarCommandResult {
	if len(s.Vineyards) == 0 {
		return CellarCommandResult{Handled: true, Message: "No vineyards."}
	}
	var sb strings.Builder
	sb.WriteString("Vineyards:")
	for _, v := range s.Vineyards {
		status := "fallow"
		if v.Planted {
			status = fmt.Sprintf("ripeness %.0f%%", v.Ripeness*100)
		}
		fmt.Fprintf(&sb, "\n  %-14s %s (%s, %.1f ha) — %s", v.ID, v.Name, v.Variety, v.Hectares, status)
	}
	return CellarCommandResult{Handled: true, Message: sb.String()}
}

func (s *CellarState) executeCellarListCommand() CellarCommandResult {
	if len(s.Batches) == 0 {
		return CellarCommandResult{Handled: true, Message: "The cellar is empty."}
	}
	var sb strings.Builder
	sb.WriteString("Cellar:")
	for i, b := range s.Batches {
		fmt.Fprintf(&sb, "\n  %d. %s %s — %s, quality %.0f%%", i+1, b.VineyardName, b.Variety, b.State, b.Quality*100)
		if b.State == BatchBottled {
			fmt.Fprintf(&sb, ", %d bottles, %d weeks in bottle", b.Bottles, b.AgingWeeks)
		}
		if names := presentFeatureNames(&b); names != "" {
			fmt.Fprintf(&sb, " [%s]", names)
		}
	}
	return CellarCommandResult{Handled: true, Message: sb.String()}
}

func presentFeatureNames(b *WineBatch) string {
	names := make([]string, 0, len(b.Features))
	for _, f := range b.Features {
		if !f.Present {
			continue
		}
		if cfg, ok := FeatureConfig(f.ID); ok {
			names = append(names, cfg.Name)
		}
	}
	return strings.Join(names, ", ")
}

func (s *CellarState) executeInspectCommand(args []string) CellarCommandResult {
	if len(args) < 1 {
		return CellarCommandResult{Handled: true, Message: "Usage: inspect <batch>"}
	}
	b, err := s.resolveBatchRef(args[0])
	if err != nil {
		return CellarCommandResult{Handled: true, Message: err.Error()}
	}

	display := FeatureDisplayForBatch(b)
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s (week %d vintage) — %s\n", b.VineyardName, b.Variety, b.VintageWeek, b.State)
	fmt.Fprintf(&sb, "Quality: %.0f%% (born %.0f%%, feature effect %+.1f)\n", b.Quality*100, b.BornQuality*100, display.TotalQualityEffect*100)

	if len(display.Active) > 0 {
		sb.WriteString("Features:")
		for _, f := range display.Active {
			fmt.Fprintf(&sb, "\n  %s (%s): quality %+.1f", f.Name, f.Kind, f.QualityImpact*100)
			if f.Severity > 0 && f.Severity < 1 {
				fmt.Fprintf(&sb, ", severity %.0f%%", f.Severity*100)
			}
		}
		sb.WriteString("\n")
	}
	if len(display.Evolving) > 0 {
		sb.WriteString("Evolving:")
		for _, f := range display.Evolving {
			fmt.Fprintf(&sb, "\n  %s: +%.1f%% severity per week", f.Name, f.WeeklyGrowthRate*100)
		}
		sb.WriteString("\n")
	}
	if len(display.Risks) > 0 {
		sb.WriteString("Risks:")
		for _, r := range display.Risks {
			fmt.Fprintf(&sb, "\n  %s: %.0f%%", r.Name, r.Risk*100)
		}
		sb.WriteString("\n")
	}

	chars := b.EffectiveCharacteristics()
	keys := AllCharacteristics()
	parts := make([]string, 0, len(keys))
	for _, c := range keys {
		parts = append(parts, fmt.Sprintf("%s %.0f%%", c, chars[c]*100))
	}
	sb.WriteString("Profile: " + strings.Join(parts, ", "))
	return CellarCommandResult{Handled: true, Message: sb.String()}
}

func (s *CellarState) executeHarvestCommand(args []string) CellarCommandResult {
	if len(args) < 1 {
		return CellarCommandResult{Handled: true, Message: "Usage: harvest <vineyard>"}
	}
	v, err := s.resolveVineyardRef(strings.Join(args, " "))
	if err != nil {
		return CellarCommandResult{Handled: true, Message: err.Error()}
	}
	batch, err := s.HarvestVineyard(v.ID)
	if err != nil {
		return CellarCommandResult{Handled: true, Message: err.Error()}
	}
	msg := fmt.Sprintf("Harvested %.0f liters of %s from %s at quality %.0f%%.", batch.Liters, batch.Variety, batch.VineyardName, batch.BornQuality*100)
	if names := presentFeatureNames(batch); names != "" {
		msg += fmt.Sprintf(" Picked up: %s.", names)
	}
	return CellarCommandResult{Handled: true, Message: msg}
}

func (s *CellarState) executeCrushCommand(args []string) CellarCommandResult {
	if len(args) < 2 {
		return CellarCommandResult{Handled: true, Message: "Usage: crush <batch> <hand_press|mechanical|pneumatic|foot_tread> [destem|stems]"}
	}
	b, err := s.resolveBatchRef(args[0])
	if err != nil {
		return CellarCommandResult{Handled: true, Message: err.Error()}
	}
	method, ok := parseCrushMethod(args[1])
	if !ok {
		return CellarCommandResult{Handled: true, Message: fmt.Sprintf("Unknown crush method: %s", args[1])}
	}
	destemmed := true
	if len(args) > 2 && (args[2] == "stems" || args[2] == "whole") {
		destemmed = false
	}
	if err := s.CrushBatch(b.ID, CrushingOptions{Method: method, Destemmed: destemmed}); err != nil {
		return CellarCommandResult{Handled: true, Message: err.Error()}
	}
	return CellarCommandResult{Handled: true, Message: fmt.Sprintf("Crushing the %s batch (%s).", b.VineyardName, method)}
}

func (s *CellarState) executeFermentCommand(args []string) CellarCommandResult {
	if len(args) < 3 {
		return CellarCommandResult{Handled: true, Message: "Usage: ferment <batch> <open_vat|closed_tank|barrel> <tempC>"}
	}
	b, err := s.resolveBatchRef(args[0])
	if err != nil {
		return CellarCommandResult{Handled: true, Message: err.Error()}
	}
	method, ok := parseFermentMethod(args[1])
	if !ok {
		return CellarCommandResult{Handled: true, Message: fmt.Sprintf("Unknown fermentation method: %s", args[1])}
	}
	temp, err := strconv.ParseFloat(strings.TrimSuffix(args[2], "c"), 64)
	if err != nil || temp < 5 || temp > 40 {
		return CellarCommandResult{Handled: true, Message: "Fermentation temperature must be between 5 and 40 C."}
	}
	if err := s.FermentBatch(b.ID, FermentationOptions{Method: method, TemperatureC: temp}); err != nil {
		return CellarCommandResult{Handled: true, Message: err.Error()}
	}
	return CellarCommandResult{Handled: true, Message: fmt.Sprintf("Fermenting the %s batch (%s at %.0fC).", b.VineyardName, method, temp)}
}

func (s *CellarState) executeRackCommand(args []string) CellarCommandResult {
	if len(args) < 1 {
		return CellarCommandResult{Handled: true, Message: "Usage: rack <batch>"}
	}
	b, err := s.resolveBatchRef(args[0])
	if err != nil {
		return CellarCommandResult{Handled: true, Message: err.Error()}
	}
	if err := s.RackBatch(b.ID); err != nil {
		return CellarCommandResult{Handled: true, Message: err.Error()}
	}
	return CellarCommandResult{Handled: true, Message: fmt.Sprintf("Racked the %s batch into the aging cellar.", b.VineyardName)}
}

func (s *CellarState) executeBottleCommand(args []string) CellarCommandResult {
	if len(args) < 1 {
		return CellarCommandResult{Handled: true, Message: "Usage: bottle <batch>"}
	}
	b, err := s.resolveBatchRef(args[0])
	if err != nil {
		return CellarCommandResult{Handled: true, Message: err.Error()}
	}
	if err := s.BottleBatch(b.ID); err != nil {
		return CellarCommandResult{Handled: true, Message: err.Error()}
	}
	msg := fmt.Sprintf("Bottled %d bottles of %s %s.", b.Bottles, b.VineyardName, b.Variety)
	if b.PresentFeature(FeatureCorkTaint) {
		msg += " Something smells musty about this lot."
	}
	return CellarCommandResult{Handled: true, Message: msg}
}

func (s *CellarState) executePreviewCommand(args []string) CellarCommandResult {
	if len(args) < 2 {
		return CellarCommandResult{Handled: true, Message: "Usage: preview <harvest|crush|ferment|bottle> <target>"}
	}

	var ctx PreviewContext
	switch args[0] {
	case "harvest":
		v, err := s.resolveVineyardRef(strings.Join(args[1:], " "))
		if err != nil {
			return CellarCommandResult{Handled: true, Message: err.Error()}
		}
		ctx = PreviewContext{Event: EventHarvest, Vineyard: v}
	case "crush", "ferment", "bottle":
		b, err := s.resolveBatchRef(args[1])
		if err != nil {
			return CellarCommandResult{Handled: true, Message: err.Error()}
		}
		event := map[string]CellarEvent{"crush": EventCrushing, "ferment": EventFermentation, "bottle": EventBottling}[args[0]]
		ctx = PreviewContext{Event: event, Batch: b}
	default:
		return CellarCommandResult{Handled: true, Message: fmt.Sprintf("Unknown preview action: %s", args[0])}
	}

	previews := FeatureRisksForDisplay(ctx)
	if len(previews) == 0 {
		return CellarCommandResult{Handled: true, Message: "Nothing to show for that action."}
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Risk preview for %s:", ctx.Event)
	for _, p := range previews {
		switch p.Kind {
		case PreviewSingle:
			fmt.Fprintf(&sb, "\n  %s: %.0f%%", p.Name, p.Risk*100)
		case PreviewRange:
			fmt.Fprintf(&sb, "\n  %s: %.0f%% now (%.0f%%–%.0f%% over the season)", p.Name, p.Risk*100, p.MinRisk*100, p.MaxRisk*100)
		case PreviewOptions:
			fmt.Fprintf(&sb, "\n  %s:", p.Name)
			options := append([]OptionRisk(nil), p.Options...)
			sort.SliceStable(options, func(i, j int) bool { return options[i].Risk < options[j].Risk })
			for _, o := range options {
				fmt.Fprintf(&sb, "\n    %-24s %.0f%%", o.Label, o.Risk*100)
			}
		}
	}
	return CellarCommandResult{Handled: true, Message: sb.String()}
}

func (s *CellarState) executePriceCommand(args []string) CellarCommandResult {
	if len(args) < 1 {
		return CellarCommandResult{Handled: true, Message: "Usage: price <batch>"}
	}
	b, err := s.resolveBatchRef(args[0])
	if err != nil {
		return CellarCommandResult{Handled: true, Message: err.Error()}
	}
	v := s.vineyard(b.VineyardID)
	vineyardPrestige := 0.0
	if v != nil {
		vineyardPrestige = v.Prestige
	}
	with := EstimatedBottlePrice(b, v, s.Prestige, vineyardPrestige)
	without := EstimatedBottlePrice(StrippedCopy(b), v, s.Prestige, vineyardPrestige)

	msg := fmt.Sprintf("Estimated price: €%.2f per bottle.", with)
	if diff := without - with; diff > 0.005 {
		msg += fmt.Sprintf(" Without its faults it would fetch €%.2f (€%.2f lost per bottle).", without, diff)
	} else if diff < -0.005 {
		msg += fmt.Sprintf(" Its character adds €%.2f per bottle.", -diff)
	}
	return CellarCommandResult{Handled: true, Message: msg}
}

func (s *CellarState) executeSellCommand(args []string) CellarCommandResult {
	if len(args) < 2 {
		return CellarCommandResult{Handled: true, Message: "Usage: sell <batch> <count>"}
	}
	b, err := s.resolveBatchRef(args[0])
	if err != nil {
		return CellarCommandResult{Handled: true, Message: err.Error()}
	}
	count, err := strconv.Atoi(args[1])
	if err != nil {
		return CellarCommandResult{Handled: true, Message: fmt.Sprintf("Bottle count must be a number, got %q.", args[1])}
	}
	revenue, err := s.SellBottles(b.ID, count)
	if err != nil {
		return CellarCommandResult{Handled: true, Message: err.Error()}
	}
	return CellarCommandResult{Handled: true, Message: fmt.Sprintf("Sold %d bottles for €%.2f. Cash: €%.2f.", count, revenue, s.CashEUR)}
}

func (s *CellarState) executeNextCommand(args []string) CellarCommandResult {
	weeks := 1
	if len(args) > 0 {
		token := strings.TrimSuffix(strings.TrimSuffix(strings.TrimSuffix(args[0], "weeks"), "wk"), "w")
		if parsed, err := strconv.Atoi(token); err == nil && parsed > 0 {
			weeks = parsed
		}
	}
	if weeks > 52 {
		weeks = 52
	}
	var messages []string
	for i := 0; i < weeks; i++ {
		messages = append(messages, s.AdvanceWeek()...)
	}
	msg := fmt.Sprintf("Week %d.", s.Week)
	if len(messages) > 0 {
		msg += "\n" + strings.Join(messages, "\n")
	}
	return CellarCommandResult{Handled: true, Message: msg, WeeksAdvanced: weeks}
}

func (s *CellarState) resolveBatchRef(token string) (*WineBatch, error) {
	token = strings.TrimSpace(strings.ToLower(token))
	if token == "" {
		return nil, fmt.Errorf("which batch?")
	}
	if index, err := strconv.Atoi(token); err == nil {
		if index < 1 || index > len(s.Batches) {
			return nil, fmt.Errorf("no batch %d in the cellar", index)
		}
		return &s.Batches[index-1], nil
	}
	var matches []*WineBatch
	for i := range s.Batches {
		b := &s.Batches[i]
		if strings.HasPrefix(strings.ToLower(b.ID), token) ||
			strings.HasPrefix(strings.ToLower(b.VineyardName), token) {
			matches = append(matches, b)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no batch matches %q", token)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%q matches %d batches, be more specific", token, len(matches))
	}
}

func (s *CellarState) resolveVineyardRef(token string) (*Vineyard, error) {
	token = strings.TrimSpace(strings.ToLower(token))
	if token == "" {
		return nil, fmt.Errorf("which vineyard?")
	}
	var matches []*Vineyard
	for i := range s.Vineyards {
		v := &s.Vineyards[i]
		if strings.HasPrefix(strings.ToLower(v.ID), strings.ReplaceAll(token, " ", "_")) ||
			strings.HasPrefix(strings.ToLower(v.Name), token) {
			matches = append(matches, v)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no vineyard matches %q", token)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%q matches %d vineyards, be more specific", token, len(matches))
	}
}

func parseCrushMethod(token string) (CrushMethod, bool) {
	switch strings.TrimSpace(strings.ToLower(token)) {
	case "hand_press", "hand", "press":
		return CrushHandPress, true
	case "mechanical", "mech":
		return CrushMechanical, true
	case "pneumatic":
		return CrushPneumatic, true
	case "foot_tread", "foot", "tread":
		return CrushFootTread, true
	default:
		return "", false
	}
}

func parseFermentMethod(token string) (FermentMethod, bool) {
	switch strings.TrimSpace(strings.ToLower(token)) {
	case "open_vat", "open", "vat":
		return FermentOpenVat, true
	case "closed_tank", "closed", "tank":
		return FermentClosedTank, true
	case "barrel", "oak":
		return FermentBarrel, true
	default:
		return "", false
	}
}
