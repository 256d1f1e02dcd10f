package pyramid

import (
	"testing"

	"github.com/rl2go/rl2/internal/errs"
	"github.com/rl2go/rl2/internal/store"
)

func scenarioS4Levels() []store.LevelRow {
	return []store.LevelRow{
		{PyramidLevel: 0, XRes1: 1.0, YRes1: 1.0, XRes2: 2.0, YRes2: 2.0, XRes4: 4.0, YRes4: 4.0, XRes8: 8.0, YRes8: 8.0},
		{PyramidLevel: 1, XRes1: 4.0, YRes1: 4.0, XRes2: 8.0, YRes2: 8.0, XRes4: 16.0, YRes4: 16.0, XRes8: 32.0, YRes8: 32.0},
	}
}

// TestChooseResolutionScenarioS4 realizes Scenario S4 exactly.
func TestChooseResolutionScenarioS4(t *testing.T) {
	levels := scenarioS4Levels()

	sel, err := ChooseResolution(levels, 0.9995, 1.0005)
	if err != nil {
		t.Fatalf("ChooseResolution(0.9995,1.0005): %v", err)
	}
	if sel.Level != 0 || sel.Scale != 1 {
		t.Errorf("got (level=%d,scale=%d), want (level=0,scale=1)", sel.Level, sel.Scale)
	}

	sel, err = ChooseResolution(levels, 2.0, 2.0)
	if err != nil {
		t.Fatalf("ChooseResolution(2.0,2.0): %v", err)
	}
	if sel.Level != 0 || sel.Scale != 2 {
		t.Errorf("got (level=%d,scale=%d), want (level=0,scale=2)", sel.Level, sel.Scale)
	}

	_, err = ChooseResolution(levels, 1000.0, 1000.0)
	if errs.KindOf(err) != errs.KindNoMatchingResolution {
		t.Errorf("ChooseResolution(1000,1000) error kind = %v, want NoMatchingResolution", errs.KindOf(err))
	}
}

func TestChooseResolutionPrefersFinestLevelOnOverlap(t *testing.T) {
	// Level 0 scale 8 and level 1 scale 2 both land near (8,8); the
	// finest (smallest) PyramidLevel must win.
	levels := scenarioS4Levels()
	sel, err := ChooseResolution(levels, 8.0, 8.0)
	if err != nil {
		t.Fatalf("ChooseResolution(8,8): %v", err)
	}
	if sel.Level != 0 || sel.Scale != 8 {
		t.Errorf("got (level=%d,scale=%d), want (level=0,scale=8)", sel.Level, sel.Scale)
	}
}

func TestChooseResolutionAxisMustBothMatch(t *testing.T) {
	levels := scenarioS4Levels()
	// x matches level 0 scale 1 but y is wildly off.
	if _, err := ChooseResolution(levels, 1.0, 500.0); errs.KindOf(err) != errs.KindNoMatchingResolution {
		t.Errorf("expected NoMatchingResolution when only one axis matches, got %v", err)
	}
}
