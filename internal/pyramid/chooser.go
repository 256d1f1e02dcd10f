// Package pyramid implements the coverage reader and resolution chooser
// of §4.9: matching a requested resolution to a stored (pyramid level,
// decode scale) pair within 1% on both axes, finest level first, then
// reconstructing the requested
// geographic window by querying, decoding and blitting the tiles that
// intersect it.
package pyramid

import (
	"math"
	"sort"

	"github.com/rl2go/rl2/internal/coverage"
	"github.com/rl2go/rl2/internal/errs"
	"github.com/rl2go/rl2/internal/store"
)

// resolutionTolerance is the §4.9 matching slack: 1% of the stored
// resolution on each axis.
const resolutionTolerance = 0.01

// Selection is the outcome of resolving a requested resolution against a
// coverage's stored levels (§4.9).
type Selection struct {
	Level      int
	Scale      int
	HRes, VRes float64
}

// candidate is one (scale, resolution) pair a LevelRow carries.
type candidate struct {
	scale      int
	hRes, vRes float64
}

func candidatesOf(l store.LevelRow) [4]candidate {
	return [4]candidate{
		{1, l.XRes1, l.YRes1},
		{2, l.XRes2, l.YRes2},
		{4, l.XRes4, l.YRes4},
		{8, l.XRes8, l.YRes8},
	}
}

// ChooseResolution matches (xReq, yReq) against every (pyramid level,
// decode scale) pair levels carries, per §4.9: a candidate matches when
// the request falls within 1% of its stored resolution on both axes;
// the finest (smallest PyramidLevel) matching candidate wins ties. It
// returns a NoMatchingResolution error (Scenario S4) when nothing
// matches.
func ChooseResolution(levels []store.LevelRow, xReq, yReq float64) (Selection, error) {
	sorted := append([]store.LevelRow(nil), levels...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].PyramidLevel < sorted[j].PyramidLevel })

	for _, l := range sorted {
		for _, c := range candidatesOf(l) {
			if withinTolerance(xReq, c.hRes) && withinTolerance(yReq, c.vRes) {
				return Selection{Level: l.PyramidLevel, Scale: c.scale, HRes: c.hRes, VRes: c.vRes}, nil
			}
		}
	}
	return Selection{}, errs.NoMatch("pyramid: no level/scale matches requested resolution (%v,%v) within %.0f%% tolerance", xReq, yReq, resolutionTolerance*100)
}

func withinTolerance(req, stored float64) bool {
	tol := math.Abs(stored) * resolutionTolerance
	return math.Abs(req-stored) <= tol
}

// LevelRowFor builds the single-level store.LevelRow an ingest run that
// only ever writes physical tiles at pyramidLevel produces (§4.10): one
// physical tile grid whose four resolution pairs are cov's four
// coverage.Level entries (§3: "Levels 1:2, 1:4, 1:8 inherit the same
// descriptor with proportionally larger resolutions").
func LevelRowFor(cov *coverage.Descriptor, pyramidLevel int) store.LevelRow {
	row := store.LevelRow{PyramidLevel: pyramidLevel}
	for _, l := range cov.Levels() {
		switch l.Scale {
		case 1:
			row.XRes1, row.YRes1 = l.HRes, l.VRes
		case 2:
			row.XRes2, row.YRes2 = l.HRes, l.VRes
		case 4:
			row.XRes4, row.YRes4 = l.HRes, l.VRes
		case 8:
			row.XRes8, row.YRes8 = l.HRes, l.VRes
		}
	}
	return row
}
