// Command rl2util inspects a coverage stored by the sqlite reference
// adapter: its descriptor, its pyramid levels and, when present, its
// per-level statistics. It carries no business logic of its own — every
// number it prints comes straight out of internal/coverage, internal/
// store and internal/stats.
package main

import (
	"fmt"
	"math"
	"os"

	"github.com/rl2go/rl2/internal/store/sqlite"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintf(os.Stderr, "Usage: rl2util <database.sqlite> <coverage-name>\n")
		os.Exit(1)
	}
	dbPath, name := os.Args[1], os.Args[2]

	s, err := sqlite.Open(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	cov, err := s.GetCoverage(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: reading coverage %q: %v\n", name, err)
		os.Exit(1)
	}

	fmt.Printf("Coverage: %s\n", cov.Name)
	fmt.Printf("Sample/Pixel: %s / %s, bands=%d\n", cov.SampleType, cov.PixelType, cov.Bands)
	fmt.Printf("Compression: %s (quality=%d)\n", cov.Compression, cov.Quality)
	fmt.Printf("Tile size: %dx%d\n", cov.TileWidth, cov.TileHeight)
	fmt.Printf("Level-0 resolution: %f x %f (SRID %d)\n", cov.HRes, cov.VRes, cov.SRID)
	if cov.NoData != nil {
		fmt.Printf("NoData: %d band(s) set\n", cov.NoData.Bands())
	}

	levels, err := s.GetLevels(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: reading levels: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nPyramid levels (%d):\n", len(levels))
	for _, l := range levels {
		fmt.Printf("  level %d: 1:1=(%.4f,%.4f) 1:2=(%.4f,%.4f) 1:4=(%.4f,%.4f) 1:8=(%.4f,%.4f)\n",
			l.PyramidLevel, l.XRes1, l.YRes1, l.XRes2, l.YRes2, l.XRes4, l.YRes4, l.XRes8, l.YRes8)

		st, err := s.GetStatistics(name, l.PyramidLevel)
		if err != nil {
			fmt.Printf("    statistics: unavailable (%v)\n", err)
			continue
		}
		for i, b := range st.Bands {
			fmt.Printf("    band %d: count=%d min=%f max=%f mean=%f stddev=%f\n",
				i, b.Count, b.Min, b.Max, b.Mean(), math.Sqrt(b.Variance()))
		}
	}
}
