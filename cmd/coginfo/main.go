// Command coginfo dumps a GeoTIFF's geometry and a sample tile read,
// useful for checking a file before handing it to source.OpenGeoTiff for
// ingest.
package main

import (
	"fmt"
	"os"

	"github.com/rl2go/rl2/internal/cog"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: coginfo <file.tif>\n")
		os.Exit(1)
	}

	r, err := cog.Open(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer r.Close()

	tw, th := r.TileSize()
	fmt.Printf("File: %s\n", os.Args[1])
	fmt.Printf("EPSG: %d\n", r.EPSG())
	fmt.Printf("Full-res size: %d x %d, tile %dx%d\n", r.Width(), r.Height(), tw, th)
	fmt.Printf("Pixel size (CRS units): %f\n", r.PixelSize())

	geo := r.GeoInfo()
	fmt.Printf("Origin: X=%f, Y=%f\n", geo.OriginX, geo.OriginY)

	minX, minY, maxX, maxY := r.BoundsInCRS()
	fmt.Printf("Bounds (CRS): X=[%f, %f], Y=[%f, %f]\n", minX, maxX, minY, maxY)

	tile, err := r.ReadTile(0, 0, 0)
	if err != nil {
		fmt.Printf("ReadTile(0,0,0): ERROR: %v\n", err)
		return
	}
	bounds := tile.Bounds()
	fmt.Printf("ReadTile(0,0,0): OK, image %dx%d\n", bounds.Dx(), bounds.Dy())

	step := bounds.Dx() / 6
	if step < 1 {
		step = 1
	}
	fmt.Println("Sample pixels (diagonal):")
	for i := 1; i <= 5; i++ {
		x, y := bounds.Min.X+i*step, bounds.Min.Y+i*step
		if x >= bounds.Max.X || y >= bounds.Max.Y {
			break
		}
		rr, g, b, a := tile.At(x, y).RGBA()
		fmt.Printf("  (%d,%d): R=%d G=%d B=%d A=%d\n", x, y, rr>>8, g>>8, b>>8, a>>8)
	}
}
