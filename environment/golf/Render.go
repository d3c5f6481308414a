package golf

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/fogleman/gg"
	"gonum.org/v1/gonum/spatial/r2"
)

var (
	grassColour     = color.RGBA{34, 139, 34, 255}
	lineColour      = color.RGBA{20, 20, 20, 255}
	holeColour      = color.RGBA{50, 50, 230, 255}
	startBallColour = color.RGBA{200, 200, 200, 255}
	pathColour      = color.RGBA{255, 255, 255, 255}
	finalBallColour = color.RGBA{200, 100, 100, 255}
)

// Zone lines drawn across the course, in pixels from the top
var zoneLines = []float64{300, 400}

// Render draws the course, the hole, the starting ball, the path of the
// last shot, and the final resting position of the ball
func (g *Golf) Render() image.Image {
	return render(g.course, g.hole, holeRadius(g), g.path)
}

// SavePNG renders the environment and saves it as a PNG file
func (g *Golf) SavePNG(filename string) error {
	if err := gg.SavePNG(filename, g.Render()); err != nil {
		return fmt.Errorf("savePNG: %w", err)
	}
	return nil
}

// EncodePNG renders the environment and writes it as a PNG to w
func (g *Golf) EncodePNG(w io.Writer) error {
	dc := gg.NewContextForImage(g.Render())
	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encodePNG: %w", err)
	}
	return nil
}

// holeRadius returns the radius of the hole of the environment's
// Task, if the Task has one
func holeRadius(g *Golf) float64 {
	if p, ok := g.Task.(interface{ HoleRadius() float64 }); ok {
		return p.HoleRadius()
	}
	return HoleRadius
}

func render(c Course, hole r2.Vec, radius float64, path []r2.Vec) image.Image {
	dc := gg.NewContext(int(c.Width), int(c.Height))
	dc.SetColor(grassColour)
	dc.Clear()

	// Zones
	dc.SetColor(lineColour)
	dc.SetLineWidth(2)
	for _, y := range zoneLines {
		if y < c.Height {
			dc.DrawLine(0, y, c.Width, y)
		}
	}
	dc.Stroke()

	// Hole
	dc.DrawCircle(hole.X, hole.Y, radius)
	dc.SetColor(holeColour)
	dc.Fill()

	// Ball at the starting position
	dc.DrawCircle(c.Start.X, c.Start.Y, c.BallRadius)
	dc.SetColor(startBallColour)
	dc.Fill()

	if len(path) > 1 {
		dc.MoveTo(path[0].X, path[0].Y)
		for _, p := range path[1:] {
			dc.LineTo(p.X, p.Y)
		}
		dc.SetColor(pathColour)
		dc.SetLineWidth(2)
		dc.Stroke()

		last := path[len(path)-1]
		dc.DrawCircle(last.X, last.Y, c.BallRadius)
		dc.SetColor(finalBallColour)
		dc.Fill()
	}

	return dc.Image()
}
