package export

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/san-kum/gravsim/internal/geom"
	"github.com/san-kum/gravsim/internal/viz"
)

var ErrNoFrames = errors.New("export: no frames to draw")

var palette = []string{"#00ffff", "#ff00ff", "#ffff00", "#00ff88", "#ff8800", "#8888ff"}

// CanvasToSVG converts a Braille canvas to SVG format
func CanvasToSVG(canvas *viz.Canvas, scale float64, color string) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.SubWidth()) * scale
	height := float64(canvas.SubHeight()) * scale

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="%s">
`, width, height, width, height, color)

	dotRadius := scale * 0.4
	for y := 0; y < canvas.SubHeight(); y++ {
		for x := 0; x < canvas.SubWidth(); x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, dotRadius)
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

type TrajectoryOptions struct {
	Width, Height int
	// Stride draws every Stride-th frame. Values below 1 draw all frames.
	Stride int
	// Masses scales the final-position markers. May be nil.
	Masses []float64
}

// Trajectories writes one polyline per body through every drawn frame and a
// marker at each body's final position. Bodies are colored by index.
func Trajectories(w io.Writer, frames [][]geom.Point, opts TrajectoryOptions) error {
	if len(frames) == 0 {
		return ErrNoFrames
	}
	stride := max(opts.Stride, 1)

	drawn := make([][]geom.Point, 0, len(frames)/stride+1)
	for i := 0; i < len(frames); i += stride {
		drawn = append(drawn, frames[i])
	}
	if last := frames[len(frames)-1]; (len(frames)-1)%stride != 0 {
		drawn = append(drawn, last)
	}

	vp := viz.Fit(drawn...)
	width, height := opts.Width, opts.Height
	project := func(p geom.Point) (float64, float64) {
		x := (p.X - vp.Min.X) / (vp.Max.X - vp.Min.X) * float64(width)
		y := float64(height) - (p.Y-vp.Min.Y)/(vp.Max.Y-vp.Min.Y)*float64(height)
		return x, y
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	final := drawn[len(drawn)-1]
	maxMass := 0.0
	for _, m := range opts.Masses {
		maxMass = math.Max(maxMass, m)
	}

	for i := range final {
		color := palette[i%len(palette)]
		if len(drawn) > 1 {
			fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-opacity="0.6" stroke-width="1" d="`, color)
			started := false
			for _, f := range drawn {
				if i >= len(f) || !f[i].IsFinite() {
					continue
				}
				x, y := project(f[i])
				if !started {
					fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
					started = true
				} else {
					fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
				}
			}
			sb.WriteString("\"/>\n")
		}

		if !final[i].IsFinite() {
			continue
		}
		r := 2.0
		if maxMass > 0 && i < len(opts.Masses) {
			r = 1.5 + 3.5*math.Sqrt(opts.Masses[i]/maxMass)
		}
		x, y := project(final[i])
		fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\" fill=\"%s\"/>\n", x, y, r, color)
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}
