// Command safearea-render renders the safe area preview to a PNG, after
// applying a scripted list of handle drags.
//
//	safearea-render -drag top:30,20 -drag bottom:-10,0 -out preview.png
package main

import (
	"flag"
	"fmt"
	"image/png"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/phinze/safearea/internal/config"
	"github.com/phinze/safearea/internal/content"
	"github.com/phinze/safearea/internal/decoration"
	"github.com/phinze/safearea/internal/geom"
	"github.com/phinze/safearea/internal/inset"
	"github.com/phinze/safearea/internal/preview"
)

// dragStep is one scripted drag of a handle.
type dragStep struct {
	corner      inset.Corner
	translation geom.Size
}

// dragList collects repeated -drag flags.
type dragList []dragStep

func (d *dragList) String() string {
	parts := make([]string, len(*d))
	for i, s := range *d {
		parts[i] = fmt.Sprintf("%s:%g,%g", s.corner, s.translation.Width, s.translation.Height)
	}
	return strings.Join(parts, " ")
}

func (d *dragList) Set(v string) error {
	step, err := parseDrag(v)
	if err != nil {
		return err
	}
	*d = append(*d, step)
	return nil
}

// parseDrag parses "top:dx,dy" or "bottom:dx,dy".
func parseDrag(v string) (dragStep, error) {
	name, delta, ok := strings.Cut(v, ":")
	if !ok {
		return dragStep{}, fmt.Errorf("drag %q: want corner:dx,dy", v)
	}
	var step dragStep
	switch name {
	case "top", "top-leading":
		step.corner = inset.TopLeading
	case "bottom", "bottom-trailing":
		step.corner = inset.BottomTrailing
	default:
		return dragStep{}, fmt.Errorf("drag %q: unknown corner %q", v, name)
	}
	dx, dy, ok := strings.Cut(delta, ",")
	if !ok {
		return dragStep{}, fmt.Errorf("drag %q: want dx,dy", v)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(dx), 64)
	if err != nil {
		return dragStep{}, fmt.Errorf("drag %q: %w", v, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(dy), 64)
	if err != nil {
		return dragStep{}, fmt.Errorf("drag %q: %w", v, err)
	}
	step.translation = geom.Sz(x, y)
	return step, nil
}

func main() {
	var drags dragList
	configPath := flag.String("config", config.DefaultPath(), "config file")
	out := flag.String("out", "safearea.png", "output PNG path")
	scale := flag.Float64("scale", 2, "pixels per point")
	width := flag.Float64("width", 0, "viewport width in points (default from config)")
	height := flag.Float64("height", 0, "viewport height in points (default from config)")
	flag.Var(&drags, "drag", "handle drag as corner:dx,dy (repeatable)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	viewport := cfg.Deck.Viewport
	if *width > 0 {
		viewport.Width = *width
	}
	if *height > 0 {
		viewport.Height = *height
	}
	if *scale <= 0 {
		log.Fatalf("scale must be positive, got %v", *scale)
	}

	oc := cfg.Overlay()
	// Scripted drags commit where they end.
	oc.SmoothRelease = false
	overlay := inset.New(oc)
	for _, d := range drags {
		overlay.Drag(d.corner, d.translation)
		overlay.Release(d.corner, d.translation, d.translation)
		log.Printf("%s drag %v -> %v", d.corner, d.translation, overlay.Insets())
	}

	scene := preview.Scene{
		Overlay:  overlay,
		Content:  content.NewSample(),
		Renderer: decoration.NewRenderer(decoration.DefaultStyle()),
		Viewport: viewport,
	}
	img, _, err := scene.Render(*scale)
	if err != nil {
		log.Fatalf("Failed to render: %v", err)
	}

	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("Failed to create %s: %v", *out, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		log.Fatalf("Failed to encode PNG: %v", err)
	}
	if err := f.Close(); err != nil {
		log.Fatalf("Failed to write %s: %v", *out, err)
	}
	fmt.Printf("Wrote %s (%dx%d, insets %v)\n", *out, img.Bounds().Dx(), img.Bounds().Dy(), overlay.Insets())
}
