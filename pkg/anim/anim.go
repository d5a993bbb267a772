// Package anim creates animated GIFs from frame images or from one row of
// a composed sprite sheet.
package anim

import (
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/image/draw"

	sprite "github.com/akeil/spritetool"
	"github.com/akeil/spritetool/internal/fs"
	"github.com/akeil/spritetool/internal/imaging"
	"github.com/akeil/spritetool/internal/logging"
)

// DefaultDuration is the display time of one frame.
const DefaultDuration = 100 * time.Millisecond

// Options control the generated animation.
type Options struct {
	// Duration per frame, zero for the default.
	// GIF stores delays in 1/100 s, shorter durations are rounded down.
	Duration time.Duration
	// Loop is the number of repetitions, 0 loops forever.
	Loop int
	// Width and Height resize all frames; zero keeps the size of the
	// first frame.
	Width  int
	Height int
}

// Result describes a written GIF.
type Result struct {
	OutputPath    string
	FrameCount    int
	TotalDuration time.Duration
	Size          image.Point
	FileSize      int64
}

// Make creates an animated GIF from the given images, in the given order.
//
// Frames that differ in size from the first one are scaled to its size.
// Transparent areas are flattened on white.
func Make(paths []string, out string, opts Options) (*Result, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no frames given")
	}

	var missing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			missing = append(missing, p)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%d frames not found: %v", len(missing), strings.Join(missing, ", "))
	}

	frames := make([]image.Image, len(paths))
	for i, p := range paths {
		logging.Debug("Load frame %d/%d: %v", i+1, len(paths), filepath.Base(p))
		img, err := imaging.Open(p)
		if err != nil {
			return nil, err
		}
		frames[i] = img
	}

	return encode(frames, out, opts)
}

// FromDir creates an animated GIF from the files in dir that match the
// glob pattern (e.g. "*.png"), in lexical order.
func FromDir(dir, pattern, out string, opts Options) (*Result, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %v", dir)
	}

	if pattern == "" {
		pattern = "*.png"
	}
	paths, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no files matching %q in %v", pattern, dir)
	}
	sort.Strings(paths)
	logging.Info("Found %d frames in %v", len(paths), dir)

	return Make(paths, out, opts)
}

// FromSheet cuts the frames of one animation out of a composed sheet and
// writes them as an animated GIF.
// Without an explicit duration, the frame rate of the configuration is used.
func FromSheet(sheet image.Image, cfg *sprite.SheetConfig, animation, out string, opts Options) (*Result, error) {
	a, ok := cfg.Animation(animation)
	if !ok {
		return nil, fmt.Errorf("no animation %q in configuration", animation)
	}

	b := sheet.Bounds()
	if b.Dx() != cfg.SheetWidth() || b.Dy() != cfg.SheetHeight() {
		return nil, fmt.Errorf("sheet size %dx%d does not match the configuration (%dx%d)",
			b.Dx(), b.Dy(), cfg.SheetWidth(), cfg.SheetHeight())
	}

	if opts.Duration == 0 && cfg.FPS > 0 {
		opts.Duration = time.Duration(float64(time.Second) / cfg.FPS)
	}

	src := imaging.ToRGBA(sheet)
	frames := make([]image.Image, a.Frames)
	for i := range frames {
		frames[i] = src.SubImage(cfg.Cell(a.Row, i))
	}

	return encode(frames, out, opts)
}

func encode(frames []image.Image, out string, opts Options) (*Result, error) {
	if opts.Duration <= 0 {
		opts.Duration = DefaultDuration
	}
	delay := int(opts.Duration / (10 * time.Millisecond))

	size := frames[0].Bounds().Size()
	if opts.Width > 0 && opts.Height > 0 {
		size = image.Pt(opts.Width, opts.Height)
	}

	g := &gif.GIF{LoopCount: opts.Loop}
	for i, f := range frames {
		if f.Bounds().Size() != size {
			if i > 0 && opts.Width == 0 {
				logging.Warning("Frame %d has size %v, scale to %v", i, f.Bounds().Size(), size)
			}
			f = imaging.Resize(f, size.X, size.Y, draw.CatmullRom)
		}
		g.Image = append(g.Image, quantize(f))
		g.Delay = append(g.Delay, delay)
	}

	err := fs.WriteAtomic(out, func(w io.Writer) error {
		return gif.EncodeAll(w, g)
	})
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(out)
	if err != nil {
		return nil, err
	}

	res := &Result{
		OutputPath:    out,
		FrameCount:    len(frames),
		TotalDuration: time.Duration(len(frames)) * opts.Duration,
		Size:          size,
		FileSize:      info.Size(),
	}
	logging.Info("Wrote %v (%d frames, %.1f KB)", out, res.FrameCount, float64(res.FileSize)/1024)
	return res, nil
}

// quantize flattens img on white and maps it to a fixed palette with
// Floyd-Steinberg dithering.
func quantize(img image.Image) *image.Paletted {
	flat := imaging.Flatten(img, color.White)
	p := image.NewPaletted(flat.Bounds(), palette.Plan9)
	draw.FloydSteinberg.Draw(p, p.Bounds(), flat, image.Point{})
	return p
}
