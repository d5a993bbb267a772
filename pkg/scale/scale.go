// Package scale resizes single images, e.g. to bring generated frames to
// the cell size of a sprite sheet before composing.
package scale

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"

	"github.com/akeil/spritetool/internal/fs"
	"github.com/akeil/spritetool/internal/imaging"
	"github.com/akeil/spritetool/internal/logging"
)

// DefaultFilter is used when Options.Filter is empty or unknown.
const DefaultFilter = "catmull-rom"

var filters = map[string]draw.Scaler{
	"nearest":         draw.NearestNeighbor,
	"bilinear":        draw.BiLinear,
	"approx-bilinear": draw.ApproxBiLinear,
	"bicubic":         draw.CatmullRom,
	"catmull-rom":     draw.CatmullRom,
	// no lanczos kernel in x/image, Catmull-Rom is the closest
	"lanczos": draw.CatmullRom,
}

// Filters lists the accepted filter names.
func Filters() []string {
	return []string{"nearest", "bilinear", "approx-bilinear", "bicubic", "catmull-rom", "lanczos"}
}

// Options describe the target size and quality.
//
// The size is taken from the first of these that is set:
// Factor, Width and Height, Width only, Height only.
type Options struct {
	Factor float64
	Width  int
	Height int
	// Stretch ignores the aspect ratio if both Width and Height are given.
	// Otherwise, the image is scaled to fit inside Width x Height.
	Stretch bool
	Filter  string
	// Quality for JPEG output, zero for the default.
	Quality int
}

// Result describes a scaled image.
type Result struct {
	InputPath    string
	OutputPath   string
	OriginalSize image.Point
	NewSize      image.Point
	// Factor is the mean of the horizontal and vertical scale factors.
	Factor float64
}

// Scale resizes the image at in and writes it to out.
// If out is empty, the output is written next to the input as
// <stem>_<w>x<h><ext>.
func Scale(in, out string, opts Options) (*Result, error) {
	if !imaging.IsSupported(in) {
		return nil, fmt.Errorf("unsupported image format %q", filepath.Ext(in))
	}
	_, err := os.Stat(in)
	if err != nil {
		return nil, err
	}

	src, err := imaging.Open(in)
	if err != nil {
		return nil, err
	}

	b := src.Bounds()
	w, h, err := TargetSize(b.Dx(), b.Dy(), opts)
	if err != nil {
		return nil, err
	}

	logging.Info("Scale %v: %dx%d -> %dx%d", in, b.Dx(), b.Dy(), w, h)
	dst := imaging.Resize(src, w, h, Filter(opts.Filter))

	if out == "" {
		out = OutputPath(in, w, h)
	}
	err = fs.WriteAtomic(out, func(wr io.Writer) error {
		return imaging.Encode(wr, dst, filepath.Ext(out), opts.Quality)
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		InputPath:    in,
		OutputPath:   out,
		OriginalSize: image.Pt(b.Dx(), b.Dy()),
		NewSize:      image.Pt(w, h),
		Factor:       (float64(w)/float64(b.Dx()) + float64(h)/float64(b.Dy())) / 2,
	}, nil
}

// TargetSize calculates the output size for an image of width x height.
func TargetSize(width, height int, opts Options) (int, int, error) {
	if width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("invalid source size %dx%d", width, height)
	}

	var w, h int
	switch {
	case opts.Factor != 0:
		w = int(float64(width) * opts.Factor)
		h = int(float64(height) * opts.Factor)
	case opts.Width > 0 && opts.Height > 0:
		if opts.Stretch {
			w, h = opts.Width, opts.Height
		} else {
			f := min(float64(opts.Width)/float64(width), float64(opts.Height)/float64(height))
			w = int(float64(width) * f)
			h = int(float64(height) * f)
		}
	case opts.Width > 0:
		w = opts.Width
		h = int(float64(height) * float64(opts.Width) / float64(width))
	case opts.Height > 0:
		w = int(float64(width) * float64(opts.Height) / float64(height))
		h = opts.Height
	default:
		return 0, 0, fmt.Errorf("one of factor, width or height is required")
	}

	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("target size %dx%d is not positive", w, h)
	}
	return w, h, nil
}

// Filter returns the scaler for the given name.
func Filter(name string) draw.Scaler {
	if name == "" {
		return filters[DefaultFilter]
	}
	s, ok := filters[strings.ToLower(name)]
	if !ok {
		logging.Warning("Unknown filter %q, using %v", name, DefaultFilter)
		return filters[DefaultFilter]
	}
	return s
}

// OutputPath derives the default output path for a scaled image.
func OutputPath(in string, width, height int) string {
	ext := filepath.Ext(in)
	stem := strings.TrimSuffix(filepath.Base(in), ext)
	return filepath.Join(filepath.Dir(in), fmt.Sprintf("%v_%dx%d%v", stem, width, height, ext))
}
