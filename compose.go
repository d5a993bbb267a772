package sprite

import (
	"image"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"

	"github.com/akeil/spritetool/internal/fs"
	"github.com/akeil/spritetool/internal/imaging"
	"github.com/akeil/spritetool/internal/logging"
)

// Option configures a Composer.
type Option func(*Composer)

// WithPreview enables the annotated preview image.
func WithPreview(enabled bool) Option {
	return func(c *Composer) {
		c.preview = enabled
	}
}

// WithStrategy fixes the discovery strategy instead of detecting it from
// the input directory.
func WithStrategy(s DiscoveryStrategy) Option {
	return func(c *Composer) {
		c.strategy = s
	}
}

// WithWorkers limits the number of animations processed in parallel.
// Values below 1 select the number of CPUs.
func WithWorkers(n int) Option {
	return func(c *Composer) {
		c.workers = n
	}
}

// Composer renders sprite sheets for one configuration.
// A Composer holds no state between calls and can be reused.
type Composer struct {
	cfg      *SheetConfig
	preview  bool
	strategy DiscoveryStrategy
	workers  int
}

// NewComposer sets up a Composer for the given configuration.
func NewComposer(cfg *SheetConfig, opts ...Option) *Composer {
	c := &Composer{cfg: cfg}
	for _, o := range opts {
		o(c)
	}
	if c.workers < 1 {
		c.workers = runtime.NumCPU()
	}
	return c
}

// Compose discovers the frames below inputRoot, renders the sheet and writes
// it to outputPath along with the metadata file (and the preview, if
// enabled).
//
// Per-frame problems are recovered and reported in the result.
// Errors are returned for a missing input directory and for failed writes.
func Compose(inputRoot, outputPath string, cfg *SheetConfig, opts ...Option) (*Result, error) {
	return NewComposer(cfg, opts...).Compose(inputRoot, outputPath)
}

func (c *Composer) Compose(inputRoot, outputPath string) (*Result, error) {
	logging.Info("Compose sprite sheet from %q", inputRoot)

	strategy := c.strategy
	if strategy == nil {
		var err error
		strategy, err = DetectStrategy(inputRoot)
		if err != nil {
			return nil, err
		}
	}

	frames, warnings, err := strategy.Discover(inputRoot, c.cfg.Names())
	if err != nil {
		return nil, err
	}

	sheet, anims, renderWarnings := c.Render(frames)
	warnings = append(warnings, renderWarnings...)

	res := &Result{
		OutputPath:   outputPath,
		MetadataPath: MetadataPath(outputPath),
		SheetWidth:   c.cfg.SheetWidth(),
		SheetHeight:  c.cfg.SheetHeight(),
		Animations:   anims,
		Warnings:     warnings,
	}
	for _, a := range anims {
		res.ProcessedFrames += a.Placed
		res.MissingFrames += a.Missing
	}

	err = c.write(sheet, anims, res)
	if err != nil {
		return nil, err
	}

	res.Success = true
	res.Message = summaryMessage(res)
	logging.Info("%v", res.Message)
	return res, nil
}

// Render composes the sheet image in memory.
//
// Every animation is processed by its own worker; each worker only writes
// to the cells of its own row. The results are ordered by row.
func (c *Composer) Render(frames FrameSet) (*image.RGBA, []AnimationResult, []Warning) {
	rect := image.Rect(0, 0, c.cfg.SheetWidth(), c.cfg.SheetHeight())
	sheet := image.NewRGBA(rect)
	imaging.Fill(sheet, c.cfg.Background)

	anims := c.cfg.Animations()
	results := make([]AnimationResult, len(anims))
	warnings := make([][]Warning, len(anims))

	var group errgroup.Group
	group.SetLimit(c.workers)
	for i, a := range anims {
		i, a := i, a
		group.Go(func() error {
			results[i], warnings[i] = c.placeAnimation(sheet, a, frames[a.Name])
			return nil
		})
	}
	// workers never fail, per-frame problems end up in the warnings
	group.Wait()

	var all []Warning
	for _, w := range warnings {
		all = append(all, w...)
	}
	return sheet, results, all
}

func (c *Composer) placeAnimation(sheet draw.Image, a Animation, frames []Frame) (AnimationResult, []Warning) {
	res := AnimationResult{
		Name:     a.Name,
		Row:      a.Row,
		Expected: a.Frames,
		Found:    len(frames),
	}
	var warnings []Warning

	// extra frames are ignored, they would not fit into the row
	actual := min(len(frames), a.Frames)
	logging.Debug("Animation %q: %d/%d frames", a.Name, actual, a.Frames)

	for i := 0; i < actual; i++ {
		f := frames[i]
		img, err := imaging.Open(f.Path)
		if err != nil {
			w := Warning{Kind: FrameDecode, Path: f.Path, Message: err.Error()}
			logging.Error("%v", w)
			warnings = append(warnings, w)
			res.Missing++
			continue
		}

		cell := imaging.ResizeNearest(img, c.cfg.FrameWidth, c.cfg.FrameHeight)
		draw.Draw(sheet, c.cfg.Cell(a.Row, i), cell, image.Point{}, draw.Over)
		res.Placed++
	}

	if actual < a.Frames {
		missing := a.Frames - actual
		logging.Warning("Animation %q is missing %d frames", a.Name, missing)
		res.Missing += missing
	}

	return res, warnings
}

// write encodes all outputs to temporary files first and moves them into
// place only if all of them could be written. The sheet is moved last.
func (c *Composer) write(sheet *image.RGBA, anims []AnimationResult, res *Result) error {
	var temps []string
	cleanup := func() {
		for _, t := range temps {
			os.Remove(t)
		}
	}

	tmp, err := fs.WriteTemp(res.OutputPath, func(w io.Writer) error {
		return imaging.Encode(w, sheet, ".png", 0)
	})
	if err != nil {
		return outputWrite{res.OutputPath, err}
	}
	temps = append(temps, tmp)
	targets := []string{res.OutputPath}

	meta := NewMetadata(c.cfg, filepath.Base(res.OutputPath), anims)
	tmp, err = fs.WriteTemp(res.MetadataPath, meta.Write)
	if err != nil {
		cleanup()
		return outputWrite{res.MetadataPath, err}
	}
	temps = append(temps, tmp)
	targets = append(targets, res.MetadataPath)

	if c.preview {
		p := PreviewPath(res.OutputPath)
		tmp, err = c.writePreview(sheet, p)
		if err != nil {
			logging.Warning("No preview for %v: %v", res.OutputPath, err)
		} else {
			temps = append(temps, tmp)
			targets = append(targets, p)
			res.PreviewPath = p
		}
	}

	for i := len(temps) - 1; i >= 0; i-- {
		err = fs.Move(temps[i], targets[i])
		if err != nil {
			cleanup()
			return outputWrite{targets[i], err}
		}
	}
	return nil
}

func (c *Composer) writePreview(sheet *image.RGBA, path string) (string, error) {
	preview, err := RenderPreview(sheet, c.cfg)
	if err != nil {
		return "", err
	}
	return fs.WriteTemp(path, func(w io.Writer) error {
		return imaging.Encode(w, preview, ".png", 0)
	})
}

// MetadataPath derives the metadata file name from the sheet file name:
// sheet.png becomes sheet.json.
func MetadataPath(outputPath string) string {
	return strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + ".json"
}

// PreviewPath derives the preview file name from the sheet file name:
// sheet.png becomes sheet.preview.png.
func PreviewPath(outputPath string) string {
	return strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + ".preview.png"
}

func summaryMessage(r *Result) string {
	if r.MissingFrames == 0 {
		return "sprite sheet created: " + plural(r.ProcessedFrames, "frame") + " placed"
	}
	return "sprite sheet created: " + plural(r.ProcessedFrames, "frame") + " placed, " +
		plural(r.MissingFrames, "frame") + " missing"
}
