package sprite

import (
	"fmt"
	"image"
	"image/color"

	"github.com/llgcode/draw2d/draw2dimg"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/akeil/spritetool/internal/imaging"
	"github.com/akeil/spritetool/internal/logging"
)

var (
	gridOnDark  = color.NRGBA{255, 255, 255, 128}
	labelOnDark = color.NRGBA{255, 255, 0, 255}

	gridOnLight  = color.NRGBA{0, 0, 0, 128}
	labelOnLight = color.NRGBA{0, 0, 160, 255}
)

// RenderPreview returns a copy of sheet with grid lines around each cell
// and the animation names written into the first cell of their row.
//
// The sheet itself is not modified. Any panic from the drawing code is
// returned as an error.
func RenderPreview(sheet image.Image, cfg *SheetConfig) (preview *image.RGBA, err error) {
	defer func() {
		if x := recover(); x != nil {
			logging.Warning("Panic occured (recovered): %v", x)
			preview = nil
			err = fmt.Errorf("recovered from: %v", x)
		}
	}()

	preview = imaging.ToRGBA(sheet)
	grid, label := overlayColors(cfg.Background)

	drawGrid(preview, cfg, grid)
	drawLabels(preview, cfg, label)

	return preview, nil
}

// overlayColors picks grid and label colors that stand out against the
// sheet background. Transparent backgrounds count as dark.
func overlayColors(bg color.NRGBA) (color.Color, color.Color) {
	c, ok := colorful.MakeColor(bg)
	if !ok {
		return gridOnDark, labelOnDark
	}
	l, _, _ := c.Lab()
	if l > 0.6 && bg.A > 127 {
		return gridOnLight, labelOnLight
	}
	return gridOnDark, labelOnDark
}

func drawGrid(dst *image.RGBA, cfg *SheetConfig, col color.Color) {
	gc := draw2dimg.NewGraphicContext(dst)
	gc.SetStrokeColor(col)
	gc.SetLineWidth(1)

	w := float64(cfg.SheetWidth())
	h := float64(cfg.SheetHeight())

	// offset by half a pixel so that 1px lines cover exactly one column
	for c := 0; c <= cfg.Columns; c++ {
		x := float64(c*cfg.FrameWidth) + 0.5
		gc.MoveTo(x, 0)
		gc.LineTo(x, h)
	}
	for r := 0; r <= cfg.Rows; r++ {
		y := float64(r*cfg.FrameHeight) + 0.5
		gc.MoveTo(0, y)
		gc.LineTo(w, y)
	}
	gc.Stroke()
}

func drawLabels(dst *image.RGBA, cfg *SheetConfig, col color.Color) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
	}
	ascent := face.Metrics().Ascent.Ceil()
	for _, a := range cfg.Animations() {
		cell := cfg.Cell(a.Row, 0)
		d.Dot = fixed.P(cell.Min.X+2, cell.Min.Y+2+ascent)
		d.DrawString(a.Name)
	}
}
