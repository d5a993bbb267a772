package sprite

import (
	"image"
	"image/color"
	"image/png"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/akeil/spritetool/internal/imaging"
)

var (
	red   = color.RGBA{255, 0, 0, 255}
	green = color.RGBA{0, 255, 0, 255}
	blue  = color.RGBA{0, 0, 255, 255}
)

// writeFrame writes a w x h PNG filled with c.
func writeFrame(t *testing.T, path string, w, h int, c color.Color) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	imaging.Fill(img, c)

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, ioutil.WriteFile(path, []byte(content), 0644))
}

func readPNG(t *testing.T, path string) *image.RGBA {
	t.Helper()
	img, err := imaging.Open(path)
	require.NoError(t, err)
	return imaging.ToRGBA(img)
}

// walkConfig is the configuration of the basic scenarios:
// two 32x32 cells in one row for the "walk" animation.
func walkConfig(t *testing.T) *SheetConfig {
	t.Helper()
	cfg, err := FromMap(map[string]interface{}{
		"frame_width":  32,
		"frame_height": 32,
		"columns":      2,
		"rows":         1,
		"animations": map[string]interface{}{
			"walk": map[string]interface{}{"row": 0, "frames": 2},
		},
	}, Strict)
	require.NoError(t, err)
	return cfg
}

// regionIs checks that every pixel in r has color c.
func regionIs(img *image.RGBA, r image.Rectangle, c color.Color) bool {
	expected := color.RGBAModel.Convert(c).(color.RGBA)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if img.RGBAAt(x, y) != expected {
				return false
			}
		}
	}
	return true
}
