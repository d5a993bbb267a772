package anim

import (
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sprite "github.com/akeil/spritetool"
	"github.com/akeil/spritetool/internal/imaging"
)

func writePNG(t *testing.T, path string, w, h int, c color.Color) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	imaging.Fill(img, c)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func readGIF(t *testing.T, path string) *gif.GIF {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	g, err := gif.DecodeAll(f)
	require.NoError(t, err)
	return g
}

func TestMake(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.png")
	b := filepath.Join(dir, "b.png")
	c := filepath.Join(dir, "c.png")
	writePNG(t, a, 16, 8, color.RGBA{255, 0, 0, 255})
	writePNG(t, b, 16, 8, color.RGBA{0, 0, 255, 255})
	// different size, scaled to the first frame
	writePNG(t, c, 4, 4, color.RGBA{0, 0, 0, 255})

	out := filepath.Join(dir, "out", "walk.gif")
	res, err := Make([]string{a, b, c}, out, Options{Duration: 50 * time.Millisecond, Loop: 2})
	require.NoError(t, err)

	assert.Equal(t, 3, res.FrameCount)
	assert.Equal(t, 150*time.Millisecond, res.TotalDuration)
	assert.Equal(t, image.Pt(16, 8), res.Size)
	assert.Greater(t, res.FileSize, int64(0))

	g := readGIF(t, out)
	assert.Len(t, g.Image, 3)
	assert.Equal(t, []int{5, 5, 5}, g.Delay)
	assert.Equal(t, 2, g.LoopCount)
	for _, img := range g.Image {
		assert.Equal(t, image.Rect(0, 0, 16, 8), img.Bounds())
	}
}

func TestMakeDefaults(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.png")
	writePNG(t, a, 8, 8, color.RGBA{0, 0, 0, 0})

	out := filepath.Join(dir, "a.gif")
	res, err := Make([]string{a}, out, Options{})
	require.NoError(t, err)
	assert.Equal(t, DefaultDuration, res.TotalDuration)

	g := readGIF(t, out)
	assert.Equal(t, []int{10}, g.Delay)

	// transparent pixels end up white
	r, gr, b, _ := g.Image[0].At(2, 2).RGBA()
	assert.Equal(t, []uint32{0xffff, 0xffff, 0xffff}, []uint32{r, gr, b})
}

func TestMakeResize(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.png")
	writePNG(t, a, 8, 8, color.RGBA{0, 255, 0, 255})

	res, err := Make([]string{a}, filepath.Join(dir, "a.gif"), Options{Width: 20, Height: 10})
	require.NoError(t, err)
	assert.Equal(t, image.Pt(20, 10), res.Size)
}

func TestMakeMissingFrames(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.png")
	writePNG(t, a, 8, 8, color.RGBA{0, 255, 0, 255})

	_, err := Make([]string{a, filepath.Join(dir, "x.png"), filepath.Join(dir, "y.png")}, filepath.Join(dir, "a.gif"), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 frames not found")
	assert.Contains(t, err.Error(), "x.png")
	assert.Contains(t, err.Error(), "y.png")

	_, err = Make(nil, filepath.Join(dir, "a.gif"), Options{})
	assert.Error(t, err)
}

func TestFromDir(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "02.png"), 8, 8, color.RGBA{0, 0, 255, 255})
	writePNG(t, filepath.Join(dir, "01.png"), 8, 8, color.RGBA{255, 0, 0, 255})
	writePNG(t, filepath.Join(dir, "skip.jpg"), 8, 8, color.RGBA{0, 0, 0, 255})

	out := filepath.Join(t.TempDir(), "dir.gif")
	res, err := FromDir(dir, "", out, Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, res.FrameCount)

	_, err = FromDir(dir, "*.bmp", out, Options{})
	assert.Error(t, err)
}

func TestFromSheet(t *testing.T) {
	cfg, err := sprite.FromMap(map[string]interface{}{
		"frame_width": 4, "frame_height": 4, "columns": 3, "rows": 2, "fps": 20,
		"animations": map[string]interface{}{
			"idle": map[string]interface{}{"row": 0, "frames": 1},
			"walk": map[string]interface{}{"row": 1, "frames": 3},
		},
	}, sprite.Strict)
	require.NoError(t, err)

	sheet := image.NewRGBA(image.Rect(0, 0, 12, 8))
	imaging.Fill(sheet, color.RGBA{0, 0, 0, 255})

	out := filepath.Join(t.TempDir(), "walk.gif")
	res, err := FromSheet(sheet, cfg, "walk", out, Options{})
	require.NoError(t, err)
	assert.Equal(t, 3, res.FrameCount)
	assert.Equal(t, image.Pt(4, 4), res.Size)

	g := readGIF(t, out)
	assert.Equal(t, []int{5, 5, 5}, g.Delay)

	_, err = FromSheet(sheet, cfg, "run", out, Options{})
	assert.Error(t, err)

	_, err = FromSheet(image.NewRGBA(image.Rect(0, 0, 5, 5)), cfg, "walk", out, Options{})
	assert.Error(t, err)
}
