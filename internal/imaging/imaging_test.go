package imaging

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func checker() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	img.Set(1, 0, color.RGBA{0, 255, 0, 255})
	img.Set(0, 1, color.RGBA{0, 0, 255, 255})
	img.Set(1, 1, color.RGBA{0, 0, 0, 0})
	return img
}

func TestResizeNearest(t *testing.T) {
	dst := ResizeNearest(checker(), 4, 4)

	if dst.Bounds().Dx() != 4 || dst.Bounds().Dy() != 4 {
		t.Fatalf("unexpected size %v", dst.Bounds())
	}

	// every source pixel becomes a 2x2 block, no blending
	expected := map[image.Point]color.RGBA{
		{0, 0}: {255, 0, 0, 255},
		{1, 1}: {255, 0, 0, 255},
		{3, 0}: {0, 255, 0, 255},
		{0, 3}: {0, 0, 255, 255},
		{3, 3}: {0, 0, 0, 0},
	}
	for p, c := range expected {
		if got := dst.RGBAAt(p.X, p.Y); got != c {
			t.Errorf("unexpected color at %v: %v != %v", p, got, c)
		}
	}
}

func TestToRGBAOrigin(t *testing.T) {
	src := checker().SubImage(image.Rect(1, 1, 2, 2))
	dst := ToRGBA(src)
	if dst.Bounds().Min != (image.Point{}) {
		t.Errorf("expected origin at 0,0, got %v", dst.Bounds())
	}
	if got := dst.RGBAAt(0, 0); got.A != 0 {
		t.Errorf("unexpected color %v", got)
	}
}

func TestFlatten(t *testing.T) {
	dst := Flatten(checker(), color.White)
	if got := dst.RGBAAt(1, 1); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("transparent pixel should become white, got %v", got)
	}
	if got := dst.RGBAAt(0, 0); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("opaque pixel should be kept, got %v", got)
	}
}

func TestEncodeOpen(t *testing.T) {
	dir := t.TempDir()
	for _, ext := range []string{".png", ".bmp", ".tiff", ".gif"} {
		p := filepath.Join(dir, "img"+ext)
		var buf bytes.Buffer
		err := Encode(&buf, checker(), ext, 0)
		if err != nil {
			t.Fatalf("encode %v: %v", ext, err)
		}
		os.WriteFile(p, buf.Bytes(), 0644)

		img, err := Open(p)
		if err != nil {
			t.Fatalf("open %v: %v", ext, err)
		}
		if img.Bounds().Dx() != 2 {
			t.Errorf("unexpected width for %v: %v", ext, img.Bounds().Dx())
		}
	}

	err := Encode(&bytes.Buffer{}, checker(), ".xcf", 0)
	if err == nil {
		t.Errorf("unsupported format should be rejected")
	}
}

func TestIsSupported(t *testing.T) {
	if !IsSupported("a/b/001.PNG") {
		t.Errorf("upper case extension should be supported")
	}
	if IsSupported("notes.txt") {
		t.Errorf("text files are not images")
	}
}
