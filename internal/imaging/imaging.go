package imaging

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// DefaultJPEGQuality is used when no quality is given.
const DefaultJPEGQuality = 95

var decodable = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".webp": true,
}

// IsSupported tells if images with the extension of the given path can be
// decoded.
func IsSupported(path string) bool {
	return decodable[strings.ToLower(filepath.Ext(path))]
}

// Open reads and decodes the image file at path.
func Open(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("decode %v: %v", path, err)
	}
	return img, nil
}

// Encode writes img to w in the format given by ext (".png", ".jpg", ...).
// quality applies to JPEG only, zero selects DefaultJPEGQuality.
func Encode(w io.Writer, img image.Image, ext string, quality int) error {
	switch strings.ToLower(ext) {
	case ".png":
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		return enc.Encode(w, img)
	case ".jpg", ".jpeg":
		if quality <= 0 || quality > 100 {
			quality = DefaultJPEGQuality
		}
		return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	case ".gif":
		return gif.Encode(w, img, nil)
	case ".bmp":
		return bmp.Encode(w, img)
	case ".tif", ".tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("unsupported output format %q", ext)
	}
}

// ToRGBA returns img as an *image.RGBA with its origin at (0, 0).
// The result is always a copy.
func ToRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// ResizeNearest creates a copy of the given image, scaled to width x height
// with nearest neighbour sampling.
func ResizeNearest(i image.Image, width, height int) *image.RGBA {
	// nearest neighbour keeps hard pixel edges intact
	return Resize(i, width, height, draw.NearestNeighbor)
}

// Resize creates a copy of the given image, scaled to width x height with
// the given interpolator. Alpha values are copied, not blended.
func Resize(i image.Image, width, height int, s draw.Scaler) *image.RGBA {
	rect := image.Rect(0, 0, width, height)
	dst := image.NewRGBA(rect)
	s.Scale(dst, rect, i, i.Bounds(), draw.Src, nil)
	return dst
}

// Fill paints the complete destination image with the given color.
// Alpha is replaced, not blended.
func Fill(dst draw.Image, c color.Color) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// Flatten composites img over an opaque background of color bg.
func Flatten(img image.Image, bg color.Color) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	Fill(dst, bg)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}
