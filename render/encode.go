package render

import (
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/marben/fractatoe"
	"github.com/marben/fractatoe/internal/atomicfile"
)

// Encode writes img to w in the format selected by cfg.
func Encode(w io.Writer, img image.Image, cfg fractatoe.RenderingConfig) error {
	n := cfg.Normalize()
	switch n.Format {
	case fractatoe.FormatPNG:
		return png.Encode(w, img)
	case fractatoe.FormatJPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: n.JPEGQuality})
	case fractatoe.FormatTIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	case fractatoe.FormatBMP:
		return bmp.Encode(w, img)
	}
	return fractatoe.Errorf(fractatoe.ErrConfig, "unknown output format %q", cfg.Format)
}

// WriteFile encodes img into path atomically: on failure no partial image is
// left behind and an existing file at path is untouched.
func WriteFile(path string, img image.Image, cfg fractatoe.RenderingConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	err := atomicfile.WriteFile(path, 0o644, func(w io.Writer) error {
		return Encode(w, img, cfg)
	})
	if err != nil {
		return fractatoe.WrapIO("write image "+path, err)
	}
	fractatoe.Logger().Info("image written", "path", path, "format", cfg.Normalize().Format,
		"size", img.Bounds().Size())
	return nil
}
