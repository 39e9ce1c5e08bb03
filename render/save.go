package render

import (
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"github.com/pkg/errors"
)

var ErrUnsupportedFormat = errors.New("unsupported image format")

// Formats lists the extensions accepted by Save, without the dot
var Formats = []string{"png", "webp", "tga"}

// Encode writes img to w in the given format
func Encode(w io.Writer, img image.Image, format string) error {
	switch strings.ToLower(format) {
	case "png":
		return png.Encode(w, img)
	case "webp":
		return nativewebp.Encode(w, img, nil)
	case "tga":
		return tga.Encode(w, img)
	default:
		return errors.Wrapf(ErrUnsupportedFormat, "%q", format)
	}
}

// Save writes img to path, choosing the encoder from the file extension
func Save(path string, img image.Image) error {
	format := strings.TrimPrefix(filepath.Ext(path), ".")
	if !IsFormat(format) {
		return errors.Wrapf(ErrUnsupportedFormat, "%s", path)
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create output")
	}
	if err := Encode(f, img, format); err != nil {
		f.Close()
		return errors.Wrapf(err, "encode %s", path)
	}

	return f.Close()
}

// IsFormat reports whether Save knows the format
func IsFormat(format string) bool {
	format = strings.ToLower(format)
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}
