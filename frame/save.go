package frame

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

var ErrUnsupportedFormat = errors.New("frame: unsupported image format")

// An image encoder.
type Encoder func(w io.Writer, img image.Image) error

// Encoders indexed by lower-case file extension.
var encoders = map[string]Encoder{
	".ppm":  EncodePPM,
	".png":  png.Encode,
	".bmp":  bmp.Encode,
	".tif":  encodeTIFF,
	".tiff": encodeTIFF,
}

func encodeTIFF(w io.Writer, img image.Image) error {
	return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
}

// List the supported file extensions.
func Formats() []string {
	exts := make([]string, 0, len(encoders))
	for ext := range encoders {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Lookup the encoder for the given file name based on its extension.
func EncoderFor(filename string) (Encoder, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	enc, ok := encoders[ext]
	if !ok {
		return nil, fmt.Errorf("%w %q; supported extensions: %s", ErrUnsupportedFormat, ext, strings.Join(Formats(), ", "))
	}
	return enc, nil
}

// Encode img and write it to filename. The encoder is selected from the file
// extension.
func Save(filename string, img image.Image) error {
	enc, err := EncoderFor(filename)
	if err != nil {
		return err
	}

	f, err := os.Create(filename)
	if err != nil {
		return err
	}

	err = enc(f, img)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("frame: could not write %s: %w", filename, err)
	}
	return nil
}
