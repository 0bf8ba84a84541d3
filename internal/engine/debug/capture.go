// Package debug provides frame capture for inspecting rendered output.
package debug

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/image/bmp"
)

// Format is an image encoding for captured frames.
type Format string

const (
	FormatPNG Format = "png"
	FormatBMP Format = "bmp"
)

// ParseFormat accepts "png" or "bmp" in any case. Empty means PNG.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case "", FormatPNG:
		return FormatPNG, nil
	case FormatBMP:
		return FormatBMP, nil
	default:
		return "", fmt.Errorf("unknown capture format %q (want png or bmp)", s)
	}
}

// Encode writes img in format f.
func (f Format) Encode(w io.Writer, img image.Image) error {
	switch f {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatBMP:
		return bmp.Encode(w, img)
	default:
		return fmt.Errorf("unknown capture format %q", string(f))
	}
}

// FrameCapture writes read-back frames to timestamped files.
type FrameCapture struct {
	outputDir string
	prefix    string
	format    Format
	now       func() time.Time
}

// NewFrameCapture creates a capture handler writing into outputDir.
func NewFrameCapture(outputDir, prefix string, format Format) *FrameCapture {
	if format == "" {
		format = FormatPNG
	}
	return &FrameCapture{
		outputDir: outputDir,
		prefix:    prefix,
		format:    format,
		now:       time.Now,
	}
}

// Format returns the encoding used for new captures.
func (fc *FrameCapture) Format() Format {
	return fc.format
}

// ImageFromPixels builds an image from RGBA pixels read back from OpenGL.
// The rows are flipped since OpenGL has its origin at bottom-left.
func ImageFromPixels(pixels []byte, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", width, height)
	}
	if len(pixels) != width*height*4 {
		return nil, fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))

	rowSize := width * 4
	for y := 0; y < height; y++ {
		srcOffset := (height - 1 - y) * rowSize
		dstOffset := y * img.Stride
		copy(img.Pix[dstOffset:dstOffset+rowSize], pixels[srcOffset:srcOffset+rowSize])
	}
	return img, nil
}

// CaptureFromPixels saves RGBA pixel data with width*height*4 bytes and
// returns the file path.
func (fc *FrameCapture) CaptureFromPixels(pixels []byte, width, height int) (string, error) {
	img, err := ImageFromPixels(pixels, width, height)
	if err != nil {
		return "", err
	}

	if fc.outputDir != "" {
		if err := os.MkdirAll(fc.outputDir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename := fc.GenerateFilename()
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := fc.format.Encode(file, img); err != nil {
		return "", fmt.Errorf("encoding %s: %w", fc.format, err)
	}
	return filename, nil
}

// GenerateFilename returns the path the next capture would be written to.
func (fc *FrameCapture) GenerateFilename() string {
	timestamp := fc.now().Format("2006-01-02_15-04-05.000")
	filename := fmt.Sprintf("%s_%s.%s", fc.prefix, timestamp, fc.format)
	if fc.outputDir != "" {
		filename = filepath.Join(fc.outputDir, filename)
	}
	return filename
}
