package debug

import (
	"bytes"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/image/bmp"
)

// twoRows is a 1x2 frame: bottom row red, top row blue, as OpenGL reads it.
var twoRows = []byte{
	255, 0, 0, 255,
	0, 0, 255, 255,
}

func TestImageFromPixelsFlips(t *testing.T) {
	img, err := ImageFromPixels(twoRows, 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := img.RGBAAt(0, 0); got != (color.RGBA{0, 0, 255, 255}) {
		t.Errorf("top row: got %v, want blue", got)
	}
	if got := img.RGBAAt(0, 1); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("bottom row: got %v, want red", got)
	}
}

func TestImageFromPixelsErrors(t *testing.T) {
	tests := []struct {
		name          string
		pixels        []byte
		width, height int
	}{
		{"short", make([]byte, 7), 1, 2},
		{"long", make([]byte, 9), 1, 2},
		{"zero size", nil, 0, 0},
		{"negative", nil, -1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ImageFromPixels(tt.pixels, tt.width, tt.height); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatPNG, false},
		{"png", FormatPNG, false},
		{"PNG", FormatPNG, false},
		{"bmp", FormatBMP, false},
		{"jpeg", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("%q: error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("%q: got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCaptureFromPixels(t *testing.T) {
	for _, format := range []Format{FormatPNG, FormatBMP} {
		t.Run(string(format), func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "captures")
			fc := NewFrameCapture(dir, "meshglow", format)
			fc.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

			path, err := fc.CaptureFromPixels(twoRows, 1, 2)
			if err != nil {
				t.Fatalf("capture failed: %v", err)
			}

			want := filepath.Join(dir, "meshglow_2026-01-02_03-04-05.000."+string(format))
			if path != want {
				t.Errorf("path: got %s, want %s", path, want)
			}

			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("read capture: %v", err)
			}

			decode := png.Decode
			if format == FormatBMP {
				decode = bmp.Decode
			}
			img, err := decode(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if b := img.Bounds(); b.Dx() != 1 || b.Dy() != 2 {
				t.Fatalf("bounds: got %v", b)
			}
			r, _, bl, _ := img.At(0, 0).RGBA()
			if r != 0 || bl != 0xffff {
				t.Errorf("top pixel should be blue, got r=%d b=%d", r, bl)
			}
		})
	}
}

func TestCaptureRejectsBadFrame(t *testing.T) {
	dir := t.TempDir()
	fc := NewFrameCapture(dir, "x", FormatPNG)

	if _, err := fc.CaptureFromPixels([]byte{1, 2, 3}, 1, 1); err == nil {
		t.Fatal("expected error")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("no file should be written, found %d", len(entries))
	}
}

func TestDefaultFormat(t *testing.T) {
	fc := NewFrameCapture("", "shot", "")
	if fc.Format() != FormatPNG {
		t.Errorf("got %q, want png", fc.Format())
	}
	if name := fc.GenerateFilename(); !strings.HasSuffix(name, ".png") || filepath.Dir(name) != "." {
		t.Errorf("unexpected filename %s", name)
	}
}
