// Package palette parses and converts the colour palettes fed to the
// gradient effect.
package palette

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidColor is returned for strings that are not a colour.
var ErrInvalidColor = errors.New("invalid color")

// Palette is an ordered list of colours. The last entry is the background
// the gradient starts from.
type Palette []colorful.Color

var niceHex = [][]string{
	{"#3e4146", "#fffde0", "#dfd97e", "#592e2e", "#2a2c30"},
	{"#8ce8ad", "#987856", "#fda6a3", "#f9d7ab", "#ffdcaa"},
	{"#eff2cc", "#b2d5ba", "#61ad9f", "#238f8d", "#60503d"},
	{"#f9d135", "#ff9c5b", "#f55e49", "#ec305e", "#3a81d0"},
	{"#ffeed3", "#fffee4", "#d1ebeb", "#9fdbc8", "#8b7a5e"},
	{"#fffaa7", "#a6f5ae", "#66b6ab", "#5a7bb0", "#4f2959"},
	{"#ffb266", "#ede8e6", "#faa78e", "#ffba7f", "#ff9996"},
}

var nice = mustParseAll(niceHex)

func mustParseAll(hexes [][]string) []Palette {
	out := make([]Palette, len(hexes))
	for i, h := range hexes {
		p, err := Parse(h...)
		if err != nil {
			panic(err)
		}
		out[i] = p
	}
	return out
}

// NiceCount is the number of built-in palettes.
func NiceCount() int {
	return len(nice)
}

// Nice returns built-in palette i, wrapping in both directions.
func Nice(i int) Palette {
	n := len(nice)
	i %= n
	if i < 0 {
		i += n
	}
	return append(Palette(nil), nice[i]...)
}

// Parse builds a palette from hex strings ("#abc", "aabbcc", ...).
func Parse(hexes ...string) (Palette, error) {
	p := make(Palette, 0, len(hexes))
	for _, h := range hexes {
		c, err := ParseHex(h)
		if err != nil {
			return nil, err
		}
		p = append(p, c)
	}
	return p, nil
}

// ParseHex parses a 3 or 6 digit hex colour with an optional leading '#'.
func ParseHex(hex string) (colorful.Color, error) {
	digits := strings.TrimPrefix(hex, "#")
	if len(digits) != 3 && len(digits) != 6 {
		return colorful.Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, hex)
	}
	c, err := colorful.Hex("#" + digits)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("%w: %q: %v", ErrInvalidColor, hex, err)
	}
	return c, nil
}

// HexToRGBString converts a hex colour to "rgb(r, g, b)".
func HexToRGBString(hex string) (string, error) {
	c, err := ParseHex(hex)
	if err != nil {
		return "", err
	}
	r, g, b := c.RGB255()
	return fmt.Sprintf("rgb(%d, %d, %d)", r, g, b), nil
}

// RGBStringToArray converts "rgb(r, g, b)" to channels in [0,1].
func RGBStringToArray(rgb string) ([]float32, error) {
	s := strings.TrimSpace(rgb)
	s = strings.TrimPrefix(s, "rgb(")
	s = strings.TrimSuffix(s, ")")

	parts := strings.Split(s, ",")
	out := make([]float32, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidColor, rgb)
		}
		out = append(out, float32(n)/255)
	}
	return out, nil
}

// Floats flattens the palette into r,g,b triples for a vec3 array uniform.
func (p Palette) Floats() []float32 {
	out := make([]float32, 0, len(p)*3)
	for _, c := range p {
		out = append(out, float32(c.R), float32(c.G), float32(c.B))
	}
	return out
}

// Hex returns the palette as "#rrggbb" strings.
func (p Palette) Hex() []string {
	out := make([]string, len(p))
	for i, c := range p {
		out[i] = c.Hex()
	}
	return out
}

// Background returns the last colour, or black for an empty palette.
func (p Palette) Background() colorful.Color {
	if len(p) == 0 {
		return colorful.Color{}
	}
	return p[len(p)-1]
}
