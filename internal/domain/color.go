package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// FallbackColor fills features whose region key has no visual.
const FallbackColor = "#ffffff"

// Color is an sRGB colour with an alpha channel in [0, 1].
type Color struct {
	R, G, B uint8
	A       float64
}

// ParseColor parses a CSS hex colour ("#1976d2" or "#fff") as an opaque Color.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return Color{R: r, G: g, B: b, A: 1}, nil
}

// MustParseColor is ParseColor for constants; it panics on malformed input.
func MustParseColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// WithOpacity returns a copy of c with its alpha set to opacity, clamped to [0, 1].
func (c Color) WithOpacity(opacity float64) Color {
	c.A = math.Max(0, math.Min(1, opacity))
	return c
}

// String renders c as a CSS colour, rgb() when opaque and rgba() otherwise.
func (c Color) String() string {
	if c.A >= 1 {
		return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
	}
	alpha := strconv.FormatFloat(math.Round(c.A*1e4)/1e4, 'f', -1, 64)
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B, alpha)
}

// Hex renders the colour channels as "#rrggbb", ignoring alpha.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}
