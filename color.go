package icongen

import (
	"encoding/hex"
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Color is an 8-bit RGBA color that can be written as "#rrggbb", "#rrggbbaa", "#rgb",
// "r,g,b" or "r,g,b,a".
type Color struct {
	R, G, B, A uint8
}

var _ color.Color = Color{}

// ParseColor parses the textual forms accepted by Color.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Color{}, fmt.Errorf("empty color")
	}
	if strings.HasPrefix(s, "#") {
		return parseHexColor(s)
	}
	if strings.Contains(s, ",") {
		return parseDecimalColor(s)
	}
	return Color{}, fmt.Errorf("invalid color %q: want #rrggbb[aa] or r,g,b[,a]", s)
}

func parseHexColor(s string) (Color, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return Color{}, fmt.Errorf("invalid color %q: hex form needs 3, 6 or 8 digits", s)
	}
	b, err := hex.DecodeString(h)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return Color{R: b[0], G: b[1], B: b[2], A: b[3]}, nil
}

func parseDecimalColor(s string) (Color, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 && len(parts) != 4 {
		return Color{}, fmt.Errorf("invalid color %q: decimal form needs 3 or 4 channels", s)
	}
	ch := [4]uint8{0, 0, 0, 255}
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return Color{}, fmt.Errorf("invalid color %q: channel %d: %w", s, i, err)
		}
		ch[i] = uint8(v)
	}
	return Color{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, nil
}

// RGBA implements color.Color. The stored channels are straight alpha, so they are
// premultiplied here.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}.RGBA()
}

func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Color) UnmarshalText(b []byte) error {
	v, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// colorAt returns the straight-alpha color of the pixel at (x, y).
func colorAt(img interface{ At(x, y int) color.Color }, x, y int) Color {
	n := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
	return Color{R: n.R, G: n.G, B: n.B, A: n.A}
}
