package icongen

import (
	"fmt"
	"image/png"
)

const (
	DefaultWidth    = 512
	DefaultHeight   = 512
	DefaultText     = "C"
	DefaultOriginX  = 200
	DefaultOriginY  = 200
	DefaultOutput   = "src-tauri/icons/icon.png"
	DefaultFontSize = 72

	// maxSide bounds the bitmap so a typo in a config cannot allocate gigabytes.
	maxSide = 8192
)

var (
	DefaultBackground = Color{R: 74, G: 144, B: 226, A: 255}
	DefaultForeground = Color{R: 255, G: 255, B: 255, A: 255}
)

// Compression is the PNG compression level name.
type Compression string

const (
	CompressionDefault Compression = "default"
	CompressionNone    Compression = "none"
	CompressionSpeed   Compression = "speed"
	CompressionBest    Compression = "best"
)

func (c Compression) level() (png.CompressionLevel, error) {
	switch c {
	case "", CompressionDefault:
		return png.DefaultCompression, nil
	case CompressionNone:
		return png.NoCompression, nil
	case CompressionSpeed:
		return png.BestSpeed, nil
	case CompressionBest:
		return png.BestCompression, nil
	default:
		return 0, fmt.Errorf("unknown compression level: %s", c)
	}
}

// Point is the top-left origin of the text line in pixels.
type Point struct {
	X int `yaml:"x" json:"x"`
	Y int `yaml:"y" json:"y"`
}

// Variant is an additional, scaled copy of the icon.
type Variant struct {
	Size   int    `yaml:"size" json:"size"`
	Output string `yaml:"output" json:"output"`
}

// Icon describes the bitmap to generate.
type Icon struct {
	Width       int         `yaml:"width" json:"width"`
	Height      int         `yaml:"height" json:"height"`
	Background  Color       `yaml:"background" json:"background"`
	Foreground  Color       `yaml:"foreground" json:"foreground"`
	Text        string      `yaml:"text" json:"text"`
	Origin      Point       `yaml:"origin" json:"origin"`
	Font        string      `yaml:"font" json:"font"`
	FontSize    float64     `yaml:"fontSize" json:"fontSize"`
	Output      string      `yaml:"output" json:"output"`
	Compression Compression `yaml:"compression" json:"compression"`
	Variants    []Variant   `yaml:"variants,omitempty" json:"variants,omitempty"`
}

// DefaultIcon returns the placeholder application icon: a 512x512 blue square with a white "C".
func DefaultIcon() *Icon {
	return &Icon{
		Width:       DefaultWidth,
		Height:      DefaultHeight,
		Background:  DefaultBackground,
		Foreground:  DefaultForeground,
		Text:        DefaultText,
		Origin:      Point{X: DefaultOriginX, Y: DefaultOriginY},
		Font:        FontBasic,
		FontSize:    DefaultFontSize,
		Output:      DefaultOutput,
		Compression: CompressionDefault,
	}
}

func (i *Icon) Validate() error {
	if i == nil {
		return fmt.Errorf("icon is nil")
	}
	if i.Width < 1 || i.Width > maxSide || i.Height < 1 || i.Height > maxSide {
		return fmt.Errorf("invalid icon size %dx%d: each side must be between 1 and %d", i.Width, i.Height, maxSide)
	}
	if i.Output == "" {
		return fmt.Errorf("output path is empty")
	}
	if i.FontSize < 0 {
		return fmt.Errorf("invalid font size: %v", i.FontSize)
	}
	if _, err := i.Compression.level(); err != nil {
		return err
	}
	for _, v := range i.Variants {
		if v.Size < 1 || v.Size > maxSide {
			return fmt.Errorf("invalid variant size %d for %s", v.Size, v.Output)
		}
		if v.Output == "" {
			return fmt.Errorf("variant of size %d has no output path", v.Size)
		}
	}
	return nil
}

// Clone returns a deep copy.
func (i *Icon) Clone() *Icon {
	c := *i
	c.Variants = append([]Variant(nil), i.Variants...)
	return &c
}
