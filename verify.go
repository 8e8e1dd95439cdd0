package icongen

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/corona10/goimagehash"
	"github.com/k1LoW/errors"
)

// similarityThreshold is the largest perceptual hash distance still treated as the same icon.
const similarityThreshold = 5

const (
	CheckFormat     = "format"
	CheckDimensions = "dimensions"
	CheckBackground = "background"
	CheckSimilarity = "similarity"
)

type Check struct {
	Name   string `json:"name"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail,omitempty"`
}

// Report is the result of Verify.
type Report struct {
	Path     string   `json:"path,omitempty"`
	Width    int      `json:"width"`
	Height   int      `json:"height"`
	Corner   Color    `json:"corner"`
	Distance int      `json:"distance"`
	Checks   []*Check `json:"checks"`
}

func (r *Report) OK() bool {
	for _, c := range r.Checks {
		if !c.OK {
			return false
		}
	}
	return true
}

func (r *Report) add(name string, ok bool, format string, a ...any) {
	r.Checks = append(r.Checks, &Check{Name: name, OK: ok, Detail: fmt.Sprintf(format, a...)})
}

// Verify checks that the PNG at path matches what g would generate.
// A returned error means the file could not be read at all; failed checks are reported in
// the Report.
func (g *Generator) Verify(ctx context.Context, path string) (_ *Report, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	icon := g.icon
	r := &Report{Path: path}
	img, err := png.Decode(bytes.NewReader(b))
	if err != nil {
		r.add(CheckFormat, false, "not a valid PNG: %v", err)
		return r, nil
	}
	r.add(CheckFormat, true, "png")

	bounds := img.Bounds()
	r.Width, r.Height = bounds.Dx(), bounds.Dy()
	r.add(CheckDimensions, r.Width == icon.Width && r.Height == icon.Height,
		"%dx%d (want %dx%d)", r.Width, r.Height, icon.Width, icon.Height)

	r.Corner = colorAt(img, bounds.Min.X, bounds.Min.Y)
	r.add(CheckBackground, r.Corner == icon.Background, "%s (want %s)", r.Corner, icon.Background)

	want, err := g.Render(ctx)
	if err != nil {
		return nil, err
	}
	d, err := distance(img, want)
	if err != nil {
		return nil, err
	}
	r.Distance = d
	r.add(CheckSimilarity, d < similarityThreshold, "perceptual hash distance %d (threshold %d)", d, similarityThreshold)
	return r, nil
}

func distance(a, b image.Image) (int, error) {
	ah, err := goimagehash.PerceptionHash(a)
	if err != nil {
		return 0, fmt.Errorf("failed to compute perceptual hash: %w", err)
	}
	bh, err := goimagehash.PerceptionHash(b)
	if err != nil {
		return 0, fmt.Errorf("failed to compute perceptual hash: %w", err)
	}
	return ah.Distance(bh)
}
