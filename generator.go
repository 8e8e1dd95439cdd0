package icongen

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/k1LoW/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

type Generator struct {
	icon       *Icon
	fontLoader *FontLoader
	logger     *slog.Logger
}

type Option func(*Generator) error

func WithIcon(icon *Icon) Option {
	return func(g *Generator) error {
		if icon == nil {
			return fmt.Errorf("icon is nil")
		}
		g.icon = icon.Clone()
		return nil
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) error {
		g.logger = logger
		return nil
	}
}

func WithFontLoader(l *FontLoader) Option {
	return func(g *Generator) error {
		g.fontLoader = l
		return nil
	}
}

// New creates a Generator. Without options it produces DefaultIcon.
func New(opts ...Option) (_ *Generator, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	g := &Generator{
		icon: DefaultIcon(),
	}
	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, err
		}
	}
	if g.logger == nil {
		g.logger = slog.New(slog.DiscardHandler)
	}
	if g.fontLoader == nil {
		g.fontLoader = NewFontLoader("", g.logger)
	}
	if err := g.icon.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// GenerateIcon renders the icon and writes it, and any variants, to their output paths.
func GenerateIcon(ctx context.Context, opts ...Option) (err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	g, err := New(opts...)
	if err != nil {
		return err
	}
	return g.Save(ctx)
}

func (g *Generator) Icon() *Icon {
	return g.icon.Clone()
}

// Render allocates the bitmap, fills it with the background and draws the text.
func (g *Generator) Render(ctx context.Context) (_ *image.RGBA, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	icon := g.icon
	face, err := g.fontLoader.Face(ctx, icon.Font, icon.FontSize)
	if err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, icon.Width, icon.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(icon.Background), image.Point{}, draw.Src)
	if icon.Text != "" {
		// The origin is the top-left of the line; the drawer wants the baseline.
		d := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(icon.Foreground),
			Face: face,
			Dot:  fixed.P(icon.Origin.X, icon.Origin.Y+face.Metrics().Ascent.Ceil()),
		}
		d.DrawString(icon.Text)
	}
	g.logger.Info("rendered icon", slog.Int("width", icon.Width), slog.Int("height", icon.Height), slog.String("text", icon.Text))
	return img, nil
}

// Encode renders the icon and writes it to w as PNG.
func (g *Generator) Encode(ctx context.Context, w io.Writer) (err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	img, err := g.Render(ctx)
	if err != nil {
		return err
	}
	return g.encode(w, img)
}

func (g *Generator) encode(w io.Writer, img image.Image) error {
	level, err := g.icon.Compression.level()
	if err != nil {
		return err
	}
	enc := &png.Encoder{CompressionLevel: level}
	if err := enc.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}
	return nil
}

// Save renders the icon and writes the master file and its variants.
// The parent directory of each output must already exist.
func (g *Generator) Save(ctx context.Context) (err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	img, err := g.Render(ctx)
	if err != nil {
		return err
	}
	buf := new(bytes.Buffer)
	if err := g.encode(buf, img); err != nil {
		return err
	}
	if err := writeFile(g.icon.Output, buf.Bytes()); err != nil {
		g.logger.Error("failed to save icon", slog.String("path", g.icon.Output), slog.String("error", err.Error()))
		return err
	}
	g.logger.Info("saved icon", slog.String("path", g.icon.Output), slog.Int("bytes", buf.Len()))
	if len(g.icon.Variants) > 0 {
		if err := g.saveVariants(ctx, img); err != nil {
			return err
		}
	}
	return nil
}

// writeFile replaces path with b through a temporary file in the same directory,
// so a failed write leaves any previous file untouched.
func writeFile(path string, b []byte) error {
	dir := filepath.Dir(path)
	fi, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("%w: output directory %s: %w", ErrOutputPath, dir, err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("%w: output directory %s is not a directory", ErrOutputPath, dir)
	}
	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.New().String()))
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("%w: failed to write %s: %w", ErrOutputPath, path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("%w: failed to write %s: %w", ErrOutputPath, path, err)
	}
	return nil
}
