package icongen

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log/slog"
	"path/filepath"

	"github.com/k1LoW/errors"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"
)

const maxVariantWorkers = 4

// TauriVariants returns the standard set of Tauri bundle icons placed next to output.
func TauriVariants(output string) []Variant {
	dir := filepath.Dir(output)
	return []Variant{
		{Size: 32, Output: filepath.Join(dir, "32x32.png")},
		{Size: 128, Output: filepath.Join(dir, "128x128.png")},
		{Size: 256, Output: filepath.Join(dir, "128x128@2x.png")},
	}
}

// Scale resizes src to a size x size square.
func Scale(src image.Image, size int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

func (g *Generator) saveVariants(ctx context.Context, master image.Image) (err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(maxVariantWorkers)
	for _, v := range g.icon.Variants {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			buf := new(bytes.Buffer)
			if err := g.encode(buf, Scale(master, v.Size)); err != nil {
				return fmt.Errorf("failed to encode variant %s: %w", v.Output, err)
			}
			if err := writeFile(v.Output, buf.Bytes()); err != nil {
				g.logger.Error("failed to save variant", slog.String("path", v.Output), slog.String("error", err.Error()))
				return err
			}
			g.logger.Info("saved variant", slog.String("path", v.Output), slog.Int("size", v.Size))
			return nil
		})
	}
	return eg.Wait()
}
