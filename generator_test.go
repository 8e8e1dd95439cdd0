package icongen

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func decodePNG(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("not a valid PNG: %v", err)
	}
	return img
}

func iconIn(t *testing.T) *Icon {
	t.Helper()
	icon := DefaultIcon()
	icon.Output = filepath.Join(t.TempDir(), "icons", "icon.png")
	if err := os.MkdirAll(filepath.Dir(icon.Output), 0o755); err != nil {
		t.Fatal(err)
	}
	return icon
}

func TestDefaultIcon(t *testing.T) {
	icon := DefaultIcon()
	if icon.Width != 512 || icon.Height != 512 {
		t.Errorf("size = %dx%d, want 512x512", icon.Width, icon.Height)
	}
	if diff := cmp.Diff(Color{R: 74, G: 144, B: 226, A: 255}, icon.Background); diff != "" {
		t.Errorf("background mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Color{R: 255, G: 255, B: 255, A: 255}, icon.Foreground); diff != "" {
		t.Errorf("foreground mismatch (-want +got):\n%s", diff)
	}
	if icon.Text != "C" || icon.Origin != (Point{X: 200, Y: 200}) {
		t.Errorf("text %q at %v, want \"C\" at (200,200)", icon.Text, icon.Origin)
	}
	if icon.Output != "src-tauri/icons/icon.png" {
		t.Errorf("output = %q", icon.Output)
	}
	if err := icon.Validate(); err != nil {
		t.Error(err)
	}
}

func TestRender(t *testing.T) {
	g, err := New()
	if err != nil {
		t.Fatal(err)
	}
	img, err := g.Render(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got := img.Bounds(); got != image.Rect(0, 0, 512, 512) {
		t.Errorf("bounds = %v, want 512x512", got)
	}
	if got := colorAt(img, 0, 0); got != DefaultBackground {
		t.Errorf("corner = %s, want %s", got, DefaultBackground)
	}
	if got := colorAt(img, 511, 511); got != DefaultBackground {
		t.Errorf("bottom-right = %s, want %s", got, DefaultBackground)
	}

	// Glyph pixels land somewhere below and to the right of the origin.
	glyph := 0
	for y := 200; y < 220; y++ {
		for x := 200; x < 210; x++ {
			if colorAt(img, x, y) != DefaultBackground {
				glyph++
			}
		}
	}
	if glyph == 0 {
		t.Error("no glyph pixels near the origin")
	}
}

func TestRenderEmptyText(t *testing.T) {
	icon := DefaultIcon()
	icon.Text = ""
	icon.Width, icon.Height = 16, 8
	g, err := New(WithIcon(icon))
	if err != nil {
		t.Fatal(err)
	}
	img, err := g.Render(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < 8; y++ {
		for x := 0; x < 16; x++ {
			if got := colorAt(img, x, y); got != DefaultBackground {
				t.Fatalf("pixel (%d,%d) = %s, want background", x, y, got)
			}
		}
	}
}

func TestRenderVectorFonts(t *testing.T) {
	for _, f := range []string{FontGoRegular, FontGoBold, FontGoMono} {
		t.Run(f, func(t *testing.T) {
			icon := DefaultIcon()
			icon.Font = f
			icon.FontSize = 200
			icon.Origin = Point{X: 150, Y: 100}
			g, err := New(WithIcon(icon))
			if err != nil {
				t.Fatal(err)
			}
			img, err := g.Render(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			if got := colorAt(img, 0, 0); got != DefaultBackground {
				t.Errorf("corner = %s, want %s", got, DefaultBackground)
			}
			white := 0
			b := img.Bounds()
			for y := b.Min.Y; y < b.Max.Y; y++ {
				for x := b.Min.X; x < b.Max.X; x++ {
					if colorAt(img, x, y) == DefaultForeground {
						white++
					}
				}
			}
			if white < 100 {
				t.Errorf("only %d foreground pixels for a 200px glyph", white)
			}
		})
	}
}

func TestRenderUnknownFont(t *testing.T) {
	icon := DefaultIcon()
	icon.Font = filepath.Join(t.TempDir(), "missing.ttf")
	g, err := New(WithIcon(icon))
	if err != nil {
		t.Fatal(err)
	}
	_, err = g.Render(context.Background())
	if !errors.Is(err, ErrRenderResource) {
		t.Errorf("Render() error = %v, want ErrRenderResource", err)
	}
}

func TestEncode(t *testing.T) {
	g, err := New()
	if err != nil {
		t.Fatal(err)
	}
	buf := new(bytes.Buffer)
	if err := g.Encode(context.Background(), buf); err != nil {
		t.Fatal(err)
	}
	cfg, format, err := image.DecodeConfig(buf)
	if err != nil {
		t.Fatal(err)
	}
	if format != "png" || cfg.Width != 512 || cfg.Height != 512 {
		t.Errorf("got %s %dx%d, want png 512x512", format, cfg.Width, cfg.Height)
	}
}

func TestSave(t *testing.T) {
	icon := iconIn(t)
	if err := GenerateIcon(context.Background(), WithIcon(icon)); err != nil {
		t.Fatal(err)
	}
	img := decodePNG(t, icon.Output)
	if got := img.Bounds(); got.Dx() != 512 || got.Dy() != 512 {
		t.Errorf("size = %dx%d, want 512x512", got.Dx(), got.Dy())
	}
	if got := colorAt(img, 0, 0); got != DefaultBackground {
		t.Errorf("corner = %s, want %s", got, DefaultBackground)
	}
	entries, err := os.ReadDir(filepath.Dir(icon.Output))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("got %d files in the output directory, want only icon.png", len(entries))
	}
}

func TestSaveIsIdempotent(t *testing.T) {
	icon := iconIn(t)
	ctx := context.Background()
	if err := GenerateIcon(ctx, WithIcon(icon)); err != nil {
		t.Fatal(err)
	}
	first := decodePNG(t, icon.Output)
	if err := GenerateIcon(ctx, WithIcon(icon)); err != nil {
		t.Fatal(err)
	}
	second := decodePNG(t, icon.Output)
	if first.Bounds() != second.Bounds() {
		t.Fatalf("bounds differ between runs: %v, %v", first.Bounds(), second.Bounds())
	}
	b := first.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if colorAt(first, x, y) != colorAt(second, x, y) {
				t.Fatalf("pixel (%d,%d) differs between runs", x, y)
			}
		}
	}
}

func TestSaveMissingDirectory(t *testing.T) {
	root := t.TempDir()
	icon := DefaultIcon()
	icon.Output = filepath.Join(root, "src-tauri", "icons", "icon.png")
	err := GenerateIcon(context.Background(), WithIcon(icon))
	if !errors.Is(err, ErrOutputPath) {
		t.Fatalf("GenerateIcon() error = %v, want ErrOutputPath", err)
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("created %d entries, want none", len(entries))
	}
}

func TestSaveParentIsFile(t *testing.T) {
	root := t.TempDir()
	parent := filepath.Join(root, "icons")
	if err := os.WriteFile(parent, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	icon := DefaultIcon()
	icon.Output = filepath.Join(parent, "icon.png")
	if err := GenerateIcon(context.Background(), WithIcon(icon)); !errors.Is(err, ErrOutputPath) {
		t.Errorf("GenerateIcon() error = %v, want ErrOutputPath", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Icon)
		wantErr bool
	}{
		{"default", func(*Icon) {}, false},
		{"zero width", func(i *Icon) { i.Width = 0 }, true},
		{"too large", func(i *Icon) { i.Height = maxSide + 1 }, true},
		{"no output", func(i *Icon) { i.Output = "" }, true},
		{"unknown compression", func(i *Icon) { i.Compression = "max" }, true},
		{"best compression", func(i *Icon) { i.Compression = CompressionBest }, false},
		{"negative font size", func(i *Icon) { i.FontSize = -1 }, true},
		{"bad variant", func(i *Icon) { i.Variants = []Variant{{Size: 0, Output: "a.png"}} }, true},
		{"variant without output", func(i *Icon) { i.Variants = []Variant{{Size: 32}} }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			icon := DefaultIcon()
			tt.modify(icon)
			if err := icon.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if _, err := New(WithIcon(icon)); (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
