package icongen

import (
	"context"
	"fmt"
	"hash/crc32"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/k1LoW/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

const (
	// FontBasic is the 7x13 bitmap face. It needs no font file and ignores the font size.
	FontBasic     = "basic"
	FontGoRegular = "goregular"
	FontGoBold    = "gobold"
	FontGoMono    = "gomono"
)

var embeddedFonts = map[string][]byte{
	FontGoRegular: goregular.TTF,
	FontGoBold:    gobold.TTF,
	FontGoMono:    gomono.TTF,
}

var userAgent = "icongen (+https://github.com/k1LoW/icongen)"

// FontLoader resolves font references to faces. URL fonts are cached under cacheDir.
type FontLoader struct {
	cacheDir string
	client   *retryablehttp.Client
	logger   *slog.Logger
}

func NewFontLoader(cacheDir string, logger *slog.Logger) *FontLoader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.HTTPClient.Timeout = 30 * time.Second
	client.Logger = logger
	return &FontLoader{
		cacheDir: cacheDir,
		client:   client,
		logger:   logger,
	}
}

// Face returns a face for ref at size points (72 DPI, so points equal pixels).
func (l *FontLoader) Face(ctx context.Context, ref string, size float64) (_ font.Face, err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	if ref == "" || ref == FontBasic {
		return basicfont.Face7x13, nil
	}
	if size <= 0 {
		size = DefaultFontSize
	}
	f, err := l.parse(ctx, ref)
	if err != nil {
		return nil, err
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create font face %s: %w", ErrRenderResource, ref, err)
	}
	return face, nil
}

func (l *FontLoader) parse(ctx context.Context, ref string) (*opentype.Font, error) {
	key := ref
	var load func() ([]byte, error)
	if b, ok := embeddedFonts[ref]; ok {
		load = func() ([]byte, error) { return b, nil }
	} else if isURL(ref) {
		load = func() ([]byte, error) { return l.fetch(ctx, ref) }
	} else {
		fi, err := os.Stat(ref)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read font file %s: %w", ErrRenderResource, ref, err)
		}
		// A rewritten file gets a new key.
		key = fmt.Sprintf("%s@%d", ref, fi.ModTime().UnixNano())
		load = func() ([]byte, error) { return os.ReadFile(ref) }
	}
	if f, ok := loadFontCache(key); ok {
		return f, nil
	}
	b, err := load()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load font %s: %w", ErrRenderResource, ref, err)
	}
	f, err := opentype.Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse font %s: %w", ErrRenderResource, ref, err)
	}
	storeFontCache(key, f)
	return f, nil
}

// LocalFile returns the file backing ref if it is a font on the local filesystem.
func LocalFile(ref string) (string, bool) {
	if ref == "" || ref == FontBasic || isURL(ref) {
		return "", false
	}
	if _, ok := embeddedFonts[ref]; ok {
		return "", false
	}
	return ref, true
}

func (l *FontLoader) fetch(ctx context.Context, u string) ([]byte, error) {
	cachePath := l.cachePath(u)
	if cachePath != "" {
		if b, err := os.ReadFile(cachePath); err == nil {
			l.logger.Debug("font cache hit", slog.String("url", u), slog.String("path", cachePath))
			return b, nil
		}
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	res, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status code %d", res.StatusCode)
	}
	b, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if cachePath != "" {
		if err := os.MkdirAll(filepath.Dir(cachePath), 0o700); err != nil {
			l.logger.Warn("failed to create font cache directory", slog.String("error", err.Error()))
		} else if err := os.WriteFile(cachePath, b, 0o600); err != nil {
			l.logger.Warn("failed to write font cache", slog.String("error", err.Error()))
		}
	}
	l.logger.Info("downloaded font", slog.String("url", u), slog.Int("bytes", len(b)))
	return b, nil
}

func (l *FontLoader) cachePath(u string) string {
	if l.cacheDir == "" {
		return ""
	}
	ext := strings.ToLower(path.Ext(strings.SplitN(u, "?", 2)[0]))
	if ext != ".otf" {
		ext = ".ttf"
	}
	return filepath.Join(l.cacheDir, fmt.Sprintf("%08x%s", crc32.ChecksumIEEE([]byte(u)), ext))
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
