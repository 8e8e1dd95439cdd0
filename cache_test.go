package icongen

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

func clearCache() {
	globalCache = &cache{}
}

func TestFontCache(t *testing.T) {
	clearCache()
	defer clearCache() // don't use t.Cleanup here, want to clear before next test

	ctx := context.Background()
	l := NewFontLoader("", nil)
	if _, err := l.Face(ctx, FontGoRegular, 32); err != nil {
		t.Fatal(err)
	}
	f1, ok := loadFontCache(FontGoRegular)
	if !ok {
		t.Fatal("parsed font was not cached")
	}
	if _, err := l.Face(ctx, FontGoRegular, 64); err != nil {
		t.Fatal(err)
	}
	f2, _ := loadFontCache(FontGoRegular)
	if f1 != f2 {
		t.Error("font was parsed again instead of loaded from cache")
	}
}

func TestFontCacheLocalFileChanged(t *testing.T) {
	clearCache()
	defer clearCache()

	ctx := context.Background()
	p := filepath.Join(t.TempDir(), "font.ttf")
	if err := os.WriteFile(p, goregular.TTF, 0o644); err != nil {
		t.Fatal(err)
	}
	l := NewFontLoader("", nil)
	if _, err := l.Face(ctx, p, 32); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, gomono.TTF, 0o644); err != nil {
		t.Fatal(err)
	}
	later := time.Now().Add(time.Minute)
	if err := os.Chtimes(p, later, later); err != nil {
		t.Fatal(err)
	}
	if _, err := l.Face(ctx, p, 32); err != nil {
		t.Fatal(err)
	}
	n := 0
	globalCache.m.Range(func(any, any) bool {
		n++
		return true
	})
	if n != 2 {
		t.Errorf("cache has %d entries, want one per file version", n)
	}
}
