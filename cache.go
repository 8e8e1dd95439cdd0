package icongen

import (
	"sync"

	"golang.org/x/image/font/opentype"
)

var globalCache = &cache{}

// cache holds parsed fonts so that watch mode and verify do not parse the same file twice.
type cache struct {
	m sync.Map
}

func loadFontCache(key string) (*opentype.Font, bool) {
	if v, ok := globalCache.m.Load(key); ok {
		if f, ok := v.(*opentype.Font); ok {
			return f, true
		}
	}
	return nil, false
}

func storeFontCache(key string, f *opentype.Font) {
	if f == nil {
		return
	}
	globalCache.m.Store(key, f)
}
