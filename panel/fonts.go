package panel

import (
	"log"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
)

const maxFontCacheSize = 16

var (
	fontMux      sync.RWMutex
	parsedFont   *opentype.Font
	fontCache    = map[float64]font.Face{}
	fontLoadErr  error
	fontDataOnce sync.Once
)

// SetFontData installs TTF/OTF bytes for the panel's text rendering. Without
// it the panel falls back to the built-in bitmap font. Call before the first
// frame.
func SetFontData(data []byte) {
	fontDataOnce.Do(func() {
		f, err := opentype.Parse(data)
		if err != nil {
			fontLoadErr = err
			log.Printf("[PANEL] failed to parse font data: %v, using fallback font", err)
			return
		}
		fontMux.Lock()
		parsedFont = f
		fontMux.Unlock()
	})
}

// loadPanelFont returns a cached face for the size, or the fallback font
// when no font data was installed.
func loadPanelFont(size float64) font.Face {
	fontMux.RLock()
	if face, ok := fontCache[size]; ok {
		fontMux.RUnlock()
		return face
	}
	parsed := parsedFont
	fontMux.RUnlock()

	if parsed == nil || fontLoadErr != nil {
		return basicfont.Face7x13
	}

	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		log.Printf("[PANEL] failed to create font face: %v, using fallback font", err)
		return basicfont.Face7x13
	}

	fontMux.Lock()
	if len(fontCache) >= maxFontCacheSize {
		for key := range fontCache {
			delete(fontCache, key)
			break
		}
	}
	fontCache[size] = face
	fontMux.Unlock()

	return face
}
