// Package banner renders headwords as large block art using half-block characters.
package banner

import (
	"image"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var face = basicfont.Face7x13

// threshold is the brightness above which a pixel counts as "on".
const threshold = 40

// Width returns the number of terminal cells text occupies when rendered.
func Width(text string) int {
	return len(text) * face.Advance
}

// Rows returns the number of terminal lines a rendered banner occupies.
func Rows() int {
	return (face.Height + 1) / 2
}

// Render draws text with the built-in 7x13 font and converts it to half-block
// art (▀▄█). It returns "" when text is empty, contains non-ASCII runes, or
// does not fit in maxCols cells.
func Render(text string, maxCols int) string {
	if text == "" || Width(text) > maxCols {
		return ""
	}
	for i := 0; i < len(text); i++ {
		if text[i] < 0x20 || text[i] > 0x7e {
			return ""
		}
	}

	cols, rows := Width(text), Rows()
	img := image.NewGray(image.Rect(0, 0, cols, rows*2))

	d := &font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: face,
		Dot:  fixed.P(0, face.Ascent),
	}
	d.DrawString(text)

	return halfBlocks(img, cols, rows)
}

// halfBlocks converts a grayscale image to half-block art. Each cell covers
// two vertical pixels.
func halfBlocks(img *image.Gray, cols, rows int) string {
	var b strings.Builder

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			top := brightness(img, col, row*2) > threshold
			bottom := brightness(img, col, row*2+1) > threshold

			switch {
			case top && bottom:
				b.WriteRune('█')
			case top:
				b.WriteRune('▀')
			case bottom:
				b.WriteRune('▄')
			default:
				b.WriteRune(' ')
			}
		}
		if row < rows-1 {
			b.WriteRune('\n')
		}
	}

	return b.String()
}

func brightness(img *image.Gray, x, y int) uint8 {
	if x < 0 || y < 0 || x >= img.Bounds().Max.X || y >= img.Bounds().Max.Y {
		return 0
	}
	return img.GrayAt(x, y).Y
}

type cacheKey struct {
	text    string
	maxCols int
}

// maxCached bounds the cache, which is cleared when full.
const maxCached = 256

var (
	cacheMu sync.Mutex
	cache   = make(map[cacheKey]string)
)

// Cached returns a cached banner or renders a new one.
func Cached(text string, maxCols int) string {
	key := cacheKey{text: text, maxCols: maxCols}

	cacheMu.Lock()
	defer cacheMu.Unlock()

	if rendered, ok := cache[key]; ok {
		return rendered
	}
	rendered := Render(text, maxCols)
	if len(cache) >= maxCached {
		clear(cache)
	}
	cache[key] = rendered
	return rendered
}
