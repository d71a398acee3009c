// Package glyph holds music font glyph metrics.
//
// All glyph values are integers ten times the original font values. The units-per-em value
// is scaled the same way, so ratios are unchanged while rounding happens later, after the
// multiplication by a point size.
package glyph

import "strings"

// UnitsPerEm of the tuplet digit table, ten times the font's 2048.
const UnitsPerEm = 20480

type Glyph struct {
	Code       rune
	X, Y       int
	Width      int
	Height     int
	unitsPerEm int
}

func New(code rune, unitsPerEm int) Glyph {
	return Glyph{Code: code, unitsPerEm: unitsPerEm}
}

// SetBoundingBox stores font-unit bounds at ten times their value.
func (g *Glyph) SetBoundingBox(x, y, w, h float64) {
	g.X = int(10.0 * x)
	g.Y = int(10.0 * y)
	g.Width = int(10.0 * w)
	g.Height = int(10.0 * h)
}

func (g Glyph) BoundingBox() (x, y, w, h int) {
	return g.X, g.Y, g.Width, g.Height
}

func (g Glyph) UnitsPerEm() int { return g.unitsPerEm }

const (
	tuplet0     = '\uE880'
	tuplet9     = '\uE889'
	tupletColon = '\uE88A'
)

var table = func() map[rune]Glyph {
	bounds := map[rune][4]float64{
		tuplet0 + 0: {30, 0, 920, 1030},
		tuplet0 + 1: {40, 0, 640, 1010},
		tuplet0 + 2: {20, 0, 900, 1030},
		tuplet0 + 3: {20, -10, 880, 1040},
		tuplet0 + 4: {10, 0, 930, 1010},
		tuplet0 + 5: {20, -10, 880, 1020},
		tuplet0 + 6: {30, -10, 900, 1040},
		tuplet0 + 7: {50, 0, 860, 1010},
		tuplet0 + 8: {20, -10, 900, 1040},
		tuplet0 + 9: {20, -10, 900, 1040},
		tupletColon: {60, 120, 330, 760},
	}
	m := make(map[rune]Glyph, len(bounds))
	for code, b := range bounds {
		g := New(code, UnitsPerEm)
		g.SetBoundingBox(b[0], b[1], b[2], b[3])
		m[code] = g
	}
	return m
}()

// Lookup returns the metrics of a music glyph.
func Lookup(code rune) (Glyph, bool) {
	g, ok := table[code]
	return g, ok
}

// Extent measures s set at pointSize logical units. Unknown runes count as half an em wide.
func Extent(s string, pointSize int) (w, h int) {
	var width, height float64
	size := float64(pointSize)
	for _, r := range s {
		g, ok := Lookup(r)
		if !ok {
			width += size / 2
			height = max(height, size/2)
			continue
		}
		_, _, gw, gh := g.BoundingBox()
		em := float64(g.UnitsPerEm())
		width += float64(gw) * size / em
		height = max(height, float64(gh)*size/em)
	}
	return int(width), int(height)
}

// TupletFigures renders n with the tuplet digit glyphs. Non-positive values give "".
func TupletFigures(n int) string {
	if n <= 0 {
		return ""
	}
	var b strings.Builder
	for _, d := range itoa(n) {
		b.WriteRune(tuplet0 + (d - '0'))
	}
	return b.String()
}

// ASCIIFigures maps tuplet digit glyphs back to plain digits for text fonts.
func ASCIIFigures(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= tuplet0 && r <= tuplet9:
			return '0' + (r - tuplet0)
		case r == tupletColon:
			return ':'
		}
		return r
	}, s)
}

func itoa(n int) string {
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
