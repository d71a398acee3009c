// Package raster implements a view.DeviceContext on top of the gg software renderer.
package raster

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/inamate/engrave/internal/glyph"
	"github.com/inamate/engrave/internal/view"
)

// textFontRatio shrinks text faces so their figures come out as tall as the tuplet
// digits of a music font at the same size.
const textFontRatio = 0.4

// MaxPixels caps the canvas area.
const MaxPixels = 1 << 26

var ErrCanvasTooLarge = errors.New("raster: canvas too large")

// Context draws device coordinates (logical units, y down) onto a pixel canvas.
type Context struct {
	dc     *gg.Context
	toPx   view.Matrix2D
	scale  float64
	source *text.FontSource
	faces  map[int]text.Face

	fonts []view.Font
	pens  []view.Pen
	err   error
}

// New creates a white canvas for a page of width x height logical units drawn at scale
// pixels per unit.
func New(width, height int, scale float64) (*Context, error) {
	if scale <= 0 {
		return nil, fmt.Errorf("raster: invalid scale %v", scale)
	}
	fw, fh := math.Ceil(float64(width)*scale), math.Ceil(float64(height)*scale)
	if fw < 1 || fh < 1 {
		return nil, fmt.Errorf("raster: empty canvas %dx%d", width, height)
	}
	if fw*fh > MaxPixels {
		return nil, fmt.Errorf("%w: %.0fx%.0f pixels", ErrCanvasTooLarge, fw, fh)
	}
	source, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("load text font: %w", err)
	}

	pw, ph := int(fw), int(fh)
	dc := gg.NewContext(pw, ph)
	dc.ClearWithColor(gg.White)

	c := &Context{
		dc:     dc,
		toPx:   view.Scale(scale, scale),
		scale:  scale,
		source: source,
		faces:  make(map[int]text.Face),
	}
	c.applyPen()
	return c, nil
}

func (c *Context) SetFont(f view.Font) {
	c.fonts = append(c.fonts, f)
	c.applyFont()
}

func (c *Context) ResetFont() {
	if len(c.fonts) > 0 {
		c.fonts = c.fonts[:len(c.fonts)-1]
	}
	c.applyFont()
}

func (c *Context) GetTextExtent(s string) (int, int) {
	w, h := c.dc.MeasureString(glyph.ASCIIFigures(s))
	return int(math.Round(w / c.scale)), int(math.Round(h / c.scale))
}

func (c *Context) SetPen(col color.RGBA, width int, style view.PenStyle) {
	c.pens = append(c.pens, view.Pen{Color: col, Width: width, Style: style})
	c.applyPen()
}

func (c *Context) ResetPen() {
	if len(c.pens) > 0 {
		c.pens = c.pens[:len(c.pens)-1]
	}
	c.applyPen()
}

func (c *Context) DrawLine(x1, y1, x2, y2 int) {
	px1, py1 := c.toPx.TransformPoint(float64(x1), float64(y1))
	px2, py2 := c.toPx.TransformPoint(float64(x2), float64(y2))
	c.dc.DrawLine(px1, py1, px2, py2)
	if err := c.dc.Stroke(); err != nil && c.err == nil {
		c.err = fmt.Errorf("stroke line: %w", err)
	}
}

func (c *Context) DrawText(x, y int, s string) {
	px, py := c.toPx.TransformPoint(float64(x), float64(y))
	c.dc.DrawString(glyph.ASCIIFigures(s), px, py)
}

// Err reports the first drawing error, if any.
func (c *Context) Err() error { return c.err }

// EncodePNG writes the canvas as PNG.
func (c *Context) EncodePNG(w io.Writer) error {
	if c.err != nil {
		return c.err
	}
	if err := c.dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func (c *Context) Close() error {
	return c.dc.Close()
}

func (c *Context) applyFont() {
	if len(c.fonts) == 0 {
		c.dc.SetFont(nil)
		return
	}
	size := c.fonts[len(c.fonts)-1].Size
	face, ok := c.faces[size]
	if !ok {
		face = c.source.Face(float64(size) * c.scale * textFontRatio)
		c.faces[size] = face
	}
	c.dc.SetFont(face)
}

func (c *Context) applyPen() {
	p := view.Pen{Color: color.RGBA{A: 0xff}, Width: 10}
	if len(c.pens) > 0 {
		p = c.pens[len(c.pens)-1]
	}
	c.dc.SetColor(p.Color)
	c.dc.SetLineWidth(math.Max(1, float64(p.Width)*c.scale))
	switch p.Style {
	case view.PenDashed:
		c.dc.SetDash(6, 4)
	case view.PenDotted:
		c.dc.SetDash(1, 3)
	default:
		c.dc.ClearDash()
	}
}
