// Package view turns resolved notation geometry into device context calls.
package view

import "image/color"

// Font selects a typeface at a size given in logical units.
type Font struct {
	Family string `json:"family"`
	Size   int    `json:"size"`
}

type PenStyle int

const (
	PenSolid PenStyle = iota
	PenDashed
	PenDotted
)

func (s PenStyle) String() string {
	switch s {
	case PenDashed:
		return "dashed"
	case PenDotted:
		return "dotted"
	default:
		return "solid"
	}
}

// Pen is the stroke used by DrawLine.
type Pen struct {
	Color color.RGBA
	Width int
	Style PenStyle
}

// DeviceContext is the drawing surface. Coordinates are device coordinates (y grows
// downwards). SetFont and SetPen push onto a stack that ResetFont and ResetPen pop.
type DeviceContext interface {
	SetFont(f Font)
	ResetFont()
	GetTextExtent(s string) (w, h int)
	SetPen(c color.RGBA, width int, style PenStyle)
	ResetPen()
	DrawLine(x1, y1, x2, y2 int)
	DrawText(x, y int, s string)
}

// WithFont runs fn with f selected and restores the previous font afterwards, even if fn panics.
func WithFont(dc DeviceContext, f Font, fn func()) {
	dc.SetFont(f)
	defer dc.ResetFont()
	fn()
}

// WithPen runs fn with p selected and restores the previous pen afterwards, even if fn panics.
func WithPen(dc DeviceContext, p Pen, fn func()) {
	dc.SetPen(p.Color, p.Width, p.Style)
	defer dc.ResetPen()
	fn()
}
