package view

import (
	"image/color"

	"github.com/inamate/engrave/internal/notation"
)

// View carries the per-page drawing state: metrics, colour and the logical to device mapping.
type View struct {
	Metrics Metrics
	Color   color.RGBA

	toDevice Matrix2D
}

// New creates a view for a page of the given logical height. Logical y grows upwards,
// device y downwards.
func New(metrics Metrics, pageHeight int) *View {
	return &View{
		Metrics:  metrics,
		Color:    color.RGBA{A: 0xff},
		toDevice: FlipY(float64(pageHeight)),
	}
}

func (v *View) ToDeviceX(x int) int {
	dx, _ := v.toDevice.TransformInt(x, 0)
	return dx
}

func (v *View) ToDeviceY(y int) int {
	_, dy := v.toDevice.TransformInt(0, y)
	return dy
}

func (v *View) pen() Pen {
	return Pen{Color: v.Color, Width: v.Metrics.StemWidth, Style: PenSolid}
}

// DrawStems draws the stem of every note and rest below id.
func DrawStems(dc DeviceContext, v *View, t *notation.Tree, id notation.NodeID) {
	WithPen(dc, v.pen(), func() {
		for _, e := range notation.DurationElements(t, id) {
			g := t.Node(e).Geometry
			if g == nil || g.StemStart == g.StemEnd {
				continue
			}
			dc.DrawLine(
				v.ToDeviceX(g.StemStart.X), v.ToDeviceY(g.StemStart.Y),
				v.ToDeviceX(g.StemEnd.X), v.ToDeviceY(g.StemEnd.Y),
			)
		}
	})
}
