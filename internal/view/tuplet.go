package view

import (
	"fmt"
	"log/slog"

	"github.com/inamate/engrave/internal/glyph"
	"github.com/inamate/engrave/internal/notation"
)

// Gaps left in the bracket before and after the numeral, in logical units.
const (
	BracketGapBefore = 40
	BracketGapAfter  = 20
)

// DrawTuplet draws the numeral of a tuplet and, unless its notes share a single beam, a
// bracket interrupted around the numeral with a hook at each end. The tuplet must sit
// under a staff and a layer.
func DrawTuplet(dc DeviceContext, v *View, t *notation.Tree, tuplet notation.NodeID) {
	node := t.Node(tuplet)
	staff, ok := t.FirstAncestor(tuplet, notation.KindStaff, -1)
	if !ok {
		panic(fmt.Sprintf("view: tuplet %s is not on a staff", node.ID))
	}
	if _, ok := t.FirstAncestor(tuplet, notation.KindLayer, -1); !ok {
		panic(fmt.Sprintf("view: tuplet %s is not in a layer", node.ID))
	}
	staffSize := t.Node(staff).StaffSize

	// The element list is rebuilt for every pass.
	coords := notation.ResolveTuplet(t, tuplet, notation.DurationElements(t, tuplet))

	num := node.Tuplet.Num
	var txtX, txtLen int
	WithFont(dc, v.Metrics.MusicFont(staffSize, false), func() {
		var figures string
		if num > 0 {
			figures = glyph.TupletFigures(num)
			txtLen, _ = dc.GetTextExtent(figures)
		}

		txtX = coords.Center.X - txtLen/2
		// Half the figure height is about an accidental width.
		txtY := coords.Center.Y - v.Metrics.AccidWidth[staffSize][cueIndex(node.Tuplet.Cue)]

		if num > 0 {
			dc.DrawText(v.ToDeviceX(txtX), v.ToDeviceY(txtY), figures)
		}
	})

	WithPen(dc, v.pen(), func() {
		if coords.BracketSuppressed() {
			slog.Debug("tuplet bracket suppressed", "tuplet", node.ID)
			return
		}
		drawBracket(dc, v, coords, txtX, txtLen)
	})
}

func drawBracket(dc DeviceContext, v *View, c notation.Coords, txtX, txtLen int) {
	start, end := c.Start, c.End

	var m float64
	if start.X != end.X {
		m = float64(start.Y-end.Y) / float64(start.X-end.X)
	}

	x := float64(txtX - BracketGapBefore)
	xa := float64(txtX + txtLen + BracketGapAfter)
	y1 := float64(start.Y) + m*(x-float64(start.X))
	y2 := float64(start.Y) + m*(xa-float64(start.X))

	dc.DrawLine(v.ToDeviceX(start.X), v.ToDeviceY(start.Y), v.ToDeviceX(int(x)), v.ToDeviceY(int(y1)))
	dc.DrawLine(v.ToDeviceX(int(xa)), v.ToDeviceY(int(y2)), v.ToDeviceX(end.X), v.ToDeviceY(end.Y))

	// Hooks point back towards the notes.
	hook := v.Metrics.DrawingUnit[0]
	if c.Up {
		hook = -hook
	}
	dc.DrawLine(v.ToDeviceX(start.X), v.ToDeviceY(start.Y), v.ToDeviceX(start.X), v.ToDeviceY(start.Y+hook))
	dc.DrawLine(v.ToDeviceX(end.X), v.ToDeviceY(end.Y), v.ToDeviceX(end.X), v.ToDeviceY(end.Y+hook))
}
