package notation

import (
	"fmt"
	"math"
)

// TupletOffset is the clearance kept between a stem end and the tuplet bracket or numeral.
const TupletOffset = 25 * DefinitionFactor

// Coords locates a tuplet bracket and numeral. A zero Start and End mean no bracket is drawn.
// Up is true when the bracket sits above the notes.
type Coords struct {
	Start  Point `json:"start"`
	End    Point `json:"end"`
	Center Point `json:"center"`
	Up     bool  `json:"up"`
}

// BracketSuppressed reports whether the coordinates ask for a numeral only.
func (c Coords) BracketSuppressed() bool {
	return c.Start.X <= 0
}

// GetTupletCoordinates computes bracket and numeral placement for a tuplet from the geometry
// of its notes and rests.
//
// A tuplet under a single beam only needs its numeral, centred between the first and last stem.
// Otherwise the notes are treated as unbeamed. When all stems point the same way the bracket
// follows the slope from the first to the last stem end and is pushed away from the notes until
// neither its centre nor the line at any note's x crosses a stem. When stems are mixed the bracket goes on the side most stems point to (up on a tie),
// level with the furthest of those stems.
func GetTupletCoordinates(t *Tree, tuplet NodeID) Coords {
	return ResolveTuplet(t, tuplet, DurationElements(t, tuplet))
}

// ResolveTuplet is GetTupletCoordinates over an already filtered element list.
func ResolveTuplet(t *Tree, tuplet NodeID, elems []NodeID) Coords {
	if len(elems) == 0 {
		panic(fmt.Sprintf("notation: tuplet %s has no notes or rests", t.Node(tuplet).ID))
	}
	first := geometryOf(t, elems[0])
	last := geometryOf(t, elems[len(elems)-1])

	if OneBeamInTuplet(t, tuplet) {
		y := last.StemEnd.Y + (first.StemEnd.Y-last.StemEnd.Y)/2
		if first.StemUp {
			y += TupletOffset
		} else {
			y -= TupletOffset
		}
		return Coords{
			Center: Point{
				X: first.StemStart.X + (last.StemStart.X-first.StemStart.X)/2,
				Y: y,
			},
			Up: first.StemUp,
		}
	}

	var c Coords
	c.Center.X = first.X + (last.X-first.X+last.BBoxX2)/2
	c.Start.X = first.BBoxX1 + first.X
	c.End.X = last.BBoxX2 + last.X

	ups, downs := 0, 0
	for _, e := range elems {
		if geometryOf(t, e).StemUp {
			ups++
		} else {
			downs++
		}
	}
	c.Up = ups >= downs

	if ups == 0 || downs == 0 {
		off := clearance(c.Up)
		c.Center.Y = last.StemEnd.Y + (first.StemEnd.Y-last.StemEnd.Y)/2 + off
		c.Start.Y = first.StemEnd.Y + off
		c.End.Y = last.StemEnd.Y + off
		for _, e := range elems {
			g := geometryOf(t, e)
			need := g.StemEnd.Y + off
			shift := protrusion(c.Up, need, float64(c.Center.Y))
			for _, x := range [2]int{g.X, g.StemEnd.X} {
				shift = max(shift, protrusion(c.Up, need, c.lineAt(x)))
			}
			if c.Up {
				c.shift(shift)
			} else {
				c.shift(-shift)
			}
		}
		return c
	}

	found := false
	var y int
	for _, e := range elems {
		g := geometryOf(t, e)
		if g.StemUp != c.Up {
			// Opposing stems are not taken into account yet.
			continue
		}
		end := g.StemEnd.Y + clearance(c.Up)
		if !found || c.Up && end > y || !c.Up && end < y {
			y = end
			found = true
		}
	}
	c.Center.Y = y
	c.Start.Y = y
	c.End.Y = y
	return c
}

// lineAt evaluates the bracket line at x. A vertical bracket evaluates to its start.
func (c Coords) lineAt(x int) float64 {
	dx := c.End.X - c.Start.X
	if dx == 0 {
		return float64(c.Start.Y)
	}
	return float64(c.Start.Y) + float64(c.End.Y-c.Start.Y)*float64(x-c.Start.X)/float64(dx)
}

func (c *Coords) shift(dy int) {
	c.Start.Y += dy
	c.End.Y += dy
	c.Center.Y += dy
}

// protrusion is how far need lies beyond y on the side away from the notes, zero when it does not.
func protrusion(up bool, need int, y float64) int {
	var d float64
	if up {
		d = float64(need) - y
	} else {
		d = y - float64(need)
	}
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d))
}

func clearance(up bool) int {
	if up {
		return TupletOffset
	}
	return -TupletOffset
}

func geometryOf(t *Tree, id NodeID) *Geometry {
	n := t.Node(id)
	if n.Geometry == nil {
		panic(fmt.Sprintf("notation: %s %s has no layout geometry", n.Kind, n.ID))
	}
	return n.Geometry
}

// CheckTuplets verifies the drawing preconditions of every tuplet: it sits on a staff and in a
// layer, and has at least one note or rest, each with layout geometry.
func CheckTuplets(t *Tree) error {
	for _, id := range t.OfKind(KindTuplet) {
		n := t.Node(id)
		if _, ok := t.FirstAncestor(id, KindStaff, -1); !ok {
			return fmt.Errorf("%w: tuplet %q is not on a staff", ErrInvalidScore, n.ID)
		}
		if _, ok := t.FirstAncestor(id, KindLayer, -1); !ok {
			return fmt.Errorf("%w: tuplet %q is not in a layer", ErrInvalidScore, n.ID)
		}
		elems := DurationElements(t, id)
		if len(elems) == 0 {
			return fmt.Errorf("%w: tuplet %q has no notes or rests", ErrInvalidScore, n.ID)
		}
		for _, e := range elems {
			if t.Node(e).Geometry == nil {
				return fmt.Errorf("%w: %s %q in tuplet %q has no geometry", ErrInvalidScore, t.Kind(e), t.Node(e).ID, n.ID)
			}
		}
	}
	return nil
}
