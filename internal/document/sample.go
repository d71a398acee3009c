package document

import (
	"time"

	"github.com/inamate/engrave/internal/typeid"
)

const (
	headWidth = 180
	stemGap   = 20
)

// NewSampleScore builds a one-staff score that exercises every tuplet shape: a tuplet holding
// a single beam, a beam holding a tuplet, an unbeamed tuplet with uniform stems and an
// unbeamed tuplet with mixed stems, a rest and a nested articulation.
func NewSampleScore(scoreID string) *Score {
	now := time.Now().UTC().Format(time.RFC3339)
	b := &scoreBuilder{score: NewEmptyScore(scoreID, "Tuplet sampler", typeid.New("page"), now)}

	staffID := b.add(b.score.Root, Element{ID: typeid.NewStaffID(), Type: ElementStaff, Staff: &StaffAttrs{Size: 0, Lines: 5}})
	layerID := b.add(staffID, Element{ID: typeid.NewLayerID(), Type: ElementLayer})

	// Triplet over one beam.
	t1 := b.add(layerID, tuplet(3, 2, false))
	beam1 := b.add(t1, Element{ID: typeid.NewBeamID(), Type: ElementBeam})
	b.note(beam1, 1000, 2500, true, 700)
	b.note(beam1, 1600, 2600, true, 660)
	b.note(beam1, 2200, 2700, true, 620)

	// Unbeamed triplet, all stems up, the middle one longest.
	t2 := b.add(layerID, tuplet(3, 2, false))
	b.note(t2, 3200, 2500, true, 700)
	mid := b.note(t2, 3800, 2900, true, 800)
	b.add(mid, Element{ID: typeid.NewAccidID(), Type: ElementAccid})
	b.note(t2, 4400, 2600, true, 700)

	// Quintuplet with stems in both directions and a rest.
	t3 := b.add(layerID, tuplet(5, 4, false))
	b.note(t3, 5400, 2500, true, 700)
	b.rest(t3, 6000, 2700)
	low := b.note(t3, 6600, 2900, false, 700)
	b.add(low, Element{ID: typeid.NewArticID(), Type: ElementArtic})
	b.note(t3, 7200, 3000, false, 700)
	b.note(t3, 7800, 2600, true, 700)

	// Cue-sized triplet nested inside a beam.
	beam2 := b.add(layerID, Element{ID: typeid.NewBeamID(), Type: ElementBeam})
	t4 := b.add(beam2, tuplet(3, 2, true))
	b.note(t4, 9000, 2900, false, 600)
	b.note(t4, 9500, 2800, false, 640)
	b.note(t4, 10000, 2700, false, 680)

	return b.score
}

type scoreBuilder struct {
	score *Score
}

func (b *scoreBuilder) add(parentID string, el Element) string {
	parent := parentID
	el.Parent = &parent
	if el.Children == nil {
		el.Children = []string{}
	}
	b.score.Elements[el.ID] = el

	p := b.score.Elements[parentID]
	p.Children = append(p.Children, el.ID)
	b.score.Elements[parentID] = p
	return el.ID
}

func (b *scoreBuilder) note(parentID string, x, headY int, up bool, stemLen int) string {
	return b.add(parentID, Element{
		ID:       typeid.NewNoteID(),
		Type:     ElementNote,
		Geometry: NoteGeometry(x, headY, up, stemLen),
	})
}

func (b *scoreBuilder) rest(parentID string, x, y int) string {
	return b.add(parentID, Element{
		ID:   typeid.NewRestID(),
		Type: ElementRest,
		Geometry: &Geometry{
			X:         x,
			BBoxX1:    0,
			BBoxX2:    headWidth,
			StemStart: Point{X: x + headWidth/2, Y: y},
			StemEnd:   Point{X: x + headWidth/2, Y: y},
			StemUp:    true,
		},
	})
}

func tuplet(num, numBase int, cue bool) Element {
	return Element{
		ID:     typeid.NewTupletID(),
		Type:   ElementTuplet,
		Tuplet: &TupletAttrs{Num: num, NumBase: numBase, Cue: cue},
	}
}

// NoteGeometry lays out a notehead at (x, headY) with a stem of stemLen. Up stems hang off
// the right edge of the head, down stems off the left edge.
func NoteGeometry(x, headY int, up bool, stemLen int) *Geometry {
	g := &Geometry{X: x, BBoxX1: 0, BBoxX2: headWidth, StemUp: up}
	if up {
		g.StemStart = Point{X: x + headWidth - 10, Y: headY + stemGap}
		g.StemEnd = Point{X: x + headWidth - 10, Y: headY + stemGap + stemLen}
	} else {
		g.StemStart = Point{X: x + 10, Y: headY - stemGap}
		g.StemEnd = Point{X: x + 10, Y: headY - stemGap - stemLen}
	}
	return g
}
