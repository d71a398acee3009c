package notation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inamate/engrave/internal/document"
)

// fixture builds small score documents with predictable ids.
type fixture struct {
	score *document.Score
	next  int
}

func newFixture() (*fixture, string) {
	f := &fixture{score: &document.Score{Root: "page", Elements: map[string]document.Element{}}}
	f.score.Elements["page"] = document.Element{ID: "page", Type: document.ElementPage}
	staff := f.add("page", document.ElementStaff, nil)
	layer := f.add(staff, document.ElementLayer, nil)
	return f, layer
}

func (f *fixture) add(parent string, typ document.ElementType, g *document.Geometry) string {
	f.next++
	id := fmt.Sprintf("%s%d", typ, f.next)
	p := parent
	f.score.Elements[id] = document.Element{ID: id, Type: typ, Parent: &p, Geometry: g}

	el := f.score.Elements[parent]
	el.Children = append(el.Children, id)
	f.score.Elements[parent] = el
	return id
}

func (f *fixture) tuplet(parent string, num int) string {
	id := f.add(parent, document.ElementTuplet, nil)
	el := f.score.Elements[id]
	el.Tuplet = &document.TupletAttrs{Num: num, NumBase: num - 1}
	f.score.Elements[id] = el
	return id
}

// stem adds a note at x whose stem ends at stemEndY.
func (f *fixture) stem(parent string, x, stemEndY int, up bool) string {
	g := &document.Geometry{X: x, BBoxX1: 0, BBoxX2: 180, StemUp: up}
	if up {
		g.StemStart = document.Point{X: x + 170, Y: stemEndY - 700}
	} else {
		g.StemStart = document.Point{X: x + 10, Y: stemEndY + 700}
	}
	g.StemEnd = document.Point{X: g.StemStart.X, Y: stemEndY}
	return f.add(parent, document.ElementNote, g)
}

func (f *fixture) build(t *testing.T) *Tree {
	t.Helper()
	tree, err := Build(f.score)
	require.NoError(t, err)
	return tree
}

func lookup(t *testing.T, tree *Tree, id string) NodeID {
	t.Helper()
	nid, ok := tree.Lookup(id)
	require.True(t, ok, "no node %s", id)
	return nid
}
