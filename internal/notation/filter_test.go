package notation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inamate/engrave/internal/document"
)

func TestDurationElementsKeepsOnlyNotesAndRests(t *testing.T) {
	f, layer := newFixture()
	tup := f.tuplet(layer, 5)
	beam := f.add(tup, document.ElementBeam, nil)
	n1 := f.stem(beam, 0, 1000, true)
	f.add(n1, document.ElementAccid, nil)
	n2 := f.stem(beam, 600, 1000, true)
	rest := f.add(tup, document.ElementRest, &document.Geometry{X: 1200})
	n3 := f.stem(tup, 1800, 1000, true)
	f.add(n3, document.ElementArtic, nil)

	tree := f.build(t)
	tid := lookup(t, tree, tup)
	before := tree.Len()

	var got []string
	for _, id := range DurationElements(tree, tid) {
		got = append(got, tree.Node(id).ID)
	}
	assert.Equal(t, []string{n1, n2, rest, n3}, got)
	assert.Equal(t, before, tree.Len())
	assert.Len(t, tree.Children(tid), 3, "filtering leaves the tree untouched")
}

func TestDurationElementsOfLeafIsEmpty(t *testing.T) {
	f, layer := newFixture()
	tup := f.tuplet(layer, 3)

	tree := f.build(t)
	assert.Empty(t, DurationElements(tree, lookup(t, tree, tup)))
}

func TestListCacheFollowsGeneration(t *testing.T) {
	f, layer := newFixture()
	tup := f.tuplet(layer, 3)
	f.stem(tup, 0, 1000, true)
	f.stem(tup, 600, 1000, true)

	var cache ListCache
	tree := f.build(t)
	tid := lookup(t, tree, tup)
	assert.Len(t, cache.List(tree, tid), 2)

	f.stem(tup, 1200, 1000, true)
	rebuilt := f.build(t)
	assert.Len(t, cache.List(rebuilt, lookup(t, rebuilt, tup)), 3)

	cache.Reset()
	assert.Len(t, cache.List(tree, tid), 2)
}
