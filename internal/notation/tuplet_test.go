package notation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/engrave/internal/document"
)

func TestCoordinatesSingleBeamUp(t *testing.T) {
	f, layer := newFixture()
	tup := f.tuplet(layer, 3)
	beam := f.add(tup, document.ElementBeam, nil)
	f.stem(beam, 0, 1000, true)
	f.stem(beam, 300, 1200, true)
	f.stem(beam, 600, 1100, true)

	tree := f.build(t)
	c := GetTupletCoordinates(tree, lookup(t, tree, tup))

	assert.True(t, c.BracketSuppressed())
	assert.Equal(t, Point{}, c.Start)
	assert.Equal(t, Point{}, c.End)
	assert.Equal(t, Point{X: 470, Y: 1300}, c.Center)
	assert.True(t, c.Up)
}

func TestCoordinatesSingleBeamDown(t *testing.T) {
	f, layer := newFixture()
	beam := f.add(layer, document.ElementBeam, nil)
	tup := f.tuplet(beam, 3)
	f.stem(tup, 0, 500, false)
	f.stem(tup, 300, 450, false)
	f.stem(tup, 600, 400, false)

	tree := f.build(t)
	c := GetTupletCoordinates(tree, lookup(t, tree, tup))

	assert.Equal(t, Point{}, c.Start)
	assert.Equal(t, Point{}, c.End)
	assert.Equal(t, Point{X: 310, Y: 200}, c.Center)
	assert.False(t, c.Up)
}

func TestCoordinatesUniformUpClearsEveryStem(t *testing.T) {
	f, layer := newFixture()
	tup := f.tuplet(layer, 3)
	f.stem(tup, 1000, 100, true)
	f.stem(tup, 1600, 140, true)

	tree := f.build(t)
	c := GetTupletCoordinates(tree, lookup(t, tree, tup))

	// The line runs 350 to 390 with its centre at 370; the second stem needs 390 there.
	assert.Equal(t, Point{X: 1000, Y: 370}, c.Start)
	assert.Equal(t, Point{X: 1780, Y: 410}, c.End)
	assert.Equal(t, Point{X: 1390, Y: 390}, c.Center)
	assert.True(t, c.Up)
}

func TestCoordinatesUniformDown(t *testing.T) {
	f, layer := newFixture()
	tup := f.tuplet(layer, 3)
	f.stem(tup, 0, 500, false)
	f.stem(tup, 600, 300, false)
	f.stem(tup, 1200, 450, false)

	tree := f.build(t)
	c := GetTupletCoordinates(tree, lookup(t, tree, tup))

	// The line starts at 250 and 200 and drops until it is below 50 at x=600.
	assert.False(t, c.Up)
	assert.Equal(t, Point{X: 0, Y: 71}, c.Start)
	assert.Equal(t, Point{X: 1380, Y: 21}, c.End)
	assert.Equal(t, 46, c.Center.Y)
}

func TestCoordinatesUniformKeepsSlope(t *testing.T) {
	f, layer := newFixture()
	tup := f.tuplet(layer, 4)
	f.stem(tup, 0, 100, true)
	f.stem(tup, 600, 150, true)
	f.stem(tup, 1200, 200, true)
	f.stem(tup, 1800, 400, true)

	tree := f.build(t)
	c := GetTupletCoordinates(tree, lookup(t, tree, tup))

	// The last stem lifts the centre from 500 to 650 and the whole line with it.
	assert.Equal(t, 300, c.End.Y-c.Start.Y)
	assert.Equal(t, Point{X: 0, Y: 500}, c.Start)
	assert.Equal(t, Point{X: 1980, Y: 800}, c.End)
	assert.Equal(t, 650, c.Center.Y)
}

// bracketAt interpolates the bracket line between start and end at x.
func bracketAt(c Coords, x int) float64 {
	if c.End.X == c.Start.X {
		return float64(c.Start.Y)
	}
	return float64(c.Start.Y) + float64(c.End.Y-c.Start.Y)*float64(x-c.Start.X)/float64(c.End.X-c.Start.X)
}

func TestCoordinatesUniformNeverCrossesStems(t *testing.T) {
	tests := []struct {
		name  string
		up    bool
		stems []int
	}{
		{"up rising", true, []int{100, 200, 300, 400}},
		{"up peak in the middle", true, []int{100, 900, 120}},
		{"up early step", true, []int{100, 380, 440, 500}},
		{"up valley", true, []int{800, 100, 100, 700}},
		{"down falling", false, []int{900, 700, 500, 300}},
		{"down dip in the middle", false, []int{900, 100, 880}},
		{"down late drop", false, []int{900, 880, 860, 100, 850}},
		{"two notes", false, []int{300, 300}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, layer := newFixture()
			tup := f.tuplet(layer, len(tt.stems))
			xs := make([]int, len(tt.stems))
			for i, y := range tt.stems {
				xs[i] = i * 600
				f.stem(tup, xs[i], y, tt.up)
			}

			tree := f.build(t)
			c := GetTupletCoordinates(tree, lookup(t, tree, tup))

			require.Equal(t, tt.up, c.Up)
			first, last := tt.stems[0], tt.stems[len(tt.stems)-1]
			assert.Equal(t, last-first, c.End.Y-c.Start.Y, "slope follows the outer stems")
			for i, y := range tt.stems {
				at := bracketAt(c, xs[i])
				if tt.up {
					assert.GreaterOrEqual(t, at, float64(y+TupletOffset), "note %d", i)
					assert.GreaterOrEqual(t, c.Center.Y, y+TupletOffset, "note %d", i)
				} else {
					assert.LessOrEqual(t, at, float64(y-TupletOffset), "note %d", i)
					assert.LessOrEqual(t, c.Center.Y, y-TupletOffset, "note %d", i)
				}
			}
		})
	}
}

func TestCoordinatesMixedTieGoesUp(t *testing.T) {
	f, layer := newFixture()
	tup := f.tuplet(layer, 2)
	f.stem(tup, 0, 200, true)
	f.stem(tup, 600, 300, false)

	tree := f.build(t)
	c := GetTupletCoordinates(tree, lookup(t, tree, tup))

	assert.True(t, c.Up)
	assert.Equal(t, 450, c.Start.Y)
	assert.Equal(t, 450, c.End.Y)
	assert.Equal(t, 450, c.Center.Y)
}

func TestCoordinatesMixedDownMajority(t *testing.T) {
	f, layer := newFixture()
	tup := f.tuplet(layer, 3)
	f.stem(tup, 0, 300, false)
	f.stem(tup, 600, 100, false)
	f.stem(tup, 1200, 900, true)

	tree := f.build(t)
	c := GetTupletCoordinates(tree, lookup(t, tree, tup))

	assert.False(t, c.Up)
	assert.Equal(t, -150, c.Center.Y)
	assert.Equal(t, c.Center.Y, c.Start.Y)
	assert.Equal(t, c.Center.Y, c.End.Y)
	assert.Equal(t, 0, c.Start.X)
	assert.Equal(t, 1380, c.End.X)
}

func TestCoordinatesMixedIgnoresOpposingStems(t *testing.T) {
	f, layer := newFixture()
	tup := f.tuplet(layer, 3)
	f.stem(tup, 0, 1000, true)
	f.stem(tup, 600, 1100, true)
	// A down stem whose note sits far above the bracket is not compensated for.
	f.stem(tup, 1200, 5000, false)

	tree := f.build(t)
	c := GetTupletCoordinates(tree, lookup(t, tree, tup))

	assert.True(t, c.Up)
	assert.Equal(t, 1350, c.Center.Y)
}

func TestCoordinatesAreIdempotent(t *testing.T) {
	f, layer := newFixture()
	tup := f.tuplet(layer, 3)
	f.stem(tup, 0, 800, true)
	f.stem(tup, 600, 300, false)
	f.stem(tup, 1200, 700, true)

	tree := f.build(t)
	tid := lookup(t, tree, tup)

	assert.Equal(t, GetTupletCoordinates(tree, tid), GetTupletCoordinates(tree, tid))

	var cache ListCache
	assert.Equal(t, GetTupletCoordinates(tree, tid), ResolveTuplet(tree, tid, cache.List(tree, tid)))
}

func TestCoordinatesContractViolationsPanic(t *testing.T) {
	f, layer := newFixture()
	empty := f.tuplet(layer, 3)
	bare := f.tuplet(layer, 3)
	f.add(bare, document.ElementNote, nil)

	tree := f.build(t)

	assert.Panics(t, func() { GetTupletCoordinates(tree, lookup(t, tree, empty)) })
	assert.Panics(t, func() { GetTupletCoordinates(tree, lookup(t, tree, bare)) })
}

func TestCheckTuplets(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		f, layer := newFixture()
		tup := f.tuplet(layer, 3)
		f.stem(tup, 0, 1000, true)
		assert.NoError(t, CheckTuplets(f.build(t)))
	})

	t.Run("empty tuplet", func(t *testing.T) {
		f, layer := newFixture()
		f.tuplet(layer, 3)
		assert.ErrorIs(t, CheckTuplets(f.build(t)), ErrInvalidScore)
	})

	t.Run("missing geometry", func(t *testing.T) {
		f, layer := newFixture()
		tup := f.tuplet(layer, 3)
		f.add(tup, document.ElementRest, nil)
		err := CheckTuplets(f.build(t))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no geometry")
	})

	t.Run("outside a staff", func(t *testing.T) {
		f, _ := newFixture()
		layer := f.add("page", document.ElementLayer, nil)
		tup := f.tuplet(layer, 3)
		f.stem(tup, 0, 1000, true)
		err := CheckTuplets(f.build(t))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not on a staff")
	})
}
