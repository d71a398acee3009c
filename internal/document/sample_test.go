package document

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleScoreLinksParentsAndChildren(t *testing.T) {
	s := NewSampleScore("score_sample")

	root, ok := s.Elements[s.Root]
	require.True(t, ok)
	assert.Equal(t, ElementPage, root.Type)
	assert.Nil(t, root.Parent)

	tuplets := 0
	for id, el := range s.Elements {
		if el.Type == ElementTuplet {
			tuplets++
			require.NotNil(t, el.Tuplet)
		}
		for _, childID := range el.Children {
			child, ok := s.Elements[childID]
			require.True(t, ok, "dangling child %s of %s", childID, id)
			require.NotNil(t, child.Parent)
			assert.Equal(t, id, *child.Parent)
		}
		if el.Type == ElementNote || el.Type == ElementRest {
			assert.NotNil(t, el.Geometry, "duration element %s has no geometry", id)
		}
	}
	assert.Equal(t, 4, tuplets)
}

func TestSampleScoreRoundTripsThroughJSON(t *testing.T) {
	s := NewSampleScore("score_sample")

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var back Score
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, s.Root, back.Root)
	assert.Len(t, back.Elements, len(s.Elements))
}

func TestNoteGeometryStemSides(t *testing.T) {
	up := NoteGeometry(1000, 2500, true, 700)
	assert.Equal(t, Point{X: 1170, Y: 2520}, up.StemStart)
	assert.Equal(t, Point{X: 1170, Y: 3220}, up.StemEnd)

	down := NoteGeometry(1000, 2500, false, 700)
	assert.Equal(t, Point{X: 1010, Y: 2480}, down.StemStart)
	assert.Equal(t, Point{X: 1010, Y: 1780}, down.StemEnd)
	assert.False(t, down.StemUp)
}
