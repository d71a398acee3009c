package view

import "github.com/inamate/engrave/internal/notation"

// MusicFontFamily is the SMuFL font the tuplet figures are set in.
const MusicFontFamily = "Leipzig"

// Metrics holds the drawing sizes derived from the staff unit. The first index is the staff
// size (0 normal, 1 small), the second the cue flag.
type Metrics struct {
	DrawingUnit   [2]int
	AccidWidth    [2][2]int
	MusicFontSize [2][2]int
	StemWidth     int
}

// NewMetrics derives drawing sizes from a nominal staff unit. Small staves and cue notes
// are drawn at three quarters of the size.
func NewMetrics(staffUnit int) Metrics {
	var m Metrics
	m.DrawingUnit[0] = staffUnit * notation.DefinitionFactor
	m.DrawingUnit[1] = m.DrawingUnit[0] * 3 / 4
	for i := range 2 {
		m.AccidWidth[i][0] = m.DrawingUnit[i] * 2
		m.AccidWidth[i][1] = m.AccidWidth[i][0] * 3 / 4
		m.MusicFontSize[i][0] = m.DrawingUnit[i] * 8
		m.MusicFontSize[i][1] = m.MusicFontSize[i][0] * 3 / 4
	}
	m.StemWidth = m.DrawingUnit[0] / 5
	return m
}

func (m Metrics) MusicFont(staffSize int, cue bool) Font {
	return Font{Family: MusicFontFamily, Size: m.MusicFontSize[staffSize][cueIndex(cue)]}
}

func cueIndex(cue bool) int {
	if cue {
		return 1
	}
	return 0
}
