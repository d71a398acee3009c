package document

// Score is the JSON document model of an engraved score. Elements live in a flat map keyed by
// id; the hierarchy is expressed through ordered child id lists plus a parent back-reference.
type Score struct {
	Meta     Meta               `json:"meta"`
	Root     string             `json:"root"`
	Elements map[string]Element `json:"elements"`
}

type Meta struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Version    int    `json:"version"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
	PageWidth  int    `json:"pageWidth"`
	PageHeight int    `json:"pageHeight"`
}

type ElementType string

const (
	ElementPage   ElementType = "Page"
	ElementStaff  ElementType = "Staff"
	ElementLayer  ElementType = "Layer"
	ElementNote   ElementType = "Note"
	ElementRest   ElementType = "Rest"
	ElementBeam   ElementType = "Beam"
	ElementTuplet ElementType = "Tuplet"
	ElementAccid  ElementType = "Accid"
	ElementArtic  ElementType = "Artic"
	ElementDot    ElementType = "Dot"
)

// Point is a position in logical units (ten times the nominal unit, y grows upwards).
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Geometry is the layout already computed for a note or rest by earlier passes.
// BBoxX1 and BBoxX2 are relative to X.
type Geometry struct {
	X         int   `json:"x"`
	BBoxX1    int   `json:"bboxX1"`
	BBoxX2    int   `json:"bboxX2"`
	StemStart Point `json:"stemStart"`
	StemEnd   Point `json:"stemEnd"`
	StemUp    bool  `json:"stemUp"`
}

type TupletAttrs struct {
	Num     int  `json:"num"`
	NumBase int  `json:"numBase"`
	Cue     bool `json:"cue"`
}

type StaffAttrs struct {
	// Size indexes the drawing metrics: 0 normal, 1 small.
	Size  int `json:"size"`
	Lines int `json:"lines"`
}

type Element struct {
	ID       string       `json:"id"`
	Type     ElementType  `json:"type"`
	Parent   *string      `json:"parent"`
	Children []string     `json:"children"`
	Geometry *Geometry    `json:"geometry,omitempty"`
	Tuplet   *TupletAttrs `json:"tuplet,omitempty"`
	Staff    *StaffAttrs  `json:"staff,omitempty"`
}

// NewEmptyScore creates a score holding only its page root.
func NewEmptyScore(scoreID, title, rootID, createdAt string) *Score {
	return &Score{
		Meta: Meta{
			ID:         scoreID,
			Title:      title,
			Version:    1,
			CreatedAt:  createdAt,
			UpdatedAt:  createdAt,
			PageWidth:  21000,
			PageHeight: 4000,
		},
		Root: rootID,
		Elements: map[string]Element{
			rootID: {
				ID:       rootID,
				Type:     ElementPage,
				Children: []string{},
			},
		},
	}
}
