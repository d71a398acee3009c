package notation

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/inamate/engrave/internal/document"
)

// DefinitionFactor scales nominal units into the integer logical units used for layout.
const DefinitionFactor = 10

var ErrInvalidScore = errors.New("invalid score")

// Kind tags a node of the tree.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindPage
	KindStaff
	KindLayer
	KindNote
	KindRest
	KindBeam
	KindTuplet
	KindAccid
	KindArtic
	KindDot
)

var kindNames = [...]string{
	KindUnknown: "unknown",
	KindPage:    "page",
	KindStaff:   "staff",
	KindLayer:   "layer",
	KindNote:    "note",
	KindRest:    "rest",
	KindBeam:    "beam",
	KindTuplet:  "tuplet",
	KindAccid:   "accid",
	KindArtic:   "artic",
	KindDot:     "dot",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// HasDuration reports whether elements of this kind take up musical time.
func (k Kind) HasDuration() bool {
	return k == KindNote || k == KindRest
}

func kindOf(t document.ElementType) Kind {
	switch t {
	case document.ElementPage:
		return KindPage
	case document.ElementStaff:
		return KindStaff
	case document.ElementLayer:
		return KindLayer
	case document.ElementNote:
		return KindNote
	case document.ElementRest:
		return KindRest
	case document.ElementBeam:
		return KindBeam
	case document.ElementTuplet:
		return KindTuplet
	case document.ElementAccid:
		return KindAccid
	case document.ElementArtic:
		return KindArtic
	case document.ElementDot:
		return KindDot
	default:
		return KindUnknown
	}
}

// Point is a position in logical units.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Geometry is the precomputed layout of a duration element. BBoxX1/BBoxX2 are relative to X.
type Geometry struct {
	X         int
	BBoxX1    int
	BBoxX2    int
	StemStart Point
	StemEnd   Point
	StemUp    bool
}

type TupletAttrs struct {
	Num     int
	NumBase int
	Cue     bool
}

// NodeID indexes a node in its Tree. NoNode marks the absence of a node.
type NodeID int32

const NoNode NodeID = -1

type Node struct {
	ID        string
	Kind      Kind
	Geometry  *Geometry
	Tuplet    TupletAttrs
	StaffSize int

	// parent is a back-reference only; ownership runs through children.
	parent   NodeID
	children []NodeID
}

// Tree is an arena holding the notational hierarchy of one score.
type Tree struct {
	nodes      []Node
	byID       map[string]NodeID
	root       NodeID
	generation uint64
}

var generations atomic.Uint64

// Build converts a score document into a tree, checking that the hierarchy is consistent.
func Build(score *document.Score) (*Tree, error) {
	if score == nil {
		return nil, fmt.Errorf("%w: nil score", ErrInvalidScore)
	}
	if _, ok := score.Elements[score.Root]; !ok {
		return nil, fmt.Errorf("%w: root %q not found", ErrInvalidScore, score.Root)
	}

	t := &Tree{
		nodes:      make([]Node, 0, len(score.Elements)),
		byID:       make(map[string]NodeID, len(score.Elements)),
		generation: generations.Add(1),
	}

	root, err := t.add(score, score.Root, NoNode)
	if err != nil {
		return nil, err
	}
	t.root = root
	return t, nil
}

func (t *Tree) add(score *document.Score, id string, parent NodeID) (NodeID, error) {
	el, ok := score.Elements[id]
	if !ok {
		return NoNode, fmt.Errorf("%w: element %q not found", ErrInvalidScore, id)
	}
	if _, seen := t.byID[id]; seen {
		return NoNode, fmt.Errorf("%w: element %q reached twice", ErrInvalidScore, id)
	}
	if parent != NoNode {
		parentID := t.nodes[parent].ID
		if el.Parent == nil || *el.Parent != parentID {
			return NoNode, fmt.Errorf("%w: element %q does not name %q as parent", ErrInvalidScore, id, parentID)
		}
	}

	kind := kindOf(el.Type)
	if kind == KindUnknown {
		return NoNode, fmt.Errorf("%w: element %q has unknown type %q", ErrInvalidScore, id, el.Type)
	}

	n := Node{ID: id, Kind: kind, parent: parent}
	if g := el.Geometry; g != nil {
		n.Geometry = &Geometry{
			X:         g.X,
			BBoxX1:    g.BBoxX1,
			BBoxX2:    g.BBoxX2,
			StemStart: Point{X: g.StemStart.X, Y: g.StemStart.Y},
			StemEnd:   Point{X: g.StemEnd.X, Y: g.StemEnd.Y},
			StemUp:    g.StemUp,
		}
	}
	if el.Tuplet != nil {
		n.Tuplet = TupletAttrs{Num: el.Tuplet.Num, NumBase: el.Tuplet.NumBase, Cue: el.Tuplet.Cue}
	}
	if el.Staff != nil {
		if el.Staff.Size < 0 || el.Staff.Size > 1 {
			return NoNode, fmt.Errorf("%w: staff %q has size %d", ErrInvalidScore, id, el.Staff.Size)
		}
		n.StaffSize = el.Staff.Size
	}

	nid := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, n)
	t.byID[id] = nid

	for _, childID := range el.Children {
		child, err := t.add(score, childID, nid)
		if err != nil {
			return NoNode, err
		}
		t.nodes[nid].children = append(t.nodes[nid].children, child)
	}
	return nid, nil
}

// Generation identifies this build of the tree; every Build returns a new value.
func (t *Tree) Generation() uint64 { return t.generation }

func (t *Tree) Root() NodeID { return t.root }

func (t *Tree) Len() int { return len(t.nodes) }

func (t *Tree) Node(id NodeID) *Node { return &t.nodes[id] }

func (t *Tree) Kind(id NodeID) Kind { return t.nodes[id].Kind }

func (t *Tree) Parent(id NodeID) NodeID { return t.nodes[id].parent }

// Children returns the direct children of id in document order. The slice must not be modified.
func (t *Tree) Children(id NodeID) []NodeID { return t.nodes[id].children }

func (t *Tree) Lookup(id string) (NodeID, bool) {
	nid, ok := t.byID[id]
	return nid, ok
}

// FirstAncestor walks up from id, at most maxDepth steps (unbounded when negative), and
// returns the first ancestor of the given kind.
func (t *Tree) FirstAncestor(id NodeID, kind Kind, maxDepth int) (NodeID, bool) {
	for p, depth := t.nodes[id].parent, 1; p != NoNode; p, depth = t.nodes[p].parent, depth+1 {
		if maxDepth >= 0 && depth > maxDepth {
			break
		}
		if t.nodes[p].Kind == kind {
			return p, true
		}
	}
	return NoNode, false
}

// OfKind lists every node of the given kind in document order.
func (t *Tree) OfKind(kind Kind) []NodeID {
	var out []NodeID
	// nodes are appended in pre-order, so index order is document order
	for i := range t.nodes {
		if t.nodes[i].Kind == kind {
			out = append(out, NodeID(i))
		}
	}
	return out
}
