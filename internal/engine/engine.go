package engine

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/inamate/engrave/internal/document"
	"github.com/inamate/engrave/internal/notation"
	"github.com/inamate/engrave/internal/view"
)

var (
	ErrNoDocument    = errors.New("no document loaded")
	ErrUnknownTuplet = errors.New("unknown tuplet")
)

const (
	DefaultPageWidth  = 21000
	DefaultPageHeight = 4000

	// MaxPageFactor bounds a document's page extent to this multiple of the engine's page size.
	MaxPageFactor = 10
)

// Engine owns the current score document and the tree built from it.
// It is not safe for concurrent use; callers needing one per request create one per request.
type Engine struct {
	doc  *document.Score
	tree *notation.Tree

	lists      notation.ListCache
	metrics    view.Metrics
	scale      float64
	pageWidth  int
	pageHeight int
}

type Option func(*Engine)

// WithStaffUnit sets the nominal staff unit the drawing metrics derive from.
func WithStaffUnit(unit int) Option {
	return func(e *Engine) {
		if unit > 0 {
			e.metrics = view.NewMetrics(unit)
		}
	}
}

// WithPixelScale sets the raster resolution in pixels per logical unit.
func WithPixelScale(scale float64) Option {
	return func(e *Engine) {
		if scale > 0 {
			e.scale = scale
		}
	}
}

// WithPageSize sets the page extent used when a document does not carry one.
func WithPageSize(width, height int) Option {
	return func(e *Engine) {
		if width > 0 && height > 0 {
			e.pageWidth, e.pageHeight = width, height
		}
	}
}

// NewEngine creates an engine with no document loaded.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		metrics:    view.NewMetrics(9),
		scale:      0.1,
		pageWidth:  DefaultPageWidth,
		pageHeight: DefaultPageHeight,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// --- Commands ---

// LoadDocument replaces the current document with one decoded from JSON.
func (e *Engine) LoadDocument(jsonData string) error {
	var doc document.Score
	if err := json.Unmarshal([]byte(jsonData), &doc); err != nil {
		return fmt.Errorf("%w: %v", notation.ErrInvalidScore, err)
	}
	return e.LoadScore(&doc)
}

// UpdateDocument swaps in an edited document. The previous document stays loaded when the
// new one is invalid.
func (e *Engine) UpdateDocument(jsonData string) error {
	return e.LoadDocument(jsonData)
}

// LoadScore validates doc and makes it the current document.
func (e *Engine) LoadScore(doc *document.Score) error {
	if w, h := doc.Meta.PageWidth, doc.Meta.PageHeight; w > MaxPageFactor*e.pageWidth || h > MaxPageFactor*e.pageHeight {
		return fmt.Errorf("%w: page %dx%d exceeds %dx%d", notation.ErrInvalidScore,
			w, h, MaxPageFactor*e.pageWidth, MaxPageFactor*e.pageHeight)
	}
	tree, err := notation.Build(doc)
	if err != nil {
		return err
	}
	if err := notation.CheckTuplets(tree); err != nil {
		return err
	}
	e.doc = doc
	e.tree = tree
	e.lists.Reset()
	return nil
}

// LoadSampleDocument loads the built-in sample score.
func (e *Engine) LoadSampleDocument(scoreID string) {
	if err := e.LoadScore(document.NewSampleScore(scoreID)); err != nil {
		panic(fmt.Sprintf("engine: sample score is invalid: %v", err))
	}
}

// --- Queries ---

// Draw runs the render pass onto dc: stems of every layer, then every tuplet in document
// order.
func (e *Engine) Draw(dc view.DeviceContext) error {
	if e.tree == nil {
		return ErrNoDocument
	}
	t := e.tree
	_, height := e.PageSize()
	v := view.New(e.metrics, height)

	for _, staff := range t.OfKind(notation.KindStaff) {
		for _, layer := range t.Children(staff) {
			if t.Kind(layer) == notation.KindLayer {
				view.DrawStems(dc, v, t, layer)
			}
		}
	}
	for _, tuplet := range t.OfKind(notation.KindTuplet) {
		view.DrawTuplet(dc, v, t, tuplet)
	}
	return nil
}

// RenderCommands records the render pass as draw commands.
func (e *Engine) RenderCommands() ([]view.DrawCommand, error) {
	rec := view.NewRecorder()
	if err := e.Draw(rec); err != nil {
		return nil, err
	}
	if commands := rec.Commands(); commands != nil {
		return commands, nil
	}
	return []view.DrawCommand{}, nil
}

// Render returns the draw commands as JSON, or an empty list when nothing is loaded.
func (e *Engine) Render() string {
	commands, err := e.RenderCommands()
	if err != nil {
		return "[]"
	}
	result, _ := view.DrawCommandsToJSON(commands)
	return result
}

// TupletGeometry returns the bracket and numeral placement of the tuplet with the given
// element id.
func (e *Engine) TupletGeometry(id string) (notation.Coords, error) {
	if e.tree == nil {
		return notation.Coords{}, ErrNoDocument
	}
	nid, ok := e.tree.Lookup(id)
	if !ok || e.tree.Kind(nid) != notation.KindTuplet {
		return notation.Coords{}, fmt.Errorf("%w: %q", ErrUnknownTuplet, id)
	}
	return notation.ResolveTuplet(e.tree, nid, e.lists.List(e.tree, nid)), nil
}

// Tuplets lists the ids of every tuplet in document order.
func (e *Engine) Tuplets() []string {
	if e.tree == nil {
		return nil
	}
	ids := e.tree.OfKind(notation.KindTuplet)
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = e.tree.Node(id).ID
	}
	return out
}

// PageSize returns the page extent in logical units, falling back to the engine's page size
// when the document does not set one.
func (e *Engine) PageSize() (width, height int) {
	width, height = e.pageWidth, e.pageHeight
	if e.doc != nil {
		if e.doc.Meta.PageWidth > 0 {
			width = e.doc.Meta.PageWidth
		}
		if e.doc.Meta.PageHeight > 0 {
			height = e.doc.Meta.PageHeight
		}
	}
	return width, height
}

// Score returns the current document, or nil.
func (e *Engine) Score() *document.Score {
	return e.doc
}

// GetDocument returns the full document as JSON.
func (e *Engine) GetDocument() string {
	if e.doc == nil {
		return "{}"
	}
	data, _ := json.Marshal(e.doc)
	return string(data)
}
