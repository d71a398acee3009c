package collab

import (
	"encoding/json"
	"sync"

	"github.com/inamate/engrave/internal/engine"
	"github.com/inamate/engrave/internal/notation"
)

// ScoreState holds the latest accepted revision of a room's score and its rendering.
type ScoreState struct {
	mu     sync.RWMutex
	doc    json.RawMessage
	render *RenderResultPayload
	seq    int64
	dirty  bool

	engineOpts []engine.Option
}

func NewScoreState(opts ...engine.Option) *ScoreState {
	return &ScoreState{engineOpts: opts}
}

// Apply validates and renders doc. On success it becomes the current revision and the new
// sequence number is returned; on error the state is unchanged.
func (st *ScoreState) Apply(doc json.RawMessage) (int64, *RenderResultPayload, error) {
	result, err := st.renderDocument(doc)
	if err != nil {
		return 0, nil, err
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	st.seq++
	st.doc = append(json.RawMessage(nil), doc...)
	st.render = result
	st.dirty = true
	return st.seq, result, nil
}

// Seed installs a stored revision without marking the state dirty. It is a no-op once the
// room holds a revision.
func (st *ScoreState) Seed(doc json.RawMessage) error {
	result, err := st.renderDocument(doc)
	if err != nil {
		return err
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if st.doc != nil {
		return nil
	}
	st.doc = doc
	st.render = result
	return nil
}

// Current returns the latest revision, its rendering and sequence number.
func (st *ScoreState) Current() (json.RawMessage, *RenderResultPayload, int64) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.doc, st.render, st.seq
}

// TakeDirty returns the current document if it changed since the last call, and clears the
// flag.
func (st *ScoreState) TakeDirty() (json.RawMessage, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if !st.dirty {
		return nil, false
	}
	st.dirty = false
	return st.doc, true
}

// MarkDirty flags the state for saving again, after a failed save.
func (st *ScoreState) MarkDirty() {
	st.mu.Lock()
	st.dirty = true
	st.mu.Unlock()
}

func (st *ScoreState) renderDocument(doc json.RawMessage) (*RenderResultPayload, error) {
	e := engine.NewEngine(st.engineOpts...)
	if err := e.LoadDocument(string(doc)); err != nil {
		return nil, err
	}
	commands, err := e.RenderCommands()
	if err != nil {
		return nil, err
	}

	result := &RenderResultPayload{
		Commands: commands,
		Tuplets:  make(map[string]notation.Coords),
	}
	for _, id := range e.Tuplets() {
		coords, err := e.TupletGeometry(id)
		if err != nil {
			return nil, err
		}
		result.Tuplets[id] = coords
	}
	return result, nil
}
