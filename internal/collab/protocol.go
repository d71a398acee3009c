package collab

import (
	"encoding/json"

	"github.com/inamate/engrave/internal/notation"
	"github.com/inamate/engrave/internal/view"
)

type Message struct {
	Type     string          `json:"type"`
	ScoreID  string          `json:"scoreId,omitempty"`
	ClientID string          `json:"clientId,omitempty"`
	Seq      int64           `json:"seq,omitempty"`
	Payload  json.RawMessage `json:"payload"`
}

const (
	// Connection
	TypeWelcome = "welcome"
	TypeError   = "error"

	// Score editing
	TypeScoreUpdate  = "score.update"
	TypeScoreSave    = "score.save"
	TypeScoreSaved   = "score.saved"
	TypeRenderResult = "render.result"

	// Who is looking at what
	TypePresenceUpdate = "presence.update"
	TypePresenceState  = "presence.state"
	TypePresenceJoin   = "presence.join"
	TypePresenceLeave  = "presence.leave"
)

type WelcomePayload struct {
	ClientID string `json:"clientId"`
	Seq      int64  `json:"seq"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// RenderResultPayload carries the draw commands of one accepted score revision, plus the
// resolved placement of each tuplet keyed by element id.
type RenderResultPayload struct {
	Commands []view.DrawCommand         `json:"commands"`
	Tuplets  map[string]notation.Coords `json:"tuplets"`
}

type ScoreSavedPayload struct {
	Version int `json:"version"`
}

type PresencePayload struct {
	ClientID  string   `json:"clientId,omitempty"`
	Name      string   `json:"name,omitempty"`
	Selection []string `json:"selection,omitempty"`
}

type PresenceStatePayload struct {
	Viewers []PresencePayload `json:"viewers"`
}
