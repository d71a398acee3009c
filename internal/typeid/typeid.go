package typeid

import (
	"fmt"

	"go.jetify.com/typeid/v2"
)

const (
	PrefixScore    = "score"
	PrefixSnapshot = "snap"
	PrefixStaff    = "staff"
	PrefixLayer    = "layer"
	PrefixNote     = "note"
	PrefixRest     = "rest"
	PrefixBeam     = "beam"
	PrefixTuplet   = "tuplet"
	PrefixAccid    = "accid"
	PrefixArtic    = "artic"
	PrefixDot      = "dot"
)

func New(prefix string) string {
	id := typeid.MustGenerate(prefix)
	return id.String()
}

func NewScoreID() string    { return New(PrefixScore) }
func NewSnapshotID() string { return New(PrefixSnapshot) }
func NewStaffID() string    { return New(PrefixStaff) }
func NewLayerID() string    { return New(PrefixLayer) }
func NewNoteID() string     { return New(PrefixNote) }
func NewRestID() string     { return New(PrefixRest) }
func NewBeamID() string     { return New(PrefixBeam) }
func NewTupletID() string   { return New(PrefixTuplet) }
func NewAccidID() string    { return New(PrefixAccid) }
func NewArticID() string    { return New(PrefixArtic) }

func Validate(id, expectedPrefix string) error {
	parsed, err := typeid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid typeid %q: %w", id, err)
	}
	if parsed.Prefix() != expectedPrefix {
		return fmt.Errorf("expected prefix %q but got %q in id %q", expectedPrefix, parsed.Prefix(), id)
	}
	return nil
}
