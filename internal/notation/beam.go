package notation

// MaxBeamDepth bounds the ancestor search for an enclosing beam.
const MaxBeamDepth = 5

// OneBeamInTuplet reports whether every note of the tuplet sits under a single beam: either
// the tuplet itself is inside a beam, or its only child is a beam. Such a tuplet gets its
// numeral centred on the stems and no bracket.
func OneBeamInTuplet(t *Tree, tuplet NodeID) bool {
	children := t.Children(tuplet)

	if _, ok := t.FirstAncestor(tuplet, KindBeam, MaxBeamDepth); ok && len(children) > 0 {
		return true
	}

	return len(children) == 1 && t.Kind(children[0]) == KindBeam
}
