package notation

// DurationElements returns the notes and rests below id in document order. Other
// descendants are skipped but still walked, so notes under a beam are included.
func DurationElements(t *Tree, id NodeID) []NodeID {
	var out []NodeID
	var walk func(NodeID)
	walk = func(n NodeID) {
		for _, c := range t.Children(n) {
			if t.Kind(c).HasDuration() {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(id)
	return out
}

// ListCache memoizes DurationElements per node. Entries are dropped as soon as it is used
// with a tree of another generation.
type ListCache struct {
	generation uint64
	lists      map[NodeID][]NodeID
}

func (c *ListCache) List(t *Tree, id NodeID) []NodeID {
	if c.lists == nil || c.generation != t.Generation() {
		c.generation = t.Generation()
		c.lists = make(map[NodeID][]NodeID)
	}
	if l, ok := c.lists[id]; ok {
		return l
	}
	l := DurationElements(t, id)
	c.lists[id] = l
	return l
}

// Reset empties the cache.
func (c *ListCache) Reset() {
	c.lists = nil
	c.generation = 0
}
