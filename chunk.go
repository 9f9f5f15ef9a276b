package ibl

// Attr is one (name, value) pair of a chunk's attribute tuple.
type Attr struct {
	Name  string
	Value Value
}

// Chunk is a stored (attribute tuple, utility) observation together with
// its temporal bookkeeping (spec.md §3). Two occurrences with identical
// attributes and identical utility collapse into the same Chunk; each
// occurrence contributes one reference time (or, under optimized
// learning, one increment of Count).
type Chunk struct {
	// ID is a stable, monotonically assigned integer identifying this
	// chunk for the lifetime of the store.
	ID int

	// Attrs is the canonical attribute tuple, in schema-declared order.
	// It excludes _utility, which is carried separately in Utility.
	Attrs []Attr

	// Utility is the chunk's _utility value. Always a finite real.
	Utility float64

	// Created is the clock value at first insertion.
	Created int64

	// References holds the clock value of every occurrence, including
	// creation, in insertion order. Empty when Optimized is true — in
	// that mode only Created and Count are tracked.
	References []int64

	// Count is the number of occurrences, tracked directly instead of
	// via References when Optimized is true.
	Count int64

	// Optimized records whether this chunk was created while the
	// agent's optimized_learning parameter was enabled. Fixed at
	// creation: a chunk never migrates between the two bookkeeping
	// modes, so a single store can hold both kinds at once during a
	// transition window (though SPEC_FULL.md forbids that transition
	// once multi-reference chunks exist — see DESIGN.md).
	Optimized bool

	// prepopulated marks chunks inserted via populate/populate_at
	// before the store observed its first non-prepopulation event.
	// Consulted only by Clear(preservePrepopulated=true).
	prepopulated bool

	// prepopRefs snapshots the reference times this chunk had at the
	// moment it became (or last remained) prepopulated; Clear restores
	// to this snapshot rather than to whatever References grew to.
	prepopRefs []int64
}

// RefCount returns the number of occurrences recorded for the chunk,
// whichever bookkeeping mode it uses.
func (c *Chunk) RefCount() int64 {
	if c.Optimized {
		return c.Count
	}
	return int64(len(c.References))
}

// LastReference returns the most recent reference time, or Created if
// the chunk has no explicit reference history (optimized mode).
func (c *Chunk) LastReference() int64 {
	if c.Optimized || len(c.References) == 0 {
		return c.Created
	}
	return c.References[len(c.References)-1]
}

// key identifies a chunk by its full (attrs, utility) tuple. Attribute
// order is canonical (schema order), so two chunks collapse iff this
// key matches exactly.
type chunkKey string

func makeChunkKey(attrs []Attr, utility float64) chunkKey {
	// A simple, deterministic textual encoding. Collisions across
	// distinct Kinds that happen to format identically are avoided by
	// including the Kind tag for every attribute.
	var buf []byte
	buf = append(buf, 'u', ':')
	buf = appendFloat(buf, utility)
	for _, a := range attrs {
		buf = append(buf, '|')
		buf = append(buf, a.Name...)
		buf = append(buf, ':')
		buf = append(buf, byte('0'+int(a.Value.Kind())))
		buf = append(buf, ':')
		buf = appendAny(buf, a.Value.Any())
	}
	return chunkKey(buf)
}

// ChunkSnapshot is a read-only view of a chunk returned by Agent.Instances,
// decoupled from the store's internal pointer so callers cannot mutate
// live state.
type ChunkSnapshot struct {
	ID         int
	Attrs      []Attr
	Utility    float64
	Created    int64
	References []int64
	Count      int64
	Optimized  bool
}

func (c *Chunk) snapshot() ChunkSnapshot {
	refs := make([]int64, len(c.References))
	copy(refs, c.References)
	attrs := make([]Attr, len(c.Attrs))
	copy(attrs, c.Attrs)
	return ChunkSnapshot{
		ID:         c.ID,
		Attrs:      attrs,
		Utility:    c.Utility,
		Created:    c.Created,
		References: refs,
		Count:      c.Count,
		Optimized:  c.Optimized,
	}
}
