// Package-level Instance Store (C2, spec.md §4.2): the agent's chunk
// set, keyed by (attrs, utility) for dedup, with insertion order
// preserved for deterministic enumeration under a fixed RNG seed
// (spec.md §6, compatibility surface). Grounded on the teacher's
// internal/memory/experience.go + consolidator.go buffer bookkeeping,
// generalized from a fixed ExperienceTuple shape to the Chunk shape
// spec.md requires.
package ibl

// Store holds every live chunk for one agent. It is not safe for
// concurrent use — per spec.md §5 an agent (and therefore its store) is
// owned by one goroutine at a time.
type Store struct {
	order        []*Chunk
	index        map[chunkKey]*Chunk
	byID         map[int]*Chunk
	nextID       int
	sawNonPrepop bool
}

// NewStore returns an empty instance store.
func NewStore() *Store {
	return &Store{
		index: make(map[chunkKey]*Chunk),
		byID:  make(map[int]*Chunk),
	}
}

// Insert records a real (non-prepopulation) occurrence at time t. If a
// chunk with identical (attrs, utility) already exists, t is merged
// into it according to that chunk's own bookkeeping mode (References or
// Count); otherwise a new chunk is created with optimized bookkeeping
// iff newChunkOptimized is set.
func (s *Store) Insert(attrs []Attr, utility float64, t int64, newChunkOptimized bool) *Chunk {
	s.sawNonPrepop = true
	return s.insert(attrs, utility, t, newChunkOptimized, false)
}

// InsertPrepopulated records a prepopulation occurrence at time t. It
// behaves like Insert except the chunk is marked prepopulated when the
// store has not yet observed a non-prepopulation event — the boundary
// Clear(preserve=true) uses to decide what survives a reset.
func (s *Store) InsertPrepopulated(attrs []Attr, utility float64, t int64, newChunkOptimized bool) *Chunk {
	return s.insert(attrs, utility, t, newChunkOptimized, !s.sawNonPrepop)
}

func (s *Store) insert(attrs []Attr, utility float64, t int64, newChunkOptimized bool, markPrepop bool) *Chunk {
	key := makeChunkKey(attrs, utility)
	if c, ok := s.index[key]; ok {
		s.recordOccurrence(c, t)
		if markPrepop && !s.sawNonPrepop {
			c.prepopulated = true
			c.prepopRefs = append(append([]int64{}, c.prepopRefs...), t)
		}
		return c
	}

	s.nextID++
	c := &Chunk{
		ID:        s.nextID,
		Attrs:     append([]Attr{}, attrs...),
		Utility:   utility,
		Created:   t,
		Optimized: newChunkOptimized,
	}
	s.recordOccurrence(c, t)
	if markPrepop {
		c.prepopulated = true
		c.prepopRefs = []int64{t}
	}
	s.order = append(s.order, c)
	s.index[key] = c
	s.byID[c.ID] = c
	return c
}

func (s *Store) recordOccurrence(c *Chunk, t int64) {
	if c.Optimized {
		c.Count++
		return
	}
	c.References = append(c.References, t)
}

// Remove deletes the chunk with the given ID entirely (used when a
// DelayedResponse's provisional chunk is replaced — spec.md §4.6).
func (s *Store) Remove(id int) {
	c, ok := s.byID[id]
	if !ok {
		return
	}
	key := makeChunkKey(c.Attrs, c.Utility)
	delete(s.index, key)
	delete(s.byID, id)
	for i, oc := range s.order {
		if oc.ID == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// ByID returns the live chunk with the given ID, or nil.
func (s *Store) ByID(id int) *Chunk {
	return s.byID[id]
}

// Find returns the live chunk matching (attrs, utility), or nil.
func (s *Store) Find(attrs []Attr, utility float64) *Chunk {
	return s.index[makeChunkKey(attrs, utility)]
}

// Enumerate returns every live chunk in insertion order.
func (s *Store) Enumerate() []*Chunk {
	out := make([]*Chunk, len(s.order))
	copy(out, s.order)
	return out
}

// Clear drops all chunks. With preservePrepopulated, chunks inserted
// before the store's first non-prepopulation event are retained, with
// their reference lists reset to the prepopulation-time snapshot
// (spec.md §4.2).
func (s *Store) Clear(preservePrepopulated bool) {
	if !preservePrepopulated {
		s.order = nil
		s.index = make(map[chunkKey]*Chunk)
		s.byID = make(map[int]*Chunk)
		s.sawNonPrepop = false
		return
	}

	var kept []*Chunk
	for _, c := range s.order {
		if !c.prepopulated {
			continue
		}
		nc := &Chunk{
			ID:           c.ID,
			Attrs:        append([]Attr{}, c.Attrs...),
			Utility:      c.Utility,
			Created:      c.Created,
			Optimized:    c.Optimized,
			prepopulated: true,
			prepopRefs:   append([]int64{}, c.prepopRefs...),
		}
		if nc.Optimized {
			nc.Count = int64(len(c.prepopRefs))
		} else {
			nc.References = append([]int64{}, c.prepopRefs...)
		}
		kept = append(kept, nc)
	}

	s.order = kept
	s.index = make(map[chunkKey]*Chunk, len(kept))
	s.byID = make(map[int]*Chunk, len(kept))
	for _, c := range kept {
		s.index[makeChunkKey(c.Attrs, c.Utility)] = c
		s.byID[c.ID] = c
	}
	s.sawNonPrepop = false
}

// Len reports the number of live chunks.
func (s *Store) Len() int { return len(s.order) }
