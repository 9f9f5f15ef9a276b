// Activation Engine (C3, spec.md §4.3): base-level activation, logistic
// noise, and the partial-matching correction for one chunk against one
// probe (an option's canonicalized attribute tuple) at a query time.
//
// Grounded on the teacher's internal/memory/semantic_network.go
// SpreadActivation loop — decayed, weighted accumulation into a single
// scalar per node — generalized from graph-edge weights to per-chunk
// reference-time decay and similarity-weighted partial matching.
package ibl

import "math"

// ActivationDetail is the per-chunk diagnostic record spec.md §4.5
// requires the "details" toggle to expose: base activation, noise,
// activation, the chunk's own creation/reference bookkeeping, and
// (implicitly) the retrieval probability filled in by the blending
// engine.
type ActivationDetail struct {
	ChunkID    int
	Created    int64
	References []int64
	Base       float64
	Noise      float64
	Partial    float64
	Activation float64
}

// matchChunk applies the exact-match pre-filter and partial-matching
// correction for one chunk against a probe. ok is false if the chunk is
// excluded (a required-exact attribute mismatched, or base-level
// activation has no surviving terms).
func matchChunk(c *Chunk, probe []Attr, p Parameters, reg *SimilarityRegistry, tNow int64, rng RNG) (ActivationDetail, bool) {
	partial := 0.0
	hasMismatchPenalty := p.MismatchPenalty != nil

	for _, pa := range probe {
		ca, ok := findAttr(c.Attrs, pa.Name)
		if !ok {
			// Schema guarantees every declared attribute is present on
			// every chunk; a missing attribute means this chunk predates
			// a schema change and cannot be compared.
			return ActivationDetail{}, false
		}

		fn, weight, registered := reg.lookup(pa.Name)
		if !registered || !hasMismatchPenalty {
			if !ca.Value.Equal(pa.Value) {
				return ActivationDetail{}, false
			}
			continue
		}

		s := clamp01(fn(ca.Value, pa.Value))
		partial += weight * (s - 1)
	}

	if hasMismatchPenalty {
		partial *= *p.MismatchPenalty
	} else {
		partial = 0
	}

	base, ok := baseLevelActivation(c, p, tNow)
	if !ok {
		return ActivationDetail{}, false
	}

	noise := logisticNoise(rng, p.Noise)

	return ActivationDetail{
		ChunkID:    c.ID,
		Created:    c.Created,
		References: append([]int64{}, c.References...),
		Base:       base,
		Noise:      noise,
		Partial:    partial,
		Activation: base + noise + partial,
	}, true
}

func findAttr(attrs []Attr, name string) (Attr, bool) {
	for _, a := range attrs {
		if a.Name == name {
			return a, true
		}
	}
	return Attr{}, false
}

// baseLevelActivation computes B_i per spec.md §4.3, in either normal
// mode (sum over reference times) or optimized-learning mode (creation
// time + count approximation). ok is false when no reference time
// contributes (every (t_now - t_ij) <= 0).
func baseLevelActivation(c *Chunk, p Parameters, tNow int64) (float64, bool) {
	if c.Optimized {
		lag := float64(tNow - c.Created)
		if lag <= 0 {
			return 0, false
		}
		n := float64(c.Count)
		if n <= 0 {
			return 0, false
		}
		return math.Log(n/(1-p.Decay)) - p.Decay*math.Log(lag), true
	}

	sum := 0.0
	any := false
	for _, t := range c.References {
		lag := float64(tNow - t)
		if lag <= 0 {
			continue
		}
		sum += math.Pow(lag, -p.Decay)
		any = true
	}
	if !any {
		return 0, false
	}
	return math.Log(sum), true
}
