// Agent Controller (C5, spec.md §4.5): ties the attribute schema,
// parameters, clock, default utility, and prepopulation to the
// choose/respond state machine, and exposes tracing/introspection.
// Grounded on the teacher's internal/config/config.go (a defaulted,
// validated settings struct constructed once) and internal/memory/
// goal_stack.go (sentinel-error-guarded state transitions over a small
// stack of pending work) — here the "stack" is a single pending
// response slot rather than a goal hierarchy.
package ibl

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// pendingChoice is the bookkeeping Choose leaves behind for a later
// synchronous Respond.
type pendingChoice struct {
	attrs      []Attr
	expectedBV float64
}

// Agent is the decision-making core: one instance store, one clock, one
// RNG, and the parameters governing activation/blending.
type Agent struct {
	Name string

	attrs []string

	params   Parameters
	registry *SimilarityRegistry

	store *Store
	clock int64
	rng   RNG

	pending *pendingChoice

	details       bool
	trace         bool
	lastChoiceLog *ChoiceLog
	traceOut      io.Writer
	log           zerolog.Logger
}

// NewAgent constructs an agent with the given (possibly empty)
// attribute schema. A nil params uses DefaultParameters(); a nil
// registry uses DefaultRegistry. An empty name is replaced with a
// generated identifier, the way the teacher's agent roster always
// carries a codename.
func NewAgent(name string, attributes []string, params *Parameters, registry *SimilarityRegistry) (*Agent, error) {
	p := DefaultParameters()
	if params != nil {
		p = *params
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if registry == nil {
		registry = DefaultRegistry
	}
	if name == "" {
		name = uuid.NewString()
	}

	schema := append([]string{}, attributes...)
	for _, a := range schema {
		if a == reservedDecision || a == reservedUtility {
			return nil, fmt.Errorf("%w: %s", ErrReservedAttribute, a)
		}
	}

	return &Agent{
		Name:     name,
		attrs:    schema,
		params:   p,
		registry: registry,
		store:    NewStore(),
		rng:      NewRNG(randomSeed()),
		traceOut: os.Stdout,
		log:      zerolog.Nop(),
	}, nil
}

const (
	reservedDecision = "_decision"
	reservedUtility  = "_utility"
)

// SetSeed replaces the agent's RNG with one seeded deterministically,
// the hook spec.md §8's "determinism under fixed seed" property needs.
func (a *Agent) SetSeed(seed int64) {
	a.rng = NewRNG(seed)
}

// SetLogger installs a zerolog.Logger used for trace output; the
// default is a no-op logger so disabled tracing costs nothing.
func (a *Agent) SetLogger(l zerolog.Logger) { a.log = l }

// SetTraceWriter overrides where the human-readable tabular trace is
// written (default os.Stdout).
func (a *Agent) SetTraceWriter(w io.Writer) { a.traceOut = w }

// SetTrace toggles the human-readable tabular trace output.
func (a *Agent) SetTrace(on bool) { a.trace = on }

// SetDetails toggles retention of the structured ChoiceLog from the most
// recent Choose/Choose2 call.
func (a *Agent) SetDetails(on bool) {
	a.details = on
	if !on {
		a.lastChoiceLog = nil
	}
}

// LastChoiceLog returns the structured diagnostic record from the most
// recent Choose/Choose2 call, or nil if details is disabled or no
// choice has been made.
func (a *Agent) LastChoiceLog() *ChoiceLog { return a.lastChoiceLog }

// Parameters returns the agent's current parameter block.
func (a *Agent) Parameters() Parameters { return a.params }

// SetParameters validates and installs a new parameter block. Switching
// optimized_learning on while any live chunk carries a multi-reference
// history is rejected (DESIGN.md's resolution of spec.md §9's second
// Open Question).
func (a *Agent) SetParameters(p Parameters) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.OptimizedLearning && !a.params.OptimizedLearning {
		for _, c := range a.store.Enumerate() {
			if !c.Optimized && len(c.References) > 1 {
				return ErrOptimizedLearningHistoryLoss
			}
		}
	}
	a.params = p
	return nil
}

// Time returns the agent's current clock value.
func (a *Agent) Time() int64 { return a.clock }

// Instances returns a snapshot of every live chunk, in insertion order.
func (a *Agent) Instances() []ChunkSnapshot {
	chunks := a.store.Enumerate()
	out := make([]ChunkSnapshot, len(chunks))
	for i, c := range chunks {
		out[i] = c.snapshot()
	}
	return out
}

// Reset clears pending state, rewinds the clock to 0, and either empties
// the store or retains prepopulated chunks with their original times.
func (a *Agent) Reset(preservePrepopulated bool) {
	a.clock = 0
	a.pending = nil
	a.store.Clear(preservePrepopulated)
}

// schemaAttrNames returns the synthetic single-attribute schema when the
// agent was constructed with an empty attribute list.
func (a *Agent) schemaAttrNames() []string {
	if len(a.attrs) == 0 {
		return []string{reservedDecision}
	}
	return a.attrs
}

// canonicalize turns a caller-supplied option (a map[string]any keyed by
// attribute name, or a bare value when the schema has exactly one
// attribute) into the canonical attribute tuple.
func (a *Agent) canonicalize(raw any) ([]Attr, error) {
	names := a.schemaAttrNames()

	if m, ok := raw.(map[string]any); ok {
		seen := make(map[string]bool, len(names))
		for _, n := range names {
			seen[n] = true
		}
		for k := range m {
			if !seen[k] {
				return nil, fmt.Errorf("%w: %s", ErrUnknownAttribute, k)
			}
		}
		out := make([]Attr, len(names))
		for i, n := range names {
			v, ok := m[n]
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrMissingAttribute, n)
			}
			out[i] = Attr{Name: n, Value: toValue(v)}
		}
		return out, nil
	}

	if opt, ok := raw.(Option); ok {
		return a.canonicalize(map[string]any(opt))
	}

	if len(names) != 1 {
		return nil, fmt.Errorf("%w: schema has %d attributes, option is not a map", ErrMissingAttribute, len(names))
	}
	return []Attr{{Name: names[0], Value: toValue(raw)}}, nil
}

// Option is a convenience alias for the map form of a choose() option.
type Option map[string]any

// toValue adapts common Go scalar types into Value; anything else is
// carried as an opaque comparable payload.
func toValue(raw any) Value {
	switch v := raw.(type) {
	case Value:
		return v
	case float64:
		return Num(v)
	case float32:
		return Num(float64(v))
	case int:
		return Num(float64(v))
	case int64:
		return Num(float64(v))
	case string:
		return Str(v)
	case bool:
		return Bool(v)
	default:
		return Opaque(v)
	}
}

// optionEligibility is the per-option result of the matching pass:
// either it has real matching chunks, or it is defaultable, or neither.
type optionEligibility struct {
	attrs     []Attr
	details   []ActivationDetail
	utilities map[int]float64
	defaulted bool
}

// Choose implements spec.md §4.5's choose protocol. The returned value
// is the original option argument (identity preserved), per spec.md §6.
func (a *Agent) Choose(options ...any) (any, error) {
	chosen, _, bv, err := a.choose(options, false)
	if err != nil {
		return nil, err
	}
	a.pending = &pendingChoice{attrs: bv.attrs, expectedBV: bv.value}
	return chosen, nil
}

// Choose2 implements spec.md §4.5/§4.6's delayed-feedback protocol: the
// chosen option's expectation is committed as a provisional chunk
// immediately, and a DelayedResponse handle is returned for later
// resolution. No synchronous pending state is left behind, so further
// Choose/Choose2 calls are not blocked.
func (a *Agent) Choose2(options ...any) (any, *DelayedResponse, error) {
	chosen, _, bv, err := a.choose(options, false)
	if err != nil {
		return nil, nil, err
	}

	refTime := a.clock + 1
	a.clock = refTime
	chunk := a.store.Insert(bv.attrs, bv.value, refTime, a.params.OptimizedLearning)
	respondTotal.Inc()

	dr := &DelayedResponse{
		agent:       a,
		chunkID:     chunk.ID,
		attrs:       bv.attrs,
		refTime:     refTime,
		expectation: bv.value,
		token:       uuid.NewString(),
	}
	return chosen, dr, nil
}

type selectedOption struct {
	attrs []Attr
	value float64
}

// choose runs the shared scoring/selection pipeline for Choose and
// Choose2: advance the clock, canonicalize and match every option,
// enforce the all-or-none defaultability rule, blend, and pick a winner
// (ties broken uniformly at random).
func (a *Agent) choose(options []any, _ bool) (any, []optionEligibility, selectedOption, error) {
	chooseTotal.Inc()

	if len(options) == 0 {
		return nil, nil, selectedOption{}, ErrNoOptions
	}
	if a.pending != nil {
		return nil, nil, selectedOption{}, ErrResponsePending
	}

	a.clock++
	t := a.clock

	elig := make([]optionEligibility, len(options))
	bvs := make([]float64, len(options))
	wantLogs := a.details || a.trace
	var optLogs []OptionLog
	if wantLogs {
		optLogs = make([]OptionLog, len(options))
	}

	anyEligible := false
	anyIneligible := false

	for i, raw := range options {
		attrs, err := a.canonicalize(raw)
		if err != nil {
			return nil, nil, selectedOption{}, err
		}

		matches := a.matchingChunks(attrs, t)
		if len(matches) > 0 {
			utilities := make(map[int]float64, len(matches))
			for _, c := range a.store.Enumerate() {
				utilities[c.ID] = c.Utility
			}
			activationComputations.Add(float64(len(matches)))

			blendStart := time.Now()
			result := blend(matches, utilities, a.params.EffectiveTemperature())
			blendDuration.Observe(time.Since(blendStart).Seconds())
			elig[i] = optionEligibility{attrs: attrs, details: matches, utilities: utilities}
			bvs[i] = result.Value
			anyEligible = true

			if wantLogs {
				optLogs[i] = buildOptionLog(raw, matches, result, false)
			}
			continue
		}

		if a.params.DefaultUtility != nil {
			bvs[i] = *a.params.DefaultUtility
			elig[i] = optionEligibility{attrs: attrs, defaulted: true}
			anyEligible = true

			if a.params.DefaultUtilityPopulates {
				a.store.Insert(attrs, *a.params.DefaultUtility, t, a.params.OptimizedLearning)
			}

			if wantLogs {
				optLogs[i] = OptionLog{Option: raw, BlendedValue: bvs[i], Defaulted: true}
			}
			continue
		}

		anyIneligible = true
		elig[i] = optionEligibility{attrs: attrs}
	}

	if anyIneligible {
		noDataTotal.Inc()
		return nil, nil, selectedOption{}, ErrNoData
	}
	if !anyEligible {
		noDataTotal.Inc()
		return nil, nil, selectedOption{}, ErrNoData
	}

	best := bestIndices(bvs)
	winner := best[0]
	if len(best) > 1 {
		winner = best[a.rng.Intn(len(best))]
	}

	if wantLogs {
		for i := range optLogs {
			optLogs[i].Chosen = i == winner
		}
	}
	if a.details {
		a.lastChoiceLog = &ChoiceLog{Time: t, Options: optLogs}
	}
	if a.trace {
		cl := a.lastChoiceLog
		if cl == nil {
			cl = &ChoiceLog{Time: t, Options: optLogs}
		}
		cl.WriteTable(a.traceOut)
		a.log.Info().Int64("time", t).Float64("blended_value", bvs[winner]).Msg("choose")
	}

	return options[winner], elig, selectedOption{attrs: elig[winner].attrs, value: bvs[winner]}, nil
}

func bestIndices(values []float64) []int {
	best := []int{0}
	for i := 1; i < len(values); i++ {
		switch {
		case values[i] > values[best[0]]:
			best = []int{i}
		case values[i] == values[best[0]]:
			best = append(best, i)
		}
	}
	return best
}

// matchingChunks runs the activation engine over every live chunk for
// one option's probe, returning the details of chunks that survive the
// exact-match pre-filter.
func (a *Agent) matchingChunks(probe []Attr, t int64) []ActivationDetail {
	chunks := a.store.Enumerate()
	out := make([]ActivationDetail, 0, len(chunks))
	for _, c := range chunks {
		d, ok := matchChunk(c, probe, a.params, a.registry, t, a.rng)
		if ok {
			out = append(out, d)
		}
	}
	return out
}

func buildOptionLog(raw any, details []ActivationDetail, result BlendResult, defaulted bool) OptionLog {
	logs := make([]ChunkActivationLog, len(details))
	for i, d := range details {
		logs[i] = ChunkActivationLog{
			ChunkID:     d.ChunkID,
			Created:     d.Created,
			References:  d.References,
			Base:        d.Base,
			Noise:       d.Noise,
			Activation:  d.Activation,
			Probability: result.Probabilities[d.ChunkID],
		}
	}
	return OptionLog{Option: raw, Chunks: logs, BlendedValue: result.Value, Defaulted: defaulted}
}

// Respond implements spec.md §4.5's respond protocol. outcome == nil
// requests a delayed response (C6): the provisional expectation is
// committed immediately and a DelayedResponse handle is returned for
// later resolution. expectedOnly, when outcome is non-nil, commits the
// expectation computed at choose time instead of outcome — useful for
// advancing memory on a simulated/self-predicted trial without
// recording a real-world outcome (see DESIGN.md).
func (a *Agent) Respond(outcome *float64, expectedOnly bool) (*DelayedResponse, error) {
	if a.pending == nil {
		return nil, ErrNoResponsePending
	}
	pending := a.pending
	a.pending = nil

	refTime := a.clock + 1
	a.clock = refTime
	respondTotal.Inc()

	if outcome == nil {
		chunk := a.store.Insert(pending.attrs, pending.expectedBV, refTime, a.params.OptimizedLearning)
		return &DelayedResponse{
			agent:       a,
			chunkID:     chunk.ID,
			attrs:       pending.attrs,
			refTime:     refTime,
			expectation: pending.expectedBV,
			token:       uuid.NewString(),
		}, nil
	}

	u := *outcome
	if expectedOnly {
		u = pending.expectedBV
	}
	a.store.Insert(pending.attrs, u, refTime, a.params.OptimizedLearning)
	return nil, nil
}

// Populate inserts one prepopulation chunk at time 0 (or the current
// clock, if the agent has already ticked).
func (a *Agent) Populate(outcome float64, raw any) error {
	attrs, err := a.canonicalize(raw)
	if err != nil {
		return err
	}
	t := int64(0)
	if a.clock > 0 {
		t = a.clock
	}
	a.store.InsertPrepopulated(attrs, outcome, t, a.params.OptimizedLearning)
	return nil
}

// PopulateAt inserts one prepopulation chunk at a caller-chosen time,
// which must not exceed the current clock.
func (a *Agent) PopulateAt(outcome float64, raw any, t int64) error {
	if t > a.clock {
		return ErrPrepopulationTimeInFuture
	}
	attrs, err := a.canonicalize(raw)
	if err != nil {
		return err
	}
	a.store.InsertPrepopulated(attrs, outcome, t, a.params.OptimizedLearning)
	return nil
}
