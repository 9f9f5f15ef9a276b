package ibl

import "math"

// Parameters holds the real-valued knobs spec.md §3 defines, plus the
// optional fields that change agent behavior when present. Construct
// via DefaultParameters() and override fields, or via ParsePreset.
type Parameters struct {
	Noise float64
	Decay float64

	// Temperature is a pointer so "unset" (use noise*sqrt(2)) is
	// distinguishable from an explicit value equal to the default.
	Temperature *float64

	// MismatchPenalty nil means exact matching only; non-nil (including
	// zero) enables partial matching with that scale.
	MismatchPenalty *float64

	// DefaultUtility nil means no default; an option with no matching
	// chunk then yields a no-data error unless every option matches.
	DefaultUtility *float64

	DefaultUtilityPopulates bool
	OptimizedLearning       bool
}

// DefaultParameters returns spec.md §3's documented defaults.
func DefaultParameters() Parameters {
	return Parameters{
		Noise:                   0.25,
		Decay:                   0.5,
		DefaultUtilityPopulates: true,
		OptimizedLearning:       false,
	}
}

// EffectiveTemperature returns the explicit Temperature or, absent one,
// noise*sqrt(2) (spec.md §3, §8 "Temperature default" invariant).
func (p Parameters) EffectiveTemperature() float64 {
	if p.Temperature != nil {
		return *p.Temperature
	}
	return defaultTemperature(p.Noise)
}

// Validate enforces spec.md §7's parameter-error rules.
func (p Parameters) Validate() error {
	if p.Noise < 0 {
		return ErrNegativeNoise
	}
	if p.Decay < 0 {
		return ErrNegativeDecay
	}
	if p.OptimizedLearning && p.Decay >= 1 {
		return ErrDecayTooLarge
	}
	if p.Temperature != nil && *p.Temperature <= 0 {
		return ErrNonPositiveTemperature
	}
	if p.EffectiveTemperature() <= 0 {
		return ErrNonPositiveTemperature
	}
	if p.MismatchPenalty != nil && *p.MismatchPenalty < 0 {
		return ErrNegativeMismatchPenalty
	}
	return nil
}

func floatPtr(f float64) *float64 { return &f }

// equalParams is used by tests asserting preset round-trips.
func equalParams(a, b Parameters) bool {
	if a.Noise != b.Noise || a.Decay != b.Decay || a.DefaultUtilityPopulates != b.DefaultUtilityPopulates || a.OptimizedLearning != b.OptimizedLearning {
		return false
	}
	if !ptrEq(a.Temperature, b.Temperature) {
		return false
	}
	if !ptrEq(a.MismatchPenalty, b.MismatchPenalty) {
		return false
	}
	if !ptrEq(a.DefaultUtility, b.DefaultUtility) {
		return false
	}
	return true
}

func ptrEq(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b || (math.IsNaN(*a) && math.IsNaN(*b))
}
