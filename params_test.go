package ibl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultParametersAreValid(t *testing.T) {
	p := DefaultParameters()
	assert.NoError(t, p.Validate())
	assert.InDelta(t, 0.25*1.4142135623730951, p.EffectiveTemperature(), 1e-9)
}

func TestValidateRejectsNegativeNoise(t *testing.T) {
	p := DefaultParameters()
	p.Noise = -0.1
	assert.ErrorIs(t, p.Validate(), ErrNegativeNoise)
}

func TestValidateRejectsNegativeDecay(t *testing.T) {
	p := DefaultParameters()
	p.Decay = -0.1
	assert.ErrorIs(t, p.Validate(), ErrNegativeDecay)
}

func TestValidateRejectsDecayTooLargeUnderOptimizedLearning(t *testing.T) {
	p := DefaultParameters()
	p.OptimizedLearning = true
	p.Decay = 1.0
	assert.ErrorIs(t, p.Validate(), ErrDecayTooLarge)
}

func TestValidateAllowsDecayAtOneWithoutOptimizedLearning(t *testing.T) {
	p := DefaultParameters()
	p.Decay = 1.0
	assert.NoError(t, p.Validate())
}

func TestValidateRejectsNonPositiveExplicitTemperature(t *testing.T) {
	p := DefaultParameters()
	zero := 0.0
	p.Temperature = &zero
	assert.ErrorIs(t, p.Validate(), ErrNonPositiveTemperature)
}

func TestValidateRejectsNonPositiveDerivedTemperature(t *testing.T) {
	p := DefaultParameters()
	p.Noise = 0 // noise*sqrt(2) == 0, and no explicit Temperature set
	assert.ErrorIs(t, p.Validate(), ErrNonPositiveTemperature)
}

func TestValidateRejectsNegativeMismatchPenalty(t *testing.T) {
	p := DefaultParameters()
	neg := -1.0
	p.MismatchPenalty = &neg
	assert.ErrorIs(t, p.Validate(), ErrNegativeMismatchPenalty)
}

func TestEqualParamsHandlesNilAndSetPointers(t *testing.T) {
	a := DefaultParameters()
	b := DefaultParameters()
	assert.True(t, equalParams(a, b))

	a.Temperature = floatPtr(1.5)
	assert.False(t, equalParams(a, b))

	b.Temperature = floatPtr(1.5)
	assert.True(t, equalParams(a, b))
}
