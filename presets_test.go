package ibl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePresetDefaults(t *testing.T) {
	doc := []byte(`
noise: 0.3
decay: 0.6
default_utility_populates: true
optimized_learning: false
`)
	preset, err := ParsePreset(doc)
	require.NoError(t, err)
	assert.Equal(t, 0.3, preset.Noise)
	assert.Equal(t, 0.6, preset.Decay)
	assert.Nil(t, preset.Temperature)
}

func TestParsePresetRejectsUnknownFields(t *testing.T) {
	doc := []byte(`
noise: 0.3
decay: 0.6
bogus_field: 1
`)
	_, err := ParsePreset(doc)
	assert.Error(t, err)
}

func TestPresetRoundTrip(t *testing.T) {
	mismatch := 15.0
	temp := 0.8
	util := 50.0
	original := Parameters{
		Noise:                   0.2,
		Decay:                   0.4,
		Temperature:             &temp,
		MismatchPenalty:         &mismatch,
		DefaultUtility:          &util,
		DefaultUtilityPopulates: true,
		OptimizedLearning:       false,
	}

	encoded, err := EncodePreset(original)
	require.NoError(t, err)

	preset, err := ParsePreset(encoded)
	require.NoError(t, err)

	roundTripped, err := preset.ToParameters()
	require.NoError(t, err)

	assert.True(t, equalParams(original, roundTripped))
}

func TestToParametersAppliesValidation(t *testing.T) {
	preset := &ParameterPreset{Noise: -1}
	_, err := preset.ToParameters()
	assert.ErrorIs(t, err, ErrNegativeNoise)
}
