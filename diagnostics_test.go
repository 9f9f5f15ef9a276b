package ibl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestChooseAllocatesLessWithDiagnosticsDisabled checks that enabling
// details/trace is the only thing that pays for ChoiceLog/OptionLog
// construction — disabled, a Choose call should never build one.
func TestChooseAllocatesLessWithDiagnosticsDisabled(t *testing.T) {
	build := func(detailsOn bool) *Agent {
		a, err := NewAgent("alloc", []string{"color"}, nil, NewSimilarityRegistry())
		require.NoError(t, err)
		a.SetSeed(1)
		a.SetTraceWriter(nopWriter{})
		util := 1.0
		a.params.DefaultUtility = &util
		a.SetDetails(detailsOn)
		return a
	}

	off := build(false)
	allocsOff := testing.AllocsPerRun(50, func() {
		_, err := off.Choose(Option{"color": "red"}, Option{"color": "blue"})
		require.NoError(t, err)
		_, err = off.Respond(floatPtr(1.0), false)
		require.NoError(t, err)
	})
	require.Nil(t, off.LastChoiceLog())

	on := build(true)
	allocsOn := testing.AllocsPerRun(50, func() {
		_, err := on.Choose(Option{"color": "red"}, Option{"color": "blue"})
		require.NoError(t, err)
		_, err = on.Respond(floatPtr(1.0), false)
		require.NoError(t, err)
	})
	require.NotNil(t, on.LastChoiceLog())

	require.Less(t, allocsOff, allocsOn)
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
