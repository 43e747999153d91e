package testutil

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssertNoError(t *testing.T) {
	t.Parallel()
	AssertNoError(t, nil)
}

func TestAssertError_WithErr(t *testing.T) {
	t.Parallel()
	AssertError(t, errors.New("something wrong"))
}

func TestAssertErrorIs_Wrapped(t *testing.T) {
	t.Parallel()
	target := errors.New("target")
	AssertErrorIs(t, fmt.Errorf("context: %w", target), target)
}

func TestEntryBuilder_PositionalLayout(t *testing.T) {
	t.Parallel()

	// Objects are added out of flavour order; the entry must still list
	// muons, then electrons, then taus.
	e := NewEntryBuilder(7).
		Tau(30, 0.1, 0.2, -1).
		Electron(50, 0.5, 1.0, -1).
		Muon(40, -0.3, 2.0, 1).
		Electron(20, 1.2, -1.0, 1).
		Build()

	require.NoError(t, e.CheckBoundaries())
	assert.Equal(t, uint64(7), e.Event)
	assert.Equal(t, 1, e.Leptons.NMuon)
	assert.Equal(t, 3, e.Leptons.NLight)
	assert.Equal(t, 4, e.Leptons.NTotal)
	assert.Equal(t, []float64{40, 50, 20, 30}, e.Leptons.Pt)
	assert.Equal(t, []int{1, -1, 1, -1}, e.Leptons.Charge)
	assert.Equal(t, []int{-13, 11, -11, 15}, e.Leptons.MatchPdgID)
	assert.InDelta(t, 50*math.Cosh(0.5), e.Leptons.E[1], 1e-12)
}

func TestEntryBuilder_OptionalRecords(t *testing.T) {
	t.Parallel()

	e := NewEntryBuilder(1).Build()
	assert.Nil(t, e.Generator)
	assert.Nil(t, e.SusyMasses)
	assert.Nil(t, e.ParticleLevel)

	e = NewEntryBuilder(2).
		MET(45, 0.3).
		WithGenerator(1, 0.9, 1.1).
		WithSusyMasses(300, 150).
		ParticleLevelLepton(35, 0.2, 0.1, -1, 11).
		ParticleLevelJet(60, 1.5, -2.0, 5).
		ParticleLevelMET(40, 0.2).
		Build()
	require.NoError(t, e.CheckBoundaries())
	require.NotNil(t, e.Generator)
	assert.Len(t, e.Generator.LHEWeights, 3)
	assert.Equal(t, 45.0, e.Generator.GenMETPt)
	assert.Equal(t, 300.0, e.SusyMasses.MChi1)
	assert.Equal(t, 1, e.ParticleLevel.NLeptons)
	assert.Equal(t, 1, e.ParticleLevel.NJets)
	assert.Equal(t, 40.0, e.ParticleLevel.METPt)
}
