package l1input_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ewkino/ewkino/internal/config"
	"github.com/ewkino/ewkino/internal/monitoring"
	"github.com/ewkino/ewkino/internal/reco/era"
	"github.com/ewkino/ewkino/internal/reco/l1input"
	"github.com/ewkino/ewkino/internal/testutil"
)

func captureLog(t *testing.T) *[]string {
	t.Helper()
	original := monitoring.Logf
	t.Cleanup(func() { monitoring.Logf = original })
	var lines []string
	monitoring.SetLogger(func(format string, v ...interface{}) {
		lines = append(lines, fmt.Sprintf(format, v...))
	})
	return &lines
}

func TestNewSample(t *testing.T) {
	mc := l1input.NewSample("ttW.root", "ttW", era.Era2017, false, 0.2)
	data := l1input.NewSample("DoubleMuon.root", "data", era.Era2017, true, 0)

	assert.True(t, mc.IsMC())
	assert.True(t, mc.HasGeneratorInfo)
	assert.False(t, data.IsMC())
	assert.False(t, data.HasGeneratorInfo)
	assert.NotEqual(t, mc.ID, data.ID)
	assert.Equal(t, "ttW.root_2017", mc.UniqueName())
}

func TestCheckBoundaries(t *testing.T) {
	valid := testutil.NewEntryBuilder(1).Muon(30, 0, 0, 1).Electron(20, 0, 1, -1).Jet(40, 0, 2, 0.1).Build()
	require.NoError(t, valid.CheckBoundaries())

	tests := []struct {
		name   string
		mutate func(e *l1input.Entry)
	}{
		{"muon count above light count", func(e *l1input.Entry) { e.Leptons.NMuon = 2; e.Leptons.NLight = 1 }},
		{"light count above total", func(e *l1input.Entry) { e.Leptons.NLight = 3 }},
		{"negative muon count", func(e *l1input.Entry) { e.Leptons.NMuon = -1 }},
		{"total beyond arrays", func(e *l1input.Entry) { e.Leptons.NTotal = 5 }},
		{"short charge array", func(e *l1input.Entry) { e.Leptons.Charge = e.Leptons.Charge[:1] }},
		{"jet count beyond arrays", func(e *l1input.Entry) { e.Jets.N = 2 }},
		{"particle-level leptons beyond arrays", func(e *l1input.Entry) {
			e.ParticleLevel = &l1input.ParticleLevelRecord{NLeptons: 1}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := valid.Clone()
			e.Leptons.Charge = append([]int(nil), valid.Leptons.Charge...)
			tt.mutate(e)
			err := e.CheckBoundaries()
			assert.True(t, errors.Is(err, l1input.ErrCountBoundary), "got %v", err)
		})
	}
}

func TestOptionalAttributeAccessors(t *testing.T) {
	assert.Equal(t, 2.5, l1input.Float([]float64{1, 2.5}, 1))
	assert.Equal(t, 0.0, l1input.Float(nil, 3))
	assert.Equal(t, 4, l1input.Int([]int{4}, 0))
	assert.Equal(t, 0, l1input.Int(nil, 0))
	assert.True(t, l1input.Bool([]bool{true}, 0))
	assert.False(t, l1input.Bool(nil, 0))
}

func buildCrowdedEntry() *l1input.Entry {
	b := testutil.NewEntryBuilder(99)
	for i := 0; i < 3; i++ {
		b.Muon(50-float64(i), 0, 0, 1)
	}
	for i := 0; i < 2; i++ {
		b.Electron(30, 1, 1, -1)
	}
	for i := 0; i < 2; i++ {
		b.Tau(25, -1, 2, 1)
	}
	for i := 0; i < 4; i++ {
		b.Jet(40, 0, float64(i), 0.1)
	}
	return b.Build()
}

func TestEnforceLimits_Truncate(t *testing.T) {
	lines := captureLog(t)
	e := buildCrowdedEntry()

	err := e.EnforceLimits(l1input.ArrayLimits{MaxLeptons: 4, MaxJets: 2, Policy: l1input.OverflowTruncate})
	require.NoError(t, err)

	// Taus are dropped first, then electrons past the limit.
	assert.Equal(t, 3, e.Leptons.NMuon)
	assert.Equal(t, 4, e.Leptons.NLight)
	assert.Equal(t, 4, e.Leptons.NTotal)
	assert.Equal(t, 2, e.Jets.N)
	require.NoError(t, e.CheckBoundaries())

	require.Len(t, *lines, 2)
	assert.Contains(t, (*lines)[0], "WARNING: event 99: lepton count 7 exceeds maximum 4")
	assert.Contains(t, (*lines)[1], "jet count 4 exceeds maximum 2")
}

func TestEnforceLimits_TruncateInsideMuons(t *testing.T) {
	captureLog(t)
	e := buildCrowdedEntry()
	require.NoError(t, e.EnforceLimits(l1input.ArrayLimits{MaxLeptons: 2}))
	assert.Equal(t, 2, e.Leptons.NMuon)
	assert.Equal(t, 2, e.Leptons.NLight)
	assert.Equal(t, 2, e.Leptons.NTotal)
}

func TestEnforceLimits_Fail(t *testing.T) {
	lines := captureLog(t)
	e := buildCrowdedEntry()

	err := e.EnforceLimits(l1input.ArrayLimits{MaxLeptons: 4, MaxJets: 10, Policy: l1input.OverflowFail})
	require.Error(t, err)
	assert.True(t, errors.Is(err, l1input.ErrArrayOverflow))
	assert.Equal(t, 7, e.Leptons.NTotal, "entry must be untouched on failure")
	assert.Empty(t, *lines)
}

func TestEnforceLimits_WithinLimits(t *testing.T) {
	e := buildCrowdedEntry()
	require.NoError(t, e.EnforceLimits(l1input.ArrayLimits{MaxLeptons: 20, MaxJets: 20, Policy: l1input.OverflowFail}))
	assert.Equal(t, 7, e.Leptons.NTotal)
}

func TestEnforceLimits_ParticleLevel(t *testing.T) {
	captureLog(t)
	e := testutil.NewEntryBuilder(3).
		ParticleLevelLepton(10, 0, 0, 1, -11).
		ParticleLevelLepton(12, 0, 0, -1, 11).
		ParticleLevelJet(30, 0, 0, 0).
		Build()
	require.NoError(t, e.EnforceLimits(l1input.ArrayLimits{MaxGenParticles: 1}))
	assert.Equal(t, 1, e.ParticleLevel.NLeptons)
	assert.Equal(t, 1, e.ParticleLevel.NJets)
}

func TestLimitsFromConfig(t *testing.T) {
	limits := l1input.LimitsFromConfig(config.DefaultSelectionConfig())
	assert.Equal(t, l1input.ArrayLimits{MaxLeptons: 20, MaxJets: 100, MaxGenParticles: 200, Policy: l1input.OverflowTruncate}, limits)

	fail := config.OverflowFail
	limits = l1input.LimitsFromConfig(&config.SelectionConfig{OverflowPolicy: &fail})
	assert.Equal(t, l1input.OverflowFail, limits.Policy)
	assert.Equal(t, "fail", limits.Policy.String())

	_, err := l1input.ParseOverflowPolicy("skip")
	assert.Error(t, err)
}

func TestMemoryReader(t *testing.T) {
	sample := l1input.NewSample("ttZ.root", "ttZ", era.Era2018, false, 0.86)
	stored := buildCrowdedEntry()
	r := l1input.NewMemoryReader(sample, stored)

	assert.Same(t, sample, r.Sample())
	assert.Equal(t, 1, r.NumEntries())

	e, err := r.Entry(0)
	require.NoError(t, err)
	captureLog(t)
	require.NoError(t, e.EnforceLimits(l1input.ArrayLimits{MaxLeptons: 1}))
	assert.Equal(t, 7, stored.Leptons.NTotal, "reader entries are cloned")

	_, err = r.Entry(1)
	assert.True(t, errors.Is(err, l1input.ErrEntryOutOfRange))
	_, err = r.Entry(-1)
	assert.True(t, errors.Is(err, l1input.ErrEntryOutOfRange))
}
