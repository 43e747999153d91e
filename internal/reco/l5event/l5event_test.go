package l5event

import (
	"fmt"
	"log"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ewkino/ewkino/internal/config"
	"github.com/ewkino/ewkino/internal/monitoring"
	"github.com/ewkino/ewkino/internal/reco/era"
	"github.com/ewkino/ewkino/internal/reco/l1input"
	"github.com/ewkino/ewkino/internal/reco/l2objects"
	"github.com/ewkino/ewkino/internal/reco/l3leptons"
	"github.com/ewkino/ewkino/internal/testutil"
)

var (
	testConfig    = config.EmptySelectionConfig()
	testSelectors = NewSelectors(testConfig)
)

func mcSample() *l1input.Sample {
	return l1input.NewSample("WZTo3LNu.root", "WZ", era.Era2018, false, 4.43)
}

// monitoringCapture redirects the diagnostic logger into out until the
// returned function is called.
func monitoringCapture(out *[]string) func() {
	monitoring.SetLogger(func(format string, v ...interface{}) {
		*out = append(*out, fmt.Sprintf(format, v...))
	})
	return func() { monitoring.SetLogger(log.Printf) }
}

func newEvent(t *testing.T, b *testutil.EntryBuilder, sample *l1input.Sample) *Event {
	t.Helper()
	ev, err := NewEvent(b.Build(), sample, DefaultOptions(testConfig), testSelectors)
	require.NoError(t, err)
	return ev
}

// threeLeptonEntry has muons A(40,+), B(35,-), C(10,+) stored as C, A, B,
// with m(AB) = 85 GeV and m(BC) = 110 GeV, plus an electron and two jets.
func threeLeptonEntry() *testutil.EntryBuilder {
	etaB := math.Acosh(85*85/(2*40*35.0) - 1)
	etaC := etaB - math.Acosh(110*110/(2*35*10.0)-1)
	return testutil.NewEntryBuilder(7).
		Muon(10, etaC, 0, 1).
		Muon(40, 0, 0, 1).
		Muon(35, etaB, math.Pi, -1).
		Electron(30, -1, 1.5, -1, testutil.WithLeptonMVA(0.1), testutil.WithPtRatio(0.1)).
		Jet(80, 0.3, 2.5, 0.9).
		Jet(40, -2.0, -1, 0.01).
		MET(50, -1.5).
		Trigger("HLT_TripleMu", true).
		Trigger("HLT_Ele32", false).
		WithGenerator(1.0, 1.1, 0.9)
}

func TestNewEvent(t *testing.T) {
	ev := newEvent(t, threeLeptonEntry(), mcSample())

	assert.Equal(t, 4, ev.NumberOfLeptons())
	assert.Equal(t, 3, ev.NumberOfMuons())
	assert.Equal(t, 1, ev.NumberOfElectrons())
	assert.Equal(t, 2, ev.NumberOfJets())
	assert.Equal(t, 50.0, ev.MET().Pt())
	assert.Equal(t, 30, ev.NumberOfVertices())
	assert.Equal(t, 1.0, ev.Weight())
	assert.Equal(t, era.Era2018, ev.Era())
	assert.True(t, ev.IsMC())

	want := EventTags{Run: 1, Lumi: 1, Event: 7}
	if diff := cmp.Diff(want, ev.EventTags()); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}

	assert.True(t, ev.TriggerInfo().PassTrigger("HLT_TripleMu"))
	assert.False(t, ev.TriggerInfo().PassTrigger("HLT_Ele32"))
	assert.True(t, ev.TriggerInfo().HasTrigger("HLT_Ele32"))
	assert.False(t, ev.TriggerInfo().PassTrigger("HLT_Unknown"))
	assert.True(t, ev.TriggerInfo().PassAny("HLT_Ele32", "HLT_TripleMu"))
	assert.Equal(t, []string{"HLT_Ele32", "HLT_TripleMu"}, ev.TriggerInfo().Names())

	gen, err := ev.GeneratorInfo()
	require.NoError(t, err)
	assert.Equal(t, 3, gen.NumberOfLHEWeights())
	assert.True(t, ev.HasGeneratorInfo())
}

func TestOptionalRecordsAbsent(t *testing.T) {
	data := l1input.NewSample("DoubleMuon.root", "data", era.Era2017, true, 0)
	ev := newEvent(t, testutil.NewEntryBuilder(1).Muon(30, 0, 0, 1), data)

	assert.False(t, ev.HasGeneratorInfo())
	_, err := ev.GeneratorInfo()
	testutil.AssertErrorIs(t, err, ErrNoGeneratorInfo)
	_, err = ev.SusyMassInfo()
	testutil.AssertErrorIs(t, err, ErrNoSusyMassInfo)
	_, err = ev.ParticleLevelLeptons()
	testutil.AssertErrorIs(t, err, ErrNoParticleLevel)
	_, err = ev.ParticleLevelJets()
	testutil.AssertErrorIs(t, err, ErrNoParticleLevel)
	_, err = ev.ParticleLevelMET()
	testutil.AssertErrorIs(t, err, ErrNoParticleLevel)
	assert.Equal(t, 1.0, ev.Weight())
	assert.True(t, ev.IsData())
}

func TestOptionalRecordsPresent(t *testing.T) {
	sample := mcSample()
	sample.HasSusyMasses = true
	sample.HasParticleLevel = true
	b := testutil.NewEntryBuilder(3).
		Muon(30, 0, 0, 1).
		WithGenerator(1).
		WithSusyMasses(300, 150).
		ParticleLevelLepton(31, 0.1, 0.1, 1, -13).
		ParticleLevelJet(55, 1.0, 2.0, 5).
		ParticleLevelMET(20, 0.5)
	ev := newEvent(t, b, sample)

	susy, err := ev.SusyMassInfo()
	require.NoError(t, err)
	assert.Equal(t, SusyMassInfo{MChi1: 300, MChi2: 150}, *susy)

	leptons, err := ev.ParticleLevelLeptons()
	require.NoError(t, err)
	require.Equal(t, 1, leptons.Len())
	assert.Equal(t, -13, leptons.At(0).PdgID)

	jets, err := ev.ParticleLevelJets()
	require.NoError(t, err)
	assert.Equal(t, 5, jets.At(0).HadronFlavor)

	met, err := ev.ParticleLevelMET()
	require.NoError(t, err)
	assert.Equal(t, 20.0, met.Pt())

	// Not requested means not built, even when available.
	opts := DefaultOptions(testConfig)
	opts.ReadParticleLevel = false
	ev, err = NewEvent(b.Build(), sample, opts, testSelectors)
	require.NoError(t, err)
	assert.False(t, ev.HasParticleLevel())
}

func TestNewEvent_MissingDeclaredRecord(t *testing.T) {
	sample := mcSample()
	sample.HasSusyMasses = true
	_, err := NewEvent(testutil.NewEntryBuilder(1).WithGenerator(1).Build(), sample, DefaultOptions(testConfig), testSelectors)
	testutil.AssertErrorIs(t, err, ErrNoSusyMassInfo)
}

func TestFromReader(t *testing.T) {
	cfg := config.EmptySelectionConfig()
	limit := 2
	cfg.MaxLeptons = &limit
	opts := DefaultOptions(cfg)

	entry := testutil.NewEntryBuilder(1).
		Muon(30, 0, 0, 1).Electron(20, 1, 1, -1).Tau(25, 2, 2, 1).
		WithGenerator(1).Build()
	r := l1input.NewMemoryReader(mcSample(), entry)

	var logged []string
	defer monitoringCapture(&logged)()

	ev, err := FromReader(r, 0, opts, testSelectors)
	require.NoError(t, err)
	assert.Equal(t, 2, ev.NumberOfLeptons())
	assert.Equal(t, 0, ev.NumberOfTaus(), "taus are dropped first")
	assert.NotEmpty(t, logged)
	assert.Same(t, r.Sample(), ev.Sample())

	opts.Limits.Policy = l1input.OverflowFail
	_, err = FromReader(r, 0, opts, testSelectors)
	testutil.AssertErrorIs(t, err, l1input.ErrArrayOverflow)

	_, err = FromReader(r, 5, opts, testSelectors)
	testutil.AssertErrorIs(t, err, l1input.ErrEntryOutOfRange)
}

func TestCopyIsIndependent(t *testing.T) {
	ev := newEvent(t, threeLeptonEntry(), mcSample())
	before := ev.LeptonCollection().Len()

	cp := ev.Copy()
	cp.SelectTightLeptons()
	cp.JetCollection().SelectGoodJets()
	gen, err := cp.GeneratorInfo()
	require.NoError(t, err)
	gen.LHEWeights[0] = 42

	assert.Equal(t, before, ev.LeptonCollection().Len())
	assert.Less(t, cp.LeptonCollection().Len(), before)
	assert.Equal(t, 2, ev.JetCollection().Len())
	orig, err := ev.GeneratorInfo()
	require.NoError(t, err)
	assert.Equal(t, 1.0, orig.LHEWeights[0])
	assert.Same(t, ev.Sample(), cp.Sample(), "the sample is shared, not copied")
}

func TestMove(t *testing.T) {
	ev := newEvent(t, threeLeptonEntry(), mcSample())
	n := ev.NumberOfLeptons()

	moved := ev.Move()
	assert.True(t, ev.IsMoved())
	assert.False(t, moved.IsMoved())
	assert.Equal(t, n, moved.NumberOfLeptons())
	assert.False(t, ev.HasGeneratorInfo())

	_, err := ev.GeneratorInfo()
	testutil.AssertErrorIs(t, err, ErrEventMoved)
	_, err = ev.ParticleLevelMET()
	testutil.AssertErrorIs(t, err, ErrEventMoved)
	assert.PanicsWithValue(t, ErrEventMoved, func() { ev.Copy() })
	assert.PanicsWithValue(t, ErrEventMoved, func() { ev.Move() })
}

func TestZBosonCandidate(t *testing.T) {
	ev := newEvent(t, threeLeptonEntry(), mcSample())

	require.NoError(t, ev.InitializeZBosonCandidate(false))
	pair, mass, err := ev.BestZBosonCandidateIndicesAndMass(false)
	require.NoError(t, err)
	assert.Equal(t, l3leptons.Pair{First: 0, Second: 1}, pair)
	assert.InDelta(t, 85, mass, 1e-6)

	leptons := ev.LeptonCollection()
	assert.Equal(t, 40.0, leptons.At(0).Pt(), "initialization sorts by pt")

	other, err := ev.WLeptonIndex(false)
	require.NoError(t, err)
	assert.Equal(t, 2, other)
	assert.Equal(t, 30.0, leptons.At(other).Pt(), "leading lepton outside the pair")

	assert.True(t, ev.HasZTollCandidate(10, false))
	assert.False(t, ev.HasZTollCandidate(5, false))

	mtw, err := ev.MtW(false)
	require.NoError(t, err)
	want := math.Sqrt(2 * 30 * 50 * (1 - math.Cos(1.5-(-1.5))))
	assert.InDelta(t, want, mtw, 1e-6)
}

func TestZBosonCandidate_FailureRetriedSuccessCached(t *testing.T) {
	ss := testutil.NewEntryBuilder(1).Muon(40, 0, 0, 1).Muon(35, 1, 2, 1).WithGenerator(1)

	ev := newEvent(t, ss, mcSample())
	err := ev.InitializeZBosonCandidate(false)
	testutil.AssertErrorIs(t, err, l3leptons.ErrNoOSSFPair)
	// A failed search is not cached: allowing same sign now finds the pair.
	pair, err := ev.BestZBosonCandidateIndices(true)
	require.NoError(t, err)
	assert.Equal(t, l3leptons.Pair{First: 0, Second: 1}, pair)

	ev = newEvent(t, ss, mcSample())
	mass, err := ev.BestZBosonCandidateMass(true)
	require.NoError(t, err)
	again, err := ev.BestZBosonCandidateMass(false)
	require.NoError(t, err, "cached same-sign candidate is returned")
	assert.Equal(t, mass, again)

	other, err := ev.WLeptonIndex(true)
	require.NoError(t, err)
	assert.Equal(t, -1, other)
	_, err = ev.MtW(true)
	testutil.AssertErrorIs(t, err, ErrNoOtherLepton)
}

func TestZBosonCandidate_RecomputedAfterCollectionChange(t *testing.T) {
	ev := newEvent(t, threeLeptonEntry(), mcSample())
	require.NoError(t, ev.InitializeZBosonCandidate(false))
	other, err := ev.WLeptonIndex(false)
	require.NoError(t, err)
	assert.Equal(t, 2, other)

	// Filtering through the exposed collection leaves only the Z pair and
	// shifts positions behind the cached candidate's back.
	ev.LeptonCollection().Select(func(l l3leptons.Lepton) bool { return l.IsMuon() && l.Pt() > 20 })
	require.Equal(t, 2, ev.NumberOfLeptons())

	other, err = ev.WLeptonIndex(false)
	require.NoError(t, err)
	assert.Equal(t, -1, other)
	_, err = ev.MtW(false)
	testutil.AssertErrorIs(t, err, ErrNoOtherLepton)

	// Reordering alone also invalidates the cached positions.
	ev = newEvent(t, threeLeptonEntry(), mcSample())
	pair, err := ev.BestZBosonCandidateIndices(false)
	require.NoError(t, err)
	ev.LeptonCollection().SortBy(func(a, b l3leptons.Lepton) int { return cmpFloat(a.Pt(), b.Pt()) })
	again, err := ev.BestZBosonCandidateIndices(false)
	require.NoError(t, err)
	assert.Equal(t, pair, again, "recomputed on the pt-sorted collection")
	assert.Equal(t, 40.0, ev.LeptonCollection().At(0).Pt())
}

func TestZBosonCandidate_ReferenceMassFromConfig(t *testing.T) {
	// A(50,+) and B(45,-) are back to back: m(AB) = sqrt(9000) ~ 94.9 GeV.
	// C(20,-) is perpendicular to A: m(AC) = sqrt(2000) ~ 44.7 GeV.
	b := testutil.NewEntryBuilder(1).
		Muon(50, 0, 0, 1).
		Muon(45, 0, math.Pi, -1).
		Muon(20, 0, math.Pi/2, -1).
		WithGenerator(1)

	ev := newEvent(t, b, mcSample())
	assert.Equal(t, testConfig.GetZMassGeV(), ev.ZBosonReferenceMass())
	pair, mass, err := ev.BestZBosonCandidateIndicesAndMass(false)
	require.NoError(t, err)
	assert.Equal(t, l3leptons.Pair{First: 0, Second: 1}, pair)
	assert.InDelta(t, math.Sqrt(9000), mass, 1e-6)

	cfg := config.EmptySelectionConfig()
	low := 40.0
	cfg.ZMassGeV = &low
	ev, err = NewEvent(b.Build(), mcSample(), DefaultOptions(cfg), NewSelectors(cfg))
	require.NoError(t, err)
	assert.Equal(t, 40.0, ev.ZBosonReferenceMass())
	pair, mass, err = ev.BestZBosonCandidateIndicesAndMass(false)
	require.NoError(t, err)
	assert.Equal(t, l3leptons.Pair{First: 0, Second: 2}, pair)
	assert.InDelta(t, math.Sqrt(2000), mass, 1e-6)
	assert.True(t, ev.HasZTollCandidate(5, false), "window is centred on the configured mass")
	assert.Equal(t, 40.0, ev.Copy().ZBosonReferenceMass())

	// Selectors built without a mass fall back to the nominal Z mass.
	bare := &Selectors{Leptons: testSelectors.Leptons, Jets: testSelectors.Jets}
	ev, err = NewEvent(b.Build(), mcSample(), DefaultOptions(testConfig), bare)
	require.NoError(t, err)
	assert.Equal(t, l2objects.MassZ, ev.ZBosonReferenceMass())
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func TestVariedLeptonCollectionEvent(t *testing.T) {
	b := testutil.NewEntryBuilder(1).
		Muon(40, 0, 0, 1).
		Electron(30, 0.5, 2, -1, testutil.WithScaleShift(0.1, -0.1)).
		WithGenerator(1)
	ev := newEvent(t, b, mcSample())

	up := ev.ElectronScaleUpEvent()
	assert.Equal(t, 2, up.NumberOfLeptons())
	assert.InDelta(t, 33, up.LeptonCollection().ElectronCollection().At(0).Pt(), 1e-9)
	assert.Equal(t, 30.0, ev.LeptonCollection().ElectronCollection().At(0).Pt(), "source event untouched")
	assert.Same(t, ev.LeptonCollection().MuonCollection().At(0), up.LeptonCollection().MuonCollection().At(0))

	withZ := newEvent(t, threeLeptonEntry(), mcSample())
	require.NoError(t, withZ.InitializeZBosonCandidate(false))
	assert.Nil(t, withZ.ElectronScaleUpEvent().z, "variant events recompute the Z candidate")
	assert.NotNil(t, withZ.z)

	down := ev.ElectronScaleDownEvent()
	assert.InDelta(t, 27, down.LeptonCollection().ElectronCollection().At(0).Pt(), 1e-9)
	assert.InDelta(t, 30.6, ev.ElectronResolutionUpEvent().LeptonCollection().ElectronCollection().At(0).Pt(), 1e-9)
	assert.InDelta(t, 29.4, ev.ElectronResolutionDownEvent().LeptonCollection().ElectronCollection().At(0).Pt(), 1e-9)

	identity := ev.VariedLeptonCollectionEvent(func(c *l3leptons.Collection) *l3leptons.Collection { return c })
	identity.SelectTightLeptons()
	identity.LeptonCollection().Select(func(l3leptons.Lepton) bool { return false })
	assert.Equal(t, 2, ev.NumberOfLeptons(), "identity variant still owns its own collection")
}

func TestJetVariantEvents(t *testing.T) {
	ev := newEvent(t, threeLeptonEntry(), mcSample())

	up := ev.JECUpEvent()
	assert.InDelta(t, 80*1.03+40*1.03, up.HT(), 1e-9)
	assert.InDelta(t, 52.5, up.MET().Pt(), 1e-9)
	assert.InDelta(t, 120, ev.HT(), 1e-9)

	jer := ev.JERDownEvent()
	assert.InDelta(t, 120*0.98, jer.HT(), 1e-9)
	assert.Equal(t, 50.0, jer.MET().Pt())

	uncl := ev.UnclusteredDownEvent()
	assert.InDelta(t, 47.5, uncl.MET().Pt(), 1e-9)
	uncl.SelectGoodJets()
	assert.Equal(t, 2, ev.NumberOfJets())
}

func TestEventSelection(t *testing.T) {
	ev := newEvent(t, testutil.NewEntryBuilder(1).
		Muon(30, 0, 0, 1).
		Electron(25, 0.01, 0.01, -1).
		Electron(20, 1, 1, 1, testutil.WithMiniIso(0.5)).
		Tau(40, -1, -1, -1).
		Jet(60, 0.05, 0.05, 0).
		Jet(50, 2, 2, 0).
		WithGenerator(1), mcSample())

	ev.SelectLooseLeptons()
	assert.Equal(t, 3, ev.NumberOfLeptons())
	ev.CleanLeptons(testConfig)
	assert.Equal(t, 2, ev.NumberOfLeptons())
	assert.InDelta(t, 70, ev.LT(), 1e-9)

	ev.CleanJetsFromFOLeptons(0.4)
	assert.Equal(t, 1, ev.NumberOfJets())
	assert.InDelta(t, 50, ev.HT(), 1e-9)
	assert.True(t, ev.leptons.HasOSPair())
	assert.False(t, ev.HasOSSFLightLeptonPair())
	assert.Equal(t, 0, ev.NumberOfUniqueOSSFPairs())
}

func TestWithLeptonPipeline(t *testing.T) {
	ev := newEvent(t, threeLeptonEntry(), mcSample())
	tight := ev.WithLeptonPipeline(l3leptons.DefaultCascade(testConfig))
	assert.Equal(t, 4, ev.NumberOfLeptons())
	assert.Equal(t, 2, tight.NumberOfLeptons(), "soft and fakeable leptons removed")
}

func TestScaledWeight(t *testing.T) {
	ev := newEvent(t, testutil.NewEntryBuilder(1).Muon(30, 0, 0, 1).WithGenerator(1), mcSample())
	assert.InDelta(t, 4.43*1000/2000, ev.ScaledWeight(1000, 2000), 1e-12)
	assert.Equal(t, 1.0, ev.ScaledWeight(1000, 0))
}
