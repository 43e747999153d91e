// Package testutil provides shared test utilities and fixtures.
//
// EntryBuilder assembles reader entries that honour the positional-slice
// contract (muons, then electrons, then taus) so tests in every
// reconstruction layer can describe events object by object.
package testutil

import (
	"errors"
	"math"
	"testing"

	"github.com/ewkino/ewkino/internal/reco/l1input"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// AssertErrorIs fails the test unless err wraps target.
func AssertErrorIs(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("error = %v, want %v", err, target)
	}
}

// LeptonAttrs are the reader attributes of one lepton fixture.
type LeptonAttrs struct {
	Pt, Eta, Phi float64
	Charge       int

	Dxy, Dz, Sip3d            float64
	MiniIso, RelIso           float64
	PtRatio, PtRel            float64
	ClosestJetDeepFlavor      float64
	SelectedTrackMultiplicity int
	LeptonMVA                 float64

	MuonLooseID, MuonMediumID bool
	MuonSegmentCompatibility  float64

	ElectronLooseMVAID   bool
	ElectronPassConvVeto bool
	ElectronMissingHits  int
	ScaleUp, ScaleDown   float64 // relative energy shifts
	ResUp, ResDown       float64

	TauDecayModeFinding bool
	TauDecayMode        int
	TauDeepVsJet        int
	TauDeepVsE          int
	TauDeepVsMu         int

	IsPrompt bool
}

// LeptonOption customises a lepton fixture.
type LeptonOption func(*LeptonAttrs)

// WithLeptonMVA sets the prompt-lepton MVA score.
func WithLeptonMVA(v float64) LeptonOption { return func(a *LeptonAttrs) { a.LeptonMVA = v } }

// WithMiniIso sets the mini-isolation.
func WithMiniIso(v float64) LeptonOption { return func(a *LeptonAttrs) { a.MiniIso = v } }

// WithPtRatio sets the lepton-to-closest-jet pt ratio.
func WithPtRatio(v float64) LeptonOption { return func(a *LeptonAttrs) { a.PtRatio = v } }

// WithDeepFlavor sets the deep-flavour score of the closest jet.
func WithDeepFlavor(v float64) LeptonOption {
	return func(a *LeptonAttrs) { a.ClosestJetDeepFlavor = v }
}

// WithSip3d sets the 3D impact-parameter significance.
func WithSip3d(v float64) LeptonOption { return func(a *LeptonAttrs) { a.Sip3d = v } }

// WithTauDeepVsJet sets the DeepTau versus-jet working point index.
func WithTauDeepVsJet(wp int) LeptonOption { return func(a *LeptonAttrs) { a.TauDeepVsJet = wp } }

// WithScaleShift sets the relative electron energy-scale shifts.
func WithScaleShift(up, down float64) LeptonOption {
	return func(a *LeptonAttrs) { a.ScaleUp, a.ScaleDown = up, down }
}

// Nonprompt marks the lepton as not matched to a prompt generator lepton.
func Nonprompt() LeptonOption { return func(a *LeptonAttrs) { a.IsPrompt = false } }

// tightAttrs returns attributes passing every identification tier.
func tightAttrs(pt, eta, phi float64, charge int) LeptonAttrs {
	return LeptonAttrs{
		Pt: pt, Eta: eta, Phi: phi, Charge: charge,
		Dxy: 0.001, Dz: 0.002, Sip3d: 1,
		MiniIso: 0.01, RelIso: 0.01,
		PtRatio: 0.95, PtRel: 0,
		ClosestJetDeepFlavor: 0.001,
		LeptonMVA:            0.95,
		MuonLooseID:          true, MuonMediumID: true,
		MuonSegmentCompatibility: 0.9,
		ElectronLooseMVAID:       true, ElectronPassConvVeto: true,
		ScaleUp: 0.01, ScaleDown: -0.01, ResUp: 0.02, ResDown: -0.02,
		TauDecayModeFinding: true, TauDecayMode: 1,
		TauDeepVsJet: 6, TauDeepVsE: 4, TauDeepVsMu: 2,
		IsPrompt: true,
	}
}

type jetAttrs struct {
	pt, eta, phi, deepFlavor float64
	hadronFlavor             int
	tight                    bool
}

// EntryBuilder collects objects per flavour and lays them out in reader order.
type EntryBuilder struct {
	event     uint64
	muons     []LeptonAttrs
	electrons []LeptonAttrs
	taus      []LeptonAttrs
	jets      []jetAttrs
	met       l1input.METRecord
	triggers  map[string]bool
	sources   map[string]float64

	generator     *l1input.GeneratorRecord
	susy          *l1input.SusyMassRecord
	particleLevel *l1input.ParticleLevelRecord
}

// NewEntryBuilder starts an entry with the given event number.
func NewEntryBuilder(event uint64) *EntryBuilder {
	return &EntryBuilder{event: event, triggers: map[string]bool{}}
}

// Muon appends a muon passing every tier unless options say otherwise.
func (b *EntryBuilder) Muon(pt, eta, phi float64, charge int, opts ...LeptonOption) *EntryBuilder {
	b.muons = append(b.muons, applyOptions(tightAttrs(pt, eta, phi, charge), opts))
	return b
}

// Electron appends an electron passing every tier unless options say otherwise.
func (b *EntryBuilder) Electron(pt, eta, phi float64, charge int, opts ...LeptonOption) *EntryBuilder {
	b.electrons = append(b.electrons, applyOptions(tightAttrs(pt, eta, phi, charge), opts))
	return b
}

// Tau appends a hadronic tau passing every tier unless options say otherwise.
func (b *EntryBuilder) Tau(pt, eta, phi float64, charge int, opts ...LeptonOption) *EntryBuilder {
	b.taus = append(b.taus, applyOptions(tightAttrs(pt, eta, phi, charge), opts))
	return b
}

// Jet appends a tight-ID jet.
func (b *EntryBuilder) Jet(pt, eta, phi, deepFlavor float64) *EntryBuilder {
	b.jets = append(b.jets, jetAttrs{pt: pt, eta: eta, phi: phi, deepFlavor: deepFlavor, tight: true})
	return b
}

// JECSource adds a split JEC uncertainty source shifting every jet pt by
// ±shift (relative).
func (b *EntryBuilder) JECSource(name string, shift float64) *EntryBuilder {
	if b.sources == nil {
		b.sources = map[string]float64{}
	}
	b.sources[name] = shift
	return b
}

// MET sets the missing transverse energy; variations are ±5% in pt.
func (b *EntryBuilder) MET(pt, phi float64) *EntryBuilder {
	b.met = l1input.METRecord{
		Pt: pt, Phi: phi,
		PtJECUp: pt * 1.05, PhiJECUp: phi,
		PtJECDown: pt * 0.95, PhiJECDown: phi,
		PtUnclUp: pt * 1.05, PhiUnclUp: phi,
		PtUnclDown: pt * 0.95, PhiUnclDown: phi,
	}
	return b
}

// Trigger records a trigger decision.
func (b *EntryBuilder) Trigger(name string, pass bool) *EntryBuilder {
	b.triggers[name] = pass
	return b
}

// WithGenerator attaches a generator record.
func (b *EntryBuilder) WithGenerator(lheWeights ...float64) *EntryBuilder {
	b.generator = &l1input.GeneratorRecord{
		LHEWeights:               lheWeights,
		PartonShowerWeights:      []float64{1, 1.1, 0.9, 1.05, 0.95},
		PrefireWeight:            0.98,
		PrefireWeightUp:          0.99,
		PrefireWeightDown:        0.97,
		TrueNumberOfInteractions: 32,
		GenMETPt:                 b.met.Pt,
		GenMETPhi:                b.met.Phi,
	}
	return b
}

// WithSusyMasses attaches new-physics mass information.
func (b *EntryBuilder) WithSusyMasses(mChi1, mChi2 float64) *EntryBuilder {
	b.susy = &l1input.SusyMassRecord{MChi1: mChi1, MChi2: mChi2}
	return b
}

// ParticleLevelLepton appends a particle-level lepton.
func (b *EntryBuilder) ParticleLevelLepton(pt, eta, phi float64, charge, pdgID int) *EntryBuilder {
	p := b.ensureParticleLevel()
	p.NLeptons++
	p.LeptonPt = append(p.LeptonPt, pt)
	p.LeptonEta = append(p.LeptonEta, eta)
	p.LeptonPhi = append(p.LeptonPhi, phi)
	p.LeptonE = append(p.LeptonE, masslessEnergy(pt, eta))
	p.LeptonCharge = append(p.LeptonCharge, charge)
	p.LeptonPdgID = append(p.LeptonPdgID, pdgID)
	return b
}

// ParticleLevelJet appends a particle-level jet.
func (b *EntryBuilder) ParticleLevelJet(pt, eta, phi float64, hadronFlavor int) *EntryBuilder {
	p := b.ensureParticleLevel()
	p.NJets++
	p.JetPt = append(p.JetPt, pt)
	p.JetEta = append(p.JetEta, eta)
	p.JetPhi = append(p.JetPhi, phi)
	p.JetE = append(p.JetE, masslessEnergy(pt, eta))
	p.JetHadronFlavor = append(p.JetHadronFlavor, hadronFlavor)
	return b
}

// ParticleLevelMET sets the particle-level missing transverse energy.
func (b *EntryBuilder) ParticleLevelMET(pt, phi float64) *EntryBuilder {
	p := b.ensureParticleLevel()
	p.METPt, p.METPhi = pt, phi
	return b
}

func (b *EntryBuilder) ensureParticleLevel() *l1input.ParticleLevelRecord {
	if b.particleLevel == nil {
		b.particleLevel = &l1input.ParticleLevelRecord{}
	}
	return b.particleLevel
}

// Build lays out the collected objects as reader arrays.
func (b *EntryBuilder) Build() *l1input.Entry {
	e := &l1input.Entry{
		Run:       1,
		Lumi:      1,
		Event:     b.event,
		GenWeight: 1,
		NVertex:   30,
		MET:       b.met,
		Triggers:  b.triggers,
	}

	l := &e.Leptons
	l.NMuon = len(b.muons)
	l.NLight = l.NMuon + len(b.electrons)
	l.NTotal = l.NLight + len(b.taus)
	pdg := []int{13, 11, 15}
	for flavor, group := range [][]LeptonAttrs{b.muons, b.electrons, b.taus} {
		for _, a := range group {
			energy := masslessEnergy(a.Pt, a.Eta)
			l.Pt = append(l.Pt, a.Pt)
			l.Eta = append(l.Eta, a.Eta)
			l.Phi = append(l.Phi, a.Phi)
			l.E = append(l.E, energy)
			l.Charge = append(l.Charge, a.Charge)
			l.Dxy = append(l.Dxy, a.Dxy)
			l.Dz = append(l.Dz, a.Dz)
			l.Sip3d = append(l.Sip3d, a.Sip3d)
			l.MiniIso = append(l.MiniIso, a.MiniIso)
			l.RelIso = append(l.RelIso, a.RelIso)
			l.PtRatio = append(l.PtRatio, a.PtRatio)
			l.PtRel = append(l.PtRel, a.PtRel)
			l.ClosestJetDeepFlavor = append(l.ClosestJetDeepFlavor, a.ClosestJetDeepFlavor)
			l.SelectedTrackMultiplicity = append(l.SelectedTrackMultiplicity, a.SelectedTrackMultiplicity)
			l.LeptonMVA = append(l.LeptonMVA, a.LeptonMVA)
			l.MuonLooseID = append(l.MuonLooseID, a.MuonLooseID)
			l.MuonMediumID = append(l.MuonMediumID, a.MuonMediumID)
			l.MuonSegmentCompatibility = append(l.MuonSegmentCompatibility, a.MuonSegmentCompatibility)
			l.ElectronLooseMVAID = append(l.ElectronLooseMVAID, a.ElectronLooseMVAID)
			l.ElectronPassConvVeto = append(l.ElectronPassConvVeto, a.ElectronPassConvVeto)
			l.ElectronMissingHits = append(l.ElectronMissingHits, a.ElectronMissingHits)
			l.ElectronEtaSC = append(l.ElectronEtaSC, a.Eta)
			l.ElectronScaleUpE = append(l.ElectronScaleUpE, energy*(1+a.ScaleUp))
			l.ElectronScaleDownE = append(l.ElectronScaleDownE, energy*(1+a.ScaleDown))
			l.ElectronResUpE = append(l.ElectronResUpE, energy*(1+a.ResUp))
			l.ElectronResDownE = append(l.ElectronResDownE, energy*(1+a.ResDown))
			l.TauDecayModeFinding = append(l.TauDecayModeFinding, a.TauDecayModeFinding)
			l.TauDecayMode = append(l.TauDecayMode, a.TauDecayMode)
			l.TauDeepVsJet = append(l.TauDeepVsJet, a.TauDeepVsJet)
			l.TauDeepVsE = append(l.TauDeepVsE, a.TauDeepVsE)
			l.TauDeepVsMu = append(l.TauDeepVsMu, a.TauDeepVsMu)
			l.IsPrompt = append(l.IsPrompt, a.IsPrompt)
			l.MatchPdgID = append(l.MatchPdgID, -a.Charge*pdg[flavor])
		}
	}

	j := &e.Jets
	j.N = len(b.jets)
	for _, a := range b.jets {
		j.Pt = append(j.Pt, a.pt)
		j.Eta = append(j.Eta, a.eta)
		j.Phi = append(j.Phi, a.phi)
		j.E = append(j.E, masslessEnergy(a.pt, a.eta))
		j.DeepFlavor = append(j.DeepFlavor, a.deepFlavor)
		j.IsTight = append(j.IsTight, a.tight)
		j.HadronFlavor = append(j.HadronFlavor, a.hadronFlavor)
		j.PtJECUp = append(j.PtJECUp, a.pt*1.03)
		j.PtJECDown = append(j.PtJECDown, a.pt*0.97)
		j.PtJERUp = append(j.PtJERUp, a.pt*1.02)
		j.PtJERDown = append(j.PtJERDown, a.pt*0.98)
	}
	if len(b.sources) > 0 {
		j.PtJECSourceUp = map[string][]float64{}
		j.PtJECSourceDown = map[string][]float64{}
		for name, shift := range b.sources {
			for _, a := range b.jets {
				j.PtJECSourceUp[name] = append(j.PtJECSourceUp[name], a.pt*(1+shift))
				j.PtJECSourceDown[name] = append(j.PtJECSourceDown[name], a.pt*(1-shift))
			}
		}
	}

	if b.generator != nil {
		g := *b.generator
		e.Generator = &g
	}
	if b.susy != nil {
		s := *b.susy
		e.SusyMasses = &s
	}
	if b.particleLevel != nil {
		p := *b.particleLevel
		e.ParticleLevel = &p
	}
	return e
}

func applyOptions(a LeptonAttrs, opts []LeptonOption) LeptonAttrs {
	for _, opt := range opts {
		opt(&a)
	}
	return a
}

func masslessEnergy(pt, eta float64) float64 {
	return pt * math.Cosh(eta)
}
