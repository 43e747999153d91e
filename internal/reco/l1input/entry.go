package l1input

import (
	"errors"
	"fmt"
)

// ErrCountBoundary is returned when the muon/electron/tau count boundaries
// of an entry are inconsistent with each other or with the array lengths.
var ErrCountBoundary = errors.New("inconsistent object count boundaries")

// LeptonArrays holds the per-lepton attributes of one entry. Muons occupy
// indices [0, NMuon), electrons [NMuon, NLight) and taus [NLight, NTotal).
// Flavour-specific attributes are indexed over the full lepton range and
// ignored for the other flavours. Optional attribute slices may be nil.
type LeptonArrays struct {
	NMuon  int
	NLight int
	NTotal int

	Pt     []float64
	Eta    []float64
	Phi    []float64
	E      []float64
	Charge []int

	Dxy   []float64
	Dz    []float64
	Sip3d []float64

	// Light-lepton isolation and jet-proximity variables
	MiniIso                   []float64
	RelIso                    []float64
	PtRatio                   []float64
	PtRel                     []float64
	ClosestJetDeepFlavor      []float64
	SelectedTrackMultiplicity []int
	LeptonMVA                 []float64

	// Muon identification
	MuonLooseID              []bool
	MuonMediumID             []bool
	MuonSegmentCompatibility []float64

	// Electron identification and calibration
	ElectronLooseMVAID   []bool
	ElectronPassConvVeto []bool
	ElectronMissingHits  []int
	ElectronEtaSC        []float64
	ElectronScaleUpE     []float64
	ElectronScaleDownE   []float64
	ElectronResUpE       []float64
	ElectronResDownE     []float64

	// Tau identification; DeepTau discriminants are working-point indices
	// (0 = none passed, higher is tighter).
	TauDecayModeFinding []bool
	TauDecayMode        []int
	TauDeepVsJet        []int
	TauDeepVsE          []int
	TauDeepVsMu         []int

	// Simulation truth matching
	IsPrompt   []bool
	MatchPdgID []int
}

// JetArrays holds the per-jet attributes of one entry.
type JetArrays struct {
	N int

	Pt           []float64
	Eta          []float64
	Phi          []float64
	E            []float64
	DeepFlavor   []float64
	IsTight      []bool
	HadronFlavor []int

	PtJECUp   []float64
	PtJECDown []float64
	PtJERUp   []float64
	PtJERDown []float64

	// Split JEC uncertainty sources, keyed by source name.
	PtJECSourceUp   map[string][]float64
	PtJECSourceDown map[string][]float64
}

// METRecord holds missing transverse energy and its variations.
type METRecord struct {
	Pt, Phi                 float64
	PtJECUp, PhiJECUp       float64
	PtJECDown, PhiJECDown   float64
	PtUnclUp, PhiUnclUp     float64
	PtUnclDown, PhiUnclDown float64
}

// GeneratorRecord holds simulation-only per-event generator information.
type GeneratorRecord struct {
	LHEWeights               []float64
	PartonShowerWeights      []float64
	PrefireWeight            float64
	PrefireWeightUp          float64
	PrefireWeightDown        float64
	TrueNumberOfInteractions float64
	GenMETPt                 float64
	GenMETPhi                float64
	GenHT                    float64
}

// SusyMassRecord holds the generated new-physics particle masses.
type SusyMassRecord struct {
	MChi1 float64
	MChi2 float64
}

// ParticleLevelRecord holds generator-level (fiducial) objects.
type ParticleLevelRecord struct {
	NLeptons     int
	LeptonPt     []float64
	LeptonEta    []float64
	LeptonPhi    []float64
	LeptonE      []float64
	LeptonCharge []int
	LeptonPdgID  []int

	NJets           int
	JetPt           []float64
	JetEta          []float64
	JetPhi          []float64
	JetE            []float64
	JetHadronFlavor []int

	METPt  float64
	METPhi float64
}

// Entry is one processed collision as presented by the reader.
type Entry struct {
	Run       uint32
	Lumi      uint32
	Event     uint64
	GenWeight float64
	NVertex   int

	Leptons  LeptonArrays
	Jets     JetArrays
	MET      METRecord
	Triggers map[string]bool

	// Optional records; nil when the source does not provide them.
	Generator     *GeneratorRecord
	SusyMasses    *SusyMassRecord
	ParticleLevel *ParticleLevelRecord
}

// Clone returns a copy of e whose counts and optional records can be
// modified without affecting e. Attribute slices are shared.
func (e *Entry) Clone() *Entry {
	c := *e
	if e.Generator != nil {
		g := *e.Generator
		c.Generator = &g
	}
	if e.SusyMasses != nil {
		s := *e.SusyMasses
		c.SusyMasses = &s
	}
	if e.ParticleLevel != nil {
		p := *e.ParticleLevel
		c.ParticleLevel = &p
	}
	return &c
}

// CheckBoundaries verifies the positional-slice contract: counts are
// ordered muon <= light <= total, and every provided array covers them.
func (e *Entry) CheckBoundaries() error {
	l := &e.Leptons
	if l.NMuon < 0 || l.NMuon > l.NLight || l.NLight > l.NTotal {
		return fmt.Errorf("%w: nMuon=%d nLight=%d nTotal=%d", ErrCountBoundary, l.NMuon, l.NLight, l.NTotal)
	}
	required := map[string]int{
		"lepton pt":     len(l.Pt),
		"lepton eta":    len(l.Eta),
		"lepton phi":    len(l.Phi),
		"lepton energy": len(l.E),
		"lepton charge": len(l.Charge),
	}
	for name, n := range required {
		if n < l.NTotal {
			return fmt.Errorf("%w: %s has %d values for %d leptons", ErrCountBoundary, name, n, l.NTotal)
		}
	}

	j := &e.Jets
	if j.N < 0 {
		return fmt.Errorf("%w: negative jet count %d", ErrCountBoundary, j.N)
	}
	for name, n := range map[string]int{
		"jet pt":     len(j.Pt),
		"jet eta":    len(j.Eta),
		"jet phi":    len(j.Phi),
		"jet energy": len(j.E),
	} {
		if n < j.N {
			return fmt.Errorf("%w: %s has %d values for %d jets", ErrCountBoundary, name, n, j.N)
		}
	}

	if p := e.ParticleLevel; p != nil {
		if len(p.LeptonPt) < p.NLeptons || len(p.LeptonEta) < p.NLeptons ||
			len(p.LeptonPhi) < p.NLeptons || len(p.LeptonE) < p.NLeptons {
			return fmt.Errorf("%w: particle-level lepton arrays shorter than %d", ErrCountBoundary, p.NLeptons)
		}
		if len(p.JetPt) < p.NJets || len(p.JetEta) < p.NJets ||
			len(p.JetPhi) < p.NJets || len(p.JetE) < p.NJets {
			return fmt.Errorf("%w: particle-level jet arrays shorter than %d", ErrCountBoundary, p.NJets)
		}
	}
	return nil
}

// Float returns values[i], or 0 when the optional attribute is absent.
func Float(values []float64, i int) float64 {
	if i < len(values) {
		return values[i]
	}
	return 0
}

// Int returns values[i], or 0 when the optional attribute is absent.
func Int(values []int, i int) int {
	if i < len(values) {
		return values[i]
	}
	return 0
}

// Bool returns values[i], or false when the optional attribute is absent.
func Bool(values []bool, i int) bool {
	if i < len(values) {
		return values[i]
	}
	return false
}
