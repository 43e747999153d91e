package l3leptons

import (
	"fmt"
	"math"

	"github.com/ewkino/ewkino/internal/config"
	"github.com/ewkino/ewkino/internal/reco/era"
)

// Era-independent loose selection constants.
const (
	MuonLoosePtMin     = 5.0
	MuonEtaMax         = 2.4
	ElectronLoosePtMin = 7.0
	ElectronEtaMax     = 2.5
	TauLoosePtMin      = 20.0
	TauEtaMax          = 2.3
	FOPtMin            = 10.0

	looseDxyMax     = 0.05
	looseDzMax      = 0.1
	looseSip3dMax   = 8.0
	looseMiniIsoMax = 0.4
	tauDzMax        = 0.2
)

// MuonSelector resolves the muon identification tiers for one era.
type MuonSelector struct {
	Era        era.Era
	Thresholds config.LeptonThresholds
	ConeFactor float64
}

// IsLoose applies the loose muon identification.
func (s *MuonSelector) IsLoose(m *Muon) bool {
	return m.Pt() >= MuonLoosePtMin &&
		math.Abs(m.Eta()) < MuonEtaMax &&
		m.passesImpactParameters(looseDxyMax, looseDzMax, looseSip3dMax) &&
		m.miniIso < looseMiniIsoMax &&
		m.looseID
}

// IsFO applies the fakeable muon selection.
func (s *MuonSelector) IsFO(m *Muon) bool {
	if !s.IsLoose(m) || m.Pt() < FOPtMin || !m.mediumID {
		return false
	}
	return m.leptonMVA > s.Thresholds.TightMVA ||
		(m.ptRatio > s.Thresholds.FOMinPtRatio && m.closestJetDeepFlavor < s.Thresholds.FOMaxDeepFlavor)
}

// IsTight applies the tight muon selection.
func (s *MuonSelector) IsTight(m *Muon) bool {
	return s.IsFO(m) && m.leptonMVA > s.Thresholds.TightMVA
}

// ConeCorrection is the pt scale factor for fakeable-but-not-tight muons.
func (s *MuonSelector) ConeCorrection(m *Muon) float64 {
	return coneCorrection(s.IsFO(m), s.IsTight(m), s.ConeFactor, m.ptRatio)
}

// ElectronSelector resolves the electron identification tiers for one era.
type ElectronSelector struct {
	Era        era.Era
	Thresholds config.LeptonThresholds
	ConeFactor float64
}

// IsLoose applies the loose electron identification.
func (s *ElectronSelector) IsLoose(e *Electron) bool {
	return e.Pt() >= ElectronLoosePtMin &&
		math.Abs(e.Eta()) < ElectronEtaMax &&
		e.passesImpactParameters(looseDxyMax, looseDzMax, looseSip3dMax) &&
		e.miniIso < looseMiniIsoMax &&
		e.missingHits < 2 &&
		e.looseMVAID
}

// IsFO applies the fakeable electron selection.
func (s *ElectronSelector) IsFO(e *Electron) bool {
	if !s.IsLoose(e) || e.Pt() < FOPtMin || !e.passConvVeto || e.missingHits != 0 {
		return false
	}
	return e.leptonMVA > s.Thresholds.TightMVA ||
		(e.ptRatio > s.Thresholds.FOMinPtRatio && e.closestJetDeepFlavor < s.Thresholds.FOMaxDeepFlavor)
}

// IsTight applies the tight electron selection.
func (s *ElectronSelector) IsTight(e *Electron) bool {
	return s.IsFO(e) && e.leptonMVA > s.Thresholds.TightMVA
}

// ConeCorrection is the pt scale factor for fakeable-but-not-tight electrons.
func (s *ElectronSelector) ConeCorrection(e *Electron) float64 {
	return coneCorrection(s.IsFO(e), s.IsTight(e), s.ConeFactor, e.ptRatio)
}

// TauSelector resolves the tau identification tiers. The DeepTau working
// points do not change between eras, but the selector is still looked up
// per era so every (flavour, era) pair is covered.
type TauSelector struct {
	Era era.Era
}

// IsLoose applies the tau identification and DeepTau working points.
func (s *TauSelector) IsLoose(t *Tau) bool {
	return t.Pt() >= TauLoosePtMin &&
		math.Abs(t.Eta()) < TauEtaMax &&
		math.Abs(t.dz) < tauDzMax &&
		t.decayModeFinding &&
		t.decayMode != 5 && t.decayMode != 6 &&
		t.deepVsJet >= DeepTauVLoose &&
		t.deepVsE >= DeepTauVVLoose &&
		t.deepVsMu >= DeepTauVVVLoose
}

// IsFO equals IsLoose for taus.
func (s *TauSelector) IsFO(t *Tau) bool { return s.IsLoose(t) }

// IsTight applies the tight DeepTau working point.
func (s *TauSelector) IsTight(t *Tau) bool {
	return s.IsFO(t) && t.deepVsJet >= DeepTauMedium
}

func coneCorrection(fo, tight bool, factor, ptRatio float64) float64 {
	if !fo || tight || ptRatio <= 0 {
		return 1
	}
	return factor / ptRatio
}

// SelectorTable maps (flavour, era) to the selector strategy attached to
// every lepton at construction. It is built once per configuration and is
// read-only afterwards, so shards may share it.
type SelectorTable struct {
	muons     map[era.Era]*MuonSelector
	electrons map[era.Era]*ElectronSelector
	taus      map[era.Era]*TauSelector
}

// NewSelectorTable builds selectors for every supported era.
func NewSelectorTable(cfg *config.SelectionConfig) *SelectorTable {
	t := &SelectorTable{
		muons:     make(map[era.Era]*MuonSelector),
		electrons: make(map[era.Era]*ElectronSelector),
		taus:      make(map[era.Era]*TauSelector),
	}
	factor := cfg.GetConeCorrectionFactor()
	for _, e := range era.All() {
		t.muons[e] = &MuonSelector{Era: e, Thresholds: cfg.GetMuonThresholds(e), ConeFactor: factor}
		t.electrons[e] = &ElectronSelector{Era: e, Thresholds: cfg.GetElectronThresholds(e), ConeFactor: factor}
		t.taus[e] = &TauSelector{Era: e}
	}
	return t
}

// Muon returns the muon selector for e.
func (t *SelectorTable) Muon(e era.Era) (*MuonSelector, error) {
	if s, ok := t.muons[e]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("no muon selector for era %s: %w", e, era.ErrUnknownEra)
}

// Electron returns the electron selector for e.
func (t *SelectorTable) Electron(e era.Era) (*ElectronSelector, error) {
	if s, ok := t.electrons[e]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("no electron selector for era %s: %w", e, era.ErrUnknownEra)
}

// Tau returns the tau selector for e.
func (t *SelectorTable) Tau(e era.Era) (*TauSelector, error) {
	if s, ok := t.taus[e]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("no tau selector for era %s: %w", e, era.ErrUnknownEra)
}

// Covers reports whether the table has a selector for (f, e).
func (t *SelectorTable) Covers(f Flavor, e era.Era) bool {
	switch f {
	case FlavorMuon:
		_, ok := t.muons[e]
		return ok
	case FlavorElectron:
		_, ok := t.electrons[e]
		return ok
	case FlavorTau:
		_, ok := t.taus[e]
		return ok
	}
	return false
}
