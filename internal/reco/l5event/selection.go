package l5event

import (
	"github.com/ewkino/ewkino/internal/config"
	"github.com/ewkino/ewkino/internal/reco/l2objects"
)

// Event-level shorthands over the owned collections. The in-place lepton
// selections invalidate the cached Z candidate.

// SelectLooseLeptons keeps the loose leptons and drops the Z candidate.
func (ev *Event) SelectLooseLeptons() {
	ev.leptons.SelectLooseLeptons()
	ev.z = nil
}

// SelectFOLeptons keeps the fakeable leptons and drops the Z candidate.
func (ev *Event) SelectFOLeptons() {
	ev.leptons.SelectFOLeptons()
	ev.z = nil
}

// SelectTightLeptons keeps the tight leptons and drops the Z candidate.
func (ev *Event) SelectTightLeptons() {
	ev.leptons.SelectTightLeptons()
	ev.z = nil
}

// CleanLeptons removes electrons overlapping loose muons and taus
// overlapping loose light leptons, with cones from cfg.
func (ev *Event) CleanLeptons(cfg *config.SelectionConfig) {
	ev.leptons.CleanElectronsFromLooseMuons(cfg.GetElectronCleaningCone())
	ev.leptons.CleanTausFromLooseLightLeptons(cfg.GetTauCleaningCone())
	ev.z = nil
}

// SelectGoodJets keeps the good jets.
func (ev *Event) SelectGoodJets() { ev.jets.SelectGoodJets() }

// CleanJetsFromFOLeptons removes jets within coneSize of an FO lepton.
func (ev *Event) CleanJetsFromFOLeptons(coneSize float64) {
	fo := ev.leptons.FOLeptonCollection()
	leptons := make([]l2objects.Kinematic, 0, fo.Len())
	for _, l := range fo.All() {
		leptons = append(leptons, l)
	}
	ev.jets.CleanJetsFromLeptons(leptons, coneSize)
}

// CleanJetsFromLooseLeptons removes jets within coneSize of a loose lepton.
func (ev *Event) CleanJetsFromLooseLeptons(coneSize float64) {
	loose := ev.leptons.LooseLeptonCollection()
	leptons := make([]l2objects.Kinematic, 0, loose.Len())
	for _, l := range loose.All() {
		leptons = append(leptons, l)
	}
	ev.jets.CleanJetsFromLeptons(leptons, coneSize)
}

// Object counts.
func (ev *Event) NumberOfLeptons() int { return ev.leptons.Len() }
func (ev *Event) NumberOfJets() int    { return ev.jets.Len() }

// Per-flavour lepton counts.
func (ev *Event) NumberOfMuons() int     { return ev.leptons.NumberOfMuons() }
func (ev *Event) NumberOfElectrons() int { return ev.leptons.NumberOfElectrons() }
func (ev *Event) NumberOfTaus() int      { return ev.leptons.NumberOfTaus() }

// NumberOfMediumBTaggedJets counts jets passing the medium working point.
func (ev *Event) NumberOfMediumBTaggedJets() int { return ev.jets.NumberOfMediumBTaggedJets() }

// HT is the scalar pt sum of the jets.
func (ev *Event) HT() float64 { return ev.jets.HT() }

// LT is the scalar pt sum of the leptons.
func (ev *Event) LT() float64 { return ev.leptons.ScalarPtSum() }

// Pair summaries of the current leptons.
func (ev *Event) HasOSSFLightLeptonPair() bool { return ev.leptons.HasLightOSSFPair() }
func (ev *Event) HasOSSFLeptonPair() bool      { return ev.leptons.HasOSSFPair() }
func (ev *Event) NumberOfUniqueOSSFPairs() int { return ev.leptons.NumberOfUniqueOSSFPairs() }
