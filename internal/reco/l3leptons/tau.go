package l3leptons

import (
	"github.com/ewkino/ewkino/internal/reco/l1input"
	"github.com/ewkino/ewkino/internal/reco/l2objects"
)

// DeepTau working-point indices as stored by the reader.
const (
	DeepTauNone = iota
	DeepTauVVVLoose
	DeepTauVVLoose
	DeepTauVLoose
	DeepTauLoose
	DeepTauMedium
	DeepTauTight
	DeepTauVTight
	DeepTauVVTight
)

// Tau is a reconstructed hadronically decaying tau.
type Tau struct {
	leptonBase
	decayModeFinding bool
	decayMode        int
	deepVsJet        int
	deepVsE          int
	deepVsMu         int
	sel              *TauSelector
}

func newTau(obj l2objects.PhysicsObject, l *l1input.LeptonArrays, i int, sel *TauSelector) *Tau {
	return &Tau{
		leptonBase:       newLeptonBase(obj, l, i),
		decayModeFinding: l1input.Bool(l.TauDecayModeFinding, i),
		decayMode:        l1input.Int(l.TauDecayMode, i),
		deepVsJet:        l1input.Int(l.TauDeepVsJet, i),
		deepVsE:          l1input.Int(l.TauDeepVsE, i),
		deepVsMu:         l1input.Int(l.TauDeepVsMu, i),
		sel:              sel,
	}
}

// Flavour identity, part of the Lepton interface.
func (t *Tau) Flavor() Flavor      { return FlavorTau }
func (t *Tau) IsMuon() bool        { return false }
func (t *Tau) IsElectron() bool    { return false }
func (t *Tau) IsTau() bool         { return true }
func (t *Tau) IsLightLepton() bool { return false }

// Tier predicates, resolved by the era selector.
func (t *Tau) IsLoose() bool { return t.sel.IsLoose(t) }
func (t *Tau) IsFO() bool    { return t.sel.IsFO(t) }
func (t *Tau) IsTight() bool { return t.sel.IsTight(t) }

// ConeCorrectedPt is the plain pt for taus.
func (t *Tau) ConeCorrectedPt() float64 { return t.Pt() }

// Tau identification inputs; DeepTau values are working-point indices.
func (t *Tau) DecayModeFinding() bool { return t.decayModeFinding }
func (t *Tau) DecayMode() int         { return t.decayMode }
func (t *Tau) DeepTauVsJet() int      { return t.deepVsJet }
func (t *Tau) DeepTauVsE() int        { return t.deepVsE }
func (t *Tau) DeepTauVsMu() int       { return t.deepVsMu }

func (t *Tau) withObject(o l2objects.PhysicsObject) Lepton {
	c := *t
	c.PhysicsObject = o
	return &c
}
