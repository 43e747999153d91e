package l3leptons

import (
	"github.com/ewkino/ewkino/internal/reco/l1input"
	"github.com/ewkino/ewkino/internal/reco/l2objects"
)

// Muon is a reconstructed muon.
type Muon struct {
	lightLeptonBase
	looseID              bool
	mediumID             bool
	segmentCompatibility float64
	sel                  *MuonSelector
}

func newMuon(obj l2objects.PhysicsObject, l *l1input.LeptonArrays, i int, sel *MuonSelector) *Muon {
	return &Muon{
		lightLeptonBase:      newLightLeptonBase(obj, l, i),
		looseID:              l1input.Bool(l.MuonLooseID, i),
		mediumID:             l1input.Bool(l.MuonMediumID, i),
		segmentCompatibility: l1input.Float(l.MuonSegmentCompatibility, i),
		sel:                  sel,
	}
}

// Flavour identity, part of the Lepton interface.
func (m *Muon) Flavor() Flavor      { return FlavorMuon }
func (m *Muon) IsMuon() bool        { return true }
func (m *Muon) IsElectron() bool    { return false }
func (m *Muon) IsTau() bool         { return false }
func (m *Muon) IsLightLepton() bool { return true }

// Tier predicates, resolved by the era selector.
func (m *Muon) IsLoose() bool { return m.sel.IsLoose(m) }
func (m *Muon) IsFO() bool    { return m.sel.IsFO(m) }
func (m *Muon) IsTight() bool { return m.sel.IsTight(m) }

// ConeCorrectedPt is pt for tight or non-fakeable muons and
// factor * pt / ptRatio for fakeable-but-not-tight ones.
func (m *Muon) ConeCorrectedPt() float64 {
	if m.coneCorrected {
		return m.Pt()
	}
	return m.Pt() * m.sel.ConeCorrection(m)
}

// LooseID reports the muon POG loose identification decision.
func (m *Muon) LooseID() bool { return m.looseID }

// MediumID reports the muon POG medium identification decision.
func (m *Muon) MediumID() bool { return m.mediumID }

// SegmentCompatibility is the muon-segment compatibility score.
func (m *Muon) SegmentCompatibility() float64 { return m.segmentCompatibility }

func (m *Muon) withObject(o l2objects.PhysicsObject) Lepton {
	c := *m
	c.PhysicsObject = o
	return &c
}
