package l3leptons

import (
	"math"

	"github.com/ewkino/ewkino/internal/reco/l1input"
	"github.com/ewkino/ewkino/internal/reco/l2objects"
)

// Flavor identifies the concrete lepton type.
type Flavor int

const (
	FlavorMuon Flavor = iota
	FlavorElectron
	FlavorTau
)

// String returns the lower-case flavour name.
func (f Flavor) String() string {
	switch f {
	case FlavorMuon:
		return "muon"
	case FlavorElectron:
		return "electron"
	case FlavorTau:
		return "tau"
	}
	return "unknown"
}

// Lepton is the capability set shared by muons, electrons and taus. The
// set is closed: only types in this package implement it.
type Lepton interface {
	l2objects.Kinematic
	Object() l2objects.PhysicsObject

	Charge() int
	Flavor() Flavor
	IsMuon() bool
	IsElectron() bool
	IsTau() bool
	IsLightLepton() bool

	// Identification tiers; tight ⊆ FO ⊆ loose by selector contract.
	IsLoose() bool
	IsFO() bool
	IsTight() bool

	// ConeCorrectedPt is Pt for tight or non-FO leptons and the
	// cone-corrected estimate for fakeable-but-not-tight ones.
	ConeCorrectedPt() float64

	Dxy() float64
	Dz() float64
	Sip3d() float64
	IsPrompt() bool
	MatchPdgID() int

	withObject(o l2objects.PhysicsObject) Lepton
}

// LightLepton is the electron ∪ muon subset, which carries isolation and
// jet-proximity variables.
type LightLepton interface {
	Lepton
	MiniIso() float64
	RelIso() float64
	PtRatio() float64
	PtRel() float64
	ClosestJetDeepFlavor() float64
	SelectedTrackMultiplicity() int
	LeptonMVA() float64
}

type leptonBase struct {
	l2objects.PhysicsObject
	charge     int
	dxy        float64
	dz         float64
	sip3d      float64
	isPrompt   bool
	matchPdgID int

	// coneCorrected is set on copies whose momentum already carries the
	// cone correction.
	coneCorrected bool
}

func newLeptonBase(obj l2objects.PhysicsObject, l *l1input.LeptonArrays, i int) leptonBase {
	return leptonBase{
		PhysicsObject: obj,
		charge:        l.Charge[i],
		dxy:           l1input.Float(l.Dxy, i),
		dz:            l1input.Float(l.Dz, i),
		sip3d:         l1input.Float(l.Sip3d, i),
		isPrompt:      l1input.Bool(l.IsPrompt, i),
		matchPdgID:    l1input.Int(l.MatchPdgID, i),
	}
}

// Attributes shared by every flavour.
func (b *leptonBase) Object() l2objects.PhysicsObject { return b.PhysicsObject }
func (b *leptonBase) Charge() int                     { return b.charge }
func (b *leptonBase) Dxy() float64                    { return b.dxy }
func (b *leptonBase) Dz() float64                     { return b.dz }
func (b *leptonBase) Sip3d() float64                  { return b.sip3d }
func (b *leptonBase) IsPrompt() bool                  { return b.isPrompt }
func (b *leptonBase) MatchPdgID() int                 { return b.matchPdgID }

// IsConeCorrected reports whether the momentum is already cone corrected.
func (b *leptonBase) IsConeCorrected() bool { return b.coneCorrected }

func (b *leptonBase) markConeCorrected() { b.coneCorrected = true }

// passesImpactParameters applies the common loose vertex-compatibility cuts.
func (b *leptonBase) passesImpactParameters(maxDxy, maxDz, maxSip3d float64) bool {
	return math.Abs(b.dxy) < maxDxy && math.Abs(b.dz) < maxDz && b.sip3d < maxSip3d
}

type lightLeptonBase struct {
	leptonBase
	miniIso                   float64
	relIso                    float64
	ptRatio                   float64
	ptRel                     float64
	closestJetDeepFlavor      float64
	selectedTrackMultiplicity int
	leptonMVA                 float64
}

func newLightLeptonBase(obj l2objects.PhysicsObject, l *l1input.LeptonArrays, i int) lightLeptonBase {
	return lightLeptonBase{
		leptonBase:                newLeptonBase(obj, l, i),
		miniIso:                   l1input.Float(l.MiniIso, i),
		relIso:                    l1input.Float(l.RelIso, i),
		ptRatio:                   l1input.Float(l.PtRatio, i),
		ptRel:                     l1input.Float(l.PtRel, i),
		closestJetDeepFlavor:      l1input.Float(l.ClosestJetDeepFlavor, i),
		selectedTrackMultiplicity: l1input.Int(l.SelectedTrackMultiplicity, i),
		leptonMVA:                 l1input.Float(l.LeptonMVA, i),
	}
}

// Light-lepton isolation and jet-proximity variables.
func (b *lightLeptonBase) MiniIso() float64               { return b.miniIso }
func (b *lightLeptonBase) RelIso() float64                { return b.relIso }
func (b *lightLeptonBase) PtRatio() float64               { return b.ptRatio }
func (b *lightLeptonBase) PtRel() float64                 { return b.ptRel }
func (b *lightLeptonBase) ClosestJetDeepFlavor() float64  { return b.closestJetDeepFlavor }
func (b *lightLeptonBase) SelectedTrackMultiplicity() int { return b.selectedTrackMultiplicity }
func (b *lightLeptonBase) LeptonMVA() float64             { return b.leptonMVA }

// SameFlavor reports whether a and b have the same flavour.
func SameFlavor(a, b Lepton) bool { return a.Flavor() == b.Flavor() }

// OppositeSign reports whether a and b have opposite charges.
func OppositeSign(a, b Lepton) bool { return a.Charge() != b.Charge() }

// OSSF reports whether a and b form an opposite-sign same-flavour pair.
func OSSF(a, b Lepton) bool { return OppositeSign(a, b) && SameFlavor(a, b) }
