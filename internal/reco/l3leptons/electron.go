package l3leptons

import (
	"github.com/ewkino/ewkino/internal/reco/l1input"
	"github.com/ewkino/ewkino/internal/reco/l2objects"
)

// Electron is a reconstructed electron. Besides the light-lepton variables it
// carries the calibrated energies for the energy-scale and resolution
// variations.
type Electron struct {
	lightLeptonBase
	looseMVAID   bool
	passConvVeto bool
	missingHits  int
	etaSC        float64

	scaleUpEnergy   float64
	scaleDownEnergy float64
	resUpEnergy     float64
	resDownEnergy   float64

	sel *ElectronSelector
}

func newElectron(obj l2objects.PhysicsObject, l *l1input.LeptonArrays, i int, sel *ElectronSelector) *Electron {
	energy := obj.Energy()
	orNominal := func(values []float64) float64 {
		if i < len(values) && values[i] > 0 {
			return values[i]
		}
		return energy
	}
	return &Electron{
		lightLeptonBase: newLightLeptonBase(obj, l, i),
		looseMVAID:      l1input.Bool(l.ElectronLooseMVAID, i),
		passConvVeto:    l1input.Bool(l.ElectronPassConvVeto, i),
		missingHits:     l1input.Int(l.ElectronMissingHits, i),
		etaSC:           l1input.Float(l.ElectronEtaSC, i),
		scaleUpEnergy:   orNominal(l.ElectronScaleUpE),
		scaleDownEnergy: orNominal(l.ElectronScaleDownE),
		resUpEnergy:     orNominal(l.ElectronResUpE),
		resDownEnergy:   orNominal(l.ElectronResDownE),
		sel:             sel,
	}
}

// Flavour identity, part of the Lepton interface.
func (e *Electron) Flavor() Flavor      { return FlavorElectron }
func (e *Electron) IsMuon() bool        { return false }
func (e *Electron) IsElectron() bool    { return true }
func (e *Electron) IsTau() bool         { return false }
func (e *Electron) IsLightLepton() bool { return true }

// Tier predicates, resolved by the era selector.
func (e *Electron) IsLoose() bool { return e.sel.IsLoose(e) }
func (e *Electron) IsFO() bool    { return e.sel.IsFO(e) }
func (e *Electron) IsTight() bool { return e.sel.IsTight(e) }

// ConeCorrectedPt is pt for tight or non-fakeable electrons and
// factor * pt / ptRatio for fakeable-but-not-tight ones.
func (e *Electron) ConeCorrectedPt() float64 {
	if e.coneCorrected {
		return e.Pt()
	}
	return e.Pt() * e.sel.ConeCorrection(e)
}

// Electron identification inputs.
func (e *Electron) LooseMVAID() bool         { return e.looseMVAID }
func (e *Electron) PassConvVeto() bool       { return e.passConvVeto }
func (e *Electron) MissingHits() int         { return e.missingHits }
func (e *Electron) EtaSuperCluster() float64 { return e.etaSC }

func (e *Electron) withObject(o l2objects.PhysicsObject) Lepton {
	c := *e
	c.PhysicsObject = o
	return &c
}

// withEnergy returns a copy whose momentum is rescaled to the given energy.
func (e *Electron) withEnergy(energy float64) *Electron {
	if e.Energy() <= 0 {
		return e.withObject(e.PhysicsObject).(*Electron)
	}
	return e.withObject(e.PhysicsObject.Scaled(energy / e.Energy())).(*Electron)
}

// EnergyScaleUp returns a new electron with the scale-up calibrated energy.
func (e *Electron) EnergyScaleUp() *Electron { return e.withEnergy(e.scaleUpEnergy) }

// EnergyScaleDown returns a new electron with the scale-down calibrated energy.
func (e *Electron) EnergyScaleDown() *Electron { return e.withEnergy(e.scaleDownEnergy) }

// EnergyResolutionUp returns a new electron with the resolution-up energy.
func (e *Electron) EnergyResolutionUp() *Electron { return e.withEnergy(e.resUpEnergy) }

// EnergyResolutionDown returns a new electron with the resolution-down energy.
func (e *Electron) EnergyResolutionDown() *Electron { return e.withEnergy(e.resDownEnergy) }
