package l2objects

import (
	"math"

	"go-hep.org/x/hep/fmom"

	"github.com/ewkino/ewkino/internal/reco/era"
)

// MassZ is the reference Z boson mass in GeV.
const MassZ = 91.1876

// Kinematic is implemented by every reconstructed or generator-level object.
type Kinematic interface {
	Pt() float64
	Eta() float64
	Phi() float64
	Energy() float64
}

// PhysicsObject is the kinematic record shared by all object types. It is
// immutable after construction; variations build new objects.
type PhysicsObject struct {
	pt     float64
	eta    float64
	phi    float64
	energy float64
	era    era.Era
}

// NewPhysicsObject builds an object from reader kinematics.
func NewPhysicsObject(pt, eta, phi, energy float64, e era.Era) PhysicsObject {
	return PhysicsObject{pt: pt, eta: eta, phi: phi, energy: energy, era: e}
}

// Kinematic accessors.
func (o PhysicsObject) Pt() float64     { return o.pt }
func (o PhysicsObject) Eta() float64    { return o.eta }
func (o PhysicsObject) Phi() float64    { return o.phi }
func (o PhysicsObject) Energy() float64 { return o.energy }
func (o PhysicsObject) Era() era.Era    { return o.era }

// Era flags, forwarded from the object era.
func (o PhysicsObject) Is2016() bool        { return o.era.Is2016() }
func (o PhysicsObject) Is2016PreVFP() bool  { return o.era.Is2016PreVFP() }
func (o PhysicsObject) Is2016PostVFP() bool { return o.era.Is2016PostVFP() }
func (o PhysicsObject) Is2017() bool        { return o.era.Is2017() }
func (o PhysicsObject) Is2018() bool        { return o.era.Is2018() }

// P4 returns the object's four-momentum.
func (o PhysicsObject) P4() fmom.P4 { return FourMomentum(o) }

// Mass returns the invariant mass of the object itself.
func (o PhysicsObject) Mass() float64 { return o.P4().M() }

// Scaled returns a copy with pt and energy multiplied by factor, keeping
// the direction. Used for calibration variations.
func (o PhysicsObject) Scaled(factor float64) PhysicsObject {
	o.pt *= factor
	o.energy *= factor
	return o
}

// WithPtEnergy returns a copy with new pt and energy and the same direction.
func (o PhysicsObject) WithPtEnergy(pt, energy float64) PhysicsObject {
	o.pt = pt
	o.energy = energy
	return o
}

// FourMomentum converts any Kinematic into a Cartesian four-vector.
func FourMomentum(k Kinematic) fmom.P4 {
	pt, eta, phi := k.Pt(), k.Eta(), k.Phi()
	p := fmom.NewPxPyPzE(pt*math.Cos(phi), pt*math.Sin(phi), pt*math.Sinh(eta), k.Energy())
	return &p
}

// Sum returns the four-vector sum of objs.
func Sum[T Kinematic](objs ...T) fmom.P4 {
	var sum fmom.P4 = &fmom.PxPyPzE{}
	for _, o := range objs {
		sum = fmom.Add(sum, FourMomentum(o))
	}
	return sum
}

// InvariantMass returns the invariant mass of the system formed by objs.
func InvariantMass[T Kinematic](objs ...T) float64 {
	if len(objs) == 2 {
		return fmom.InvMass(FourMomentum(objs[0]), FourMomentum(objs[1]))
	}
	return Sum(objs...).M()
}

// DeltaR returns the angular separation sqrt(Δη² + Δφ²) of a and b.
func DeltaR(a, b Kinematic) float64 {
	return fmom.DeltaR(FourMomentum(a), FourMomentum(b))
}

// DeltaPhi returns the azimuthal separation of a and b in [-π, π].
func DeltaPhi(a, b Kinematic) float64 {
	return fmom.DeltaPhi(FourMomentum(a), FourMomentum(b))
}

// TransverseMass returns mT of two objects treated as massless.
func TransverseMass(a, b Kinematic) float64 {
	return math.Sqrt(2 * a.Pt() * b.Pt() * (1 - math.Cos(DeltaPhi(a, b))))
}

var inf = math.Inf(1)
