package l4jets

import (
	"math"

	"go-hep.org/x/hep/fmom"

	"github.com/ewkino/ewkino/internal/reco/era"
	"github.com/ewkino/ewkino/internal/reco/l1input"
	"github.com/ewkino/ewkino/internal/reco/l2objects"
)

// MET is the missing transverse momentum of an event. It is massless and
// lies in the transverse plane, so eta is zero and energy equals pt.
type MET struct {
	l2objects.PhysicsObject
	rec l1input.METRecord
}

func newTransverse(pt, phi float64, e era.Era) l2objects.PhysicsObject {
	return l2objects.NewPhysicsObject(pt, 0, phi, pt, e)
}

// NewMET builds the nominal MET from rec.
func NewMET(rec l1input.METRecord, e era.Era) *MET {
	return &MET{PhysicsObject: newTransverse(rec.Pt, rec.Phi, e), rec: rec}
}

// varied builds a MET from a variation of rec. A variation the source did
// not fill (pt and phi both zero) falls back to the nominal values.
func (m *MET) varied(pt, phi float64) *MET {
	if pt == 0 && phi == 0 {
		pt, phi = m.rec.Pt, m.rec.Phi
	}
	return &MET{PhysicsObject: newTransverse(pt, phi, m.Era()), rec: m.rec}
}

// JECUp and JECDown shift the MET with the jet energy scale.
func (m *MET) JECUp() *MET   { return m.varied(m.rec.PtJECUp, m.rec.PhiJECUp) }
func (m *MET) JECDown() *MET { return m.varied(m.rec.PtJECDown, m.rec.PhiJECDown) }

// UnclusteredUp and UnclusteredDown shift the energy not clustered in jets.
func (m *MET) UnclusteredUp() *MET   { return m.varied(m.rec.PtUnclUp, m.rec.PhiUnclUp) }
func (m *MET) UnclusteredDown() *MET { return m.varied(m.rec.PtUnclDown, m.rec.PhiUnclDown) }

// Px and Py are the transverse components.
func (m *MET) Px() float64 { return m.Pt() * math.Cos(m.Phi()) }
func (m *MET) Py() float64 { return m.Pt() * math.Sin(m.Phi()) }

// P4 returns the transverse four-vector.
func (m *MET) P4() fmom.P4 { return l2objects.FourMomentum(m) }
