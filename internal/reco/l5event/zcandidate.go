package l5event

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/ewkino/ewkino/internal/reco/l2objects"
	"github.com/ewkino/ewkino/internal/reco/l3leptons"
)

// ErrNoOtherLepton is returned when every lepton belongs to the Z candidate.
var ErrNoOtherLepton = errors.New("no lepton outside the Z candidate")

type zCandidate struct {
	pair  l3leptons.Pair
	mass  float64
	other int

	// leptons is the collection content the candidate was computed on.
	leptons []l3leptons.Lepton
}

func (z *zCandidate) matches(c *l3leptons.Collection) bool {
	return slices.Equal(z.leptons, c.Objects())
}

// InitializeZBosonCandidate sorts the leptons by pt and caches the best Z
// candidate and the leading lepton outside it. A cached candidate is
// returned whatever allowSameSign later calls pass, as long as the lepton
// collection is unchanged; if the collection was filtered or reordered
// since, the candidate is recomputed. Failures are not cached.
func (ev *Event) InitializeZBosonCandidate(allowSameSign bool) error {
	if ev.z != nil && ev.z.matches(ev.leptons) {
		return nil
	}
	ev.z = nil
	ev.leptons.SortByPt()
	pair, mass, err := ev.leptons.BestResonanceCandidate(ev.ZBosonReferenceMass(), allowSameSign)
	if err != nil {
		return err
	}
	z := &zCandidate{pair: pair, mass: mass, other: -1, leptons: ev.leptons.Objects()}
	for i := 0; i < ev.leptons.Len(); i++ {
		if !pair.Contains(i) {
			z.other = i
			break
		}
	}
	ev.z = z
	return nil
}

// ZBosonReferenceMass is the mass the Z candidate search aims for.
func (ev *Event) ZBosonReferenceMass() float64 {
	if ev.zMass > 0 {
		return ev.zMass
	}
	return l2objects.MassZ
}

// BestZBosonCandidateIndices returns the pt-ordered positions of the Z
// candidate leptons.
func (ev *Event) BestZBosonCandidateIndices(allowSameSign bool) (l3leptons.Pair, error) {
	if err := ev.InitializeZBosonCandidate(allowSameSign); err != nil {
		return l3leptons.Pair{}, err
	}
	return ev.z.pair, nil
}

// BestZBosonCandidateMass returns the invariant mass of the Z candidate.
func (ev *Event) BestZBosonCandidateMass(allowSameSign bool) (float64, error) {
	if err := ev.InitializeZBosonCandidate(allowSameSign); err != nil {
		return 0, err
	}
	return ev.z.mass, nil
}

// BestZBosonCandidateIndicesAndMass combines the two accessors above.
func (ev *Event) BestZBosonCandidateIndicesAndMass(allowSameSign bool) (l3leptons.Pair, float64, error) {
	if err := ev.InitializeZBosonCandidate(allowSameSign); err != nil {
		return l3leptons.Pair{}, 0, err
	}
	return ev.z.pair, ev.z.mass, nil
}

// WLeptonIndex returns the position of the leading lepton outside the Z
// candidate, or -1 when there is none.
func (ev *Event) WLeptonIndex(allowSameSign bool) (int, error) {
	if err := ev.InitializeZBosonCandidate(allowSameSign); err != nil {
		return -1, err
	}
	return ev.z.other, nil
}

// HasZTollCandidate reports a Z candidate within window GeV of the
// reference mass.
func (ev *Event) HasZTollCandidate(window float64, allowSameSign bool) bool {
	mass, err := ev.BestZBosonCandidateMass(allowSameSign)
	return err == nil && math.Abs(mass-ev.ZBosonReferenceMass()) < window
}

// MtW returns the transverse mass of the lepton outside the Z candidate
// and the MET.
func (ev *Event) MtW(allowSameSign bool) (float64, error) {
	other, err := ev.WLeptonIndex(allowSameSign)
	if err != nil {
		return 0, err
	}
	if other < 0 {
		return 0, fmt.Errorf("event %d: %w", ev.tags.Event, ErrNoOtherLepton)
	}
	return l2objects.TransverseMass(ev.leptons.At(other), ev.met), nil
}
