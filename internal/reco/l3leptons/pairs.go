package l3leptons

import (
	"errors"
	"fmt"
	"math"

	"github.com/ewkino/ewkino/internal/reco/l2objects"
)

var (
	// ErrNoOSSFPair is returned when an opposite-sign same-flavour light
	// lepton pair is required but absent.
	ErrNoOSSFPair = errors.New("no opposite-sign same-flavor light lepton pair")
	// ErrNoSameFlavorPair is returned when same-sign candidates are allowed
	// but no same-flavour light lepton pair exists at all.
	ErrNoSameFlavorPair = errors.New("no same-flavor light lepton pair")
)

// FlavorCharge classifies the charge and flavour content of a collection.
type FlavorCharge int

const (
	ZeroOrOneLepton FlavorCharge = iota
	SS
	OS
	OSSFTau
	OSSFLight
)

// String returns the class name used in summaries.
func (fc FlavorCharge) String() string {
	switch fc {
	case OSSFLight:
		return "OSSF_light"
	case OSSFTau:
		return "OSSF_tau"
	case OS:
		return "OS"
	case SS:
		return "SS"
	}
	return "ZeroOrOneLepton"
}

// FlavorChargeCombination scans all unordered pairs. Any opposite-sign pair
// makes the result at least OS; an opposite-sign light pair of the same
// flavour returns OSSFLight immediately, while a same-flavour tau pair is
// remembered as OSSFTau and can still be overridden by a later light pair.
func (c *Collection) FlavorChargeCombination() FlavorCharge {
	if c.Len() < 2 {
		return ZeroOrOneLepton
	}
	result := SS
	for i := 0; i < c.Len(); i++ {
		for j := i + 1; j < c.Len(); j++ {
			a, b := c.At(i), c.At(j)
			if !OppositeSign(a, b) {
				continue
			}
			if result == SS {
				result = OS
			}
			if !SameFlavor(a, b) {
				continue
			}
			if a.IsLightLepton() {
				return OSSFLight
			}
			if a.IsTau() {
				result = OSSFTau
			}
		}
	}
	return result
}

// HasOSSFPair reports an opposite-sign same-flavour pair of any flavour.
func (c *Collection) HasOSSFPair() bool {
	fc := c.FlavorChargeCombination()
	return fc == OSSFLight || fc == OSSFTau
}

// HasLightOSSFPair reports an opposite-sign same-flavour electron or muon pair.
func (c *Collection) HasLightOSSFPair() bool {
	return c.FlavorChargeCombination() == OSSFLight
}

// HasOSPair reports any opposite-sign pair.
func (c *Collection) HasOSPair() bool {
	fc := c.FlavorChargeCombination()
	return fc == OSSFLight || fc == OSSFTau || fc == OS
}

// IsSameSign reports a collection of two or more leptons of equal charge.
func (c *Collection) IsSameSign() bool {
	return c.FlavorChargeCombination() == SS
}

// NumberOfUniquePairs greedily counts disjoint pairs satisfying condition.
// Each unused lepton, in container order, is paired with the first later
// unused lepton that satisfies condition. The count depends on container
// order and is not a maximum matching.
func (c *Collection) NumberOfUniquePairs(condition func(a, b Lepton) bool) int {
	used := make([]bool, c.Len())
	pairs := 0
	for i := 0; i < c.Len(); i++ {
		if used[i] {
			continue
		}
		for j := i + 1; j < c.Len(); j++ {
			if used[j] {
				continue
			}
			if condition(c.At(i), c.At(j)) {
				used[i], used[j] = true, true
				pairs++
				break
			}
		}
	}
	return pairs
}

// NumberOfUniqueOSSFPairs counts disjoint opposite-sign same-flavour pairs.
func (c *Collection) NumberOfUniqueOSSFPairs() int { return c.NumberOfUniquePairs(OSSF) }

// NumberOfUniqueOSPairs counts disjoint opposite-sign pairs.
func (c *Collection) NumberOfUniqueOSPairs() int { return c.NumberOfUniquePairs(OppositeSign) }

// Pair holds two positions in a collection, First < Second.
type Pair struct {
	First  int
	Second int
}

// Contains reports whether i is one of the pair's positions.
func (p Pair) Contains(i int) bool { return p.First == i || p.Second == i }

// BestZBosonCandidateIndicesAndMass returns the positions and mass of the
// same-flavour light lepton pair whose mass is closest to MassZ. Unless
// allowSameSign is set, only opposite-sign pairs qualify. Positions refer to
// the current container order; sort by pt first for leading/trailing
// semantics.
func (c *Collection) BestZBosonCandidateIndicesAndMass(allowSameSign bool) (Pair, float64, error) {
	return c.BestResonanceCandidate(l2objects.MassZ, allowSameSign)
}

// BestResonanceCandidate is BestZBosonCandidateIndicesAndMass for an
// arbitrary reference mass. On equal distances the first pair found wins.
func (c *Collection) BestResonanceCandidate(referenceMass float64, allowSameSign bool) (Pair, float64, error) {
	best := Pair{First: -1, Second: -1}
	bestMass := 0.0
	bestDiff := math.Inf(1)
	for i := 0; i < c.Len(); i++ {
		a := c.At(i)
		if a.IsTau() {
			continue
		}
		for j := i + 1; j < c.Len(); j++ {
			b := c.At(j)
			if b.IsTau() || !SameFlavor(a, b) {
				continue
			}
			if !allowSameSign && !OppositeSign(a, b) {
				continue
			}
			mass := l2objects.InvariantMass(a, b)
			if diff := math.Abs(mass - referenceMass); diff < bestDiff {
				best, bestMass, bestDiff = Pair{First: i, Second: j}, mass, diff
			}
		}
	}
	if best.First < 0 {
		if allowSameSign {
			return best, 0, fmt.Errorf("best resonance candidate: %w", ErrNoSameFlavorPair)
		}
		return best, 0, fmt.Errorf("best resonance candidate: %w", ErrNoOSSFPair)
	}
	return best, bestMass, nil
}
