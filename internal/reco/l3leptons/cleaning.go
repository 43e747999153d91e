package l3leptons

import "github.com/ewkino/ewkino/internal/reco/l2objects"

// Clean removes overlapping leptons in place. For every lepton l1 with
// isFlavorToClean(l1), the other leptons l2 are scanned in container order;
// the first l2 with isFlavorToCleanFrom(l2) && passSelection(l2) and
// ΔR(l1, l2) < coneSize removes l1 (first match wins, see firstMatchWins).
// Removed leptons no longer act as cleaning partners for later ones.
func (c *Collection) Clean(isFlavorToClean, isFlavorToCleanFrom, passSelection func(Lepton) bool, coneSize float64) {
	leptons := c.Objects()
	removed := make([]bool, len(leptons))
	for i, l1 := range leptons {
		if !isFlavorToClean(l1) {
			continue
		}
		partner := func(j int) bool {
			l2 := leptons[j]
			return isFlavorToCleanFrom(l2) && passSelection(l2) &&
				l2objects.DeltaR(l1, l2) < coneSize
		}
		if firstMatchWins(i, len(leptons), removed, partner) >= 0 {
			removed[i] = true
		}
	}

	kept := make([]Lepton, 0, len(leptons))
	for i, l := range leptons {
		if !removed[i] {
			kept = append(kept, l)
		}
	}
	c.Collection = l2objects.NewCollection(kept...)
}

// firstMatchWins is the overlap tie-break rule: it returns the first
// position j != i, in container order, that is still present and matches,
// or -1. The nearest partner is deliberately not searched for; the outcome
// of cleaning only depends on whether some partner exists within the cone.
func firstMatchWins(i, n int, removed []bool, matches func(j int) bool) int {
	for j := 0; j < n; j++ {
		if j == i || removed[j] {
			continue
		}
		if matches(j) {
			return j
		}
	}
	return -1
}

// CleanElectronsFromLooseMuons removes electrons within coneSize of a loose muon.
func (c *Collection) CleanElectronsFromLooseMuons(coneSize float64) {
	c.Clean(isElectron, isMuon, isLoose, coneSize)
}

// CleanElectronsFromFOMuons removes electrons within coneSize of an FO muon.
func (c *Collection) CleanElectronsFromFOMuons(coneSize float64) {
	c.Clean(isElectron, isMuon, isFO, coneSize)
}

// CleanTausFromLooseLightLeptons removes taus within coneSize of a loose light lepton.
func (c *Collection) CleanTausFromLooseLightLeptons(coneSize float64) {
	c.Clean(isTau, isLightLepton, isLoose, coneSize)
}

// CleanTausFromFOLightLeptons removes taus within coneSize of an FO light lepton.
func (c *Collection) CleanTausFromFOLightLeptons(coneSize float64) {
	c.Clean(isTau, isLightLepton, isFO, coneSize)
}
