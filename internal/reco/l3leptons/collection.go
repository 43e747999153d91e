package l3leptons

import (
	"errors"
	"fmt"

	"github.com/ewkino/ewkino/internal/reco/era"
	"github.com/ewkino/ewkino/internal/reco/l1input"
	"github.com/ewkino/ewkino/internal/reco/l2objects"
)

// ErrInvalidArgument is returned for out-of-range collection requests.
var ErrInvalidArgument = errors.New("invalid argument")

// Collection is the lepton collection of one event. Handles are shared with
// every collection derived from it; leptons are immutable, so derived
// collections never observe each other's changes.
type Collection struct {
	*l2objects.Collection[Lepton]
}

// NewCollection returns a collection holding leptons in the given order.
func NewCollection(leptons ...Lepton) *Collection {
	return &Collection{Collection: l2objects.NewCollection(leptons...)}
}

func wrap(c *l2objects.Collection[Lepton]) *Collection {
	return &Collection{Collection: c}
}

// NewCollectionFromEntry builds the lepton collection of entry. Muons are
// taken from [0, NMuon), electrons from [NMuon, NLight) and taus from
// [NLight, NTotal); the boundaries are checked first because a violation
// would silently mislabel objects.
func NewCollectionFromEntry(entry *l1input.Entry, e era.Era, table *SelectorTable) (*Collection, error) {
	if err := entry.CheckBoundaries(); err != nil {
		return nil, fmt.Errorf("lepton collection: %w", err)
	}
	muSel, err := table.Muon(e)
	if err != nil {
		return nil, err
	}
	elSel, err := table.Electron(e)
	if err != nil {
		return nil, err
	}
	tauSel, err := table.Tau(e)
	if err != nil {
		return nil, err
	}

	l := &entry.Leptons
	leptons := make([]Lepton, 0, l.NTotal)
	for i := 0; i < l.NTotal; i++ {
		obj := l2objects.NewPhysicsObject(l.Pt[i], l.Eta[i], l.Phi[i], l.E[i], e)
		switch {
		case i < l.NMuon:
			leptons = append(leptons, newMuon(obj, l, i, muSel))
		case i < l.NLight:
			leptons = append(leptons, newElectron(obj, l, i, elSel))
		default:
			leptons = append(leptons, newTau(obj, l, i, tauSel))
		}
	}
	return &Collection{Collection: l2objects.NewCollection(leptons...)}, nil
}

// Clone returns a collection sharing the same lepton handles.
func (c *Collection) Clone() *Collection { return wrap(c.Collection.Clone()) }

// Selected returns the leptons passing keep as a new collection.
func (c *Collection) Selected(keep func(Lepton) bool) *Collection {
	return wrap(c.Collection.Selected(keep))
}

func isLoose(l Lepton) bool { return l.IsLoose() }
func isFO(l Lepton) bool    { return l.IsFO() }
func isTight(l Lepton) bool { return l.IsTight() }

func isMuon(l Lepton) bool        { return l.IsMuon() }
func isElectron(l Lepton) bool    { return l.IsElectron() }
func isTau(l Lepton) bool         { return l.IsTau() }
func isLightLepton(l Lepton) bool { return l.IsLightLepton() }

// SelectLooseLeptons removes, in place, every lepton failing the loose tier.
func (c *Collection) SelectLooseLeptons() { c.Select(isLoose) }

// SelectFOLeptons removes, in place, every lepton failing the FO tier.
func (c *Collection) SelectFOLeptons() { c.Select(isFO) }

// SelectTightLeptons removes, in place, every lepton failing the tight tier.
func (c *Collection) SelectTightLeptons() { c.Select(isTight) }

// LooseLeptonCollection returns the loose leptons without modifying c.
func (c *Collection) LooseLeptonCollection() *Collection { return c.Selected(isLoose) }

// FOLeptonCollection returns the FO leptons without modifying c.
func (c *Collection) FOLeptonCollection() *Collection { return c.Selected(isFO) }

// TightLeptonCollection returns the tight leptons without modifying c.
func (c *Collection) TightLeptonCollection() *Collection { return c.Selected(isTight) }

// Tier counts. Each tier is a subset of the previous one.
func (c *Collection) NumberOfLooseLeptons() int { return c.Count(isLoose) }
func (c *Collection) NumberOfFOLeptons() int    { return c.Count(isFO) }
func (c *Collection) NumberOfTightLeptons() int { return c.Count(isTight) }

// Flavour counts.
func (c *Collection) NumberOfMuons() int        { return c.Count(isMuon) }
func (c *Collection) NumberOfElectrons() int    { return c.Count(isElectron) }
func (c *Collection) NumberOfTaus() int         { return c.Count(isTau) }
func (c *Collection) NumberOfLightLeptons() int { return c.Count(isLightLepton) }

// MuonCollection returns the muons of c, sharing handles.
func (c *Collection) MuonCollection() *l2objects.Collection[*Muon] {
	return l2objects.OfType[*Muon](c.Collection)
}

// ElectronCollection returns the electrons of c, sharing handles.
func (c *Collection) ElectronCollection() *l2objects.Collection[*Electron] {
	return l2objects.OfType[*Electron](c.Collection)
}

// TauCollection returns the taus of c, sharing handles.
func (c *Collection) TauCollection() *l2objects.Collection[*Tau] {
	return l2objects.OfType[*Tau](c.Collection)
}

// LightLeptonCollection returns the electrons and muons of c in container
// order, sharing handles.
func (c *Collection) LightLeptonCollection() *Collection { return c.Selected(isLightLepton) }

// SortByPt stably sorts c by decreasing pt.
func (c *Collection) SortByPt() { l2objects.SortByPt(c.Collection) }

// ScalarPtSum returns the scalar pt sum of all leptons.
func (c *Collection) ScalarPtSum() float64 { return l2objects.ScalarPtSum(c.Collection) }

// Mass returns the invariant mass of all leptons.
func (c *Collection) Mass() float64 { return l2objects.Mass(c.Collection) }

// LeadingLeptonCollection sorts c by pt and returns its n leading leptons as
// a new collection sharing handles. n larger than the collection is an
// ErrInvalidArgument.
func (c *Collection) LeadingLeptonCollection(n int) (*Collection, error) {
	if n < 0 || n > c.Len() {
		return nil, fmt.Errorf("%w: requested %d leading leptons from a collection of %d", ErrInvalidArgument, n, c.Len())
	}
	c.SortByPt()
	return wrap(c.Head(n)), nil
}
