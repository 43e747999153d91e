package l4jets

import (
	"errors"
	"fmt"

	"github.com/ewkino/ewkino/internal/reco/era"
	"github.com/ewkino/ewkino/internal/reco/l1input"
	"github.com/ewkino/ewkino/internal/reco/l2objects"
)

var (
	// ErrInvalidArgument is returned for out-of-range collection requests.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnknownJECSource is returned for a split JEC source the entry does
	// not provide.
	ErrUnknownJECSource = errors.New("unknown JEC source")
)

// Collection is the jet collection of one event.
type Collection struct {
	*l2objects.Collection[*Jet]
}

// NewCollection returns a collection holding jets in the given order.
func NewCollection(jets ...*Jet) *Collection {
	return &Collection{Collection: l2objects.NewCollection(jets...)}
}

// NewCollectionFromEntry builds the jet collection of entry.
func NewCollectionFromEntry(entry *l1input.Entry, e era.Era, table *SelectorTable) (*Collection, error) {
	if err := entry.CheckBoundaries(); err != nil {
		return nil, fmt.Errorf("jet collection: %w", err)
	}
	sel, err := table.Jet(e)
	if err != nil {
		return nil, err
	}
	j := &entry.Jets
	jets := make([]*Jet, 0, j.N)
	for i := 0; i < j.N; i++ {
		obj := l2objects.NewPhysicsObject(j.Pt[i], j.Eta[i], j.Phi[i], j.E[i], e)
		jets = append(jets, newJet(obj, j, i, sel))
	}
	return NewCollection(jets...), nil
}

// Clone returns a collection sharing the same jet handles.
func (c *Collection) Clone() *Collection {
	return &Collection{Collection: c.Collection.Clone()}
}

func isGood(j *Jet) bool { return j.IsGood() }

// SelectGoodJets removes, in place, every jet failing the good-jet selection.
func (c *Collection) SelectGoodJets() { c.Select(isGood) }

// GoodJetCollection returns the good jets without modifying c.
func (c *Collection) GoodJetCollection() *Collection {
	return &Collection{Collection: c.Selected(isGood)}
}

// CleanJetsFromLeptons removes, in place, every jet within coneSize of any
// of the given objects.
func (c *Collection) CleanJetsFromLeptons(leptons []l2objects.Kinematic, coneSize float64) {
	others := l2objects.NewCollection(leptons...)
	c.Select(func(j *Jet) bool {
		return l2objects.MinDeltaR(j, others, nil) >= coneSize
	})
}

// NumberOfGoodJets counts the jets passing the good-jet selection.
func (c *Collection) NumberOfGoodJets() int { return c.Count(isGood) }

// B-tagged jet counts at the era working points.
func (c *Collection) NumberOfLooseBTaggedJets() int  { return c.Count((*Jet).IsBTaggedLoose) }
func (c *Collection) NumberOfMediumBTaggedJets() int { return c.Count((*Jet).IsBTaggedMedium) }
func (c *Collection) NumberOfTightBTaggedJets() int  { return c.Count((*Jet).IsBTaggedTight) }

// HT returns the scalar pt sum of all jets in c.
func (c *Collection) HT() float64 { return l2objects.ScalarPtSum(c.Collection) }

// SortByPt stably sorts c by decreasing pt.
func (c *Collection) SortByPt() { l2objects.SortByPt(c.Collection) }

// LeadingJetCollection sorts c by pt and returns its n leading jets.
func (c *Collection) LeadingJetCollection(n int) (*Collection, error) {
	if n < 0 || n > c.Len() {
		return nil, fmt.Errorf("%w: requested %d leading jets from a collection of %d", ErrInvalidArgument, n, c.Len())
	}
	c.SortByPt()
	return &Collection{Collection: c.Head(n)}, nil
}

// BuildVariedCollection returns a new collection with variation applied to
// every jet. c and its jets are not modified.
func (c *Collection) BuildVariedCollection(variation func(*Jet) *Jet) *Collection {
	varied := make([]*Jet, 0, c.Len())
	for _, j := range c.All() {
		varied = append(varied, variation(j))
	}
	return NewCollection(varied...)
}

// Jet energy scale and resolution variations.
func (c *Collection) JECUpCollection() *Collection   { return c.BuildVariedCollection((*Jet).JECUp) }
func (c *Collection) JECDownCollection() *Collection { return c.BuildVariedCollection((*Jet).JECDown) }
func (c *Collection) JERUpCollection() *Collection   { return c.BuildVariedCollection((*Jet).JERUp) }
func (c *Collection) JERDownCollection() *Collection { return c.BuildVariedCollection((*Jet).JERDown) }

// JECSourceUpCollection varies every jet up by the named split JEC source.
func (c *Collection) JECSourceUpCollection(source string) (*Collection, error) {
	return c.buildSourceVaried(source, (*Jet).JECSourceUp)
}

// JECSourceDownCollection varies every jet down by the named split JEC source.
func (c *Collection) JECSourceDownCollection(source string) (*Collection, error) {
	return c.buildSourceVaried(source, (*Jet).JECSourceDown)
}

func (c *Collection) buildSourceVaried(source string, vary func(*Jet, string) (*Jet, error)) (*Collection, error) {
	varied := make([]*Jet, 0, c.Len())
	for i, j := range c.All() {
		v, err := vary(j, source)
		if err != nil {
			return nil, fmt.Errorf("jet %d: %w", i, err)
		}
		varied = append(varied, v)
	}
	return NewCollection(varied...), nil
}
