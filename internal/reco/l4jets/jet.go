package l4jets

import (
	"fmt"
	"math"

	"github.com/ewkino/ewkino/internal/config"
	"github.com/ewkino/ewkino/internal/reco/era"
	"github.com/ewkino/ewkino/internal/reco/l1input"
	"github.com/ewkino/ewkino/internal/reco/l2objects"
)

// Good-jet acceptance.
const (
	GoodJetPtMin  = 25.0
	GoodJetEtaMax = 2.4
	BTagEtaMax    = 2.4
)

// Jet is a reconstructed hadronic jet.
type Jet struct {
	l2objects.PhysicsObject
	deepFlavor   float64
	isTight      bool
	hadronFlavor int

	ptJECUp   float64
	ptJECDown float64
	ptJERUp   float64
	ptJERDown float64

	sourceUp   map[string]float64
	sourceDown map[string]float64

	sel *Selector
}

func newJet(obj l2objects.PhysicsObject, j *l1input.JetArrays, i int, sel *Selector) *Jet {
	jet := &Jet{
		PhysicsObject: obj,
		deepFlavor:    l1input.Float(j.DeepFlavor, i),
		isTight:       l1input.Bool(j.IsTight, i),
		hadronFlavor:  l1input.Int(j.HadronFlavor, i),
		ptJECUp:       orPt(j.PtJECUp, i, obj.Pt()),
		ptJECDown:     orPt(j.PtJECDown, i, obj.Pt()),
		ptJERUp:       orPt(j.PtJERUp, i, obj.Pt()),
		ptJERDown:     orPt(j.PtJERDown, i, obj.Pt()),
		sel:           sel,
	}
	if len(j.PtJECSourceUp) > 0 {
		jet.sourceUp = make(map[string]float64, len(j.PtJECSourceUp))
		for name, values := range j.PtJECSourceUp {
			jet.sourceUp[name] = orPt(values, i, obj.Pt())
		}
	}
	if len(j.PtJECSourceDown) > 0 {
		jet.sourceDown = make(map[string]float64, len(j.PtJECSourceDown))
		for name, values := range j.PtJECSourceDown {
			jet.sourceDown[name] = orPt(values, i, obj.Pt())
		}
	}
	return jet
}

// orPt returns values[i], falling back to the nominal pt when the variation
// is missing or unphysical.
func orPt(values []float64, i int, nominal float64) float64 {
	if v := l1input.Float(values, i); v > 0 {
		return v
	}
	return nominal
}

// Identification inputs.
func (j *Jet) DeepFlavor() float64 { return j.deepFlavor }
func (j *Jet) IsTightID() bool     { return j.isTight }
func (j *Jet) HadronFlavor() int   { return j.hadronFlavor }

// IsGood applies the analysis jet acceptance and identification.
func (j *Jet) IsGood() bool { return j.sel.IsGood(j) }

// B-tag decisions at the era working points.
func (j *Jet) IsBTaggedLoose() bool  { return j.sel.IsBTagged(j, j.sel.WorkingPoints.Loose) }
func (j *Jet) IsBTaggedMedium() bool { return j.sel.IsBTagged(j, j.sel.WorkingPoints.Medium) }
func (j *Jet) IsBTaggedTight() bool  { return j.sel.IsBTagged(j, j.sel.WorkingPoints.Tight) }

// withPt returns a copy rescaled to pt; the other variations are kept.
func (j *Jet) withPt(pt float64) *Jet {
	c := *j
	if j.Pt() > 0 {
		c.PhysicsObject = j.PhysicsObject.Scaled(pt / j.Pt())
	}
	return &c
}

// Varied jets; missing variations fall back to the nominal pt.
func (j *Jet) JECUp() *Jet   { return j.withPt(j.ptJECUp) }
func (j *Jet) JECDown() *Jet { return j.withPt(j.ptJECDown) }
func (j *Jet) JERUp() *Jet   { return j.withPt(j.ptJERUp) }
func (j *Jet) JERDown() *Jet { return j.withPt(j.ptJERDown) }

// JECSourceUp returns the jet shifted up by the named split JEC source. An
// unknown source is an error.
func (j *Jet) JECSourceUp(source string) (*Jet, error) {
	pt, ok := j.sourceUp[source]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownJECSource, source)
	}
	return j.withPt(pt), nil
}

// JECSourceDown returns the jet shifted down by the named split JEC source.
func (j *Jet) JECSourceDown(source string) (*Jet, error) {
	pt, ok := j.sourceDown[source]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownJECSource, source)
	}
	return j.withPt(pt), nil
}

// Selector holds the jet identification and b-tag working points of one era.
type Selector struct {
	Era           era.Era
	WorkingPoints config.BTagWorkingPoints
}

// IsGood applies the kinematic and tight-ID good-jet selection.
func (s *Selector) IsGood(j *Jet) bool {
	return j.isTight && j.Pt() >= GoodJetPtMin && math.Abs(j.Eta()) < GoodJetEtaMax
}

// IsBTagged reports a good jet within tracker acceptance scoring above wp.
func (s *Selector) IsBTagged(j *Jet, wp float64) bool {
	return s.IsGood(j) && math.Abs(j.Eta()) < BTagEtaMax && j.deepFlavor > wp
}

// SelectorTable maps each era to its jet selector.
type SelectorTable struct {
	byEra map[era.Era]*Selector
}

// NewSelectorTable builds jet selectors for every supported era.
func NewSelectorTable(cfg *config.SelectionConfig) *SelectorTable {
	t := &SelectorTable{byEra: make(map[era.Era]*Selector)}
	for _, e := range era.All() {
		t.byEra[e] = &Selector{Era: e, WorkingPoints: cfg.GetBTagWorkingPoints(e)}
	}
	return t
}

// Jet returns the jet selector for e.
func (t *SelectorTable) Jet(e era.Era) (*Selector, error) {
	if s, ok := t.byEra[e]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("no jet selector for era %s: %w", e, era.ErrUnknownEra)
}
