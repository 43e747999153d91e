package l5event

import (
	"errors"
	"fmt"

	"github.com/ewkino/ewkino/internal/config"
	"github.com/ewkino/ewkino/internal/reco/era"
	"github.com/ewkino/ewkino/internal/reco/l1input"
	"github.com/ewkino/ewkino/internal/reco/l2objects"
	"github.com/ewkino/ewkino/internal/reco/l3leptons"
	"github.com/ewkino/ewkino/internal/reco/l4jets"
)

var (
	ErrNoGeneratorInfo = errors.New("event has no generator information")
	ErrNoSusyMassInfo  = errors.New("event has no SUSY mass information")
	ErrNoParticleLevel = errors.New("event has no particle-level information")
	// ErrEventMoved is reported when a moved-from event is used.
	ErrEventMoved = errors.New("event has been moved")
)

// Options selects which optional records are built. A record is only
// built when it is requested and the sample provides it.
type Options struct {
	ReadGeneratorInfo bool
	ReadSusyMasses    bool
	ReadParticleLevel bool

	// Limits is applied by FromReader before the event is built. The zero
	// value applies no limits.
	Limits l1input.ArrayLimits
}

// DefaultOptions reads every optional record and takes the array limits
// from cfg.
func DefaultOptions(cfg *config.SelectionConfig) Options {
	return Options{
		ReadGeneratorInfo: true,
		ReadSusyMasses:    true,
		ReadParticleLevel: true,
		Limits:            l1input.LimitsFromConfig(cfg),
	}
}

// Selectors bundles the per-era selector tables attached to new objects
// and the reference mass of the Z candidate search.
type Selectors struct {
	Leptons *l3leptons.SelectorTable
	Jets    *l4jets.SelectorTable

	// ZMass is the Z candidate reference mass in GeV. Zero means
	// l2objects.MassZ.
	ZMass float64
}

// NewSelectors builds every selector table from cfg.
func NewSelectors(cfg *config.SelectionConfig) *Selectors {
	return &Selectors{
		Leptons: l3leptons.NewSelectorTable(cfg),
		Jets:    l4jets.NewSelectorTable(cfg),
		ZMass:   cfg.GetZMassGeV(),
	}
}

// Event is the reconstructed content of one collision. It exclusively owns
// its collections and records; the sample is shared between events.
type Event struct {
	leptons  *l3leptons.Collection
	jets     *l4jets.Collection
	met      *l4jets.MET
	triggers *TriggerInfo
	jetInfo  *JetInfo
	tags     EventTags

	generator     *GeneratorInfo
	susyMasses    *SusyMassInfo
	particleLevel *particleLevel

	sample           *l1input.Sample
	numberOfVertices int
	weight           float64

	zMass float64
	z     *zCandidate
	moved bool
}

// NewEvent builds an event from entry. The entry is read, never retained.
func NewEvent(entry *l1input.Entry, sample *l1input.Sample, opts Options, sel *Selectors) (*Event, error) {
	e := sample.Era
	leptons, err := l3leptons.NewCollectionFromEntry(entry, e, sel.Leptons)
	if err != nil {
		return nil, fmt.Errorf("event %d: %w", entry.Event, err)
	}
	jets, err := l4jets.NewCollectionFromEntry(entry, e, sel.Jets)
	if err != nil {
		return nil, fmt.Errorf("event %d: %w", entry.Event, err)
	}

	ev := &Event{
		leptons:          leptons,
		jets:             jets,
		met:              l4jets.NewMET(entry.MET, e),
		triggers:         newTriggerInfo(entry.Triggers),
		jetInfo:          newJetInfo(&entry.Jets),
		tags:             EventTags{Run: entry.Run, Lumi: entry.Lumi, Event: entry.Event},
		sample:           sample,
		numberOfVertices: entry.NVertex,
		weight:           1,
		zMass:            sel.ZMass,
	}
	if sample.IsMC() {
		ev.weight = entry.GenWeight
	}

	if opts.ReadGeneratorInfo && sample.HasGeneratorInfo {
		if entry.Generator == nil {
			return nil, fmt.Errorf("event %d: sample %s declares generator information but entry has none: %w",
				entry.Event, sample.UniqueName(), ErrNoGeneratorInfo)
		}
		ev.generator = newGeneratorInfo(entry.Generator)
	}
	if opts.ReadSusyMasses && sample.HasSusyMasses {
		if entry.SusyMasses == nil {
			return nil, fmt.Errorf("event %d: sample %s declares SUSY masses but entry has none: %w",
				entry.Event, sample.UniqueName(), ErrNoSusyMassInfo)
		}
		ev.susyMasses = &SusyMassInfo{MChi1: entry.SusyMasses.MChi1, MChi2: entry.SusyMasses.MChi2}
	}
	if opts.ReadParticleLevel && sample.HasParticleLevel {
		if entry.ParticleLevel == nil {
			return nil, fmt.Errorf("event %d: sample %s declares particle-level information but entry has none: %w",
				entry.Event, sample.UniqueName(), ErrNoParticleLevel)
		}
		ev.particleLevel = newParticleLevel(entry.ParticleLevel, e)
	}
	return ev, nil
}

// FromReader reads entry i from r, applies opts.Limits and builds the event.
func FromReader(r l1input.Reader, i int, opts Options, sel *Selectors) (*Event, error) {
	entry, err := r.Entry(i)
	if err != nil {
		return nil, err
	}
	if err := entry.EnforceLimits(opts.Limits); err != nil {
		return nil, err
	}
	return NewEvent(entry, r.Sample(), opts, sel)
}

// mustBeLive panics on a moved-from event.
func (ev *Event) mustBeLive() {
	if ev.moved {
		panic(ErrEventMoved)
	}
}

// IsMoved reports whether the content of ev was transferred with Move. A
// moved event holds nothing and must not be queried.
func (ev *Event) IsMoved() bool { return ev.moved }

// Reconstructed content. The returned collections are owned by ev.
func (ev *Event) LeptonCollection() *l3leptons.Collection { return ev.leptons }
func (ev *Event) JetCollection() *l4jets.Collection       { return ev.jets }
func (ev *Event) MET() *l4jets.MET                        { return ev.met }
func (ev *Event) TriggerInfo() *TriggerInfo               { return ev.triggers }
func (ev *Event) JetInfo() *JetInfo                       { return ev.jetInfo }
func (ev *Event) EventTags() EventTags                    { return ev.tags }

// Sample returns the sample the event was read from.
func (ev *Event) Sample() *l1input.Sample { return ev.sample }

// Sample-derived and per-event scalars.
func (ev *Event) Era() era.Era          { return ev.sample.Era }
func (ev *Event) IsData() bool          { return ev.sample.IsData }
func (ev *Event) IsMC() bool            { return ev.sample.IsMC() }
func (ev *Event) NumberOfVertices() int { return ev.numberOfVertices }

// Weight is the generator weight for simulation and 1 for data.
func (ev *Event) Weight() float64 { return ev.weight }

// ScaledWeight normalises the weight to the sample cross section for an
// integrated luminosity in pb⁻¹ given the sum of generator weights.
func (ev *Event) ScaledWeight(lumiPb, sumOfWeights float64) float64 {
	if ev.IsData() || sumOfWeights == 0 {
		return ev.weight
	}
	return ev.weight * ev.sample.XSecPb * lumiPb / sumOfWeights
}

// Guards for the optional records.
func (ev *Event) HasGeneratorInfo() bool { return !ev.moved && ev.generator != nil }
func (ev *Event) HasSusyMassInfo() bool  { return !ev.moved && ev.susyMasses != nil }
func (ev *Event) HasParticleLevel() bool { return !ev.moved && ev.particleLevel != nil }

// GeneratorInfo returns the generator record or ErrNoGeneratorInfo.
func (ev *Event) GeneratorInfo() (*GeneratorInfo, error) {
	if ev.moved {
		return nil, ErrEventMoved
	}
	if ev.generator == nil {
		return nil, ErrNoGeneratorInfo
	}
	return ev.generator, nil
}

// SusyMassInfo returns the SUSY mass record or ErrNoSusyMassInfo.
func (ev *Event) SusyMassInfo() (*SusyMassInfo, error) {
	if ev.moved {
		return nil, ErrEventMoved
	}
	if ev.susyMasses == nil {
		return nil, ErrNoSusyMassInfo
	}
	return ev.susyMasses, nil
}

func (ev *Event) particle() (*particleLevel, error) {
	if ev.moved {
		return nil, ErrEventMoved
	}
	if ev.particleLevel == nil {
		return nil, ErrNoParticleLevel
	}
	return ev.particleLevel, nil
}

// ParticleLevelLeptons returns the particle-level leptons or ErrNoParticleLevel.
func (ev *Event) ParticleLevelLeptons() (*l2objects.Collection[*GenLepton], error) {
	p, err := ev.particle()
	if err != nil {
		return nil, err
	}
	return p.leptons, nil
}

// ParticleLevelJets returns the particle-level jets or ErrNoParticleLevel.
func (ev *Event) ParticleLevelJets() (*l2objects.Collection[*GenJet], error) {
	p, err := ev.particle()
	if err != nil {
		return nil, err
	}
	return p.jets, nil
}

// ParticleLevelMET returns the particle-level MET or ErrNoParticleLevel.
func (ev *Event) ParticleLevelMET() (*l4jets.MET, error) {
	p, err := ev.particle()
	if err != nil {
		return nil, err
	}
	return p.met, nil
}

// Copy returns an independent deep copy. The sample is shared.
func (ev *Event) Copy() *Event {
	ev.mustBeLive()
	met := *ev.met
	c := &Event{
		leptons:          ev.leptons.Clone(),
		jets:             ev.jets.Clone(),
		met:              &met,
		triggers:         ev.triggers.clone(),
		jetInfo:          ev.jetInfo.clone(),
		tags:             ev.tags,
		sample:           ev.sample,
		numberOfVertices: ev.numberOfVertices,
		weight:           ev.weight,
		zMass:            ev.zMass,
	}
	if ev.generator != nil {
		c.generator = ev.generator.clone()
	}
	if ev.susyMasses != nil {
		s := *ev.susyMasses
		c.susyMasses = &s
	}
	if ev.particleLevel != nil {
		c.particleLevel = ev.particleLevel.clone()
	}
	if ev.z != nil {
		z := *ev.z
		c.z = &z
	}
	return c
}

// Move transfers the content of ev to a new event and leaves ev empty.
// Copy and Move panic with ErrEventMoved on a moved event, and accessors
// with an error result return it.
func (ev *Event) Move() *Event {
	ev.mustBeLive()
	moved := *ev
	*ev = Event{moved: true}
	return &moved
}

// VariedLeptonCollectionEvent returns a copy of ev whose lepton collection
// is transform applied to ev's leptons. ev is not modified. The copy starts without a
// cached Z candidate because its leptons differ.
func (ev *Event) VariedLeptonCollectionEvent(transform func(*l3leptons.Collection) *l3leptons.Collection) *Event {
	c := ev.Copy()
	c.leptons = transform(c.leptons)
	c.z = nil
	return c
}

// ElectronScaleUpEvent varies the electron energy scale up.
func (ev *Event) ElectronScaleUpEvent() *Event {
	return ev.VariedLeptonCollectionEvent((*l3leptons.Collection).ElectronScaleUpCollection)
}

// ElectronScaleDownEvent varies the electron energy scale down.
func (ev *Event) ElectronScaleDownEvent() *Event {
	return ev.VariedLeptonCollectionEvent((*l3leptons.Collection).ElectronScaleDownCollection)
}

// ElectronResolutionUpEvent varies the electron resolution up.
func (ev *Event) ElectronResolutionUpEvent() *Event {
	return ev.VariedLeptonCollectionEvent((*l3leptons.Collection).ElectronResolutionUpCollection)
}

// ElectronResolutionDownEvent varies the electron resolution down.
func (ev *Event) ElectronResolutionDownEvent() *Event {
	return ev.VariedLeptonCollectionEvent((*l3leptons.Collection).ElectronResolutionDownCollection)
}

// WithLeptonPipeline returns a copy of ev whose leptons are the output of p.
func (ev *Event) WithLeptonPipeline(p *l3leptons.Pipeline) *Event {
	return ev.VariedLeptonCollectionEvent(p.Run)
}

// VariedJetEvent returns a copy of ev with varied jets and MET.
func (ev *Event) VariedJetEvent(jets func(*l4jets.Collection) *l4jets.Collection, met func(*l4jets.MET) *l4jets.MET) *Event {
	c := ev.Copy()
	c.jets = jets(c.jets)
	c.met = met(c.met)
	return c
}

// JECUpEvent varies jets and MET with the jet energy scale up.
func (ev *Event) JECUpEvent() *Event {
	return ev.VariedJetEvent((*l4jets.Collection).JECUpCollection, (*l4jets.MET).JECUp)
}

// JECDownEvent varies jets and MET with the jet energy scale down.
func (ev *Event) JECDownEvent() *Event {
	return ev.VariedJetEvent((*l4jets.Collection).JECDownCollection, (*l4jets.MET).JECDown)
}

// JERUpEvent varies the jet resolution up; the MET is kept.
func (ev *Event) JERUpEvent() *Event {
	return ev.VariedJetEvent((*l4jets.Collection).JERUpCollection, keepMET)
}

// JERDownEvent varies the jet resolution down; the MET is kept.
func (ev *Event) JERDownEvent() *Event {
	return ev.VariedJetEvent((*l4jets.Collection).JERDownCollection, keepMET)
}

// UnclusteredUpEvent varies the unclustered MET up; jets are kept.
func (ev *Event) UnclusteredUpEvent() *Event {
	return ev.VariedJetEvent(keepJets, (*l4jets.MET).UnclusteredUp)
}

// UnclusteredDownEvent varies the unclustered MET down; jets are kept.
func (ev *Event) UnclusteredDownEvent() *Event {
	return ev.VariedJetEvent(keepJets, (*l4jets.MET).UnclusteredDown)
}

func keepMET(m *l4jets.MET) *l4jets.MET                { return m }
func keepJets(c *l4jets.Collection) *l4jets.Collection { return c }
