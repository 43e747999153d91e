package l5event

import (
	"maps"
	"slices"

	"github.com/ewkino/ewkino/internal/reco/era"
	"github.com/ewkino/ewkino/internal/reco/l1input"
	"github.com/ewkino/ewkino/internal/reco/l2objects"
	"github.com/ewkino/ewkino/internal/reco/l4jets"
)

// TriggerInfo holds the trigger decisions of one event.
type TriggerInfo struct {
	decisions map[string]bool
}

func newTriggerInfo(decisions map[string]bool) *TriggerInfo {
	return &TriggerInfo{decisions: maps.Clone(decisions)}
}

// PassTrigger reports whether the named trigger fired. Unknown triggers
// did not fire.
func (t *TriggerInfo) PassTrigger(name string) bool { return t.decisions[name] }

// HasTrigger reports whether a decision is stored for name.
func (t *TriggerInfo) HasTrigger(name string) bool {
	_, ok := t.decisions[name]
	return ok
}

// PassAny reports whether at least one of names fired.
func (t *TriggerInfo) PassAny(names ...string) bool {
	return slices.ContainsFunc(names, t.PassTrigger)
}

// Names returns the stored trigger names in sorted order.
func (t *TriggerInfo) Names() []string { return slices.Sorted(maps.Keys(t.decisions)) }

func (t *TriggerInfo) clone() *TriggerInfo { return newTriggerInfo(t.decisions) }

// JetInfo lists the split JEC uncertainty sources available for the jets.
type JetInfo struct {
	JECSources []string
}

func newJetInfo(j *l1input.JetArrays) *JetInfo {
	return &JetInfo{JECSources: slices.Sorted(maps.Keys(j.PtJECSourceUp))}
}

// HasJECSource reports whether source is available.
func (j *JetInfo) HasJECSource(source string) bool {
	_, found := slices.BinarySearch(j.JECSources, source)
	return found
}

func (j *JetInfo) clone() *JetInfo { return &JetInfo{JECSources: slices.Clone(j.JECSources)} }

// EventTags identifies the event within its run.
type EventTags struct {
	Run   uint32
	Lumi  uint32
	Event uint64
}

// GeneratorInfo holds simulation-only generator quantities.
type GeneratorInfo struct {
	LHEWeights               []float64
	PartonShowerWeights      []float64
	PrefireWeight            float64
	PrefireWeightUp          float64
	PrefireWeightDown        float64
	TrueNumberOfInteractions float64
	GenMETPt                 float64
	GenMETPhi                float64
	GenHT                    float64
}

func newGeneratorInfo(r *l1input.GeneratorRecord) *GeneratorInfo {
	g := &GeneratorInfo{
		PrefireWeight:            r.PrefireWeight,
		PrefireWeightUp:          r.PrefireWeightUp,
		PrefireWeightDown:        r.PrefireWeightDown,
		TrueNumberOfInteractions: r.TrueNumberOfInteractions,
		GenMETPt:                 r.GenMETPt,
		GenMETPhi:                r.GenMETPhi,
		GenHT:                    r.GenHT,
	}
	g.LHEWeights = slices.Clone(r.LHEWeights)
	g.PartonShowerWeights = slices.Clone(r.PartonShowerWeights)
	return g
}

// NumberOfLHEWeights returns the number of stored LHE weights.
func (g *GeneratorInfo) NumberOfLHEWeights() int { return len(g.LHEWeights) }

func (g *GeneratorInfo) clone() *GeneratorInfo {
	c := *g
	c.LHEWeights = slices.Clone(g.LHEWeights)
	c.PartonShowerWeights = slices.Clone(g.PartonShowerWeights)
	return &c
}

// SusyMassInfo holds the generated neutralino masses of signal samples.
type SusyMassInfo struct {
	MChi1 float64
	MChi2 float64
}

// GenLepton is a particle-level (dressed) lepton.
type GenLepton struct {
	l2objects.PhysicsObject
	Charge int
	PdgID  int
}

// GenJet is a particle-level jet.
type GenJet struct {
	l2objects.PhysicsObject
	HadronFlavor int
}

// particleLevel groups the three particle-level records.
type particleLevel struct {
	leptons *l2objects.Collection[*GenLepton]
	jets    *l2objects.Collection[*GenJet]
	met     *l4jets.MET
}

func newParticleLevel(r *l1input.ParticleLevelRecord, e era.Era) *particleLevel {
	leptons := make([]*GenLepton, 0, r.NLeptons)
	for i := 0; i < r.NLeptons; i++ {
		leptons = append(leptons, &GenLepton{
			PhysicsObject: l2objects.NewPhysicsObject(r.LeptonPt[i], r.LeptonEta[i], r.LeptonPhi[i], r.LeptonE[i], e),
			Charge:        l1input.Int(r.LeptonCharge, i),
			PdgID:         l1input.Int(r.LeptonPdgID, i),
		})
	}
	jets := make([]*GenJet, 0, r.NJets)
	for i := 0; i < r.NJets; i++ {
		jets = append(jets, &GenJet{
			PhysicsObject: l2objects.NewPhysicsObject(r.JetPt[i], r.JetEta[i], r.JetPhi[i], r.JetE[i], e),
			HadronFlavor:  l1input.Int(r.JetHadronFlavor, i),
		})
	}
	return &particleLevel{
		leptons: l2objects.NewCollection(leptons...),
		jets:    l2objects.NewCollection(jets...),
		met:     l4jets.NewMET(l1input.METRecord{Pt: r.METPt, Phi: r.METPhi}, e),
	}
}

func (p *particleLevel) clone() *particleLevel {
	leptons := make([]*GenLepton, 0, p.leptons.Len())
	for _, l := range p.leptons.All() {
		c := *l
		leptons = append(leptons, &c)
	}
	jets := make([]*GenJet, 0, p.jets.Len())
	for _, j := range p.jets.All() {
		c := *j
		jets = append(jets, &c)
	}
	met := *p.met
	return &particleLevel{
		leptons: l2objects.NewCollection(leptons...),
		jets:    l2objects.NewCollection(jets...),
		met:     &met,
	}
}
