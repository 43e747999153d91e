package l3leptons

import "github.com/ewkino/ewkino/internal/config"

// Step is one stage of a lepton selection cascade. Apply must not modify
// its input.
type Step struct {
	Name  string
	Apply func(*Collection) *Collection
}

// Pipeline is an ordered list of selection steps.
type Pipeline struct {
	Steps []Step
}

// NewPipeline returns a pipeline running steps in order.
func NewPipeline(steps ...Step) *Pipeline {
	return &Pipeline{Steps: steps}
}

// Run applies every step in order and returns the final collection. The
// input collection is left untouched.
func (p *Pipeline) Run(c *Collection) *Collection {
	out := c
	for _, s := range p.Steps {
		out = s.Apply(out)
	}
	if out == c {
		return c.Clone()
	}
	return out
}

// Trace is like Run but also returns the intermediate collection after each
// step, keyed by step position.
func (p *Pipeline) Trace(c *Collection) (*Collection, []*Collection) {
	stages := make([]*Collection, 0, len(p.Steps))
	out := c
	for _, s := range p.Steps {
		out = s.Apply(out)
		stages = append(stages, out)
	}
	if out == c {
		out = c.Clone()
	}
	return out, stages
}

// LooseStep keeps the loose leptons.
func LooseStep() Step {
	return Step{Name: "loose", Apply: (*Collection).LooseLeptonCollection}
}

// FOStep keeps the fakeable leptons.
func FOStep() Step {
	return Step{Name: "fo", Apply: (*Collection).FOLeptonCollection}
}

// TightStep keeps the tight leptons.
func TightStep() Step {
	return Step{Name: "tight", Apply: (*Collection).TightLeptonCollection}
}

// CleanElectronsStep removes electrons within coneSize of a loose muon.
func CleanElectronsStep(coneSize float64) Step {
	return Step{Name: "clean-electrons", Apply: func(c *Collection) *Collection {
		out := c.Clone()
		out.CleanElectronsFromLooseMuons(coneSize)
		return out
	}}
}

// CleanTausStep removes taus within coneSize of a loose light lepton.
func CleanTausStep(coneSize float64) Step {
	return Step{Name: "clean-taus", Apply: func(c *Collection) *Collection {
		out := c.Clone()
		out.CleanTausFromLooseLightLeptons(coneSize)
		return out
	}}
}

// ConeCorrectionStep replaces fakeable leptons by their cone-corrected copies.
func ConeCorrectionStep() Step {
	return Step{Name: "cone-correction", Apply: (*Collection).BuildConeCorrectedCollection}
}

// SortStep orders the collection by decreasing pt.
func SortStep() Step {
	return Step{Name: "sort", Apply: func(c *Collection) *Collection {
		out := c.Clone()
		out.SortByPt()
		return out
	}}
}

// DefaultCascade is the standard loose, clean, FO, tight chain with the
// cleaning cones taken from cfg.
func DefaultCascade(cfg *config.SelectionConfig) *Pipeline {
	return NewPipeline(
		LooseStep(),
		CleanElectronsStep(cfg.GetElectronCleaningCone()),
		CleanTausStep(cfg.GetTauCleaningCone()),
		FOStep(),
		TightStep(),
		SortStep(),
	)
}

// FakeableCascade stops at the FO tier and applies the cone correction, the
// selection used for nonprompt-background application regions.
func FakeableCascade(cfg *config.SelectionConfig) *Pipeline {
	return NewPipeline(
		LooseStep(),
		CleanElectronsStep(cfg.GetElectronCleaningCone()),
		CleanTausStep(cfg.GetTauCleaningCone()),
		FOStep(),
		ConeCorrectionStep(),
		SortStep(),
	)
}
