package l1input

import (
	"errors"
	"fmt"

	"github.com/ewkino/ewkino/internal/config"
	"github.com/ewkino/ewkino/internal/monitoring"
)

// ErrArrayOverflow is returned under OverflowFail when an entry holds more
// objects than the configured limit.
var ErrArrayOverflow = errors.New("object count exceeds array limit")

// OverflowPolicy decides what happens when an entry exceeds ArrayLimits.
type OverflowPolicy int

const (
	// OverflowTruncate drops objects past the limit and logs a warning.
	OverflowTruncate OverflowPolicy = iota
	// OverflowFail rejects the entry with ErrArrayOverflow.
	OverflowFail
)

// String implements fmt.Stringer.
func (p OverflowPolicy) String() string {
	if p == OverflowFail {
		return config.OverflowFail
	}
	return config.OverflowTruncate
}

// ParseOverflowPolicy converts a config value into an OverflowPolicy.
func ParseOverflowPolicy(s string) (OverflowPolicy, error) {
	switch s {
	case config.OverflowTruncate, "":
		return OverflowTruncate, nil
	case config.OverflowFail:
		return OverflowFail, nil
	}
	return OverflowTruncate, fmt.Errorf("unknown overflow policy %q", s)
}

// ArrayLimits bounds the number of objects accepted per entry.
type ArrayLimits struct {
	MaxLeptons      int
	MaxJets         int
	MaxGenParticles int
	Policy          OverflowPolicy
}

// LimitsFromConfig builds ArrayLimits from a loaded SelectionConfig. An
// unparseable policy falls back to truncation; Validate rejects it earlier.
func LimitsFromConfig(cfg *config.SelectionConfig) ArrayLimits {
	policy, err := ParseOverflowPolicy(cfg.GetOverflowPolicy())
	if err != nil {
		monitoring.Warnf("%v, using %s", err, policy)
	}
	return ArrayLimits{
		MaxLeptons:      cfg.GetMaxLeptons(),
		MaxJets:         cfg.GetMaxJets(),
		MaxGenParticles: cfg.GetMaxGenParticles(),
		Policy:          policy,
	}
}

// EnforceLimits applies limits to e in place. Under OverflowTruncate the
// counts are clamped and a warning is logged; because leptons are ordered
// muons, electrons, taus, clamping drops taus first and keeps every count
// boundary consistent. Under OverflowFail the first overflow is returned as
// an error and e is left untouched.
func (e *Entry) EnforceLimits(limits ArrayLimits) error {
	type overflow struct {
		what       string
		count, max int
	}
	var found []overflow
	if limits.MaxLeptons > 0 && e.Leptons.NTotal > limits.MaxLeptons {
		found = append(found, overflow{"lepton", e.Leptons.NTotal, limits.MaxLeptons})
	}
	if limits.MaxJets > 0 && e.Jets.N > limits.MaxJets {
		found = append(found, overflow{"jet", e.Jets.N, limits.MaxJets})
	}
	if p := e.ParticleLevel; p != nil && limits.MaxGenParticles > 0 {
		if p.NLeptons > limits.MaxGenParticles {
			found = append(found, overflow{"particle-level lepton", p.NLeptons, limits.MaxGenParticles})
		}
		if p.NJets > limits.MaxGenParticles {
			found = append(found, overflow{"particle-level jet", p.NJets, limits.MaxGenParticles})
		}
	}
	if len(found) == 0 {
		return nil
	}

	if limits.Policy == OverflowFail {
		o := found[0]
		return fmt.Errorf("%w: event %d has %d %ss (max %d)", ErrArrayOverflow, e.Event, o.count, o.what, o.max)
	}

	for _, o := range found {
		monitoring.Warnf("event %d: %s count %d exceeds maximum %d, truncating", e.Event, o.what, o.count, o.max)
	}
	if limit := limits.MaxLeptons; limit > 0 {
		e.Leptons.NMuon = min(e.Leptons.NMuon, limit)
		e.Leptons.NLight = min(e.Leptons.NLight, limit)
		e.Leptons.NTotal = min(e.Leptons.NTotal, limit)
	}
	if limit := limits.MaxJets; limit > 0 {
		e.Jets.N = min(e.Jets.N, limit)
	}
	if p := e.ParticleLevel; p != nil && limits.MaxGenParticles > 0 {
		p.NLeptons = min(p.NLeptons, limits.MaxGenParticles)
		p.NJets = min(p.NJets, limits.MaxGenParticles)
	}
	return nil
}
