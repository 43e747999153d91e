package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ewkino/ewkino/internal/reco/era"
)

// DefaultSelectionPath is the path to the canonical selection defaults file.
const DefaultSelectionPath = "config/selection.defaults.json"

// Overflow policies applied when a reader presents more objects than the
// configured array limits.
const (
	OverflowTruncate = "truncate"
	OverflowFail     = "fail"
)

// SelectionConfig holds the object-selection thresholds and the lenient
// input-handling policies used while building events. Every field is
// optional: the Get* accessors fall back to compiled defaults, so partial
// JSON files are safe.
type SelectionConfig struct {
	// Reconstruction constants
	ZMassGeV *float64 `json:"z_mass_gev,omitempty"`

	// Overlap-cleaning cones (ΔR)
	ElectronCleaningCone *float64 `json:"electron_cleaning_cone,omitempty"`
	TauCleaningCone      *float64 `json:"tau_cleaning_cone,omitempty"`
	JetCleaningCone      *float64 `json:"jet_cleaning_cone,omitempty"`

	// Reader array limits
	MaxLeptons      *int    `json:"max_leptons,omitempty"`
	MaxJets         *int    `json:"max_jets,omitempty"`
	MaxGenParticles *int    `json:"max_gen_particles,omitempty"`
	OverflowPolicy  *string `json:"overflow_policy,omitempty"` // "truncate" or "fail"

	// Fakeable-object cone correction applied to FO-but-not-tight light leptons
	ConeCorrectionFactor *float64 `json:"cone_correction_factor,omitempty"`

	// Per-era thresholds keyed by era name ("2016PreVFP", "2017", ...).
	Eras map[string]*EraThresholds `json:"eras,omitempty"`
}

// EraThresholds are the era-dependent working points. Unset fields use the
// compiled default for that era.
type EraThresholds struct {
	MuonTightMVA            *float64 `json:"muon_tight_mva,omitempty"`
	MuonFOMaxDeepFlavor     *float64 `json:"muon_fo_max_deep_flavor,omitempty"`
	MuonFOMinPtRatio        *float64 `json:"muon_fo_min_pt_ratio,omitempty"`
	ElectronTightMVA        *float64 `json:"electron_tight_mva,omitempty"`
	ElectronFOMaxDeepFlavor *float64 `json:"electron_fo_max_deep_flavor,omitempty"`
	ElectronFOMinPtRatio    *float64 `json:"electron_fo_min_pt_ratio,omitempty"`

	BTagLoose  *float64 `json:"btag_loose,omitempty"`
	BTagMedium *float64 `json:"btag_medium,omitempty"`
	BTagTight  *float64 `json:"btag_tight,omitempty"`
}

// LeptonThresholds is the resolved, non-optional form of the lepton part of
// EraThresholds for one flavour.
type LeptonThresholds struct {
	TightMVA        float64
	FOMaxDeepFlavor float64
	FOMinPtRatio    float64
}

// BTagWorkingPoints are deep-flavour discriminator cuts for one era.
type BTagWorkingPoints struct {
	Loose  float64
	Medium float64
	Tight  float64
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// compiled per-era defaults
var (
	defaultBTag = map[era.Era]BTagWorkingPoints{
		era.Era2016PreVFP:  {Loose: 0.0508, Medium: 0.2598, Tight: 0.6502},
		era.Era2016PostVFP: {Loose: 0.0480, Medium: 0.2489, Tight: 0.6377},
		era.Era2017:        {Loose: 0.0532, Medium: 0.3040, Tight: 0.7476},
		era.Era2018:        {Loose: 0.0490, Medium: 0.2783, Tight: 0.7100},
	}
	defaultFOMaxDeepFlavor = map[era.Era]float64{
		era.Era2016PreVFP:  0.020,
		era.Era2016PostVFP: 0.020,
		era.Era2017:        0.025,
		era.Era2018:        0.025,
	}
)

const (
	defaultMuonTightMVA       = 0.64
	defaultElectronTightMVA   = 0.81
	defaultMuonFOMinRatio     = 0.45
	defaultElectronFOMinRatio = 0.40
)

// EmptySelectionConfig returns a SelectionConfig with all fields unset.
func EmptySelectionConfig() *SelectionConfig {
	return &SelectionConfig{}
}

// DefaultSelectionConfig returns a SelectionConfig with every top-level
// field populated with its compiled default. Per-era thresholds are left to
// the accessors.
func DefaultSelectionConfig() *SelectionConfig {
	return &SelectionConfig{
		ZMassGeV:             ptrFloat64(91.1876),
		ElectronCleaningCone: ptrFloat64(0.05),
		TauCleaningCone:      ptrFloat64(0.4),
		JetCleaningCone:      ptrFloat64(0.4),
		MaxLeptons:           ptrInt(20),
		MaxJets:              ptrInt(100),
		MaxGenParticles:      ptrInt(200),
		OverflowPolicy:       ptrString(OverflowTruncate),
		ConeCorrectionFactor: ptrFloat64(0.67),
	}
}

// LoadSelectionConfig loads a SelectionConfig from a JSON file.
// The file must have a .json extension and be under 1MB. Fields omitted
// from the file keep their defaults.
func LoadSelectionConfig(path string) (*SelectionConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptySelectionConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical selection defaults from
// DefaultSelectionPath, searching the current directory and its parents.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *SelectionConfig {
	candidates := []string{
		DefaultSelectionPath,
		"../" + DefaultSelectionPath,
		"../../" + DefaultSelectionPath,       // from internal/config/
		"../../../" + DefaultSelectionPath,    // from internal/reco/l3leptons/
		"../../../../" + DefaultSelectionPath, // deeper packages
	}
	for _, path := range candidates {
		if cfg, err := LoadSelectionConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultSelectionPath + " - run tests from repository root")
}

// Validate checks that the configuration values are usable.
func (c *SelectionConfig) Validate() error {
	if c.ZMassGeV != nil && *c.ZMassGeV <= 0 {
		return fmt.Errorf("z_mass_gev must be positive, got %f", *c.ZMassGeV)
	}

	cones := []struct {
		name string
		v    *float64
	}{
		{"electron_cleaning_cone", c.ElectronCleaningCone},
		{"tau_cleaning_cone", c.TauCleaningCone},
		{"jet_cleaning_cone", c.JetCleaningCone},
	}
	for _, cone := range cones {
		if cone.v != nil && *cone.v < 0 {
			return fmt.Errorf("%s must be non-negative, got %f", cone.name, *cone.v)
		}
	}

	limits := []struct {
		name string
		v    *int
	}{
		{"max_leptons", c.MaxLeptons},
		{"max_jets", c.MaxJets},
		{"max_gen_particles", c.MaxGenParticles},
	}
	for _, limit := range limits {
		if limit.v != nil && *limit.v <= 0 {
			return fmt.Errorf("%s must be positive, got %d", limit.name, *limit.v)
		}
	}

	if c.OverflowPolicy != nil {
		switch *c.OverflowPolicy {
		case OverflowTruncate, OverflowFail:
		default:
			return fmt.Errorf("overflow_policy must be %q or %q, got %q", OverflowTruncate, OverflowFail, *c.OverflowPolicy)
		}
	}

	if c.ConeCorrectionFactor != nil && (*c.ConeCorrectionFactor <= 0 || *c.ConeCorrectionFactor > 1) {
		return fmt.Errorf("cone_correction_factor must be in (0, 1], got %f", *c.ConeCorrectionFactor)
	}

	for name, th := range c.Eras {
		e, err := era.Parse(name)
		if err != nil {
			return fmt.Errorf("eras: %w", err)
		}
		if th == nil {
			continue
		}
		for _, mva := range []*float64{th.MuonTightMVA, th.ElectronTightMVA} {
			if mva != nil && (*mva < -1 || *mva > 1) {
				return fmt.Errorf("eras[%s]: lepton MVA cut must be in [-1, 1], got %f", name, *mva)
			}
		}
		wp := c.GetBTagWorkingPoints(e)
		if !(wp.Loose <= wp.Medium && wp.Medium <= wp.Tight) || wp.Loose < 0 || wp.Tight > 1 {
			return fmt.Errorf("eras[%s]: b-tag working points must satisfy 0 <= loose <= medium <= tight <= 1, got %+v", name, wp)
		}
	}

	return nil
}

// GetZMassGeV returns the reference Z boson mass or the default.
func (c *SelectionConfig) GetZMassGeV() float64 {
	if c.ZMassGeV == nil {
		return 91.1876
	}
	return *c.ZMassGeV
}

// GetElectronCleaningCone returns the electron-from-muon cleaning cone or the default.
func (c *SelectionConfig) GetElectronCleaningCone() float64 {
	if c.ElectronCleaningCone == nil {
		return 0.05
	}
	return *c.ElectronCleaningCone
}

// GetTauCleaningCone returns the tau-from-light-lepton cleaning cone or the default.
func (c *SelectionConfig) GetTauCleaningCone() float64 {
	if c.TauCleaningCone == nil {
		return 0.4
	}
	return *c.TauCleaningCone
}

// GetJetCleaningCone returns the jet-from-lepton cleaning cone or the default.
func (c *SelectionConfig) GetJetCleaningCone() float64 {
	if c.JetCleaningCone == nil {
		return 0.4
	}
	return *c.JetCleaningCone
}

// GetMaxLeptons returns the max_leptons value or the default.
func (c *SelectionConfig) GetMaxLeptons() int {
	if c.MaxLeptons == nil {
		return 20
	}
	return *c.MaxLeptons
}

// GetMaxJets returns the max_jets value or the default.
func (c *SelectionConfig) GetMaxJets() int {
	if c.MaxJets == nil {
		return 100
	}
	return *c.MaxJets
}

// GetMaxGenParticles returns the max_gen_particles value or the default.
func (c *SelectionConfig) GetMaxGenParticles() int {
	if c.MaxGenParticles == nil {
		return 200
	}
	return *c.MaxGenParticles
}

// GetOverflowPolicy returns the overflow_policy value or the default.
func (c *SelectionConfig) GetOverflowPolicy() string {
	if c.OverflowPolicy == nil || *c.OverflowPolicy == "" {
		return OverflowTruncate
	}
	return *c.OverflowPolicy
}

// GetConeCorrectionFactor returns the cone_correction_factor value or the default.
func (c *SelectionConfig) GetConeCorrectionFactor() float64 {
	if c.ConeCorrectionFactor == nil {
		return 0.67
	}
	return *c.ConeCorrectionFactor
}

// eraThresholds finds the override block for e, accepting any alias of the
// era name as the map key.
func (c *SelectionConfig) eraThresholds(e era.Era) *EraThresholds {
	for name, th := range c.Eras {
		if parsed, err := era.Parse(name); err == nil && parsed == e && th != nil {
			return th
		}
	}
	return &EraThresholds{}
}

func valueOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

// GetMuonThresholds returns the resolved muon working point for e.
func (c *SelectionConfig) GetMuonThresholds(e era.Era) LeptonThresholds {
	th := c.eraThresholds(e)
	return LeptonThresholds{
		TightMVA:        valueOr(th.MuonTightMVA, defaultMuonTightMVA),
		FOMaxDeepFlavor: valueOr(th.MuonFOMaxDeepFlavor, defaultFOMaxDeepFlavor[e]),
		FOMinPtRatio:    valueOr(th.MuonFOMinPtRatio, defaultMuonFOMinRatio),
	}
}

// GetElectronThresholds returns the resolved electron working point for e.
func (c *SelectionConfig) GetElectronThresholds(e era.Era) LeptonThresholds {
	th := c.eraThresholds(e)
	return LeptonThresholds{
		TightMVA:        valueOr(th.ElectronTightMVA, defaultElectronTightMVA),
		FOMaxDeepFlavor: valueOr(th.ElectronFOMaxDeepFlavor, defaultFOMaxDeepFlavor[e]),
		FOMinPtRatio:    valueOr(th.ElectronFOMinPtRatio, defaultElectronFOMinRatio),
	}
}

// GetBTagWorkingPoints returns the resolved deep-flavour working points for e.
func (c *SelectionConfig) GetBTagWorkingPoints(e era.Era) BTagWorkingPoints {
	th := c.eraThresholds(e)
	def := defaultBTag[e]
	return BTagWorkingPoints{
		Loose:  valueOr(th.BTagLoose, def.Loose),
		Medium: valueOr(th.BTagMedium, def.Medium),
		Tight:  valueOr(th.BTagTight, def.Tight),
	}
}
