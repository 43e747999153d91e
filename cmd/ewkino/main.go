package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"maps"
	"os"
	"slices"

	"gonum.org/v1/gonum/floats"

	"github.com/ewkino/ewkino/internal/config"
	"github.com/ewkino/ewkino/internal/entryio"
	"github.com/ewkino/ewkino/internal/fsutil"
	"github.com/ewkino/ewkino/internal/monitoring"
	"github.com/ewkino/ewkino/internal/reco/l3leptons"
	"github.com/ewkino/ewkino/internal/reco/l5event"
	"github.com/ewkino/ewkino/internal/version"
)

// Variations selectable with -variation.
var variations = map[string]func(*l5event.Event) *l5event.Event{
	"nominal":             func(ev *l5event.Event) *l5event.Event { return ev },
	"jec-up":              (*l5event.Event).JECUpEvent,
	"jec-down":            (*l5event.Event).JECDownEvent,
	"jer-up":              (*l5event.Event).JERUpEvent,
	"jer-down":            (*l5event.Event).JERDownEvent,
	"unclustered-up":      (*l5event.Event).UnclusteredUpEvent,
	"unclustered-down":    (*l5event.Event).UnclusteredDownEvent,
	"electron-scale-up":   (*l5event.Event).ElectronScaleUpEvent,
	"electron-scale-down": (*l5event.Event).ElectronScaleDownEvent,
	"electron-res-up":     (*l5event.Event).ElectronResolutionUpEvent,
	"electron-res-down":   (*l5event.Event).ElectronResolutionDownEvent,
}

// Summary is the JSON document written to stdout.
type Summary struct {
	Sample       string         `json:"sample"`
	SampleID     string         `json:"sample_id"`
	Era          string         `json:"era"`
	Variation    string         `json:"variation"`
	Cascade      string         `json:"cascade"`
	Events       int            `json:"events"`
	SumOfWeights float64        `json:"sum_of_weights"`
	FlavorCharge map[string]int `json:"flavor_charge"`
	ZCandidates  int            `json:"z_candidates"`
	OnZ          int            `json:"on_z"`
	MeanHT       float64        `json:"mean_ht"`
	MeanLT       float64        `json:"mean_lt"`
}

func main() {
	if err := run(os.Args[1:], fsutil.OSFileSystem{}, os.Stdout); err != nil {
		log.Fatalf("ewkino: %v", err)
	}
}

func run(args []string, fsys fsutil.FileSystem, stdout io.Writer) error {
	fs := flag.NewFlagSet("ewkino", flag.ContinueOnError)
	configPath := fs.String("config", "", "Selection config JSON (defaults to compiled thresholds)")
	input := fs.String("input", "", "Entry file to process")
	cascade := fs.String("cascade", "tight", "Lepton selection cascade: tight or fakeable")
	variation := fs.String("variation", "nominal", "Systematic variation to apply before selection")
	zWindow := fs.Float64("z-window", 15, "Half-width in GeV of the on-Z window")
	allowSS := fs.Bool("allow-same-sign", false, "Accept same-sign pairs as Z candidates")
	quiet := fs.Bool("quiet", false, "Suppress reconstruction warnings")
	showVersion := fs.Bool("version", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *showVersion {
		fmt.Fprintf(stdout, "ewkino %s\n", version.String())
		return nil
	}
	if *input == "" {
		return errors.New("-input is required")
	}
	if *quiet {
		defer monitoring.SetLogger(log.Printf)
		monitoring.SetLogger(nil)
	}

	cfg := config.DefaultSelectionConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadSelectionConfig(*configPath)
		if err != nil {
			return err
		}
	}

	pipeline, err := cascadeFor(*cascade, cfg)
	if err != nil {
		return err
	}
	vary, ok := variations[*variation]
	if !ok {
		names := slices.Sorted(maps.Keys(variations))
		return fmt.Errorf("unknown variation %q (want one of %v)", *variation, names)
	}

	r, err := entryio.Load(fsys, *input)
	if err != nil {
		return err
	}

	opts := l5event.DefaultOptions(cfg)
	sel := l5event.NewSelectors(cfg)
	sample := r.Sample()
	summary := Summary{
		Sample:       sample.UniqueName(),
		SampleID:     sample.ID.String(),
		Era:          sample.Era.String(),
		Variation:    *variation,
		Cascade:      *cascade,
		FlavorCharge: make(map[string]int),
	}

	var weights, ht, lt []float64
	for i := 0; i < r.NumEntries(); i++ {
		ev, err := l5event.FromReader(r, i, opts, sel)
		if err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
		ev = vary(ev).WithLeptonPipeline(pipeline)
		ev.SelectGoodJets()
		ev.CleanJetsFromFOLeptons(cfg.GetJetCleaningCone())

		weights = append(weights, ev.Weight())
		ht = append(ht, ev.HT())
		lt = append(lt, ev.LT())
		summary.FlavorCharge[ev.LeptonCollection().FlavorChargeCombination().String()]++

		_, err = ev.BestZBosonCandidateMass(*allowSS)
		switch {
		case errors.Is(err, l3leptons.ErrNoOSSFPair), errors.Is(err, l3leptons.ErrNoSameFlavorPair):
			continue
		case err != nil:
			return fmt.Errorf("entry %d: %w", i, err)
		}
		summary.ZCandidates++
		if ev.HasZTollCandidate(*zWindow, *allowSS) {
			summary.OnZ++
		}
	}

	summary.Events = len(weights)
	summary.SumOfWeights = floats.Sum(weights)
	if n := float64(len(weights)); n > 0 {
		summary.MeanHT = floats.Sum(ht) / n
		summary.MeanLT = floats.Sum(lt) / n
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}

func cascadeFor(name string, cfg *config.SelectionConfig) (*l3leptons.Pipeline, error) {
	cascades := map[string]func(*config.SelectionConfig) *l3leptons.Pipeline{
		"tight":    l3leptons.DefaultCascade,
		"fakeable": l3leptons.FakeableCascade,
	}
	build, ok := cascades[name]
	if !ok {
		return nil, fmt.Errorf("unknown cascade %q", name)
	}
	return build(cfg), nil
}
