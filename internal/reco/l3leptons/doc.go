// Package l3leptons owns Layer 3 (Leptons) of the event reconstruction model.
//
// Responsibilities: the closed lepton capability set (Muon, Electron, Tau),
// identification tiers resolved through per-era selectors, and the lepton
// collection algorithms: overlap cleaning, flavour-charge classification,
// unique-pair counting, best Z candidate search and calibration variations.
// Key types: Lepton, Collection, SelectorTable, Pipeline.
//
// Dependency rule: L3 may depend on L1-L2, but never on L4+.
package l3leptons
