// Package l4jets owns Layer 4 (Jets) of the event reconstruction model.
//
// Responsibilities: jets with their b-tagging score and energy-correction
// variations, per-era b-tag working points, the jet collection algorithms
// (good-jet selection, cleaning against leptons, b-tag counting, HT) and
// missing transverse energy.
// Key types: Jet, Collection, MET, SelectorTable.
//
// Dependency rule: L4 may depend on L1-L2, but never on L3 or L5+. Cleaning
// against leptons goes through l2objects.Kinematic.
package l4jets
