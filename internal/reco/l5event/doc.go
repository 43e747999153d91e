// Package l5event owns Layer 5 (Event) of the event reconstruction model.
//
// Responsibilities: the Event aggregate that exclusively owns one event's
// lepton, jet and MET objects plus its trigger, tag and optional generator
// records, the cached best Z candidate, and systematic variant events.
// Key types: Event, Options, Selectors.
//
// Dependency rule: L5 may depend on L1-L4. Events point back to their
// l1input.Sample but never own it.
package l5event
