// Package l1input owns Layer 1 (Input) of the event reconstruction model.
//
// Responsibilities: the contract with the external columnar reader
// (counted, positionally ordered per-event arrays), the sample descriptor
// events point back to, and the array-overflow policy.
// Key types: Entry, Sample, Reader.
//
// Dependency rule: L1 depends only on era and the ambient config and
// monitoring packages. No file or network I/O is allowed in this package;
// readers backed by real storage live outside the core.
package l1input
