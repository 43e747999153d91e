// Package entryio reads and writes entry files: JSON documents holding one
// sample header and its per-event reader arrays. It is the file-backed
// counterpart of l1input.MemoryReader used by the command-line tools.
package entryio

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/ewkino/ewkino/internal/fsutil"
	"github.com/ewkino/ewkino/internal/reco/era"
	"github.com/ewkino/ewkino/internal/reco/l1input"
)

// MaxFileSize bounds the entry files Load accepts.
const MaxFileSize = 64 * 1024 * 1024

// SampleHeader describes the sample an entry file was produced from.
type SampleHeader struct {
	FileName    string  `json:"file_name"`
	ProcessName string  `json:"process_name"`
	Era         era.Era `json:"era"`
	IsData      bool    `json:"is_data"`
	XSecPb      float64 `json:"xsec_pb,omitempty"`

	// Nil means "simulation provides generator information".
	HasGeneratorInfo *bool `json:"has_generator_info,omitempty"`
	HasSusyMasses    bool  `json:"has_susy_masses,omitempty"`
	HasParticleLevel bool  `json:"has_particle_level,omitempty"`
}

// File is the on-disk layout.
type File struct {
	Sample  SampleHeader     `json:"sample"`
	Entries []*l1input.Entry `json:"entries"`
}

// Sample converts the header into a sample descriptor with a fresh ID.
func (h SampleHeader) Sample() *l1input.Sample {
	s := l1input.NewSample(h.FileName, h.ProcessName, h.Era, h.IsData, h.XSecPb)
	if h.HasGeneratorInfo != nil {
		s.HasGeneratorInfo = *h.HasGeneratorInfo
	}
	s.HasSusyMasses = h.HasSusyMasses
	s.HasParticleLevel = h.HasParticleLevel
	return s
}

// HeaderFor is the inverse of SampleHeader.Sample, minus the ID.
func HeaderFor(s *l1input.Sample) SampleHeader {
	gen := s.HasGeneratorInfo
	return SampleHeader{
		FileName:         s.FileName,
		ProcessName:      s.ProcessName,
		Era:              s.Era,
		IsData:           s.IsData,
		XSecPb:           s.XSecPb,
		HasGeneratorInfo: &gen,
		HasSusyMasses:    s.HasSusyMasses,
		HasParticleLevel: s.HasParticleLevel,
	}
}

// Load reads an entry file and returns a reader over its entries.
func Load(fsys fsutil.FileSystem, path string) (*l1input.MemoryReader, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("entry file must have .json extension, got %q", ext)
	}

	info, err := fsys.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat entry file: %w", err)
	}
	if info.Size() > MaxFileSize {
		return nil, fmt.Errorf("entry file too large: %d bytes (max %d)", info.Size(), MaxFileSize)
	}

	data, err := fsys.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read entry file: %w", err)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse entry file JSON: %w", err)
	}
	if !f.Sample.Era.Valid() {
		return nil, fmt.Errorf("entry file %s: %w", cleanPath, era.ErrUnknownEra)
	}
	for i, e := range f.Entries {
		if e == nil {
			return nil, fmt.Errorf("entry file %s: entry %d is null", cleanPath, i)
		}
		if err := e.CheckBoundaries(); err != nil {
			return nil, fmt.Errorf("entry file %s: entry %d: %w", cleanPath, i, err)
		}
	}
	return l1input.NewMemoryReader(f.Sample.Sample(), f.Entries...), nil
}

// Save writes sample and entries as an entry file.
func Save(fsys fsutil.FileSystem, path string, sample *l1input.Sample, entries []*l1input.Entry) error {
	data, err := json.MarshalIndent(File{Sample: HeaderFor(sample), Entries: entries}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode entry file: %w", err)
	}
	if err := fsys.WriteFile(filepath.Clean(path), data, 0644); err != nil {
		return fmt.Errorf("failed to write entry file: %w", err)
	}
	return nil
}
