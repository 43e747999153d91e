package l1input

import (
	"github.com/google/uuid"

	"github.com/ewkino/ewkino/internal/reco/era"
)

// Sample describes the dataset an entry was read from. Events hold a
// non-owning pointer to it; it is never copied when events are copied.
type Sample struct {
	ID          uuid.UUID
	FileName    string
	ProcessName string
	Era         era.Era
	IsData      bool
	XSecPb      float64

	// Source capabilities. Optional event records are only built when the
	// sample provides them.
	HasGeneratorInfo bool
	HasSusyMasses    bool
	HasParticleLevel bool
}

// NewSample creates a sample descriptor with a fresh ID. Simulated samples
// provide generator information by default; data never does.
func NewSample(fileName, processName string, e era.Era, isData bool, xsecPb float64) *Sample {
	return &Sample{
		ID:               uuid.New(),
		FileName:         fileName,
		ProcessName:      processName,
		Era:              e,
		IsData:           isData,
		XSecPb:           xsecPb,
		HasGeneratorInfo: !isData,
	}
}

// IsMC reports whether the sample is simulation.
func (s *Sample) IsMC() bool { return !s.IsData }

// UniqueName identifies the sample across eras.
func (s *Sample) UniqueName() string {
	return s.FileName + "_" + s.Era.String()
}
