package entryio

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ewkino/ewkino/internal/fsutil"
	"github.com/ewkino/ewkino/internal/reco/era"
	"github.com/ewkino/ewkino/internal/reco/l1input"
	"github.com/ewkino/ewkino/internal/testutil"
)

func TestSaveAndLoad(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	sample := l1input.NewSample("TTZ.root", "ttZ", era.Era2017, false, 0.86)
	sample.HasParticleLevel = true
	entries := []*l1input.Entry{
		testutil.NewEntryBuilder(1).Muon(30, 0.1, 0.2, 1).Electron(25, -0.5, 2.0, -1).
			Jet(60, 0.3, -1, 0.8).MET(40, 1).WithGenerator(1, 1.1).
			ParticleLevelLepton(29, 0.1, 0.2, 1, -13).Build(),
		testutil.NewEntryBuilder(2).Tau(45, 1, 1, -1).Build(),
	}

	require.NoError(t, Save(mfs, "/data/ttz.json", sample, entries))
	r, err := Load(mfs, "/data/ttz.json")
	require.NoError(t, err)

	assert.Equal(t, 2, r.NumEntries())
	got := r.Sample()
	assert.Equal(t, era.Era2017, got.Era)
	assert.Equal(t, "ttZ", got.ProcessName)
	assert.True(t, got.HasGeneratorInfo)
	assert.True(t, got.HasParticleLevel)
	assert.NotEqual(t, sample.ID, got.ID, "loading assigns a fresh sample ID")

	e, err := r.Entry(0)
	require.NoError(t, err)
	assert.Equal(t, 1, e.Leptons.NMuon)
	assert.Equal(t, 2, e.Leptons.NTotal)
	assert.Equal(t, []float64{1, 1.1}, e.Generator.LHEWeights)
	assert.Equal(t, 1, e.ParticleLevel.NLeptons)
	assert.Equal(t, uint64(1), e.Event)
}

func TestLoadErrors(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()

	_, err := Load(mfs, "/data/missing.json")
	assert.Error(t, err)

	_, err = Load(mfs, "/data/entries.root")
	require.Error(t, err)
	assert.Contains(t, err.Error(), ".json extension")

	require.NoError(t, mfs.WriteFile("/bad.json", []byte(`{"entries": [`), 0644))
	_, err = Load(mfs, "/bad.json")
	assert.Error(t, err)

	require.NoError(t, mfs.WriteFile("/era.json", []byte(`{"sample": {"era": "2012"}}`), 0644))
	_, err = Load(mfs, "/era.json")
	assert.Error(t, err)

	require.NoError(t, mfs.WriteFile("/noera.json", []byte(`{"sample": {"file_name": "x"}}`), 0644))
	_, err = Load(mfs, "/noera.json")
	testutil.AssertErrorIs(t, err, era.ErrUnknownEra)

	broken := `{"sample": {"era": "2018"}, "entries": [{"Leptons": {"NMuon": 2, "NLight": 1, "NTotal": 1}}]}`
	require.NoError(t, mfs.WriteFile("/broken.json", []byte(broken), 0644))
	_, err = Load(mfs, "/broken.json")
	testutil.AssertErrorIs(t, err, l1input.ErrCountBoundary)

	require.NoError(t, mfs.WriteFile("/null.json", []byte(`{"sample": {"era": "2018"}, "entries": [null]}`), 0644))
	_, err = Load(mfs, "/null.json")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "null"))
}

func TestSampleHeader_DataDefaults(t *testing.T) {
	h := SampleHeader{FileName: "SingleMuon.root", Era: era.Era2016PreVFP, IsData: true}
	s := h.Sample()
	assert.False(t, s.HasGeneratorInfo)
	assert.Equal(t, "SingleMuon.root_"+era.Era2016PreVFP.String(), s.UniqueName())

	no := false
	h = SampleHeader{Era: era.Era2018, HasGeneratorInfo: &no}
	assert.False(t, h.Sample().HasGeneratorInfo)
}
