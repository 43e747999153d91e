package era

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlagsAreMutuallyConsistent(t *testing.T) {
	for _, e := range All() {
		years := 0
		for _, flag := range []bool{e.Is2016(), e.Is2017(), e.Is2018()} {
			if flag {
				years++
			}
		}
		assert.Equal(t, 1, years, "era %s must set exactly one year flag", e)
		assert.False(t, e.Is2016PreVFP() && e.Is2016PostVFP(), "era %s", e)
		if e.Is2016PreVFP() || e.Is2016PostVFP() {
			assert.True(t, e.Is2016(), "era %s sub-period implies 2016", e)
		}
	}
}

func TestUnknownHasNoFlags(t *testing.T) {
	assert.False(t, Unknown.Valid())
	assert.False(t, Unknown.Is2016())
	assert.False(t, Unknown.Is2017())
	assert.False(t, Unknown.Is2018())
	assert.Equal(t, 0, Unknown.Year())
	assert.Equal(t, "unknown", Unknown.String())
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Era
	}{
		{"2016PreVFP", Era2016PreVFP},
		{"2016_preVFP", Era2016PreVFP},
		{"2016APV", Era2016PreVFP},
		{"2016PostVFP", Era2016PostVFP},
		{"2016", Era2016PostVFP},
		{" 2017 ", Era2017},
		{"2018", Era2018},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Parse("2019")
	assert.True(t, errors.Is(err, ErrUnknownEra))
}

func TestEraAsJSONMapKey(t *testing.T) {
	in := map[Era]float64{Era2017: 0.64, Era2016PreVFP: 0.5}
	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out map[Era]float64
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)

	_, err = Unknown.MarshalText()
	assert.Error(t, err)
}
