package era

import (
	"errors"
	"fmt"
	"strings"
)

// Era is a data-taking period with its own calibration and selection
// thresholds. 2016 is split into the periods before and after the APV
// preamplifier (VFP) setting change.
type Era int

const (
	// Unknown is the zero value; objects never carry it once constructed.
	Unknown Era = iota
	// Era2016PreVFP is 2016 data taken before the VFP change.
	Era2016PreVFP
	// Era2016PostVFP is 2016 data taken after the VFP change.
	Era2016PostVFP
	// Era2017 is the 2017 run.
	Era2017
	// Era2018 is the 2018 run.
	Era2018
)

// ErrUnknownEra is returned when an era name cannot be parsed.
var ErrUnknownEra = errors.New("unknown era")

var names = map[Era]string{
	Era2016PreVFP:  "2016PreVFP",
	Era2016PostVFP: "2016PostVFP",
	Era2017:        "2017",
	Era2018:        "2018",
}

// All returns every supported era in chronological order.
func All() []Era {
	return []Era{Era2016PreVFP, Era2016PostVFP, Era2017, Era2018}
}

// Parse converts a name such as "2017" or "2016PreVFP" into an Era.
// Matching is case-insensitive; "2016preVFP", "2016_PreVFP" and
// "2016APV" are accepted as aliases of the pre-VFP period.
func Parse(s string) (Era, error) {
	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "_", ""))
	switch key {
	case "2016prevfp", "2016apv":
		return Era2016PreVFP, nil
	case "2016postvfp", "2016":
		return Era2016PostVFP, nil
	case "2017":
		return Era2017, nil
	case "2018":
		return Era2018, nil
	}
	return Unknown, fmt.Errorf("%w: %q", ErrUnknownEra, s)
}

// String implements fmt.Stringer.
func (e Era) String() string {
	if n, ok := names[e]; ok {
		return n
	}
	return "unknown"
}

// Valid reports whether e is one of the supported eras.
func (e Era) Valid() bool {
	_, ok := names[e]
	return ok
}

// Is2016 reports whether e belongs to 2016, either sub-period.
func (e Era) Is2016() bool { return e == Era2016PreVFP || e == Era2016PostVFP }

// Is2016PreVFP reports whether e is the pre-VFP part of 2016.
func (e Era) Is2016PreVFP() bool { return e == Era2016PreVFP }

// Is2016PostVFP reports whether e is the post-VFP part of 2016.
func (e Era) Is2016PostVFP() bool { return e == Era2016PostVFP }

// Is2017 reports whether e is 2017.
func (e Era) Is2017() bool { return e == Era2017 }

// Is2018 reports whether e is 2018.
func (e Era) Is2018() bool { return e == Era2018 }

// Year returns the calendar year of the era, or 0 for Unknown.
func (e Era) Year() int {
	switch {
	case e.Is2016():
		return 2016
	case e.Is2017():
		return 2017
	case e.Is2018():
		return 2018
	}
	return 0
}

// MarshalText implements encoding.TextMarshaler so eras can key JSON maps.
func (e Era) MarshalText() ([]byte, error) {
	if !e.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownEra, int(e))
	}
	return []byte(e.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *Era) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}
