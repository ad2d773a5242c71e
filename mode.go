package usermode

import "strings"

// Mode is the processing mode associated with a user.
type Mode string

const (
	RealTime   Mode = "real-time"
	Background Mode = "background"
)

// DefaultMode is returned for users that have never set a mode.
const DefaultMode = Background

// ParseMode trims and lowercases s and checks it names a known mode.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", &InvalidModeError{Mode: s}
	}
	return m, nil
}

// Valid reports whether m is one of the two known modes.
func (m Mode) Valid() bool {
	return m == RealTime || m == Background
}

// Opposite returns the mode a toggle moves to. Anything that is not
// Background, including an unrecognised value loaded from disk, flips to
// Background.
func (m Mode) Opposite() Mode {
	if m == Background {
		return RealTime
	}
	return Background
}

func (m Mode) String() string {
	return string(m)
}
