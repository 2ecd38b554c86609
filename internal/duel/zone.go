package duel

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownZone is returned when parsing a zone name that is not one of Zones.
var ErrUnknownZone = errors.New("duel: unknown zone")

// Zone is a body region that can be attacked or blocked.
type Zone int

const (
	NoZone Zone = iota // no choice made
	Head
	Chest
	Torso
	Knees
	Feet
)

// Zones lists every real zone, top to bottom.
var Zones = [...]Zone{Head, Chest, Torso, Knees, Feet}

var zoneNames = [...]string{
	NoZone: "",
	Head:   "Head",
	Chest:  "Chest",
	Torso:  "Torso",
	Knees:  "Knees",
	Feet:   "Feet",
}

// Valid reports whether z is one of the five real zones.
func (z Zone) Valid() bool {
	switch z {
	case Head, Chest, Torso, Knees, Feet:
		return true
	default:
		return false
	}
}

func (z Zone) String() string {
	if z.Valid() {
		return zoneNames[z]
	}
	if z == NoZone {
		return "none"
	}
	return fmt.Sprintf("Zone(%d)", int(z))
}

// ParseZone accepts a zone name in any case. The empty string is NoZone.
func ParseZone(s string) (Zone, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return NoZone, nil
	}
	for _, z := range Zones {
		if strings.EqualFold(zoneNames[z], s) {
			return z, nil
		}
	}
	return NoZone, fmt.Errorf("%w: %q", ErrUnknownZone, s)
}

// MarshalText encodes the zone by name so JSON carries "Head", not 1.
func (z Zone) MarshalText() ([]byte, error) {
	if z != NoZone && !z.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownZone, int(z))
	}
	return []byte(zoneNames[z]), nil
}

func (z *Zone) UnmarshalText(b []byte) error {
	parsed, err := ParseZone(string(b))
	if err != nil {
		return err
	}
	*z = parsed
	return nil
}

// containsZone reports whether z is one of blocks.
func containsZone(blocks []Zone, z Zone) bool {
	for _, b := range blocks {
		if b == z {
			return true
		}
	}
	return false
}
