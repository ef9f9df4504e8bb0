// Package tennis defines the domain entities persisted by the import pipeline
// and the closed enumerations the provider's free-text fields are parsed into.
//
// Provider strings drift over time, so every parser is case-insensitive and
// falls back to an Unknown member instead of failing.
package tennis

import (
	"encoding/json"
	"fmt"
	"strings"
)

// --------------------------------------------------------------------------
// Association
// --------------------------------------------------------------------------

// Association selects one of the two supported professional tours.
type Association string

const (
	WTA Association = "WTA"
	ATP Association = "ATP"
)

// Associations lists every supported association in display order.
var Associations = []Association{WTA, ATP}

// ParseAssociation matches s case-insensitively against the supported tours.
func ParseAssociation(s string) (Association, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "WTA":
		return WTA, nil
	case "ATP":
		return ATP, nil
	default:
		return "", fmt.Errorf("unknown association %q (want WTA or ATP)", s)
	}
}

func (a Association) String() string { return string(a) }

// --------------------------------------------------------------------------
// Hand
// --------------------------------------------------------------------------

// Hand is a player's dominant hand.
type Hand int

const (
	HandUnknown Hand = iota
	HandRight
	HandLeft
)

// ParseHand maps provider values like "Right" or "left" onto Hand.
func ParseHand(s string) Hand {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "right", "right-handed":
		return HandRight
	case "left", "left-handed":
		return HandLeft
	default:
		return HandUnknown
	}
}

func (h Hand) String() string {
	switch h {
	case HandRight:
		return "Right"
	case HandLeft:
		return "Left"
	default:
		return "Unknown"
	}
}

func (h Hand) MarshalJSON() ([]byte, error) { return json.Marshal(h.String()) }

// --------------------------------------------------------------------------
// Backhand
// --------------------------------------------------------------------------

// Backhand is a player's backhand style.
type Backhand int

const (
	BackhandUnknown Backhand = iota
	BackhandOneHanded
	BackhandTwoHanded
)

// ParseBackhand accepts "one-handed", "one handed" and "1" (and the two-handed
// equivalents) in any case.
func ParseBackhand(s string) Backhand {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "one-handed", "one handed", "onehanded", "1":
		return BackhandOneHanded
	case "two-handed", "two handed", "twohanded", "2":
		return BackhandTwoHanded
	default:
		return BackhandUnknown
	}
}

func (b Backhand) String() string {
	switch b {
	case BackhandOneHanded:
		return "OneHanded"
	case BackhandTwoHanded:
		return "TwoHanded"
	default:
		return "Unknown"
	}
}

func (b Backhand) MarshalJSON() ([]byte, error) { return json.Marshal(b.String()) }

// --------------------------------------------------------------------------
// Surface
// --------------------------------------------------------------------------

// Surface is a tournament's court surface.
type Surface int

const (
	SurfaceUnknown Surface = iota
	SurfaceHard
	SurfaceClay
	SurfaceGrass
	SurfaceCarpet
)

// ParseSurface maps "Hard", "clay", "GRASS" and "carpet" onto Surface.
func ParseSurface(s string) Surface {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hard":
		return SurfaceHard
	case "clay":
		return SurfaceClay
	case "grass":
		return SurfaceGrass
	case "carpet":
		return SurfaceCarpet
	default:
		return SurfaceUnknown
	}
}

func (s Surface) String() string {
	switch s {
	case SurfaceHard:
		return "Hard"
	case SurfaceClay:
		return "Clay"
	case SurfaceGrass:
		return "Grass"
	case SurfaceCarpet:
		return "Carpet"
	default:
		return "Unknown"
	}
}

func (s Surface) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }
