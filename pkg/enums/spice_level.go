package enums

import "fmt"

// SpiceLevel grades a menu item's heat.
type SpiceLevel string

const (
	SpiceLevelNone   SpiceLevel = "none"
	SpiceLevelMild   SpiceLevel = "mild"
	SpiceLevelMedium SpiceLevel = "medium"
	SpiceLevelHot    SpiceLevel = "hot"
	SpiceLevelExtra  SpiceLevel = "extra_hot"
)

var validSpiceLevels = []SpiceLevel{
	SpiceLevelNone,
	SpiceLevelMild,
	SpiceLevelMedium,
	SpiceLevelHot,
	SpiceLevelExtra,
}

// String implements fmt.Stringer.
func (s SpiceLevel) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SpiceLevel.
func (s SpiceLevel) IsValid() bool {
	for _, candidate := range validSpiceLevels {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSpiceLevel converts raw input into a SpiceLevel.
func ParseSpiceLevel(value string) (SpiceLevel, error) {
	for _, candidate := range validSpiceLevels {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid spice level %q", value)
}
