package enums

import "fmt"

// MenuChangeKind tags realtime vendor menu delta events.
type MenuChangeKind string

const (
	MenuChangeAdded               MenuChangeKind = "added"
	MenuChangeUpdated             MenuChangeKind = "updated"
	MenuChangeDeleted             MenuChangeKind = "deleted"
	MenuChangeAvailabilityChanged MenuChangeKind = "availability_changed"
)

var validMenuChangeKinds = []MenuChangeKind{
	MenuChangeAdded,
	MenuChangeUpdated,
	MenuChangeDeleted,
	MenuChangeAvailabilityChanged,
}

// String implements fmt.Stringer.
func (m MenuChangeKind) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MenuChangeKind.
func (m MenuChangeKind) IsValid() bool {
	for _, candidate := range validMenuChangeKinds {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMenuChangeKind converts raw input into a MenuChangeKind.
func ParseMenuChangeKind(value string) (MenuChangeKind, error) {
	for _, candidate := range validMenuChangeKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid menu change kind %q", value)
}
