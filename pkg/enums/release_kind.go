package enums

import "fmt"

// ReleaseKind marks how an item arrived in the catalog.
type ReleaseKind string

const (
	ReleaseKindNew     ReleaseKind = "NEW"
	ReleaseKindRestock ReleaseKind = "RESTOCK"
)

var validReleaseKinds = []ReleaseKind{
	ReleaseKindNew,
	ReleaseKindRestock,
}

// String implements fmt.Stringer.
func (r ReleaseKind) String() string {
	return string(r)
}

// IsValid reports whether the value is a known ReleaseKind.
func (r ReleaseKind) IsValid() bool {
	for _, candidate := range validReleaseKinds {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseReleaseKind converts the raw string to ReleaseKind.
func ParseReleaseKind(value string) (ReleaseKind, error) {
	for _, candidate := range validReleaseKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid release kind %q", value)
}
