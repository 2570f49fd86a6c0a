package enums

import "fmt"

// UsagePeriod is the recommended wearing occasion for a fragrance.
type UsagePeriod string

const (
	UsagePeriodDay   UsagePeriod = "DAY"
	UsagePeriodNight UsagePeriod = "NIGHT"
	UsagePeriodBoth  UsagePeriod = "BOTH"
)

var validUsagePeriods = []UsagePeriod{
	UsagePeriodDay,
	UsagePeriodNight,
	UsagePeriodBoth,
}

// String implements fmt.Stringer.
func (u UsagePeriod) String() string {
	return string(u)
}

// IsValid reports whether the value is a known UsagePeriod.
func (u UsagePeriod) IsValid() bool {
	for _, candidate := range validUsagePeriods {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseUsagePeriod converts the raw string to UsagePeriod.
func ParseUsagePeriod(value string) (UsagePeriod, error) {
	for _, candidate := range validUsagePeriods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid usage period %q", value)
}
