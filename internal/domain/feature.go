package domain

import "fmt"

// Feature is a slot-booking area of the branch portal.
// Both areas share one scheduling engine and differ only in conventions.
type Feature string

const (
	FeatureAppointment Feature = "appointment"
	FeatureWetland     Feature = "wetland"
)

// Features lists every supported feature area
var Features = []Feature{FeatureAppointment, FeatureWetland}

// ParseFeature validates a feature name coming from a URL or config
func ParseFeature(s string) (Feature, error) {
	f := Feature(s)
	if !f.IsValid() {
		return "", fmt.Errorf("unknown feature %q", s)
	}
	return f, nil
}

// IsValid returns true for a supported feature
func (f Feature) IsValid() bool {
	return f == FeatureAppointment || f == FeatureWetland
}

func (f Feature) String() string {
	return string(f)
}
