package job

import "strings"

// LocationType is where the work happens.
type LocationType string

// Location type constants.
const (
	Onsite LocationType = "onsite"
	Remote LocationType = "remote"
	Hybrid LocationType = "hybrid"
)

// IsValid checks if the location type is one of the supported values.
func (t LocationType) IsValid() bool {
	return t == Onsite || t == Remote || t == Hybrid
}

// ParseLocationType folds s and reports whether it names a known location type.
func ParseLocationType(s string) (LocationType, bool) {
	t := LocationType(strings.ToLower(strings.TrimSpace(s)))
	return t, t.IsValid()
}

// EmploymentType is the contract form of a posting.
type EmploymentType string

// Employment type constants.
const (
	FullTime   EmploymentType = "full-time"
	PartTime   EmploymentType = "part-time"
	Contract   EmploymentType = "contract"
	Internship EmploymentType = "internship"
)

// IsValid checks if the employment type is one of the supported values.
func (t EmploymentType) IsValid() bool {
	return t == FullTime || t == PartTime || t == Contract || t == Internship
}

// ParseEmploymentType folds s and reports whether it names a known employment type.
func ParseEmploymentType(s string) (EmploymentType, bool) {
	t := EmploymentType(strings.ToLower(strings.TrimSpace(s)))
	return t, t.IsValid()
}
