// Package location normalizes free-text job locations into city, state and country.
package location

import (
	"sort"
	"strings"
)

// Remote is the pseudo-region used for fully remote postings.
const Remote = "remote"

// defaultCountry is inferred when a known city is recognized.
const defaultCountry = "india"

// cityStates maps known cities (and aliases) to their state or region.
var cityStates = map[string]string{
	"hyderabad": "telangana",
	"bangalore": "karnataka",
	"bengaluru": "karnataka",
	"mumbai":    "maharashtra",
	"pune":      "maharashtra",
	"delhi":     "delhi ncr",
	"delhi ncr": "delhi ncr",
	"new delhi": "delhi ncr",
	"gurgaon":   "delhi ncr",
	"gurugram":  "delhi ncr",
	"noida":     "delhi ncr",
	"chennai":   "tamil nadu",
	"kolkata":   "west bengal",
	"ahmedabad": "gujarat",
	"remote":    Remote,
}

// canonicalCity folds city aliases onto one spelling.
var canonicalCity = map[string]string{
	"bengaluru": "bangalore",
	"gurugram":  "gurgaon",
	"new delhi": "delhi",
	"delhi ncr": "delhi",
}

// cityKeys holds the gazetteer keys, longest first, so "new delhi" wins over "delhi".
var cityKeys = func() []string {
	keys := make([]string, 0, len(cityStates))
	for k := range cityStates {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}()

// Place is a normalized location.
type Place struct {
	City    string
	State   string
	Country string
}

// Fold lowercases and trims a location string.
func Fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// CanonicalCity returns the canonical spelling of a known city, or the folded input.
func CanonicalCity(s string) string {
	f := Fold(s)
	if c, ok := canonicalCity[f]; ok {
		return c
	}
	return f
}

// StateOf returns the state/region of the first known city found in text, or "".
func StateOf(text string) string {
	f := Fold(text)
	if f == "" {
		return ""
	}
	for _, city := range cityKeys {
		if strings.Contains(f, city) {
			return cityStates[city]
		}
	}
	return ""
}

// Parse infers city, state and country from a free-text location such as "Bangalore, Karnataka".
// Unknown locations are read as "city, state[, ..., country]" by comma segments.
func Parse(text string) Place {
	f := Fold(text)
	if f == "" {
		return Place{}
	}
	for _, city := range cityKeys {
		if !strings.Contains(f, city) {
			continue
		}
		if cityStates[city] == Remote {
			return Place{City: Remote, State: Remote}
		}
		return Place{City: CanonicalCity(city), State: cityStates[city], Country: defaultCountry}
	}
	var segs []string
	for _, seg := range strings.Split(f, ",") {
		if seg = strings.TrimSpace(seg); seg != "" {
			segs = append(segs, seg)
		}
	}
	var place Place
	switch n := len(segs); {
	case n >= 3:
		place.Country = segs[n-1]
		fallthrough
	case n == 2:
		place.State = segs[1]
		fallthrough
	case n == 1:
		place.City = segs[0]
	}
	return place
}
