package skill

import (
	"context"
	"regexp"
	"sort"
	"strings"
)

// Dictionary extracts known skills from free text using the alias table.
// It is safe for concurrent use.
type Dictionary struct {
	phrases []string                  // multi-word / punctuated keys, longest first
	words   map[string]*regexp.Regexp // single-word keys with word-boundary patterns
	order   []string                  // sorted single-word keys
}

// NewDictionary compiles the alias table into matchers.
func NewDictionary() *Dictionary {
	d := &Dictionary{words: make(map[string]*regexp.Regexp)}
	for key := range aliases {
		if strings.ContainsAny(key, " /.") {
			d.phrases = append(d.phrases, key)
			continue
		}
		// one-letter keys produce false positives, except the languages
		if len(key) <= 1 && key != "r" && key != "c" {
			continue
		}
		d.words[key] = regexp.MustCompile(`\b` + regexp.QuoteMeta(key) + `\b`)
		d.order = append(d.order, key)
	}
	sort.Slice(d.phrases, func(i, j int) bool {
		if len(d.phrases[i]) != len(d.phrases[j]) {
			return len(d.phrases[i]) > len(d.phrases[j])
		}
		return d.phrases[i] < d.phrases[j]
	})
	sort.Strings(d.order)
	return d
}

// Extract returns the canonical skills mentioned in text, sorted.
func (d *Dictionary) Extract(_ context.Context, text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	lower := strings.ToLower(text)
	found := make(map[string]struct{})

	for _, p := range d.phrases {
		if strings.Contains(lower, p) {
			found[aliases[p]] = struct{}{}
		}
	}
	for _, w := range d.order {
		if d.words[w].MatchString(lower) {
			found[aliases[w]] = struct{}{}
		}
	}

	out := make([]string, 0, len(found))
	for s := range found {
		out = append(out, s)
	}
	sort.Strings(out)
	return out, nil
}
