// Package textindex answers free-text relevance queries over a corpus snapshot.
package textindex

import (
	"sort"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/kailas-cloud/agentjobs/internal/domain/corpus"
	"github.com/kailas-cloud/agentjobs/internal/domain/job"
	"github.com/kailas-cloud/agentjobs/internal/domain/skill"
)

// Field weights.
const (
	WeightTitle  = 3
	WeightSkills = 2
	WeightOther  = 1
)

// MaxTerms limits the number of query tokens considered.
const MaxTerms = 16

// Indexed fields. Each holds the pre-tokenized terms of one part of a job.
const (
	fieldTitle  = "title"
	fieldSkills = "skills"
	fieldOther  = "other"
)

var fieldWeights = map[string]int{
	fieldTitle:  WeightTitle,
	fieldSkills: WeightSkills,
	fieldOther:  WeightOther,
}

type index struct {
	version uint64
	bleve   bleve.Index
	ids     []string
}

// Searcher keeps an in-memory bleve index per snapshot version and rebuilds it
// when the version changes. Safe for concurrent use.
type Searcher struct {
	mu  sync.RWMutex
	idx *index
}

// New creates a searcher with no cached index.
func New() *Searcher {
	return &Searcher{}
}

// Search returns ids of jobs containing every query token, ordered by weighted
// hit score desc, then snapshot order. A blank term matches nothing.
func (s *Searcher) Search(term string, snap *corpus.Snapshot) []string {
	if snap == nil || snap.Len() == 0 {
		return nil
	}
	tokens := queryTokens(term)
	if len(tokens) == 0 {
		return nil
	}

	s.mu.RLock()
	idx := s.idx
	if idx == nil || idx.version != snap.Version() {
		s.mu.RUnlock()
		if err := s.rebuild(snap); err != nil {
			return nil
		}
		s.mu.RLock()
		idx = s.idx
	}
	defer s.mu.RUnlock()

	// A concurrent rebuild for another version may have won the race.
	if idx == nil || idx.version != snap.Version() {
		return nil
	}

	req := bleve.NewSearchRequestOptions(buildQuery(tokens), len(idx.ids), 0, false)
	req.IncludeLocations = true
	res, err := idx.bleve.Search(req)
	if err != nil {
		return nil
	}

	type scored struct {
		doc   int
		score int
	}
	hits := make([]scored, 0, len(res.Hits))
	for _, h := range res.Hits {
		doc, err := strconv.Atoi(h.ID)
		if err != nil || doc < 0 || doc >= len(idx.ids) {
			continue
		}
		hits = append(hits, scored{doc: doc, score: weigh(h.Locations, tokens)})
	}
	sort.Slice(hits, func(a, b int) bool {
		if hits[a].score != hits[b].score {
			return hits[a].score > hits[b].score
		}
		return hits[a].doc < hits[b].doc
	})

	out := make([]string, len(hits))
	for i, h := range hits {
		out[i] = idx.ids[h.doc]
	}
	return out
}

// buildQuery requires every token; any form of a token in any field satisfies it.
func buildQuery(tokens []queryToken) query.Query {
	must := make([]query.Query, 0, len(tokens))
	for _, tok := range tokens {
		var alts []query.Query
		for _, form := range tok.forms {
			for field := range fieldWeights {
				q := bleve.NewTermQuery(form)
				q.SetField(field)
				alts = append(alts, q)
			}
		}
		must = append(must, bleve.NewDisjunctionQuery(alts...))
	}
	return bleve.NewConjunctionQuery(must...)
}

// weigh sums, per token, the weights of the fields it hit, taking the best form.
func weigh(locs search.FieldTermLocationMap, tokens []queryToken) int {
	total := 0
	for _, tok := range tokens {
		best := 0
		for _, form := range tok.forms {
			w := 0
			for field, weight := range fieldWeights {
				if _, ok := locs[field][form]; ok {
					w += weight
				}
			}
			if w > best {
				best = w
			}
		}
		total += best
	}
	return total
}

func (s *Searcher) rebuild(snap *corpus.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.idx != nil && s.idx.version == snap.Version() {
		return nil
	}
	idx, err := build(snap)
	if err != nil {
		return err
	}
	if s.idx != nil {
		_ = s.idx.bleve.Close()
	}
	s.idx = idx
	return nil
}

func build(snap *corpus.Snapshot) (*index, error) {
	bi, err := bleve.NewMemOnly(newMapping())
	if err != nil {
		return nil, err
	}
	jobs := snap.Jobs()
	idx := &index{
		version: snap.Version(),
		bleve:   bi,
		ids:     make([]string, len(jobs)),
	}
	batch := bi.NewBatch()
	for i := range jobs {
		idx.ids[i] = jobs[i].ID()
		if err := batch.Index(strconv.Itoa(i), document(&jobs[i])); err != nil {
			_ = bi.Close()
			return nil, err
		}
	}
	if err := bi.Batch(batch); err != nil {
		_ = bi.Close()
		return nil, err
	}
	return idx, nil
}

// newMapping indexes each field as a list of exact terms. Tokenizing happens
// here so query and document agree on "c++", "node.js" and skill aliases.
func newMapping() mapping.IndexMapping {
	doc := bleve.NewDocumentStaticMapping()
	for field := range fieldWeights {
		fm := bleve.NewTextFieldMapping()
		fm.Analyzer = keyword.Name
		fm.Store = false
		fm.IncludeInAll = false
		fm.IncludeTermVectors = true
		doc.AddFieldMappingsAt(field, fm)
	}
	m := bleve.NewIndexMapping()
	m.DefaultMapping = doc
	m.DefaultAnalyzer = keyword.Name
	return m
}

func document(j *job.Job) map[string]interface{} {
	skillTokens := map[string]struct{}{}
	for _, sk := range j.Skills() {
		skillTokens[sk] = struct{}{}
		for t := range tokenSet(sk) {
			skillTokens[t] = struct{}{}
		}
	}
	c := j.Company()
	other := strings.Join([]string{
		c.Name, j.Location(), j.Category(), j.DescriptionShort(), j.Description(),
	}, " ")
	return map[string]interface{}{
		fieldTitle:  terms(tokenSet(j.Title())),
		fieldSkills: terms(skillTokens),
		fieldOther:  terms(tokenSet(other)),
	}
}

func terms(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

type queryToken struct {
	forms []string
}

func queryTokens(term string) []queryToken {
	seen := map[string]struct{}{}
	var out []queryToken
	for _, raw := range tokenize(term) {
		if _, dup := seen[raw]; dup {
			continue
		}
		seen[raw] = struct{}{}
		forms := []string{raw}
		if canon := skill.Normalize(raw); canon != raw {
			forms = append(forms, canon)
		}
		out = append(out, queryToken{forms: forms})
		if len(out) == MaxTerms {
			break
		}
	}
	return out
}

func tokenSet(text string) map[string]struct{} {
	set := map[string]struct{}{}
	for _, t := range tokenize(text) {
		set[t] = struct{}{}
		if strings.Contains(t, "-") {
			for _, part := range strings.Split(t, "-") {
				if part != "" {
					set[part] = struct{}{}
				}
			}
		}
	}
	return set
}

// tokenize lowercases text and splits it into words. '+', '#' and inner '.'
// stay part of a word so "c++", "c#" and "node.js" survive.
func tokenize(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '#' && r != '.' && r != '-'
	})
	out := words[:0]
	for _, w := range words {
		w = strings.Trim(w, ".-")
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}
