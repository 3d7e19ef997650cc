// Package analyzer provides the analyzer profiles available to full-text
// indexes. A profile bundles language-specific tokenization, stemming and
// stop-word rules; it is chosen once at index creation and applied
// identically at write and query time. Changing a profile in place is not
// supported because existing tokens are incompatible with new stemming
// rules; changing analyzers means rebuilding the index.
package analyzer

import (
	"sort"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/analysis/lang/sv"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/registry"
	lru "github.com/hashicorp/golang-lru/v2"

	gterrors "github.com/Aman-CERP/graphtext/internal/errors"
)

// Built-in profile names, resolved at index creation time.
const (
	ProfileStandard = "standard"
	ProfileEnglish  = "english"
	ProfileSwedish  = "swedish"
)

// Profile is one analyzer profile: a named bleve analyzer plus a small LRU
// memo of analyzed query strings for the query hot path.
type Profile struct {
	name      string
	bleveName string
	analyzer  analysis.Analyzer
	cache     *lru.Cache[string, []string]
}

// Name returns the public profile name (e.g. "english").
func (p *Profile) Name() string {
	return p.name
}

// NewIndexMapping builds a fresh bleve index mapping whose default analyzer
// is this profile's analyzer. One mapping per partition store.
func (p *Profile) NewIndexMapping() mapping.IndexMapping {
	m := bleve.NewIndexMapping()
	m.DefaultAnalyzer = p.bleveName
	return m
}

// Tokenize analyzes text into query terms, deduplicated in first-seen
// order. Results are memoized per profile.
func (p *Profile) Tokenize(text string) []string {
	if p.cache != nil {
		if terms, ok := p.cache.Get(text); ok {
			return terms
		}
	}

	stream := p.analyzer.Analyze([]byte(text))
	seen := make(map[string]struct{}, len(stream))
	terms := make([]string, 0, len(stream))
	for _, tok := range stream {
		term := string(tok.Term)
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}
		terms = append(terms, term)
	}

	if p.cache != nil {
		p.cache.Add(text, terms)
	}
	return terms
}

// Registry maps profile names to ready-to-use profiles.
// The set is closed: profiles are registered here, not discovered.
type Registry struct {
	profiles map[string]*Profile
}

// NewRegistry builds a registry with the built-in profiles.
// cacheSize bounds each profile's query-token memo; zero disables it.
func NewRegistry(cacheSize int) (*Registry, error) {
	r := &Registry{profiles: make(map[string]*Profile)}

	builtins := map[string]string{
		ProfileStandard: standard.Name,
		ProfileEnglish:  en.AnalyzerName,
		ProfileSwedish:  sv.AnalyzerName,
	}

	cache := registry.NewCache()
	for name, bleveName := range builtins {
		a, err := cache.AnalyzerNamed(bleveName)
		if err != nil {
			return nil, gterrors.Wrap(gterrors.ErrCodeInternal, err)
		}
		p := &Profile{name: name, bleveName: bleveName, analyzer: a}
		if cacheSize > 0 {
			// lru.New only fails on non-positive size
			p.cache, _ = lru.New[string, []string](cacheSize)
		}
		r.profiles[name] = p
	}

	return r, nil
}

// Resolve returns the profile registered under name.
func (r *Registry) Resolve(name string) (*Profile, error) {
	p, ok := r.profiles[name]
	if !ok {
		return nil, gterrors.UnknownAnalyzer(name)
	}
	return p, nil
}

// Names returns all registered profile names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.profiles))
	for name := range r.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
