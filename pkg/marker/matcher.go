// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package marker

import (
	"regexp"
	"sort"
	"strings"

	"github.com/walteh/perseus/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🎚️ DetectionMode decides how multiple keywords combine
type DetectionMode string

const (
	ModeAnyOf DetectionMode = "any-of" // A line matches if it holds at least one keyword
	ModeAllOf DetectionMode = "all-of" // A file matches only if it holds every keyword
)

// ParseDetectionMode validates a mode name; the empty string means any-of
func ParseDetectionMode(s string) (DetectionMode, error) {
	switch DetectionMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeAnyOf:
		return ModeAnyOf, nil
	case ModeAllOf:
		return ModeAllOf, nil
	default:
		return "", errors.Errorf("unknown detection mode %q (want %s or %s)", s, ModeAnyOf, ModeAllOf)
	}
}

// 🎯 Hit is one keyword found inside one marker token
type Hit struct {
	Keyword string    // Requested keyword, as given
	Token   int       // Index into Occurrence.Tokens
	Span    text.Span // Keyword position within the line
}

// ✅ Match is a matched line with the keywords it carries
type Match struct {
	Occurrence Occurrence
	Hits       []Hit
}

// Keywords returns the distinct keywords of the match in request order
func (m Match) Keywords() []string {
	var out []string
	seen := map[string]bool{}
	for _, h := range m.Hits {
		if !seen[h.Keyword] {
			seen[h.Keyword] = true
			out = append(out, h.Keyword)
		}
	}
	return out
}

// 📂 FileMatch is the matcher verdict for one file
type FileMatch struct {
	Path     string
	Matches  []Match  // Ordered by ascending line
	Excluded bool     // An excluded keyword was present
	Missing  []string // all-of keywords absent from the file
}

// Matched reports whether the file has at least one matching line
func (fm FileMatch) Matched() bool {
	return len(fm.Matches) > 0
}

// 🔧 MatcherOptions configures a Matcher
type MatcherOptions struct {
	Keywords      []string
	Exclude       []string
	Mode          DetectionMode
	CaseSensitive bool
}

type keyword struct {
	text string
	re   *regexp.Regexp
}

// 🔎 Matcher classifies scanned occurrences against requested keywords
type Matcher struct {
	keywords []keyword
	exclude  []keyword
	mode     DetectionMode
}

// 🏭 NewMatcher builds a matcher; duplicate keywords are dropped
func NewMatcher(opts MatcherOptions) (*Matcher, error) {
	mode, err := ParseDetectionMode(string(opts.Mode))
	if err != nil {
		return nil, err
	}
	keywords, err := compileKeywords(opts.Keywords, opts.CaseSensitive)
	if err != nil {
		return nil, err
	}
	if len(keywords) == 0 {
		return nil, errors.Errorf("at least one keyword is required")
	}
	exclude, err := compileKeywords(opts.Exclude, opts.CaseSensitive)
	if err != nil {
		return nil, err
	}
	return &Matcher{keywords: keywords, exclude: exclude, mode: mode}, nil
}

func compileKeywords(words []string, caseSensitive bool) ([]keyword, error) {
	var out []keyword
	seen := map[string]bool{}
	for _, w := range words {
		if w == "" {
			return nil, errors.Errorf("empty keyword")
		}
		if seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, keyword{text: w, re: KeywordRegexp(w, caseSensitive)})
	}
	return out, nil
}

// KeywordRegexp returns a literal matcher for a keyword
func KeywordRegexp(word string, caseSensitive bool) *regexp.Regexp {
	expr := regexp.QuoteMeta(word)
	if !caseSensitive {
		expr = "(?i)" + expr
	}
	return regexp.MustCompile(expr)
}

// Mode returns the detection mode
func (m *Matcher) Mode() DetectionMode {
	return m.mode
}

// Keywords returns the requested keywords without duplicates
func (m *Matcher) Keywords() []string {
	out := make([]string, 0, len(m.keywords))
	for _, k := range m.keywords {
		out = append(out, k.text)
	}
	return out
}

// 🎯 Match returns the occurrences of one file that satisfy the detection mode
func (m *Matcher) Match(path string, occurrences []Occurrence) FileMatch {
	fm := FileMatch{Path: path}

	sorted := make([]Occurrence, len(occurrences))
	copy(sorted, occurrences)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Line < sorted[j].Line })

	for _, occ := range sorted {
		for _, ex := range m.exclude {
			if len(FindHits(occ, ex.text, ex.re)) > 0 {
				fm.Excluded = true
				return fm
			}
		}
	}

	seen := map[string]bool{}
	for _, occ := range sorted {
		var hits []Hit
		for _, k := range m.keywords {
			found := FindHits(occ, k.text, k.re)
			if len(found) > 0 {
				seen[k.text] = true
				hits = append(hits, found...)
			}
		}
		if len(hits) > 0 {
			fm.Matches = append(fm.Matches, Match{Occurrence: occ, Hits: hits})
		}
	}

	if m.mode == ModeAllOf {
		for _, k := range m.keywords {
			if !seen[k.text] {
				fm.Missing = append(fm.Missing, k.text)
			}
		}
		if len(fm.Missing) > 0 {
			fm.Matches = nil
		}
	}

	return fm
}

// FindHits locates a keyword inside the marker tokens of an occurrence. Each
// (keyword, offset) pair is reported once.
func FindHits(occ Occurrence, word string, re *regexp.Regexp) []Hit {
	var hits []Hit
	seen := map[int]bool{}
	for i, tok := range occ.Tokens {
		for _, loc := range re.FindAllStringIndex(tok.Text, -1) {
			start := tok.Start + loc[0]
			if seen[start] {
				continue
			}
			seen[start] = true
			hits = append(hits, Hit{
				Keyword: word,
				Token:   i,
				Span:    text.Span{Start: start, End: tok.Start + loc[1]},
			})
		}
	}
	return hits
}
