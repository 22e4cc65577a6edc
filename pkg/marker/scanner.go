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
	"bufio"
	"io"
	"iter"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/walteh/perseus/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// DefaultPattern recognizes annotation-style markers such as @pytest.mark.slow
// or @mark.flaky(reruns=2).
const DefaultPattern = `@[A-Za-z_][\w.]*(?:\([^)\n]*\))?`

// 🏷️ Token is one marker found on a line
type Token struct {
	Text  string // Marker text as it appears in the line
	Start int    // Byte offset of the first character
	End   int    // Byte offset just past the last character
}

// Span returns the token position as a text.Span
func (t Token) Span() text.Span {
	return text.Span{Start: t.Start, End: t.End}
}

// 📍 Occurrence is a line carrying at least one marker token
type Occurrence struct {
	Path   string  // File the line was read from
	Line   int     // 1-based line number
	Text   string  // Raw line without its terminator
	Tokens []Token // Markers on the line, ordered by offset
}

// 🧩 PatternSet is an ordered set of marker expressions
type PatternSet struct {
	exprs    []string
	compiled []*regexp.Regexp
}

// 🏭 NewPatternSet compiles the given expressions; with none it falls back to DefaultPattern
func NewPatternSet(exprs ...string) (*PatternSet, error) {
	if len(exprs) == 0 {
		exprs = []string{DefaultPattern}
	}
	ps := &PatternSet{}
	for _, expr := range exprs {
		if strings.TrimSpace(expr) == "" {
			return nil, errors.Errorf("empty marker pattern")
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, errors.Errorf("compiling marker pattern %q: %w", expr, err)
		}
		ps.exprs = append(ps.exprs, expr)
		ps.compiled = append(ps.compiled, re)
	}
	return ps, nil
}

// Exprs returns the source expressions
func (p *PatternSet) Exprs() []string {
	out := make([]string, len(p.exprs))
	copy(out, p.exprs)
	return out
}

// 🔍 Tokens returns the marker tokens on a line; overlapping hits are merged
func (p *PatternSet) Tokens(line string) []Token {
	var spans []text.Span
	for _, re := range p.compiled {
		for _, loc := range re.FindAllStringIndex(line, -1) {
			if loc[1] > loc[0] {
				spans = append(spans, text.Span{Start: loc[0], End: loc[1]})
			}
		}
	}
	if len(spans) == 0 {
		return nil
	}

	sort.Slice(spans, func(i, j int) bool {
		if spans[i].Start != spans[j].Start {
			return spans[i].Start < spans[j].Start
		}
		return spans[i].End > spans[j].End
	})

	merged := []text.Span{spans[0]}
	for _, sp := range spans[1:] {
		last := &merged[len(merged)-1]
		if sp.Start < last.End {
			if sp.End > last.End {
				last.End = sp.End
			}
			continue
		}
		merged = append(merged, sp)
	}

	tokens := make([]Token, 0, len(merged))
	for _, sp := range merged {
		tokens = append(tokens, Token{Text: line[sp.Start:sp.End], Start: sp.Start, End: sp.End})
	}
	return tokens
}

// 🔭 Scanner extracts marker occurrences from file content
type Scanner struct {
	patterns *PatternSet
}

// 🏭 NewScanner creates a scanner for the given pattern set
func NewScanner(patterns *PatternSet) *Scanner {
	return &Scanner{patterns: patterns}
}

// 📖 Scan lazily yields one occurrence per marker-bearing line of r. The
// sequence reads r as it goes and cannot be restarted. A line that is not
// text ends the sequence with a *FileUnreadableError.
func (s *Scanner) Scan(path string, r io.Reader) iter.Seq2[Occurrence, error] {
	return func(yield func(Occurrence, error) bool) {
		br := bufio.NewReader(r)
		lineNo := 0
		for {
			raw, err := br.ReadString('\n')
			if len(raw) > 0 {
				lineNo++
				line := raw
				if strings.HasSuffix(line, "\n") {
					line = strings.TrimSuffix(line[:len(line)-1], "\r")
				}
				if !utf8.ValidString(line) || strings.IndexByte(line, 0) >= 0 {
					yield(Occurrence{}, &FileUnreadableError{Path: path, Line: lineNo, Reason: "line is not valid text"})
					return
				}
				if tokens := s.patterns.Tokens(line); len(tokens) > 0 {
					if !yield(Occurrence{Path: path, Line: lineNo, Text: line, Tokens: tokens}, nil) {
						return
					}
				}
			}
			if err != nil {
				if err != io.EOF {
					yield(Occurrence{}, &FileUnreadableError{Path: path, Line: lineNo, Reason: "reading line", Err: err})
				}
				return
			}
		}
	}
}

// 📦 Collect drains a scan into a slice, stopping at the first error
func Collect(seq iter.Seq2[Occurrence, error]) ([]Occurrence, error) {
	var out []Occurrence
	for occ, err := range seq {
		if err != nil {
			return nil, err
		}
		out = append(out, occ)
	}
	return out, nil
}
