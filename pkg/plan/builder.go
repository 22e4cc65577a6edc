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

package plan

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/walteh/perseus/pkg/marker"
	"github.com/walteh/perseus/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// DefaultTestFunctionPattern finds Python and Go test function definitions
const DefaultTestFunctionPattern = `^\s*(?:async\s+)?def\s+test\w*\s*\(|^\s*func\s+Test\w*\s*\(`

// ⚓ AnchorKind selects how an add operation finds its insertion point
type AnchorKind int

const (
	AnchorLine         AnchorKind = iota + 1 // An explicit line number
	AnchorTestFunction                       // A test function definition
	AnchorPattern                            // A line containing a literal string
)

// ⚓ Anchor describes where new marker lines go
type Anchor struct {
	Kind     AnchorKind
	Line     int    // AnchorLine only
	Pattern  string // AnchorPattern only
	Position Position
	All      bool // Insert at every matching line instead of the first
}

func (a Anchor) String() string {
	var target string
	switch a.Kind {
	case AnchorLine:
		target = fmt.Sprintf("line %d", a.Line)
	case AnchorTestFunction:
		target = "test function"
	case AnchorPattern:
		target = fmt.Sprintf("line containing %q", a.Pattern)
	default:
		target = "unknown anchor"
	}
	return a.Position.String() + " " + target
}

// 🔄 ReplaceRequest substitutes a keyword inside marker tokens
type ReplaceRequest struct {
	Keyword         string
	Value           string
	OccurrenceIndex *int // 0-based span index per line; nil replaces every span
	WholeLine       bool // Replace the entire line with Value
}

// 🗑️ RemoveRequest excises markers carrying a keyword
type RemoveRequest struct {
	Keyword   string
	WholeLine bool // Always delete the whole line
}

// ➕ AddRequest inserts a marker line next to an anchor
type AddRequest struct {
	Value  string
	Anchor Anchor
}

// 🔧 BuilderOptions configures a Builder
type BuilderOptions struct {
	CaseSensitive       bool
	TestFunctionPattern string
}

// 🏗️ Builder turns matches into change sets without touching disk
type Builder struct {
	caseSensitive bool
	testFunc      *regexp.Regexp
}

// 🏭 NewBuilder creates a builder
func NewBuilder(opts BuilderOptions) (*Builder, error) {
	expr := opts.TestFunctionPattern
	if expr == "" {
		expr = DefaultTestFunctionPattern
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, errors.Errorf("compiling test function pattern: %w", err)
	}
	return &Builder{caseSensitive: opts.CaseSensitive, testFunc: re}, nil
}

// 🔄 Replace builds the replace edits for one matched file. It returns nil when
// nothing would change.
func (b *Builder) Replace(fm marker.FileMatch, snapshot []byte, req ReplaceRequest) (*FileChangeSet, error) {
	if req.Keyword == "" {
		return nil, errors.Errorf("replace keyword is required")
	}
	if req.OccurrenceIndex != nil && *req.OccurrenceIndex < 0 {
		return nil, errors.Errorf("occurrence index must not be negative")
	}
	if strings.ContainsAny(req.Value, "\r\n") {
		return nil, errors.Errorf("replacement value must be a single line")
	}

	re := marker.KeywordRegexp(req.Keyword, b.caseSensitive)
	cs := &FileChangeSet{Path: fm.Path, Snapshot: snapshot}
	for _, m := range fm.Matches {
		occ := m.Occurrence
		hits := marker.FindHits(occ, req.Keyword, re)
		if len(hits) == 0 {
			continue
		}

		var newText string
		if req.WholeLine {
			newText = req.Value
		} else {
			spans := make([]text.Span, 0, len(hits))
			for _, h := range hits {
				spans = append(spans, h.Span)
			}
			switch {
			case req.OccurrenceIndex != nil:
				if *req.OccurrenceIndex >= len(spans) {
					continue
				}
				spans = spans[*req.OccurrenceIndex : *req.OccurrenceIndex+1]
			case len(spans) > 1:
				cs.Warnings = append(cs.Warnings, &AmbiguousMatchError{
					Path:    fm.Path,
					Line:    occ.Line,
					Keyword: req.Keyword,
					Count:   len(spans),
				})
			}
			newText = text.ReplaceSpans(occ.Text, spans, req.Value)
		}
		if newText == occ.Text {
			continue
		}

		target := occ
		cs.Ops = append(cs.Ops, EditOperation{
			Kind:     KindReplace,
			Target:   &target,
			Line:     occ.Line,
			Original: occ.Text,
			New:      newText,
		})
	}

	if len(cs.Ops) == 0 {
		return nil, nil
	}
	return cs, nil
}

// 🗑️ Remove builds the remove edits for one matched file. A line left with
// nothing but blanks is deleted. It returns nil when nothing would change.
func (b *Builder) Remove(fm marker.FileMatch, snapshot []byte, req RemoveRequest) (*FileChangeSet, error) {
	if req.Keyword == "" {
		return nil, errors.Errorf("remove keyword is required")
	}

	re := marker.KeywordRegexp(req.Keyword, b.caseSensitive)
	cs := &FileChangeSet{Path: fm.Path, Snapshot: snapshot}
	for _, m := range fm.Matches {
		occ := m.Occurrence
		hits := marker.FindHits(occ, req.Keyword, re)
		if len(hits) == 0 {
			continue
		}

		op := EditOperation{Kind: KindRemove, Line: occ.Line, Original: occ.Text}
		if req.WholeLine {
			op.DeleteLine = true
		} else {
			seen := map[int]bool{}
			var spans []text.Span
			for _, h := range hits {
				if seen[h.Token] {
					continue
				}
				seen[h.Token] = true
				spans = append(spans, occ.Tokens[h.Token].Span())
			}
			op.New = text.ExciseSpans(occ.Text, spans)
			op.DeleteLine = strings.TrimSpace(op.New) == ""
		}
		if op.DeleteLine {
			op.New = ""
		}

		target := occ
		op.Target = &target
		cs.Ops = append(cs.Ops, op)
	}

	if len(cs.Ops) == 0 {
		return nil, nil
	}
	return cs, nil
}

// ➕ Add builds the insert edits for one file. It does not consult the matcher.
func (b *Builder) Add(path string, snapshot []byte, req AddRequest) (*FileChangeSet, error) {
	if strings.TrimSpace(req.Value) == "" {
		return nil, errors.Errorf("value to add is required")
	}
	if strings.ContainsAny(req.Value, "\r\n") {
		return nil, errors.Errorf("value to add must be a single line")
	}

	doc := text.Parse(snapshot)
	anchors, err := b.findAnchors(doc, req.Anchor)
	if err != nil {
		return nil, err
	}
	if len(anchors) == 0 {
		return nil, &AnchorNotFoundError{Path: path, Anchor: req.Anchor}
	}

	cs := &FileChangeSet{Path: path, Snapshot: snapshot}
	for _, no := range anchors {
		line := doc.Lines[no-1].Text
		value := req.Value
		if text.Indentation(value) == "" {
			value = text.Indentation(line) + value
		}
		cs.Ops = append(cs.Ops, EditOperation{
			Kind:     KindAdd,
			Line:     no,
			Original: line,
			New:      value,
			Position: req.Anchor.Position,
		})
	}
	return cs, nil
}

func (b *Builder) findAnchors(doc *text.Document, a Anchor) ([]int, error) {
	var match func(string) bool
	switch a.Kind {
	case AnchorLine:
		if a.Line >= 1 && a.Line <= doc.Len() {
			return []int{a.Line}, nil
		}
		return nil, nil
	case AnchorTestFunction:
		match = b.testFunc.MatchString
	case AnchorPattern:
		if a.Pattern == "" {
			return nil, errors.Errorf("anchor pattern is required")
		}
		match = func(s string) bool { return strings.Contains(s, a.Pattern) }
	default:
		return nil, errors.Errorf("unknown anchor kind %d", a.Kind)
	}

	var out []int
	for i, l := range doc.Lines {
		if match(l.Text) {
			out = append(out, i+1)
			if !a.All {
				break
			}
		}
	}
	return out, nil
}
