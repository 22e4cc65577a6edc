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

package text

import (
	"sort"
	"strings"
)

// 📏 Span is a half-open byte range [Start, End) within a line
type Span struct {
	Start int
	End   int
}

// Len returns the span width in bytes
func (s Span) Len() int {
	return s.End - s.Start
}

// Overlaps reports whether two spans share at least one byte
func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

// normalize sorts spans and drops any that overlap an earlier one
func normalize(spans []Span) []Span {
	out := make([]Span, len(spans))
	copy(out, spans)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })

	kept := out[:0]
	for _, sp := range out {
		if len(kept) > 0 && kept[len(kept)-1].Overlaps(sp) {
			continue
		}
		kept = append(kept, sp)
	}
	return kept
}

// 🔄 ReplaceSpans substitutes every span of s with repl, left to right
func ReplaceSpans(s string, spans []Span, repl string) string {
	var b strings.Builder
	last := 0
	for _, sp := range normalize(spans) {
		b.WriteString(s[last:sp.Start])
		b.WriteString(repl)
		last = sp.End
	}
	b.WriteString(s[last:])
	return b.String()
}

// ✂️ ExciseSpans cuts every span out of s. A span that starts a word takes
// the blanks after it; otherwise it takes the blanks before it. A span with
// text glued to both sides becomes one blank so its neighbours never join.
func ExciseSpans(s string, spans []Span) string {
	kept := normalize(spans)
	for i := len(kept) - 1; i >= 0; i-- {
		start, end := kept[i].Start, kept[i].End
		before := start == 0 || isBlank(s[start-1])
		after := end == len(s) || isBlank(s[end])
		switch {
		case before && end < len(s) && isBlank(s[end]):
			for end < len(s) && isBlank(s[end]) {
				end++
			}
		case after:
			for start > 0 && isBlank(s[start-1]) {
				start--
			}
		case before:
		default:
			s = s[:start] + " " + s[end:]
			continue
		}
		s = s[:start] + s[end:]
	}
	return s
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t'
}
