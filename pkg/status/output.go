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

package status

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/walteh/perseus/pkg/marker"
	"gitlab.com/tozd/go/errors"
)

// DefaultTrimPrefix is stripped from paths when trimming is on
const DefaultTrimPrefix = "tests/"

// 🔎 SearchResult is one file's matching marker lines
type SearchResult struct {
	Path  string
	Lines []marker.Match
}

// 📤 WriteSearchResults prints each file followed by its matching lines
func WriteSearchResults(w io.Writer, results []SearchResult) error {
	for _, res := range results {
		if len(res.Lines) == 0 {
			continue
		}
		if _, err := fmt.Fprintln(w, res.Path); err != nil {
			return errors.Errorf("writing search results: %w", err)
		}
		for _, m := range res.Lines {
			if _, err := fmt.Fprintf(w, "Line %d: %s\n", m.Occurrence.Line, strings.TrimSpace(m.Occurrence.Text)); err != nil {
				return errors.Errorf("writing search results: %w", err)
			}
		}
	}
	return nil
}

// 🔧 ListOptions controls how matched file names are written
type ListOptions struct {
	TrimPrefix string // Removed from the front of each path when present
	SingleLine bool   // Space separated on one line instead of one per line
}

// 📤 WriteFileList writes matched paths, one per line or all on one line
func WriteFileList(w io.Writer, paths []string, opts ListOptions) error {
	names := make([]string, 0, len(paths))
	for _, p := range paths {
		if opts.TrimPrefix != "" {
			p = strings.TrimPrefix(p, opts.TrimPrefix)
		}
		names = append(names, p)
	}
	if len(names) == 0 {
		return nil
	}

	var out string
	if opts.SingleLine {
		out = strings.Join(names, " ") + "\n"
	} else {
		out = strings.Join(names, "\n") + "\n"
	}
	if _, err := io.WriteString(w, out); err != nil {
		return errors.Errorf("writing file list: %w", err)
	}
	return nil
}

// 📊 RenderSummary prints the tallies as a table followed by a one-line verdict
func RenderSummary(w io.Writer, s *Summary) error {
	data := pterm.TableData{
		{"scanned", "matched", "changed", "previewed", "skipped", "failed"},
		{
			strconv.Itoa(s.Scanned),
			strconv.Itoa(s.Matched),
			strconv.Itoa(s.Changed),
			strconv.Itoa(s.Previewed),
			strconv.Itoa(s.Skipped),
			strconv.Itoa(s.Failed),
		},
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).Srender()
	if err != nil {
		return errors.Errorf("rendering summary table: %w", err)
	}

	var verdict string
	switch {
	case s.Aborted:
		verdict = pterm.Warning.WithPrefix(pterm.Prefix{Text: "🛑"}).Sprintln(s.Kind + " aborted by user")
	case s.Failed > 0:
		verdict = pterm.Error.WithPrefix(pterm.Prefix{Text: "❌"}).Sprintf("%s failed for %d file(s)\n", s.Kind, s.Failed)
	default:
		verdict = pterm.Success.WithPrefix(pterm.Prefix{Text: "✅"}).Sprintf("%s complete\n", s.Kind)
	}

	if _, err := fmt.Fprintf(w, "%s\n%s", table, verdict); err != nil {
		return errors.Errorf("writing summary: %w", err)
	}
	return nil
}
