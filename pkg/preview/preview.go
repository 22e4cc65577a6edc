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

package preview

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/walteh/perseus/pkg/plan"
	"gitlab.com/tozd/go/errors"
)

// DefaultContext is the number of unchanged lines shown around each hunk
const DefaultContext = 2

// 👀 Previewer renders change sets as unified diffs without touching disk
type Previewer struct {
	context int
}

// 🏭 New creates a previewer; a negative context falls back to DefaultContext
func New(context int) *Previewer {
	if context < 0 {
		context = DefaultContext
	}
	return &Previewer{context: context}
}

// 📄 Render diffs a change set's snapshot against its result
func (p *Previewer) Render(cs *plan.FileChangeSet) (string, error) {
	after, err := cs.Result()
	if err != nil {
		return "", errors.Errorf("computing result for %s: %w", cs.Path, err)
	}
	return p.RenderDiff(cs.Path, cs.Snapshot, after)
}

// 📄 RenderDiff diffs two versions of a file. The output depends only on its
// inputs, so equal inputs always render identical text.
func (p *Previewer) RenderDiff(path string, before, after []byte) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        splitLines(before),
		B:        splitLines(after),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  p.context,
	}
	out, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", errors.Errorf("rendering diff for %s: %w", path, err)
	}
	return out, nil
}

// 📋 RenderPlan concatenates the previews of every change set in plan order
func (p *Previewer) RenderPlan(pl *plan.Plan) (string, error) {
	var b strings.Builder
	for _, cs := range pl.Changes {
		out, err := p.Render(cs)
		if err != nil {
			return "", err
		}
		b.WriteString(out)
	}
	return b.String(), nil
}

// NoNewline marks a final line that has no terminator
const NoNewline = `\ No newline at end of file`

// splitLines keeps terminators and tags an unterminated last line so that
// adding or dropping a final newline shows up in the diff
func splitLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	lines := strings.SplitAfter(string(content), "\n")
	last := len(lines) - 1
	if lines[last] == "" {
		return lines[:last]
	}
	lines[last] += "\n" + NoNewline + "\n"
	return lines
}
