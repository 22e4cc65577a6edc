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
	"strings"

	"github.com/walteh/perseus/pkg/marker"
	"github.com/walteh/perseus/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🔀 Kind is the closed set of mutating operations
type Kind int

const (
	KindReplace Kind = iota + 1 // Substitute a keyword inside markers
	KindRemove                  // Excise markers, or whole lines
	KindAdd                     // Insert a new marker line next to an anchor
)

// String returns the operation name
func (k Kind) String() string {
	switch k {
	case KindReplace:
		return "replace"
	case KindRemove:
		return "remove"
	case KindAdd:
		return "add"
	default:
		return "unknown"
	}
}

// 📌 Position places an inserted line relative to its anchor
type Position int

const (
	Before Position = iota
	After
)

// String returns the position name
func (p Position) String() string {
	if p == After {
		return "after"
	}
	return "before"
}

// ✏️ EditOperation is exactly one line-level change
type EditOperation struct {
	Kind       Kind
	Target     *marker.Occurrence // nil for add
	Line       int                // 1-based line in the snapshot (the anchor line for add)
	Original   string             // Line text before the edit
	New        string             // Line text after the edit, or the inserted line
	DeleteLine bool               // Remove the whole line instead of rewriting it
	Position   Position           // Insertion side, add only
}

// 🗂️ FileChangeSet is the ordered edits for one file plus the snapshot they apply to
type FileChangeSet struct {
	Path     string
	Ops      []EditOperation
	Snapshot []byte  // Original content, held until the write is durable
	Warnings []error // Non-fatal findings such as *AmbiguousMatchError

	applied  bool
	released bool
}

// Applied reports whether the change set has been written
func (cs *FileChangeSet) Applied() bool {
	return cs.applied
}

// ✅ MarkApplied flips the applied flag; it may only happen once
func (cs *FileChangeSet) MarkApplied() error {
	if cs.applied {
		return errors.Errorf("change set for %s already applied", cs.Path)
	}
	cs.applied = true
	return nil
}

// 🧹 Release drops the snapshot once the new content is on disk
func (cs *FileChangeSet) Release() {
	cs.Snapshot = nil
	cs.released = true
}

// 🏗️ Result computes the file content after every operation
func (cs *FileChangeSet) Result() ([]byte, error) {
	if cs.released {
		return nil, errors.Errorf("change set for %s has released its snapshot", cs.Path)
	}
	doc := text.Parse(cs.Snapshot)
	n := doc.Len()
	eol := doc.DefaultEOL()

	rewrite := map[int]EditOperation{}
	before := map[int][]string{}
	after := map[int][]string{}
	for _, op := range cs.Ops {
		if op.Line < 1 || op.Line > n {
			return nil, errors.Errorf("%s: operation targets line %d outside 1..%d", cs.Path, op.Line, n)
		}
		switch op.Kind {
		case KindReplace, KindRemove:
			if _, dup := rewrite[op.Line]; dup {
				return nil, errors.Errorf("%s: line %d edited twice", cs.Path, op.Line)
			}
			if op.Original != doc.Lines[op.Line-1].Text {
				return nil, errors.Errorf("%s: line %d does not match the snapshot", cs.Path, op.Line)
			}
			rewrite[op.Line] = op
		case KindAdd:
			if op.Position == After {
				after[op.Line] = append(after[op.Line], op.New)
			} else {
				before[op.Line] = append(before[op.Line], op.New)
			}
		default:
			return nil, errors.Errorf("%s: unknown operation kind %d", cs.Path, op.Kind)
		}
	}

	out := &text.Document{}
	for i, line := range doc.Lines {
		no := i + 1
		for _, s := range before[no] {
			out.Lines = append(out.Lines, text.Line{Text: s, EOL: eol})
		}
		if op, ok := rewrite[no]; ok {
			if !op.DeleteLine {
				out.Lines = append(out.Lines, text.Line{Text: op.New, EOL: line.EOL})
			}
		} else {
			out.Lines = append(out.Lines, line)
		}
		for _, s := range after[no] {
			out.Lines = append(out.Lines, text.Line{Text: s, EOL: eol})
		}
	}

	// only the final line may be unterminated, and only if the original was
	trailing := doc.HasTrailingNewline()
	for i := range out.Lines {
		last := i == len(out.Lines)-1
		switch {
		case last && !trailing:
			out.Lines[i].EOL = ""
		case out.Lines[i].EOL == "":
			out.Lines[i].EOL = eol
		}
	}

	return out.Bytes(), nil
}

// String summarizes the change set for logs
func (cs *FileChangeSet) String() string {
	return fmt.Sprintf("%s (%d edits)", cs.Path, len(cs.Ops))
}

// 📋 Plan is every proposed edit of one invocation
type Plan struct {
	Kind    Kind
	DryRun  bool
	Changes []*FileChangeSet

	frozen bool
}

// 🏭 New creates an empty plan
func New(kind Kind, dryRun bool) *Plan {
	return &Plan{Kind: kind, DryRun: dryRun}
}

// Add appends a change set; a frozen plan rejects it
func (p *Plan) Add(cs *FileChangeSet) error {
	if p.frozen {
		return errors.Errorf("plan is frozen")
	}
	if cs == nil || len(cs.Ops) == 0 {
		return errors.Errorf("change set has no operations")
	}
	p.Changes = append(p.Changes, cs)
	return nil
}

// 🧊 Freeze makes the plan immutable; it happens once the plan is previewed
func (p *Plan) Freeze() {
	p.frozen = true
}

// Frozen reports whether the plan can still grow
func (p *Plan) Frozen() bool {
	return p.frozen
}

// Paths lists the files the plan touches, in order
func (p *Plan) Paths() []string {
	out := make([]string, 0, len(p.Changes))
	for _, cs := range p.Changes {
		out = append(out, cs.Path)
	}
	return out
}

// String summarizes the plan for logs
func (p *Plan) String() string {
	return fmt.Sprintf("%s plan: %s", p.Kind, strings.Join(p.Paths(), ", "))
}
