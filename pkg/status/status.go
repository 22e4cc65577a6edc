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
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/walteh/perseus/pkg/log"
)

// 📊 FileStatus is the outcome of one file in one invocation
type FileStatus int

const (
	StatusUnknown    FileStatus = iota
	StatusUnreadable            // File could not be read as text
	StatusNoMatch               // No marker matched
	StatusMatched               // Matched; search only
	StatusApplied               // Edits written to disk
	StatusSkipped               // User declined, or nothing to do
	StatusFailed                // Write failed; original intact
	StatusPreviewed             // Dry run; preview shown only
)

// String returns a string representation of FileStatus
func (s FileStatus) String() string {
	switch s {
	case StatusUnreadable:
		return "unreadable"
	case StatusNoMatch:
		return "no match"
	case StatusMatched:
		return "matched"
	case StatusApplied:
		return "applied"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	case StatusPreviewed:
		return "previewed"
	default:
		return "unknown"
	}
}

// 📄 FileResult is the recorded outcome for one file
type FileResult struct {
	Path    string
	Matches int
	Edits   int
	Status  FileStatus
	Err     error
}

// 📈 Summary tallies one invocation
type Summary struct {
	Kind      string
	Scanned   int
	Matched   int
	Changed   int
	Skipped   int
	Failed    int
	Previewed int
	Aborted   bool
	Results   []FileResult
}

// 🚪 ExitCode is 0 on full success, 1 if any file failed and 2 if the user aborted
func (s *Summary) ExitCode() int {
	switch {
	case s.Aborted:
		return 2
	case s.Failed > 0:
		return 1
	default:
		return 0
	}
}

// 📋 Reporter records per-file outcomes and reports them as they happen
type Reporter struct {
	kind      string
	console   *log.Logger
	formatter FileFormatter

	mu      sync.Mutex
	summary Summary
}

// 🏭 NewReporter creates a reporter; console may be nil to report through zerolog only
func NewReporter(kind string, console *log.Logger) *Reporter {
	return &Reporter{
		kind:      kind,
		console:   console,
		formatter: NewDefaultFileFormatter(),
		summary:   Summary{Kind: kind},
	}
}

// 📝 Record adds one file outcome to the summary
func (r *Reporter) Record(ctx context.Context, res FileResult) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.summary.Scanned++
	r.summary.Results = append(r.summary.Results, res)
	// add without keywords has no matches but still plans edits
	if res.Matches > 0 || res.Edits > 0 {
		r.summary.Matched++
	}
	switch res.Status {
	case StatusApplied:
		r.summary.Changed++
	case StatusSkipped, StatusUnreadable:
		r.summary.Skipped++
	case StatusFailed:
		r.summary.Failed++
	case StatusPreviewed:
		r.summary.Previewed++
	}

	msg := r.formatter.FormatResult(res)
	event := zerolog.Ctx(ctx).Info()
	if res.Err != nil {
		event = zerolog.Ctx(ctx).Warn().Err(res.Err)
	}
	event.Str("path", res.Path).
		Str("status", res.Status.String()).
		Int("matches", res.Matches).
		Int("edits", res.Edits).
		Msg(msg)

	if r.console != nil && res.Status != StatusNoMatch {
		op := log.FileOperation{
			Path:      res.Path,
			Kind:      r.kind,
			Status:    res.Status.String(),
			Matches:   res.Matches,
			Edits:     res.Edits,
			IsChanged: res.Status == StatusApplied,
			IsSkipped: res.Status == StatusSkipped || res.Status == StatusUnreadable || res.Status == StatusPreviewed,
			IsFailed:  res.Status == StatusFailed,
		}
		op.Detail = r.formatter.FormatError(res.Err)
		r.console.LogFileOperation(ctx, op)
	}
}

// 🛑 Abort marks the invocation as aborted by the user
func (r *Reporter) Abort(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.summary.Aborted = true
	zerolog.Ctx(ctx).Info().Str("kind", r.kind).Msg("aborted by user")
}

// Summary returns a copy of the tallies so far
func (r *Reporter) Summary() *Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.summary
	s.Results = append([]FileResult(nil), r.summary.Results...)
	return &s
}
