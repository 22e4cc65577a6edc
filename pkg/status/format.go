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
)

// FileFormatter defines how file outcomes and progress are phrased
type FileFormatter interface {
	// FormatResult formats a single file outcome
	FormatResult(res FileResult) string

	// FormatProgress formats a progress message
	FormatProgress(current, total int) string

	// FormatError formats the reason a file was skipped or failed
	FormatError(err error) string
}

// DefaultFileFormatter provides a default implementation of FileFormatter
type DefaultFileFormatter struct{}

// NewDefaultFileFormatter creates a new DefaultFileFormatter
func NewDefaultFileFormatter() *DefaultFileFormatter {
	return &DefaultFileFormatter{}
}

// FormatResult formats a file outcome with emojis
func (f *DefaultFileFormatter) FormatResult(res FileResult) string {
	switch res.Status {
	case StatusApplied:
		return fmt.Sprintf("📝 Modified %s (%d edits)", res.Path, res.Edits)
	case StatusPreviewed:
		return fmt.Sprintf("👀 Previewed %s (%d edits)", res.Path, res.Edits)
	case StatusMatched:
		return fmt.Sprintf("🔎 Matched %s (%d lines)", res.Path, res.Matches)
	case StatusSkipped:
		return fmt.Sprintf("⏭️  Skipped %s", res.Path)
	case StatusUnreadable:
		return fmt.Sprintf("🚫 Unreadable %s", res.Path)
	case StatusFailed:
		return fmt.Sprintf("❌ Failed %s", res.Path)
	default:
		return fmt.Sprintf("👍 Unchanged %s", res.Path)
	}
}

// FormatProgress formats a progress message with percentage
func (f *DefaultFileFormatter) FormatProgress(current, total int) string {
	var percentage float64
	if total == 0 {
		percentage = 0
		if current > 0 {
			percentage = 100
		}
	} else {
		percentage = float64(current) / float64(total) * 100
	}

	if current >= total {
		return fmt.Sprintf("✅ Progress: %d/%d (%.0f%%)", current, total, percentage)
	}
	return fmt.Sprintf("⏳ Progress: %d/%d (%.0f%%)", current, total, percentage)
}

// FormatError formats the reason shown after a file's status
func (f *DefaultFileFormatter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("(%v)", err)
}
