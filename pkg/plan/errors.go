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

import "fmt"

// ⚠️ AmbiguousMatchError reports a replace target that appears more than once
// on a line without an explicit occurrence index. It is a warning: every span
// on the line is replaced, left to right.
type AmbiguousMatchError struct {
	Path    string
	Line    int
	Keyword string
	Count   int
}

func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf("%s:%d: %q appears %d times; replacing all", e.Path, e.Line, e.Keyword, e.Count)
}

// ⚓ AnchorNotFoundError means an add operation had nowhere to insert; the file is skipped
type AnchorNotFoundError struct {
	Path   string
	Anchor Anchor
}

func (e *AnchorNotFoundError) Error() string {
	return fmt.Sprintf("%s: anchor not found: %s", e.Path, e.Anchor)
}
