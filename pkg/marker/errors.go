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

import "fmt"

// 🚫 FileUnreadableError means a file could not be read as text; the file is
// skipped and the run continues.
type FileUnreadableError struct {
	Path   string
	Line   int // 0 when the failure is not tied to a line
	Reason string
	Err    error
}

func (e *FileUnreadableError) Error() string {
	msg := fmt.Sprintf("file unreadable: %s", e.Path)
	if e.Line > 0 {
		msg += fmt.Sprintf(":%d", e.Line)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FileUnreadableError) Unwrap() error {
	return e.Err
}
