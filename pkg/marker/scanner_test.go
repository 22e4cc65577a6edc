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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func TestPatternSet_Tokens(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		line     string
		want     []Token
	}{
		{
			name: "default_decorator",
			line: "@mark.slow",
			want: []Token{{Text: "@mark.slow", Start: 0, End: 10}},
		},
		{
			name: "indented_with_arguments",
			line: "    @pytest.mark.flaky(reruns=2)",
			want: []Token{{Text: "@pytest.mark.flaky(reruns=2)", Start: 4, End: 32}},
		},
		{
			name: "two_markers_one_line",
			line: "@slow @db",
			want: []Token{{Text: "@slow", Start: 0, End: 5}, {Text: "@db", Start: 6, End: 9}},
		},
		{
			name: "no_marker",
			line: "def test_something():",
			want: nil,
		},
		{
			name:     "overlapping_patterns_merge",
			patterns: []string{`@mark\.\w+`, `mark\.slow\(\)`},
			line:     "@mark.slow()",
			want:     []Token{{Text: "@mark.slow()", Start: 0, End: 12}},
		},
		{
			name:     "custom_comment_pattern",
			patterns: []string{`#\s*(?:TODO|FIXME)\b`},
			line:     "x = 1  # TODO: later",
			want:     []Token{{Text: "# TODO", Start: 7, End: 13}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ps, err := NewPatternSet(tt.patterns...)
			require.NoError(t, err, "compiling patterns")
			assert.Equal(t, tt.want, ps.Tokens(tt.line))
		})
	}
}

func TestNewPatternSet_Invalid(t *testing.T) {
	_, err := NewPatternSet("(")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compiling marker pattern")

	_, err = NewPatternSet("  ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty marker pattern")
}

func TestScanner_Scan(t *testing.T) {
	ps, err := NewPatternSet()
	require.NoError(t, err)
	scanner := NewScanner(ps)

	content := strings.Join([]string{
		"import pytest",
		"",
		"@mark.slow",
		"def test_a():",
		"    pass",
		"",
		"@mark.db @mark.slow\r",
		"def test_b(): pass",
	}, "\n")

	occs, err := Collect(scanner.Scan("t.py", strings.NewReader(content)))
	require.NoError(t, err, "scanning")
	require.Len(t, occs, 2, "should find two marker lines")

	assert.Equal(t, 3, occs[0].Line)
	assert.Equal(t, "@mark.slow", occs[0].Text)
	assert.Equal(t, "t.py", occs[0].Path)

	assert.Equal(t, 7, occs[1].Line)
	assert.Equal(t, "@mark.db @mark.slow", occs[1].Text, "crlf terminator should be stripped")
	assert.Len(t, occs[1].Tokens, 2)
}

func TestScanner_Scan_Unreadable(t *testing.T) {
	ps, err := NewPatternSet()
	require.NoError(t, err)
	scanner := NewScanner(ps)

	content := "@mark.slow\n\xff\xfe binary\n@mark.fast\n"
	var got []Occurrence
	var scanErr error
	for occ, err := range scanner.Scan("bin.py", strings.NewReader(content)) {
		if err != nil {
			scanErr = err
			break
		}
		got = append(got, occ)
	}

	require.Error(t, scanErr)
	var unreadable *FileUnreadableError
	require.True(t, errors.As(scanErr, &unreadable), "error should be FileUnreadableError")
	assert.Equal(t, "bin.py", unreadable.Path)
	assert.Equal(t, 2, unreadable.Line)
	assert.Len(t, got, 1, "occurrences before the bad line are still yielded")
}

func TestScanner_Scan_StopsEarly(t *testing.T) {
	ps, err := NewPatternSet()
	require.NoError(t, err)
	scanner := NewScanner(ps)

	count := 0
	for range scanner.Scan("t.py", strings.NewReader("@a\n@b\n@c\n")) {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)
}
