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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		wantLines   []Line
		wantEOL     string
		wantTrailer bool
	}{
		{
			name:        "unix_newlines",
			content:     "a\nb\n",
			wantLines:   []Line{{Text: "a", EOL: "\n"}, {Text: "b", EOL: "\n"}},
			wantEOL:     "\n",
			wantTrailer: true,
		},
		{
			name:        "windows_newlines",
			content:     "a\r\nb\r\n",
			wantLines:   []Line{{Text: "a", EOL: "\r\n"}, {Text: "b", EOL: "\r\n"}},
			wantEOL:     "\r\n",
			wantTrailer: true,
		},
		{
			name:        "no_trailing_newline",
			content:     "a\nb",
			wantLines:   []Line{{Text: "a", EOL: "\n"}, {Text: "b"}},
			wantEOL:     "\n",
			wantTrailer: false,
		},
		{
			name:        "mixed_endings",
			content:     "a\r\nb\nc",
			wantLines:   []Line{{Text: "a", EOL: "\r\n"}, {Text: "b", EOL: "\n"}, {Text: "c"}},
			wantEOL:     "\r\n",
			wantTrailer: false,
		},
		{
			name:        "empty",
			content:     "",
			wantLines:   nil,
			wantEOL:     "\n",
			wantTrailer: false,
		},
		{
			name:        "blank_lines",
			content:     "\n\n",
			wantLines:   []Line{{EOL: "\n"}, {EOL: "\n"}},
			wantEOL:     "\n",
			wantTrailer: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Parse([]byte(tt.content))
			assert.Equal(t, tt.wantLines, doc.Lines, "lines should match")
			assert.Equal(t, tt.wantEOL, doc.DefaultEOL(), "default eol should match")
			assert.Equal(t, tt.wantTrailer, doc.HasTrailingNewline(), "trailing newline should match")
			require.Equal(t, tt.content, string(doc.Bytes()), "content should round trip")
		})
	}
}

func TestIndentation(t *testing.T) {
	assert.Equal(t, "    ", Indentation("    @mark.slow"))
	assert.Equal(t, "\t", Indentation("\tdef test_x():"))
	assert.Equal(t, "", Indentation("@mark.slow"))
	assert.Equal(t, "  ", Indentation("  "))
}
