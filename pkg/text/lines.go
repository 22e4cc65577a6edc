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
	"bytes"
	"strings"
)

// 📄 Line is one line of a document together with its original terminator
type Line struct {
	Text string // Content without the terminator
	EOL  string // "\n", "\r\n" or "" for an unterminated final line
}

// 📚 Document is a line view of file content that round-trips byte for byte
type Document struct {
	Lines []Line
}

// 🔪 Parse splits content into lines, keeping each line's terminator
func Parse(content []byte) *Document {
	doc := &Document{}
	rest := string(content)
	for len(rest) > 0 {
		idx := strings.IndexByte(rest, '\n')
		if idx < 0 {
			doc.Lines = append(doc.Lines, Line{Text: rest})
			break
		}
		line := rest[:idx]
		eol := "\n"
		if strings.HasSuffix(line, "\r") {
			line = line[:len(line)-1]
			eol = "\r\n"
		}
		doc.Lines = append(doc.Lines, Line{Text: line, EOL: eol})
		rest = rest[idx+1:]
	}
	return doc
}

// Len returns the number of lines
func (d *Document) Len() int {
	return len(d.Lines)
}

// 📝 Bytes joins the lines back into file content
func (d *Document) Bytes() []byte {
	var buf bytes.Buffer
	for _, l := range d.Lines {
		buf.WriteString(l.Text)
		buf.WriteString(l.EOL)
	}
	return buf.Bytes()
}

// DefaultEOL is the terminator new lines should use: the first one seen, or "\n"
func (d *Document) DefaultEOL() string {
	for _, l := range d.Lines {
		if l.EOL != "" {
			return l.EOL
		}
	}
	return "\n"
}

// HasTrailingNewline reports whether the last line is terminated
func (d *Document) HasTrailingNewline() bool {
	if len(d.Lines) == 0 {
		return false
	}
	return d.Lines[len(d.Lines)-1].EOL != ""
}

// Indentation returns the leading spaces and tabs of s
func Indentation(s string) string {
	return s[:len(s)-len(strings.TrimLeft(s, " \t"))]
}
