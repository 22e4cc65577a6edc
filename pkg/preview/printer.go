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
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// 🎨 Printer writes rendered diffs to a console with colour. Paired -/+
// lines get their changed characters underlined.
type Printer struct {
	w io.Writer
}

// 🏭 NewPrinter creates a printer for w
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

var (
	headerColor  = color.New(color.Bold)
	hunkColor    = color.New(color.FgCyan)
	removedColor = color.New(color.FgRed)
	addedColor   = color.New(color.FgGreen)
	removedEmph  = color.New(color.FgRed, color.Underline)
	addedEmph    = color.New(color.FgGreen, color.Underline)
)

// 🖨️ Print writes one file's diff
func (p *Printer) Print(diff string) error {
	lines := strings.SplitAfter(diff, "\n")
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if line == "" {
			continue
		}
		var out string
		switch {
		case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"):
			out = colorize(headerColor, line)
		case strings.HasPrefix(line, "@@"):
			out = colorize(hunkColor, line)
		case strings.HasPrefix(line, "-") && pairedAdd(lines, i):
			removed, added := highlight(line, lines[i+1])
			out = removed + added
			i++
		case strings.HasPrefix(line, "-"):
			out = colorize(removedColor, line)
		case strings.HasPrefix(line, "+"):
			out = colorize(addedColor, line)
		default:
			out = line
		}
		if _, err := io.WriteString(p.w, out); err != nil {
			return err
		}
	}
	return nil
}

// pairedAdd reports whether line i is a lone removal directly followed by a lone addition
func pairedAdd(lines []string, i int) bool {
	if i+1 >= len(lines) || !strings.HasPrefix(lines[i+1], "+") || strings.HasPrefix(lines[i+1], "+++") {
		return false
	}
	if i > 0 && strings.HasPrefix(lines[i-1], "-") && !strings.HasPrefix(lines[i-1], "---") {
		return false
	}
	if i+2 < len(lines) && strings.HasPrefix(lines[i+2], "+") {
		return false
	}
	return true
}

// highlight colours a removed/added pair, emphasising the characters that differ
func highlight(removed, added string) (string, string) {
	oldBody, oldEnd := splitEnd(removed[1:])
	newBody, newEnd := splitEnd(added[1:])

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(oldBody, newBody, false))

	var rb, ab strings.Builder
	rb.WriteString(removedColor.Sprint("-"))
	ab.WriteString(addedColor.Sprint("+"))
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			rb.WriteString(removedColor.Sprint(d.Text))
			ab.WriteString(addedColor.Sprint(d.Text))
		case diffmatchpatch.DiffDelete:
			rb.WriteString(removedEmph.Sprint(d.Text))
		case diffmatchpatch.DiffInsert:
			ab.WriteString(addedEmph.Sprint(d.Text))
		}
	}
	return rb.String() + oldEnd, ab.String() + newEnd
}

func splitEnd(s string) (string, string) {
	body := strings.TrimRight(s, "\r\n")
	return body, s[len(body):]
}

func colorize(c *color.Color, line string) string {
	body, end := splitEnd(line)
	return c.Sprint(body) + end
}

// 📣 PrintFile writes a header line naming the file followed by its diff
func (p *Printer) PrintFile(path, diff string) error {
	if _, err := fmt.Fprintf(p.w, "\n%s %s\n", color.New(color.FgMagenta).Sprint("◆"), color.New(color.Bold).Sprint(path)); err != nil {
		return err
	}
	return p.Print(diff)
}
