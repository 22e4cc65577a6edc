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

package confirm

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// ⌨️ LinePrompter reads one answer per line. An empty answer means no, and
// end of input means quit.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// 🏭 NewLinePrompter creates a prompter reading from in and asking on out
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out}
}

// Prompt asks until it gets a recognizable answer
func (p *LinePrompter) Prompt(ctx context.Context, question string) (Decision, error) {
	for {
		if err := ctx.Err(); err != nil {
			return Quit, errors.Errorf("waiting for answer: %w", err)
		}
		fmt.Fprintf(p.out, "%s [y]es/[N]o/[a]ll/[q]uit: ", question)

		line, err := p.in.ReadString('\n')
		answer := strings.TrimSpace(line)
		if answer != "" {
			if d, ok := ParseDecision(answer); ok {
				return d, nil
			}
		}
		if err != nil {
			fmt.Fprintln(p.out)
			if err == io.EOF {
				return Quit, nil
			}
			return Quit, errors.Errorf("reading answer: %w", err)
		}
		if answer == "" {
			return No, nil
		}
		fmt.Fprintf(p.out, "unrecognized answer %q\n", answer)
	}
}

// 🤖 AutoPrompter answers every prompt with the same decision
type AutoPrompter struct {
	Decision Decision
}

// Prompt returns the fixed decision
func (p AutoPrompter) Prompt(ctx context.Context, question string) (Decision, error) {
	return p.Decision, nil
}
