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

package commands

import (
	"github.com/spf13/cobra"
	"github.com/walteh/perseus/cmd/perseus/opts"
	"github.com/walteh/perseus/pkg/operation"
	"github.com/walteh/perseus/pkg/plan"
	"gitlab.com/tozd/go/errors"
)

type addFlags struct {
	before   string
	after    string
	line     int
	testFunc bool
	below    bool
	all      bool
	where    []string
}

// anchor turns the flags into a plan anchor
func (f *addFlags) anchor(cmd *cobra.Command) (plan.Anchor, error) {
	pos := plan.Before
	if f.below {
		pos = plan.After
	}
	switch {
	case cmd.Flags().Changed("before"):
		return plan.Anchor{Kind: plan.AnchorPattern, Pattern: f.before, Position: plan.Before, All: f.all}, nil
	case cmd.Flags().Changed("after"):
		return plan.Anchor{Kind: plan.AnchorPattern, Pattern: f.after, Position: plan.After, All: f.all}, nil
	case cmd.Flags().Changed("line"):
		if f.line < 1 {
			return plan.Anchor{}, errors.Errorf("--line must be at least 1, got %d", f.line)
		}
		return plan.Anchor{Kind: plan.AnchorLine, Line: f.line, Position: pos}, nil
	case f.testFunc:
		return plan.Anchor{Kind: plan.AnchorTestFunction, Position: pos, All: f.all}, nil
	}
	return plan.Anchor{}, errors.New("one of --before, --after, --line or --test-func is required")
}

// NewAddCmd creates the add command
func NewAddCmd(o *opts.RootOpts) *cobra.Command {
	f := &addFlags{}
	cmd := &cobra.Command{
		Use:   "add VALUE",
		Short: "Insert a marker line",
		Long: `Add inserts VALUE as a new line next to an anchor: a line containing a
string, a line number or a test function definition. The new line takes
the indentation of its anchor. With --where only files whose markers carry
one of the keywords are touched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := f.anchor(cmd)
			if err != nil {
				return err
			}

			sum, err := o.Engine.Add(cmd.Context(), operation.Scope{Files: o.Files, Keywords: f.where}, plan.AddRequest{
				Value:  args[0],
				Anchor: a,
			})
			if err != nil {
				return errors.Errorf("adding %s: %w", args[0], err)
			}
			return o.Finish(sum)
		},
	}

	cmd.Flags().StringVar(&f.before, "before", "", "insert before lines containing this string")
	cmd.Flags().StringVar(&f.after, "after", "", "insert after lines containing this string")
	cmd.Flags().IntVar(&f.line, "line", 0, "insert next to this line number")
	cmd.Flags().BoolVar(&f.testFunc, "test-func", false, "insert next to test function definitions")
	cmd.Flags().BoolVar(&f.below, "below", false, "with --line or --test-func, insert after the anchor instead of before")
	cmd.Flags().BoolVar(&f.all, "all", false, "insert at every matching anchor, not just the first")
	cmd.Flags().StringSliceVar(&f.where, "where", nil, "only touch files whose markers carry one of these keywords")
	cmd.MarkFlagsMutuallyExclusive("before", "after", "line", "test-func")

	return cmd
}
