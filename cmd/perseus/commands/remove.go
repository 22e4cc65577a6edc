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

// NewRemoveCmd creates the remove command
func NewRemoveCmd(o *opts.RootOpts) *cobra.Command {
	var lines bool
	cmd := &cobra.Command{
		Use:   "remove KEYWORD",
		Short: "Remove markers carrying a keyword",
		Long: `Remove deletes every marker that carries KEYWORD. A line left empty
is deleted; with --lines the whole line always goes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sum, err := o.Engine.Remove(cmd.Context(), operation.Scope{Files: o.Files}, plan.RemoveRequest{
				Keyword:   args[0],
				WholeLine: lines,
			})
			if err != nil {
				return errors.Errorf("removing %s: %w", args[0], err)
			}
			return o.Finish(sum)
		},
	}

	cmd.Flags().BoolVar(&lines, "lines", false, "delete whole marker lines")

	return cmd
}
