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

// NewReplaceCmd creates the replace command
func NewReplaceCmd(o *opts.RootOpts) *cobra.Command {
	var (
		lines bool
		index int
	)
	cmd := &cobra.Command{
		Use:   "replace OLD NEW",
		Short: "Replace a keyword inside markers",
		Long: `Replace swaps OLD for NEW inside every marker that carries OLD. With
--lines the whole marker line is replaced by NEW instead.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := plan.ReplaceRequest{Keyword: args[0], Value: args[1], WholeLine: lines}
			if cmd.Flags().Changed("index") {
				if index < 0 {
					return errors.Errorf("--index must not be negative, got %d", index)
				}
				req.OccurrenceIndex = &index
			}

			sum, err := o.Engine.Replace(cmd.Context(), operation.Scope{Files: o.Files}, req)
			if err != nil {
				return errors.Errorf("replacing %s: %w", args[0], err)
			}
			return o.Finish(sum)
		},
	}

	cmd.Flags().BoolVar(&lines, "lines", false, "replace whole marker lines")
	cmd.Flags().IntVar(&index, "index", 0, "only replace the Nth match on each line, counting from 0")

	return cmd
}
