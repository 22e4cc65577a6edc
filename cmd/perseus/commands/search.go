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
	"bytes"
	"io"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"github.com/walteh/perseus/cmd/perseus/opts"
	"github.com/walteh/perseus/pkg/apply"
	"github.com/walteh/perseus/pkg/operation"
	"github.com/walteh/perseus/pkg/status"
	"gitlab.com/tozd/go/errors"
)

type searchFlags struct {
	filesOnly  bool
	trimPaths  bool
	singleLine bool
	output     string
	copy       bool
}

// listing reports whether only file names are printed
func (f *searchFlags) listing() bool {
	return f.filesOnly || f.trimPaths || f.singleLine || f.output != "" || f.copy
}

// NewSearchCmd creates the search command
func NewSearchCmd(o *opts.RootOpts) *cobra.Command {
	f := &searchFlags{}
	cmd := &cobra.Command{
		Use:   "search [KEYWORD...]",
		Short: "List marker lines carrying the keywords",
		Long: `Search reads every file and prints the marker lines that carry the
keywords, grouped by file. Nothing is written. Keywords default to the
ones in the config file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			keywords := keywordsOrConfig(o, args)
			if len(keywords) == 0 {
				return errors.New("at least one keyword is required")
			}

			res, err := o.Engine.Search(ctx, operation.SearchRequest{Files: o.Files, Keywords: keywords})
			if err != nil {
				return errors.Errorf("searching: %w", err)
			}

			if !f.listing() {
				return status.WriteSearchResults(o.Out, res.Files)
			}

			list := status.ListOptions{SingleLine: f.singleLine}
			if f.trimPaths {
				list.TrimPrefix = status.DefaultTrimPrefix
			}
			var buf bytes.Buffer
			if err := status.WriteFileList(&buf, res.Paths(), list); err != nil {
				return err
			}

			if f.output != "" {
				if err := apply.New(nil).WriteFile(ctx, f.output, buf.Bytes(), 0o644); err != nil {
					return errors.Errorf("writing %s: %w", f.output, err)
				}
				o.Console.Successf("wrote %d file name(s) to %s", len(res.Files), f.output)
			}
			if f.copy {
				if err := clipboard.WriteAll(buf.String()); err != nil {
					return errors.Errorf("copying to clipboard: %w", err)
				}
				o.Console.Successf("copied %d file name(s) to the clipboard", len(res.Files))
			}
			if f.output == "" && !f.copy {
				_, err := io.Copy(o.Out, &buf)
				return err
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&f.filesOnly, "files-only", false, "print only the names of matching files")
	cmd.Flags().BoolVar(&f.trimPaths, "trim-paths", false, "strip the leading "+status.DefaultTrimPrefix+" from file names")
	cmd.Flags().BoolVar(&f.singleLine, "single-line", false, "print file names space separated on one line")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "write file names to this file")
	cmd.Flags().BoolVar(&f.copy, "copy", false, "copy file names to the clipboard")

	return cmd
}

func keywordsOrConfig(o *opts.RootOpts, args []string) []string {
	if len(args) > 0 {
		return args
	}
	return o.Config.Keywords
}
