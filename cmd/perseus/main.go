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

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/walteh/perseus/cmd/perseus/commands"
	"github.com/walteh/perseus/cmd/perseus/opts"
	"gitlab.com/tozd/go/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command line and returns the process exit status
func run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	cmd, o := newCommand()
	cmd.SetArgs(args)
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	if err := cmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(errOut, "perseus: interrupted")
			return 2
		}
		fmt.Fprintf(errOut, "perseus: %v\n", err)
		return 1
	}
	return o.ExitCode
}

// NewCommand creates the perseus root command
func NewCommand() *cobra.Command {
	cmd, _ := newCommand()
	return cmd
}

func newCommand() (*cobra.Command, *opts.RootOpts) {
	flags := &rootFlags{}
	o := &opts.RootOpts{}

	cmd := &cobra.Command{
		Use:   "perseus",
		Short: "Search and rewrite test markers",
		Long: `perseus finds marker annotations such as @mark.slow in test files and
can replace, remove or add them. Every change is shown as a diff and
confirmed before anything is written.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogging(flags.debug, cmd.ErrOrStderr())
			cmd.SetContext(logger.WithContext(cmd.Context()))
			setupColor(cmd.OutOrStdout())
			return newRootOpts(cmd, flags, o)
		},
	}

	addRootFlags(cmd, flags)

	cmd.AddCommand(
		commands.NewSearchCmd(o),
		commands.NewReplaceCmd(o),
		commands.NewRemoveCmd(o),
		commands.NewAddCmd(o),
		newVersionCmd(),
	)

	return cmd, o
}
