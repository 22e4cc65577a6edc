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
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/perseus/cmd/perseus/opts"
	"github.com/walteh/perseus/pkg/config"
	"github.com/walteh/perseus/pkg/confirm"
	"github.com/walteh/perseus/pkg/fileset"
	"github.com/walteh/perseus/pkg/log"
	"github.com/walteh/perseus/pkg/operation"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/term"
)

// rootFlags holds the persistent flags shared by every command
type rootFlags struct {
	configFile    string
	debug         bool
	dryRun        bool
	bulkConfirm   bool
	yes           bool
	mode          string
	exclude       []string
	filter        string
	patterns      []string
	caseSensitive bool
	paths         []string
	context       int
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, f *rootFlags) {
	pf := cmd.PersistentFlags()
	pf.StringVarP(&f.configFile, "config", "c", "", "config file path (default: .perseus.{yaml,hcl,json,toml} in the working directory)")
	pf.BoolVarP(&f.debug, "debug", "d", false, "enable debug logging")
	pf.BoolVarP(&f.dryRun, "dry-run", "n", false, "show the changes without writing anything")
	pf.BoolVar(&f.bulkConfirm, "bulk-confirm", false, "ask once for the whole change instead of once per file")
	pf.BoolVarP(&f.yes, "yes", "y", false, "apply every change without asking")
	pf.StringVar(&f.mode, "mode", "", "keyword detection mode: any-of or all-of")
	pf.StringSliceVar(&f.exclude, "not", nil, "skip files whose markers carry any of these keywords")
	pf.StringVar(&f.filter, "filter", "", "filename filter applied inside directories (doublestar glob)")
	pf.StringSliceVar(&f.patterns, "pattern", nil, "marker regular expression; repeat for several")
	pf.BoolVar(&f.caseSensitive, "case-sensitive", false, "match keywords case sensitively")
	pf.StringSliceVarP(&f.paths, "path", "p", []string{"."}, "directories, files or globs to search")
	pf.IntVar(&f.context, "context", -1, "lines of context around each change in the preview")
}

// setupLogging builds the structured logger; it writes to errOut
func setupLogging(debug bool, errOut io.Writer) zerolog.Logger {
	level := zerolog.WarnLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	return zerolog.New(zerolog.ConsoleWriter{Out: errOut}).With().Timestamp().Logger().Level(level)
}

// setupColor turns colour off unless out is a terminal
func setupColor(out io.Writer) {
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return
	}
	color.NoColor = true
	pterm.DisableStyling()
}

// applyFlags lets command line flags override values from the config file
func applyFlags(cmd *cobra.Command, f *rootFlags, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("dry-run") {
		cfg.DryRun = f.dryRun
	}
	if flags.Changed("bulk-confirm") && f.bulkConfirm {
		cfg.ConfirmMode = string(confirm.ModeAllOrNothing)
	}
	if flags.Changed("mode") {
		cfg.DetectionMode = f.mode
	}
	if flags.Changed("not") {
		cfg.Exclude = f.exclude
	}
	if flags.Changed("filter") {
		cfg.FilenameFilter = f.filter
	}
	if flags.Changed("pattern") {
		cfg.Patterns = f.patterns
	}
	if flags.Changed("case-sensitive") {
		cfg.CaseSensitive = f.caseSensitive
	}
	if flags.Changed("context") {
		n := f.context
		cfg.Context = &n
	}
}

// newPrompter picks how confirmation questions get answered
func newPrompter(ctx context.Context, f *rootFlags, in io.Reader, errOut io.Writer) confirm.Prompter {
	if f.yes {
		return confirm.AutoPrompter{Decision: confirm.YesToAll}
	}
	if file, ok := in.(*os.File); ok && !term.IsTerminal(int(file.Fd())) {
		zerolog.Ctx(ctx).Debug().Msg("stdin is not a terminal, answers are read line by line from it")
	}
	return confirm.NewLinePrompter(in, errOut)
}

// newRootOpts loads config, expands paths and builds the engine
func newRootOpts(cmd *cobra.Command, f *rootFlags, o *opts.RootOpts) error {
	ctx := cmd.Context()

	wd, err := os.Getwd()
	if err != nil {
		return errors.Errorf("getting working directory: %w", err)
	}

	cfg, err := config.LoadOrDefault(ctx, wd, f.configFile)
	if err != nil {
		return errors.Errorf("loading config: %w", err)
	}
	applyFlags(cmd, f, cfg)
	if err := cfg.Validate(); err != nil {
		return errors.Errorf("validating config: %w", err)
	}
	zerolog.Ctx(ctx).Debug().Str("config", cfg.String()).Msg("config loaded")

	files, err := fileset.Expand(ctx, f.paths, cfg.FilenameFilter)
	if err != nil {
		return errors.Errorf("expanding paths: %w", err)
	}

	console := log.NewWithZerolog(cmd.OutOrStdout(), *zerolog.Ctx(ctx))
	var prompter confirm.Prompter
	if !cfg.DryRun {
		prompter = newPrompter(ctx, f, cmd.InOrStdin(), cmd.ErrOrStderr())
	}

	eng, err := operation.New(operation.Options{
		Config:   cfg,
		Prompter: prompter,
		Console:  console,
	})
	if err != nil {
		return errors.Errorf("creating engine: %w", err)
	}

	o.Config = cfg
	o.Engine = eng
	o.Files = files
	o.Console = console
	o.Out = cmd.OutOrStdout()
	return nil
}
