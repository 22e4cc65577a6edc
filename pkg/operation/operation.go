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

package operation

import (
	"bytes"
	"context"
	"io"

	"github.com/walteh/perseus/pkg/apply"
	"github.com/walteh/perseus/pkg/config"
	"github.com/walteh/perseus/pkg/confirm"
	"github.com/walteh/perseus/pkg/log"
	"github.com/walteh/perseus/pkg/marker"
	"github.com/walteh/perseus/pkg/plan"
	"github.com/walteh/perseus/pkg/preview"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Operation is one unit of work the runner executes
type Operation interface {
	// Name identifies the operation in logs
	Name() string
	// Execute runs the operation to completion
	Execute(ctx context.Context) error
}

// 🔧 Options contains configuration for the engine
type Options struct {
	// Config is the validated perseus configuration
	Config *config.Config
	// Prompter answers confirmation prompts; not needed for dry runs
	Prompter confirm.Prompter
	// Console receives per-file outcome lines
	Console *log.Logger
	// Preview receives rendered diffs; defaults to the console writer
	Preview io.Writer
	// FileManager reads and writes files; defaults to the real file system
	FileManager apply.FileManager
}

// ⚙️ Engine runs search and the three mutating operations over a file list
type Engine struct {
	cfg       *config.Config
	patterns  *marker.PatternSet
	scanner   *marker.Scanner
	builder   *plan.Builder
	previewer *preview.Previewer
	printer   *preview.Printer
	applier   *apply.Applier
	prompter  confirm.Prompter
	console   *log.Logger
	fm        apply.FileManager
	runner    *OperationRunner
}

// 🏭 New creates a new engine with the given options
func New(opts Options) (*Engine, error) {
	if opts.Config == nil {
		return nil, errors.Errorf("config is required")
	}
	if opts.Console == nil {
		return nil, errors.Errorf("console is required")
	}
	if opts.Prompter == nil && !opts.Config.DryRun {
		return nil, errors.Errorf("prompter is required unless dry run is set")
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	patterns, err := marker.NewPatternSet(opts.Config.Patterns...)
	if err != nil {
		return nil, errors.Errorf("compiling patterns: %w", err)
	}
	builder, err := plan.NewBuilder(plan.BuilderOptions{
		CaseSensitive:       opts.Config.CaseSensitive,
		TestFunctionPattern: opts.Config.TestFunctionPattern,
	})
	if err != nil {
		return nil, errors.Errorf("creating plan builder: %w", err)
	}

	fm := opts.FileManager
	if fm == nil {
		fm = apply.OSFileManager{}
	}
	out := opts.Preview
	if out == nil {
		out = opts.Console.Console()
	}

	return &Engine{
		cfg:       opts.Config,
		patterns:  patterns,
		scanner:   marker.NewScanner(patterns),
		builder:   builder,
		previewer: preview.New(opts.Config.PreviewContext()),
		printer:   preview.NewPrinter(out),
		applier:   apply.New(fm),
		prompter:  opts.Prompter,
		console:   opts.Console,
		fm:        fm,
		runner:    NewRunner(),
	}, nil
}

// 🗂️ Scope is the files an operation visits and the keywords that select them
type Scope struct {
	Files    []string
	Keywords []string
}

func (e *Engine) matcher(keywords []string) (*marker.Matcher, error) {
	return marker.NewMatcher(marker.MatcherOptions{
		Keywords:      keywords,
		Exclude:       e.cfg.Exclude,
		Mode:          marker.DetectionMode(e.cfg.DetectionMode),
		CaseSensitive: e.cfg.CaseSensitive,
	})
}

// 📖 scan reads one file and returns its snapshot and marker occurrences
func (e *Engine) scan(ctx context.Context, path string) ([]byte, []marker.Occurrence, error) {
	snapshot, err := e.fm.ReadFile(ctx, path)
	if err != nil {
		return nil, nil, &marker.FileUnreadableError{Path: path, Reason: "reading file", Err: err}
	}
	occs, err := marker.Collect(e.scanner.Scan(path, bytes.NewReader(snapshot)))
	if err != nil {
		return nil, nil, err
	}
	return snapshot, occs, nil
}
