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
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/perseus/pkg/confirm"
	"github.com/walteh/perseus/pkg/log"
	"github.com/walteh/perseus/pkg/marker"
	"github.com/walteh/perseus/pkg/plan"
	"github.com/walteh/perseus/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// buildFunc turns one scanned file into a change set; nil means nothing to change
type buildFunc func(fm marker.FileMatch, snapshot []byte) (*plan.FileChangeSet, error)

type mutateOperation struct {
	engine  *Engine
	kind    plan.Kind
	scope   Scope
	build   buildFunc
	summary *status.Summary
}

func (op *mutateOperation) Name() string { return op.kind.String() }

// 🏃 Execute runs scan, match, build, preview, confirm, apply and report, one
// file at a time in the order given
func (op *mutateOperation) Execute(ctx context.Context) error {
	e := op.engine
	logger := zerolog.Ctx(ctx)
	formatter := status.NewDefaultFileFormatter()

	var m *marker.Matcher
	if len(op.scope.Keywords) > 0 {
		var err error
		if m, err = e.matcher(op.scope.Keywords); err != nil {
			return errors.Errorf("creating matcher: %w", err)
		}
	}

	e.console.StartRun(ctx, log.RunOperation{
		Kind:     op.Name(),
		Keywords: op.scope.Keywords,
		Files:    len(op.scope.Files),
		DryRun:   e.cfg.DryRun,
	})
	defer e.console.EndRun(ctx)

	rep := status.NewReporter(op.Name(), e.console)
	p := plan.New(op.kind, e.cfg.DryRun)
	matches := map[string]int{}

	for i, path := range op.scope.Files {
		logger.Debug().Str("path", path).Msg(formatter.FormatProgress(i, len(op.scope.Files)))

		snapshot, occs, err := e.scan(ctx, path)
		if err != nil {
			var unreadable *marker.FileUnreadableError
			if errors.As(err, &unreadable) {
				rep.Record(ctx, status.FileResult{Path: path, Status: status.StatusUnreadable, Err: err})
				continue
			}
			return err
		}

		fm := marker.FileMatch{Path: path}
		if m != nil {
			fm = m.Match(path, occs)
			if !fm.Matched() {
				rep.Record(ctx, status.FileResult{Path: path, Status: status.StatusNoMatch})
				continue
			}
		}
		matches[path] = len(fm.Matches)

		cs, err := op.build(fm, snapshot)
		if err != nil {
			var anchor *plan.AnchorNotFoundError
			if errors.As(err, &anchor) {
				rep.Record(ctx, status.FileResult{Path: path, Matches: len(fm.Matches), Status: status.StatusSkipped, Err: err})
				continue
			}
			return errors.Errorf("building %s for %s: %w", op.Name(), path, err)
		}
		if cs == nil {
			rep.Record(ctx, status.FileResult{Path: path, Matches: len(fm.Matches), Status: status.StatusSkipped})
			continue
		}
		for _, w := range cs.Warnings {
			e.console.Warning(w.Error())
		}
		if err := p.Add(cs); err != nil {
			return errors.Errorf("adding %s to plan: %w", path, err)
		}
	}

	p.Freeze()
	logger.Debug().Str("plan", p.String()).Msg("plan frozen")

	for _, cs := range p.Changes {
		diff, err := e.previewer.Render(cs)
		if err != nil {
			return errors.Errorf("rendering preview: %w", err)
		}
		if err := e.printer.PrintFile(cs.Path, diff); err != nil {
			return errors.Errorf("printing preview: %w", err)
		}
	}

	gate, err := confirm.NewGate(confirm.GateOptions{
		Prompter: e.prompter,
		Mode:     confirm.Mode(e.cfg.ConfirmMode),
		DryRun:   p.DryRun,
	})
	if err != nil {
		return errors.Errorf("creating confirmation gate: %w", err)
	}

	if _, err := gate.DecidePlan(ctx, p); err != nil {
		e.console.Errorf("confirmation failed: %v", err)
	}

	for i, cs := range p.Changes {
		res := status.FileResult{Path: cs.Path, Matches: matches[cs.Path], Edits: len(cs.Ops)}

		if err := ctx.Err(); err != nil {
			rep.Abort(ctx)
			op.discard(ctx, rep, p.Changes[i:], matches, err)
			break
		}

		state, err := gate.Decide(ctx, cs)
		if err != nil {
			e.console.Errorf("confirmation failed for %s: %v", cs.Path, err)
		}

		switch state {
		case confirm.StateAborted:
			rep.Abort(ctx)
			op.discard(ctx, rep, p.Changes[i:], matches, confirm.ErrAbortedByUser)
		case confirm.StateSkipped:
			res.Status = status.StatusSkipped
			if p.DryRun {
				res.Status = status.StatusPreviewed
			}
			rep.Record(ctx, res)
		case confirm.StateApplying:
			if err := e.applier.Apply(ctx, cs); err != nil {
				res.Status = status.StatusFailed
				res.Err = err
			} else {
				res.Status = status.StatusApplied
			}
			rep.Record(ctx, res)
		}

		if state == confirm.StateAborted {
			break
		}
	}

	op.summary = rep.Summary()
	return nil
}

// discard records change sets that will never be written
func (op *mutateOperation) discard(ctx context.Context, rep *status.Reporter, rest []*plan.FileChangeSet, matches map[string]int, cause error) {
	for _, cs := range rest {
		rep.Record(ctx, status.FileResult{
			Path:    cs.Path,
			Matches: matches[cs.Path],
			Edits:   len(cs.Ops),
			Status:  status.StatusSkipped,
			Err:     cause,
		})
	}
}

func (e *Engine) mutate(ctx context.Context, op *mutateOperation) (*status.Summary, error) {
	if err := e.runner.Run(ctx, op); err != nil {
		return nil, err
	}
	return op.summary, nil
}

// 🔄 Replace substitutes a keyword inside matching markers. Without explicit
// scope keywords the replaced keyword selects the files.
func (e *Engine) Replace(ctx context.Context, scope Scope, req plan.ReplaceRequest) (*status.Summary, error) {
	if strings.TrimSpace(req.Keyword) == "" {
		return nil, errors.Errorf("replace keyword is required")
	}
	if len(scope.Keywords) == 0 {
		scope.Keywords = []string{req.Keyword}
	}
	return e.mutate(ctx, &mutateOperation{
		engine: e,
		kind:   plan.KindReplace,
		scope:  scope,
		build: func(fm marker.FileMatch, snapshot []byte) (*plan.FileChangeSet, error) {
			return e.builder.Replace(fm, snapshot, req)
		},
	})
}

// 🗑️ Remove excises markers carrying a keyword; a line left empty is deleted
func (e *Engine) Remove(ctx context.Context, scope Scope, req plan.RemoveRequest) (*status.Summary, error) {
	if strings.TrimSpace(req.Keyword) == "" {
		return nil, errors.Errorf("remove keyword is required")
	}
	if len(scope.Keywords) == 0 {
		scope.Keywords = []string{req.Keyword}
	}
	return e.mutate(ctx, &mutateOperation{
		engine: e,
		kind:   plan.KindRemove,
		scope:  scope,
		build: func(fm marker.FileMatch, snapshot []byte) (*plan.FileChangeSet, error) {
			return e.builder.Remove(fm, snapshot, req)
		},
	})
}

// ➕ Add inserts a marker line at an anchor. With scope keywords only matching
// files are visited; without them every file is.
func (e *Engine) Add(ctx context.Context, scope Scope, req plan.AddRequest) (*status.Summary, error) {
	if strings.TrimSpace(req.Value) == "" {
		return nil, errors.Errorf("value to add is required")
	}
	return e.mutate(ctx, &mutateOperation{
		engine: e,
		kind:   plan.KindAdd,
		scope:  scope,
		build: func(fm marker.FileMatch, snapshot []byte) (*plan.FileChangeSet, error) {
			return e.builder.Add(fm.Path, snapshot, req)
		},
	})
}
