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

	"github.com/rs/zerolog"
	"github.com/walteh/perseus/pkg/marker"
	"github.com/walteh/perseus/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 🔎 SearchRequest names the files to read and the keywords to look for
type SearchRequest struct {
	Files    []string
	Keywords []string
}

// 📋 SearchResult maps each matching file to its ordered matching lines
type SearchResult struct {
	Files   []status.SearchResult
	Summary *status.Summary
}

// Paths lists the matching files in the order they were searched
func (r *SearchResult) Paths() []string {
	out := make([]string, 0, len(r.Files))
	for _, f := range r.Files {
		out = append(out, f.Path)
	}
	return out
}

type searchOperation struct {
	engine *Engine
	req    SearchRequest
	result *SearchResult
}

func (op *searchOperation) Name() string { return "search" }

// 🏃 Execute reads every file and never writes
func (op *searchOperation) Execute(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)

	m, err := op.engine.matcher(op.req.Keywords)
	if err != nil {
		return errors.Errorf("creating matcher: %w", err)
	}

	rep := status.NewReporter(op.Name(), nil)
	for _, path := range op.req.Files {
		if err := ctx.Err(); err != nil {
			return errors.Errorf("search cancelled: %w", err)
		}

		_, occs, err := op.engine.scan(ctx, path)
		if err != nil {
			var unreadable *marker.FileUnreadableError
			if errors.As(err, &unreadable) {
				rep.Record(ctx, status.FileResult{Path: path, Status: status.StatusUnreadable, Err: err})
				continue
			}
			return err
		}

		fm := m.Match(path, occs)
		if !fm.Matched() {
			logger.Debug().Str("path", path).Bool("excluded", fm.Excluded).Strs("missing", fm.Missing).Msg("no match")
			rep.Record(ctx, status.FileResult{Path: path, Status: status.StatusNoMatch})
			continue
		}

		op.result.Files = append(op.result.Files, status.SearchResult{Path: path, Lines: fm.Matches})
		rep.Record(ctx, status.FileResult{Path: path, Matches: len(fm.Matches), Status: status.StatusMatched})
	}

	op.result.Summary = rep.Summary()
	return nil
}

// 🔎 Search reports every marker line carrying the keywords. File content and
// modification times are left untouched.
func (e *Engine) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	op := &searchOperation{engine: e, req: req, result: &SearchResult{}}
	if err := e.runner.Run(ctx, op); err != nil {
		return nil, err
	}
	return op.result, nil
}
