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

package apply

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/perseus/pkg/plan"
	"gitlab.com/tozd/go/errors"
)

// ErrContentChanged means the file on disk no longer matches the snapshot the plan was built from
var ErrContentChanged = errors.Base("file changed since it was read")

// 💥 WriteFailedError means the file could not be replaced; its original content is intact
type WriteFailedError struct {
	Path string
	Err  error
}

func (e *WriteFailedError) Error() string {
	return fmt.Sprintf("writing %s: %v", e.Path, e.Err)
}

func (e *WriteFailedError) Unwrap() error {
	return e.Err
}

// ✍️ Applier writes approved change sets back to disk
type Applier struct {
	fm FileManager
}

// 🏭 New creates an applier; a nil file manager means the real file system
func New(fm FileManager) *Applier {
	if fm == nil {
		fm = OSFileManager{}
	}
	return &Applier{fm: fm}
}

// 🚀 Apply replaces the file with the change set's result. The snapshot is
// released only after the new content is durable.
func (a *Applier) Apply(ctx context.Context, cs *plan.FileChangeSet) error {
	logger := zerolog.Ctx(ctx).With().Str("path", cs.Path).Logger()

	if cs.Applied() {
		return errors.Errorf("change set for %s already applied", cs.Path)
	}

	content, err := cs.Result()
	if err != nil {
		return errors.Errorf("computing result: %w", err)
	}

	current, err := a.fm.ReadFile(ctx, cs.Path)
	if err != nil {
		return &WriteFailedError{Path: cs.Path, Err: err}
	}
	if !bytes.Equal(current, cs.Snapshot) {
		return &WriteFailedError{Path: cs.Path, Err: ErrContentChanged}
	}

	mode := fs.FileMode(0o644)
	if info, err := a.fm.Stat(ctx, cs.Path); err == nil {
		mode = info.Mode().Perm()
	}

	if err := a.WriteFile(ctx, cs.Path, content, mode); err != nil {
		return err
	}

	if err := cs.MarkApplied(); err != nil {
		return err
	}
	cs.Release()

	logger.Debug().Int("ops", len(cs.Ops)).Int("bytes", len(content)).Msg("applied change set")
	return nil
}

// 💾 WriteFile atomically replaces path with content: a sibling temp file is
// written, synced and renamed over the target. On failure the target is
// untouched and the temp file is removed.
func (a *Applier) WriteFile(ctx context.Context, path string, content []byte, mode fs.FileMode) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := a.fm.CreateTemp(ctx, dir, "."+base+".perseus-*")
	if err != nil {
		return &WriteFailedError{Path: path, Err: errors.Errorf("creating temp file: %w", err)}
	}
	tmpName := tmp.Name()
	closed := false

	defer func() {
		if err == nil {
			return
		}
		if !closed {
			_ = tmp.Close()
		}
		if rerr := a.fm.Remove(ctx, tmpName); rerr != nil && !errors.Is(rerr, os.ErrNotExist) {
			zerolog.Ctx(ctx).Warn().Err(rerr).Str("temp", tmpName).Msg("removing temp file")
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return &WriteFailedError{Path: path, Err: errors.Errorf("writing temp file: %w", err)}
	}
	if err := tmp.Sync(); err != nil {
		return &WriteFailedError{Path: path, Err: errors.Errorf("syncing temp file: %w", err)}
	}
	closed = true
	if err := tmp.Close(); err != nil {
		return &WriteFailedError{Path: path, Err: errors.Errorf("closing temp file: %w", err)}
	}
	if err := a.fm.Chmod(ctx, tmpName, mode); err != nil {
		return &WriteFailedError{Path: path, Err: errors.Errorf("setting permissions: %w", err)}
	}
	if err := a.fm.Rename(ctx, tmpName, path); err != nil {
		return &WriteFailedError{Path: path, Err: errors.Errorf("renaming temp file: %w", err)}
	}
	return nil
}
