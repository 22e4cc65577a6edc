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
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/walteh/perseus/pkg/plan"
	"gitlab.com/tozd/go/errors"
)

type mockFileManager struct {
	mock.Mock
	OSFileManager
}

func (m *mockFileManager) CreateTemp(ctx context.Context, dir, pattern string) (TempFile, error) {
	args := m.Called(ctx, dir, pattern)
	if f, ok := args.Get(0).(TempFile); ok {
		return f, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockFileManager) Rename(ctx context.Context, oldpath, newpath string) error {
	return m.Called(ctx, oldpath, newpath).Error(0)
}

func (m *mockFileManager) Remove(ctx context.Context, path string) error {
	return m.Called(ctx, path).Error(0)
}

type fakeTemp struct {
	bytes.Buffer
	name     string
	syncErr  error
	closed   bool
	writeErr error
}

func (f *fakeTemp) Write(p []byte) (int, error) {
	if f.writeErr != nil {
		return 0, f.writeErr
	}
	return f.Buffer.Write(p)
}

func (f *fakeTemp) Name() string { return f.name }
func (f *fakeTemp) Sync() error  { return f.syncErr }
func (f *fakeTemp) Close() error {
	f.closed = true
	return nil
}

func testContext(t *testing.T) context.Context {
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

func writeFixture(t *testing.T, content string, mode fs.FileMode) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test_example.py")
	require.NoError(t, os.WriteFile(path, []byte(content), mode), "writing fixture")
	return path
}

func replaceChange(path, content string) *plan.FileChangeSet {
	return &plan.FileChangeSet{
		Path:     path,
		Snapshot: []byte(content),
		Ops: []plan.EditOperation{
			{Kind: plan.KindReplace, Line: 2, Original: "@mark.slow", New: "@mark.fast"},
		},
	}
}

func TestApply(t *testing.T) {
	ctx := testContext(t)
	content := "import x\n@mark.slow\ndef test_a():\n    pass\n"
	path := writeFixture(t, content, 0o640)

	cs := replaceChange(path, content)
	require.NoError(t, New(nil).Apply(ctx, cs), "applying change set")

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "import x\n@mark.fast\ndef test_a():\n    pass\n", string(got))
	assert.True(t, cs.Applied(), "change set should be applied")
	assert.Nil(t, cs.Snapshot, "snapshot should be released")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0o640), info.Mode().Perm(), "permissions should be preserved")

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files should be left behind")
}

func TestApplyTwiceFails(t *testing.T) {
	ctx := testContext(t)
	content := "x\n@mark.slow\n"
	path := writeFixture(t, content, 0o644)

	cs := replaceChange(path, content)
	a := New(nil)
	require.NoError(t, a.Apply(ctx, cs))

	err := a.Apply(ctx, cs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already applied")
}

func TestApplyDetectsConcurrentChange(t *testing.T) {
	ctx := testContext(t)
	content := "x\n@mark.slow\n"
	path := writeFixture(t, content, 0o644)
	cs := replaceChange(path, content)

	require.NoError(t, os.WriteFile(path, []byte("x\n@mark.slow\ny\n"), 0o644))

	err := New(nil).Apply(ctx, cs)
	require.Error(t, err)

	var wf *WriteFailedError
	require.True(t, errors.As(err, &wf), "should be a WriteFailedError")
	assert.Equal(t, path, wf.Path)
	assert.ErrorIs(t, err, ErrContentChanged)
	assert.False(t, cs.Applied())
	assert.NotNil(t, cs.Snapshot, "snapshot should be kept on failure")

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "x\n@mark.slow\ny\n", string(got), "file should be untouched")
}

func TestApplyFailureLeavesOriginal(t *testing.T) {
	tests := []struct {
		name        string
		temp        *fakeTemp
		renameErr   error
		errContains string
	}{
		{
			name:        "rename_fails",
			temp:        &fakeTemp{},
			renameErr:   errors.New("cross-device link"),
			errContains: "renaming temp file",
		},
		{
			name:        "sync_fails",
			temp:        &fakeTemp{syncErr: errors.New("disk full")},
			errContains: "syncing temp file",
		},
		{
			name:        "write_fails",
			temp:        &fakeTemp{writeErr: errors.New("disk full")},
			errContains: "writing temp file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext(t)
			content := "x\n@mark.slow\n"
			path := writeFixture(t, content, 0o644)
			tt.temp.name = filepath.Join(filepath.Dir(path), ".tmp-fake")

			fm := &mockFileManager{}
			fm.On("CreateTemp", mock.Anything, mock.Anything, mock.Anything).Return(tt.temp, nil)
			fm.On("Remove", mock.Anything, tt.temp.name).Return(nil).Once()
			if tt.renameErr != nil {
				fm.On("Rename", mock.Anything, tt.temp.name, path).Return(tt.renameErr)
				tt.temp.name = writeTempFile(t, tt.temp.name)
			}

			cs := replaceChange(path, content)
			err := New(fm).Apply(ctx, cs)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)

			var wf *WriteFailedError
			assert.True(t, errors.As(err, &wf), "should be a WriteFailedError")
			assert.False(t, cs.Applied(), "change set should not be applied")
			assert.Equal(t, content, string(cs.Snapshot), "snapshot should be kept")
			assert.True(t, tt.temp.closed, "temp file should be closed")

			got, rerr := os.ReadFile(path)
			require.NoError(t, rerr)
			assert.Equal(t, content, string(got), "original should be untouched")
			fm.AssertExpectations(t)
		})
	}
}

// chmod runs against the real file system, so the rename case needs the temp file to exist
func writeTempFile(t *testing.T, name string) string {
	t.Helper()
	require.NoError(t, os.WriteFile(name, nil, 0o600))
	return name
}

func TestWriteFileCreatesNewFile(t *testing.T) {
	ctx := testContext(t)
	path := filepath.Join(t.TempDir(), "matches.txt")

	require.NoError(t, New(nil).WriteFile(ctx, path, []byte("a.py\nb.py\n"), 0o644))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a.py\nb.py\n", string(got))
}

func TestApplyMissingFile(t *testing.T) {
	ctx := testContext(t)
	path := filepath.Join(t.TempDir(), "gone.py")

	err := New(nil).Apply(ctx, replaceChange(path, "x\n@mark.slow\n"))
	require.Error(t, err)

	var wf *WriteFailedError
	require.True(t, errors.As(err, &wf))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
