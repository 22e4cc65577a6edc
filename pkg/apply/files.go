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
	"context"
	"io"
	"io/fs"
	"os"
)

// 📝 TempFile is a scratch file that becomes the target on rename
type TempFile interface {
	io.Writer
	Name() string
	Sync() error
	Close() error
}

// 💾 FileManager handles the file system calls an atomic write needs
type FileManager interface {
	Stat(ctx context.Context, path string) (fs.FileInfo, error)
	ReadFile(ctx context.Context, path string) ([]byte, error)
	CreateTemp(ctx context.Context, dir, pattern string) (TempFile, error)
	Chmod(ctx context.Context, path string, mode fs.FileMode) error
	Rename(ctx context.Context, oldpath, newpath string) error
	Remove(ctx context.Context, path string) error
}

// 🖥️ OSFileManager is the FileManager backed by the os package
type OSFileManager struct{}

var _ FileManager = OSFileManager{}

func (OSFileManager) Stat(ctx context.Context, path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

func (OSFileManager) ReadFile(ctx context.Context, path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (OSFileManager) CreateTemp(ctx context.Context, dir, pattern string) (TempFile, error) {
	return os.CreateTemp(dir, pattern)
}

func (OSFileManager) Chmod(ctx context.Context, path string, mode fs.FileMode) error {
	return os.Chmod(path, mode)
}

func (OSFileManager) Rename(ctx context.Context, oldpath, newpath string) error {
	return os.Rename(oldpath, newpath)
}

func (OSFileManager) Remove(ctx context.Context, path string) error {
	return os.Remove(path)
}
