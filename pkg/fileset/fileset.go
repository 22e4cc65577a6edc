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

package fileset

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📂 Expand turns roots into an ordered, duplicate free list of files.
// Directories are searched with filter; explicit files and glob roots are
// taken as given.
func Expand(ctx context.Context, roots []string, filter string) ([]string, error) {
	logger := zerolog.Ctx(ctx)

	if filter != "" && !doublestar.ValidatePattern(filter) {
		return nil, errors.Errorf("invalid filename filter %q", filter)
	}

	var out []string
	seen := map[string]bool{}
	add := func(p string) {
		p = filepath.Clean(p)
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, root := range roots {
		if isGlob(root) {
			matches, err := doublestar.FilepathGlob(root, doublestar.WithFilesOnly())
			if err != nil {
				return nil, errors.Errorf("expanding %s: %w", root, err)
			}
			slices.Sort(matches)
			for _, m := range matches {
				add(m)
			}
			continue
		}

		info, err := os.Stat(root)
		if err != nil {
			return nil, errors.Errorf("path %s: %w", root, err)
		}
		if !info.IsDir() {
			add(root)
			continue
		}

		pattern := filter
		if pattern == "" {
			pattern = "**"
		}
		matches, err := doublestar.Glob(os.DirFS(root), pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.Errorf("searching %s: %w", root, err)
		}
		slices.Sort(matches)
		for _, m := range matches {
			add(filepath.Join(root, filepath.FromSlash(m)))
		}
		logger.Debug().Str("root", root).Str("filter", pattern).Int("files", len(matches)).Msg("expanded directory")
	}

	return out, nil
}

func isGlob(p string) bool {
	return strings.ContainsAny(p, "*?[{")
}
