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
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🏃 OperationRunner executes operations one at a time
type OperationRunner struct{}

// 🏗️ NewRunner creates a new runner
func NewRunner() *OperationRunner {
	return &OperationRunner{}
}

// 🏃 Run executes an operation unless the context is already done
func (r *OperationRunner) Run(ctx context.Context, op Operation) error {
	logger := zerolog.Ctx(ctx)

	if err := ctx.Err(); err != nil {
		return errors.Errorf("operation %s cancelled: %w", op.Name(), err)
	}

	start := time.Now()
	logger.Debug().Str("operation", op.Name()).Msg("starting operation")
	if err := op.Execute(ctx); err != nil {
		return errors.Errorf("executing %s: %w", op.Name(), err)
	}
	logger.Debug().Str("operation", op.Name()).Dur("took", time.Since(start)).Msg("operation complete")
	return nil
}
