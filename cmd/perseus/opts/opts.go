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

package opts

import (
	"io"

	"github.com/walteh/perseus/pkg/config"
	"github.com/walteh/perseus/pkg/log"
	"github.com/walteh/perseus/pkg/operation"
	"github.com/walteh/perseus/pkg/status"
)

// RootOpts contains shared options used by all commands. It is filled in by
// the root command before any subcommand runs.
type RootOpts struct {
	Config  *config.Config
	Engine  *operation.Engine
	Files   []string
	Console *log.Logger
	Out     io.Writer

	// ExitCode is the process exit status chosen by the last command
	ExitCode int
}

// Finish records the exit status of a mutating command and prints its summary
func (o *RootOpts) Finish(s *status.Summary) error {
	o.ExitCode = s.ExitCode()
	return status.RenderSummary(o.Out, s)
}
