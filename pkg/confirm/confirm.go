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

package confirm

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/perseus/pkg/plan"
	"gitlab.com/tozd/go/errors"
)

// ErrAbortedByUser is returned once the user quits; remaining files are discarded
var ErrAbortedByUser = errors.Base("aborted by user")

// 🗳️ Decision is a user's answer to a confirmation prompt
type Decision int

const (
	Yes Decision = iota + 1
	No
	YesToAll
	Quit
)

// String returns the decision name
func (d Decision) String() string {
	switch d {
	case Yes:
		return "yes"
	case No:
		return "no"
	case YesToAll:
		return "yes-to-all"
	case Quit:
		return "quit"
	default:
		return "unknown"
	}
}

// ParseDecision maps an answer such as "y", "all" or "quit" to a decision
func ParseDecision(s string) (Decision, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes":
		return Yes, true
	case "n", "no":
		return No, true
	case "a", "all", "yes-to-all":
		return YesToAll, true
	case "q", "quit":
		return Quit, true
	default:
		return 0, false
	}
}

// 🚦 State is where a change set stands in the gate
type State int

const (
	StateIdle State = iota
	StatePrompting
	StateApplying
	StateSkipped
	StateAborted
)

// String returns the state name
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePrompting:
		return "prompting"
	case StateApplying:
		return "applying"
	case StateSkipped:
		return "skipped"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// 🎛️ Mode selects per-file prompts or a single prompt for the whole plan
type Mode string

const (
	ModePerFile      Mode = "per-file"
	ModeAllOrNothing Mode = "all-or-nothing"
)

// ParseMode validates a mode name; the empty string means per-file
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModePerFile:
		return ModePerFile, nil
	case ModeAllOrNothing:
		return ModeAllOrNothing, nil
	default:
		return "", errors.Errorf("unknown confirm mode %q (want %s or %s)", s, ModePerFile, ModeAllOrNothing)
	}
}

// 💬 Prompter asks the user a question and returns their decision
type Prompter interface {
	Prompt(ctx context.Context, question string) (Decision, error)
}

// 🧾 Session is the decision state shared across one invocation
type Session struct {
	yesToAll bool
	skipAll  bool
	aborted  bool
}

// 🏭 NewSession creates an empty session
func NewSession() *Session {
	return &Session{}
}

// YesToAll reports whether remaining change sets bypass prompts
func (s *Session) YesToAll() bool { return s.yesToAll }

// Aborted reports whether the user quit
func (s *Session) Aborted() bool { return s.aborted }

// SkipAll reports whether the user rejected the whole plan
func (s *Session) SkipAll() bool { return s.skipAll }

// 🔧 GateOptions configures a Gate
type GateOptions struct {
	Prompter Prompter
	Session  *Session
	Mode     Mode
	DryRun   bool
}

// 🚪 Gate asks for approval before any change set is written
type Gate struct {
	prompter Prompter
	session  *Session
	mode     Mode
	dryRun   bool
	state    State
}

// 🏭 NewGate creates a gate
func NewGate(opts GateOptions) (*Gate, error) {
	mode, err := ParseMode(string(opts.Mode))
	if err != nil {
		return nil, err
	}
	if opts.Prompter == nil && !opts.DryRun {
		return nil, errors.Errorf("prompter is required")
	}
	session := opts.Session
	if session == nil {
		session = NewSession()
	}
	return &Gate{
		prompter: opts.Prompter,
		session:  session,
		mode:     mode,
		dryRun:   opts.DryRun,
		state:    StateIdle,
	}, nil
}

// State returns the state reached by the last decision
func (g *Gate) State() State {
	return g.state
}

// Session returns the gate's session
func (g *Gate) Session() *Session {
	return g.session
}

// 📋 DecidePlan asks once for the whole plan in all-or-nothing mode. In
// per-file mode it does nothing.
func (g *Gate) DecidePlan(ctx context.Context, p *plan.Plan) (State, error) {
	g.state = StateIdle
	if g.mode != ModeAllOrNothing || g.dryRun || len(p.Changes) == 0 {
		return g.state, nil
	}
	if g.session.aborted {
		g.state = StateAborted
		return g.state, nil
	}

	g.state = StatePrompting
	question := fmt.Sprintf("Apply %s to %d file(s)?", p.Kind, len(p.Changes))
	d, err := g.prompter.Prompt(ctx, question)
	if err != nil {
		g.session.aborted = true
		g.state = StateAborted
		return g.state, errors.Errorf("prompting for plan: %w", err)
	}
	zerolog.Ctx(ctx).Debug().Str("decision", d.String()).Msg("plan decision")

	switch d {
	case Yes, YesToAll:
		g.session.yesToAll = true
		g.state = StateApplying
	case No:
		g.session.skipAll = true
		g.state = StateSkipped
	default:
		g.session.aborted = true
		g.state = StateAborted
	}
	return g.state, nil
}

// 🚦 Decide moves one change set from Idle to Applying, Skipped or Aborted
func (g *Gate) Decide(ctx context.Context, cs *plan.FileChangeSet) (State, error) {
	g.state = StateIdle
	switch {
	case g.session.aborted:
		g.state = StateAborted
		return g.state, nil
	case g.dryRun, g.session.skipAll:
		g.state = StateSkipped
		return g.state, nil
	case g.session.yesToAll:
		g.state = StateApplying
		return g.state, nil
	}

	g.state = StatePrompting
	d, err := g.prompter.Prompt(ctx, fmt.Sprintf("Apply changes to %s?", cs.Path))
	if err != nil {
		g.session.aborted = true
		g.state = StateAborted
		return g.state, errors.Errorf("prompting for %s: %w", cs.Path, err)
	}
	zerolog.Ctx(ctx).Debug().Str("path", cs.Path).Str("decision", d.String()).Msg("file decision")

	switch d {
	case Yes:
		g.state = StateApplying
	case YesToAll:
		g.session.yesToAll = true
		g.state = StateApplying
	case No:
		g.state = StateSkipped
	default:
		g.session.aborted = true
		g.state = StateAborted
	}
	return g.state, nil
}
