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
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/walteh/perseus/pkg/plan"
	"gitlab.com/tozd/go/errors"
)

type mockPrompter struct {
	mock.Mock
}

func (m *mockPrompter) Prompt(ctx context.Context, question string) (Decision, error) {
	args := m.Called(ctx, question)
	return args.Get(0).(Decision), args.Error(1)
}

func testContext(t *testing.T) context.Context {
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

func changeSet(path string) *plan.FileChangeSet {
	return &plan.FileChangeSet{Path: path}
}

func TestParseDecision(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Decision
		ok    bool
	}{
		{name: "short_yes", input: "y", want: Yes, ok: true},
		{name: "word_no", input: "No", want: No, ok: true},
		{name: "all", input: " a ", want: YesToAll, ok: true},
		{name: "quit", input: "QUIT", want: Quit, ok: true},
		{name: "unknown", input: "maybe", ok: false},
		{name: "empty", input: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDecision(tt.input)
			assert.Equal(t, tt.ok, ok, "ok should match")
			if tt.ok {
				assert.Equal(t, tt.want, got, "decision should match")
			}
		})
	}
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModePerFile, m)

	m, err = ParseMode("all-or-nothing")
	require.NoError(t, err)
	assert.Equal(t, ModeAllOrNothing, m)

	_, err = ParseMode("sometimes")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown confirm mode")
}

func TestGateDecide(t *testing.T) {
	tests := []struct {
		name      string
		decisions []Decision
		want      []State
		prompts   int
	}{
		{
			name:      "yes_then_no",
			decisions: []Decision{Yes, No, Yes},
			want:      []State{StateApplying, StateSkipped, StateApplying},
			prompts:   3,
		},
		{
			name:      "yes_to_all_stops_prompting",
			decisions: []Decision{No, YesToAll},
			want:      []State{StateSkipped, StateApplying, StateApplying},
			prompts:   2,
		},
		{
			name:      "quit_aborts_remaining",
			decisions: []Decision{Yes, Quit},
			want:      []State{StateApplying, StateAborted, StateAborted},
			prompts:   2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext(t)
			p := &mockPrompter{}
			for _, d := range tt.decisions {
				p.On("Prompt", mock.Anything, mock.Anything).Return(d, nil).Once()
			}

			gate, err := NewGate(GateOptions{Prompter: p})
			require.NoError(t, err, "creating gate")

			for i, want := range tt.want {
				got, err := gate.Decide(ctx, changeSet("f.py"))
				require.NoError(t, err, "deciding change set %d", i)
				assert.Equal(t, want, got, "state for change set %d", i)
				assert.Equal(t, want, gate.State(), "gate state for change set %d", i)
			}
			p.AssertNumberOfCalls(t, "Prompt", tt.prompts)
		})
	}
}

func TestGateDryRunNeverPrompts(t *testing.T) {
	ctx := testContext(t)
	gate, err := NewGate(GateOptions{DryRun: true})
	require.NoError(t, err, "dry run gate needs no prompter")

	got, err := gate.Decide(ctx, changeSet("f.py"))
	require.NoError(t, err)
	assert.Equal(t, StateSkipped, got)
}

func TestGateRequiresPrompter(t *testing.T) {
	_, err := NewGate(GateOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prompter is required")
}

func TestGatePromptErrorAborts(t *testing.T) {
	ctx := testContext(t)
	p := &mockPrompter{}
	p.On("Prompt", mock.Anything, mock.Anything).Return(Quit, errors.New("tty closed")).Once()

	gate, err := NewGate(GateOptions{Prompter: p})
	require.NoError(t, err)

	got, err := gate.Decide(ctx, changeSet("f.py"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tty closed")
	assert.Equal(t, StateAborted, got)
	assert.True(t, gate.Session().Aborted(), "session should be aborted")
}

func TestGateDecidePlan(t *testing.T) {
	p1 := plan.New(plan.KindReplace, false)
	require.NoError(t, p1.Add(&plan.FileChangeSet{Path: "a.py", Ops: []plan.EditOperation{{Kind: plan.KindRemove, Line: 1, Original: "x", DeleteLine: true}}}))
	require.NoError(t, p1.Add(&plan.FileChangeSet{Path: "b.py", Ops: []plan.EditOperation{{Kind: plan.KindRemove, Line: 1, Original: "x", DeleteLine: true}}}))

	tests := []struct {
		name      string
		decision  Decision
		planState State
		fileState State
	}{
		{name: "accept_applies_all", decision: Yes, planState: StateApplying, fileState: StateApplying},
		{name: "reject_skips_all", decision: No, planState: StateSkipped, fileState: StateSkipped},
		{name: "quit_aborts_all", decision: Quit, planState: StateAborted, fileState: StateAborted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext(t)
			p := &mockPrompter{}
			p.On("Prompt", mock.Anything, "Apply replace to 2 file(s)?").Return(tt.decision, nil).Once()

			gate, err := NewGate(GateOptions{Prompter: p, Mode: ModeAllOrNothing})
			require.NoError(t, err)

			got, err := gate.DecidePlan(ctx, p1)
			require.NoError(t, err)
			assert.Equal(t, tt.planState, got)

			for _, path := range p1.Paths() {
				got, err := gate.Decide(ctx, changeSet(path))
				require.NoError(t, err)
				assert.Equal(t, tt.fileState, got, "state for %s", path)
			}
			p.AssertExpectations(t)
		})
	}
}

func TestGateDecidePlanPerFileIsNoop(t *testing.T) {
	ctx := testContext(t)
	p := &mockPrompter{}
	gate, err := NewGate(GateOptions{Prompter: p})
	require.NoError(t, err)

	got, err := gate.DecidePlan(ctx, plan.New(plan.KindAdd, false))
	require.NoError(t, err)
	assert.Equal(t, StateIdle, got)
	p.AssertNotCalled(t, "Prompt", mock.Anything, mock.Anything)
}

func TestLinePrompter(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Decision
	}{
		{name: "yes", input: "y\n", want: Yes},
		{name: "empty_is_no", input: "\n", want: No},
		{name: "all", input: "all\n", want: YesToAll},
		{name: "eof_is_quit", input: "", want: Quit},
		{name: "answer_without_newline", input: "q", want: Quit},
		{name: "retries_unknown_answer", input: "what\ny\n", want: Yes},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := NewLinePrompter(strings.NewReader(tt.input), &out)

			got, err := p.Prompt(context.Background(), "Apply changes to f.py?")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "Apply changes to f.py? [y]es/[N]o/[a]ll/[q]uit: ")
		})
	}
}

func TestLinePrompterCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewLinePrompter(strings.NewReader("y\n"), &bytes.Buffer{})
	got, err := p.Prompt(ctx, "?")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, Quit, got)
}

func TestAutoPrompter(t *testing.T) {
	got, err := AutoPrompter{Decision: YesToAll}.Prompt(context.Background(), "?")
	require.NoError(t, err)
	assert.Equal(t, YesToAll, got)
}
