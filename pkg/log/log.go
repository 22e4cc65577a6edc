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

package log

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	fileIndent  = 4  // spaces to indent file entries
	nameWidth   = 35 // Base width for filename
	kindWidth   = 10 // Width for operation kind
	statusWidth = 12 // Width for status text
)

// 🎯 FileOperation is the outcome for one file, as shown to the user
type FileOperation struct {
	Path      string // File path
	Kind      string // search/replace/remove/add
	Status    string // Outcome label
	Matches   int    // Matching marker lines
	Edits     int    // Edits applied or proposed
	IsChanged bool   // File content was rewritten
	IsSkipped bool   // File was left alone on purpose
	IsFailed  bool   // File could not be processed
	Detail    string // Optional reason, shown after the status
}

// 📦 RunOperation describes one invocation over a set of files
type RunOperation struct {
	Kind     string   // search/replace/remove/add
	Keywords []string // Keywords being looked for
	Files    int      // Number of candidate files
	DryRun   bool     // No file will be written
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog       zerolog.Logger
	console    io.Writer
	mu         sync.Mutex
	currentRun *RunOperation
	logged     int
}

// 🏭 NewWithZerolog creates a logger mirroring events into an existing zerolog logger
func NewWithZerolog(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
		mu:      sync.Mutex{},
	}
}

// Console returns the writer used for user-facing output
func (l *Logger) Console() io.Writer {
	return l.console
}

// 📝 formatFileOperation formats a file operation for display
func (l *Logger) formatFileOperation(op FileOperation) string {
	var symbol rune
	var symbolColor color.Attribute
	switch {
	case op.IsFailed:
		symbol = '✗'
		symbolColor = color.FgRed
	case op.IsChanged:
		symbol = '⟳'
		symbolColor = color.FgBlue
	case op.IsSkipped:
		symbol = '-'
		symbolColor = color.FgYellow
	default:
		symbol = '•'
		symbolColor = color.FgCyan
	}

	var kindColor color.Attribute
	switch op.Kind {
	case "search":
		kindColor = color.FgCyan
	case "remove":
		kindColor = color.FgRed
	case "add":
		kindColor = color.FgGreen
	default:
		kindColor = color.FgBlue
	}

	line := fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, op.Path),
		color.New(kindColor).Sprint(fmt.Sprintf("%-*s", kindWidth, op.Kind)),
		fmt.Sprintf("%-*s", statusWidth, op.Status))
	if op.Detail != "" {
		line += color.New(color.Faint).Sprint(op.Detail)
	}
	return line
}

// 📝 LogFileOperation logs a file operation
func (l *Logger) LogFileOperation(ctx context.Context, op FileOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.logged++

	fmt.Fprintln(l.console, l.formatFileOperation(op))

	l.zlog.Info().
		Str("file", op.Path).
		Str("kind", op.Kind).
		Str("status", op.Status).
		Int("matches", op.Matches).
		Int("edits", op.Edits).
		Bool("is_changed", op.IsChanged).
		Bool("is_skipped", op.IsSkipped).
		Bool("is_failed", op.IsFailed).
		Msg("file operation")
}

// 📝 StartRun starts a new run over a set of files
func (l *Logger) StartRun(ctx context.Context, op RunOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.currentRun = &op
	l.logged = 0

	msg := op.Kind
	if len(op.Keywords) > 0 {
		msg += " " + strings.Join(op.Keywords, ", ")
	}
	if op.DryRun {
		msg += " (dry run)"
	}
	name := color.New(color.Bold, color.FgCyan).Sprint("perseus")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))

	l.zlog.Info().
		Str("kind", op.Kind).
		Strs("keywords", op.Keywords).
		Int("files", op.Files).
		Bool("dry_run", op.DryRun).
		Msg("starting run")
}

// 📝 EndRun ends the current run
func (l *Logger) EndRun(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.currentRun == nil {
		return
	}

	l.zlog.Info().
		Str("kind", l.currentRun.Kind).
		Int("files", l.logged).
		Msg("run complete")

	l.currentRun = nil
	l.logged = 0
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...any) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...any) {
	l.Success(fmt.Sprintf(format, args...))
}
