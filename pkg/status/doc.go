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

/*
Package status records what happened to each file and reports it.

	+-----------+      +------------+      +-------------+
	|  Engine   | ---> |  Reporter  | ---> |   Summary   |
	| (per file)|      |  (Record)  |      | (exit code) |
	+-----------+      +-----+------+      +------+------+
	                         |                    |
	                   +-----+-----+        +-----+-----+
	                   | log.Logger|        |  pterm    |
	                   | (console) |        |  (table)  |
	                   +-----------+        +-----------+

🎯 Purpose:
- Track one FileResult per scanned file
- Mirror each outcome to the console and to zerolog
- Turn the tallies into a process exit code
- Write search output (matching lines, file lists)

🚦 Exit codes:
  - 0: every file succeeded, was skipped, or had nothing to do
  - 1: at least one write failed
  - 2: the user quit at a prompt

Unreadable files count as skipped; they never fail a run.

🔍 Example:

	rep := status.NewReporter("replace", console)
	rep.Record(ctx, status.FileResult{Path: "tests/test_a.py", Status: status.StatusApplied, Edits: 2})
	sum := rep.Summary()
	_ = status.RenderSummary(os.Stdout, sum)
	os.Exit(sum.ExitCode())
*/
package status
