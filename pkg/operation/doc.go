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
Package operation is the engine behind every perseus command.

	scan -> match -> build -> preview -> confirm -> apply -> report

🎯 Purpose:
- Run search without ever writing
- Run replace, remove and add as a frozen plan of per-file change sets
- Keep files independent: one failed write never touches another file

🔄 Flow:
1. Each file is read once into a snapshot and scanned for marker lines
2. The matcher keeps files whose markers carry the keywords
3. The plan builder turns matches into change sets; the plan is then frozen
4. Every change set is previewed as a unified diff
5. The confirmation gate decides per file (or once for the whole plan)
6. The applier writes approved change sets atomically
7. The reporter tallies outcomes into a summary and an exit code

⚡ Key Responsibilities:
- Strictly sequential processing in the order files are given
- Quit and cancellation are honoured between files, never mid-write
- Dry runs stop after the preview

🤝 Interfaces:
- confirm.Prompter: asks the user
- apply.FileManager: file system seam for reads and atomic writes
- log.Logger: console output

🔍 Example:

	eng, err := operation.New(operation.Options{
		Config:   cfg,
		Prompter: confirm.NewLinePrompter(os.Stdin, os.Stdout),
		Console:  console,
	})
	if err != nil {
		return err
	}
	sum, err := eng.Replace(ctx, operation.Scope{Files: files}, plan.ReplaceRequest{Keyword: "slow", Value: "fast"})
	if err != nil {
		return err
	}
	os.Exit(sum.ExitCode())
*/
package operation
