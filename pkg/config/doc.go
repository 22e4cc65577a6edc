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
Package config loads perseus settings from YAML, HCL, JSON or TOML.

🎯 Purpose:
- Provide defaults for every setting
- Parse the format picked by file extension
- Reject unknown keys in every format
- Validate patterns, modes and globs before any file is touched

🔄 Flow:
1. Pick a parser from the registry by file name
2. Decode into Config
3. Fill defaults and validate

📄 Keys:

	patterns               marker regular expressions (default: decorator style)
	keywords               default keywords for search
	exclude                keywords that disqualify a file
	detection_mode         any-of | all-of
	confirm_mode           per-file | all-or-nothing
	dry_run                preview only
	filename_filter        doublestar glob (default: .py files with "test" in the name)
	case_sensitive         keyword matching honours case
	test_function_pattern  anchor regexp for add --test-func
	context                preview context lines (default 2)

🔍 Example:

	cfg, err := config.LoadOrDefault(ctx, ".", "")
	if err != nil {
		return err
	}
	fmt.Println(cfg.FilenameFilter)
*/
package config
