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

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/perseus/pkg/confirm"
	"github.com/walteh/perseus/pkg/marker"
	"gitlab.com/tozd/go/errors"
)

// DefaultFilenameFilter keeps Python files with "test" in their name
const DefaultFilenameFilter = "**/*test*.py"

// DefaultContext is the number of unchanged lines around each preview hunk
const DefaultContext = 2

// DefaultFiles are looked up in the working directory when no config path is given
var DefaultFiles = []string{".perseus.yaml", ".perseus.yml", ".perseus.hcl", ".perseus.json", ".perseus.toml"}

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📚 Config represents the complete configuration
type Config struct {
	Patterns            []string `json:"patterns,omitempty" yaml:"patterns,omitempty" toml:"patterns,omitempty" hcl:"patterns,optional"`
	Keywords            []string `json:"keywords,omitempty" yaml:"keywords,omitempty" toml:"keywords,omitempty" hcl:"keywords,optional"`
	Exclude             []string `json:"exclude,omitempty" yaml:"exclude,omitempty" toml:"exclude,omitempty" hcl:"exclude,optional"`
	DetectionMode       string   `json:"detection_mode,omitempty" yaml:"detection_mode,omitempty" toml:"detection_mode,omitempty" hcl:"detection_mode,optional"`
	ConfirmMode         string   `json:"confirm_mode,omitempty" yaml:"confirm_mode,omitempty" toml:"confirm_mode,omitempty" hcl:"confirm_mode,optional"`
	DryRun              bool     `json:"dry_run,omitempty" yaml:"dry_run,omitempty" toml:"dry_run,omitempty" hcl:"dry_run,optional"`
	FilenameFilter      string   `json:"filename_filter,omitempty" yaml:"filename_filter,omitempty" toml:"filename_filter,omitempty" hcl:"filename_filter,optional"`
	CaseSensitive       bool     `json:"case_sensitive,omitempty" yaml:"case_sensitive,omitempty" toml:"case_sensitive,omitempty" hcl:"case_sensitive,optional"`
	TestFunctionPattern string   `json:"test_function_pattern,omitempty" yaml:"test_function_pattern,omitempty" toml:"test_function_pattern,omitempty" hcl:"test_function_pattern,optional"`
	Context             *int     `json:"context,omitempty" yaml:"context,omitempty" toml:"context,omitempty" hcl:"context,optional"`
}

// 🏭 Default returns a config with every default filled in
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (cfg *Config) applyDefaults() {
	if len(cfg.Patterns) == 0 {
		cfg.Patterns = []string{marker.DefaultPattern}
	}
	if cfg.DetectionMode == "" {
		cfg.DetectionMode = string(marker.ModeAnyOf)
	}
	if cfg.ConfirmMode == "" {
		cfg.ConfirmMode = string(confirm.ModePerFile)
	}
	if cfg.FilenameFilter == "" {
		cfg.FilenameFilter = DefaultFilenameFilter
	}
	if cfg.Context == nil {
		n := DefaultContext
		cfg.Context = &n
	}
}

// PreviewContext returns the configured number of context lines
func (cfg *Config) PreviewContext() int {
	if cfg.Context == nil {
		return DefaultContext
	}
	return *cfg.Context
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// 🔎 LoadOrDefault loads path, or the first default file found in dir when
// path is empty. Without any config file the defaults are returned.
func LoadOrDefault(ctx context.Context, dir, path string) (*Config, error) {
	if path != "" {
		return Load(ctx, path)
	}
	for _, name := range DefaultFiles {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return Load(ctx, candidate)
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, errors.Errorf("checking config file %s: %w", candidate, err)
		}
	}
	zerolog.Ctx(ctx).Debug().Str("dir", dir).Msg("no config file, using defaults")
	return Default(), nil
}

// 🔍 Validate fills defaults and checks every value
func (cfg *Config) Validate() error {
	cfg.applyDefaults()

	if _, err := marker.NewPatternSet(cfg.Patterns...); err != nil {
		return errors.Errorf("patterns: %w", err)
	}
	if _, err := marker.ParseDetectionMode(cfg.DetectionMode); err != nil {
		return errors.Errorf("detection_mode: %w", err)
	}
	if _, err := confirm.ParseMode(cfg.ConfirmMode); err != nil {
		return errors.Errorf("confirm_mode: %w", err)
	}
	if !doublestar.ValidatePattern(cfg.FilenameFilter) {
		return errors.Errorf("filename_filter: invalid glob %q", cfg.FilenameFilter)
	}
	if cfg.TestFunctionPattern != "" {
		if _, err := regexp.Compile(cfg.TestFunctionPattern); err != nil {
			return errors.Errorf("test_function_pattern: %w", err)
		}
	}
	if *cfg.Context < 0 {
		return errors.Errorf("context must not be negative, got %d", *cfg.Context)
	}
	for _, k := range cfg.Keywords {
		if strings.TrimSpace(k) == "" {
			return errors.Errorf("keywords: empty keyword")
		}
	}

	return nil
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("%s %s filter=%s patterns=%d context=%d",
		cfg.DetectionMode, cfg.ConfirmMode, cfg.FilenameFilter, len(cfg.Patterns), cfg.PreviewContext())
}
