// Copyright 2023 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads the rule file shared by every checker frontend. A
// rule file is YAML with two top-level keys: exclude, a list of path
// patterns whose inputs are skipped, and rules, the deny-list itself.
package config

import (
	"flag"
	"fmt"
	"os"
	"sync"

	"sigs.k8s.io/yaml"

	"github.com/google/go-api-fence/internal/pkg/config/regexp"
	"github.com/google/go-api-fence/internal/pkg/denylist"
)

// FlagSet should be used by analyzers to reuse the -config flag.
var FlagSet flag.FlagSet
var configFile string

func init() {
	FlagSet.StringVar(&configFile, "config", "fence.yaml", "path to the rule configuration file")
}

// Config is a loaded rule file.
type Config struct {
	// Exclude holds path patterns; an input file whose path matches any of
	// them is not checked. Patterns are unanchored.
	Exclude []regexp.Regexp `json:"exclude"`
	// Rules is the deny-list. Per-rule validation happens while decoding;
	// cross-rule validation happens in Validate.
	Rules []denylist.Rule `json:"rules"`
}

// IsExcludedPath reports whether the file at path is excluded from
// checking. The zero-pattern case is handled before this: a Config with no
// Exclude entries excludes nothing.
func (c Config) IsExcludedPath(path string) bool {
	for _, p := range c.Exclude {
		if p.MatchString(path) {
			return true
		}
	}
	return false
}

// Validate checks the cross-rule invariants that per-rule decoding cannot
// see, currently only layout-constructor ambiguity. A rule file is applied
// in full or not at all.
func (c Config) Validate() error {
	_, err := denylist.NewStore(c.Rules)
	return err
}

func unmarshal(bytes []byte) (*Config, error) {
	c := new(Config)
	if err := yaml.UnmarshalStrict(bytes, c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

var readFileOnce sync.Once
var readConfigCached *Config
var readConfigCachedErr error

// Load reads and validates the rule file at path.
func Load(path string) (*Config, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading rule configuration: %v", err)
	}
	return unmarshal(bytes)
}

// ReadConfig returns the rule file named by the -config flag. The file is
// read and validated once; every caller afterwards shares the result.
func ReadConfig() (*Config, error) {
	readFileOnce.Do(func() {
		readConfigCached, readConfigCachedErr = Load(configFile)
	})
	return readConfigCached, readConfigCachedErr
}
