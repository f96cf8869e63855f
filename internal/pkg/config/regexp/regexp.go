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

// Package regexp wraps the standard regexp package with a matcher that can
// be unmarshalled directly from a configuration value.
package regexp

import (
	"encoding/json"
	"regexp"
)

// Regexp is a pattern matcher configured from a string value. The zero
// Regexp matches everything, so an absent configuration clause does not
// constrain.
type Regexp struct {
	r *regexp.Regexp
}

// UnmarshalJSON compiles the pattern while decoding it, so invalid patterns
// are configuration-load errors rather than match-time surprises.
func (r *Regexp) UnmarshalJSON(data []byte) error {
	var pattern string
	if err := json.Unmarshal(data, &pattern); err != nil {
		return err
	}
	compiled, err := regexp.Compile(pattern)
	if err != nil {
		return err
	}
	r.r = compiled
	return nil
}

// MatchString reports whether s contains a match of the pattern. Patterns
// are not implicitly anchored.
func (r Regexp) MatchString(s string) bool {
	return r.r == nil || r.r.MatchString(s)
}

// String returns the source pattern, or the empty string for the zero
// Regexp.
func (r Regexp) String() string {
	if r.r == nil {
		return ""
	}
	return r.r.String()
}

// Equal reports whether two matchers were built from the same pattern. It
// lets configurations holding compiled patterns be diffed in tests.
func (r Regexp) Equal(other Regexp) bool {
	return r.String() == other.String()
}
