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

// Package denylist implements the rule model and matching engine for
// deny-listed APIs. A Rule forbids one member (function, constructor or
// field) of one class; a Store indexes rules for per-node candidate lookup.
// Stores are built once, before matching starts, and are immutable and safe
// for concurrent readers afterwards.
package denylist

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/go-api-fence/internal/pkg/ir"
)

// Wildcard is the reserved marker matching any member name when used as a
// rule's member, and any argument value when used as an argument pattern.
const Wildcard = "*"

// ConstructorName is the reserved member name for a class's constructor.
// It is a real lookup key, distinct from Wildcard and from any ordinary
// identifier.
const ConstructorName = "<init>"

// MemberKind says which kind of member a rule denies.
type MemberKind int

const (
	Function MemberKind = iota
	Field
)

func (k MemberKind) String() string {
	switch k {
	case Function:
		return "function"
	case Field:
		return "field"
	}
	return fmt.Sprintf("MemberKind(%d)", int(k))
}

// A Rule denies one member of one class.
type Rule struct {
	// Class is the fully qualified name of the declaring type.
	Class string
	// Kind and Member identify the denied member. Member may be Wildcard to
	// deny every member of this kind on the class, or ConstructorName to
	// deny the constructor.
	Kind   MemberKind
	Member string
	// Parameters are the fully qualified parameter types of the declaration
	// to match. nil matches any overload; an empty slice matches only a
	// zero-parameter overload. Function rules only.
	Parameters []string
	// Arguments are per-call-site patterns, one per argument position. nil
	// matches any invocation. Each element is either Wildcard or the exact
	// rendering of a literal or static-qualified reference. Function rules
	// only.
	Arguments []string
	// Message is the diagnostic text reported when the rule fires.
	Message string
}

// rawRule mirrors the rule-definition encoding. Exactly one of Function and
// Field must be present. Arguments is the comma-joined pattern list of the
// external format; it is split here.
type rawRule struct {
	Class      string   `json:"class"`
	Function   *string  `json:"function"`
	Field      *string  `json:"field"`
	Parameters []string `json:"parameters"`
	Arguments  *string  `json:"arguments"`
	Message    string   `json:"message"`
}

// UnmarshalJSON validates a rule definition while decoding it. Rules with
// zero or two member targets, an empty class, an empty member name, or no
// message are rejected; no partial rule is ever produced.
func (r *Rule) UnmarshalJSON(bytes []byte) error {
	raw := rawRule{}
	if err := json.Unmarshal(bytes, &raw); err != nil {
		return err
	}

	if raw.Class == "" {
		return fmt.Errorf("rule is missing a class")
	}
	if raw.Message == "" {
		return fmt.Errorf("rule for class %s is missing a message", raw.Class)
	}
	if (raw.Function == nil) == (raw.Field == nil) {
		return fmt.Errorf("rule for class %s: expected exactly one of function, field to be set", raw.Class)
	}

	*r = Rule{
		Class:      raw.Class,
		Parameters: raw.Parameters,
		Arguments:  splitArguments(raw.Arguments),
		Message:    raw.Message,
	}
	switch {
	case raw.Function != nil:
		r.Kind = Function
		r.Member = *raw.Function
	case raw.Field != nil:
		r.Kind = Field
		r.Member = *raw.Field
	}
	if r.Member == "" {
		return fmt.Errorf("rule for class %s has an empty %v name", r.Class, r.Kind)
	}
	return nil
}

// splitArguments turns the comma-joined pattern list into an ordered
// sequence. A nil input stays nil (match any invocation); an empty string is
// the empty sequence (matches only zero-argument calls).
func splitArguments(joined *string) []string {
	if joined == nil {
		return nil
	}
	if *joined == "" {
		return []string{}
	}
	parts := strings.Split(*joined, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// MatchesCall reports whether the rule applies to an invocation of a
// declaration with the given parameter types and the given call-site
// arguments. The two predicates are independent: the parameter check is a
// declaration-shape check, the argument check a call-site-shape check.
func (r *Rule) MatchesCall(declaredParams []string, args []ir.Arg) bool {
	return r.matchesParameters(declaredParams) && r.matchesArguments(args)
}

func (r *Rule) matchesParameters(declared []string) bool {
	if r.Parameters == nil {
		return true
	}
	if len(r.Parameters) != len(declared) {
		return false
	}
	for i, p := range r.Parameters {
		if p != declared[i] {
			return false
		}
	}
	return true
}

// matchesArguments compares call-site arguments position by position. An
// argument with no literal or static-reference rendering never matches a
// concrete pattern, but still matches Wildcard.
func (r *Rule) matchesArguments(args []ir.Arg) bool {
	if r.Arguments == nil {
		return true
	}
	if len(r.Arguments) != len(args) {
		return false
	}
	for i, pattern := range r.Arguments {
		if pattern == Wildcard {
			continue
		}
		if !args[i].Ok || args[i].Text != pattern {
			return false
		}
	}
	return true
}
