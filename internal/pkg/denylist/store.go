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

package denylist

import (
	"fmt"
	"strings"
)

// classIndex groups one class's rules by member name. Wildcard-named rules
// form their own group under the Wildcard key.
type classIndex struct {
	functions map[string][]*Rule
	fields    map[string][]*Rule
}

// A Store is the indexed, immutable form of a rule list. Candidate lookups
// and the layout index are plain map reads; a published Store may be shared
// by any number of concurrent readers.
type Store struct {
	classes map[string]*classIndex
	layout  map[string]*Rule
}

// layoutParameters is the view-inflation constructor shape. Constructor
// rules whose parameter list is nil or exactly this shape qualify for the
// layout index.
var layoutParameters = []string{"android.content.Context", "android.util.AttributeSet"}

// NewStore indexes rules for lookup. It fails when two layout-eligible
// constructor rules collide on a class name, since an XML tag could then not
// be attributed to a single rule. On error no store is returned; a rule list
// is never partially applied.
func NewStore(rules []Rule) (*Store, error) {
	owned := make([]Rule, len(rules))
	copy(owned, rules)

	s := &Store{
		classes: make(map[string]*classIndex),
		layout:  make(map[string]*Rule),
	}
	for i := range owned {
		r := &owned[i]
		ci := s.classes[r.Class]
		if ci == nil {
			ci = &classIndex{
				functions: make(map[string][]*Rule),
				fields:    make(map[string][]*Rule),
			}
			s.classes[r.Class] = ci
		}
		switch r.Kind {
		case Function:
			ci.functions[r.Member] = append(ci.functions[r.Member], r)
			if r.Member == ConstructorName && layoutEligible(r.Parameters) {
				if _, ok := s.layout[r.Class]; ok {
					return nil, fmt.Errorf("ambiguous layout constructor rules for class %s", r.Class)
				}
				s.layout[r.Class] = r
			}
		case Field:
			ci.fields[r.Member] = append(ci.fields[r.Member], r)
		default:
			return nil, fmt.Errorf("rule for class %s has unknown member kind %v", r.Class, r.Kind)
		}
	}
	return s, nil
}

func layoutEligible(params []string) bool {
	if params == nil {
		return true
	}
	if len(params) != len(layoutParameters) {
		return false
	}
	for i := range params {
		if params[i] != layoutParameters[i] {
			return false
		}
	}
	return true
}

// CanonicalMemberName maps a resolved call site to the member name rules are
// indexed under. Constructor invocations use ConstructorName. Overloads
// distinguished only by inline-wrapped parameter types carry a hyphenated
// compiler suffix (e.g. "foo-impl"); only the part before the first hyphen
// is significant. Skipping this truncation lets mangled overloads evade
// matching.
func CanonicalMemberName(raw string, constructor bool) string {
	if constructor {
		return ConstructorName
	}
	if i := strings.IndexByte(raw, '-'); i >= 0 {
		return raw[:i]
	}
	return raw
}

// FunctionCandidates returns the function rules to test against a call of
// class.member: rules indexed under the exact member name, followed by the
// class's wildcard rules. Order within each group is rule input order, which
// fixes the order diagnostics are emitted for a single node. A lookup of the
// wildcard name itself returns the wildcard group once, not twice.
func (s *Store) FunctionCandidates(class, member string) []*Rule {
	ci := s.classes[class]
	if ci == nil {
		return nil
	}
	if member == Wildcard {
		return ci.functions[Wildcard]
	}
	return joined(ci.functions[member], ci.functions[Wildcard])
}

// FieldCandidates is the field analog of FunctionCandidates. Field rules
// carry no parameter or argument predicates, so every returned rule fires.
func (s *Store) FieldCandidates(class, field string) []*Rule {
	ci := s.classes[class]
	if ci == nil {
		return nil
	}
	if field == Wildcard {
		return ci.fields[Wildcard]
	}
	return joined(ci.fields[field], ci.fields[Wildcard])
}

// LayoutRule returns the rule denying the given class when declared as an
// XML layout element. The tag is assumed already resolved to a fully
// qualified class name; lookup is a direct key read, all filtering happened
// at construction time.
func (s *Store) LayoutRule(class string) (*Rule, bool) {
	r, ok := s.layout[class]
	return r, ok
}

func joined(exact, wild []*Rule) []*Rule {
	if len(wild) == 0 {
		return exact
	}
	out := make([]*Rule, 0, len(exact)+len(wild))
	out = append(out, exact...)
	return append(out, wild...)
}
