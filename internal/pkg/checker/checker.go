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

// Package checker evaluates resolved nodes against a rule store. It is the
// only piece shared by every frontend: the facts reader, the layout scanner
// and the Go analyzer all reduce their inputs to ir.Node values and hand
// them here.
package checker

import (
	"github.com/google/go-api-fence/internal/pkg/denylist"
	"github.com/google/go-api-fence/internal/pkg/ir"
)

// A Diagnostic is one rule firing at one node.
type Diagnostic struct {
	Pos     ir.Pos `json:"pos"`
	Message string `json:"message"`
}

// A Checker holds an indexed rule store. Checkers are immutable and safe
// for concurrent use.
type Checker struct {
	store *denylist.Store
}

// New indexes the given rules. Rule lists that cannot be indexed, such as
// ones with colliding layout constructor rules, are rejected whole.
func New(rules []denylist.Rule) (*Checker, error) {
	store, err := denylist.NewStore(rules)
	if err != nil {
		return nil, err
	}
	return &Checker{store: store}, nil
}

// Check returns the diagnostics for a single resolved node, in rule input
// order. Nodes of an unknown kind produce nothing; an unresolvable node is
// the host's problem and never reaches the checker.
func (c *Checker) Check(n ir.Node) []Diagnostic {
	switch n.Kind {
	case ir.Call:
		return c.checkCall(n)
	case ir.Import, ir.Ref:
		return c.checkFieldAccess(n)
	case ir.LayoutTag:
		return c.checkLayoutTag(n)
	}
	return nil
}

func (c *Checker) checkCall(n ir.Node) []Diagnostic {
	member := denylist.CanonicalMemberName(n.Member, n.Constructor)
	var diags []Diagnostic
	for _, r := range c.store.FunctionCandidates(n.Class, member) {
		if r.MatchesCall(n.Params, n.Args) {
			diags = append(diags, Diagnostic{Pos: n.Pos, Message: r.Message})
		}
	}
	return diags
}

// checkFieldAccess covers both reference and import nodes: importing a
// denied field is as much a use as reading it.
func (c *Checker) checkFieldAccess(n ir.Node) []Diagnostic {
	var diags []Diagnostic
	for _, r := range c.store.FieldCandidates(n.Class, n.Field) {
		diags = append(diags, Diagnostic{Pos: n.Pos, Message: r.Message})
	}
	return diags
}

func (c *Checker) checkLayoutTag(n ir.Node) []Diagnostic {
	r, ok := c.store.LayoutRule(n.Tag)
	if !ok {
		return nil
	}
	return []Diagnostic{{Pos: n.Pos, Message: r.Message}}
}
