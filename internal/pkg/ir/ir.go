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

// Package ir defines the resolved syntax nodes that hosts feed to the
// matching engine. A host resolver maps its own syntax tree into this closed
// set of node kinds; the engine never sees host framework types.
package ir

import "fmt"

// Kind discriminates the node kinds the engine matches against.
type Kind string

const (
	// Call is an invocation of a function, method or constructor whose
	// declaration the resolver was able to resolve.
	Call Kind = "call"
	// Import is an import statement resolving to a single field.
	Import Kind = "import"
	// Ref is a statically-qualified read of a field, e.g. Type.FIELD.
	Ref Kind = "ref"
	// LayoutTag is an XML layout element whose tag the host layer already
	// resolved to a fully qualified class name.
	LayoutTag Kind = "layout"
)

// Pos locates a node in its source file. Line and Col are 1-based; Col may
// be zero when the host cannot provide column information.
type Pos struct {
	File string `json:"file"`
	Line int    `json:"line"`
	Col  int    `json:"col,omitempty"`
}

func (p Pos) String() string {
	if p.Col > 0 {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Col)
	}
	return fmt.Sprintf("%s:%d", p.File, p.Line)
}

// Arg is one call-site argument as seen by the resolver. Text is the
// rendering of a literal or of a static-qualified reference; Ok is false
// when the expression has no such rendering (a computed or dynamic value).
type Arg struct {
	Text string `json:"text,omitempty"`
	Ok   bool   `json:"ok"`
}

// Node is a tagged union over the node kinds above. Only the fields for the
// node's Kind are meaningful.
type Node struct {
	Kind Kind `json:"kind"`
	Pos  Pos  `json:"pos"`

	// Call: Class declares the invoked member, Member is the raw resolved
	// name (constructors set Constructor instead), Params are the fully
	// qualified parameter types of the resolved declaration, and Args are
	// the call-site arguments in order.
	Class       string   `json:"class,omitempty"`
	Member      string   `json:"member,omitempty"`
	Constructor bool     `json:"constructor,omitempty"`
	Params      []string `json:"params,omitempty"`
	Args        []Arg    `json:"args,omitempty"`

	// Import, Ref: Class and Field name the referenced field.
	Field string `json:"field,omitempty"`

	// LayoutTag: Tag is the element name resolved to a class name.
	Tag string `json:"tag,omitempty"`
}
