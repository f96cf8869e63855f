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

// Package gofence defines the analyzer that reports uses of deny-listed
// APIs in Go source. It maps Go calls and selector expressions onto the
// engine's class/member vocabulary: the class of a package-level function
// or variable is its package path, the class of a method or struct field
// is path.Type with the receiver's pointers stripped.
package gofence

import (
	"go/ast"
	"go/constant"
	"go/token"
	"go/types"
	"strconv"

	"github.com/google/go-api-fence/internal/pkg/checker"
	"github.com/google/go-api-fence/internal/pkg/config"
	"github.com/google/go-api-fence/internal/pkg/ir"
	"github.com/google/go-api-fence/internal/pkg/suppression"
	"github.com/google/go-api-fence/internal/pkg/utils"
	"golang.org/x/exp/typeparams"
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/astutil"
	"golang.org/x/tools/go/ast/inspector"
	"golang.org/x/tools/go/types/typeutil"
)

var Analyzer = &analysis.Analyzer{
	Name:  "gofence",
	Run:   run,
	Flags: config.FlagSet,
	Doc:   "reports uses of deny-listed functions, fields and package values",
	Requires: []*analysis.Analyzer{
		inspect.Analyzer,
		suppression.Analyzer,
	},
}

func run(pass *analysis.Pass) (interface{}, error) {
	conf, err := config.ReadConfig()
	if err != nil {
		return nil, err
	}
	fence, err := checker.New(conf.Rules)
	if err != nil {
		return nil, err
	}
	suppressedNodes := pass.ResultOf[suppression.Analyzer].(suppression.ResultType)
	ins := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	excluded := make(map[*ast.File]bool)
	for _, f := range pass.Files {
		if conf.IsExcludedPath(pass.Fset.File(f.Pos()).Name()) {
			excluded[f] = true
		}
	}

	nodeFilter := []ast.Node{
		(*ast.CallExpr)(nil),
		(*ast.SelectorExpr)(nil),
	}
	ins.WithStack(nodeFilter, func(n ast.Node, push bool, stack []ast.Node) bool {
		if !push {
			return false
		}
		if excluded[stack[0].(*ast.File)] {
			return false
		}
		var node ir.Node
		var ok bool
		switch t := n.(type) {
		case *ast.CallExpr:
			node, ok = callNode(pass, t)
		case *ast.SelectorExpr:
			if isCalleePosition(t, stack) {
				return true
			}
			node, ok = selectorNode(pass, t)
		}
		if !ok {
			return true
		}
		diagnostics := fence.Check(node)
		if len(diagnostics) == 0 || isSuppressed(stack, suppressedNodes) {
			return true
		}
		for _, d := range diagnostics {
			pass.Reportf(n.Pos(), "%s", d.Message)
		}
		return true
	})

	return nil, nil
}

// callNode maps a call expression onto the engine's vocabulary. Calls whose
// callee is not a declared function or method, such as conversions, calls of
// function values and builtins, produce no node.
func callNode(pass *analysis.Pass, call *ast.CallExpr) (ir.Node, bool) {
	fn, ok := typeutil.Callee(pass.TypesInfo, call).(*types.Func)
	if !ok {
		return ir.Node{}, false
	}
	// Methods of instantiated types are matched against their declaration,
	// so a rule names type parameters the way the declaration does.
	fn = typeparams.OriginMethod(fn)
	sig := fn.Type().(*types.Signature)
	if recv := sig.Recv(); recv != nil && typeparams.IsTypeParam(utils.Dereference(recv.Type())) {
		// A constraint method call has no concrete type to attribute.
		return ir.Node{}, false
	}
	path, recv, name := utils.DecomposeFunction(fn)
	if path == "" {
		return ir.Node{}, false
	}
	return ir.Node{
		Kind:   ir.Call,
		Pos:    position(pass, call.Pos()),
		Class:  utils.QualifiedName(path, recv),
		Member: name,
		Params: utils.RenderSignature(sig),
		Args:   renderArgs(pass, call.Args),
	}, true
}

// selectorNode maps a selector expression onto a field reference: either a
// field selected on a named struct type, or a qualified identifier naming a
// package-level var or const. Selectors naming types, methods, functions and
// local declarations produce no node.
func selectorNode(pass *analysis.Pass, sel *ast.SelectorExpr) (ir.Node, bool) {
	if selection, ok := pass.TypesInfo.Selections[sel]; ok {
		if selection.Kind() != types.FieldVal {
			return ir.Node{}, false
		}
		path, name := utils.DecomposeType(utils.Dereference(selection.Recv()))
		if path == "" {
			return ir.Node{}, false
		}
		return ir.Node{
			Kind:  ir.Ref,
			Pos:   position(pass, sel.Pos()),
			Class: utils.QualifiedName(path, name),
			Field: selection.Obj().Name(),
		}, true
	}
	obj := pass.TypesInfo.Uses[sel.Sel]
	switch obj.(type) {
	case *types.Var, *types.Const:
	default:
		return ir.Node{}, false
	}
	if obj.Pkg() == nil || obj.Parent() != obj.Pkg().Scope() {
		return ir.Node{}, false
	}
	return ir.Node{
		Kind:  ir.Ref,
		Pos:   position(pass, sel.Pos()),
		Class: obj.Pkg().Path(),
		Field: obj.Name(),
	}, true
}

// isCalleePosition reports whether sel is the callee of its enclosing call.
// Such selectors are handled as calls, not as field references.
func isCalleePosition(sel *ast.SelectorExpr, stack []ast.Node) bool {
	if len(stack) < 2 {
		return false
	}
	call, ok := stack[len(stack)-2].(*ast.CallExpr)
	return ok && call.Fun == sel
}

// renderArgs renders each call argument to the text the rule's arguments
// pattern is matched against. Arguments with no stable source rendering are
// marked unrenderable and only match the wildcard.
func renderArgs(pass *analysis.Pass, args []ast.Expr) []ir.Arg {
	out := make([]ir.Arg, len(args))
	for i, a := range args {
		out[i] = renderArg(pass, a)
	}
	return out
}

func renderArg(pass *analysis.Pass, e ast.Expr) ir.Arg {
	e = astutil.Unparen(e)

	// A reference to a package-level const or var renders the way it reads
	// at the call site, not as its value.
	var id *ast.Ident
	switch x := e.(type) {
	case *ast.Ident:
		id = x
	case *ast.SelectorExpr:
		id = x.Sel
	}
	if id != nil {
		if obj := pass.TypesInfo.Uses[id]; obj != nil {
			switch obj.(type) {
			case *types.Const, *types.Var:
				if obj.Pkg() != nil && obj.Parent() == obj.Pkg().Scope() {
					return ir.Arg{Text: obj.Pkg().Name() + "." + obj.Name(), Ok: true}
				}
			}
		}
	}

	tv, ok := pass.TypesInfo.Types[e]
	switch {
	case !ok:
		return ir.Arg{}
	case tv.IsNil():
		return ir.Arg{Text: "nil", Ok: true}
	case tv.Value != nil:
		return constantArg(tv.Value)
	}
	return ir.Arg{}
}

func constantArg(v constant.Value) ir.Arg {
	switch v.Kind() {
	case constant.String:
		return ir.Arg{Text: strconv.Quote(constant.StringVal(v)), Ok: true}
	case constant.Int, constant.Bool:
		return ir.Arg{Text: v.ExactString(), Ok: true}
	case constant.Float:
		return ir.Arg{Text: v.String(), Ok: true}
	}
	return ir.Arg{}
}

// isSuppressed reports whether the node at the top of the stack carries a
// suppressing comment. A suppressing comment may be attached to the name of
// a callee, to the node itself, or to any enclosing node up to and including
// the statement or declaration containing it. Comments further out, such as
// a comment dangling at the end of a block, do not suppress.
func isSuppressed(stack []ast.Node, suppressedNodes suppression.ResultType) bool {
	if call, ok := stack[len(stack)-1].(*ast.CallExpr); ok {
		switch fun := call.Fun.(type) {
		case *ast.Ident:
			if suppressedNodes.IsSuppressed(fun) {
				return true
			}
		case *ast.SelectorExpr:
			if suppressedNodes.IsSuppressed(fun.Sel) {
				return true
			}
		}
	}
	for i := len(stack) - 1; i >= 0; i-- {
		if suppressedNodes.IsSuppressed(stack[i]) {
			return true
		}
		switch stack[i].(type) {
		case ast.Stmt, ast.Decl:
			return false
		}
	}
	return false
}

func position(pass *analysis.Pass, p token.Pos) ir.Pos {
	pos := pass.Fset.Position(p)
	return ir.Pos{File: pos.Filename, Line: pos.Line, Col: pos.Column}
}
