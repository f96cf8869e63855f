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

// Package utils contains go/types helpers shared by the Go frontend.
package utils

import (
	"go/types"
)

// Dereference returns the underlying type of a pointer.
// If the input is not a pointer, then the type of the input is returned.
func Dereference(t types.Type) types.Type {
	for {
		tt, ok := t.Underlying().(*types.Pointer)
		if !ok {
			return t
		}
		t = tt.Elem()
	}
}

// DecomposeType returns the path and name of a Named type
// Returns empty strings if the type is not *types.Named
func DecomposeType(t types.Type) (path, name string) {
	n, ok := t.(*types.Named)
	if !ok {
		return
	}

	if pkg := n.Obj().Pkg(); pkg != nil {
		path = pkg.Path()
	}

	return path, n.Obj().Name()
}

// DecomposeFunction returns the package path, receiver type name, and name
// of a function or method. For functions that have no receiver, returns an
// empty string for recv. Receivers that are not a named type also yield an
// empty recv; callers filter out type-parameter receivers beforehand.
func DecomposeFunction(fn *types.Func) (path, recv, name string) {
	if fn.Pkg() != nil {
		path = fn.Pkg().Path()
	}
	name = fn.Name()
	if recvVar := fn.Type().(*types.Signature).Recv(); recvVar != nil {
		_, recv = DecomposeType(Dereference(recvVar.Type()))
	}
	return
}

// QualifiedName renders the name rules use for a declaration: the package
// path alone for package-scope declarations, path.Type for members of a
// named type.
func QualifiedName(path, recv string) string {
	if recv == "" {
		return path
	}
	return path + "." + recv
}

// TypeQualifier renders types with full package paths, so rule parameter
// lists stay unambiguous across packages sharing a base name.
func TypeQualifier(pkg *types.Package) string {
	return pkg.Path()
}

// RenderSignature returns the parameter types of sig rendered with
// TypeQualifier, one string per parameter.
func RenderSignature(sig *types.Signature) []string {
	params := sig.Params()
	out := make([]string, params.Len())
	for i := 0; i < params.Len(); i++ {
		out[i] = types.TypeString(params.At(i).Type(), TypeQualifier)
	}
	return out
}
