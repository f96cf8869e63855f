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

package facts

import (
	"strings"
	"testing"

	"github.com/google/go-api-fence/internal/pkg/ir"
	"github.com/google/go-cmp/cmp"
)

func TestDecode(t *testing.T) {
	in := `
{"kind":"call","pos":{"file":"App.kt","line":7,"col":3},"class":"com.acme.Danger","member":"go","params":[],"args":[{"text":"42","ok":true}]}

{"kind":"call","pos":{"file":"App.kt","line":9},"class":"com.acme.CustomView","constructor":true,"params":["android.content.Context"],"args":[{"ok":false}]}
{"kind":"ref","pos":{"file":"Flags.kt","line":2,"col":11},"class":"com.acme.Flags","field":"DEBUG"}
{"kind":"import","pos":{"file":"App.kt","line":1},"class":"com.acme.Flags","field":"DEBUG"}
{"kind":"layout","pos":{"file":"res/layout/main.xml","line":12,"col":5},"tag":"com.acme.CustomView"}
`
	got, err := Decode("nodes.jsonl", strings.NewReader(in))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	want := []ir.Node{
		{
			Kind: ir.Call, Pos: ir.Pos{File: "App.kt", Line: 7, Col: 3},
			Class: "com.acme.Danger", Member: "go",
			Params: []string{}, Args: []ir.Arg{{Text: "42", Ok: true}},
		},
		{
			Kind: ir.Call, Pos: ir.Pos{File: "App.kt", Line: 9},
			Class: "com.acme.CustomView", Constructor: true,
			Params: []string{"android.content.Context"}, Args: []ir.Arg{{}},
		},
		{
			Kind: ir.Ref, Pos: ir.Pos{File: "Flags.kt", Line: 2, Col: 11},
			Class: "com.acme.Flags", Field: "DEBUG",
		},
		{
			Kind: ir.Import, Pos: ir.Pos{File: "App.kt", Line: 1},
			Class: "com.acme.Flags", Field: "DEBUG",
		},
		{
			Kind: ir.LayoutTag, Pos: ir.Pos{File: "res/layout/main.xml", Line: 12, Col: 5},
			Tag: "com.acme.CustomView",
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("node diff (-want +got):\n%s", diff)
	}
}

func TestDecodeEmptyStream(t *testing.T) {
	got, err := Decode("empty.jsonl", strings.NewReader("\n\n"))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Decode produced %d nodes from an empty stream", len(got))
	}
}

func TestDecodeErrors(t *testing.T) {
	testCases := []struct {
		desc, in, wantInError string
	}{
		{
			desc:        "malformed JSON",
			in:          `{"kind":"call"`,
			wantInError: "nodes.jsonl:1",
		},
		{
			desc: "unknown kind",
			in: `{"kind":"call","pos":{"file":"a.kt","line":1},"class":"c","member":"m"}
{"kind":"widget","pos":{"file":"a.kt","line":2}}`,
			wantInError: `nodes.jsonl:2: unknown node kind "widget"`,
		},
		{
			desc:        "missing position",
			in:          `{"kind":"ref","class":"c","field":"f"}`,
			wantInError: "no usable position",
		},
		{
			desc:        "call without class",
			in:          `{"kind":"call","pos":{"file":"a.kt","line":1},"member":"m"}`,
			wantInError: "call node has no class",
		},
		{
			desc:        "call without member or constructor marker",
			in:          `{"kind":"call","pos":{"file":"a.kt","line":1},"class":"c"}`,
			wantInError: "is not a constructor",
		},
		{
			desc:        "ref without field",
			in:          `{"kind":"ref","pos":{"file":"a.kt","line":1},"class":"c"}`,
			wantInError: "must name a class and a field",
		},
		{
			desc:        "layout without tag",
			in:          `{"kind":"layout","pos":{"file":"a.xml","line":1}}`,
			wantInError: "layout node has no tag",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			_, err := Decode("nodes.jsonl", strings.NewReader(tc.in))
			if err == nil {
				t.Fatalf("Decode succeeded, want error containing %q", tc.wantInError)
			}
			if !strings.Contains(err.Error(), tc.wantInError) {
				t.Errorf("Decode error %q does not contain %q", err, tc.wantInError)
			}
		})
	}
}
