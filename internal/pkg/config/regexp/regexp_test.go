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

package regexp

import (
	"encoding/json"
	"testing"
)

func TestUnmarshaling(t *testing.T) {
	testCases := []struct {
		desc        string
		in          []byte
		match, miss string
		wantErr     bool
	}{
		{
			desc:  "valid pattern",
			in:    []byte(`"^vendor/"`),
			match: "vendor/lib/a.go",
			miss:  "src/vendor.go",
		},
		{
			desc:  "unanchored pattern matches anywhere",
			in:    []byte(`"generated"`),
			match: "out/generated/api.go",
			miss:  "src/handwritten.go",
		},
		{
			desc:    "invalid pattern",
			in:      []byte(`"["`),
			wantErr: true,
		},
		{
			desc:    "non-string value",
			in:      []byte(`42`),
			wantErr: true,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.desc, func(t *testing.T) {
			got := &Regexp{}
			err := json.Unmarshal(tt.in, got)

			if (err != nil) != tt.wantErr {
				t.Fatalf("error expectation = %v, but got err=%v", tt.wantErr, err)
			}
			if tt.wantErr {
				return
			}
			if !got.MatchString(tt.match) {
				t.Errorf("MatchString(%q) = false, want true", tt.match)
			}
			if got.MatchString(tt.miss) {
				t.Errorf("MatchString(%q) = true, want false", tt.miss)
			}
		})
	}
}

func TestZeroRegexpMatchesEverything(t *testing.T) {
	r := Regexp{}
	for _, s := range []string{"", "anything", "vendor/lib/a.go"} {
		if !r.MatchString(s) {
			t.Errorf("zero Regexp did not match %q", s)
		}
	}
}

func TestEqual(t *testing.T) {
	a, b, c := &Regexp{}, &Regexp{}, &Regexp{}
	if err := json.Unmarshal([]byte(`"^vendor/"`), a); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(`"^vendor/"`), b); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(`"^third_party/"`), c); err != nil {
		t.Fatal(err)
	}

	if !a.Equal(*b) {
		t.Errorf("Equal = false for identical patterns")
	}
	if a.Equal(*c) {
		t.Errorf("Equal = true for distinct patterns")
	}
	if a.Equal(Regexp{}) {
		t.Errorf("Equal = true comparing a set matcher with the zero Regexp")
	}
}
