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

// Package report renders check results for people and machines, and
// compares runs. The text form is the compiler-style one-line-per-finding
// stream; the JSON form is a Run document, which is also what the history
// store archives.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/google/go-api-fence/internal/pkg/checker"
)

// A Run is one complete check invocation and everything it found.
type Run struct {
	ID        string               `json:"id"`
	StartedAt time.Time            `json:"started_at"`
	Config    string               `json:"config,omitempty"`
	Inputs    []string             `json:"inputs,omitempty"`
	Findings  []checker.Diagnostic `json:"findings,omitempty"`
}

// NewRun starts an empty run for the given rule file and inputs.
func NewRun(config string, inputs []string) *Run {
	return &Run{
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Config:    config,
		Inputs:    inputs,
	}
}

// Sort orders findings by position, then message. Hosts emit findings in
// their own traversal order; sorting once here is what makes output stable
// across hosts and runs.
func Sort(findings []checker.Diagnostic) {
	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if a.Pos.File != b.Pos.File {
			return a.Pos.File < b.Pos.File
		}
		if a.Pos.Line != b.Pos.Line {
			return a.Pos.Line < b.Pos.Line
		}
		if a.Pos.Col != b.Pos.Col {
			return a.Pos.Col < b.Pos.Col
		}
		return a.Message < b.Message
	})
}

// WriteText writes one line per finding in compiler diagnostic form.
func WriteText(w io.Writer, findings []checker.Diagnostic) error {
	for _, f := range findings {
		if _, err := fmt.Fprintf(w, "%s: %s\n", f.Pos, f.Message); err != nil {
			return err
		}
	}
	return nil
}

// WriteJSON writes the run as an indented JSON document.
func WriteJSON(w io.Writer, run *Run) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(run)
}

// A Diff compares two runs' findings.
type Diff struct {
	BaseID string               `json:"base_id"`
	HeadID string               `json:"head_id"`
	New    []checker.Diagnostic `json:"new,omitempty"`
	Fixed  []checker.Diagnostic `json:"fixed,omitempty"`
}

// key identifies a finding across runs. Line and column are left out so
// that unrelated edits shifting a finding within its file do not show up as
// churn.
func key(d checker.Diagnostic) string {
	return d.Pos.File + "\x00" + d.Message
}

// DiffRuns reports which findings appeared and disappeared between base and
// head. Comparison is by file and message; both sides are reported sorted.
func DiffRuns(base, head *Run) *Diff {
	baseKeys := make(map[string]bool)
	for _, f := range base.Findings {
		baseKeys[key(f)] = true
	}
	headKeys := make(map[string]bool)
	for _, f := range head.Findings {
		headKeys[key(f)] = true
	}

	d := &Diff{BaseID: base.ID, HeadID: head.ID}
	seen := make(map[string]bool)
	for _, f := range head.Findings {
		if k := key(f); !baseKeys[k] && !seen[k] {
			seen[k] = true
			d.New = append(d.New, f)
		}
	}
	seen = make(map[string]bool)
	for _, f := range base.Findings {
		if k := key(f); !headKeys[k] && !seen[k] {
			seen[k] = true
			d.Fixed = append(d.Fixed, f)
		}
	}
	Sort(d.New)
	Sort(d.Fixed)
	return d
}

// WriteDiffText summarizes a diff for terminal use.
func WriteDiffText(w io.Writer, d *Diff) error {
	if _, err := fmt.Fprintf(w, "comparing %s (base) with %s (head): %d new, %d fixed\n",
		d.BaseID, d.HeadID, len(d.New), len(d.Fixed)); err != nil {
		return err
	}
	for _, f := range d.New {
		if _, err := fmt.Fprintf(w, "new: %s: %s\n", f.Pos, f.Message); err != nil {
			return err
		}
	}
	for _, f := range d.Fixed {
		if _, err := fmt.Fprintf(w, "fixed: %s: %s\n", f.Pos, f.Message); err != nil {
			return err
		}
	}
	return nil
}
