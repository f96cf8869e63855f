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

// Package facts reads resolved-node streams produced by external resolvers.
// The format is newline-delimited JSON, one ir.Node per line. This is the
// untrusted edge of the pipeline, so every node is validated before it is
// let anywhere near the checker.
package facts

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/go-api-fence/internal/pkg/ir"
)

// A resolver may emit a call with many rendered arguments on one line, well
// past bufio.Scanner's default limit.
const maxLineBytes = 1 << 20

// ReadFile decodes the facts file at path.
func ReadFile(path string) ([]ir.Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error reading facts: %v", err)
	}
	defer f.Close()
	return Decode(path, f)
}

// Decode reads newline-delimited nodes from r. name is used in error
// messages only. Decoding stops at the first malformed line; a facts stream
// is either wholly usable or rejected.
func Decode(name string, r io.Reader) ([]ir.Node, error) {
	var nodes []ir.Node
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var n ir.Node
		if err := json.Unmarshal([]byte(text), &n); err != nil {
			return nil, fmt.Errorf("%s:%d: %v", name, line, err)
		}
		if err := validate(n); err != nil {
			return nil, fmt.Errorf("%s:%d: %v", name, line, err)
		}
		nodes = append(nodes, n)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%s: %v", name, err)
	}
	return nodes, nil
}

func validate(n ir.Node) error {
	if n.Pos.File == "" || n.Pos.Line < 1 {
		return fmt.Errorf("node of kind %q has no usable position", n.Kind)
	}
	switch n.Kind {
	case ir.Call:
		if n.Class == "" {
			return fmt.Errorf("call node has no class")
		}
		if n.Member == "" && !n.Constructor {
			return fmt.Errorf("call node on %s names no member and is not a constructor", n.Class)
		}
	case ir.Import, ir.Ref:
		if n.Class == "" || n.Field == "" {
			return fmt.Errorf("%s node must name a class and a field", n.Kind)
		}
	case ir.LayoutTag:
		if n.Tag == "" {
			return fmt.Errorf("layout node has no tag")
		}
	default:
		return fmt.Errorf("unknown node kind %q", n.Kind)
	}
	return nil
}
