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

// Package layout scans Android layout resources for the view classes they
// inflate. Each element of a layout file names a class; an element is a
// denied-constructor use site even though no constructor call appears in
// source.
package layout

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/google/go-api-fence/internal/pkg/ir"
)

// Tags the inflater resolves outside the default widget package.
var specialTags = map[string]string{
	"View":        "android.view.View",
	"ViewGroup":   "android.view.ViewGroup",
	"ViewStub":    "android.view.ViewStub",
	"SurfaceView": "android.view.SurfaceView",
	"TextureView": "android.view.TextureView",
	"WebView":     "android.webkit.WebView",
}

// Tags that direct the inflater rather than naming a view class. The "view"
// element is also here; the class it inflates comes from its class
// attribute and is handled separately.
var directiveTags = map[string]bool{
	"merge":        true,
	"include":      true,
	"requestFocus": true,
	"tag":          true,
	"layout":       true,
	"data":         true,
	"import":       true,
	"variable":     true,
	"fragment":     true,
	"view":         true,
}

// Resolve maps a layout element name to the fully qualified class the
// inflater would instantiate. It returns false for directive tags.
func Resolve(tag string) (string, bool) {
	if directiveTags[tag] {
		return "", false
	}
	if strings.Contains(tag, ".") {
		return tag, true
	}
	if fq, ok := specialTags[tag]; ok {
		return fq, true
	}
	return "android.widget." + tag, true
}

// ScanFile parses one layout file into layout nodes.
func ScanFile(path string) ([]ir.Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error reading layout: %v", err)
	}
	defer f.Close()
	return scan(path, f)
}

func scan(path string, r io.Reader) ([]ir.Node, error) {
	var nodes []ir.Node
	d := xml.NewDecoder(r)
	for {
		// The decoder position before reading a token is where that token
		// starts, since the preceding character data is its own token.
		line, col := d.InputPos()
		tok, err := d.Token()
		if err == io.EOF {
			return nodes, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %v", path, err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		pos := ir.Pos{File: path, Line: line, Col: col}
		tag := start.Name.Local
		if tag == "view" {
			if cls := classAttr(start); cls != "" {
				nodes = append(nodes, ir.Node{Kind: ir.LayoutTag, Pos: pos, Tag: cls})
			}
			continue
		}
		if fq, ok := Resolve(tag); ok {
			nodes = append(nodes, ir.Node{Kind: ir.LayoutTag, Pos: pos, Tag: fq})
		}
	}
}

func classAttr(start xml.StartElement) string {
	for _, a := range start.Attr {
		if a.Name.Local == "class" && a.Name.Space == "" {
			return a.Value
		}
	}
	return ""
}

// ScanDir walks root for layout resource files and scans them concurrently.
// Only files under a layout resource directory (layout, layout-land,
// layout-v21, ...) are considered; the rest of a resource tree is not view
// inflation. Node order is file walk order, so output is deterministic.
func ScanDir(ctx context.Context, root string) ([]ir.Node, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isLayoutFile(path) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking %s: %v", root, err)
	}

	perFile := make([][]ir.Node, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			nodes, err := ScanFile(path)
			if err != nil {
				return err
			}
			perFile[i] = nodes
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var nodes []ir.Node
	for _, ns := range perFile {
		nodes = append(nodes, ns...)
	}
	return nodes, nil
}

func isLayoutFile(path string) bool {
	if filepath.Ext(path) != ".xml" {
		return false
	}
	dir := filepath.Base(filepath.Dir(path))
	return dir == "layout" || strings.HasPrefix(dir, "layout-")
}
