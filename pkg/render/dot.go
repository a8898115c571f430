// Package render exports workflows as node-link diagrams via Graphviz.
//
// The canvas editor owns interactive layout; this package is the export
// path: a deterministic DOT document, optionally rasterized.
//
//	dot := render.ToDOT(w, render.Options{})
//	svg, err := render.SVG(dot)
//	png, err := render.PNG(dot)
package render

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/shwetalj/jobcanvas/pkg/workflow"
)

// Options configures DOT generation.
type Options struct {
	// Detailed includes the command and description in node labels.
	// When false, only the job ID is shown.
	Detailed bool
}

// ToDOT converts a workflow to Graphviz DOT format. Jobs appear in insertion
// order and edges in the workflow's deterministic edge order, so the output
// is stable for a given input.
func ToDOT(w *workflow.Workflow, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph jobs {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, j := range w.Jobs() {
		fmt.Fprintf(&buf, "  %q [label=%q];\n", j.ID, fmtLabel(j, opts.Detailed))
	}

	buf.WriteString("\n")
	for _, e := range w.Edges() {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(j *workflow.Job, detailed bool) string {
	if !detailed {
		return j.ID
	}

	parts := []string{}
	if j.Command != "" {
		parts = append(parts, fmt.Sprintf("command: %s", j.Command))
	}
	if j.Description != "" {
		parts = append(parts, j.Description)
	}
	for _, k := range slices.Sorted(maps.Keys(j.Meta)) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, j.Meta[k]))
	}
	if len(parts) == 0 {
		return j.ID
	}
	return j.ID + "\n" + strings.Join(parts, "\n")
}

// SVG renders a DOT graph to SVG using Graphviz.
func SVG(dot string) ([]byte, error) {
	var buf bytes.Buffer
	if err := renderAs(dot, graphviz.SVG, &buf); err != nil {
		return nil, err
	}
	return normalizeViewBox(buf.Bytes()), nil
}

// PNG renders a DOT graph to PNG using Graphviz.
func PNG(dot string) ([]byte, error) {
	var buf bytes.Buffer
	if err := renderAs(dot, graphviz.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderAs(dot string, format graphviz.Format, buf *bytes.Buffer) error {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	if err := gv.Render(ctx, g, format, buf); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root svg element to a zero-origin viewBox
// with explicit pixel dimensions, which embeds cleanly in web frontends.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
