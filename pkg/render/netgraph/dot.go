package netgraph

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/shelfconv/pkg/macro"
)

// Options configures netlist diagram rendering.
type Options struct {
	// MaxNets limits the diagram to the first MaxNets nets. Zero draws
	// every net and every component.
	MaxNets int

	// PinLabels labels edges with the macro pin names they connect.
	PinLabels bool
}

// ToDOT converts a canonicalized design to Graphviz DOT format.
func ToDOT(res *macro.Result, opts Options) string {
	nets := res.Nets
	if opts.MaxNets > 0 && len(nets) > opts.MaxNets {
		nets = nets[:opts.MaxNets]
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14];\n")
	buf.WriteString("  edge [arrowsize=0.6];\n")
	buf.WriteString("\n")

	for _, c := range components(res, nets, opts.MaxNets > 0) {
		fmt.Fprintf(&buf, "  %q [%s];\n", c.Instance, strings.Join(fmtAttrs(c), ", "))
	}

	buf.WriteString("\n")
	for _, n := range nets {
		writeNet(&buf, n, opts)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// components returns the components to draw in declaration order. When
// limited, only components touched by nets are included.
func components(res *macro.Result, nets []macro.Connection, limited bool) []macro.Component {
	if !limited {
		return res.Components
	}
	used := make(map[string]bool)
	for _, n := range nets {
		for _, t := range n.Terms {
			used[t.Instance] = true
		}
	}
	var out []macro.Component
	for _, c := range res.Components {
		if used[c.Instance] {
			out = append(out, c)
		}
	}
	return out
}

func fmtAttrs(c macro.Component) []string {
	attrs := []string{fmt.Sprintf("label=%q", c.Instance+"\n"+c.Macro)}
	if c.Status == macro.Fixed {
		attrs = append(attrs, "fillcolor=lightgrey", "style=\"filled\"")
	}
	return attrs
}

func writeNet(buf *bytes.Buffer, n macro.Connection, opts Options) {
	var drivers, sinks []macro.Term
	for _, t := range n.Terms {
		if isDriver(t.Pin) {
			drivers = append(drivers, t)
		} else {
			sinks = append(sinks, t)
		}
	}

	if len(drivers) == 1 && len(sinks) == 1 {
		attrs := []string{fmt.Sprintf("tooltip=%q", n.Net)}
		if opts.PinLabels {
			attrs = append(attrs, fmt.Sprintf("taillabel=%q", drivers[0].Pin), fmt.Sprintf("headlabel=%q", sinks[0].Pin))
		}
		fmt.Fprintf(buf, "  %q -> %q [%s];\n", drivers[0].Instance, sinks[0].Instance, strings.Join(attrs, ", "))
		return
	}

	hub := "net:" + n.Net
	fmt.Fprintf(buf, "  %q [shape=point, width=0.08, xlabel=%q];\n", hub, n.Net)
	for _, t := range drivers {
		fmt.Fprintf(buf, "  %q -> %q%s;\n", t.Instance, hub, pinLabel(t, "taillabel", opts))
	}
	for _, t := range sinks {
		fmt.Fprintf(buf, "  %q -> %q%s;\n", hub, t.Instance, pinLabel(t, "headlabel", opts))
	}
}

func pinLabel(t macro.Term, attr string, opts Options) string {
	if !opts.PinLabels {
		return ""
	}
	return fmt.Sprintf(" [%s=%q]", attr, t.Pin)
}

func isDriver(pin string) bool {
	return strings.HasPrefix(pin, "O")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

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
