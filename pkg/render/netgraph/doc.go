// Package netgraph renders a converted netlist as a Graphviz diagram.
//
// # Overview
//
// Components become boxes labeled with their instance and macro names;
// fixed components are shaded. Each net is drawn from its driving pins
// (macro pins named O<k>) to its sinks (I<k>). Two-pin nets with a single
// driver become a direct edge; every other net gets a small hub node so
// multi-fanout nets stay readable.
//
// # Usage
//
//	dot := netgraph.ToDOT(res, netgraph.Options{MaxNets: 200})
//	svg, err := netgraph.RenderSVG(dot)
//
// Benchmarks routinely contain hundreds of thousands of nets, which no
// layout engine renders usefully. [Options.MaxNets] limits the diagram to
// the first nets in declaration order and the components they touch.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package netgraph
