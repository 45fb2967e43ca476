// Package pkg provides the libraries behind shelfconv, a converter from
// Bookshelf placement benchmarks to LEF/DEF.
//
// # Overview
//
// The packages split into the conversion core and the plumbing around it:
//
//  1. [row], [density], [netlist], [macro] - the data model and algorithms
//  2. [bookshelf] - readers for .aux, .scl, .nodes, .pl and .nets files
//  3. [lefdef] - LEF library and DEF design writers
//  4. [pipeline] - load, convert and render with caching
//  5. [cache], [config], [errors], [observability] - shared infrastructure
//
// # Data Flow
//
//	.aux manifest
//	     ↓
//	[bookshelf] readers → [row.Model] + [netlist.Design]
//	     ↓
//	[macro.Canonicalize] → macros, components, resolved nets
//	     ↓                       ↘
//	[lefdef] writers          [density.Analyze] (optional)
//	     ↓
//	<name>.lef, <name>.def
//
// # Quick Start
//
//	runner := pipeline.NewRunner(nil, nil, logger)
//	res, err := runner.Execute(ctx, pipeline.Options{AuxPath: "ibm01/ibm01.aux"})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("ibm01.def", res.Artifacts["def"], 0o644)
package pkg
