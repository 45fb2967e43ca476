package pipeline

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/shelfconv/pkg/config"
	"github.com/matzehuels/shelfconv/pkg/lefdef"
	"github.com/matzehuels/shelfconv/pkg/render/netgraph"
)

// Render generates output artifacts in the requested formats.
func Render(res *Result, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	name := designName(res, opts)
	artifacts := make(map[string][]byte, len(opts.Formats))
	var dot string

	for _, format := range opts.Formats {
		var (
			data []byte
			err  error
		)

		switch format {
		case config.FormatLEF:
			var buf bytes.Buffer
			err = lefdef.WriteLEF(&buf, lefdef.NewLibrary(res.Library, res.Design.Rows), opts.LEF)
			data = buf.Bytes()
		case config.FormatDEF:
			var buf bytes.Buffer
			err = lefdef.WriteDEF(&buf, lefdef.NewDesign(name, res.Library, res.Design.Rows), opts.LEF)
			data = buf.Bytes()
		case config.FormatJSON:
			data, err = MarshalReport(res, name)
		case config.FormatDOT, config.FormatSVG:
			if dot == "" {
				dot = netgraph.ToDOT(res.Library, netgraph.Options{MaxNets: GraphNetLimit(opts.GraphNets)})
			}
			if format == config.FormatDOT {
				data = []byte(dot)
			} else {
				data, err = netgraph.RenderSVG(dot)
			}
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// OutputName returns the file name for a rendered format, e.g. "ibm01.lef"
// or "ibm01.report.json".
func OutputName(design, format string) string {
	if format == config.FormatJSON {
		return design + ".report.json"
	}
	return design + "." + format
}

func designName(res *Result, opts Options) string {
	if opts.DesignName != "" {
		return opts.DesignName
	}
	return res.Design.Name
}
