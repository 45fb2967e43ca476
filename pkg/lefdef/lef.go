package lefdef

import (
	"bytes"
	"fmt"
	"io"

	"github.com/matzehuels/shelfconv/pkg/macro"
	"github.com/matzehuels/shelfconv/pkg/netlist"
)

// WriteLEF writes lib as a LEF library to w.
func WriteLEF(w io.Writer, lib Library, opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "VERSION %s ;\n", opts.Version)
	buf.WriteString("BUSBITCHARS \"[]\" ;\n")
	buf.WriteString("DIVIDERCHAR \"/\" ;\n\n")
	fmt.Fprintf(&buf, "UNITS\n  DATABASE MICRONS %d ;\nEND UNITS\n\n", opts.DatabaseMicrons)

	fmt.Fprintf(&buf, "SITE %s\n", opts.SiteName)
	buf.WriteString("  CLASS CORE ;\n")
	fmt.Fprintf(&buf, "  SIZE %d BY %d ;\n", lib.SiteWidth, lib.RowHeight)
	fmt.Fprintf(&buf, "END %s\n\n", opts.SiteName)

	for _, m := range lib.Macros {
		writeMacro(&buf, m, opts)
	}

	buf.WriteString("END LIBRARY\n")
	_, err := buf.WriteTo(w)
	return err
}

func writeMacro(buf *bytes.Buffer, m *macro.Macro, opts Options) {
	class := "CORE"
	if m.Fixed {
		class = "BLOCK"
	}

	fmt.Fprintf(buf, "MACRO %s\n", m.Name)
	fmt.Fprintf(buf, "  CLASS %s ;\n", class)
	buf.WriteString("  ORIGIN 0 0 ;\n")
	fmt.Fprintf(buf, "  SIZE %d BY %d ;\n", m.Width, m.Height)
	fmt.Fprintf(buf, "  SITE %s ;\n", opts.SiteName)

	cx, cy := float64(m.Width)/2, float64(m.Height)/2
	for _, p := range m.Pins {
		x, y := cx+p.Offset.X, cy+p.Offset.Y
		fmt.Fprintf(buf, "  PIN %s\n", p.Name)
		fmt.Fprintf(buf, "    DIRECTION %s ;\n", direction(p.Direction))
		buf.WriteString("    PORT\n")
		fmt.Fprintf(buf, "      LAYER %s ;\n", opts.PinLayer)
		fmt.Fprintf(buf, "        RECT %s %s %s %s ;\n",
			num(x-opts.PinHalfSize), num(y-opts.PinHalfSize),
			num(x+opts.PinHalfSize), num(y+opts.PinHalfSize))
		buf.WriteString("    END\n")
		fmt.Fprintf(buf, "  END %s\n", p.Name)
	}

	fmt.Fprintf(buf, "END %s\n\n", m.Name)
}

func direction(d netlist.Direction) string {
	switch d {
	case netlist.Input:
		return "INPUT"
	case netlist.Output:
		return "OUTPUT"
	}
	return "INOUT"
}
