package lefdef

import (
	"bytes"
	"fmt"
	"io"

	"github.com/matzehuels/shelfconv/pkg/errors"
	"github.com/matzehuels/shelfconv/pkg/macro"
)

// WriteDEF writes d as a DEF design to w. Rows are emitted in model order,
// components and nets in declaration order.
func WriteDEF(w io.Writer, d Design, opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	if err := errors.ValidateName(d.Name); err != nil {
		return fmt.Errorf("design name: %w", err)
	}
	if d.Rows == nil || d.Rows.Empty() {
		return errors.New(errors.ErrCodeInvalidInput, "design %s has no rows", d.Name)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "VERSION %s ;\n", opts.Version)
	buf.WriteString("DIVIDERCHAR \"/\" ;\n")
	buf.WriteString("BUSBITCHARS \"[]\" ;\n")
	fmt.Fprintf(&buf, "DESIGN %s ;\n", d.Name)
	fmt.Fprintf(&buf, "UNITS DISTANCE MICRONS %d ;\n\n", opts.DatabaseMicrons)

	r := d.Rows.Region()
	fmt.Fprintf(&buf, "DIEAREA ( %d %d ) ( %d %d ) ;\n\n", r.LX, r.LY, r.HX, r.HY)

	sw := d.Rows.SiteWidth
	for i, row := range d.Rows.Rows {
		fmt.Fprintf(&buf, "ROW ROW_%d %s %d %d N DO %d BY 1 STEP %d 0 ;\n",
			i, opts.SiteName, row.XStart, row.Y, row.NumSites(sw), sw)
	}
	buf.WriteString("\n")

	fmt.Fprintf(&buf, "COMPONENTS %d ;\n", len(d.Components))
	for _, c := range d.Components {
		writeComponent(&buf, c)
	}
	buf.WriteString("END COMPONENTS\n\n")

	fmt.Fprintf(&buf, "NETS %d ;\n", len(d.Nets))
	for _, n := range d.Nets {
		fmt.Fprintf(&buf, "- %s", n.Net)
		for _, t := range n.Terms {
			fmt.Fprintf(&buf, " ( %s %s )", t.Instance, t.Pin)
		}
		buf.WriteString(" ;\n")
	}
	buf.WriteString("END NETS\n\n")

	buf.WriteString("END DESIGN\n")
	_, err := buf.WriteTo(w)
	return err
}

func writeComponent(buf *bytes.Buffer, c macro.Component) {
	fmt.Fprintf(buf, "- %s %s + ", c.Instance, c.Macro)
	if c.Status == macro.Fixed {
		fmt.Fprintf(buf, "FIXED ( %d %d ) N ;\n", c.X, c.Y)
		return
	}
	buf.WriteString("UNPLACED ;\n")
}
