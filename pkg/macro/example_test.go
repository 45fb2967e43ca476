package macro_test

import (
	"fmt"

	"github.com/matzehuels/shelfconv/pkg/macro"
	"github.com/matzehuels/shelfconv/pkg/netlist"
)

func ExampleCanonicalize() {
	d := netlist.New()
	for _, name := range []string{"u1", "u2", "u3"} {
		_ = d.AddObject(name, 4, 12, false)
		_, _ = d.AddPin(name, netlist.Input, -1, 0)
		_, _ = d.AddPin(name, netlist.Output, 1, 0)
	}
	_ = d.AddObject("pad", 10, 10, true)
	_ = d.SetLocation("pad", 0, 200, true)

	r, err := macro.Canonicalize(d)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	for _, m := range r.Macros {
		fmt.Printf("%s %dx%d instances=%d pins=%d\n", m.Name, m.Width, m.Height, m.Instances, len(m.Pins))
	}
	for _, c := range r.Components {
		fmt.Println(c.Instance, c.Macro, c.Status)
	}
	// Output:
	// Mac_0 4x12 instances=3 pins=2
	// Mac_1 10x10 instances=1 pins=0
	// u1 Mac_0 UNPLACED
	// u2 Mac_0 UNPLACED
	// u3 Mac_0 UNPLACED
	// pad Mac_1 FIXED
}
