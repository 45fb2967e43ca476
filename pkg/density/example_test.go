package density_test

import (
	"fmt"

	"github.com/matzehuels/shelfconv/pkg/density"
	"github.com/matzehuels/shelfconv/pkg/row"
)

func ExampleBuild() {
	m := row.New(12, 1)
	m.AddRow(0, 0, 100)
	m.AddRow(12, 0, 100)

	mp, err := density.Build(m, 30)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	fmt.Printf("%dx%d bins\n", mp.XDim, mp.YDim)
	for _, b := range mp.Bins {
		fmt.Printf("[%d,%d]x[%d,%d] cap=%d\n", b.LX, b.HX, b.LY, b.HY, b.Capacity)
	}
	// Output:
	// 4x1 bins
	// [0,30]x[0,24] cap=720
	// [30,60]x[0,24] cap=720
	// [60,90]x[0,24] cap=720
	// [90,100]x[0,24] cap=240
}
