package spectrum_test

import (
	"fmt"

	"github.com/cwbudde/algo-arpes/arpes/spectrum"
)

func ExampleNew() {
	s, err := spectrum.New("cut", []float64{1, 2, 3, 4, 5, 6}, []int{3, 2},
		spectrum.WithScale(spectrum.X, []float64{-5, 0, 5}),
		spectrum.WithEnergyAxis(spectrum.Y),
	)
	if err != nil {
		panic(err)
	}

	fmt.Println(s.At(2, 1))
	fmt.Println(s.Axes[spectrum.X].Min, s.Axes[spectrum.X].Max, s.Axes[spectrum.X].Step)
	dim, _ := s.Property.Get("Dimension")
	fmt.Println(dim)

	// Output:
	// 6
	// -5 5 5
	// (3, 2)
}

func ExampleParseProperty() {
	p, err := spectrum.ParseProperty(`{"Path":"C:\\scans\\a.pxt","spacemode":"Angular"}`)
	if err != nil {
		panic(err)
	}
	path, _ := p.Get("Path")
	fmt.Println(path)
	fmt.Println(p)

	// Output:
	// C:\scans\a.pxt
	// {"Path":"C:\\scans\\a.pxt","spacemode":"Angular"}
}
