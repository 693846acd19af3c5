package gain_test

import (
	"fmt"

	"github.com/cwbudde/algo-rtdsp/dsp/gain"
)

func ExampleDryWet() {
	d, err := gain.NewDryWet(1)
	if err != nil {
		panic(err)
	}
	if err := d.SetSampleRate(48000); err != nil {
		panic(err)
	}
	d.SetWet(0.5)
	d.Reset()

	dry := [][]float32{{1, 1}}
	wet := [][]float32{{0, 0.5}}
	y := [][]float32{make([]float32, 2)}
	d.Process(dry, wet, y, 2)
	fmt.Println(y[0])

	// Output:
	// [0.5 0.75]
}
