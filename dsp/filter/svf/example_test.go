package svf_test

import (
	"fmt"

	"github.com/cwbudde/algo-rtdsp/dsp/filter/svf"
)

func ExampleFilter() {
	f, err := svf.New(1)
	if err != nil {
		fmt.Println("error")
		return
	}
	if err := f.SetSampleRate(48000); err != nil {
		fmt.Println("error")
		return
	}
	f.SetCutoff(1000)
	f.SetQ(0.707)
	f.Reset(0)

	x := make([]float32, 4800)
	for i := range x {
		x[i] = 1
	}
	lp := [][]float32{make([]float32, len(x))}
	f.Process([][]float32{x}, lp, nil, nil, len(x))

	fmt.Printf("settled=%.3f\n", lp[0][len(x)-1])

	// Output:
	// settled=1.000
}
