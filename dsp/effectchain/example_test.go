package effectchain_test

import (
	"fmt"

	"github.com/cwbudde/algo-rtdsp/dsp/core"
	"github.com/cwbudde/algo-rtdsp/dsp/effectchain"
)

func ExampleChain_LoadYAML() {
	c, err := effectchain.New(nil, core.WithSampleRate(1000))
	if err != nil {
		panic(err)
	}

	err = c.LoadYAML([]byte(`
nodes:
  - id: pre
    type: delay
    params:
      delay: 0.002
  - id: tone
    type: lp1
    bypassed: true
`))
	if err != nil {
		panic(err)
	}

	y := make([]float32, 5)
	c.Process([][]float32{{1, 0, 0, 0, 0}}, [][]float32{y}, 5)

	fmt.Println(c.IDs(), y)
	// Output: [pre tone] [0 0 1 0 0]
}
