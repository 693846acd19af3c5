package effectchain

import "github.com/cwbudde/algo-rtdsp/dsp/core"

// Process runs n samples of x through every active node into y. Missing or
// nil input channels are silence; any y[ch] may be nil. Process does not
// allocate.
func (c *Chain) Process(x, y [][]float32, n int) {
	for off := 0; off < n; off += c.cfg.BlockSize {
		m := min(c.cfg.BlockSize, n-off)
		c.processBlock(x, y, off, m)
	}
}

func (c *Chain) processBlock(x, y [][]float32, off, m int) {
	cur, next := c.viewA, c.viewB
	for ch := range cur {
		cur[ch] = c.bufA[ch][:m]
		next[ch] = c.bufB[ch][:m]

		if ch < len(x) && x[ch] != nil {
			copy(cur[ch], x[ch][off:off+m])
		} else {
			core.Zero(cur[ch])
		}
	}

	for _, nd := range c.nodes {
		if nd.bypassed {
			continue
		}

		nd.unit.Process(cur, next, m)
		cur, next = next, cur
	}

	for ch := range cur {
		if ch < len(y) && y[ch] != nil {
			copy(y[ch][off:off+m], cur[ch])
		}
	}
}
