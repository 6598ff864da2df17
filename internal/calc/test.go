package calc

import (
	"sync"

	"github.com/KyungWonPark/NeuroTools/internal/volume"
)

// CheckPartition checks that every positive voxel of input ends up in exactly one of low
// and high, unchanged, and that nothing else is nonzero
func (p *PipeLine) CheckPartition(input, low, high *volume.Volume) bool {
	if !input.SameShape(low) || !input.SameShape(high) {
		return false
	}

	isSliceOK := make([]bool, input.Nz)
	p.dispatch(input.Nz, func(order <-chan int, wg *sync.WaitGroup) {
		partitionCheck(input, low, high, isSliceOK, order, wg)
	})

	ok := true
	for z := 0; z < input.Nz; z++ {
		ok = ok && isSliceOK[z]
	}

	return ok
}

func partitionCheck(input, low, high *volume.Volume, isSliceOK []bool, order <-chan int, wg *sync.WaitGroup) {
	sliceLen := input.SliceLen()

	for {
		z, ok := <-order
		if ok {
			isSliceOK[z] = true
			for i := z * sliceLen; i < (z+1)*sliceLen; i++ {
				l, h := low.Data[i], high.Data[i]
				var good bool
				switch {
				case input.Data[i] > 0:
					good = (l == input.Data[i]) != (h == input.Data[i]) && (l == 0 || h == 0)
				default:
					good = (l == 0 || l == input.Data[i]) && h == 0
				}

				if !good {
					isSliceOK[z] = false
					break
				}
			}

			wg.Done()
		} else {
			break
		}
	}

	return
}

// CheckBinary checks whether every voxel is 0 or 1
func CheckBinary(v *volume.Volume) bool {
	for _, value := range v.Data {
		if value != 0 && value != 1 {
			return false
		}
	}

	return true
}

// CheckThreshold checks that the threshold of res is one of its histogram edges
func CheckThreshold(res Result) bool {
	if res.Index < 0 || res.Index >= len(res.Histogram.Edges) {
		return false
	}

	return res.Histogram.Edges[res.Index] == res.Threshold
}
