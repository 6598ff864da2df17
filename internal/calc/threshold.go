package calc

import (
	"sync"

	"github.com/KyungWonPark/NeuroTools/internal/volume"
)

func partition(input, low, high *volume.Volume, thr float64, order <-chan int, wg *sync.WaitGroup) {
	sliceLen := input.SliceLen()

	for {
		z, ok := <-order
		if ok {
			for i := z * sliceLen; i < (z+1)*sliceLen; i++ {
				value := input.Data[i]
				if value > thr {
					high.Data[i] = value
					low.Data[i] = 0
				} else {
					low.Data[i] = value
					high.Data[i] = 0
				}
			}

			wg.Done()
		} else {
			break
		}
	}

	return
}

// Partition splits input at thr: low keeps voxels <= thr, high keeps voxels > thr.
// Voxels failing the predicate are zeroed, both outputs share the input shape and header.
func (p *PipeLine) Partition(input *volume.Volume, thr float64) (*volume.Volume, *volume.Volume) {
	low := input.Like()
	high := input.Like()

	p.dispatch(input.Nz, func(order <-chan int, wg *sync.WaitGroup) {
		partition(input, low, high, thr, order, wg)
	})

	return low, high
}
