package calc

import (
	"sync"

	"github.com/KyungWonPark/NeuroTools/internal/volume"
	"github.com/gonum/stat"
)

func binarize(v *volume.Volume, thr float64, order <-chan int, wg *sync.WaitGroup) {
	sliceLen := v.SliceLen()

	for {
		z, ok := <-order
		if ok {
			for i := z * sliceLen; i < (z+1)*sliceLen; i++ {
				if v.Data[i] > thr {
					v.Data[i] = 1
				} else {
					v.Data[i] = 0
				}
			}

			wg.Done()
		} else {
			break
		}
	}

	return
}

// Binarize sets voxels above thr to 1 and all others to 0, in place
func (p *PipeLine) Binarize(v *volume.Volume, thr float64) {
	p.dispatch(v.Nz, func(order <-chan int, wg *sync.WaitGroup) {
		binarize(v, thr, order, wg)
	})
	return
}

// PositiveMean returns the mean of the strictly positive voxels, ok is false if there are none
func PositiveMean(v *volume.Volume) (float64, bool) {
	pos := v.Positive()
	if len(pos) == 0 {
		return 0, false
	}

	return stat.Mean(pos, nil), true
}
