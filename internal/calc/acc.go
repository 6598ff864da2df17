package calc

import (
	"fmt"
	"sync"

	"github.com/KyungWonPark/NeuroTools/internal/volume"
)

func acc(input, output *volume.Volume, overlaps []int, order <-chan int, wg *sync.WaitGroup) {
	sliceLen := input.SliceLen()

	for {
		z, ok := <-order
		if ok {
			for i := z * sliceLen; i < (z+1)*sliceLen; i++ {
				if input.Data[i] == 0 {
					continue
				}
				if output.Data[i] != 0 {
					overlaps[z]++
				}
				output.Data[i] = 1
			}

			wg.Done()
		} else {
			break
		}
	}

	return
}

// Acc accumulates the nonzero voxels of input into output as 1s and returns how many of
// them were already set in output
func (p *PipeLine) Acc(input, output *volume.Volume) (int, error) {
	if !input.SameShape(output) {
		return 0, fmt.Errorf("Acc: input %s, output %s: %w", input, output, ErrShapeMismatch)
	}

	overlaps := make([]int, input.Nz)
	p.dispatch(input.Nz, func(order <-chan int, wg *sync.WaitGroup) {
		acc(input, output, overlaps, order, wg)
	})

	var total int
	for _, n := range overlaps {
		total += n
	}

	return total, nil
}
