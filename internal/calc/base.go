package calc

import (
	"runtime"
	"sync"
)

// PipeLine represents a compute pipeline.
// Volume operations are split into z-slices which are handed to numPoper workers.
type PipeLine struct {
	numPoper int
	debug    bool
}

// Init returns a compute PipeLine, numWorkers < 1 means one worker per CPU
func Init(numWorkers int, debug bool) *PipeLine {
	if numWorkers < 1 {
		numWorkers = runtime.NumCPU()
	}

	return &PipeLine{
		numPoper: numWorkers,
		debug:    debug,
	}
}

// GetNP returns the number of workers
func (p *PipeLine) GetNP() int {
	return p.numPoper
}

/*
	Workflow:

	dispatch starts numPoper workers, feeds job indices 0..jobs-1 into order
	and returns once every job has called wg.Done
*/
func (p *PipeLine) dispatch(jobs int, worker func(order <-chan int, wg *sync.WaitGroup)) {
	order := make(chan int, p.numPoper)
	var wg sync.WaitGroup

	wg.Add(jobs)

	for i := 0; i < p.numPoper; i++ {
		go worker(order, &wg)
	}

	for i := 0; i < jobs; i++ {
		order <- i
	}

	wg.Wait()
	close(order)
	return
}
