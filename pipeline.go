package skinning

import "sync"

// task splits [0,size) into one contiguous chunk per worker and calls fn for every index.
// fn must only touch data owned by its index.
func task(workersCount int, size int, fn func(i int)) {
	var wg sync.WaitGroup
	chunkSize := (size + workersCount - 1) / workersCount

	for workerID := 0; workerID < workersCount; workerID++ {
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				fn(i)
			}
		}(workerID*chunkSize, min((workerID+1)*chunkSize, size))
	}
	wg.Wait()
}
