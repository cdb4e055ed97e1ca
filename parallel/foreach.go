package parallel

import "sync"

// ForEach executes a for loop with a limited number of concurrent goroutines.
// Each goroutine processes one integer, from 0 to length.
func ForEach(length, limit int, body func(i int)) {
	if limit <= 0 {
		limit = 1
	}
	if length <= 0 {
		return
	}
	if limit == 1 {
		Serial(length, body)
		return
	}

	sem := make(chan struct{}, limit)
	var wg sync.WaitGroup
	wg.Add(length)

	for i := 0; i < length; i++ {
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()

			body(i)
		}(i)
	}

	wg.Wait()
}

// For runs body for every i in [0, length) and returns when all bodies
// finished. Bodies may run concurrently, so they must only write state
// owned by iteration i.
type For func(length int, body func(i int))

// Serial is the For running every body inline, in order.
func Serial(length int, body func(i int)) {
	for i := 0; i < length; i++ {
		body(i)
	}
}

// Limit returns a For running at most limit bodies at once on goroutines.
func Limit(limit int) For {
	return func(length int, body func(i int)) {
		ForEach(length, limit, body)
	}
}

// Chunked returns a For splitting [0, length) into at most workers
// contiguous chunks, one goroutine per chunk.
func Chunked(workers int) For {
	return func(length int, body func(i int)) {
		if workers <= 1 || length <= 1 {
			Serial(length, body)
			return
		}
		chunks := workers
		if chunks > length {
			chunks = length
		}
		size := (length + chunks - 1) / chunks
		ForEach(chunks, chunks, func(c int) {
			end := (c + 1) * size
			if end > length {
				end = length
			}
			for i := c * size; i < end; i++ {
				body(i)
			}
		})
	}
}
