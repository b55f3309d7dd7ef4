package helpers

import (
	"fmt"
	"sync"
	"sync/atomic"
)

type PoolStats struct {
	creates int64
	resets  int64
	hits    int64
}

func (s PoolStats) String() string {
	return fmt.Sprint("creates: ", s.creates, ", resets: ", s.resets, ", hits: ", s.hits)
}

// CreatePool returns get/release functions over a bounded ring of reusable
// values. Released values beyond the ring capacity are dropped.
func CreatePool[T any](create func() T, reset func(*T)) (func() *T, func(*T), func() PoolStats) {
	const capacity = 256

	availableBuffer := [capacity]*T{}
	startIndex := 0
	numAvailable := 0

	lock := sync.Mutex{}

	var creates, resets, hits atomic.Int64

	var get = func() *T {
		lock.Lock()

		if numAvailable > 0 {
			result := availableBuffer[startIndex]
			availableBuffer[startIndex] = nil
			startIndex = (startIndex + 1) % capacity
			numAvailable--

			lock.Unlock()

			hits.Add(1)
			return result
		}

		lock.Unlock()

		creates.Add(1)
		result := create()
		return &result
	}

	var release = func(t *T) {
		resets.Add(1)
		reset(t)

		lock.Lock()
		defer lock.Unlock()
		if numAvailable == capacity {
			return
		}
		availableBuffer[(startIndex+numAvailable)%capacity] = t
		numAvailable++
	}

	var stats = func() PoolStats {
		return PoolStats{creates.Load(), resets.Load(), hits.Load()}
	}

	return get, release, stats
}
