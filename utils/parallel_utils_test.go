package utils

import (
	"math"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartitionMap(t *testing.T) {
	getHisto := func(K, Np int) (histo map[int]int) {
		pm := NewPartitionMap(Np, K)
		histo = make(map[int]int)
		for np := 0; np < pm.ParallelDegree; np++ {
			histo[pm.GetBucketDimension(np)]++
		}
		return
	}
	getTotal := func(histo map[int]int) (total int) {
		for key, count := range histo {
			total += key * count
		}
		return
	}
	assert.Equal(t, map[int]int{0: 30, 1: 2}, getHisto(2, 32))
	assert.Equal(t, map[int]int{1: 32}, getHisto(32, 32))
	assert.Equal(t, map[int]int{8: 32}, getHisto(256, 32))
	assert.Equal(t, map[int]int{8: 1, 9: 31}, getHisto(287, 32))
	assert.Equal(t, 287, getTotal(getHisto(287, 32)))
	for n := 64; n < 2000; n++ {
		var (
			keys   [2]float64
			keyNum int
		)
		histo := getHisto(n, 32)
		for key := range histo {
			keys[keyNum] = float64(key)
			keyNum++
		}
		if keyNum == 2 {
			assert.Equal(t, 1., math.Abs(keys[0]-keys[1])) // Maximum imbalance of 1
		}
		assert.Equal(t, n, getTotal(histo))
	}
	// Find the bucket containing an index in at most one extra probe
	for maxIndex := 10; maxIndex < 500; maxIndex++ {
		pm := NewPartitionMap(5, maxIndex)
		for k := 0; k < maxIndex; k++ {
			tryCount, bn, min, max := pm.getBucketWithTryCount(k)
			mmin, mmax := pm.GetBucketRange(bn)
			assert.True(t, k >= min && k < max && min == mmin && max == mmax && tryCount <= 1)
		}
	}
}

func TestParallelDegree(t *testing.T) {
	assert.Equal(t, 4, ParallelDegree(4, 27))
	assert.Equal(t, 27, ParallelDegree(64, 27))
	assert.Equal(t, 1, ParallelDegree(0, 1))
	assert.Equal(t, 1, ParallelDegree(3, 0))
	np := runtime.NumCPU()
	if np > 1000 {
		np = 1000
	}
	assert.Equal(t, np, ParallelDegree(0, 1000))
}
