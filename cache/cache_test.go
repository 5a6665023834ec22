// Copyright 2026 taste Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/atomic"

	"github.com/scaledmarkets/taste/model"
)

func TestRecommendationCacheMemoize(t *testing.T) {
	var computations atomic.Int64
	c := NewRecommendationCache(time.Minute, 100, func(key Key) []model.Recommendation {
		computations.Inc()
		return []model.Recommendation{{ItemId: key.UserId, Score: 1}}
	})
	defer c.Stop()
	key := Key{UserId: 2, Threshold: 0.1, N: 1, Version: 1}
	first := c.Get(key)
	second := c.Get(key)
	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), computations.Load())
	// a different version is a different key
	c.Get(Key{UserId: 2, Threshold: 0.1, N: 1, Version: 2})
	assert.Equal(t, int64(2), computations.Load())
}

func TestRecommendationCacheSingleFlight(t *testing.T) {
	var computations atomic.Int64
	gate := make(chan struct{})
	c := NewRecommendationCache(time.Minute, 100, func(key Key) []model.Recommendation {
		computations.Inc()
		<-gate
		return nil
	})
	defer c.Stop()
	key := Key{UserId: 7, Threshold: 0.5, N: 3, Version: 1}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Get(key)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(gate)
	wg.Wait()
	assert.Equal(t, int64(1), computations.Load())
}

func TestRecommendationCachePurge(t *testing.T) {
	var computations atomic.Int64
	c := NewRecommendationCache(time.Minute, 100, func(key Key) []model.Recommendation {
		computations.Inc()
		return nil
	})
	defer c.Stop()
	key := Key{UserId: 1, Threshold: 0.1, N: 1, Version: 1}
	c.Get(key)
	assert.Equal(t, 1, c.Len())
	c.Purge()
	assert.Equal(t, 0, c.Len())
	c.Get(key)
	assert.Equal(t, int64(2), computations.Load())
}
