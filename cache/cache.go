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

// Package cache memoizes recommendation lists per request key. The key
// carries the store version, so swapping in a freshly loaded store makes
// every cached entry unreachable at once; Purge then reclaims the memory of
// the stale generation.
package cache

import (
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/scaledmarkets/taste/model"
)

// Key identifies one memoized recommendation list.
type Key struct {
	UserId    int64
	Threshold float64
	N         int
	Version   int64
}

// ComputeFunc produces the recommendation list for a cache miss.
type ComputeFunc func(key Key) []model.Recommendation

// RecommendationCache computes each key at most once among concurrent
// callers: a second caller for an in-flight key waits for the first result
// instead of recomputing.
type RecommendationCache struct {
	cache  *ttlcache.Cache[Key, []model.Recommendation]
	loader ttlcache.Loader[Key, []model.Recommendation]
}

func NewRecommendationCache(ttl time.Duration, capacity uint64, compute ComputeFunc) *RecommendationCache {
	c := ttlcache.New[Key, []model.Recommendation](
		ttlcache.WithTTL[Key, []model.Recommendation](ttl),
		ttlcache.WithCapacity[Key, []model.Recommendation](capacity),
	)
	loader := ttlcache.LoaderFunc[Key, []model.Recommendation](
		func(cache *ttlcache.Cache[Key, []model.Recommendation], key Key) *ttlcache.Item[Key, []model.Recommendation] {
			return cache.Set(key, compute(key), ttlcache.DefaultTTL)
		})
	return &RecommendationCache{
		cache:  c,
		loader: ttlcache.NewSuppressedLoader(loader, nil),
	}
}

// Start runs the expiration loop until Stop.
func (c *RecommendationCache) Start() {
	c.cache.Start()
}

func (c *RecommendationCache) Stop() {
	c.cache.Stop()
}

// Get returns the cached recommendation list for the key, computing it on a
// miss.
func (c *RecommendationCache) Get(key Key) []model.Recommendation {
	item := c.cache.Get(key, ttlcache.WithLoader[Key, []model.Recommendation](c.loader))
	if item == nil {
		return nil
	}
	return item.Value()
}

// Purge drops every cached entry. Called after a store swap.
func (c *RecommendationCache) Purge() {
	c.cache.DeleteAll()
}

// Len returns the number of cached entries.
func (c *RecommendationCache) Len() int {
	return c.cache.Len()
}

// Metrics exposes hit and miss counters.
func (c *RecommendationCache) Metrics() ttlcache.Metrics {
	return c.cache.Metrics()
}
