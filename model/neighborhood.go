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

package model

import (
	"math"
	"runtime"
	"sort"

	"github.com/scaledmarkets/taste/base"
)

// Neighbor is a member of a user's neighborhood.
type Neighbor struct {
	UserId     int64
	Similarity float64
}

// Selector picks the neighborhood of a user: the other users similar enough to
// inform its recommendations. The target user never appears in its own
// neighborhood. The neighborhood of an unknown user is empty, not an error.
type Selector interface {
	Select(store *Store, userId int64, threshold float64) []Neighbor
}

// ThresholdSelector admits every user whose similarity to the target is
// defined and not less than the caller-supplied threshold. The scan over all
// users is O(U*I), which bounds this design to datasets that fit one process.
type ThresholdSelector struct {
	Similarity FuncSimilarity
}

func NewThresholdSelector(similarity FuncSimilarity) *ThresholdSelector {
	return &ThresholdSelector{Similarity: similarity}
}

func (s *ThresholdSelector) Select(store *Store, userId int64, threshold float64) []Neighbor {
	return scan(store, s.Similarity, userId, threshold)
}

// NearestSelector admits the k most similar users whose similarity is defined
// and not less than threshold.
type NearestSelector struct {
	Similarity FuncSimilarity
	K          int
}

func NewNearestSelector(similarity FuncSimilarity, k int) *NearestSelector {
	return &NearestSelector{Similarity: similarity, K: k}
}

func (s *NearestSelector) Select(store *Store, userId int64, threshold float64) []Neighbor {
	neighbors := scan(store, s.Similarity, userId, threshold)
	sort.Slice(neighbors, func(i, j int) bool {
		if neighbors[i].Similarity != neighbors[j].Similarity {
			return neighbors[i].Similarity > neighbors[j].Similarity
		}
		return neighbors[i].UserId < neighbors[j].UserId
	})
	if s.K >= 0 && len(neighbors) > s.K {
		neighbors = neighbors[:s.K]
	}
	return neighbors
}

// scan computes the similarity between the target and every other known user
// in parallel, then keeps the defined similarities reaching the threshold.
func scan(store *Store, similarity FuncSimilarity, userId int64, threshold float64) []Neighbor {
	target := store.RatingsOf(userId)
	if len(target) == 0 {
		return nil
	}
	users := store.Users()
	similarities := make([]float64, len(users))
	_ = base.Parallel(len(users), runtime.NumCPU(), func(i int) error {
		if users[i] == userId {
			similarities[i] = math.NaN()
			return nil
		}
		similarities[i] = similarity(target, store.RatingsOf(users[i]))
		return nil
	})
	neighbors := make([]Neighbor, 0)
	for i, sim := range similarities {
		if !math.IsNaN(sim) && sim >= threshold {
			neighbors = append(neighbors, Neighbor{UserId: users[i], Similarity: sim})
		}
	}
	return neighbors
}
