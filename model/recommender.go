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
	"sort"

	"github.com/samber/lo"
)

// Recommendation is a candidate item with its predicted preference.
type Recommendation struct {
	ItemId int64   `json:"ItemId"`
	Score  float64 `json:"Score"`
}

// Recommender produces ranked recommendations from a user's neighborhood.
type Recommender struct {
	selector Selector
}

func NewRecommender(selector Selector) *Recommender {
	return &Recommender{selector: selector}
}

// Selector returns the neighborhood strategy of the recommender.
func (r *Recommender) Selector() Selector {
	return r.selector
}

// Recommend returns at most n items the user has not rated, ranked by the
// similarity-weighted average of the neighbors' ratings. An unknown user, an
// empty neighborhood or n = 0 all yield an empty result; "nothing to
// recommend" is a normal outcome, not a failure.
func (r *Recommender) Recommend(store *Store, userId int64, threshold float64, n int) []Recommendation {
	if n <= 0 {
		return nil
	}
	neighborhood := r.selector.Select(store, userId, threshold)
	if len(neighborhood) == 0 {
		return nil
	}
	rated := store.RatingsOf(userId)
	// weighted sums over candidate items rated by any neighbor
	numerators := make(map[int64]float64)
	denominators := make(map[int64]float64)
	for _, neighbor := range neighborhood {
		for itemId, rating := range store.RatingsOf(neighbor.UserId) {
			if _, alreadyRated := rated[itemId]; alreadyRated {
				continue
			}
			numerators[itemId] += neighbor.Similarity * rating
			denominators[itemId] += math.Abs(neighbor.Similarity)
		}
	}
	recommendations := make([]Recommendation, 0, len(numerators))
	for _, itemId := range lo.Keys(numerators) {
		if denominators[itemId] == 0 {
			// zero total weight would predict NaN
			continue
		}
		recommendations = append(recommendations, Recommendation{
			ItemId: itemId,
			Score:  numerators[itemId] / denominators[itemId],
		})
	}
	sort.Slice(recommendations, func(i, j int) bool {
		if recommendations[i].Score != recommendations[j].Score {
			return recommendations[i].Score > recommendations[j].Score
		}
		return recommendations[i].ItemId < recommendations[j].ItemId
	})
	if len(recommendations) > n {
		recommendations = recommendations[:n]
	}
	return recommendations
}
