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
)

// FuncSimilarity computes the similarity between a pair of rating vectors.
// An undefined similarity (too few co-rated items, or zero variance over the
// co-rated set) is reported as NaN, never as zero: a zero would be an ordinary
// score that a threshold could admit.
type FuncSimilarity func(a, b map[int64]float64) float64

// PearsonSimilarity computes the Pearson correlation coefficient of two users
// over their co-rated items. Each vector is centered by its own mean over the
// co-rated set. Pairs with fewer than two co-rated items have no meaningful
// correlation and yield NaN.
func PearsonSimilarity(a, b map[int64]float64) float64 {
	// iterate over the smaller side
	if len(b) < len(a) {
		a, b = b, a
	}
	count, sumA, sumB := 0, 0.0, 0.0
	for itemId, ratingA := range a {
		if ratingB, exist := b[itemId]; exist {
			count++
			sumA += ratingA
			sumB += ratingB
		}
	}
	if count < 2 {
		return math.NaN()
	}
	meanA := sumA / float64(count)
	meanB := sumB / float64(count)
	m, n, l := .0, .0, .0
	for itemId, ratingA := range a {
		if ratingB, exist := b[itemId]; exist {
			centeredA := ratingA - meanA
			centeredB := ratingB - meanB
			m += centeredA * centeredA
			n += centeredB * centeredB
			l += centeredA * centeredB
		}
	}
	if m == 0 || n == 0 {
		// all co-rated ratings identical on one side
		return math.NaN()
	}
	return l / (math.Sqrt(m) * math.Sqrt(n))
}

// CosineSimilarity computes the cosine of two users' rating vectors over their
// co-rated items. Kept as an alternate strategy; the recommender defaults to
// Pearson.
func CosineSimilarity(a, b map[int64]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	count := 0
	m, n, l := .0, .0, .0
	for itemId, ratingA := range a {
		if ratingB, exist := b[itemId]; exist {
			count++
			m += ratingA * ratingA
			n += ratingB * ratingB
			l += ratingA * ratingB
		}
	}
	if count < 2 || m == 0 || n == 0 {
		return math.NaN()
	}
	return l / (math.Sqrt(m) * math.Sqrt(n))
}
