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
	"testing"

	"github.com/stretchr/testify/assert"
)

// fourUsers is a small dataset of four users with varied preferences over
// nine items.
func fourUsers() []Rating {
	return []Rating{
		{1, 10, 1.0}, {1, 11, 2.0}, {1, 12, 5.0}, {1, 13, 5.0}, {1, 14, 5.0},
		{1, 15, 4.0}, {1, 16, 5.0}, {1, 17, 1.0}, {1, 18, 5.0},
		{2, 10, 1.0}, {2, 11, 2.0}, {2, 15, 5.0}, {2, 16, 4.5}, {2, 17, 1.0}, {2, 18, 5.0},
		{3, 11, 2.5}, {3, 12, 4.5}, {3, 13, 4.0}, {3, 14, 3.0}, {3, 15, 3.5},
		{3, 16, 4.5}, {3, 17, 4.0}, {3, 18, 5.0},
		{4, 10, 5.0}, {4, 11, 5.0}, {4, 12, 5.0}, {4, 13, 0.0}, {4, 14, 2.0},
		{4, 15, 3.0}, {4, 16, 1.0}, {4, 17, 4.0}, {4, 18, 1.0},
	}
}

// tenIdenticalUsers is the degenerate dataset: every user rates the same four
// items with the same values, so no pair has rating variance.
func tenIdenticalUsers() []Rating {
	ratings := make([]Rating, 0, 40)
	for userId := int64(1); userId <= 10; userId++ {
		ratings = append(ratings,
			Rating{userId, 100, 3.5},
			Rating{userId, 101, 2.8},
			Rating{userId, 105, 1.1},
			Rating{userId, 115, 3.4})
	}
	return ratings
}

func TestNewStore(t *testing.T) {
	store := NewStore(fourUsers())
	assert.Equal(t, 4, store.NumUsers())
	assert.Equal(t, 9, store.NumItems())
	assert.Equal(t, 32, store.NumRatings())
	assert.Equal(t, []int64{1, 2, 3, 4}, store.Users())
	assert.Equal(t, 5.0, store.RatingsOf(1)[12])
	assert.InDelta(t, 3.0833, store.Mean(2), 1e-4)
}

func TestStoreUnknownUser(t *testing.T) {
	store := NewStore(fourUsers())
	assert.Empty(t, store.RatingsOf(42))
	assert.NotNil(t, store.RatingsOf(42))
}

func TestStoreUnknownItem(t *testing.T) {
	store := NewStore(fourUsers())
	assert.Equal(t, 0, store.UsersWhoRated(999).Cardinality())
}

func TestStoreUsersWhoRated(t *testing.T) {
	store := NewStore(fourUsers())
	users := store.UsersWhoRated(12)
	assert.Equal(t, 3, users.Cardinality())
	assert.True(t, users.Contains(1))
	assert.True(t, users.Contains(3))
	assert.True(t, users.Contains(4))
	assert.False(t, users.Contains(2))
}

func TestStoreOverwrite(t *testing.T) {
	store := NewStore([]Rating{{1, 10, 1.0}, {1, 10, 4.0}, {1, 11, 2.0}})
	assert.Equal(t, 2, store.NumRatings())
	assert.Equal(t, 4.0, store.RatingsOf(1)[10])
}
