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
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
)

// Rating is a preference expressed by a user for an item.
type Rating struct {
	UserId int64
	ItemId int64
	Value  float64
}

// Store is an immutable sparse matrix of ratings. Both the user view
// (user -> item -> rating) and the item view (item -> users) are kept so that
// candidate discovery doesn't scan the whole matrix. A store is never mutated
// after NewStore returns, so concurrent reads need no synchronization.
type Store struct {
	userRatings map[int64]map[int64]float64
	itemUsers   map[int64]mapset.Set[int64]
	userMeans   map[int64]float64
	users       []int64
}

// NewStore builds a store from raw ratings. A rating inserted twice for the
// same (user, item) pair overwrites the previous value.
func NewStore(ratings []Rating) *Store {
	s := &Store{
		userRatings: make(map[int64]map[int64]float64),
		itemUsers:   make(map[int64]mapset.Set[int64]),
		userMeans:   make(map[int64]float64),
	}
	for _, r := range ratings {
		items, exist := s.userRatings[r.UserId]
		if !exist {
			items = make(map[int64]float64)
			s.userRatings[r.UserId] = items
		}
		items[r.ItemId] = r.Value
		users, exist := s.itemUsers[r.ItemId]
		if !exist {
			users = mapset.NewThreadUnsafeSet[int64]()
			s.itemUsers[r.ItemId] = users
		}
		users.Add(r.UserId)
	}
	s.users = make([]int64, 0, len(s.userRatings))
	for userId, items := range s.userRatings {
		s.users = append(s.users, userId)
		sum := 0.0
		for _, value := range items {
			sum += value
		}
		s.userMeans[userId] = sum / float64(len(items))
	}
	sort.Slice(s.users, func(i, j int) bool { return s.users[i] < s.users[j] })
	return s
}

// RatingsOf returns all item ratings of a user. The returned map is empty but
// non-nil for an unknown user and must not be modified.
func (s *Store) RatingsOf(userId int64) map[int64]float64 {
	if ratings, exist := s.userRatings[userId]; exist {
		return ratings
	}
	return emptyRatings
}

var emptyRatings = map[int64]float64{}

// UsersWhoRated returns the set of users that rated an item. The returned set
// is empty for an unknown item and must not be modified.
func (s *Store) UsersWhoRated(itemId int64) mapset.Set[int64] {
	if users, exist := s.itemUsers[itemId]; exist {
		return users
	}
	return mapset.NewThreadUnsafeSet[int64]()
}

// Users returns all known user ids in ascending order. The returned slice is
// shared and must not be modified.
func (s *Store) Users() []int64 {
	return s.users
}

// Mean returns the mean rating of a user, or zero for an unknown user.
func (s *Store) Mean(userId int64) float64 {
	return s.userMeans[userId]
}

// NumUsers returns the number of known users.
func (s *Store) NumUsers() int {
	return len(s.users)
}

// NumItems returns the number of known items.
func (s *Store) NumItems() int {
	return len(s.itemUsers)
}

// NumRatings returns the total number of ratings.
func (s *Store) NumRatings() int {
	count := 0
	for _, items := range s.userRatings {
		count += len(items)
	}
	return count
}
