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
	"go.uber.org/atomic"
)

// Snapshot is one published generation of the preference store. The version
// distinguishes cache entries computed against different generations.
type Snapshot struct {
	Store   *Store
	Version int64
}

// Handle is the process-wide pointer to the serving snapshot. Loads build a
// complete store first and swap it in atomically, so a reader never observes
// a partially populated store.
type Handle struct {
	snapshot atomic.Pointer[Snapshot]
	version  atomic.Int64
}

func NewHandle() *Handle {
	return &Handle{}
}

// Load returns the current snapshot, or nil if nothing has been published yet.
func (h *Handle) Load() *Snapshot {
	return h.snapshot.Load()
}

// Swap publishes a new store and returns its snapshot. The previous snapshot
// keeps serving requests that already hold it.
func (h *Handle) Swap(store *Store) *Snapshot {
	snapshot := &Snapshot{Store: store, Version: h.version.Inc()}
	h.snapshot.Store(snapshot)
	return snapshot
}
