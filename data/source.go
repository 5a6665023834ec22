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

// Package data loads (user, item, rating) triples from external sources and
// builds preference stores from them. A load either succeeds completely or
// fails without publishing anything: a malformed row aborts the whole load
// with a not-valid error, an unreachable source with a not-found error.
package data

import (
	"context"
	"time"

	"github.com/juju/errors"
	"go.uber.org/zap"

	"github.com/scaledmarkets/taste/base/log"
	"github.com/scaledmarkets/taste/model"
)

// Source yields all ratings of an external tabular source. Ordering is not
// required and duplicated (user, item) pairs overwrite in input order.
type Source interface {
	// Read iterates the source once, passing each rating to the handler. A
	// handler error aborts the iteration.
	Read(ctx context.Context, handler func(rating model.Rating) error) error
	// Name describes the source for logs, with credentials redacted.
	Name() string
}

// Load reads a source to the end and builds an immutable store. No partial
// store escapes: on any error the returned store is nil.
func Load(ctx context.Context, source Source) (*model.Store, error) {
	start := time.Now()
	ratings := make([]model.Rating, 0)
	if err := source.Read(ctx, func(rating model.Rating) error {
		ratings = append(ratings, rating)
		return nil
	}); err != nil {
		return nil, errors.Trace(err)
	}
	store := model.NewStore(ratings)
	log.Logger().Info("dataset loaded",
		zap.String("source", source.Name()),
		zap.Int("num_users", store.NumUsers()),
		zap.Int("num_items", store.NumItems()),
		zap.Int("num_ratings", store.NumRatings()),
		zap.Duration("elapsed", time.Since(start)))
	return store, nil
}
