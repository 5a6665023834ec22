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

package data

import (
	"context"

	"github.com/juju/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"github.com/scaledmarkets/taste/base/log"
	"github.com/scaledmarkets/taste/model"
)

// MongoSource reads ratings from a MongoDB collection of documents carrying
// the same three fields as the relational layout.
type MongoSource struct {
	URL         string
	Collection  string
	UserField   string
	ItemField   string
	RatingField string
}

func NewMongoSource(url, collection, userField, itemField, ratingField string) *MongoSource {
	if collection == "" {
		collection = "preferences"
	}
	if userField == "" {
		userField = "UserID"
	}
	if itemField == "" {
		itemField = "ItemID"
	}
	if ratingField == "" {
		ratingField = "Preference"
	}
	return &MongoSource{
		URL:         url,
		Collection:  collection,
		UserField:   userField,
		ItemField:   itemField,
		RatingField: ratingField,
	}
}

func (s *MongoSource) Name() string {
	return log.RedactSourceURL(s.URL)
}

func (s *MongoSource) Read(ctx context.Context, handler func(rating model.Rating) error) error {
	cs, err := connstring.ParseAndValidate(s.URL)
	if err != nil {
		return errors.NewNotValid(err, "parse mongodb url")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(s.URL))
	if err != nil {
		return errors.NewNotFound(err, "connect mongodb")
	}
	defer func() {
		_ = client.Disconnect(ctx)
	}()
	collection := client.Database(cs.Database).Collection(s.Collection)
	cursor, err := collection.Find(ctx, bson.M{})
	if err != nil {
		return errors.NewNotFound(err, "query mongodb")
	}
	defer cursor.Close(ctx)
	for cursor.Next(ctx) {
		var document bson.M
		if err = cursor.Decode(&document); err != nil {
			return errors.NewNotValid(err, "decode rating document")
		}
		rating, err := s.parseDocument(document)
		if err != nil {
			return errors.Trace(err)
		}
		if err = handler(rating); err != nil {
			return errors.Trace(err)
		}
	}
	return errors.Trace(cursor.Err())
}

func (s *MongoSource) parseDocument(document bson.M) (model.Rating, error) {
	userId, ok := asInt64(document[s.UserField])
	if !ok {
		return model.Rating{}, errors.NotValidf("field %s in %v", s.UserField, document)
	}
	itemId, ok := asInt64(document[s.ItemField])
	if !ok {
		return model.Rating{}, errors.NotValidf("field %s in %v", s.ItemField, document)
	}
	value, ok := asFloat64(document[s.RatingField])
	if !ok {
		return model.Rating{}, errors.NotValidf("field %s in %v", s.RatingField, document)
	}
	return model.Rating{UserId: userId, ItemId: itemId, Value: value}, nil
}

func asInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}

func asFloat64(value any) (float64, bool) {
	switch v := value.(type) {
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}
