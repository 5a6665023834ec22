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
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"github.com/juju/errors"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/scaledmarkets/taste/base/log"
	"github.com/scaledmarkets/taste/model"
)

const (
	MySQLPrefix    = "mysql://"
	PostgresPrefix = "postgres://"
	SQLitePrefix   = "sqlite://"
)

// SQLSource reads ratings from a relational table. Table and column names
// default to the `UserID`, `ItemID`, `Preference` layout.
type SQLSource struct {
	URL        string
	Table      string
	UserCol    string
	ItemCol    string
	RatingCol  string
	driverName string
	dataSource string
}

func NewSQLSource(url, table, userCol, itemCol, ratingCol string) (*SQLSource, error) {
	s := &SQLSource{
		URL:       url,
		Table:     table,
		UserCol:   userCol,
		ItemCol:   itemCol,
		RatingCol: ratingCol,
	}
	if s.Table == "" {
		s.Table = "preferences"
	}
	if s.UserCol == "" {
		s.UserCol = "UserID"
	}
	if s.ItemCol == "" {
		s.ItemCol = "ItemID"
	}
	if s.RatingCol == "" {
		s.RatingCol = "Preference"
	}
	switch {
	case strings.HasPrefix(url, MySQLPrefix):
		s.driverName = "mysql"
		s.dataSource = url[len(MySQLPrefix):]
	case strings.HasPrefix(url, PostgresPrefix):
		s.driverName = "postgres"
		s.dataSource = url
	case strings.HasPrefix(url, SQLitePrefix):
		s.driverName = "sqlite"
		s.dataSource = url[len(SQLitePrefix):]
	default:
		return nil, errors.NotSupportedf("database url %s", log.RedactSourceURL(url))
	}
	return s, nil
}

func (s *SQLSource) Name() string {
	return log.RedactSourceURL(s.URL)
}

func (s *SQLSource) Read(ctx context.Context, handler func(rating model.Rating) error) error {
	db, err := sql.Open(s.driverName, s.dataSource)
	if err != nil {
		return errors.NewNotFound(err, "open database")
	}
	defer db.Close()
	if err = db.PingContext(ctx); err != nil {
		return errors.NewNotFound(err, "connect database")
	}
	rows, err := db.QueryContext(ctx, fmt.Sprintf("SELECT %s, %s, %s FROM %s",
		s.UserCol, s.ItemCol, s.RatingCol, s.Table))
	if err != nil {
		return errors.Trace(err)
	}
	defer rows.Close()
	for rows.Next() {
		var rating model.Rating
		if err = rows.Scan(&rating.UserId, &rating.ItemId, &rating.Value); err != nil {
			return errors.NewNotValid(err, "scan rating row")
		}
		if err = handler(rating); err != nil {
			return errors.Trace(err)
		}
	}
	return errors.Trace(rows.Err())
}
