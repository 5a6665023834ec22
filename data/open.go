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
	"strings"

	"github.com/juju/errors"
)

const (
	CSVPrefix      = "csv://"
	MongoPrefix    = "mongodb://"
	MongoSRVPrefix = "mongodb+srv://"
)

// Open creates the source matching the url scheme. A url without a scheme is
// treated as a CSV file path.
func Open(url, table, userCol, itemCol, ratingCol, separator string) (Source, error) {
	switch {
	case strings.HasPrefix(url, CSVPrefix):
		return NewCSVSource(url[len(CSVPrefix):], separator), nil
	case strings.HasPrefix(url, MySQLPrefix),
		strings.HasPrefix(url, PostgresPrefix),
		strings.HasPrefix(url, SQLitePrefix):
		return NewSQLSource(url, table, userCol, itemCol, ratingCol)
	case strings.HasPrefix(url, MongoPrefix), strings.HasPrefix(url, MongoSRVPrefix):
		return NewMongoSource(url, table, userCol, itemCol, ratingCol), nil
	case strings.Contains(url, "://"):
		return nil, errors.NotSupportedf("data store url %s", url)
	default:
		return NewCSVSource(url, separator), nil
	}
}
