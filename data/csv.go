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
	"bufio"
	"context"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/juju/errors"
	"github.com/schollz/progressbar/v3"

	"github.com/scaledmarkets/taste/model"
)

// CSVSource reads ratings from a delimited text file with one
// `user<sep>item<sep>rating` row per line. Blank lines are skipped.
type CSVSource struct {
	Path      string
	Separator string
}

func NewCSVSource(path, separator string) *CSVSource {
	if separator == "" {
		separator = ","
	}
	return &CSVSource{Path: path, Separator: separator}
}

func (s *CSVSource) Name() string {
	return s.Path
}

func (s *CSVSource) Read(ctx context.Context, handler func(rating model.Rating) error) error {
	file, err := os.Open(s.Path)
	if err != nil {
		return errors.NewNotFound(err, "open rating file")
	}
	defer file.Close()
	var reader io.Reader = file
	if stat, err := file.Stat(); err == nil {
		bar := progressbar.DefaultBytesSilent(stat.Size(), "loading "+s.Path)
		reader = io.TeeReader(file, bar)
	}
	scanner := bufio.NewScanner(reader)
	line := 0
	for scanner.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return errors.Trace(err)
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		rating, err := parseRow(text, s.Separator)
		if err != nil {
			return errors.Annotatef(err, "line %d", line)
		}
		if err = handler(rating); err != nil {
			return errors.Trace(err)
		}
	}
	return errors.Trace(scanner.Err())
}

func parseRow(text, separator string) (model.Rating, error) {
	fields := strings.Split(text, separator)
	if len(fields) < 3 {
		return model.Rating{}, errors.NotValidf("row %q", text)
	}
	userId, err := strconv.ParseInt(strings.TrimSpace(fields[0]), 10, 64)
	if err != nil {
		return model.Rating{}, errors.NotValidf("user id %q", fields[0])
	}
	itemId, err := strconv.ParseInt(strings.TrimSpace(fields[1]), 10, 64)
	if err != nil {
		return model.Rating{}, errors.NotValidf("item id %q", fields[1])
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
	if err != nil {
		return model.Rating{}, errors.NotValidf("rating %q", fields[2])
	}
	return model.Rating{UserId: userId, ItemId: itemId, Value: value}, nil
}
