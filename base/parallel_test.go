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

package base

import (
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
)

func TestParallel(t *testing.T) {
	visited := make([]bool, 1000)
	err := Parallel(len(visited), 4, func(i int) error {
		visited[i] = true
		return nil
	})
	assert.NoError(t, err)
	for i := range visited {
		assert.True(t, visited[i])
	}
}

func TestParallelError(t *testing.T) {
	err := Parallel(100, 4, func(i int) error {
		if i == 50 {
			return errors.New("broken")
		}
		return nil
	})
	assert.Error(t, err)
}
