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

package server

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/emicklei/go-restful/v3"
	"github.com/steinfletcher/apitest"
	"github.com/stretchr/testify/suite"

	"github.com/scaledmarkets/taste/config"
)

const fourUsersCSV = `1,10,1.0
1,11,2.0
1,12,5.0
1,13,5.0
1,14,5.0
1,15,4.0
1,16,5.0
1,17,1.0
1,18,5.0
2,10,1.0
2,11,2.0
2,15,5.0
2,16,4.5
2,17,1.0
2,18,5.0
3,11,2.5
3,12,4.5
3,13,4.0
3,14,3.0
3,15,3.5
3,16,4.5
3,17,4.0
3,18,5.0
4,10,5.0
4,11,5.0
4,12,5.0
4,13,0.0
4,14,2.0
4,15,3.0
4,16,1.0
4,17,4.0
4,18,1.0
`

type ServerTestSuite struct {
	suite.Suite
	Server  *Server
	handler *restful.Container
	csvPath string
}

func (s *ServerTestSuite) SetupSuite() {
	s.csvPath = filepath.Join(s.T().TempDir(), "ratings.csv")
	s.NoError(os.WriteFile(s.csvPath, []byte(fourUsersCSV), 0o644))
	conf := config.GetDefaultConfig()
	conf.Data.DataStore = s.csvPath
	var err error
	s.Server, err = NewServer(conf)
	s.NoError(err)
	s.NoError(s.Server.LoadDataset(context.Background()))
	s.Server.CreateWebService()
	s.handler = restful.NewContainer()
	s.handler.Add(s.Server.WebService)
}

func (s *ServerTestSuite) TearDownSuite() {
	s.Server.Cache.Stop()
}

func (s *ServerTestSuite) marshal(v interface{}) string {
	text, err := json.Marshal(v)
	s.NoError(err)
	return string(text)
}

func (s *ServerTestSuite) TestRecommend() {
	store := s.Server.Handle.Load().Store
	expected := s.Server.Recommender.Recommend(store, 2, 0.1, 1)
	s.Len(expected, 1)
	s.Equal(int64(12), expected[0].ItemId)
	apitest.New().
		Handler(s.handler).
		Get("/api/recommend").
		Query("user-id", "2").
		Query("threshold", "0.1").
		Query("n", "1").
		Expect(s.T()).
		Status(http.StatusOK).
		Body(s.marshal(expected)).
		End()
}

func (s *ServerTestSuite) TestRecommendDefaults() {
	// defaults are threshold 0.1 and a single recommendation
	store := s.Server.Handle.Load().Store
	expected := s.Server.Recommender.Recommend(store, 2, 0.1, 1)
	apitest.New().
		Handler(s.handler).
		Get("/api/recommend").
		Query("user-id", "2").
		Expect(s.T()).
		Status(http.StatusOK).
		Body(s.marshal(expected)).
		End()
}

func (s *ServerTestSuite) TestRecommendUnknownUser() {
	apitest.New().
		Handler(s.handler).
		Get("/api/recommend").
		Query("user-id", "42").
		Query("threshold", "0.1").
		Query("n", "5").
		Expect(s.T()).
		Status(http.StatusOK).
		Body(`{"Message": "no recommendation"}`).
		End()
}

func (s *ServerTestSuite) TestRecommendBadRequest() {
	for _, query := range []map[string]string{
		{},
		{"user-id": "bob"},
		{"user-id": "2", "threshold": "hot"},
		{"user-id": "2", "n": "many"},
		{"user-id": "2", "n": "-1"},
	} {
		request := apitest.New().
			Handler(s.handler).
			Get("/api/recommend")
		for name, value := range query {
			request.Query(name, value)
		}
		request.Expect(s.T()).
			Status(http.StatusBadRequest).
			End()
	}
}

func (s *ServerTestSuite) TestNeighbors() {
	store := s.Server.Handle.Load().Store
	neighbors := s.Server.Recommender.Selector().Select(store, 2, 0.1)
	s.Len(neighbors, 2)
	apitest.New().
		Handler(s.handler).
		Get("/api/neighbors").
		Query("user-id", "2").
		Query("threshold", "0.1").
		Expect(s.T()).
		Status(http.StatusOK).
		Body(s.marshal(Neighborhood{UserId: 2, Neighbors: neighbors})).
		End()
}

func (s *ServerTestSuite) TestUsers() {
	apitest.New().
		Handler(s.handler).
		Get("/api/users").
		Expect(s.T()).
		Status(http.StatusOK).
		Body(`[1, 2, 3, 4]`).
		End()
}

func (s *ServerTestSuite) TestUserRatings() {
	apitest.New().
		Handler(s.handler).
		Get("/api/user/2/ratings").
		Expect(s.T()).
		Status(http.StatusOK).
		Body(`{"10": 1, "11": 2, "15": 5, "16": 4.5, "17": 1, "18": 5}`).
		End()
}

func (s *ServerTestSuite) TestHealth() {
	apitest.New().
		Handler(s.handler).
		Get("/api/health").
		Expect(s.T()).
		Status(http.StatusOK).
		Body(s.marshal(health(s.Server.Handle.Load()))).
		End()
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

type ReloadTestSuite struct {
	suite.Suite
	Server  *Server
	handler *restful.Container
	csvPath string
}

func (s *ReloadTestSuite) SetupTest() {
	s.csvPath = filepath.Join(s.T().TempDir(), "ratings.csv")
	s.NoError(os.WriteFile(s.csvPath, []byte(fourUsersCSV), 0o644))
	conf := config.GetDefaultConfig()
	conf.Data.DataStore = s.csvPath
	var err error
	s.Server, err = NewServer(conf)
	s.NoError(err)
	s.NoError(s.Server.LoadDataset(context.Background()))
	s.Server.CreateWebService()
	s.handler = restful.NewContainer()
	s.handler.Add(s.Server.WebService)
}

func (s *ReloadTestSuite) TearDownTest() {
	s.Server.Cache.Stop()
}

func (s *ReloadTestSuite) TestReload() {
	s.NoError(os.WriteFile(s.csvPath, []byte(fourUsersCSV+"5,10,3.0\n5,11,4.0\n"), 0o644))
	apitest.New().
		Handler(s.handler).
		Post("/api/reload").
		Expect(s.T()).
		Status(http.StatusOK).
		Body(`{"Ready": true, "Version": 2, "NumUsers": 5, "NumItems": 9, "NumRatings": 34}`).
		End()
}

func (s *ReloadTestSuite) TestReloadFailureKeepsServing() {
	previous := s.Server.Handle.Load()
	s.NoError(os.WriteFile(s.csvPath, []byte("1,10,broken\n"), 0o644))
	apitest.New().
		Handler(s.handler).
		Post("/api/reload").
		Expect(s.T()).
		Status(http.StatusInternalServerError).
		End()
	// the previous snapshot is untouched and still serving
	s.Same(previous, s.Server.Handle.Load())
	apitest.New().
		Handler(s.handler).
		Get("/api/recommend").
		Query("user-id", "2").
		Expect(s.T()).
		Status(http.StatusOK).
		End()
}

func TestReloadTestSuite(t *testing.T) {
	suite.Run(t, new(ReloadTestSuite))
}
