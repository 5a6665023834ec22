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
	"fmt"
	"net/http"
	"strconv"
	"time"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"
	"github.com/juju/errors"
	"go.uber.org/zap"

	"github.com/scaledmarkets/taste/base/log"
	"github.com/scaledmarkets/taste/cache"
	"github.com/scaledmarkets/taste/config"
	"github.com/scaledmarkets/taste/data"
	"github.com/scaledmarkets/taste/model"
)

// RestServer exposes the recommender over a REST-ful API.
type RestServer struct {
	Handle      *model.Handle
	Cache       *cache.RecommendationCache
	Recommender *model.Recommender
	Source      data.Source
	Config      *config.Config
	WebService  *restful.WebService
}

// NoRecommendation is rendered when the recommendation list is empty, which
// is a normal outcome, never an error.
type NoRecommendation struct {
	Message string `json:"Message"`
}

// Neighborhood is the response of the neighbors endpoint.
type Neighborhood struct {
	UserId    int64            `json:"UserId"`
	Neighbors []model.Neighbor `json:"Neighbors"`
}

// Health reports the serving snapshot.
type Health struct {
	Ready      bool  `json:"Ready"`
	Version    int64 `json:"Version"`
	NumUsers   int   `json:"NumUsers"`
	NumItems   int   `json:"NumItems"`
	NumRatings int   `json:"NumRatings"`
}

func LogFilter(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
	chain.ProcessFilter(req, resp)
	log.Logger().Info(fmt.Sprintf("%s %s", req.Request.Method, req.Request.URL),
		zap.Int("status_code", resp.StatusCode()))
}

// CreateWebService creates the web service.
func (s *RestServer) CreateWebService() {
	ws := s.WebService
	ws.Consumes(restful.MIME_JSON).Produces(restful.MIME_JSON)
	ws.Path("/api/")
	ws.Filter(LogFilter)

	// Get recommendations for a user
	ws.Route(ws.GET("/recommend").To(s.getRecommend).
		Doc("Get recommendations for a user.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"recommend"}).
		Param(ws.QueryParameter("user-id", "identifier of the user").DataType("integer").Required(true)).
		Param(ws.QueryParameter("threshold", "similarity threshold of the neighborhood").DataType("number")).
		Param(ws.QueryParameter("n", "number of returned recommendations").DataType("integer")).
		Writes([]model.Recommendation{}))
	// Get the neighborhood of a user
	ws.Route(ws.GET("/neighbors").To(s.getNeighbors).
		Doc("Get the neighborhood of a user.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"recommend"}).
		Param(ws.QueryParameter("user-id", "identifier of the user").DataType("integer").Required(true)).
		Param(ws.QueryParameter("threshold", "similarity threshold of the neighborhood").DataType("number")).
		Writes(Neighborhood{}))
	// Get users
	ws.Route(ws.GET("/users").To(s.getUsers).
		Doc("Get all known users.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"data"}).
		Writes([]int64{}))
	// Get ratings of a user
	ws.Route(ws.GET("/user/{user-id}/ratings").To(s.getUserRatings).
		Doc("Get all item ratings of a user.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"data"}).
		Param(ws.PathParameter("user-id", "identifier of the user").DataType("integer")).
		Writes(map[int64]float64{}))
	// Reload the dataset
	ws.Route(ws.POST("/reload").To(s.reload).
		Doc("Reload the dataset and atomically replace the serving snapshot.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"data"}).
		Writes(Health{}))
	// Health check
	ws.Route(ws.GET("/health").To(s.getHealth).
		Doc("Get the liveness and the serving snapshot.").
		Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
		Writes(Health{}))
}

// Recommend returns ranked recommendations for a user, served from the cache
// when the same query already ran against the current snapshot.
func (s *RestServer) Recommend(userId int64, threshold float64, n int) []model.Recommendation {
	start := time.Now()
	defer func() { GetRecommendSeconds.Observe(time.Since(start).Seconds()) }()
	snapshot := s.Handle.Load()
	if snapshot == nil {
		return nil
	}
	return s.Cache.Get(cache.Key{
		UserId:    userId,
		Threshold: threshold,
		N:         n,
		Version:   snapshot.Version,
	})
}

func (s *RestServer) getRecommend(request *restful.Request, response *restful.Response) {
	userId, err := parseUserId(request)
	if err != nil {
		BadRequest(response, err)
		return
	}
	threshold, err := parseFloatQuery(request, "threshold", s.Config.Server.DefaultThreshold)
	if err != nil {
		BadRequest(response, err)
		return
	}
	n, err := parseIntQuery(request, "n", s.Config.Server.DefaultN)
	if err != nil {
		BadRequest(response, err)
		return
	}
	if n < 0 {
		BadRequest(response, errors.NotValidf("negative n %d", n))
		return
	}
	recommendations := s.Recommend(userId, threshold, n)
	if len(recommendations) == 0 {
		Ok(response, NoRecommendation{Message: "no recommendation"})
		return
	}
	Ok(response, recommendations)
}

func (s *RestServer) getNeighbors(request *restful.Request, response *restful.Response) {
	userId, err := parseUserId(request)
	if err != nil {
		BadRequest(response, err)
		return
	}
	threshold, err := parseFloatQuery(request, "threshold", s.Config.Server.DefaultThreshold)
	if err != nil {
		BadRequest(response, err)
		return
	}
	neighborhood := Neighborhood{UserId: userId, Neighbors: []model.Neighbor{}}
	if snapshot := s.Handle.Load(); snapshot != nil {
		start := time.Now()
		neighborhood.Neighbors = append(neighborhood.Neighbors,
			s.Recommender.Selector().Select(snapshot.Store, userId, threshold)...)
		GetNeighborsSeconds.Observe(time.Since(start).Seconds())
	}
	Ok(response, neighborhood)
}

func (s *RestServer) getUsers(request *restful.Request, response *restful.Response) {
	snapshot := s.Handle.Load()
	if snapshot == nil {
		Ok(response, []int64{})
		return
	}
	Ok(response, snapshot.Store.Users())
}

func (s *RestServer) getUserRatings(request *restful.Request, response *restful.Response) {
	userId, err := strconv.ParseInt(request.PathParameter("user-id"), 10, 64)
	if err != nil {
		BadRequest(response, errors.NewNotValid(err, "user id must be an integer"))
		return
	}
	snapshot := s.Handle.Load()
	if snapshot == nil {
		Ok(response, map[int64]float64{})
		return
	}
	Ok(response, snapshot.Store.RatingsOf(userId))
}

// reload re-runs the ingestion and swaps the serving snapshot. On failure
// the previous snapshot keeps serving: stale data beats no data.
func (s *RestServer) reload(request *restful.Request, response *restful.Response) {
	start := time.Now()
	store, err := data.Load(request.Request.Context(), s.Source)
	if err != nil {
		log.Logger().Error("failed to reload dataset",
			zap.String("source", s.Source.Name()), zap.Error(err))
		InternalServerError(response, err)
		return
	}
	snapshot := s.Handle.Swap(store)
	s.Cache.Purge()
	LoadDatasetSeconds.Observe(time.Since(start).Seconds())
	Ok(response, health(snapshot))
}

func (s *RestServer) getHealth(request *restful.Request, response *restful.Response) {
	Ok(response, health(s.Handle.Load()))
}

func health(snapshot *model.Snapshot) Health {
	if snapshot == nil {
		return Health{}
	}
	return Health{
		Ready:      true,
		Version:    snapshot.Version,
		NumUsers:   snapshot.Store.NumUsers(),
		NumItems:   snapshot.Store.NumItems(),
		NumRatings: snapshot.Store.NumRatings(),
	}
}

func parseUserId(request *restful.Request) (int64, error) {
	raw := request.QueryParameter("user-id")
	if raw == "" {
		return 0, errors.NotValidf("missing user-id")
	}
	userId, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.NewNotValid(err, "user id must be an integer")
	}
	return userId, nil
}

func parseFloatQuery(request *restful.Request, name string, fallback float64) (float64, error) {
	raw := request.QueryParameter(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.NewNotValid(err, name+" must be a number")
	}
	return value, nil
}

func parseIntQuery(request *restful.Request, name string, fallback int) (int, error) {
	raw := request.QueryParameter(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.NewNotValid(err, name+" must be an integer")
	}
	return value, nil
}

// BadRequest returns a bad request error.
func BadRequest(response *restful.Response, err error) {
	log.ResponseLogger(response).Error("bad request", zap.Error(err))
	if err = response.WriteError(http.StatusBadRequest, err); err != nil {
		log.Logger().Error("failed to write error", zap.Error(err))
	}
}

// InternalServerError returns an internal server error.
func InternalServerError(response *restful.Response, err error) {
	log.ResponseLogger(response).Error("internal server error", zap.Error(err))
	if err = response.WriteError(http.StatusInternalServerError, err); err != nil {
		log.Logger().Error("failed to write error", zap.Error(err))
	}
}

// Ok sends the content as JSON to the client.
func Ok(response *restful.Response, content interface{}) {
	if err := response.WriteAsJson(content); err != nil {
		log.Logger().Error("failed to write json", zap.Error(err))
	}
}
