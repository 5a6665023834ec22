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
	"fmt"
	"net/http"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"
	"github.com/juju/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggest/swgui/v5emb"
	"go.uber.org/zap"

	"github.com/scaledmarkets/taste/base/log"
	"github.com/scaledmarkets/taste/cache"
	"github.com/scaledmarkets/taste/config"
	"github.com/scaledmarkets/taste/data"
	"github.com/scaledmarkets/taste/model"
)

const apiDocsPath = "/apidocs/"

// Server wires the configured source, snapshot handle, cache and REST API
// together and runs the HTTP server.
type Server struct {
	RestServer
}

// NewServer creates a server node from the configuration.
func NewServer(conf *config.Config) (*Server, error) {
	source, err := data.Open(conf.Data.DataStore, conf.Data.Table,
		conf.Data.UserColumn, conf.Data.ItemColumn, conf.Data.RatingColumn,
		conf.Data.Separator)
	if err != nil {
		return nil, errors.Trace(err)
	}
	s := &Server{
		RestServer: RestServer{
			Handle:      model.NewHandle(),
			Recommender: model.NewRecommender(conf.Selector()),
			Source:      source,
			Config:      conf,
			WebService:  new(restful.WebService),
		},
	}
	s.Cache = cache.NewRecommendationCache(conf.Cache.TTL, conf.Cache.MaxEntries,
		func(key cache.Key) []model.Recommendation {
			snapshot := s.Handle.Load()
			if snapshot == nil {
				return nil
			}
			return s.Recommender.Recommend(snapshot.Store, key.UserId, key.Threshold, key.N)
		})
	return s, nil
}

// LoadDataset runs the initial ingestion and publishes the first snapshot.
// The server must not start serving before this succeeds once.
func (s *Server) LoadDataset(ctx context.Context) error {
	store, err := data.Load(ctx, s.Source)
	if err != nil {
		return errors.Trace(err)
	}
	s.Handle.Swap(store)
	s.Cache.Purge()
	return nil
}

// Serve starts the HTTP server. It blocks until the listener fails.
func (s *Server) Serve() {
	s.Cache.Start()
	defer s.Cache.Stop()
	// register restful APIs
	s.CreateWebService()
	container := restful.NewContainer()
	container.Add(s.WebService)
	// register swagger UI
	specConfig := restfulspec.Config{
		WebServices: container.RegisteredWebServices(),
		APIPath:     "/apidocs.json",
	}
	container.Add(restfulspec.NewOpenAPIService(specConfig))

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle(apiDocsPath, v5emb.New("taste", specConfig.APIPath, apiDocsPath))
	// the neighborhood scan grows with the dataset, so every request gets a
	// deadline at the boundary
	mux.Handle("/", http.TimeoutHandler(container, s.Config.Server.RequestTimeout, "request timeout"))

	address := fmt.Sprintf("%s:%d", s.Config.Server.HttpHost, s.Config.Server.HttpPort)
	log.Logger().Info("start http server", zap.String("url", "http://"+address))
	log.Logger().Fatal("failed to start http server",
		zap.Error(http.ListenAndServe(address, mux)))
}
