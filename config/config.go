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

package config

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/juju/errors"
	"github.com/spf13/viper"

	"github.com/scaledmarkets/taste/model"
)

// Config is the configuration for the recommender server.
type Config struct {
	Data      DataConfig      `mapstructure:"data"`
	Server    ServerConfig    `mapstructure:"server"`
	Recommend RecommendConfig `mapstructure:"recommend"`
	Cache     CacheConfig     `mapstructure:"cache"`
}

// DataConfig points at the ingestion source.
type DataConfig struct {
	// DataStore is the source location: a CSV file path (optionally with a
	// csv:// scheme), or a mysql://, postgres://, sqlite:// or mongodb:// url.
	DataStore string `mapstructure:"data_store" validate:"required"`
	// Table is the table or collection holding the preference rows.
	Table string `mapstructure:"table"`
	// Column names of the preference rows.
	UserColumn   string `mapstructure:"user_column"`
	ItemColumn   string `mapstructure:"item_column"`
	RatingColumn string `mapstructure:"rating_column"`
	// Separator is the field separator for CSV sources.
	Separator string `mapstructure:"separator"`
}

// ServerConfig holds the REST boundary settings.
type ServerConfig struct {
	HttpHost         string        `mapstructure:"http_host"`
	HttpPort         int           `mapstructure:"http_port" validate:"gte=0"`
	DefaultThreshold float64       `mapstructure:"default_threshold"`
	DefaultN         int           `mapstructure:"default_n" validate:"gte=0"`
	RequestTimeout   time.Duration `mapstructure:"request_timeout" validate:"gt=0"`
}

// RecommendConfig selects the similarity and neighborhood strategies.
type RecommendConfig struct {
	Similarity   string `mapstructure:"similarity" validate:"oneof=pearson cosine"`
	Selector     string `mapstructure:"selector" validate:"oneof=threshold nearest"`
	NumNeighbors int    `mapstructure:"num_neighbors" validate:"gt=0"`
}

// CacheConfig sizes the recommendation cache.
type CacheConfig struct {
	TTL        time.Duration `mapstructure:"ttl" validate:"gt=0"`
	MaxEntries uint64        `mapstructure:"max_entries" validate:"gt=0"`
}

// GetDefaultConfig returns a config with default values.
func GetDefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Table:        "preferences",
			UserColumn:   "UserID",
			ItemColumn:   "ItemID",
			RatingColumn: "Preference",
			Separator:    ",",
		},
		Server: ServerConfig{
			HttpHost:         "127.0.0.1",
			HttpPort:         8087,
			DefaultThreshold: 0.1,
			DefaultN:         1,
			RequestTimeout:   10 * time.Second,
		},
		Recommend: RecommendConfig{
			Similarity:   "pearson",
			Selector:     "threshold",
			NumNeighbors: 10,
		},
		Cache: CacheConfig{
			TTL:        time.Minute,
			MaxEntries: 100000,
		},
	}
}

func setDefault(v *viper.Viper) {
	defaultConfig := GetDefaultConfig()
	// [data]
	v.SetDefault("data.table", defaultConfig.Data.Table)
	v.SetDefault("data.user_column", defaultConfig.Data.UserColumn)
	v.SetDefault("data.item_column", defaultConfig.Data.ItemColumn)
	v.SetDefault("data.rating_column", defaultConfig.Data.RatingColumn)
	v.SetDefault("data.separator", defaultConfig.Data.Separator)
	// [server]
	v.SetDefault("server.http_host", defaultConfig.Server.HttpHost)
	v.SetDefault("server.http_port", defaultConfig.Server.HttpPort)
	v.SetDefault("server.default_threshold", defaultConfig.Server.DefaultThreshold)
	v.SetDefault("server.default_n", defaultConfig.Server.DefaultN)
	v.SetDefault("server.request_timeout", defaultConfig.Server.RequestTimeout)
	// [recommend]
	v.SetDefault("recommend.similarity", defaultConfig.Recommend.Similarity)
	v.SetDefault("recommend.selector", defaultConfig.Recommend.Selector)
	v.SetDefault("recommend.num_neighbors", defaultConfig.Recommend.NumNeighbors)
	// [cache]
	v.SetDefault("cache.ttl", defaultConfig.Cache.TTL)
	v.SetDefault("cache.max_entries", defaultConfig.Cache.MaxEntries)
}

// LoadConfig loads the configuration from a TOML file. Any setting can be
// overridden by a TASTE_SECTION_KEY environment variable.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefault(v)
	v.SetConfigType("toml")
	v.SetConfigFile(path)
	v.SetEnvPrefix("taste")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Trace(err)
	}
	var conf Config
	if err := v.Unmarshal(&conf); err != nil {
		return nil, errors.Trace(err)
	}
	if err := validator.New().Struct(&conf); err != nil {
		return nil, errors.Trace(err)
	}
	return &conf, nil
}

// SimilarityFunc maps the configured similarity name to its implementation.
func (conf *Config) SimilarityFunc() model.FuncSimilarity {
	switch conf.Recommend.Similarity {
	case "cosine":
		return model.CosineSimilarity
	default:
		return model.PearsonSimilarity
	}
}

// Selector maps the configured neighborhood strategy to its implementation.
func (conf *Config) Selector() model.Selector {
	switch conf.Recommend.Selector {
	case "nearest":
		return model.NewNearestSelector(conf.SimilarityFunc(), conf.Recommend.NumNeighbors)
	default:
		return model.NewThresholdSelector(conf.SimilarityFunc())
	}
}
