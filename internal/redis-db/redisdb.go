/*
Copyright 2025 Banka Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package redis_db

import (
	"errors"
	"strings"

	"github.com/redis/go-redis/v9"
)

// Redis wraps a go-redis universal client together with the address it was
// built from.
type Redis struct {
	address string
	client  redis.UniversalClient
}

// NewRedisClient creates a Redis client from either a plain host:port address
// (docker style, e.g. "redis:6379") or a full redis:// URL.
func NewRedisClient(address string) (*Redis, error) {
	if address == "" {
		return nil, errors.New("redis address cannot be empty")
	}

	var opts *redis.Options
	if strings.Contains(address, "//") {
		parsed, err := redis.ParseURL(address)
		if err != nil {
			return nil, err
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: address}
	}

	return &Redis{address: address, client: redis.NewClient(opts)}, nil
}

func (r *Redis) Client() redis.UniversalClient {
	return r.client
}
