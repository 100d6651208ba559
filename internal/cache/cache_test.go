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

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"

	"github.com/bankacore/banka/config"
)

func newTestCache(t *testing.T) Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	config.MockConfig(&config.Configuration{
		DataSource: config.DataSourceConfig{Dns: "test-dns"},
		Auth:       config.AuthConfig{TokenSecret: "test-secret"},
		Redis:      config.RedisConfig{Dns: mr.Addr()},
	})
	c, err := NewCache()
	assert.NoError(t, err)
	return c
}

func TestSetAndGet(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	type payload struct {
		Name    string
		Balance int64
	}

	err := c.Set(ctx, "acc:1234567890", payload{Name: "savings", Balance: 1500}, 5*time.Minute)
	assert.NoError(t, err)

	var got payload
	err = c.Get(ctx, "acc:1234567890", &got)
	assert.NoError(t, err)
	assert.Equal(t, "savings", got.Name)
	assert.Equal(t, int64(1500), got.Balance)
}

func TestGetMissIsNotAnError(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	var got string
	err := c.Get(ctx, "missing-key", &got)
	assert.NoError(t, err)
	assert.Empty(t, got)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	err := c.Set(ctx, "key", "value", time.Minute)
	assert.NoError(t, err)

	err = c.Delete(ctx, "key")
	assert.NoError(t, err)

	var got string
	err = c.Get(ctx, "key", &got)
	assert.NoError(t, err)
	assert.Empty(t, got)
}

func TestLocalOnlyCache(t *testing.T) {
	config.MockConfig(&config.Configuration{
		DataSource: config.DataSourceConfig{Dns: "test-dns"},
		Auth:       config.AuthConfig{TokenSecret: "test-secret"},
	})
	c, err := NewCache()
	assert.NoError(t, err)

	ctx := context.Background()
	assert.NoError(t, c.Set(ctx, "key", "value", time.Minute))

	var got string
	assert.NoError(t, c.Get(ctx, "key", &got))
	assert.Equal(t, "value", got)
}
