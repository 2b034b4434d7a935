/*
 * Copyright (c) 2025, WSO2 LLC. (https://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package registry

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/asgardeo/thunderfed/internal/federation/idpconfig"
	"github.com/asgardeo/thunderfed/internal/system/config"
)

const defaultCacheSize = 1000

// idpKey identifies a federated IdP within a tenant.
type idpKey struct {
	tenantID string
	entityID string
}

// idpCache caches IdP configurations by tenant and entity ID. Entries are cloned on the way in and
// on the way out, so cached values are never shared with callers.
type idpCache struct {
	cache *lru.Cache[idpKey, *idpconfig.IDPConfig]
}

// newIDPCache creates the cache. A disabled cache stores nothing.
func newIDPCache(cacheConfig config.CacheConfig) (*idpCache, error) {
	if cacheConfig.Disabled {
		return &idpCache{}, nil
	}

	size := cacheConfig.Size
	if size <= 0 {
		size = defaultCacheSize
	}
	cache, err := lru.New[idpKey, *idpconfig.IDPConfig](size)
	if err != nil {
		return nil, err
	}
	return &idpCache{cache: cache}, nil
}

func (c *idpCache) get(key idpKey) (*idpconfig.IDPConfig, bool) {
	if c.cache == nil {
		return nil, false
	}
	idp, ok := c.cache.Get(key)
	if !ok {
		return nil, false
	}
	return idp.Clone(), true
}

func (c *idpCache) add(key idpKey, idp *idpconfig.IDPConfig) {
	if c.cache == nil {
		return
	}
	c.cache.Add(key, idp.Clone())
}

func (c *idpCache) remove(key idpKey) {
	if c.cache == nil {
		return
	}
	c.cache.Remove(key)
}

// keyedMutex serializes writers of the same IdP while leaving other IdPs unblocked.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[idpKey]*refCountedMutex
}

type refCountedMutex struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[idpKey]*refCountedMutex)}
}

// lock acquires the mutex of the key and returns the function that releases it.
func (k *keyedMutex) lock(key idpKey) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &refCountedMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
