// Copyright (c) 2025 Martedit
// Licensed under the MIT License. See LICENSE file in the project root for details.

package martmeta

import "sync"

var (
	// Global singleton cache for the registry.
	// Lives only in process memory and is cleared when the CLI exits.
	globalCache     *Registry
	globalCacheLock sync.RWMutex
)

// GetCached returns the cached registry from RAM, or nil if not cached.
func GetCached() *Registry {
	globalCacheLock.RLock()
	defer globalCacheLock.RUnlock()
	return globalCache
}

// SetCached stores the registry in RAM.
func SetCached(r *Registry) {
	globalCacheLock.Lock()
	defer globalCacheLock.Unlock()
	globalCache = r
}

// ClearCache removes the registry from RAM (primarily for testing).
func ClearCache() {
	globalCacheLock.Lock()
	defer globalCacheLock.Unlock()
	globalCache = nil
}
