// MotionStudio Admin Cache - Client Data Cache Engine
// Copyright 2026 DarkRiddle1212
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DarkRiddle1212/motionstudio-sub001

package cache

import (
	"crypto/sha256"
	"fmt"

	"github.com/goccy/go-json"
)

// GenerateKey builds a cache key from a logical resource name and a
// structured parameter value. The same resource and parameters always
// produce the same key regardless of map insertion order (JSON encoding
// sorts map keys), and any difference in parameters produces a different
// key. The parameter JSON is hashed so keys stay short and opaque.
func GenerateKey(resource string, params interface{}) string {
	data, err := json.Marshal(params)
	if err != nil {
		// Fallback to a formatted key; %+v is stable for structs
		return fmt.Sprintf("%s:%+v", resource, params)
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%x", resource, hash[:16])
}

// ResourceKey joins a resource name and identifier into the plain
// "resource:id" form used for detail views, where pattern invalidation by
// resource prefix (for example `^users:`) is expected to work.
func ResourceKey(resource, id string) string {
	return resource + ":" + id
}
