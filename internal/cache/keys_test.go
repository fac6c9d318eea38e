// MotionStudio Admin Cache - Client Data Cache Engine
// Copyright 2026 DarkRiddle1212
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DarkRiddle1212/motionstudio-sub001

package cache

import (
	"strings"
	"testing"
)

func TestGenerateKeyDeterministic(t *testing.T) {
	params1 := map[string]interface{}{"page": 1, "limit": 20, "sort": "name"}
	params2 := map[string]interface{}{"sort": "name", "limit": 20, "page": 1}

	key1 := GenerateKey("users", params1)
	key2 := GenerateKey("users", params2)
	if key1 != key2 {
		t.Errorf("Expected identical keys for equal params, got %q and %q", key1, key2)
	}
}

func TestGenerateKeyDiffersOnParams(t *testing.T) {
	key1 := GenerateKey("users", map[string]int{"page": 1})
	key2 := GenerateKey("users", map[string]int{"page": 2})
	if key1 == key2 {
		t.Error("Expected different keys for different params")
	}
}

func TestGenerateKeyDiffersOnResource(t *testing.T) {
	params := map[string]int{"page": 1}
	if GenerateKey("users", params) == GenerateKey("courses", params) {
		t.Error("Expected different keys for different resources")
	}
}

func TestGenerateKeyResourcePrefix(t *testing.T) {
	key := GenerateKey("users", map[string]int{"page": 1})
	if !strings.HasPrefix(key, "users:") {
		t.Errorf("Expected key to start with resource prefix, got %q", key)
	}
}

func TestGenerateKeyNilParams(t *testing.T) {
	key1 := GenerateKey("users", nil)
	key2 := GenerateKey("users", nil)
	if key1 != key2 {
		t.Errorf("Expected stable key for nil params, got %q and %q", key1, key2)
	}
}

func TestResourceKey(t *testing.T) {
	if key := ResourceKey("users", "42"); key != "users:42" {
		t.Errorf("Expected users:42, got %q", key)
	}
}
