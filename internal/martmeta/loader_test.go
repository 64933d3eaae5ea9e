// Copyright (c) 2025 Martedit
// Licensed under the MIT License. See LICENSE file in the project root for details.

package martmeta

import (
	"os"
	"path/filepath"
	"testing"

	apperrors "martedit/cli/internal/errors"
)

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, MetadataFile), []byte(content), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	return dir
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		expectError bool
	}{
		{
			name:    "valid catalog",
			content: `[{"name":"revenue","path":"marts/revenue_mart.sql","description":"monthly revenue by product"}]`,
		},
		{
			name:        "empty catalog",
			content:     `[]`,
			expectError: true,
		},
		{
			name:        "malformed JSON",
			content:     `[{"name":"revenue"`,
			expectError: true,
		},
		{
			name:        "missing path",
			content:     `[{"name":"revenue","description":"monthly revenue"}]`,
			expectError: true,
		},
		{
			name:        "missing description",
			content:     `[{"name":"revenue","path":"marts/revenue_mart.sql"}]`,
			expectError: true,
		},
		{
			name: "duplicate path",
			content: `[{"name":"a","path":"marts/x.sql","description":"one"},
				{"name":"b","path":"marts/x.sql","description":"two"}]`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := writeCatalog(t, tt.content)
			reg, err := Load(root)
			if tt.expectError {
				if err == nil {
					t.Fatal("Load() expected error, got nil")
				}
				if !apperrors.IsKind(err, apperrors.StartupFault) {
					t.Errorf("Load() error kind = %v, want startup_fault", apperrors.KindOf(err))
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() unexpected error: %v", err)
			}
			if len(reg.Entries) != 1 {
				t.Errorf("Load() entries = %d, want 1", len(reg.Entries))
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Fatal("Load() on missing metadata expected error, got nil")
	}
}

func TestLookup(t *testing.T) {
	reg := &Registry{Entries: []Entry{
		{Name: "revenue", Path: "marts/revenue_mart.sql", Description: "revenue"},
		{Name: "users", Path: "marts/active_users_mart.sql", Description: "users"},
	}}

	if e, ok := reg.Lookup("marts/revenue_mart.sql"); !ok || e.Name != "revenue" {
		t.Errorf("Lookup by path = %v, %v", e, ok)
	}
	if e, ok := reg.Lookup("users"); !ok || e.Path != "marts/active_users_mart.sql" {
		t.Errorf("Lookup by name = %v, %v", e, ok)
	}
	// Exact, case-sensitive matching only
	if _, ok := reg.Lookup("Revenue"); ok {
		t.Error("Lookup should not match case-insensitively")
	}
	if _, ok := reg.Lookup("marts/unknown.sql"); ok {
		t.Error("Lookup should not match unknown paths")
	}
}

func TestGetUsesCache(t *testing.T) {
	ClearCache()
	t.Cleanup(ClearCache)

	root := writeCatalog(t, `[{"name":"revenue","path":"marts/revenue_mart.sql","description":"revenue"}]`)
	first, err := Get(root)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}

	// Second call must come from the RAM cache, not the filesystem
	second, err := Get("nonexistent-root")
	if err != nil {
		t.Fatalf("Get() cached error: %v", err)
	}
	if first != second {
		t.Error("Get() should return the cached registry instance")
	}
}
