// Copyright (c) 2025 Martedit
// Licensed under the MIT License. See LICENSE file in the project root for details.

package martmeta

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	apperrors "martedit/cli/internal/errors"
)

// MetadataFile is the catalog metadata file name, resolved against the catalog root.
const MetadataFile = "marts.json"

// Load reads and validates the mart catalog metadata under root.
// A missing file, malformed JSON, an empty catalog, or an entry without
// required fields is a startup fault; there is no partial load.
func Load(root string) (*Registry, error) {
	p := filepath.Join(root, MetadataFile)
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.StartupFault, fmt.Sprintf("read mart metadata %s", p), err)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, apperrors.Wrap(apperrors.StartupFault, fmt.Sprintf("parse mart metadata %s", p), err)
	}

	if len(entries) == 0 {
		return nil, apperrors.New(apperrors.StartupFault, fmt.Sprintf("mart metadata %s contains no entries", p))
	}

	seen := make(map[string]struct{}, len(entries))
	for i, e := range entries {
		if e.Path == "" {
			return nil, apperrors.New(apperrors.StartupFault, fmt.Sprintf("mart entry %d is missing path", i))
		}
		if e.Description == "" {
			return nil, apperrors.New(apperrors.StartupFault, fmt.Sprintf("mart entry %q is missing description", e.Path))
		}
		if _, dup := seen[e.Path]; dup {
			return nil, apperrors.New(apperrors.StartupFault, fmt.Sprintf("mart entry %q is declared twice", e.Path))
		}
		seen[e.Path] = struct{}{}
	}

	return &Registry{Entries: entries}, nil
}

// Get returns the registry for root, using the RAM cache if available.
// This function is the main entry point for retrieving the mart catalog.
func Get(root string) (*Registry, error) {
	if cached := GetCached(); cached != nil {
		return cached, nil
	}

	reg, err := Load(root)
	if err != nil {
		return nil, err
	}

	// Cache in RAM for future calls within this process
	SetCached(reg)

	return reg, nil
}
