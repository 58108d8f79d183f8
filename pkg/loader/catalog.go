package loader

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goliatone/go-eavform/pkg/model"
)

// Catalog indexes payload documents by definition key ("type/code").
type Catalog struct {
	payloads map[string]Payload
	sources  map[string]string
}

// LoadFS reads every .json, .yaml and .yml file of fsys as a payload. Two
// documents describing the same definition are an error.
func LoadFS(fsys fs.FS) (*Catalog, error) {
	catalog := &Catalog{
		payloads: make(map[string]Payload),
		sources:  make(map[string]string),
	}
	if fsys == nil {
		return catalog, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isPayloadFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("loader: read %s: %w", path, err)
		}
		payload, err := decodePayload(data, path)
		if err != nil {
			return err
		}

		key := payload.FormDefinition.Key()
		if previous, exists := catalog.sources[key]; exists {
			return fmt.Errorf("loader: duplicate definition %q (files %s and %s)", key, previous, path)
		}
		catalog.payloads[key] = payload
		catalog.sources[key] = path
		return nil
	})
	if err != nil {
		return nil, err
	}
	return catalog, nil
}

// Payload returns the payload registered for (definitionType, code).
func (c *Catalog) Payload(definitionType, code string) (Payload, bool) {
	if c == nil {
		return Payload{}, false
	}
	payload, ok := c.payloads[definitionType+"/"+code]
	return payload, ok
}

// Definition returns only the definition registered for (definitionType, code).
func (c *Catalog) Definition(definitionType, code string) (model.Definition, bool) {
	payload, ok := c.Payload(definitionType, code)
	return payload.FormDefinition, ok
}

// Source reports which file a definition was read from.
func (c *Catalog) Source(definitionType, code string) (string, bool) {
	if c == nil {
		return "", false
	}
	source, ok := c.sources[definitionType+"/"+code]
	return source, ok
}

// Keys lists the "type/code" keys of the catalog, sorted.
func (c *Catalog) Keys() []string {
	if c == nil {
		return nil
	}
	keys := make([]string, 0, len(c.payloads))
	for key := range c.payloads {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func isPayloadFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
