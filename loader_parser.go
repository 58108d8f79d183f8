package eavform

import (
	"io/fs"

	"github.com/goliatone/go-eavform/pkg/loader"
)

// DecodePayload parses a JSON or YAML payload holding a definition and,
// optionally, the stored values of one owner.
func DecodePayload(data []byte) (loader.Payload, error) {
	return loader.DecodePayload(data)
}

// LoadCatalog reads every definition payload under fsys.
func LoadCatalog(fsys fs.FS) (*loader.Catalog, error) {
	return loader.LoadFS(fsys)
}
