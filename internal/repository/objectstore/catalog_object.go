// Package objectstore serves the document type catalog from a YAML file kept in object storage.
package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"workcompliance/internal/model"
	"workcompliance/internal/storage"
)

// ErrCatalogObjectMissing is returned when the configured catalog key does not exist.
var ErrCatalogObjectMissing = errors.New("catalog object missing")

// catalogFile is the on-disk layout:
//
//	document_types:
//	  - code: aso
//	    name: Atestado de saude ocupacional
//	    has_expiration: true
//	    active: true
//	    display_order: 1
type catalogFile struct {
	DocumentTypes []model.DocumentTypeDefinition `yaml:"document_types"`
}

type CatalogObject struct {
	store storage.Storage
	key   string
}

func NewCatalogObject(store storage.Storage, key string) *CatalogObject {
	return &CatalogObject{store: store, key: key}
}

// ListDocumentTypes downloads and decodes the catalog object on every call.
// Unknown keys in the file are rejected so typos do not silently drop a field.
func (c *CatalogObject) ListDocumentTypes(ctx context.Context) ([]model.DocumentTypeDefinition, error) {
	rc, _, err := c.store.Get(ctx, c.key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrCatalogObjectMissing, c.key)
		}
		return nil, err
	}
	defer rc.Close()

	dec := yaml.NewDecoder(rc)
	dec.KnownFields(true)

	var f catalogFile
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return []model.DocumentTypeDefinition{}, nil
		}
		return nil, fmt.Errorf("decode catalog %s: %w", c.key, err)
	}

	for i := range f.DocumentTypes {
		if f.DocumentTypes[i].Scope == "" {
			f.DocumentTypes[i].Scope = model.ScopeWorker
		}
	}
	if f.DocumentTypes == nil {
		f.DocumentTypes = []model.DocumentTypeDefinition{}
	}
	return f.DocumentTypes, nil
}
