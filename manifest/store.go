package manifest

import (
	"context"
	"fmt"

	"github.com/hupe1980/bagtensor/blobstore"
	"github.com/hupe1980/bagtensor/codec"
)

// Store reads and writes the metadata file and the manifest in a blob store.
type Store struct {
	blobs blobstore.BlobStore
	codec codec.Codec
}

// NewStore creates a new manifest store. A nil codec selects codec.Default.
func NewStore(blobs blobstore.BlobStore, c codec.Codec) *Store {
	if c == nil {
		c = codec.Default
	}
	return &Store{
		blobs: blobs,
		codec: c,
	}
}

// SaveMeta writes the metadata file.
func (s *Store) SaveMeta(ctx context.Context, m Meta) error {
	data, err := s.codec.Marshal(m)
	if err != nil {
		return fmt.Errorf("manifest: encode %s: %w", MetaFileName, err)
	}
	return s.blobs.Put(ctx, MetaFileName, data)
}

// LoadMeta reads the metadata file.
func (s *Store) LoadMeta(ctx context.Context) (*Meta, error) {
	data, err := blobstore.ReadAll(ctx, s.blobs, MetaFileName)
	if err != nil {
		return nil, err
	}
	var m Meta
	if err := s.codec.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("manifest: decode %s: %w", MetaFileName, err)
	}
	return &m, nil
}

// Save writes the manifest.
func (s *Store) Save(ctx context.Context, m *Manifest) error {
	if err := m.Validate(); err != nil {
		return err
	}
	data, err := s.codec.Marshal(m)
	if err != nil {
		return fmt.Errorf("manifest: encode %s: %w", ManifestFileName, err)
	}
	return s.blobs.Put(ctx, ManifestFileName, data)
}

// Load reads and validates the manifest.
func (s *Store) Load(ctx context.Context) (*Manifest, error) {
	data, err := blobstore.ReadAll(ctx, s.blobs, ManifestFileName)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := s.codec.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("manifest: decode %s: %w", ManifestFileName, err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}
