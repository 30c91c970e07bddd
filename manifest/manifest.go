package manifest

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	// MetaFileName is the name of the metadata file.
	MetaFileName = "meta.txt"
	// ManifestFileName is the name of the shard inventory.
	ManifestFileName = "manifest.json"
	// CurrentVersion is the manifest format version.
	CurrentVersion = 1
)

// Manifest describes the outputs of one run.
type Manifest struct {
	Version   int         `json:"version"`
	RunID     string      `json:"run_id"`
	CreatedAt time.Time   `json:"created_at"`
	Params    Params      `json:"params"`
	Shards    []ShardInfo `json:"shards"`
}

// Params records the settings a run was produced with.
type Params struct {
	K            int     `json:"k"`
	Threshold    int64   `json:"threshold"`
	TestFraction float64 `json:"test_fraction"`
	TestCount    int     `json:"test_count,omitempty"`
	Seed         uint64  `json:"seed"`
}

// ShardInfo describes a single shard file.
type ShardInfo struct {
	Name    string `json:"name"`
	Mode    string `json:"mode"`
	Index   int    `json:"index"`
	Offset  uint32 `json:"offset"`
	Rows    uint32 `json:"rows"`
	Cols    uint32 `json:"cols"`
	Words   uint32 `json:"words"`
	Reviews uint32 `json:"reviews"`
	Values  uint32 `json:"values"`
	Bytes   int64  `json:"bytes"`
	CRC32C  uint32 `json:"crc32c"`
}

// New returns an empty manifest with a fresh run id.
func New(params Params) *Manifest {
	return &Manifest{
		Version:   CurrentVersion,
		RunID:     uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Params:    params,
	}
}

// Add records a written shard.
func (m *Manifest) Add(info ShardInfo) {
	m.Shards = append(m.Shards, info)
}

// Shard returns the entry for name.
func (m *Manifest) Shard(name string) (ShardInfo, bool) {
	for _, s := range m.Shards {
		if s.Name == name {
			return s, true
		}
	}
	return ShardInfo{}, false
}

// Validate checks the version and that shard names are unique.
func (m *Manifest) Validate() error {
	if m.Version != CurrentVersion {
		return fmt.Errorf("unsupported manifest version: %d (expected %d)", m.Version, CurrentVersion)
	}
	if _, err := uuid.Parse(m.RunID); err != nil {
		return fmt.Errorf("manifest: run id: %w", err)
	}
	seen := make(map[string]struct{}, len(m.Shards))
	for _, s := range m.Shards {
		if _, ok := seen[s.Name]; ok {
			return fmt.Errorf("manifest: duplicate shard %q", s.Name)
		}
		seen[s.Name] = struct{}{}
	}
	return nil
}
