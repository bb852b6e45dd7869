package export

import (
	"fmt"
	"time"

	"github.com/KaramelBytes/amrtables-cli/internal/utils"
	"github.com/google/uuid"
)

// ManifestFile is the name of the manifest written next to the outputs.
const ManifestFile = "manifest.json"

// Output is one file produced by a run.
type Output struct {
	Kind  string `json:"kind"` // markdown | csv | xlsx
	Table string `json:"table,omitempty"`
	Path  string `json:"path"`
}

// Manifest records what a run read and wrote.
type Manifest struct {
	RunID     string    `json:"run_id"`
	Source    string    `json:"source"`
	Sheet     string    `json:"sheet,omitempty"`
	Records   int       `json:"records"`
	CreatedAt time.Time `json:"created_at"`
	Outputs   []Output  `json:"outputs"`
}

// NewManifest starts a manifest with a fresh run ID.
func NewManifest(source, sheet string, records int) *Manifest {
	return &Manifest{
		RunID:     uuid.NewString(),
		Source:    source,
		Sheet:     sheet,
		Records:   records,
		CreatedAt: time.Now().UTC(),
		Outputs:   []Output{},
	}
}

// Add appends an output entry.
func (m *Manifest) Add(kind, table, path string) {
	m.Outputs = append(m.Outputs, Output{Kind: kind, Table: table, Path: path})
}

// Write saves the manifest as indented JSON.
func (m *Manifest) Write(path string) error {
	b, err := utils.PrettyJSON(m)
	if err != nil {
		return err
	}
	if err := utils.SafeWriteFile(path, b); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}
