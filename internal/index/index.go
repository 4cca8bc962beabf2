package index

import (
	"context"

	"github.com/starford/othala/internal/graph"
)

// NoteIndex defines the interface for note indexing operations.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with mocks.
type NoteIndex interface {
	UpsertNote(n NoteRow, body string, links []string) error
	DeleteNote(path string) error
	GetNote(path string) (*NoteRow, error)
	GetChecksum(path string) (string, error)
	ListNotes(limit, offset int, tag, sort string) ([]NoteRow, int, error)
	Search(query string, limit int) ([]SearchResult, error)
	Backlinks(target string) ([]string, error)
	AllPaths() (map[string]struct{}, error)
	AllChecksums() (map[string]string, error)
	FetchNotes(ctx context.Context) ([]graph.SourceNote, error)
	Close() error
}

// Verify *DB satisfies NoteIndex and the graph engine's corpus source.
var (
	_ NoteIndex        = (*DB)(nil)
	_ graph.NoteSource = (*DB)(nil)
)
