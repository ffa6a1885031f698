// Package store persists diagram documents: named flowchart sources
// that the preview server serves and the CLI can push and pull.
//
// Backends:
//   - memory: in-process storage for development and testing
//   - mongo: MongoDB-backed storage for shared deployments
//
// Documents store the raw flowchart text, not the parsed graph. The
// text is the durable format; callers decode it on demand.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrEmptyName is returned when a document is saved without a name.
	ErrEmptyName = errors.New("document name is empty")
)

// Document is a stored flowchart source with metadata.
type Document struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Source    string    `json:"source" bson:"source"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Store is the interface for document storage backends.
type Store interface {
	// Get retrieves a document by ID. Returns ErrNotFound if absent.
	Get(ctx context.Context, id string) (*Document, error)

	// List returns all documents ordered by creation time.
	List(ctx context.Context) ([]*Document, error)

	// Create stores a new document and returns it with ID and
	// timestamps assigned.
	Create(ctx context.Context, name, source string) (*Document, error)

	// Update replaces the name and source of an existing document.
	// Returns ErrNotFound if absent.
	Update(ctx context.Context, id, name, source string) (*Document, error)

	// Delete removes a document. Returns ErrNotFound if absent.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// NewID generates a document identifier.
func NewID() string {
	return uuid.NewString()
}

func newDocument(name, source string) (*Document, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	now := time.Now().UTC()
	return &Document{
		ID:        NewID(),
		Name:      name,
		Source:    source,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
