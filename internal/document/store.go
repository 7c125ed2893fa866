package document

import "context"

// Stored pairs a document with its identifier, as returned by reads.
type Stored struct {
	ID  string
	Doc Document
}

// Store is the driver contract for a collection-scoped document store.
// Implementations guarantee per-document atomicity for single writes; there
// are no multi-document transactions at this layer.
//
// Stores are interface-driven to keep the normalization layer testable and
// to allow swapping in-memory and Postgres persistence without rewiring
// repository code.
type Store interface {
	// Get fetches one document. Returns sentinel.ErrNotFound when the id
	// does not exist in the collection.
	Get(ctx context.Context, collection, id string) (Stored, error)

	// Insert stores a new document under the given id. The document must
	// already be sanitized; Absent markers are a caller bug.
	Insert(ctx context.Context, collection, id string, doc Document) error

	// Update applies a partial write: keys present in patch replace the
	// stored values (a nil value is stored as a literal null), keys absent
	// from patch are left untouched. Returns sentinel.ErrNotFound if the
	// document does not exist.
	Update(ctx context.Context, collection, id string, patch Document) error

	// Delete removes the document unconditionally. Deleting a missing id
	// returns sentinel.ErrNotFound.
	Delete(ctx context.Context, collection, id string) error

	// Query lists documents matching every filter, ordered per the query.
	Query(ctx context.Context, collection string, q Query) ([]Stored, error)
}
