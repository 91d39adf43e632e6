package object

import (
	"context"
	"io"
)

// ObjectStore defines the contract for saving and retrieving binary capture
// artifacts (resumes, video clips, parsed text).
//
// Objects are namespaced by an owner key (candidate email) and a context
// identifier (job id), so a caller addresses storage as {owner}/{context}/file.
type ObjectStore interface {
	Save(ctx context.Context, ownerKey, contextID, fileName string, r io.Reader) (storageKey string, sizeBytes int64, mimeType string, err error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
	// URL returns a durable fetchable URL for a stored object. The URL is
	// what survives in onboarding snapshots and application records; the
	// raw payload never does.
	URL(storageKey string) string
}

// KeySaver is an optional capability for writing derived objects (extracted
// text) at an exact storage key.
type KeySaver interface {
	SaveWithKey(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error)
}
