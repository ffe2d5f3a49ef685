// Package objectstorage provides pluggable blob storage for batch pipeline checkpoints,
// addressed by the gcs_path recorded on each agora_batch_checkpoints row.
package objectstorage

import (
	"context"
	"io"
)

// Provider defines the interface for checkpoint blob storage backends. The batch
// orchestrator (C8) treats this as an opaque external collaborator, matching the object
// storage of batch checkpoints named as a thin HTTP/out-of-process dependency.
type Provider interface {
	// Put stores a checkpoint blob and returns the path to persist as gcs_path.
	Put(ctx context.Context, key string, reader io.Reader) (path string, err error)

	// Get retrieves a checkpoint blob by its stored path.
	Get(ctx context.Context, path string) (io.ReadCloser, error)

	// Exists checks whether a checkpoint blob is present at path.
	Exists(ctx context.Context, path string) (bool, error)

	// Delete removes a checkpoint blob. The batch pipeline does not call it.
	Delete(ctx context.Context, path string) error
}
