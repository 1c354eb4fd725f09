// Package assets provides object storage backends for listing images.
package assets

import "context"

// Store is the external asset store as seen by the submission workflow.
type Store interface {
	// Upload stores data under key with the configured cache-control
	// metadata. A key collision fails instead of replacing the object.
	Upload(ctx context.Context, key string, data []byte, contentType string) error

	// PublicURL resolves the externally reachable URL of an uploaded key.
	PublicURL(key string) (string, error)
}
