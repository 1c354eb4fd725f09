// Package store provides listing store backends. The rest of the
// application only sees the ListingStore interface; whether listings live
// in a hosted backend-as-a-service or a local sqlite file is a deployment
// choice.
package store

import (
	"context"
	"errors"

	"github.com/vidarr1412/projectFacebook-MarketPlace/internal/models"
)

var (
	ErrNotFound = errors.New("listing not found")
)

// ListingStore is the external listing collection as seen by the core.
type ListingStore interface {
	// ListAll returns every listing ordered by created_at descending.
	ListAll(ctx context.Context) ([]models.Listing, error)

	// GetByID returns a single listing or ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.Listing, error)

	// Insert creates a listing record and returns its store-assigned id.
	Insert(ctx context.Context, rec models.NewListing) (string, error)
}
