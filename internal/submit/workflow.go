// Package submit implements the upload-then-insert workflow that creates
// a listing.
package submit

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vidarr1412/projectFacebook-MarketPlace/internal/assets"
	"github.com/vidarr1412/projectFacebook-MarketPlace/internal/models"
	"github.com/vidarr1412/projectFacebook-MarketPlace/internal/store"
)

var (
	// ErrNoImage is returned before any network interaction when the
	// form has no image attached.
	ErrNoImage = errors.New("no image selected")

	// ErrSubmissionInFlight is returned when a submission is already
	// running on this workflow instance.
	ErrSubmissionInFlight = errors.New("submission already in progress")
)

// Stage identifies which external call of the workflow failed.
type Stage string

const (
	StageUpload     Stage = "upload"
	StageResolveURL Stage = "resolve_url"
	StageInsert     Stage = "insert"
)

// StageError wraps an external-call failure with the workflow stage it
// happened in. An insert-stage failure means the uploaded asset is
// orphaned; the workflow does not compensate.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// FailedAt reports whether err is a StageError for the given stage.
func FailedAt(err error, stage Stage) bool {
	var se *StageError
	return errors.As(err, &se) && se.Stage == stage
}

// Workflow runs the strictly sequential create-listing side effects:
// upload the image, resolve its public URL, insert the record. There is
// no rollback on partial failure.
type Workflow struct {
	assets   assets.Store
	listings store.ListingStore
	logger   *logrus.Logger
	inFlight atomic.Bool
}

func NewWorkflow(assetStore assets.Store, listings store.ListingStore, logger *logrus.Logger) *Workflow {
	return &Workflow{
		assets:   assetStore,
		listings: listings,
		logger:   logger,
	}
}

// Submit creates a listing from the form and image and returns the new
// record's id. Only one submission may run at a time on a Workflow; the
// guard spans both I/O steps.
func (w *Workflow) Submit(ctx context.Context, form models.ListingForm, image *models.ImageFile) (string, error) {
	if image == nil || len(image.Data) == 0 {
		return "", ErrNoImage
	}

	if !w.inFlight.CompareAndSwap(false, true) {
		return "", ErrSubmissionInFlight
	}
	defer w.inFlight.Store(false)

	// The original filename is discarded; only its extension survives.
	key := uuid.NewString() + strings.ToLower(filepath.Ext(image.Name))

	if err := w.assets.Upload(ctx, key, image.Data, image.ContentType); err != nil {
		w.logger.WithError(err).Error("Failed to upload listing image")
		return "", &StageError{Stage: StageUpload, Err: err}
	}

	imageURL, err := w.assets.PublicURL(key)
	if err != nil {
		w.logger.WithError(err).Error("Failed to resolve image URL")
		return "", &StageError{Stage: StageResolveURL, Err: err}
	}

	location := form.Location
	if location == "" {
		location = models.DefaultLocation
	}

	rec := models.NewListing{
		Title:       form.Title,
		Description: form.Description,
		Price:       parsePrice(form.Price),
		Email:       form.Email,
		Category:    form.Category,
		ImageURL:    imageURL,
		Location:    location,
	}

	id, err := w.listings.Insert(ctx, rec)
	if err != nil {
		// The asset uploaded above is now orphaned. Accepted: no
		// compensating delete.
		w.logger.WithError(err).WithField("key", key).Error("Failed to insert listing")
		return "", &StageError{Stage: StageInsert, Err: err}
	}

	w.logger.WithField("id", id).Info("Listing created")
	return id, nil
}

// parsePrice coerces the form's text price to a number. Malformed input
// is not validated here; it yields NaN and gets rejected by the store,
// the same way a malformed submission fails at insert time upstream.
func parsePrice(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
