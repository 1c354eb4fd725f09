package submit

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/vidarr1412/projectFacebook-MarketPlace/internal/models"
)

// MockAssetStore is a mock implementation of assets.Store
type MockAssetStore struct {
	mock.Mock
}

func (m *MockAssetStore) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	args := m.Called(ctx, key, data, contentType)
	return args.Error(0)
}

func (m *MockAssetStore) PublicURL(key string) (string, error) {
	args := m.Called(key)
	return args.String(0), args.Error(1)
}

// MockListingStore is a mock implementation of store.ListingStore
type MockListingStore struct {
	mock.Mock
}

func (m *MockListingStore) ListAll(ctx context.Context) ([]models.Listing, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Listing), args.Error(1)
}

func (m *MockListingStore) GetByID(ctx context.Context, id string) (*models.Listing, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*models.Listing), args.Error(1)
}

func (m *MockListingStore) Insert(ctx context.Context, rec models.NewListing) (string, error) {
	args := m.Called(ctx, rec)
	return args.String(0), args.Error(1)
}

func validForm() models.ListingForm {
	return models.ListingForm{
		Title:       "Red Bike",
		Description: "Barely used",
		Price:       "100",
		Email:       "seller@example.com",
		Category:    "Hobbies",
	}
}

func validImage() *models.ImageFile {
	return &models.ImageFile{
		Name:        "bike.JPG",
		ContentType: "image/jpeg",
		Data:        []byte("jpeg-bytes"),
	}
}

func TestSubmit_NoImageFailsBeforeAnyNetworkCall(t *testing.T) {
	assetStore := &MockAssetStore{}
	listings := &MockListingStore{}
	w := NewWorkflow(assetStore, listings, logrus.New())

	_, err := w.Submit(context.Background(), validForm(), nil)
	assert.ErrorIs(t, err, ErrNoImage)

	_, err = w.Submit(context.Background(), validForm(), &models.ImageFile{Name: "empty.png"})
	assert.ErrorIs(t, err, ErrNoImage)

	assetStore.AssertNumberOfCalls(t, "Upload", 0)
	listings.AssertNumberOfCalls(t, "Insert", 0)
}

func TestSubmit_Success(t *testing.T) {
	assetStore := &MockAssetStore{}
	listings := &MockListingStore{}
	w := NewWorkflow(assetStore, listings, logrus.New())

	var uploadedKey string
	assetStore.On("Upload", mock.Anything, mock.Anything, []byte("jpeg-bytes"), "image/jpeg").
		Run(func(args mock.Arguments) {
			uploadedKey = args.String(1)
		}).
		Return(nil).Once()
	assetStore.On("PublicURL", mock.Anything).
		Return("https://cdn.example.com/abc.jpg", nil).Once()
	listings.On("Insert", mock.Anything, mock.Anything).Return("listing-1", nil).Once()

	id, err := w.Submit(context.Background(), validForm(), validImage())
	assert.NoError(t, err)
	assert.Equal(t, "listing-1", id)

	// Storage key is a fresh identifier plus the lowercased original
	// extension; the original name is gone.
	assert.True(t, strings.HasSuffix(uploadedKey, ".jpg"))
	assert.NotContains(t, uploadedKey, "bike")
	assert.Len(t, uploadedKey, 36+len(".jpg"))

	rec := listings.Calls[0].Arguments.Get(1).(models.NewListing)
	assert.Equal(t, "Red Bike", rec.Title)
	assert.Equal(t, 100.0, rec.Price)
	assert.Equal(t, "https://cdn.example.com/abc.jpg", rec.ImageURL)
	assert.Equal(t, models.DefaultLocation, rec.Location)

	assetStore.AssertExpectations(t)
	listings.AssertExpectations(t)
}

func TestSubmit_UploadFailureAbortsWorkflow(t *testing.T) {
	assetStore := &MockAssetStore{}
	listings := &MockListingStore{}
	w := NewWorkflow(assetStore, listings, logrus.New())

	assetStore.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("bucket unreachable")).Once()

	_, err := w.Submit(context.Background(), validForm(), validImage())
	assert.True(t, FailedAt(err, StageUpload))

	assetStore.AssertNumberOfCalls(t, "PublicURL", 0)
	listings.AssertNumberOfCalls(t, "Insert", 0)
}

func TestSubmit_URLResolutionFailureSkipsInsert(t *testing.T) {
	assetStore := &MockAssetStore{}
	listings := &MockListingStore{}
	w := NewWorkflow(assetStore, listings, logrus.New())

	assetStore.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil).Once()
	assetStore.On("PublicURL", mock.Anything).
		Return("", errors.New("bucket is private")).Once()

	_, err := w.Submit(context.Background(), validForm(), validImage())
	assert.True(t, FailedAt(err, StageResolveURL))

	listings.AssertNumberOfCalls(t, "Insert", 0)
}

func TestSubmit_InsertFailureLeavesAssetOrphaned(t *testing.T) {
	assetStore := &MockAssetStore{}
	listings := &MockListingStore{}
	w := NewWorkflow(assetStore, listings, logrus.New())

	assetStore.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil).Once()
	assetStore.On("PublicURL", mock.Anything).
		Return("https://cdn.example.com/abc.jpg", nil).Once()
	listings.On("Insert", mock.Anything, mock.Anything).
		Return("", errors.New("row rejected")).Once()

	_, err := w.Submit(context.Background(), validForm(), validImage())
	assert.True(t, FailedAt(err, StageInsert))

	// Exactly one successful upload, zero successful inserts, and no
	// compensating delete of the now-orphaned asset.
	assetStore.AssertNumberOfCalls(t, "Upload", 1)
	listings.AssertNumberOfCalls(t, "Insert", 1)
	assetStore.AssertExpectations(t)
}

func TestSubmit_RejectsOverlappingSubmissions(t *testing.T) {
	assetStore := &MockAssetStore{}
	listings := &MockListingStore{}
	w := NewWorkflow(assetStore, listings, logrus.New())

	uploadStarted := make(chan struct{})
	release := make(chan struct{})

	assetStore.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			close(uploadStarted)
			<-release
		}).
		Return(nil).Once()
	assetStore.On("PublicURL", mock.Anything).
		Return("https://cdn.example.com/abc.jpg", nil).Once()
	listings.On("Insert", mock.Anything, mock.Anything).Return("listing-1", nil).Once()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := w.Submit(context.Background(), validForm(), validImage())
		assert.NoError(t, err)
	}()

	<-uploadStarted
	_, err := w.Submit(context.Background(), validForm(), validImage())
	assert.ErrorIs(t, err, ErrSubmissionInFlight)

	close(release)
	wg.Wait()

	// The guard released after completion; a new submission may start.
	assetStore.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil).Once()
	assetStore.On("PublicURL", mock.Anything).
		Return("https://cdn.example.com/def.jpg", nil).Once()
	listings.On("Insert", mock.Anything, mock.Anything).Return("listing-2", nil).Once()

	id, err := w.Submit(context.Background(), validForm(), validImage())
	assert.NoError(t, err)
	assert.Equal(t, "listing-2", id)
}

func TestSubmit_MalformedPriceReachesStoreAsNaN(t *testing.T) {
	assetStore := &MockAssetStore{}
	listings := &MockListingStore{}
	w := NewWorkflow(assetStore, listings, logrus.New())

	assetStore.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil).Once()
	assetStore.On("PublicURL", mock.Anything).
		Return("https://cdn.example.com/abc.jpg", nil).Once()
	listings.On("Insert", mock.Anything, mock.Anything).
		Return("", errors.New("invalid numeric value")).Once()

	form := validForm()
	form.Price = "not-a-number"

	_, err := w.Submit(context.Background(), form, validImage())
	assert.True(t, FailedAt(err, StageInsert))

	rec := listings.Calls[0].Arguments.Get(1).(models.NewListing)
	assert.True(t, rec.Price != rec.Price, "expected NaN price")
}
