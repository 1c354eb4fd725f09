package api

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/vidarr1412/projectFacebook-MarketPlace/config"
	"github.com/vidarr1412/projectFacebook-MarketPlace/internal/models"
	"github.com/vidarr1412/projectFacebook-MarketPlace/internal/projection"
	"github.com/vidarr1412/projectFacebook-MarketPlace/internal/queue"
	"github.com/vidarr1412/projectFacebook-MarketPlace/internal/store"
	"github.com/vidarr1412/projectFacebook-MarketPlace/internal/submit"
)

type Handler struct {
	store    store.ListingStore
	workflow *submit.Workflow
	contacts *queue.ContactQueue
	logger   *logrus.Logger
}

// ListingQuery carries the projection inputs of a browse request.
type ListingQuery struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	Price    string `form:"price"`
	Date     string `form:"date"`
}

// ListingView is a listing as rendered to clients: placeholder image and
// default location filled in, plus the relative age of the posting.
type ListingView struct {
	models.Listing
	Posted string `json:"posted"`
}

func NewHandler(listings store.ListingStore, workflow *submit.Workflow, contacts *queue.ContactQueue, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	return &Handler{
		store:    listings,
		workflow: workflow,
		contacts: contacts,
		logger:   logger,
	}
}

// GetListings returns the projected listing collection. The baseline is
// fetched fresh per request and projected in full; a fetch failure is
// reported as an empty collection, not an error.
func (h *Handler) GetListings(c *gin.Context) {
	var query ListingQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.logger.WithError(err).Error("Failed to parse listing query")
	}
	if query.Price == "" {
		query.Price = projection.PriceAll
	}
	if query.Date == "" {
		query.Date = projection.DateLatest
	}

	baseline, err := h.store.ListAll(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch listings")
		baseline = nil
	}

	listings := projection.Project(baseline, projection.Inputs{
		Search:   query.Search,
		Category: query.Category,
		Price:    query.Price,
		Date:     query.Date,
	})

	now := time.Now()
	views := make([]ListingView, len(listings))
	for i, listing := range listings {
		views[i] = newListingView(listing, now)
	}

	c.JSON(http.StatusOK, views)
}

func (h *Handler) GetListing(c *gin.Context) {
	id := c.Param("id")

	listing, err := h.store.GetByID(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to get listing")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get listing"})
		return
	}

	c.JSON(http.StatusOK, newListingView(*listing, time.Now()))
}

// CreateListing runs the submission workflow on a multipart form.
func (h *Handler) CreateListing(c *gin.Context) {
	var form models.ListingForm
	if err := c.ShouldBind(&form); err != nil {
		h.logger.WithError(err).Error("Invalid listing form")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing form"})
		return
	}

	image, err := h.readImage(c)
	if err != nil {
		h.logger.WithError(err).Error("Failed to read uploaded image")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read uploaded image"})
		return
	}

	id, err := h.workflow.Submit(c.Request.Context(), form, image)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, gin.H{"id": id})
	case errors.Is(err, submit.ErrNoImage):
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image selected"})
	case errors.Is(err, submit.ErrSubmissionInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": "A submission is already in progress"})
	default:
		h.logger.WithError(err).Error("Failed to create listing")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to create listing"})
	}
}

// ContactSeller queues a message to the listing's seller. The relay call
// happens on the dispatcher, never on this request.
func (h *Handler) ContactSeller(c *gin.Context) {
	var req models.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Invalid contact request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid contact request"})
		return
	}

	id := c.Param("id")
	listing, err := h.store.GetByID(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to get listing for contact")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get listing"})
		return
	}

	msg := &models.ContactMessage{
		ToEmail:      listing.Email,
		ListingID:    listing.ID,
		ListingTitle: listing.Title,
		ReplyTo:      req.ReplyTo,
		Message:      req.Message,
	}

	if err := h.contacts.Push(msg); err != nil {
		h.logger.WithError(err).Error("Failed to queue contact message")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Unable to accept message right now"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "Message queued"})
}

func (h *Handler) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"browse": config.GetBrowseCategories(),
		"create": config.GetCreateCategories(),
	})
}

// readImage pulls the multipart image into memory. A missing file field
// is not an error here; the workflow rejects the nil image before any
// network call.
func (h *Handler) readImage(c *gin.Context) (*models.ImageFile, error) {
	fileHeader, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer func(f multipart.File) { _ = f.Close() }(file)

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	return &models.ImageFile{
		Name:        fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func newListingView(listing models.Listing, now time.Time) ListingView {
	if listing.ImageURL == "" {
		listing.ImageURL = models.PlaceholderImage
	}
	if listing.Location == "" {
		listing.Location = models.DefaultLocation
	}
	return ListingView{
		Listing: listing,
		Posted:  models.RelativeTime(listing.CreatedAt, now),
	}
}
