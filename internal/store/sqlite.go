package store

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/vidarr1412/projectFacebook-MarketPlace/internal/models"
)

// listingRecord is the local table layout. Price is stored numerically;
// the text encoding only exists on the wire.
type listingRecord struct {
	ID          string    `gorm:"primaryKey;size:36"`
	Title       string    `gorm:"not null"`
	Description string
	Price       float64
	Category    string `gorm:"index"`
	Email       string
	ImageURL    string
	Location    string
	CreatedAt   time.Time `gorm:"index"`
}

func (listingRecord) TableName() string {
	return "listings"
}

// SQLiteStore keeps listings in a local sqlite file. Used by self-hosted
// deployments and development setups that run without a hosted backend.
type SQLiteStore struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewSQLiteStore(dbPath string, logger *logrus.Logger) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&listingRecord{}); err != nil {
		return nil, err
	}

	return &SQLiteStore{db: db, logger: logger}, nil
}

func (s *SQLiteStore) ListAll(ctx context.Context) ([]models.Listing, error) {
	var records []listingRecord
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&records).Error
	if err != nil {
		return nil, err
	}

	listings := make([]models.Listing, len(records))
	for i, rec := range records {
		listings[i] = rec.toListing()
	}
	return listings, nil
}

func (s *SQLiteStore) GetByID(ctx context.Context, id string) (*models.Listing, error) {
	var rec listingRecord
	err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	listing := rec.toListing()
	return &listing, nil
}

func (s *SQLiteStore) Insert(ctx context.Context, rec models.NewListing) (string, error) {
	record := listingRecord{
		ID:          uuid.NewString(),
		Title:       rec.Title,
		Description: rec.Description,
		Price:       rec.Price,
		Category:    rec.Category,
		Email:       rec.Email,
		ImageURL:    rec.ImageURL,
		Location:    rec.Location,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return "", err
	}
	return record.ID, nil
}

func (r listingRecord) toListing() models.Listing {
	return models.Listing{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Price:       models.Price(strconv.FormatFloat(r.Price, 'f', -1, 64)),
		Category:    r.Category,
		Email:       r.Email,
		ImageURL:    r.ImageURL,
		Location:    r.Location,
		CreatedAt:   r.CreatedAt,
	}
}
