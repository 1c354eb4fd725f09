package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DefaultLocation is used when a listing is created without a location.
const DefaultLocation = "Philippines"

// PlaceholderImage is served when a listing has no usable image URL.
const PlaceholderImage = "/placeholder.jpg"

// Price is the text-encoded price as stored by the listing store. Stores
// return it as either a JSON number or a JSON string, so decoding accepts
// both; numeric comparison always goes through Float.
type Price string

func (p *Price) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*p = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*p = Price(v)
		return nil
	}
	*p = Price(s)
	return nil
}

func (p Price) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(p))
}

// Float parses the price for numeric comparison. The second return value
// is false when the text does not encode a finite number; "NaN" and
// "Inf" spellings are treated like any other non-numeric text.
func (p Price) Float() (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(string(p)), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func (p Price) String() string {
	return string(p)
}

type Listing struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       Price     `json:"price"`
	Category    string    `json:"category"`
	Email       string    `json:"email"`
	ImageURL    string    `json:"image_url"`
	Location    string    `json:"location"`
	CreatedAt   time.Time `json:"created_at"`
}

// ListingForm carries the user-entered fields of a new listing.
type ListingForm struct {
	Title       string `form:"title" binding:"required"`
	Description string `form:"description" binding:"required"`
	Price       string `form:"price" binding:"required"`
	Email       string `form:"email" binding:"required"`
	Category    string `form:"category" binding:"required"`
	Location    string `form:"location"`
}

// NewListing is the record inserted into the listing store. Price is
// coerced from the form's text field to a number before insert.
type NewListing struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Email       string  `json:"email"`
	Category    string  `json:"category"`
	ImageURL    string  `json:"image_url"`
	Location    string  `json:"location"`
}

// ImageFile is the binary asset attached to a new listing. Only the
// extension of the original name survives upload.
type ImageFile struct {
	Name        string
	ContentType string
	Data        []byte
}

var relativeUnits = []struct {
	name    string
	seconds int64
}{
	{"year", 31536000},
	{"month", 2592000},
	{"day", 86400},
	{"hour", 3600},
	{"minute", 60},
	{"second", 1},
}

// RelativeTime renders the age of a timestamp the way the listing grid
// displays it ("3 days ago", "just now").
func RelativeTime(t, now time.Time) string {
	diff := int64(now.Sub(t).Seconds())
	for _, unit := range relativeUnits {
		value := diff / unit.seconds
		if value > 0 {
			if value > 1 {
				return fmt.Sprintf("%d %ss ago", value, unit.name)
			}
			return fmt.Sprintf("1 %s ago", unit.name)
		}
	}
	return "just now"
}
