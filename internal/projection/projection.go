// Package projection derives the displayed listing collection from an
// immutable baseline and the current search/filter/sort inputs.
package projection

import (
	"sort"
	"strings"

	"github.com/vidarr1412/projectFacebook-MarketPlace/internal/models"
)

// Price filter values. Anything else leaves price order untouched.
const (
	PriceAll  = "all"
	PriceLow  = "low"
	PriceHigh = "high"
)

// Date filter values. Anything else leaves date order untouched.
const (
	DateLatest = "latest"
	DateOldest = "oldest"
)

// Inputs is the immutable set of projection parameters. The zero value
// means "no search, no category filter, no reordering".
type Inputs struct {
	Search   string
	Category string
	Price    string
	Date     string
}

// Project recomputes the displayed collection from baseline. It never
// mutates baseline and is deterministic for fixed arguments.
//
// The price sort and the date sort are applied sequentially, so when both
// are active the date sort runs last and dominates the final order. That
// is observed behavior, not a composite multi-key sort.
func Project(baseline []models.Listing, in Inputs) []models.Listing {
	filtered := make([]models.Listing, len(baseline))
	copy(filtered, baseline)

	if query := strings.TrimSpace(in.Search); query != "" {
		query = strings.ToLower(query)
		matched := filtered[:0]
		for _, listing := range filtered {
			if strings.Contains(strings.ToLower(listing.Title), query) {
				matched = append(matched, listing)
			}
		}
		filtered = matched
	}

	if in.Category != "" {
		matched := filtered[:0]
		for _, listing := range filtered {
			if listing.Category == in.Category {
				matched = append(matched, listing)
			}
		}
		filtered = matched
	}

	switch in.Price {
	case PriceLow:
		sortByPrice(filtered, true)
	case PriceHigh:
		sortByPrice(filtered, false)
	}

	switch in.Date {
	case DateLatest:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
		})
	case DateOldest:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].CreatedAt.Before(filtered[j].CreatedAt)
		})
	}

	return filtered
}

// sortByPrice stable-sorts by numeric price. Unparseable prices sort
// after every parseable one and keep their relative order.
func sortByPrice(listings []models.Listing, ascending bool) {
	sort.SliceStable(listings, func(i, j int) bool {
		a, aOK := listings[i].Price.Float()
		b, bOK := listings[j].Price.Float()
		if !aOK {
			return false
		}
		if !bOK {
			return true
		}
		if ascending {
			return a < b
		}
		return a > b
	})
}
