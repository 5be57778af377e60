package services

import (
	"errors"
	"strings"

	"github.com/booknest/booknest-server/internal/models"
)

const (
	FilterCity    = "city"
	FilterPincode = "pincode"
	FilterArea    = "area"
)

var ErrInvalidFilter = errors.New("filter_by must be one of: city, pincode, area")

// CatalogEntry is a post joined with its owner's profile.
type CatalogEntry struct {
	Post  models.Post
	Owner *models.User
}

// CatalogViewer is what the visibility rules need to know about the viewer.
// A viewer without a profile has UserID 0 and sees everything.
type CatalogViewer struct {
	UserID  uint
	Profile *models.User
	Applied map[uint]bool
}

type CatalogQuery struct {
	Search   string
	FilterBy string
}

// ParseFilter validates a filter_by value. Empty means no location filter.
func ParseFilter(raw string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(raw)); f {
	case "", FilterCity, FilterPincode, FilterArea:
		return f, nil
	default:
		return "", ErrInvalidFilter
	}
}

// FilterCatalog applies the visibility rules, then search and the optional
// location filter. approved holds post IDs with an approved application.
// The returned flag is false when no location filter was applied.
func FilterCatalog(entries []CatalogEntry, viewer CatalogViewer, approved map[uint]bool, q CatalogQuery) ([]CatalogEntry, bool) {
	search := strings.ToLower(strings.TrimSpace(q.Search))
	viewerValue := ""
	if viewer.Profile != nil {
		viewerValue = normalizeLocation(locationField(viewer.Profile, q.FilterBy))
	}
	filterActive := q.FilterBy != "" && viewerValue != ""

	out := make([]CatalogEntry, 0, len(entries))
	for _, e := range entries {
		if viewer.UserID != 0 && e.Post.UserID == viewer.UserID {
			continue
		}
		if viewer.Applied[e.Post.ID] {
			continue
		}
		if approved[e.Post.ID] {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(e.Post.Title), search) &&
			!strings.Contains(strings.ToLower(e.Post.Subject), search) {
			continue
		}
		if filterActive {
			if e.Owner == nil || normalizeLocation(locationField(e.Owner, q.FilterBy)) != viewerValue {
				continue
			}
		}
		out = append(out, e)
	}
	return out, filterActive
}

func locationField(u *models.User, field string) string {
	switch field {
	case FilterCity:
		return u.City
	case FilterPincode:
		return u.Pincode
	case FilterArea:
		return u.Area
	}
	return ""
}

func normalizeLocation(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}
