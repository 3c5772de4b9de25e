package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/hudumahub/hudumahub/internal/models"
	apperrors "github.com/hudumahub/hudumahub/pkg/errors"
	"github.com/hudumahub/hudumahub/pkg/geo"
)

// DiscoveryService answers provider search queries. Rating aggregates are
// recomputed live from reviews on every query, never cached on the profile
// row.
type DiscoveryService struct {
	db *gorm.DB
}

// NewDiscoveryService constructs a DiscoveryService.
func NewDiscoveryService(db *gorm.DB) (*DiscoveryService, error) {
	if db == nil {
		return nil, errors.New("discovery service: db is required")
	}
	return &DiscoveryService{db: db}, nil
}

// SearchFilters narrows a provider search. Zero values mean "not filtered".
// Geo mode activates when Latitude, Longitude and RadiusKm are all set.
type SearchFilters struct {
	Query         string
	SectorID      string
	SubcategoryID string
	County        string
	Subcounty     string
	Town          string
	MinAvgRating  float64
	MaxAvgRating  float64
	MinReviews    int64
	VerifiedOnly  bool
	FeaturedOnly  bool
	Tier          models.MembershipTier

	// SortBy names a column from sortColumns, optionally prefixed with "-"
	// for descending order. Ignored in geo mode, which sorts by distance.
	SortBy string

	Latitude  *float64
	Longitude *float64
	RadiusKm  float64

	Limit  int
	Offset int
}

// SearchResult pairs a profile with its live rating aggregate. DistanceKm is
// populated only on geo searches.
type SearchResult struct {
	Profile       models.ProviderProfile `json:"profile"`
	AverageRating *float64               `json:"average_rating,omitempty"`
	ReviewCount   int64                  `json:"review_count"`
	DistanceKm    *float64               `json:"distance_km,omitempty"`
}

type aggregateRow struct {
	models.ProviderProfile
	AvgRating   *float64
	ReviewCount int64
}

var sortColumns = map[string]string{
	"updated_at":    "provider_profiles.updated_at",
	"created_at":    "provider_profiles.created_at",
	"business_name": "provider_profiles.business_name",
	"avg_rating":    "agg.avg_rating",
	"review_count":  "review_count",
}

// Search runs a filtered provider query. Non-geo results order by
// updated_at descending; geo results order by distance ascending after an
// exact haversine check inside the requested radius.
func (s *DiscoveryService) Search(ctx context.Context, filters SearchFilters) ([]SearchResult, error) {
	ctx = ensureContext(ctx)

	geoMode := filters.Latitude != nil && filters.Longitude != nil && filters.RadiusKm > 0
	if (filters.Latitude != nil) != (filters.Longitude != nil) {
		return nil, apperrors.NewValidation("location", "latitude and longitude must be supplied together")
	}
	if geoMode {
		if *filters.Latitude < -90 || *filters.Latitude > 90 {
			return nil, apperrors.NewValidation("latitude", "must be between -90 and 90")
		}
		if *filters.Longitude < -180 || *filters.Longitude > 180 {
			return nil, apperrors.NewValidation("longitude", "must be between -180 and 180")
		}
	}

	limit := filters.Limit
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	offset := filters.Offset
	if offset < 0 {
		offset = 0
	}

	query := s.aggregateQuery(ctx)

	if q := strings.TrimSpace(filters.Query); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where(
			"LOWER(provider_profiles.business_name) LIKE ? OR LOWER(provider_profiles.description) LIKE ? OR LOWER(provider_profiles.tags) LIKE ?",
			like, like, like,
		)
	}
	if filters.SectorID != "" {
		query = query.Where("provider_profiles.sector_id = ?", filters.SectorID)
	}
	if filters.SubcategoryID != "" {
		query = query.Where("provider_profiles.subcategory_id = ?", filters.SubcategoryID)
	}
	if filters.County != "" {
		query = query.Where("provider_profiles.county = ?", filters.County)
	}
	if filters.Subcounty != "" {
		query = query.Where("provider_profiles.subcounty = ?", filters.Subcounty)
	}
	if filters.Town != "" {
		query = query.Where("provider_profiles.town = ?", filters.Town)
	}
	if filters.VerifiedOnly {
		query = query.Where("provider_profiles.is_verified = ?", true)
	}
	if filters.FeaturedOnly {
		query = query.Where("provider_profiles.is_featured = ?", true)
	}
	if filters.Tier != "" {
		query = query.Where("provider_profiles.membership_tier = ?", filters.Tier)
	}

	// NULL averages fail both comparisons, so providers without reviews
	// drop out of rating-filtered results.
	if filters.MinAvgRating > 0 {
		query = query.Where("agg.avg_rating >= ?", filters.MinAvgRating)
	}
	if filters.MaxAvgRating > 0 {
		query = query.Where("agg.avg_rating <= ?", filters.MaxAvgRating)
	}
	if filters.MinReviews > 0 {
		query = query.Where("COALESCE(agg.review_count, 0) >= ?", filters.MinReviews)
	}

	if geoMode {
		minLat, maxLat, minLng, maxLng := geo.BoundingBox(*filters.Latitude, *filters.Longitude, filters.RadiusKm)
		query = query.Where(
			"provider_profiles.latitude IS NOT NULL AND provider_profiles.longitude IS NOT NULL AND provider_profiles.latitude BETWEEN ? AND ? AND provider_profiles.longitude BETWEEN ? AND ?",
			minLat, maxLat, minLng, maxLng,
		)
	} else {
		order, err := sortClause(filters.SortBy)
		if err != nil {
			return nil, err
		}
		query = query.Order(order).
			Limit(limit).
			Offset(offset)
	}

	var rows []aggregateRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("discovery service: search providers: %w", err)
	}

	results := make([]SearchResult, 0, len(rows))
	for _, row := range rows {
		result := SearchResult{
			Profile:       row.ProviderProfile,
			AverageRating: roundRating(row.AvgRating),
			ReviewCount:   row.ReviewCount,
		}
		if geoMode {
			if !row.ProviderProfile.HasCoordinate() {
				continue
			}
			dist := geo.DistanceKm(*filters.Latitude, *filters.Longitude,
				*row.ProviderProfile.Latitude, *row.ProviderProfile.Longitude)
			if dist > filters.RadiusKm {
				continue
			}
			dist = math.Round(dist*100) / 100
			result.DistanceKm = &dist
		}
		results = append(results, result)
	}

	if geoMode {
		sort.SliceStable(results, func(i, j int) bool {
			return *results[i].DistanceKm < *results[j].DistanceKm
		})
		if offset >= len(results) {
			return []SearchResult{}, nil
		}
		results = results[offset:]
		if len(results) > limit {
			results = results[:limit]
		}
	}

	return results, nil
}

// Featured runs a Search pinned to verified featured providers. Callers may
// still pass location filters to rank the featured set by distance.
func (s *DiscoveryService) Featured(ctx context.Context, filters SearchFilters) ([]SearchResult, error) {
	filters.FeaturedOnly = true
	filters.VerifiedOnly = true
	return s.Search(ctx, filters)
}

func sortClause(sortBy string) (string, error) {
	if sortBy == "" {
		return "provider_profiles.updated_at DESC", nil
	}
	field := strings.TrimPrefix(sortBy, "-")
	column, ok := sortColumns[field]
	if !ok {
		return "", apperrors.NewValidation("sort", "unsupported sort field")
	}
	if strings.HasPrefix(sortBy, "-") {
		return column + " DESC", nil
	}
	return column + " ASC", nil
}

func roundRating(avg *float64) *float64 {
	if avg == nil {
		return nil
	}
	rounded := math.Round(*avg*10) / 10
	return &rounded
}

// aggregateQuery joins profiles against a per-provider rating aggregate.
// Every review counts: moderation gates the public review listing, not the
// score. Providers with no reviews keep a NULL average and a zero count.
func (s *DiscoveryService) aggregateQuery(ctx context.Context) *gorm.DB {
	reviewAgg := s.db.Model(&models.Review{}).
		Select("provider_id, AVG(rating) AS avg_rating, COUNT(*) AS review_count").
		Group("provider_id")

	return s.db.WithContext(ctx).
		Model(&models.ProviderProfile{}).
		Select("provider_profiles.*, agg.avg_rating AS avg_rating, COALESCE(agg.review_count, 0) AS review_count").
		Joins("LEFT JOIN (?) AS agg ON agg.provider_id = provider_profiles.id", reviewAgg)
}
