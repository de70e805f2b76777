// internal/services/listing_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/nexttrack07/sellerwrite-app-sub000/internal/database"
	"github.com/nexttrack07/sellerwrite-app-sub000/internal/keywords"
	"github.com/nexttrack07/sellerwrite-app-sub000/internal/models"
	"github.com/nexttrack07/sellerwrite-app-sub000/internal/utils"
)

type ListingService struct {
	db *gorm.DB
}

func NewListingService(db *gorm.DB) *ListingService {
	return &ListingService{db: db}
}

// CreateListingInput carries everything needed to persist a freshly
// generated listing with its first version.
type CreateListingInput struct {
	Marketplace  string
	SourceASINs  []string
	Style        string
	Tone         int
	Images       []string
	Title        string
	Description  string
	BulletPoints []string
	Keywords     []string
	KeywordsUsed map[string][]string
}

// ReplaceContentRequest creates a new version with full content. This is
// deliberately a separate operation from UpdateKeywordTags.
type ReplaceContentRequest struct {
	Title        string   `json:"title" validate:"required,min=3,max=500"`
	Description  string   `json:"description" validate:"required,min=10"`
	BulletPoints []string `json:"bullet_points" validate:"required,min=1,dive,required"`
	Keywords     []string `json:"keywords,omitempty"`
}

// UpdateKeywordTagsRequest updates only the keyword tags of an existing
// version, leaving its content untouched.
type UpdateKeywordTagsRequest struct {
	Keywords []string `json:"keywords" validate:"required"`
}

// CreateWithVersion persists a listing and its first version (marked
// current) in one transaction.
func (s *ListingService) CreateWithVersion(userID uuid.UUID, input CreateListingInput) (*models.Listing, error) {
	marketplace := input.Marketplace
	if marketplace == "" {
		marketplace = "US"
	}

	keywordsUsed := models.JSONB{}
	for fragment, tags := range input.KeywordsUsed {
		keywordsUsed[fragment] = tags
	}

	listing := &models.Listing{
		UserID:      userID,
		Marketplace: marketplace,
		SourceASINs: pq.StringArray(input.SourceASINs),
		Style:       input.Style,
		Tone:        input.Tone,
		Images:      pq.StringArray(input.Images),
		Status:      models.ListingStatusActive,
	}

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Create(listing).Error; err != nil {
			return fmt.Errorf("failed to create listing: %w", err)
		}

		version := &models.ListingVersion{
			ListingID:     listing.ID,
			VersionNumber: 1,
			Title:         input.Title,
			Description:   input.Description,
			BulletPoints:  pq.StringArray(input.BulletPoints),
			Keywords:      pq.StringArray(input.Keywords),
			KeywordsUsed:  keywordsUsed,
			IsCurrent:     true,
		}
		if err := tx.Create(version).Error; err != nil {
			return fmt.Errorf("failed to create initial version: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.db.Preload("Versions").First(listing, listing.ID)
	return listing, nil
}

func (s *ListingService) GetListing(id uuid.UUID, userID uuid.UUID) (*models.Listing, error) {
	var listing models.Listing
	if err := s.db.Where("user_id = ?", userID).
		Preload("Versions", func(db *gorm.DB) *gorm.DB {
			return db.Order("version_number DESC")
		}).
		First(&listing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("listing not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &listing, nil
}

func (s *ListingService) ListListings(userID uuid.UUID, params utils.PaginationParams) ([]models.Listing, int64, error) {
	query := s.db.Model(&models.Listing{}).Where("user_id = ?", userID)

	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}

	if params.Search != "" {
		query = query.Joins("JOIN listing_versions ON listing_versions.listing_id = listings.id AND listing_versions.is_current").
			Where("LOWER(listing_versions.title) LIKE ?", "%"+strings.ToLower(params.Search)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count listings: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "status", "marketplace"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var listings []models.Listing
	if err := query.Preload("Versions", "is_current").Find(&listings).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch listings: %w", err)
	}

	return listings, total, nil
}

func (s *ListingService) DeleteListing(id uuid.UUID, userID uuid.UUID) error {
	var listing models.Listing
	if err := s.db.Where("user_id = ?", userID).First(&listing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("listing not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	// Soft delete
	if err := s.db.Delete(&listing).Error; err != nil {
		return fmt.Errorf("failed to delete listing: %w", err)
	}
	return nil
}

func (s *ListingService) ListVersions(listingID uuid.UUID, userID uuid.UUID) ([]models.ListingVersion, error) {
	if _, err := s.GetListing(listingID, userID); err != nil {
		return nil, err
	}

	var versions []models.ListingVersion
	if err := s.db.Where("listing_id = ?", listingID).
		Order("version_number DESC").
		Find(&versions).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch versions: %w", err)
	}
	return versions, nil
}

// CurrentVersion returns the single version flagged current.
func (s *ListingService) CurrentVersion(listingID uuid.UUID, userID uuid.UUID) (*models.ListingVersion, error) {
	if _, err := s.GetListing(listingID, userID); err != nil {
		return nil, err
	}

	var version models.ListingVersion
	if err := s.db.Where("listing_id = ? AND is_current", listingID).
		First(&version).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("version not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &version, nil
}

// ReplaceContent appends a new version carrying the given content and makes
// it current. The previous current version is preserved for history.
func (s *ListingService) ReplaceContent(listingID uuid.UUID, userID uuid.UUID, req *ReplaceContentRequest) (*models.ListingVersion, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if _, err := s.GetListing(listingID, userID); err != nil {
		return nil, err
	}

	version := &models.ListingVersion{
		ListingID:    listingID,
		Title:        req.Title,
		Description:  req.Description,
		BulletPoints: pq.StringArray(req.BulletPoints),
		Keywords:     pq.StringArray(req.Keywords),
		IsCurrent:    true,
	}

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var maxNumber int
		if err := tx.Model(&models.ListingVersion{}).
			Where("listing_id = ?", listingID).
			Select("COALESCE(MAX(version_number), 0)").
			Scan(&maxNumber).Error; err != nil {
			return fmt.Errorf("failed to determine version number: %w", err)
		}
		version.VersionNumber = maxNumber + 1

		// Clear the current flag before inserting the replacement so the
		// one-current-per-listing index is never violated.
		if err := tx.Model(&models.ListingVersion{}).
			Where("listing_id = ? AND is_current", listingID).
			Update("is_current", false).Error; err != nil {
			return fmt.Errorf("failed to clear current version: %w", err)
		}

		if err := tx.Create(version).Error; err != nil {
			return fmt.Errorf("failed to create version: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return version, nil
}

// UpdateKeywordTags rewrites only the keyword tags of one version.
func (s *ListingService) UpdateKeywordTags(listingID, versionID uuid.UUID, userID uuid.UUID, req *UpdateKeywordTagsRequest) (*models.ListingVersion, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	version, err := s.getVersion(listingID, versionID, userID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(version).Update("keywords", pq.StringArray(req.Keywords)).Error; err != nil {
		return nil, fmt.Errorf("failed to update keyword tags: %w", err)
	}

	s.db.First(version, version.ID)
	return version, nil
}

// SetCurrentVersion flips the current flag to the given version inside one
// transaction, keeping the at-most-one-current invariant.
func (s *ListingService) SetCurrentVersion(listingID, versionID uuid.UUID, userID uuid.UUID) (*models.ListingVersion, error) {
	version, err := s.getVersion(listingID, versionID, userID)
	if err != nil {
		return nil, err
	}

	err = database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Model(&models.ListingVersion{}).
			Where("listing_id = ? AND is_current", listingID).
			Update("is_current", false).Error; err != nil {
			return fmt.Errorf("failed to clear current version: %w", err)
		}
		if err := tx.Model(&models.ListingVersion{}).
			Where("id = ?", versionID).
			Update("is_current", true).Error; err != nil {
			return fmt.Errorf("failed to set current version: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.db.First(version, version.ID)
	return version, nil
}

// KeywordUsage derives the usage-map view for the listing's current version.
func (s *ListingService) KeywordUsage(listingID uuid.UUID, userID uuid.UUID, active string) ([]keywords.KeywordUsage, error) {
	version, err := s.CurrentVersion(listingID, userID)
	if err != nil {
		return nil, err
	}

	fragment := func(name string) *keywords.Fragment {
		return &keywords.Fragment{KeywordsUsed: version.FragmentKeywords(name)}
	}

	return keywords.UsageMap(
		fragment(keywords.ComponentTitle),
		fragment(keywords.ComponentFeatures),
		fragment(keywords.ComponentDescription),
		active,
	), nil
}

func (s *ListingService) getVersion(listingID, versionID uuid.UUID, userID uuid.UUID) (*models.ListingVersion, error) {
	if _, err := s.GetListing(listingID, userID); err != nil {
		return nil, err
	}

	var version models.ListingVersion
	if err := s.db.Where("listing_id = ?", listingID).
		First(&version, versionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("version not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &version, nil
}
