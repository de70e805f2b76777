// internal/services/analysis_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/nexttrack07/sellerwrite-app-sub000/internal/ai"
	"github.com/nexttrack07/sellerwrite-app-sub000/internal/models"
)

// AnalysisService produces AI quality scores for listing versions. A request
// creates a pending record and scores it in the background; clients poll the
// record for the outcome.
type AnalysisService struct {
	db             *gorm.DB
	aiClient       *ai.Client
	listingService *ListingService
	timeout        time.Duration
	log            *logrus.Entry
}

func NewAnalysisService(db *gorm.DB, aiClient *ai.Client, listingService *ListingService) *AnalysisService {
	return &AnalysisService{
		db:             db,
		aiClient:       aiClient,
		listingService: listingService,
		timeout:        2 * time.Minute,
		log:            logrus.WithField("component", "analysis_service"),
	}
}

// RequestAnalysis starts scoring the listing's current version.
func (s *AnalysisService) RequestAnalysis(listingID uuid.UUID, userID uuid.UUID) (*models.ListingAnalysis, error) {
	version, err := s.listingService.CurrentVersion(listingID, userID)
	if err != nil {
		return nil, err
	}

	// Reuse an in-flight analysis rather than stacking duplicates.
	var pending models.ListingAnalysis
	err = s.db.Where("version_id = ? AND status = ?", version.ID, models.AnalysisStatusPending).
		First(&pending).Error
	if err == nil {
		return &pending, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("database error: %w", err)
	}

	analysis := &models.ListingAnalysis{
		ListingID: listingID,
		VersionID: version.ID,
		Status:    models.AnalysisStatusPending,
	}
	if err := s.db.Create(analysis).Error; err != nil {
		return nil, fmt.Errorf("failed to create analysis: %w", err)
	}

	go s.process(analysis.ID, version)

	return analysis, nil
}

// GetAnalyses returns the listing's analyses, newest first.
func (s *AnalysisService) GetAnalyses(listingID uuid.UUID, userID uuid.UUID) ([]models.ListingAnalysis, error) {
	if _, err := s.listingService.GetListing(listingID, userID); err != nil {
		return nil, err
	}

	var analyses []models.ListingAnalysis
	if err := s.db.Where("listing_id = ?", listingID).
		Order("created_at DESC").
		Find(&analyses).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch analyses: %w", err)
	}
	return analyses, nil
}

// GetAnalysis returns one analysis scoped to the user's listing.
func (s *AnalysisService) GetAnalysis(listingID, analysisID uuid.UUID, userID uuid.UUID) (*models.ListingAnalysis, error) {
	if _, err := s.listingService.GetListing(listingID, userID); err != nil {
		return nil, err
	}

	var analysis models.ListingAnalysis
	if err := s.db.Where("listing_id = ?", listingID).
		First(&analysis, analysisID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("analysis not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &analysis, nil
}

func (s *AnalysisService) process(analysisID uuid.UUID, version *models.ListingVersion) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	scores, err := s.aiClient.ScoreListing(ctx, version.Title, version.BulletPoints, version.Description)
	if err != nil {
		s.log.WithField("analysis_id", analysisID).WithError(err).Warn("Listing scoring failed")
		s.db.Model(&models.ListingAnalysis{}).Where("id = ?", analysisID).Updates(map[string]interface{}{
			"status": models.AnalysisStatusFailed,
			"error":  err.Error(),
		})
		return
	}

	s.db.Model(&models.ListingAnalysis{}).Where("id = ?", analysisID).Updates(map[string]interface{}{
		"status": models.AnalysisStatusCompleted,
		"scores": models.JSONB{
			"overall":     scores.Overall,
			"title":       scores.Title,
			"features":    scores.Features,
			"description": scores.Description,
			"keywords":    scores.Keywords,
			"summary":     scores.Summary,
			"suggestions": scores.Suggestions,
		},
	})
}
