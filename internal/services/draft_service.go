// internal/services/draft_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/nexttrack07/sellerwrite-app-sub000/internal/ai"
	"github.com/nexttrack07/sellerwrite-app-sub000/internal/config"
	"github.com/nexttrack07/sellerwrite-app-sub000/internal/models"
	"github.com/nexttrack07/sellerwrite-app-sub000/internal/wizard"
)

const (
	sessionIdleTTL       = 30 * time.Minute
	sessionSweepInterval = 5 * time.Minute
)

// liveSession pairs a controller with its last access time so idle entries
// can be swept.
type liveSession struct {
	controller *wizard.Controller
	lastSeen   time.Time
}

// DraftService owns wizard sessions: an in-memory registry of live
// controllers plus their persisted snapshots in draft_sessions. A session
// evicted from memory (idle sweep, completion, restart, other instance) is
// rehydrated from its snapshot on the next access.
type DraftService struct {
	db             *gorm.DB
	products       wizard.ProductDataProvider
	aiClient       *ai.Client
	listingService *ListingService
	storageService *StorageService
	aiTimeout      time.Duration
	log            *logrus.Entry

	mu       sync.Mutex
	sessions map[uuid.UUID]*liveSession
}

func NewDraftService(db *gorm.DB, products wizard.ProductDataProvider, aiClient *ai.Client, listingService *ListingService, storageService *StorageService, cfg config.AIConfig) *DraftService {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	svc := &DraftService{
		db:             db,
		products:       products,
		aiClient:       aiClient,
		listingService: listingService,
		storageService: storageService,
		aiTimeout:      timeout,
		log:            logrus.WithField("component", "draft_service"),
		sessions:       make(map[uuid.UUID]*liveSession),
	}

	// Sweep idle and completed controllers out of memory; their snapshots
	// stay in draft_sessions and rehydrate on the next access
	go svc.sweepSessions()

	return svc
}

func (s *DraftService) sweepSessions() {
	for {
		time.Sleep(sessionSweepInterval)
		s.evictStaleSessions(time.Now())
	}
}

func (s *DraftService) evictStaleSessions(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, entry := range s.sessions {
		if entry.controller.Snapshot().Completed || now.Sub(entry.lastSeen) > sessionIdleTTL {
			delete(s.sessions, id)
		}
	}
}

// NewSession creates a fresh wizard session for the user.
func (s *DraftService) NewSession(userID uuid.UUID) (*models.DraftSession, *wizard.Controller, error) {
	controller := s.newController(userID)

	snapshot, err := wizard.MarshalSnapshot(controller.Snapshot())
	if err != nil {
		return nil, nil, err
	}

	session := &models.DraftSession{
		UserID: userID,
		State:  models.RawJSON(snapshot),
	}
	if err := s.db.Create(session).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to create draft session: %w", err)
	}

	s.mu.Lock()
	s.sessions[session.ID] = &liveSession{controller: controller, lastSeen: time.Now()}
	s.mu.Unlock()

	return session, controller, nil
}

// Session returns the live controller for the session, rehydrating it from
// the persisted snapshot if needed.
func (s *DraftService) Session(sessionID uuid.UUID, userID uuid.UUID) (*wizard.Controller, error) {
	record, err := s.find(sessionID, userID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if entry, ok := s.sessions[sessionID]; ok {
		entry.lastSeen = time.Now()
		s.mu.Unlock()
		return entry.controller, nil
	}
	s.mu.Unlock()

	snap, err := wizard.UnmarshalSnapshot([]byte(record.State))
	if err != nil {
		return nil, err
	}

	controller := s.newController(userID)
	controller.Restore(snap)

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.sessions[sessionID]; ok {
		existing.lastSeen = time.Now()
		return existing.controller, nil
	}
	s.sessions[sessionID] = &liveSession{controller: controller, lastSeen: time.Now()}
	return controller, nil
}

// Persist writes the session's current snapshot back to storage. Called
// after every mutating wizard operation.
func (s *DraftService) Persist(sessionID uuid.UUID, userID uuid.UUID) error {
	s.mu.Lock()
	entry, ok := s.sessions[sessionID]
	s.mu.Unlock()
	if !ok {
		return nil
	}
	controller := entry.controller

	snap := controller.Snapshot()
	data, err := wizard.MarshalSnapshot(snap)
	if err != nil {
		return err
	}

	updates := map[string]interface{}{
		"state":     models.RawJSON(data),
		"completed": snap.Completed,
	}
	if snap.ListingID != "" {
		if listingID, err := uuid.Parse(snap.ListingID); err == nil {
			updates["listing_id"] = listingID
		}
	}

	if err := s.db.Model(&models.DraftSession{}).
		Where("id = ? AND user_id = ?", sessionID, userID).
		Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to persist draft session: %w", err)
	}

	// Completed drafts are read-only from here on; drop the live controller
	// and serve later reads from the snapshot
	if snap.Completed {
		s.mu.Lock()
		delete(s.sessions, sessionID)
		s.mu.Unlock()
	}
	return nil
}

// ListSessions returns the user's sessions, most recently touched first.
func (s *DraftService) ListSessions(userID uuid.UUID) ([]models.DraftSession, error) {
	var sessions []models.DraftSession
	if err := s.db.Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch draft sessions: %w", err)
	}
	return sessions, nil
}

// DeleteSession drops the session from memory and storage.
func (s *DraftService) DeleteSession(sessionID uuid.UUID, userID uuid.UUID) error {
	record, err := s.find(sessionID, userID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(record).Error; err != nil {
		return fmt.Errorf("failed to delete draft session: %w", err)
	}

	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	return nil
}

func (s *DraftService) find(sessionID uuid.UUID, userID uuid.UUID) (*models.DraftSession, error) {
	var record models.DraftSession
	if err := s.db.Where("user_id = ?", userID).First(&record, sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("draft session not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &record, nil
}

func (s *DraftService) newController(userID uuid.UUID) *wizard.Controller {
	extractor := &aiKeywordExtractor{client: s.aiClient, timeout: s.aiTimeout}
	generator := &draftGenerator{service: s, userID: userID}
	return wizard.NewController(s.products, extractor, generator)
}

// aiKeywordExtractor adapts the AI client to wizard.KeywordExtractor.
type aiKeywordExtractor struct {
	client  *ai.Client
	timeout time.Duration
}

func (e *aiKeywordExtractor) ExtractKeywords(ctx context.Context, title, description string, bulletPoints []string) ([]wizard.ExtractedKeyword, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	extracted, err := e.client.ExtractKeywords(ctx, title, description, bulletPoints)
	if err != nil {
		return nil, err
	}

	out := make([]wizard.ExtractedKeyword, 0, len(extracted))
	for _, kw := range extracted {
		out = append(out, wizard.ExtractedKeyword{
			Keyword:      kw.Keyword,
			SearchVolume: kw.SearchVolume,
			Competition:  kw.Competition,
			Relevance:    kw.Relevance,
		})
	}
	return out, nil
}

// draftGenerator adapts generation to wizard.ListingGenerator: it calls the
// model, mirrors product images to object storage, and persists the listing
// with its first version, returning the stored id.
type draftGenerator struct {
	service *DraftService
	userID  uuid.UUID
}

func (g *draftGenerator) GenerateListing(ctx context.Context, req wizard.GenerateRequest) (*wizard.GeneratedListing, error) {
	ctx, cancel := context.WithTimeout(ctx, g.service.aiTimeout)
	defer cancel()

	params := ai.GenerateParams{
		ASINs:          req.ASINs,
		ProductNotes:   req.ProductNotes,
		Keywords:       req.Keywords,
		Style:          string(req.Style),
		Tone:           req.Tone,
		KeywordDensity: req.KeywordDensity,
	}
	var images []string
	for _, product := range req.Products {
		params.ProductTitles = append(params.ProductTitles, product.Title)
		images = append(images, product.Images...)
	}

	generated, err := g.service.aiClient.GenerateListing(ctx, params)
	if err != nil {
		return nil, err
	}

	// Image mirroring is best-effort; a storage failure never fails the
	// generation the user is waiting on.
	mirrored, err := g.service.storageService.MirrorImages(ctx, images, "listings")
	if err != nil {
		g.service.log.WithError(err).Warn("Failed to mirror product images")
		mirrored = nil
	}

	listing, err := g.service.listingService.CreateWithVersion(g.userID, CreateListingInput{
		SourceASINs:  req.ASINs,
		Style:        string(req.Style),
		Tone:         req.Tone,
		Images:       mirrored,
		Title:        generated.Title,
		Description:  generated.Description,
		BulletPoints: generated.BulletPoints,
		Keywords:     req.Keywords,
		KeywordsUsed: map[string][]string{
			"title":       generated.TitleKeywords,
			"features":    generated.FeatureKeywords,
			"description": generated.DescriptionKeywords,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to persist generated listing: %w", err)
	}

	return &wizard.GeneratedListing{
		Title:        generated.Title,
		BulletPoints: generated.BulletPoints,
		Description:  generated.Description,
		ListingID:    listing.ID.String(),
	}, nil
}
