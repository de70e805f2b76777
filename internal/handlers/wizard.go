// internal/handlers/wizard.go
package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nexttrack07/sellerwrite-app-sub000/internal/i18n"
	"github.com/nexttrack07/sellerwrite-app-sub000/internal/services"
	"github.com/nexttrack07/sellerwrite-app-sub000/internal/utils"
	"github.com/nexttrack07/sellerwrite-app-sub000/internal/wizard"
)

type WizardHandler struct {
	draftService *services.DraftService
}

func NewWizardHandler(draftService *services.DraftService) *WizardHandler {
	return &WizardHandler{
		draftService: draftService,
	}
}

// POST /wizard/sessions
func (h *WizardHandler) CreateSession(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	session, controller, err := h.draftService.NewSession(userID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.CreatedResponse(c, gin.H{
		"session_id": session.ID,
		"state":      controller.Snapshot(),
	})
}

// GET /wizard/sessions
func (h *WizardHandler) ListSessions(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	sessions, err := h.draftService.ListSessions(userID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"sessions": sessions,
	})
}

// GET /wizard/sessions/:id
func (h *WizardHandler) GetSession(c *gin.Context) {
	controller, _, _, ok := h.session(c)
	if !ok {
		return
	}

	utils.SuccessResponse(c, gin.H{
		"state": controller.Snapshot(),
	})
}

// DELETE /wizard/sessions/:id
func (h *WizardHandler) DeleteSession(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid session ID", nil)
		return
	}

	if err := h.draftService.DeleteSession(sessionID, userID); err != nil {
		h.mapServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyDraftDeleted),
	})
}

// POST /wizard/sessions/:id/asins
func (h *WizardHandler) AddASINs(c *gin.Context) {
	controller, sessionID, userID, ok := h.session(c)
	if !ok {
		return
	}

	var req struct {
		Input string `json:"input" validate:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
		return
	}

	added, invalid := controller.AddASINs(req.Input)
	h.persist(c, sessionID, userID)

	utils.SuccessResponse(c, gin.H{
		"added":   added,
		"invalid": invalid,
		"asins":   controller.Asins(),
	})
}

// DELETE /wizard/sessions/:id/asins/:asin
func (h *WizardHandler) RemoveASIN(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	controller, sessionID, userID, ok := h.session(c)
	if !ok {
		return
	}

	asin := c.Param("asin")
	if err := utils.ValidateVar(asin, "required,asin"); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyAsinInvalid, asin), nil)
		return
	}

	if !controller.RemoveASIN(strings.ToUpper(asin)) {
		utils.ErrorResponse(c, http.StatusNotFound, "NOT_FOUND", i18n.T(lang, i18n.KeyAsinNotFound), nil)
		return
	}
	h.persist(c, sessionID, userID)

	utils.SuccessResponse(c, gin.H{
		"asins": controller.Asins(),
	})
}

// GET /wizard/sessions/:id/asins
func (h *WizardHandler) GetASINs(c *gin.Context) {
	controller, _, _, ok := h.session(c)
	if !ok {
		return
	}

	utils.SuccessResponse(c, gin.H{
		"asins": controller.Asins(),
	})
}

// GET /wizard/sessions/:id/keywords
func (h *WizardHandler) GetKeywords(c *gin.Context) {
	controller, _, _, ok := h.session(c)
	if !ok {
		return
	}

	filter := c.Query("filter")
	utils.SuccessResponse(c, gin.H{
		"keywords": controller.AggregatedKeywords(filter),
	})
}

// POST /wizard/sessions/:id/keywords
func (h *WizardHandler) AddKeyword(c *gin.Context) {
	controller, sessionID, userID, ok := h.session(c)
	if !ok {
		return
	}

	var req struct {
		Text string `json:"text" validate:"required,min=1,max=200"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
		return
	}

	keyword := controller.AddKeyword(req.Text)
	if keyword == nil {
		utils.BadRequestResponse(c, "Keyword text cannot be empty", nil)
		return
	}
	h.persist(c, sessionID, userID)

	utils.CreatedResponse(c, gin.H{
		"keyword": keyword,
	})
}

// POST /wizard/sessions/:id/keywords/:keywordId/toggle
func (h *WizardHandler) ToggleKeyword(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	controller, sessionID, userID, ok := h.session(c)
	if !ok {
		return
	}

	if !controller.ToggleKeyword(c.Param("keywordId")) {
		utils.ErrorResponse(c, http.StatusNotFound, "NOT_FOUND", i18n.T(lang, i18n.KeyKeywordNotFound), nil)
		return
	}
	h.persist(c, sessionID, userID)

	utils.SuccessResponse(c, gin.H{
		"keywords": controller.AggregatedKeywords(""),
	})
}

// DELETE /wizard/sessions/:id/keywords/:keywordId
func (h *WizardHandler) RemoveKeyword(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	controller, sessionID, userID, ok := h.session(c)
	if !ok {
		return
	}

	if !controller.RemoveKeyword(c.Param("keywordId")) {
		utils.ErrorResponse(c, http.StatusNotFound, "NOT_FOUND", i18n.T(lang, i18n.KeyKeywordNotFound), nil)
		return
	}
	h.persist(c, sessionID, userID)

	utils.SuccessResponse(c, gin.H{
		"keywords": controller.AggregatedKeywords(""),
	})
}

// PUT /wizard/sessions/:id/style
func (h *WizardHandler) UpdateStyle(c *gin.Context) {
	controller, sessionID, userID, ok := h.session(c)
	if !ok {
		return
	}

	var req struct {
		Style          *string  `json:"style,omitempty"`
		Tone           *int     `json:"tone,omitempty"`
		KeywordDensity *float64 `json:"keyword_density,omitempty"`
		ProductNotes   *string  `json:"product_notes,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}

	if req.Style != nil {
		if err := controller.SetStyle(wizard.Style(*req.Style)); err != nil {
			utils.BadRequestResponse(c, err.Error(), nil)
			return
		}
	}
	if req.Tone != nil {
		if err := controller.SetTone(*req.Tone); err != nil {
			utils.BadRequestResponse(c, err.Error(), nil)
			return
		}
	}
	if req.KeywordDensity != nil {
		controller.SetKeywordDensity(*req.KeywordDensity)
	}
	if req.ProductNotes != nil {
		controller.SetProductNotes(*req.ProductNotes)
	}
	h.persist(c, sessionID, userID)

	utils.SuccessResponse(c, gin.H{
		"state": controller.Snapshot(),
	})
}

// PUT /wizard/sessions/:id/step
func (h *WizardHandler) GoToStep(c *gin.Context) {
	controller, sessionID, userID, ok := h.session(c)
	if !ok {
		return
	}

	var req struct {
		Step *int `json:"step" validate:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Step == nil {
		utils.BadRequestResponse(c, "Step is required", nil)
		return
	}

	if !controller.GoToStep(*req.Step) {
		utils.BadRequestResponse(c, "Cannot move to step "+strconv.Itoa(*req.Step), nil)
		return
	}
	h.persist(c, sessionID, userID)

	utils.SuccessResponse(c, gin.H{
		"step": controller.Step(),
	})
}

// POST /wizard/sessions/:id/next
func (h *WizardHandler) NextStep(c *gin.Context) {
	controller, sessionID, userID, ok := h.session(c)
	if !ok {
		return
	}

	step := controller.Next()
	h.persist(c, sessionID, userID)

	utils.SuccessResponse(c, gin.H{
		"step": step,
	})
}

// POST /wizard/sessions/:id/previous
func (h *WizardHandler) PreviousStep(c *gin.Context) {
	controller, sessionID, userID, ok := h.session(c)
	if !ok {
		return
	}

	step := controller.Previous()
	h.persist(c, sessionID, userID)

	utils.SuccessResponse(c, gin.H{
		"step": step,
	})
}

// POST /wizard/sessions/:id/generate
func (h *WizardHandler) Generate(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	controller, sessionID, userID, ok := h.session(c)
	if !ok {
		return
	}

	content, listingID, err := controller.Generate(c.Request.Context())
	h.persist(c, sessionID, userID)
	if err != nil {
		switch err {
		case wizard.ErrNoKeywordsSelected:
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyKeywordNoneChosen), nil)
		case wizard.ErrDraftCompleted:
			utils.ConflictResponse(c, i18n.T(lang, i18n.KeyDraftCompleted))
		default:
			utils.UpstreamErrorResponse(c, i18n.T(lang, i18n.KeyGenerationFailed))
		}
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":    i18n.T(lang, i18n.KeyGenerationDone),
		"content":    content,
		"listing_id": listingID,
	})
}

func (h *WizardHandler) userID(c *gin.Context) (uuid.UUID, bool) {
	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return uuid.Nil, false
	}
	return userID, true
}

func (h *WizardHandler) session(c *gin.Context) (*wizard.Controller, uuid.UUID, uuid.UUID, bool) {
	userID, ok := h.userID(c)
	if !ok {
		return nil, uuid.Nil, uuid.Nil, false
	}

	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid session ID", nil)
		return nil, uuid.Nil, uuid.Nil, false
	}

	controller, err := h.draftService.Session(sessionID, userID)
	if err != nil {
		h.mapServiceError(c, err)
		return nil, uuid.Nil, uuid.Nil, false
	}
	return controller, sessionID, userID, true
}

// persist writes the snapshot back after a mutation; the live controller
// already holds the new state, so a storage hiccup is logged, not surfaced.
func (h *WizardHandler) persist(c *gin.Context, sessionID, userID uuid.UUID) {
	if err := h.draftService.Persist(sessionID, userID); err != nil {
		logrus.WithError(err).WithField("session_id", sessionID).Warn("Failed to persist draft session")
	}
}

func (h *WizardHandler) mapServiceError(c *gin.Context, err error) {
	if strings.Contains(err.Error(), "not found") {
		utils.NotFoundResponse(c, "draft")
		return
	}
	utils.InternalErrorResponse(c, err.Error())
}
