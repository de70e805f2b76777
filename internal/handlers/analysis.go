// internal/handlers/analysis.go
package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nexttrack07/sellerwrite-app-sub000/internal/i18n"
	"github.com/nexttrack07/sellerwrite-app-sub000/internal/services"
	"github.com/nexttrack07/sellerwrite-app-sub000/internal/utils"
)

type AnalysisHandler struct {
	analysisService *services.AnalysisService
}

func NewAnalysisHandler(analysisService *services.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{
		analysisService: analysisService,
	}
}

// POST /listings/:id/analyses
func (h *AnalysisHandler) RequestAnalysis(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid listing ID", nil)
		return
	}

	analysis, err := h.analysisService.RequestAnalysis(listingID, userID)
	if err != nil {
		h.mapServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":  i18n.T(lang, i18n.KeyAnalysisRequested),
		"analysis": analysis,
	})
}

// GET /listings/:id/analyses
func (h *AnalysisHandler) GetAnalyses(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid listing ID", nil)
		return
	}

	analyses, err := h.analysisService.GetAnalyses(listingID, userID)
	if err != nil {
		h.mapServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"analyses": analyses,
	})
}

// GET /listings/:id/analyses/:analysisId
func (h *AnalysisHandler) GetAnalysis(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	listingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid listing ID", nil)
		return
	}

	analysisID, err := uuid.Parse(c.Param("analysisId"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid analysis ID", nil)
		return
	}

	analysis, err := h.analysisService.GetAnalysis(listingID, analysisID, userID)
	if err != nil {
		h.mapServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"analysis": analysis,
	})
}

func (h *AnalysisHandler) userID(c *gin.Context) (uuid.UUID, bool) {
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

func (h *AnalysisHandler) mapServiceError(c *gin.Context, err error) {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "analysis not found"):
		utils.NotFoundResponse(c, "analysis")
	case strings.Contains(msg, "version not found"):
		utils.NotFoundResponse(c, "version")
	case strings.Contains(msg, "not found"):
		utils.NotFoundResponse(c, "listing")
	default:
		utils.InternalErrorResponse(c, msg)
	}
}
