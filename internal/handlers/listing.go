// internal/handlers/listing.go
package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nexttrack07/sellerwrite-app-sub000/internal/i18n"
	"github.com/nexttrack07/sellerwrite-app-sub000/internal/services"
	"github.com/nexttrack07/sellerwrite-app-sub000/internal/utils"
)

type ListingHandler struct {
	listingService *services.ListingService
}

func NewListingHandler(listingService *services.ListingService) *ListingHandler {
	return &ListingHandler{
		listingService: listingService,
	}
}

// GET /listings
func (h *ListingHandler) GetListings(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	listings, total, err := h.listingService.ListListings(userID, params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(listings, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /listings/:id
func (h *ListingHandler) GetListing(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	listingID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	listing, err := h.listingService.GetListing(listingID, userID)
	if err != nil {
		h.mapServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"listing": listing,
	})
}

// DELETE /listings/:id
func (h *ListingHandler) DeleteListing(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	listingID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.listingService.DeleteListing(listingID, userID); err != nil {
		h.mapServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyListingDeleted),
	})
}

// GET /listings/:id/versions
func (h *ListingHandler) GetVersions(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	listingID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	versions, err := h.listingService.ListVersions(listingID, userID)
	if err != nil {
		h.mapServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"versions": versions,
	})
}

// POST /listings/:id/versions
func (h *ListingHandler) ReplaceContent(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	listingID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	var req services.ReplaceContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
		return
	}

	version, err := h.listingService.ReplaceContent(listingID, userID, &req)
	if err != nil {
		h.mapServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyListingVersionAdded),
		"version": version,
	})
}

// PUT /listings/:id/versions/:versionId/keywords
func (h *ListingHandler) UpdateKeywordTags(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	listingID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	versionID, ok := h.pathUUID(c, "versionId")
	if !ok {
		return
	}

	var req services.UpdateKeywordTagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "", err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
		return
	}

	version, err := h.listingService.UpdateKeywordTags(listingID, versionID, userID, &req)
	if err != nil {
		h.mapServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"version": version,
	})
}

// PUT /listings/:id/versions/:versionId/current
func (h *ListingHandler) SetCurrentVersion(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	listingID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	versionID, ok := h.pathUUID(c, "versionId")
	if !ok {
		return
	}

	version, err := h.listingService.SetCurrentVersion(listingID, versionID, userID)
	if err != nil {
		h.mapServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyVersionSetCurrent),
		"version": version,
	})
}

// GET /listings/:id/keyword-usage
func (h *ListingHandler) GetKeywordUsage(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	listingID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	active := c.Query("active")
	usage, err := h.listingService.KeywordUsage(listingID, userID, active)
	if err != nil {
		h.mapServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"usage": usage,
	})
}

func (h *ListingHandler) userID(c *gin.Context) (uuid.UUID, bool) {
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

func (h *ListingHandler) pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid "+name, nil)
		return uuid.Nil, false
	}
	return id, true
}

func (h *ListingHandler) mapServiceError(c *gin.Context, err error) {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "version not found"):
		utils.NotFoundResponse(c, "version")
	case strings.Contains(msg, "not found"):
		utils.NotFoundResponse(c, "listing")
	default:
		utils.InternalErrorResponse(c, msg)
	}
}
