// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"
	KeyWarning = "warning"
	KeyInfo    = "info"

	// Authentication
	KeyAuthRequired     = "auth.required"
	KeyAuthInvalidToken = "auth.invalid_token"
	KeyAuthTokenExpired = "auth.token_expired"

	// Listings
	KeyListingCreated      = "listing.created"
	KeyListingUpdated      = "listing.updated"
	KeyListingDeleted      = "listing.deleted"
	KeyListingNotFound     = "listing.not_found"
	KeyListingVersionAdded = "listing.version_added"

	// Versions
	KeyVersionNotFound   = "version.not_found"
	KeyVersionSetCurrent = "version.set_current"

	// Draft sessions
	KeyDraftCreated   = "draft.created"
	KeyDraftDeleted   = "draft.deleted"
	KeyDraftNotFound  = "draft.not_found"
	KeyDraftCompleted = "draft.completed"

	// ASINs
	KeyAsinInvalid  = "asin.invalid"
	KeyAsinAdded    = "asin.added"
	KeyAsinRemoved  = "asin.removed"
	KeyAsinNotFound = "asin.not_found"

	// Keywords
	KeyKeywordAdded      = "keyword.added"
	KeyKeywordRemoved    = "keyword.removed"
	KeyKeywordNotFound   = "keyword.not_found"
	KeyKeywordNoneChosen = "keyword.none_chosen"

	// Generation
	KeyGenerationStarted = "generation.started"
	KeyGenerationFailed  = "generation.failed"
	KeyGenerationDone    = "generation.done"

	// Analysis
	KeyAnalysisRequested = "analysis.requested"
	KeyAnalysisNotFound  = "analysis.not_found"
	KeyAnalysisFailed    = "analysis.failed"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"
	KeyValidationTooShort = "validation.too_short"
	KeyValidationTooLong  = "validation.too_long"

	// Rate limiting
	KeyRateLimited = "rate.limited"
)
