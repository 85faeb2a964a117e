package errors

// Error codes returned in the "error" field of JSON error responses.
// Format: CATEGORY_SPECIFIC_DETAIL

const (
	// ==================== Authentication (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // login required
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // wrong email/password
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"        // email already registered
	AuthPasswordMismatch   = "AUTH_PASSWORD_MISMATCH"   // confirmation differs
	AuthSessionRevoked     = "AUTH_SESSION_REVOKED"     // logged-out session reused

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden   = "AUTHZ_FORBIDDEN"    // not allowed
	AuthzOwnerOnly   = "AUTHZ_OWNER_ONLY"   // resource belongs to someone else
	AuthzDevelopOnly = "AUTHZ_DEVELOP_ONLY" // development-only route

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID     = "VALIDATION_INVALID_ID"
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT"
	ValidationInvalidRange  = "VALIDATION_INVALID_RANGE"
	ValidationTooShort      = "VALIDATION_TOO_SHORT"
	ValidationTooLong       = "VALIDATION_TOO_LONG"
	ValidationRequired      = "VALIDATION_REQUIRED"

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Catalog (PRODUCT_, CATALOG_) ====================
	ProductNotFound   = "PRODUCT_NOT_FOUND"
	ProductOutOfStock = "PRODUCT_OUT_OF_STOCK"
	CatalogNotEmpty   = "CATALOG_NOT_EMPTY"

	// ==================== Cart (CART_) ====================
	CartEmpty        = "CART_EMPTY"
	CartItemNotFound = "CART_ITEM_NOT_FOUND"

	// ==================== Orders (ORDER_) ====================
	OrderNotFound = "ORDER_NOT_FOUND"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
	InternalConfigError   = "INTERNAL_CONFIG_ERROR"
)
