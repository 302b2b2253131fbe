package errors

// Error code constants, format: CATEGORY_SPECIFIC_DETAIL.
// The storefront maps these codes to display messages.

const (
	// ==================== Auth (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"
	AuthPhoneAlreadyExists = "AUTH_PHONE_EXISTS"

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND"
	AuthzAdminOnly    = "AUTHZ_ADMIN_ONLY"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID     = "VALIDATION_INVALID_ID"
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT"
	ValidationRequired      = "VALIDATION_REQUIRED"

	// ==================== Resource (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Catalog (CATALOG_) ====================
	ProductNotFound      = "CATALOG_PRODUCT_NOT_FOUND"
	ProductNotAvailable  = "CATALOG_PRODUCT_NOT_AVAILABLE"
	ProductOptionInvalid = "CATALOG_OPTION_INVALID"
	CategoryNotFound     = "CATALOG_CATEGORY_NOT_FOUND"
	BannerNotFound       = "CATALOG_BANNER_NOT_FOUND"
	BlogNotFound         = "CATALOG_BLOG_NOT_FOUND"

	// ==================== Orders (ORDER_) ====================
	OrderNotFound        = "ORDER_NOT_FOUND"
	OrderValidationError = "ORDER_VALIDATION_ERROR"
	OrderDuplicate       = "ORDER_DUPLICATE"
	OrderTotalMismatch   = "ORDER_TOTAL_MISMATCH"
	OrderKYCRequired     = "ORDER_KYC_REQUIRED"

	// ==================== Payments (PAYMENT_) ====================
	PaymentFailed           = "PAYMENT_FAILED"
	PaymentInvalidSignature = "PAYMENT_INVALID_SIGNATURE"
	PaymentAlreadyProcessed = "PAYMENT_ALREADY_PROCESSED"

	// ==================== Discounts (DISCOUNT_) ====================
	DiscountNotFound   = "DISCOUNT_NOT_FOUND"
	DiscountInactive   = "DISCOUNT_INACTIVE"
	DiscountNotEligible = "DISCOUNT_NOT_ELIGIBLE"

	// ==================== Goldmine (GOLDMINE_) ====================
	GoldminePlanNotFound         = "GOLDMINE_PLAN_NOT_FOUND"
	GoldmineSubscriptionNotFound = "GOLDMINE_SUBSCRIPTION_NOT_FOUND"
	GoldmineSubscriptionClosed   = "GOLDMINE_SUBSCRIPTION_CLOSED"
	GoldmineInstallmentDuplicate = "GOLDMINE_INSTALLMENT_DUPLICATE"

	// ==================== Metal rates (RATE_) ====================
	MetalRateNotFound = "RATE_NOT_FOUND"

	// ==================== Notifications (NOTIFICATION_) ====================
	NotificationNotFound = "NOTIFICATION_NOT_FOUND"

	// ==================== Uploads (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"
	UploadFailed          = "UPLOAD_FAILED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
)
