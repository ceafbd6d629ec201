package errors

// Error codes returned in the "error" field of every failure response.
// Format: CATEGORY_SPECIFIC_DETAIL. Clients map on the code, not the message.
const (
	// ==================== Authentication (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"
	AuthUserNotFound       = "AUTH_USER_NOT_FOUND"

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden = "AUTHZ_FORBIDDEN"
	AuthzAdminOnly = "AUTHZ_ADMIN_ONLY"
	AuthzOwnerOnly = "AUTHZ_OWNER_ONLY"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID    = "VALIDATION_INVALID_ID"
	ValidationRequired     = "VALIDATION_REQUIRED"

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Catalog (PRODUCT_) ====================
	ProductNotFound     = "PRODUCT_NOT_FOUND"
	ProductInvalid      = "PRODUCT_INVALID"
	ProductSKUExists    = "PRODUCT_SKU_EXISTS"
	ProductSheetInvalid = "PRODUCT_SHEET_INVALID"

	// ==================== Cart (CART_) ====================
	CartNotFound      = "CART_NOT_FOUND"
	CartItemNotFound  = "CART_ITEM_NOT_FOUND"
	CartOwnerRequired = "CART_OWNER_REQUIRED"
	CartInvalidItem   = "CART_INVALID_ITEM"
	CartGuestEmpty    = "CART_GUEST_EMPTY"

	// ==================== Checkout (CHECKOUT_) ====================
	CheckoutNotFound       = "CHECKOUT_NOT_FOUND"
	CheckoutEmpty          = "CHECKOUT_EMPTY"
	CheckoutInvalidPayment = "CHECKOUT_INVALID_PAYMENT_STATUS"
	CheckoutAlreadyPaid    = "CHECKOUT_ALREADY_PAID"
	CheckoutNotPaid        = "CHECKOUT_NOT_PAID"
	CheckoutFinalized      = "CHECKOUT_ALREADY_FINALIZED"
	CheckoutFinalizeFailed = "CHECKOUT_FINALIZE_FAILED"

	// ==================== Orders (ORDER_) ====================
	OrderNotFound      = "ORDER_NOT_FOUND"
	OrderInvalidStatus = "ORDER_INVALID_STATUS"

	// ==================== Newsletter (SUBSCRIBER_) ====================
	SubscriberExists = "SUBSCRIBER_EXISTS"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
)
