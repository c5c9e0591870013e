package utils

import "time"

// Application Constants
const (
	AppName    = "LMSCheckout"
	AppVersion = "1.0.0"

	// Default values
	DefaultCurrency = "INR"

	// Pagination
	DefaultPageSize = 20
	MaxPageSize     = 100
	MinPageSize     = 1

	// Authentication
	JWTAccessTokenTTL = 24 * time.Hour

	// Coupons
	CouponCodeMinLength = 3
	CouponCodeMaxLength = 32
	DefaultPerUserLimit = 1
	MaxPercentDiscount  = 100

	// Checkout
	ReceiptPrefix       = "rcpt_"
	CourseCacheTTL      = 10 * time.Minute
	DefaultEventTimeout = 5 * time.Second
)

// HTTP Status Messages
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Error Messages
const (
	ErrInvalidToken        = "invalid token"
	ErrInternalServer      = "internal server error"
	ErrUnauthorized        = "unauthorized"
	ErrForbidden           = "forbidden"
	ErrNotFound            = "not found"
	ErrConflict            = "conflict"
	ErrValidationFailed    = "validation failed"
	ErrPaymentNotConfirmed = "payment could not be confirmed, please contact support"
	ErrRateLimited         = "rate limit exceeded"
)

// Cache Keys
const (
	CacheCoursePrefix = "course:"
)

// Context keys set by middleware
const (
	ContextUserID    = "user_id"
	ContextUserRole  = "user_role"
	ContextRequestID = "request_id"
)

// Event Types
const (
	EventPaymentCaptured       = "payment_captured"
	EventCouponRedeemed        = "coupon_redeemed"
	EventReconciliationNeeded  = "payment_reconciliation_needed"
	EventCheckoutCommitFailed  = "checkout_commit_failed"
	EventCheckoutPaymentFailed = "checkout_payment_failed"
)
