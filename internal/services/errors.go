package services

import (
	"errors"
	"fmt"

	"github.com/narendra12543/Learning-Management-System-sub001/internal/utils"
)

type ErrorKind string

const (
	// validation
	KindCouponNotFound      ErrorKind = "COUPON_NOT_FOUND"
	KindCouponExpired       ErrorKind = "COUPON_EXPIRED"
	KindCouponInactive      ErrorKind = "COUPON_INACTIVE"
	KindCouponNotApplicable ErrorKind = "COUPON_NOT_APPLICABLE"
	KindBelowMinimum        ErrorKind = "BELOW_MINIMUM"
	KindUsageExhausted      ErrorKind = "USAGE_EXHAUSTED"
	KindPerUserLimitReached ErrorKind = "PER_USER_LIMIT_REACHED"
	KindAmountMismatch      ErrorKind = "AMOUNT_MISMATCH"
	KindCourseNotFound      ErrorKind = "COURSE_NOT_FOUND"
	KindOrderNotFound       ErrorKind = "ORDER_NOT_FOUND"
	KindAlreadyEnrolled     ErrorKind = "ALREADY_ENROLLED"
	KindInvalidCoupon       ErrorKind = "INVALID_COUPON"
	KindCouponCodeTaken     ErrorKind = "COUPON_CODE_TAKEN"
	KindCouponInUse         ErrorKind = "COUPON_IN_USE"

	// integrity
	KindSignatureInvalid ErrorKind = "SIGNATURE_INVALID"
	KindCouponRaceLost   ErrorKind = "COUPON_RACE_LOST"
	KindOrderMismatch    ErrorKind = "ORDER_MISMATCH"

	// transient
	KindGatewayUnavailable  ErrorKind = "GATEWAY_UNAVAILABLE"
	KindVerificationTimeout ErrorKind = "VERIFICATION_TIMEOUT"

	// gateway outcome
	KindPaymentFailed    ErrorKind = "PAYMENT_FAILED"
	KindPaymentCancelled ErrorKind = "PAYMENT_CANCELLED"

	// internal
	KindCommitFailed ErrorKind = "COMMIT_FAILED"
)

type ErrorCategory string

const (
	CategoryValidation ErrorCategory = "validation"
	CategoryIntegrity  ErrorCategory = "integrity"
	CategoryTransient  ErrorCategory = "transient"
	CategoryGateway    ErrorCategory = "gateway"
	CategoryInternal   ErrorCategory = "internal"
)

// CheckoutError is the typed failure returned by the coupon and checkout
// services. errors.Is matches on Kind, so wrapped instances compare equal to
// the package sentinels.
type CheckoutError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *CheckoutError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *CheckoutError) Unwrap() error {
	return e.Err
}

func (e *CheckoutError) Is(target error) bool {
	t, ok := target.(*CheckoutError)
	return ok && t.Kind == e.Kind
}

func (e *CheckoutError) Category() ErrorCategory {
	switch e.Kind {
	case KindSignatureInvalid, KindCouponRaceLost, KindOrderMismatch:
		return CategoryIntegrity
	case KindGatewayUnavailable, KindVerificationTimeout:
		return CategoryTransient
	case KindPaymentFailed, KindPaymentCancelled:
		return CategoryGateway
	case KindCommitFailed:
		return CategoryInternal
	default:
		return CategoryValidation
	}
}

// UserMessage is safe to show to the student. Integrity failures are not
// explained to the client.
func (e *CheckoutError) UserMessage() string {
	switch e.Category() {
	case CategoryIntegrity, CategoryInternal:
		return utils.ErrPaymentNotConfirmed
	default:
		return e.Message
	}
}

var (
	ErrCouponNotFound      = &CheckoutError{Kind: KindCouponNotFound, Message: "coupon not found"}
	ErrCouponExpired       = &CheckoutError{Kind: KindCouponExpired, Message: "coupon has expired"}
	ErrCouponInactive      = &CheckoutError{Kind: KindCouponInactive, Message: "coupon is not active"}
	ErrCouponNotApplicable = &CheckoutError{Kind: KindCouponNotApplicable, Message: "coupon does not apply to this course"}
	ErrBelowMinimum        = &CheckoutError{Kind: KindBelowMinimum, Message: "order amount is below the coupon minimum"}
	ErrUsageExhausted      = &CheckoutError{Kind: KindUsageExhausted, Message: "coupon usage limit has been reached"}
	ErrPerUserLimitReached = &CheckoutError{Kind: KindPerUserLimitReached, Message: "you have already used this coupon the maximum number of times"}
	ErrAmountMismatch      = &CheckoutError{Kind: KindAmountMismatch, Message: "amount does not match the current price, please refresh and try again"}
	ErrCourseNotFound      = &CheckoutError{Kind: KindCourseNotFound, Message: "course not found"}
	ErrOrderNotFound       = &CheckoutError{Kind: KindOrderNotFound, Message: "order not found"}
	ErrAlreadyEnrolled     = &CheckoutError{Kind: KindAlreadyEnrolled, Message: "you are already enrolled in this course"}
	ErrInvalidCoupon       = &CheckoutError{Kind: KindInvalidCoupon, Message: "coupon definition is invalid"}
	ErrCouponCodeTaken     = &CheckoutError{Kind: KindCouponCodeTaken, Message: "coupon code already exists"}
	ErrCouponInUse         = &CheckoutError{Kind: KindCouponInUse, Message: "coupon has redemptions, deactivate it instead"}

	ErrSignatureInvalid = &CheckoutError{Kind: KindSignatureInvalid, Message: "payment signature is invalid"}
	ErrCouponRaceLost   = &CheckoutError{Kind: KindCouponRaceLost, Message: "coupon could not be redeemed at commit"}
	ErrOrderMismatch    = &CheckoutError{Kind: KindOrderMismatch, Message: "confirmation does not match the order"}

	ErrGatewayUnavailable  = &CheckoutError{Kind: KindGatewayUnavailable, Message: "payment gateway is unavailable, please try again"}
	ErrVerificationTimeout = &CheckoutError{Kind: KindVerificationTimeout, Message: "payment verification timed out, please try again"}

	ErrPaymentFailed    = &CheckoutError{Kind: KindPaymentFailed, Message: "payment failed"}
	ErrPaymentCancelled = &CheckoutError{Kind: KindPaymentCancelled, Message: "payment was cancelled"}

	ErrCommitFailed = &CheckoutError{Kind: KindCommitFailed, Message: "payment could not be recorded"}
)

// wrapError returns a copy of sentinel carrying cause and an optional detail.
func wrapError(sentinel *CheckoutError, cause error, detail string) *CheckoutError {
	msg := sentinel.Message
	if detail != "" {
		msg = fmt.Sprintf("%s (%s)", msg, detail)
	}
	return &CheckoutError{Kind: sentinel.Kind, Message: msg, Err: cause}
}

// AsCheckoutError extracts the typed error from err's chain.
func AsCheckoutError(err error) (*CheckoutError, bool) {
	var ce *CheckoutError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
