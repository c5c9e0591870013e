package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PaymentStatus string

const (
	PaymentStatusCreated    PaymentStatus = "created"
	PaymentStatusAuthorized PaymentStatus = "authorized"
	PaymentStatusCaptured   PaymentStatus = "captured"
	PaymentStatusRefunded   PaymentStatus = "refunded"
	PaymentStatusFailed     PaymentStatus = "failed"
)

type PaymentGateway string

const (
	PaymentGatewayRazorpay PaymentGateway = "razorpay"
	PaymentGatewayStripe   PaymentGateway = "stripe"
	PaymentGatewayFree     PaymentGateway = "free"
)

// Note keys written on payments that need operator attention.
const (
	NoteReconciliationReason = "reconciliation_reason"
	NoteCapturedAmount       = "captured_amount"
	NoteRequestedCoupon      = "requested_coupon"
	NoteFailureReason        = "failure_reason"
)

type Payment struct {
	ID                  primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	UserID              primitive.ObjectID  `json:"user_id" bson:"user_id"`
	CourseID            primitive.ObjectID  `json:"course_id" bson:"course_id"`
	Gateway             PaymentGateway      `json:"gateway" bson:"gateway"`
	GatewayOrderID      string              `json:"gateway_order_id,omitempty" bson:"gateway_order_id,omitempty"`
	GatewayPaymentID    string              `json:"gateway_payment_id,omitempty" bson:"gateway_payment_id,omitempty"`
	GatewaySignature    string              `json:"-" bson:"gateway_signature,omitempty"`
	Receipt             string              `json:"receipt" bson:"receipt"`
	OriginalAmount      int64               `json:"original_amount" bson:"original_amount"`
	DiscountAmount      int64               `json:"discount_amount" bson:"discount_amount"`
	FinalAmount         int64               `json:"final_amount" bson:"final_amount"`
	CapturedAmount      int64               `json:"captured_amount" bson:"captured_amount"`
	CouponID            *primitive.ObjectID `json:"coupon_id,omitempty" bson:"coupon_id,omitempty"`
	CouponCode          string              `json:"coupon_code,omitempty" bson:"coupon_code,omitempty"`
	Currency            string              `json:"currency" bson:"currency"`
	Status              PaymentStatus       `json:"status" bson:"status"`
	FailureReason       string              `json:"failure_reason,omitempty" bson:"failure_reason,omitempty"`
	NeedsReconciliation bool                `json:"needs_reconciliation" bson:"needs_reconciliation"`
	Notes               map[string]string   `json:"notes,omitempty" bson:"notes,omitempty"`
	CapturedAt          *time.Time          `json:"captured_at,omitempty" bson:"captured_at,omitempty"`
	FailedAt            *time.Time          `json:"failed_at,omitempty" bson:"failed_at,omitempty"`
	CreatedAt           time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at" bson:"updated_at"`
}

// CaptureUpdate describes the fields written when a payment is captured.
type CaptureUpdate struct {
	GatewayPaymentID    string
	GatewaySignature    string
	DiscountAmount      int64
	FinalAmount         int64
	CapturedAmount      int64
	NeedsReconciliation bool
	Notes               map[string]string
	CapturedAt          time.Time
}

type CreateOrderRequest struct {
	CourseID    string `json:"course_id" validate:"required,object_id"`
	FinalAmount *int64 `json:"final_amount" validate:"required,gte=0"`
	CouponCode  string `json:"coupon_code" validate:"omitempty,coupon_code"`
}

type VerifyPaymentRequest struct {
	GatewayPaymentID string `json:"gateway_payment_id" validate:"required,max=128"`
	GatewayOrderID   string `json:"gateway_order_id" validate:"required,max=128"`
	Signature        string `json:"signature" validate:"max=512"`
	CourseID         string `json:"course_id" validate:"required,object_id"`
	CouponCode       string `json:"coupon_code" validate:"omitempty,coupon_code"`
}

type PaymentFailureRequest struct {
	GatewayOrderID string `json:"gateway_order_id" validate:"required,max=128"`
	Reason         string `json:"reason" validate:"max=500"`
	Cancelled      bool   `json:"cancelled"`
}

// OrderRef is returned to the client to open the gateway checkout.
type OrderRef struct {
	PaymentID      primitive.ObjectID `json:"payment_id"`
	Gateway        PaymentGateway     `json:"gateway"`
	GatewayOrderID string             `json:"gateway_order_id,omitempty"`
	Receipt        string             `json:"receipt"`
	Amount         int64              `json:"amount"`
	OriginalAmount int64              `json:"original_amount"`
	DiscountAmount int64              `json:"discount_amount"`
	Currency       string             `json:"currency"`
	CouponCode     string             `json:"coupon_code,omitempty"`
	KeyID          string             `json:"key_id,omitempty"`
	ClientSecret   string             `json:"client_secret,omitempty"`
	Status         PaymentStatus      `json:"status"`
	Enrollment     *EnrollmentResult  `json:"enrollment,omitempty"`
}

type EnrollmentResult struct {
	PaymentID           primitive.ObjectID `json:"payment_id"`
	UserID              primitive.ObjectID `json:"user_id"`
	CourseID            primitive.ObjectID `json:"course_id"`
	Status              PaymentStatus      `json:"status"`
	OriginalAmount      int64              `json:"original_amount"`
	DiscountAmount      int64              `json:"discount_amount"`
	FinalAmount         int64              `json:"final_amount"`
	CapturedAmount      int64              `json:"captured_amount"`
	Currency            string             `json:"currency"`
	CouponCode          string             `json:"coupon_code,omitempty"`
	Enrolled            bool               `json:"enrolled"`
	NeedsReconciliation bool               `json:"needs_reconciliation"`
	Replayed            bool               `json:"replayed"`
	CapturedAt          *time.Time         `json:"captured_at,omitempty"`
}

// NewEnrollmentResult builds the result view of a captured payment.
func NewEnrollmentResult(p *Payment) *EnrollmentResult {
	return &EnrollmentResult{
		PaymentID:           p.ID,
		UserID:              p.UserID,
		CourseID:            p.CourseID,
		Status:              p.Status,
		OriginalAmount:      p.OriginalAmount,
		DiscountAmount:      p.DiscountAmount,
		FinalAmount:         p.FinalAmount,
		CapturedAmount:      p.CapturedAmount,
		Currency:            p.Currency,
		CouponCode:          p.CouponCode,
		Enrolled:            p.Status == PaymentStatusCaptured,
		NeedsReconciliation: p.NeedsReconciliation,
		CapturedAt:          p.CapturedAt,
	}
}
