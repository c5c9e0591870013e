package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CouponRedemption records one successful use of a coupon for a captured payment.
type CouponRedemption struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	CouponID       primitive.ObjectID `json:"coupon_id" bson:"coupon_id"`
	CouponCode     string             `json:"coupon_code" bson:"coupon_code"`
	UserID         primitive.ObjectID `json:"user_id" bson:"user_id"`
	PaymentID      primitive.ObjectID `json:"payment_id" bson:"payment_id"`
	CourseID       primitive.ObjectID `json:"course_id" bson:"course_id"`
	DiscountAmount int64              `json:"discount_amount" bson:"discount_amount"`
	RedeemedAt     time.Time          `json:"redeemed_at" bson:"redeemed_at"`
}
