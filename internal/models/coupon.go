package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
)

type Coupon struct {
	ID                primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Code              string               `json:"code" bson:"code" validate:"required,coupon_code"`
	Description       string               `json:"description" bson:"description"`
	DiscountType      DiscountType         `json:"discount_type" bson:"discount_type" validate:"required,oneof=percentage fixed"`
	DiscountValue     float64              `json:"discount_value" bson:"discount_value" validate:"required,gt=0"`
	MaxDiscount       *int64               `json:"max_discount,omitempty" bson:"max_discount,omitempty"`
	MinPurchaseAmount int64                `json:"min_purchase_amount" bson:"min_purchase_amount"`
	ApplicableCourses []primitive.ObjectID `json:"applicable_courses" bson:"applicable_courses"`
	UsageLimit        int                  `json:"usage_limit" bson:"usage_limit" validate:"required,gt=0"`
	UsedCount         int                  `json:"used_count" bson:"used_count"`
	PerUserLimit      int                  `json:"per_user_limit" bson:"per_user_limit" validate:"required,gt=0"`
	ExpiryDate        time.Time            `json:"expiry_date" bson:"expiry_date" validate:"required"`
	IsActive          bool                 `json:"is_active" bson:"is_active"`
	CreatedBy         primitive.ObjectID   `json:"created_by,omitempty" bson:"created_by,omitempty"`
	CreatedAt         time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at" bson:"updated_at"`
}

// NormalizeCouponCode is the canonical form coupon codes are stored and looked up in.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsExpired reports whether the coupon can no longer be used at now.
func (c *Coupon) IsExpired(now time.Time) bool {
	return !now.Before(c.ExpiryDate)
}

func (c *Coupon) IsExhausted() bool {
	return c.UsedCount >= c.UsageLimit
}

// IsCurrentlyValid is true when the coupon is active, unexpired and has uses left.
func (c *Coupon) IsCurrentlyValid(now time.Time) bool {
	return c.IsActive && !c.IsExpired(now) && !c.IsExhausted()
}

// AppliesTo treats an empty course list as universal.
func (c *Coupon) AppliesTo(courseID primitive.ObjectID) bool {
	if len(c.ApplicableCourses) == 0 {
		return true
	}
	for _, id := range c.ApplicableCourses {
		if id == courseID {
			return true
		}
	}
	return false
}

func (c *Coupon) RemainingUses() int {
	if c.IsExhausted() {
		return 0
	}
	return c.UsageLimit - c.UsedCount
}

// CouponSummary is the student facing view of an applicable coupon.
type CouponSummary struct {
	ID                primitive.ObjectID `json:"id"`
	Code              string             `json:"code"`
	Description       string             `json:"description,omitempty"`
	DiscountType      DiscountType       `json:"discount_type"`
	DiscountValue     float64            `json:"discount_value"`
	MaxDiscount       *int64             `json:"max_discount,omitempty"`
	MinPurchaseAmount int64              `json:"min_purchase_amount"`
	ExpiryDate        time.Time          `json:"expiry_date"`
	RemainingUses     int                `json:"remaining_uses"`
	EstimatedDiscount int64              `json:"estimated_discount"`
}

type DiscountResult struct {
	CouponID       primitive.ObjectID `json:"coupon_id"`
	CouponCode     string             `json:"coupon_code"`
	DiscountType   DiscountType       `json:"discount_type"`
	OriginalAmount int64              `json:"original_amount"`
	DiscountAmount int64              `json:"discount_amount"`
	FinalAmount    int64              `json:"final_amount"`
}

type EvaluateCouponRequest struct {
	Code     string `json:"code" validate:"required,coupon_code"`
	CourseID string `json:"course_id" validate:"required,object_id"`
	Amount   int64  `json:"amount" validate:"gte=0"`
}

type CreateCouponRequest struct {
	Code              string       `json:"code" validate:"required,coupon_code"`
	Description       string       `json:"description" validate:"max=255"`
	DiscountType      DiscountType `json:"discount_type" validate:"required,oneof=percentage fixed"`
	DiscountValue     float64      `json:"discount_value" validate:"required,gt=0"`
	MaxDiscount       *int64       `json:"max_discount" validate:"omitempty,gt=0"`
	MinPurchaseAmount int64        `json:"min_purchase_amount" validate:"gte=0"`
	ApplicableCourses []string     `json:"applicable_courses" validate:"omitempty,dive,object_id"`
	UsageLimit        int          `json:"usage_limit" validate:"required,gt=0"`
	PerUserLimit      int          `json:"per_user_limit" validate:"omitempty,gt=0"`
	ExpiryDate        time.Time    `json:"expiry_date" validate:"required,future_date"`
	IsActive          *bool        `json:"is_active"`
}

type UpdateCouponRequest struct {
	Description       *string       `json:"description" validate:"omitempty,max=255"`
	DiscountType      *DiscountType `json:"discount_type" validate:"omitempty,oneof=percentage fixed"`
	DiscountValue     *float64      `json:"discount_value" validate:"omitempty,gt=0"`
	MaxDiscount       *int64        `json:"max_discount" validate:"omitempty,gte=0"`
	MinPurchaseAmount *int64        `json:"min_purchase_amount" validate:"omitempty,gte=0"`
	ApplicableCourses []string      `json:"applicable_courses" validate:"omitempty,dive,object_id"`
	UsageLimit        *int          `json:"usage_limit" validate:"omitempty,gt=0"`
	PerUserLimit      *int          `json:"per_user_limit" validate:"omitempty,gt=0"`
	ExpiryDate        *time.Time    `json:"expiry_date" validate:"omitempty,future_date"`
}

type CouponStatusRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

type CouponFilter struct {
	IsActive *bool
	CourseID *primitive.ObjectID
}
