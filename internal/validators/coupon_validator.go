package validators

import (
	"fmt"

	"github.com/narendra12543/Learning-Management-System-sub001/internal/models"
	"github.com/narendra12543/Learning-Management-System-sub001/internal/utils"
)

// ValidateCouponRules checks the cross-field rules a coupon must satisfy
// after a create or update has been applied to it.
func ValidateCouponRules(c *models.Coupon) ValidationErrors {
	var errs ValidationErrors
	add := func(field, tag, value, message string) {
		errs = append(errs, ValidationError{Field: field, Tag: tag, Value: value, Message: message})
	}

	if !IsValidCouponCode(c.Code) {
		add("code", "coupon_code", c.Code, fmt.Sprintf("Coupon code must be %d-%d letters, digits, '-' or '_'", utils.CouponCodeMinLength, utils.CouponCodeMaxLength))
	}

	value := fmt.Sprintf("%v", c.DiscountValue)
	switch c.DiscountType {
	case models.DiscountTypePercentage:
		if c.DiscountValue <= 0 || c.DiscountValue > utils.MaxPercentDiscount {
			add("discount_value", "percentage", value, fmt.Sprintf("Percentage discount must be greater than 0 and at most %d", utils.MaxPercentDiscount))
		}
	case models.DiscountTypeFixed:
		if c.DiscountValue <= 0 || !utils.IsWholeMinorUnits(c.DiscountValue) {
			add("discount_value", "fixed", value, "Fixed discount must be a positive whole amount in minor units")
		}
		if c.MaxDiscount != nil {
			add("max_discount", "excluded_with", fmt.Sprintf("%d", *c.MaxDiscount), "Maximum discount only applies to percentage coupons")
		}
	default:
		add("discount_type", "oneof", string(c.DiscountType), "discount_type must be one of: percentage fixed")
	}

	if c.MaxDiscount != nil && *c.MaxDiscount <= 0 {
		add("max_discount", "gt", fmt.Sprintf("%d", *c.MaxDiscount), "max_discount must be greater than 0")
	}
	if c.MinPurchaseAmount < 0 {
		add("min_purchase_amount", "gte", fmt.Sprintf("%d", c.MinPurchaseAmount), "min_purchase_amount must be at least 0")
	}
	if c.UsageLimit <= 0 {
		add("usage_limit", "gt", fmt.Sprintf("%d", c.UsageLimit), "usage_limit must be greater than 0")
	} else if c.UsageLimit < c.UsedCount {
		add("usage_limit", "gtefield", fmt.Sprintf("%d", c.UsageLimit), fmt.Sprintf("usage_limit cannot be below the %d uses already redeemed", c.UsedCount))
	}
	if c.PerUserLimit <= 0 {
		add("per_user_limit", "gt", fmt.Sprintf("%d", c.PerUserLimit), "per_user_limit must be greater than 0")
	}
	if c.ExpiryDate.IsZero() {
		add("expiry_date", "required", "", "expiry_date is required")
	}

	return errs
}
