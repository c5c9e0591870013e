package handlers

import (
	"net/http"

	"github.com/narendra12543/Learning-Management-System-sub001/internal/services"
	"github.com/narendra12543/Learning-Management-System-sub001/internal/utils"
	"github.com/narendra12543/Learning-Management-System-sub001/internal/validators"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var kindStatus = map[services.ErrorKind]int{
	services.KindCouponNotFound:      http.StatusNotFound,
	services.KindCourseNotFound:      http.StatusNotFound,
	services.KindOrderNotFound:       http.StatusNotFound,
	services.KindCouponExpired:       http.StatusUnprocessableEntity,
	services.KindCouponInactive:      http.StatusUnprocessableEntity,
	services.KindCouponNotApplicable: http.StatusUnprocessableEntity,
	services.KindBelowMinimum:        http.StatusUnprocessableEntity,
	services.KindUsageExhausted:      http.StatusUnprocessableEntity,
	services.KindPerUserLimitReached: http.StatusUnprocessableEntity,
	services.KindAmountMismatch:      http.StatusConflict,
	services.KindAlreadyEnrolled:     http.StatusConflict,
	services.KindCouponCodeTaken:     http.StatusConflict,
	services.KindCouponInUse:         http.StatusConflict,
	services.KindInvalidCoupon:       http.StatusBadRequest,

	services.KindSignatureInvalid: http.StatusBadRequest,
	services.KindOrderMismatch:    http.StatusBadRequest,
	services.KindCouponRaceLost:   http.StatusConflict,

	services.KindGatewayUnavailable:  http.StatusServiceUnavailable,
	services.KindVerificationTimeout: http.StatusGatewayTimeout,

	services.KindPaymentFailed:    http.StatusPaymentRequired,
	services.KindPaymentCancelled: http.StatusPaymentRequired,

	services.KindCommitFailed: http.StatusInternalServerError,
}

// statusForError maps a service error to its HTTP status.
func statusForError(err error) int {
	ce, ok := services.AsCheckoutError(err)
	if !ok {
		return http.StatusInternalServerError
	}
	if status, ok := kindStatus[ce.Kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// respondError writes a service error. Untyped errors never leak their text.
func respondError(c *gin.Context, err error) {
	ce, ok := services.AsCheckoutError(err)
	if !ok {
		_ = c.Error(err)
		utils.InternalServerErrorResponse(c)
		return
	}
	if ce.Category() != services.CategoryValidation {
		_ = c.Error(err)
	}
	utils.ErrorResponse(c, statusForError(err), string(ce.Kind), ce.UserMessage())
}

// bindAndValidate decodes the JSON body into req and runs struct validation.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return false
	}
	if errs := validators.ValidateStruct(req); len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.Details())
		return false
	}
	return true
}

// getUserID reads the caller id set by the auth middleware.
func getUserID(c *gin.Context) (primitive.ObjectID, bool) {
	userID, exists := c.Get(utils.ContextUserID)
	if !exists {
		utils.UnauthorizedResponse(c)
		return primitive.NilObjectID, false
	}

	userObjectID, ok := userID.(primitive.ObjectID)
	if !ok {
		utils.BadRequestResponse(c, "Invalid user ID")
		return primitive.NilObjectID, false
	}
	return userObjectID, true
}

func parseObjectIDParam(c *gin.Context, name, label string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid "+label+" ID")
		return primitive.NilObjectID, false
	}
	return id, true
}
