package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/narendra12543/Learning-Management-System-sub001/internal/config"
	"github.com/narendra12543/Learning-Management-System-sub001/internal/models"
	"github.com/narendra12543/Learning-Management-System-sub001/internal/repositories/interfaces"
	"github.com/narendra12543/Learning-Management-System-sub001/internal/utils"
	"github.com/narendra12543/Learning-Management-System-sub001/pkg/events"
	"github.com/narendra12543/Learning-Management-System-sub001/pkg/logger"
	"github.com/narendra12543/Learning-Management-System-sub001/pkg/metrics"
	"github.com/narendra12543/Learning-Management-System-sub001/pkg/payment"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Checkout stages as reported in logs and metrics.
const (
	StageOrderCreation = "order_creation"
	StageVerification  = "verification"
	StageCommit        = "commit"
	StageFailureReport = "failure_report"

	outcomeSucceeded      = "succeeded"
	outcomeFailed         = "failed"
	outcomeReplayed       = "replayed"
	outcomeReconciliation = "reconciliation"
)

type CreateOrderInput struct {
	UserID      primitive.ObjectID
	CourseID    primitive.ObjectID
	FinalAmount int64
	CouponCode  string
}

type VerifyPaymentInput struct {
	UserID           primitive.ObjectID
	CourseID         primitive.ObjectID
	GatewayPaymentID string
	GatewayOrderID   string
	Signature        string
	CouponCode       string
}

type ReportFailureInput struct {
	UserID         primitive.ObjectID
	GatewayOrderID string
	Reason         string
	Cancelled      bool
}

type CheckoutService interface {
	// Order lifecycle
	CreateOrder(ctx context.Context, input *CreateOrderInput) (*models.OrderRef, error)
	VerifyAndCommit(ctx context.Context, input *VerifyPaymentInput) (*models.EnrollmentResult, error)
	// ReportFailure records a failed or cancelled gateway checkout. On success
	// it returns the payment together with ErrPaymentFailed or
	// ErrPaymentCancelled.
	ReportFailure(ctx context.Context, input *ReportFailureInput) (*models.Payment, error)

	// History
	ListPayments(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Payment, int64, error)
}

type checkoutService struct {
	config         *config.CheckoutConfig
	coupons        CouponService
	couponRepo     interfaces.CouponRepository
	redemptionRepo interfaces.RedemptionRepository
	paymentRepo    interfaces.PaymentRepository
	courseRepo     interfaces.CourseRepository
	userRepo       interfaces.UserRepository
	txManager      interfaces.TransactionManager
	gateway        payment.Gateway
	publisher      events.Publisher
	logger         *logger.Logger
	audit          *logger.AuditLogger
	now            func() time.Time
}

func NewCheckoutService(
	config *config.CheckoutConfig,
	coupons CouponService,
	couponRepo interfaces.CouponRepository,
	redemptionRepo interfaces.RedemptionRepository,
	paymentRepo interfaces.PaymentRepository,
	courseRepo interfaces.CourseRepository,
	userRepo interfaces.UserRepository,
	txManager interfaces.TransactionManager,
	gateway payment.Gateway,
	publisher events.Publisher,
	log *logger.Logger,
) CheckoutService {
	serviceLogger := log.WithField("service", "checkout")
	return &checkoutService{
		config:         config,
		coupons:        coupons,
		couponRepo:     couponRepo,
		redemptionRepo: redemptionRepo,
		paymentRepo:    paymentRepo,
		courseRepo:     courseRepo,
		userRepo:       userRepo,
		txManager:      txManager,
		gateway:        gateway,
		publisher:      publisher,
		logger:         serviceLogger,
		audit:          logger.NewAuditLogger(serviceLogger),
		now:            time.Now,
	}
}

func (s *checkoutService) CreateOrder(ctx context.Context, input *CreateOrderInput) (*models.OrderRef, error) {
	log := s.logger.WithContext(ctx).WithUserID(input.UserID).WithCourseID(input.CourseID)

	ref, err := s.createOrder(ctx, log, input)
	if err != nil {
		s.stageFailed(log, StageOrderCreation, err)
		return nil, err
	}

	s.stage(log, StageOrderCreation, outcomeSucceeded, map[string]interface{}{
		"payment_id": ref.PaymentID.Hex(),
		"gateway":    ref.Gateway,
		"amount":     ref.Amount,
	})
	return ref, nil
}

func (s *checkoutService) createOrder(ctx context.Context, log *logger.Logger, input *CreateOrderInput) (*models.OrderRef, error) {
	course, err := loadCourse(ctx, s.courseRepo.GetCurrent, input.CourseID)
	if err != nil {
		return nil, err
	}

	enrolled, err := s.userRepo.IsEnrolled(ctx, input.UserID, input.CourseID)
	if err != nil {
		return nil, fmt.Errorf("failed to check enrollment: %w", err)
	}
	if enrolled {
		return nil, ErrAlreadyEnrolled
	}

	p := &models.Payment{
		ID:             primitive.NewObjectID(),
		UserID:         input.UserID,
		CourseID:       input.CourseID,
		Gateway:        models.PaymentGateway(s.gateway.Name()),
		Receipt:        newReceipt(),
		OriginalAmount: course.Fees,
		FinalAmount:    course.Fees,
		Currency:       courseCurrency(course),
		Status:         models.PaymentStatusCreated,
	}

	if strings.TrimSpace(input.CouponCode) != "" {
		discount, err := s.coupons.Evaluate(ctx, input.CouponCode, input.CourseID, input.UserID, course.Fees)
		if err != nil {
			return nil, err
		}
		couponID := discount.CouponID
		p.CouponID = &couponID
		p.CouponCode = discount.CouponCode
		p.DiscountAmount = discount.DiscountAmount
		p.FinalAmount = discount.FinalAmount
	}

	if input.FinalAmount != p.FinalAmount {
		log.WithFields(map[string]interface{}{
			"client_amount": input.FinalAmount,
			"server_amount": p.FinalAmount,
		}).Warn("Checkout amount mismatch")
		return nil, wrapError(ErrAmountMismatch, nil, fmt.Sprintf("expected %d", p.FinalAmount))
	}

	if p.FinalAmount == 0 {
		return s.createFreeOrder(ctx, log, p)
	}

	if err := s.paymentRepo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	gatewayCtx, cancel := context.WithTimeout(ctx, s.config.GatewayTimeout)
	defer cancel()

	started := time.Now()
	order, err := s.gateway.CreateOrder(gatewayCtx, &payment.OrderRequest{
		Amount:   p.FinalAmount,
		Currency: p.Currency,
		Receipt:  p.Receipt,
		Notes: map[string]string{
			"payment_id":  p.ID.Hex(),
			"user_id":     p.UserID.Hex(),
			"course_id":   p.CourseID.Hex(),
			"coupon_code": p.CouponCode,
		},
	})
	metrics.ObserveGatewayCall(s.gateway.Name(), "create_order", time.Since(started).Seconds())
	if err != nil {
		return nil, wrapError(ErrGatewayUnavailable, err, "")
	}
	if order.Amount != p.FinalAmount {
		log.WithFields(map[string]interface{}{
			"gateway_order_id": order.ID,
			"gateway_amount":   order.Amount,
			"expected_amount":  p.FinalAmount,
		}).Error("Gateway order amount differs from payment")
		return nil, wrapError(ErrOrderMismatch, nil, "gateway amount differs")
	}

	if err := s.paymentRepo.SetGatewayOrder(ctx, p.ID, order.ID); err != nil {
		return nil, fmt.Errorf("failed to save gateway order: %w", err)
	}
	p.GatewayOrderID = order.ID

	return &models.OrderRef{
		PaymentID:      p.ID,
		Gateway:        p.Gateway,
		GatewayOrderID: order.ID,
		Receipt:        p.Receipt,
		Amount:         p.FinalAmount,
		OriginalAmount: p.OriginalAmount,
		DiscountAmount: p.DiscountAmount,
		Currency:       p.Currency,
		CouponCode:     p.CouponCode,
		KeyID:          s.gateway.PublicKey(),
		ClientSecret:   order.ClientSecret,
		Status:         models.PaymentStatusCreated,
	}, nil
}

// createFreeOrder commits a fully discounted order without a gateway round trip.
func (s *checkoutService) createFreeOrder(ctx context.Context, log *logger.Logger, p *models.Payment) (*models.OrderRef, error) {
	p.Gateway = models.PaymentGatewayFree
	if err := s.paymentRepo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	result, err := s.commit(ctx, log, p, "", "")
	if result == nil {
		return nil, err
	}

	ref := &models.OrderRef{
		PaymentID:      p.ID,
		Gateway:        p.Gateway,
		Receipt:        p.Receipt,
		Amount:         p.FinalAmount,
		OriginalAmount: p.OriginalAmount,
		DiscountAmount: result.DiscountAmount,
		Currency:       p.Currency,
		CouponCode:     p.CouponCode,
		Status:         result.Status,
		Enrollment:     result,
	}
	return ref, err
}

func (s *checkoutService) VerifyAndCommit(ctx context.Context, input *VerifyPaymentInput) (*models.EnrollmentResult, error) {
	log := s.logger.WithContext(ctx).WithUserID(input.UserID).WithCourseID(input.CourseID).
		WithField("gateway_order_id", input.GatewayOrderID)

	p, err := s.paymentRepo.GetByGatewayOrderID(ctx, input.GatewayOrderID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			s.stageFailed(log, StageVerification, ErrOrderNotFound)
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	log = log.WithPaymentID(p.ID)

	if err := s.checkOwnership(log, p, input); err != nil {
		s.stageFailed(log, StageVerification, err)
		return nil, err
	}

	switch p.Status {
	case models.PaymentStatusCaptured:
		if p.GatewayPaymentID == input.GatewayPaymentID {
			s.stage(log, StageVerification, outcomeReplayed, nil)
			return replayedResult(p), nil
		}
		log.LogSecurityEvent("payment_id_reuse", "high", map[string]interface{}{
			"captured_payment_id": p.GatewayPaymentID,
			"supplied_payment_id": input.GatewayPaymentID,
		})
		s.stageFailed(log, StageVerification, ErrSignatureInvalid)
		return nil, wrapError(ErrSignatureInvalid, nil, "order already captured by another payment")
	case models.PaymentStatusRefunded:
		s.stageFailed(log, StageVerification, ErrOrderMismatch)
		return nil, wrapError(ErrOrderMismatch, nil, "payment refunded")
	}

	if err := s.verifyWithGateway(ctx, log, input); err != nil {
		s.stageFailed(log, StageVerification, err)
		return nil, err
	}
	s.stage(log, StageVerification, outcomeSucceeded, nil)

	return s.commit(ctx, log, p, input.GatewayPaymentID, input.Signature)
}

func (s *checkoutService) checkOwnership(log *logger.Logger, p *models.Payment, input *VerifyPaymentInput) error {
	details := map[string]interface{}{}
	switch {
	case p.UserID != input.UserID:
		details["reason"] = "user"
		details["order_user_id"] = p.UserID.Hex()
	case p.CourseID != input.CourseID:
		details["reason"] = "course"
		details["order_course_id"] = p.CourseID.Hex()
	case models.NormalizeCouponCode(input.CouponCode) != p.CouponCode:
		details["reason"] = "coupon"
		details["order_coupon"] = p.CouponCode
		details["supplied_coupon"] = input.CouponCode
	default:
		return nil
	}

	log.LogSecurityEvent("order_mismatch", "medium", details)
	return wrapError(ErrOrderMismatch, nil, details["reason"].(string))
}

func (s *checkoutService) verifyWithGateway(ctx context.Context, log *logger.Logger, input *VerifyPaymentInput) error {
	verifyCtx, cancel := context.WithTimeout(ctx, s.config.VerifyTimeout)
	defer cancel()

	started := time.Now()
	ok, err := s.gateway.VerifyPayment(verifyCtx, &payment.VerifyRequest{
		OrderID:   input.GatewayOrderID,
		PaymentID: input.GatewayPaymentID,
		Signature: input.Signature,
	})
	metrics.ObserveGatewayCall(s.gateway.Name(), "verify_payment", time.Since(started).Seconds())

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(verifyCtx.Err(), context.DeadlineExceeded) {
			return wrapError(ErrVerificationTimeout, err, "")
		}
		return wrapError(ErrGatewayUnavailable, err, "")
	}
	if !ok {
		log.LogSecurityEvent("payment_signature_invalid", "high", map[string]interface{}{
			"gateway_payment_id": input.GatewayPaymentID,
		})
		return ErrSignatureInvalid
	}
	return nil
}

// errAlreadyCaptured aborts a commit whose payment was captured concurrently.
var errAlreadyCaptured = errors.New("payment already captured")

// commit redeems the coupon, captures the payment and enrolls the user in one
// transaction. A coupon that can no longer be redeemed does not block the
// capture: the payment is recorded at full price and flagged for
// reconciliation, and the result is returned together with ErrCouponRaceLost.
func (s *checkoutService) commit(ctx context.Context, log *logger.Logger, p *models.Payment, gatewayPaymentID, signature string) (*models.EnrollmentResult, error) {
	commitCtx, cancel := context.WithTimeout(ctx, s.config.CommitTimeout)
	defer cancel()

	var (
		captured *models.Payment
		lost     *CheckoutError
	)

	err := s.txManager.WithTransaction(commitCtx, func(txCtx context.Context) error {
		captured, lost = nil, nil
		now := s.now().UTC()

		update := &models.CaptureUpdate{
			GatewayPaymentID: gatewayPaymentID,
			GatewaySignature: signature,
			DiscountAmount:   p.DiscountAmount,
			FinalAmount:      p.FinalAmount,
			CapturedAmount:   p.FinalAmount,
			CapturedAt:       now,
		}

		if p.CouponID != nil {
			if err := s.redeemCoupon(txCtx, p, now); err != nil {
				reason, ok := AsCheckoutError(err)
				if !ok {
					return err
				}
				if p.Gateway == models.PaymentGatewayFree {
					return reason
				}
				lost = reason
				update.DiscountAmount = 0
				update.FinalAmount = p.OriginalAmount
				update.NeedsReconciliation = true
				update.Notes = map[string]string{
					models.NoteReconciliationReason: string(reason.Kind),
					models.NoteRequestedCoupon:      p.CouponCode,
					models.NoteCapturedAmount:       strconv.FormatInt(p.FinalAmount, 10),
				}
			}
		}

		if err := s.paymentRepo.MarkCaptured(txCtx, p.ID, update); err != nil {
			if errors.Is(err, interfaces.ErrConflict) {
				return errAlreadyCaptured
			}
			return err
		}

		if err := s.userRepo.AddEnrollment(txCtx, p.UserID, p.CourseID); err != nil {
			return fmt.Errorf("failed to enroll user: %w", err)
		}

		captured = applyCapture(p, update)
		return nil
	})

	if errors.Is(err, errAlreadyCaptured) {
		return s.resolveConcurrentCapture(ctx, log, p, gatewayPaymentID)
	}
	if reason, ok := AsCheckoutError(err); ok {
		// free order whose coupon no longer applies; nothing was charged
		s.stage(log, StageCommit, outcomeFailed, map[string]interface{}{"error_kind": string(reason.Kind)})
		if markErr := s.paymentRepo.MarkFailed(ctx, p.ID, string(reason.Kind), s.now().UTC()); markErr != nil {
			log.WithError(markErr).Warn("Failed to mark free order failed")
		}
		return nil, reason
	}
	if err != nil {
		log.WithError(err).Error("Checkout commit failed")
		s.stage(log, StageCommit, outcomeFailed, map[string]interface{}{"error_kind": string(KindCommitFailed)})
		s.publish(ctx, log, utils.EventCheckoutCommitFailed, p, map[string]interface{}{
			"gateway_payment_id": gatewayPaymentID,
			"error":              err.Error(),
		})
		return nil, wrapError(ErrCommitFailed, err, "")
	}

	result := models.NewEnrollmentResult(captured)
	metrics.RecordPaymentCaptured(string(captured.Gateway), captured.NeedsReconciliation)
	s.audit.LogPaymentAudit(captured.ID, captured.CapturedAmount, captured.Currency, string(captured.Gateway), string(captured.Status))

	if lost != nil {
		log.WithField("reason", string(lost.Kind)).Warn("Coupon lost at commit, payment flagged for reconciliation")
		s.stage(log, StageCommit, outcomeReconciliation, map[string]interface{}{"reason": string(lost.Kind)})
		s.publish(ctx, log, utils.EventReconciliationNeeded, captured, map[string]interface{}{
			"reason":           string(lost.Kind),
			"requested_coupon": p.CouponCode,
			"captured_amount":  captured.CapturedAmount,
			"original_amount":  captured.OriginalAmount,
		})
		return result, wrapError(ErrCouponRaceLost, lost, string(lost.Kind))
	}

	s.stage(log, StageCommit, outcomeSucceeded, map[string]interface{}{"amount": captured.CapturedAmount})
	s.publish(ctx, log, utils.EventPaymentCaptured, captured, nil)
	if captured.CouponID != nil {
		s.publish(ctx, log, utils.EventCouponRedeemed, captured, map[string]interface{}{
			"discount_amount": captured.DiscountAmount,
		})
	}
	return result, nil
}

// redeemCoupon re-validates the order's coupon inside the transaction and
// consumes one use. Any *CheckoutError it returns means the coupon is lost.
func (s *checkoutService) redeemCoupon(ctx context.Context, p *models.Payment, now time.Time) error {
	coupon, err := s.couponRepo.GetByID(ctx, *p.CouponID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return ErrCouponNotFound
		}
		return fmt.Errorf("failed to get coupon: %w", err)
	}

	if err := checkCouponState(coupon, p.CourseID, now); err != nil {
		return err
	}
	if err := checkPerUserLimit(ctx, s.redemptionRepo, coupon, p.UserID); err != nil {
		return err
	}

	if _, err := s.couponRepo.IncrementUsageIfAvailable(ctx, coupon.ID, now); err != nil {
		if errors.Is(err, interfaces.ErrConflict) {
			return ErrUsageExhausted
		}
		return err
	}

	return s.redemptionRepo.Create(ctx, &models.CouponRedemption{
		ID:             primitive.NewObjectID(),
		CouponID:       coupon.ID,
		CouponCode:     coupon.Code,
		UserID:         p.UserID,
		PaymentID:      p.ID,
		CourseID:       p.CourseID,
		DiscountAmount: p.DiscountAmount,
		RedeemedAt:     now,
	})
}

func (s *checkoutService) resolveConcurrentCapture(ctx context.Context, log *logger.Logger, p *models.Payment, gatewayPaymentID string) (*models.EnrollmentResult, error) {
	current, err := s.paymentRepo.GetByID(ctx, p.ID)
	if err != nil {
		return nil, wrapError(ErrCommitFailed, err, "")
	}

	if current.Status == models.PaymentStatusCaptured && current.GatewayPaymentID == gatewayPaymentID {
		s.stage(log, StageCommit, outcomeReplayed, nil)
		return replayedResult(current), nil
	}

	log.WithField("status", string(current.Status)).Warn("Payment changed state during commit")
	s.stage(log, StageCommit, outcomeFailed, map[string]interface{}{"error_kind": string(KindSignatureInvalid)})
	return nil, wrapError(ErrSignatureInvalid, nil, "order settled by another payment")
}

func (s *checkoutService) ReportFailure(ctx context.Context, input *ReportFailureInput) (*models.Payment, error) {
	log := s.logger.WithContext(ctx).WithUserID(input.UserID).WithField("gateway_order_id", input.GatewayOrderID)

	p, err := s.paymentRepo.GetByGatewayOrderID(ctx, input.GatewayOrderID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	log = log.WithPaymentID(p.ID)

	if p.UserID != input.UserID {
		log.LogSecurityEvent("order_mismatch", "medium", map[string]interface{}{"reason": "user"})
		return nil, wrapError(ErrOrderMismatch, nil, "user")
	}

	outcome := ErrPaymentFailed
	if input.Cancelled {
		outcome = ErrPaymentCancelled
	}
	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		reason = outcome.Message
	}

	switch p.Status {
	case models.PaymentStatusFailed:
		return p, wrapError(outcome, nil, p.FailureReason)
	case models.PaymentStatusCreated:
	default:
		return nil, wrapError(ErrOrderMismatch, nil, "payment already "+string(p.Status))
	}

	now := s.now().UTC()
	if err := s.paymentRepo.MarkFailed(ctx, p.ID, reason, now); err != nil {
		if errors.Is(err, interfaces.ErrConflict) {
			return nil, wrapError(ErrOrderMismatch, err, "payment changed state")
		}
		return nil, fmt.Errorf("failed to mark payment failed: %w", err)
	}

	p.Status = models.PaymentStatusFailed
	p.FailureReason = reason
	p.FailedAt = &now

	s.stage(log, StageFailureReport, string(outcome.Kind), map[string]interface{}{"reason": reason})
	s.publish(ctx, log, utils.EventCheckoutPaymentFailed, p, map[string]interface{}{
		"reason":    reason,
		"cancelled": input.Cancelled,
	})
	return p, wrapError(outcome, nil, reason)
}

func (s *checkoutService) ListPayments(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Payment, int64, error) {
	return s.paymentRepo.ListByUser(ctx, userID, params)
}

func (s *checkoutService) stage(log *logger.Logger, stage, outcome string, details map[string]interface{}) {
	metrics.RecordCheckoutStage(stage, outcome)
	log.LogCheckoutEvent(stage, outcome, details)
}

func (s *checkoutService) stageFailed(log *logger.Logger, stage string, err error) {
	details := map[string]interface{}{}
	if ce, ok := AsCheckoutError(err); ok {
		details["error_kind"] = string(ce.Kind)
		details["category"] = string(ce.Category())
	} else {
		details["error"] = err.Error()
	}
	s.stage(log, stage, outcomeFailed, details)
}

// publish notifies operators. Delivery failures are logged and never fail
// the checkout.
func (s *checkoutService) publish(ctx context.Context, log *logger.Logger, eventType string, p *models.Payment, extra map[string]interface{}) {
	data := map[string]interface{}{
		"payment_id":      p.ID.Hex(),
		"user_id":         p.UserID.Hex(),
		"course_id":       p.CourseID.Hex(),
		"gateway":         string(p.Gateway),
		"gateway_order":   p.GatewayOrderID,
		"final_amount":    p.FinalAmount,
		"original_amount": p.OriginalAmount,
		"currency":        p.Currency,
	}
	if p.CouponCode != "" {
		data["coupon_code"] = p.CouponCode
	}
	for k, v := range extra {
		data[k] = v
	}

	// The checkout already committed, so a cancelled request must not drop
	// the event; the timeout still bounds a stalled publisher.
	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.eventTimeout())
	defer cancel()

	if err := s.publisher.Publish(publishCtx, events.NewEvent(eventType, data)); err != nil {
		log.WithError(err).WithField("event_type", eventType).Warn("Failed to publish event")
	}
}

func (s *checkoutService) eventTimeout() time.Duration {
	if s.config.EventTimeout > 0 {
		return s.config.EventTimeout
	}
	return utils.DefaultEventTimeout
}

func applyCapture(p *models.Payment, update *models.CaptureUpdate) *models.Payment {
	captured := *p
	capturedAt := update.CapturedAt
	captured.Status = models.PaymentStatusCaptured
	captured.GatewayPaymentID = update.GatewayPaymentID
	captured.GatewaySignature = update.GatewaySignature
	captured.DiscountAmount = update.DiscountAmount
	captured.FinalAmount = update.FinalAmount
	captured.CapturedAmount = update.CapturedAmount
	captured.NeedsReconciliation = update.NeedsReconciliation
	captured.CapturedAt = &capturedAt
	captured.UpdatedAt = capturedAt
	if len(update.Notes) > 0 {
		captured.Notes = make(map[string]string, len(p.Notes)+len(update.Notes))
		for k, v := range p.Notes {
			captured.Notes[k] = v
		}
		for k, v := range update.Notes {
			captured.Notes[k] = v
		}
	}
	return &captured
}

func replayedResult(p *models.Payment) *models.EnrollmentResult {
	result := models.NewEnrollmentResult(p)
	result.Replayed = true
	return result
}

// newReceipt stays within Razorpay's 40 character receipt limit.
func newReceipt() string {
	return utils.ReceiptPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")
}

func courseCurrency(course *models.Course) string {
	if course.Currency == "" {
		return utils.DefaultCurrency
	}
	return strings.ToUpper(course.Currency)
}
