package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/narendra12543/Learning-Management-System-sub001/internal/models"
	"github.com/narendra12543/Learning-Management-System-sub001/internal/repositories/interfaces"
	"github.com/narendra12543/Learning-Management-System-sub001/internal/utils"
	"github.com/narendra12543/Learning-Management-System-sub001/pkg/events"
	"github.com/narendra12543/Learning-Management-System-sub001/pkg/payment"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memStore backs every fake repository. txMu serializes transactions the way
// write conflicts serialize them in MongoDB; mu guards the data.
type memStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	coupons     map[primitive.ObjectID]*models.Coupon
	redemptions []*models.CouponRedemption
	payments    map[primitive.ObjectID]*models.Payment
	courses     map[primitive.ObjectID]*models.Course
	enrollments map[primitive.ObjectID]map[primitive.ObjectID]bool

	enrollErr error
}

func newMemStore() *memStore {
	return &memStore{
		coupons:     map[primitive.ObjectID]*models.Coupon{},
		payments:    map[primitive.ObjectID]*models.Payment{},
		courses:     map[primitive.ObjectID]*models.Course{},
		enrollments: map[primitive.ObjectID]map[primitive.ObjectID]bool{},
	}
}

type memSnapshot struct {
	coupons     map[primitive.ObjectID]*models.Coupon
	redemptions []*models.CouponRedemption
	payments    map[primitive.ObjectID]*models.Payment
	enrollments map[primitive.ObjectID]map[primitive.ObjectID]bool
}

func (s *memStore) snapshot() memSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := memSnapshot{
		coupons:     make(map[primitive.ObjectID]*models.Coupon, len(s.coupons)),
		redemptions: append([]*models.CouponRedemption(nil), s.redemptions...),
		payments:    make(map[primitive.ObjectID]*models.Payment, len(s.payments)),
		enrollments: make(map[primitive.ObjectID]map[primitive.ObjectID]bool, len(s.enrollments)),
	}
	for id, c := range s.coupons {
		cp := *c
		snap.coupons[id] = &cp
	}
	for id, p := range s.payments {
		cp := *p
		snap.payments[id] = &cp
	}
	for user, courses := range s.enrollments {
		m := make(map[primitive.ObjectID]bool, len(courses))
		for c := range courses {
			m[c] = true
		}
		snap.enrollments[user] = m
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.coupons = snap.coupons
	s.redemptions = snap.redemptions
	s.payments = snap.payments
	s.enrollments = snap.enrollments
}

func (s *memStore) addCourse(course *models.Course) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *course
	s.courses[course.ID] = &cp
}

func (s *memStore) addCoupon(coupon *models.Coupon) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *coupon
	s.coupons[coupon.ID] = &cp
}

func (s *memStore) coupon(id primitive.ObjectID) models.Coupon {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.coupons[id]
}

func (s *memStore) payment(id primitive.ObjectID) models.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.payments[id]
}

func (s *memStore) paymentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.payments)
}

func (s *memStore) redemptionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.redemptions)
}

func (s *memStore) isEnrolled(userID, courseID primitive.ObjectID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enrollments[userID][courseID]
}

// coupons

type memCouponRepo struct{ s *memStore }

func (r memCouponRepo) Create(_ context.Context, coupon *models.Coupon) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.coupons {
		if c.Code == coupon.Code {
			return fmt.Errorf("coupon code %s: %w", coupon.Code, interfaces.ErrDuplicate)
		}
	}
	if coupon.ID.IsZero() {
		coupon.ID = primitive.NewObjectID()
	}
	cp := *coupon
	r.s.coupons[coupon.ID] = &cp
	return nil
}

func (r memCouponRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Coupon, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.coupons[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r memCouponRepo) Update(_ context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.coupons[id]
	if !ok {
		return interfaces.ErrNotFound
	}
	if limit, ok := updates["usage_limit"]; ok && c.UsedCount > limit.(int) {
		return interfaces.ErrConflict
	}
	cp := *c
	for k, v := range updates {
		switch k {
		case "description":
			cp.Description = v.(string)
		case "discount_type":
			cp.DiscountType = v.(models.DiscountType)
		case "discount_value":
			cp.DiscountValue = v.(float64)
		case "max_discount":
			cp.MaxDiscount = v.(*int64)
		case "min_purchase_amount":
			cp.MinPurchaseAmount = v.(int64)
		case "applicable_courses":
			cp.ApplicableCourses = v.([]primitive.ObjectID)
		case "usage_limit":
			cp.UsageLimit = v.(int)
		case "per_user_limit":
			cp.PerUserLimit = v.(int)
		case "expiry_date":
			cp.ExpiryDate = v.(time.Time)
		case "is_active":
			cp.IsActive = v.(bool)
		case "updated_at":
			cp.UpdatedAt = v.(time.Time)
		default:
			return fmt.Errorf("unexpected update field %q", k)
		}
	}
	r.s.coupons[id] = &cp
	return nil
}

func (r memCouponRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.coupons[id]
	if !ok {
		return interfaces.ErrNotFound
	}
	if c.UsedCount > 0 {
		return interfaces.ErrConflict
	}
	delete(r.s.coupons, id)
	return nil
}

func (r memCouponRepo) GetByCode(_ context.Context, code string) (*models.Coupon, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.coupons {
		if c.Code == code {
			cp := *c
			return &cp, nil
		}
	}
	return nil, interfaces.ErrNotFound
}

func (r memCouponRepo) List(_ context.Context, filter *models.CouponFilter, _ *utils.PaginationParams) ([]*models.Coupon, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Coupon
	for _, c := range r.s.coupons {
		if filter != nil && filter.IsActive != nil && c.IsActive != *filter.IsActive {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, int64(len(out)), nil
}

func (r memCouponRepo) FindApplicable(_ context.Context, courseID primitive.ObjectID, now time.Time) ([]*models.Coupon, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Coupon
	for _, c := range r.s.coupons {
		if c.IsCurrentlyValid(now) && c.AppliesTo(courseID) {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r memCouponRepo) IncrementUsageIfAvailable(_ context.Context, id primitive.ObjectID, now time.Time) (*models.Coupon, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.coupons[id]
	if !ok || !c.IsCurrentlyValid(now) {
		return nil, interfaces.ErrConflict
	}
	cp := *c
	cp.UsedCount++
	r.s.coupons[id] = &cp
	out := cp
	return &out, nil
}

// redemptions

type memRedemptionRepo struct{ s *memStore }

func (r memRedemptionRepo) Create(_ context.Context, redemption *models.CouponRedemption) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.redemptions {
		if existing.PaymentID == redemption.PaymentID {
			return interfaces.ErrDuplicate
		}
	}
	cp := *redemption
	r.s.redemptions = append(r.s.redemptions, &cp)
	return nil
}

func (r memRedemptionRepo) GetByPaymentID(_ context.Context, paymentID primitive.ObjectID) (*models.CouponRedemption, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.redemptions {
		if existing.PaymentID == paymentID {
			cp := *existing
			return &cp, nil
		}
	}
	return nil, interfaces.ErrNotFound
}

func (r memRedemptionRepo) CountByCouponAndUser(_ context.Context, couponID, userID primitive.ObjectID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, existing := range r.s.redemptions {
		if existing.CouponID == couponID && existing.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r memRedemptionRepo) CountByUser(_ context.Context, userID primitive.ObjectID, couponIDs []primitive.ObjectID) (map[primitive.ObjectID]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	wanted := make(map[primitive.ObjectID]bool, len(couponIDs))
	for _, id := range couponIDs {
		wanted[id] = true
	}
	counts := map[primitive.ObjectID]int64{}
	for _, existing := range r.s.redemptions {
		if existing.UserID == userID && wanted[existing.CouponID] {
			counts[existing.CouponID]++
		}
	}
	return counts, nil
}

// payments

type memPaymentRepo struct{ s *memStore }

func (r memPaymentRepo) Create(_ context.Context, p *models.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.payments {
		if existing.Receipt == p.Receipt {
			return interfaces.ErrDuplicate
		}
	}
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	cp := *p
	r.s.payments[p.ID] = &cp
	return nil
}

func (r memPaymentRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.payments[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r memPaymentRepo) GetByGatewayOrderID(_ context.Context, gatewayOrderID string) (*models.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.payments {
		if p.GatewayOrderID != "" && p.GatewayOrderID == gatewayOrderID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, interfaces.ErrNotFound
}

func (r memPaymentRepo) SetGatewayOrder(_ context.Context, id primitive.ObjectID, gatewayOrderID string) error {
	return r.transition(id, []models.PaymentStatus{models.PaymentStatusCreated}, func(p *models.Payment) error {
		if p.GatewayOrderID != "" {
			return interfaces.ErrConflict
		}
		p.GatewayOrderID = gatewayOrderID
		return nil
	})
}

func (r memPaymentRepo) MarkCaptured(_ context.Context, id primitive.ObjectID, update *models.CaptureUpdate) error {
	allowed := []models.PaymentStatus{models.PaymentStatusCreated, models.PaymentStatusAuthorized, models.PaymentStatusFailed}
	return r.transition(id, allowed, func(p *models.Payment) error {
		capturedAt := update.CapturedAt
		p.Status = models.PaymentStatusCaptured
		p.GatewayPaymentID = update.GatewayPaymentID
		p.GatewaySignature = update.GatewaySignature
		p.DiscountAmount = update.DiscountAmount
		p.FinalAmount = update.FinalAmount
		p.CapturedAmount = update.CapturedAmount
		p.NeedsReconciliation = update.NeedsReconciliation
		p.CapturedAt = &capturedAt
		if len(update.Notes) > 0 {
			notes := map[string]string{}
			for k, v := range p.Notes {
				notes[k] = v
			}
			for k, v := range update.Notes {
				notes[k] = v
			}
			p.Notes = notes
		}
		return nil
	})
}

func (r memPaymentRepo) MarkFailed(_ context.Context, id primitive.ObjectID, reason string, at time.Time) error {
	return r.transition(id, []models.PaymentStatus{models.PaymentStatusCreated}, func(p *models.Payment) error {
		p.Status = models.PaymentStatusFailed
		p.FailureReason = reason
		p.FailedAt = &at
		return nil
	})
}

func (r memPaymentRepo) transition(id primitive.ObjectID, from []models.PaymentStatus, apply func(p *models.Payment) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.payments[id]
	if !ok {
		return interfaces.ErrConflict
	}
	allowed := false
	for _, status := range from {
		if p.Status == status {
			allowed = true
		}
	}
	if !allowed {
		return interfaces.ErrConflict
	}
	cp := *p
	if err := apply(&cp); err != nil {
		return err
	}
	r.s.payments[id] = &cp
	return nil
}

func (r memPaymentRepo) ListByUser(_ context.Context, userID primitive.ObjectID, _ *utils.PaginationParams) ([]*models.Payment, int64, error) {
	return r.list(func(p *models.Payment) bool { return p.UserID == userID })
}

func (r memPaymentRepo) ListNeedingReconciliation(_ context.Context, _ *utils.PaginationParams) ([]*models.Payment, int64, error) {
	return r.list(func(p *models.Payment) bool { return p.NeedsReconciliation })
}

func (r memPaymentRepo) list(match func(p *models.Payment) bool) ([]*models.Payment, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Payment
	for _, p := range r.s.payments {
		if match(p) {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, int64(len(out)), nil
}

// courses and users

type memCourseRepo struct{ s *memStore }

func (r memCourseRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Course, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.courses[id]
	if !ok {
		return nil, interfaces.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r memCourseRepo) GetCurrent(ctx context.Context, id primitive.ObjectID) (*models.Course, error) {
	return r.GetByID(ctx, id)
}

func (r memCourseRepo) ListPublished(_ context.Context, _ *utils.PaginationParams) ([]*models.Course, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Course
	for _, c := range r.s.courses {
		if c.IsPublished {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, int64(len(out)), nil
}

type memUserRepo struct{ s *memStore }

func (r memUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	return &models.User{ID: id, Role: models.UserRoleStudent}, nil
}

func (r memUserRepo) IsEnrolled(_ context.Context, userID, courseID primitive.ObjectID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.enrollments[userID][courseID], nil
}

func (r memUserRepo) AddEnrollment(_ context.Context, userID, courseID primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.enrollErr != nil {
		return r.s.enrollErr
	}
	if r.s.enrollments[userID] == nil {
		r.s.enrollments[userID] = map[primitive.ObjectID]bool{}
	}
	r.s.enrollments[userID][courseID] = true
	return nil
}

// memTxManager runs one transaction at a time and rolls back on error.
type memTxManager struct{ s *memStore }

func (m memTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.s.txMu.Lock()
	defer m.s.txMu.Unlock()

	snap := m.s.snapshot()
	if err := fn(ctx); err != nil {
		m.s.restore(snap)
		return err
	}
	return nil
}

// gateway and events

type fakeGateway struct {
	mu          sync.Mutex
	createErr   error
	verifyErr   error
	blockVerify bool
	createCalls int
	verifyCalls int
}

func (g *fakeGateway) Name() string      { return "razorpay" }
func (g *fakeGateway) PublicKey() string { return "rzp_test_key" }

func (g *fakeGateway) CreateOrder(_ context.Context, request *payment.OrderRequest) (*payment.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.createCalls++
	if g.createErr != nil {
		return nil, g.createErr
	}
	return &payment.Order{
		ID:       fmt.Sprintf("order_%d", g.createCalls),
		Amount:   request.Amount,
		Currency: request.Currency,
		Status:   "created",
	}, nil
}

func (g *fakeGateway) VerifyPayment(ctx context.Context, request *payment.VerifyRequest) (bool, error) {
	g.mu.Lock()
	g.verifyCalls++
	block, verifyErr := g.blockVerify, g.verifyErr
	g.mu.Unlock()

	if block {
		<-ctx.Done()
		return false, ctx.Err()
	}
	if verifyErr != nil {
		return false, verifyErr
	}
	return request.Signature == signatureFor(request.PaymentID), nil
}

func (g *fakeGateway) calls() (create, verify int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.createCalls, g.verifyCalls
}

func signatureFor(paymentID string) string {
	return "sig_" + paymentID
}

type fakePublisher struct {
	mu     sync.Mutex
	events []*events.Event
	// block makes Publish wait for ctx, like a stalled SNS call.
	block bool
}

func (p *fakePublisher) Publish(ctx context.Context, event *events.Event) error {
	p.mu.Lock()
	block := p.block
	p.mu.Unlock()
	if block {
		<-ctx.Done()
		return ctx.Err()
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *fakePublisher) count(eventType string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, e := range p.events {
		if e.Type == eventType {
			n++
		}
	}
	return n
}
