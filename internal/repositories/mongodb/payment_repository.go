package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/narendra12543/Learning-Management-System-sub001/internal/models"
	"github.com/narendra12543/Learning-Management-System-sub001/internal/repositories/interfaces"
	"github.com/narendra12543/Learning-Management-System-sub001/internal/utils"
	"github.com/narendra12543/Learning-Management-System-sub001/pkg/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type paymentRepository struct {
	collection *mongo.Collection
}

func NewPaymentRepository(db *mongo.Database) interfaces.PaymentRepository {
	return &paymentRepository{
		collection: db.Collection(database.CollectionPayments),
	}
}

// Basic CRUD operations
func (r *paymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	now := time.Now()
	if payment.ID.IsZero() {
		payment.ID = primitive.NewObjectID()
	}
	payment.CreatedAt = now
	payment.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, payment)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("payment %s: %w", payment.Receipt, interfaces.ErrDuplicate)
		}
		return fmt.Errorf("failed to create payment: %w", err)
	}

	return nil
}

func (r *paymentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Payment, error) {
	return r.findOne(ctx, bson.M{"_id": id}, id.Hex())
}

func (r *paymentRepository) GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*models.Payment, error) {
	return r.findOne(ctx, bson.M{"gateway_order_id": gatewayOrderID}, gatewayOrderID)
}

func (r *paymentRepository) findOne(ctx context.Context, filter bson.M, ref string) (*models.Payment, error) {
	var payment models.Payment
	err := r.collection.FindOne(ctx, filter).Decode(&payment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("payment %s: %w", ref, interfaces.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	return &payment, nil
}

// State transitions
func (r *paymentRepository) SetGatewayOrder(ctx context.Context, id primitive.ObjectID, gatewayOrderID string) error {
	filter := bson.M{
		"_id":              id,
		"status":           models.PaymentStatusCreated,
		"gateway_order_id": bson.M{"$exists": false},
	}
	update := bson.M{"$set": bson.M{
		"gateway_order_id": gatewayOrderID,
		"updated_at":       time.Now(),
	}}

	return r.transition(ctx, filter, update, id)
}

func (r *paymentRepository) MarkCaptured(ctx context.Context, id primitive.ObjectID, capture *models.CaptureUpdate) error {
	filter := bson.M{
		"_id": id,
		"status": bson.M{"$in": bson.A{
			models.PaymentStatusCreated,
			models.PaymentStatusAuthorized,
			models.PaymentStatusFailed,
		}},
	}

	set := bson.M{
		"status":               models.PaymentStatusCaptured,
		"discount_amount":      capture.DiscountAmount,
		"final_amount":         capture.FinalAmount,
		"captured_amount":      capture.CapturedAmount,
		"needs_reconciliation": capture.NeedsReconciliation,
		"captured_at":          capture.CapturedAt,
		"updated_at":           capture.CapturedAt,
	}
	if capture.GatewayPaymentID != "" {
		set["gateway_payment_id"] = capture.GatewayPaymentID
	}
	if capture.GatewaySignature != "" {
		set["gateway_signature"] = capture.GatewaySignature
	}
	for k, v := range capture.Notes {
		set["notes."+k] = v
	}

	return r.transition(ctx, filter, bson.M{"$set": set}, id)
}

func (r *paymentRepository) MarkFailed(ctx context.Context, id primitive.ObjectID, reason string, at time.Time) error {
	filter := bson.M{
		"_id":    id,
		"status": models.PaymentStatusCreated,
	}
	update := bson.M{"$set": bson.M{
		"status":                           models.PaymentStatusFailed,
		"failure_reason":                   reason,
		"failed_at":                        at,
		"updated_at":                       at,
		"notes." + models.NoteFailureReason: reason,
	}}

	return r.transition(ctx, filter, update, id)
}

func (r *paymentRepository) transition(ctx context.Context, filter, update bson.M, id primitive.ObjectID) error {
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("payment %s: %w", id.Hex(), interfaces.ErrDuplicate)
		}
		return fmt.Errorf("failed to update payment: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("payment %s: %w", id.Hex(), interfaces.ErrConflict)
	}

	return nil
}

// Listing
func (r *paymentRepository) ListByUser(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Payment, int64, error) {
	return r.list(ctx, bson.M{"user_id": userID}, params)
}

func (r *paymentRepository) ListNeedingReconciliation(ctx context.Context, params *utils.PaginationParams) ([]*models.Payment, int64, error) {
	return r.list(ctx, bson.M{"needs_reconciliation": true}, params)
}

func (r *paymentRepository) list(ctx context.Context, filter bson.M, params *utils.PaginationParams) ([]*models.Payment, int64, error) {
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count payments: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payments: %w", err)
	}
	defer cursor.Close(ctx)

	var payments []*models.Payment
	if err := cursor.All(ctx, &payments); err != nil {
		return nil, 0, fmt.Errorf("failed to decode payments: %w", err)
	}

	return payments, total, nil
}
