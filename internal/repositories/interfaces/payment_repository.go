package interfaces

import (
	"context"
	"time"

	"github.com/narendra12543/Learning-Management-System-sub001/internal/models"
	"github.com/narendra12543/Learning-Management-System-sub001/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Payment, error)
	GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*models.Payment, error)

	// State transitions. Each returns ErrConflict when the payment is not in
	// a state the transition is allowed from.
	SetGatewayOrder(ctx context.Context, id primitive.ObjectID, gatewayOrderID string) error
	MarkCaptured(ctx context.Context, id primitive.ObjectID, update *models.CaptureUpdate) error
	MarkFailed(ctx context.Context, id primitive.ObjectID, reason string, at time.Time) error

	ListByUser(ctx context.Context, userID primitive.ObjectID, params *utils.PaginationParams) ([]*models.Payment, int64, error)
	ListNeedingReconciliation(ctx context.Context, params *utils.PaginationParams) ([]*models.Payment, int64, error)
}
