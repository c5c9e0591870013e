package interfaces

import (
	"context"

	"github.com/narendra12543/Learning-Management-System-sub001/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRepository interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	IsEnrolled(ctx context.Context, userID, courseID primitive.ObjectID) (bool, error)
	// AddEnrollment is idempotent.
	AddEnrollment(ctx context.Context, userID, courseID primitive.ObjectID) error
}
