package interfaces

import (
	"context"

	"github.com/narendra12543/Learning-Management-System-sub001/internal/models"
	"github.com/narendra12543/Learning-Management-System-sub001/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CourseRepository interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Course, error)
	// GetCurrent skips the cache. Pricing uses it so orders never see a
	// stale fee.
	GetCurrent(ctx context.Context, id primitive.ObjectID) (*models.Course, error)
	ListPublished(ctx context.Context, params *utils.PaginationParams) ([]*models.Course, int64, error)
}
