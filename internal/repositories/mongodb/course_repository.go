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

type courseRepository struct {
	collection *mongo.Collection
	cache      CacheService
	cacheTTL   time.Duration
}

func NewCourseRepository(db *mongo.Database, cache CacheService, cacheTTL time.Duration) interfaces.CourseRepository {
	if cacheTTL <= 0 {
		cacheTTL = utils.CourseCacheTTL
	}
	return &courseRepository{
		collection: db.Collection(database.CollectionCourses),
		cache:      cache,
		cacheTTL:   cacheTTL,
	}
}

func (r *courseRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Course, error) {
	if course := r.getCourseFromCache(ctx, id); course != nil {
		return course, nil
	}
	return r.GetCurrent(ctx, id)
}

func (r *courseRepository) GetCurrent(ctx context.Context, id primitive.ObjectID) (*models.Course, error) {
	var course models.Course
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&course)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("course %s: %w", id.Hex(), interfaces.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	r.cacheCourse(ctx, &course)

	return &course, nil
}

func (r *courseRepository) ListPublished(ctx context.Context, params *utils.PaginationParams) ([]*models.Course, int64, error) {
	filter := params.GetSearchFilter([]string{"title", "slug"})
	filter["is_published"] = true

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count courses: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list courses: %w", err)
	}
	defer cursor.Close(ctx)

	var courses []*models.Course
	if err := cursor.All(ctx, &courses); err != nil {
		return nil, 0, fmt.Errorf("failed to decode courses: %w", err)
	}

	return courses, total, nil
}

func (r *courseRepository) cacheCourse(ctx context.Context, course *models.Course) {
	if r.cache == nil {
		return
	}
	// best effort
	_ = r.cache.Set(ctx, utils.CacheCoursePrefix+course.ID.Hex(), course, r.cacheTTL)
}

func (r *courseRepository) getCourseFromCache(ctx context.Context, id primitive.ObjectID) *models.Course {
	if r.cache == nil {
		return nil
	}

	var course models.Course
	if err := r.cache.Get(ctx, utils.CacheCoursePrefix+id.Hex(), &course); err != nil {
		return nil
	}

	return &course
}
