package services

import (
	"context"
	"fmt"

	"github.com/narendra12543/Learning-Management-System-sub001/internal/models"
	"github.com/narendra12543/Learning-Management-System-sub001/internal/repositories/interfaces"
	"github.com/narendra12543/Learning-Management-System-sub001/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CourseService exposes the published catalog.
type CourseService interface {
	GetCourse(ctx context.Context, id primitive.ObjectID) (*models.Course, error)
	ListCourses(ctx context.Context, params *utils.PaginationParams) ([]*models.Course, int64, error)
}

type courseService struct {
	courseRepo interfaces.CourseRepository
}

func NewCourseService(courseRepo interfaces.CourseRepository) CourseService {
	return &courseService{courseRepo: courseRepo}
}

func (s *courseService) GetCourse(ctx context.Context, id primitive.ObjectID) (*models.Course, error) {
	return loadCourse(ctx, s.courseRepo.GetByID, id)
}

func (s *courseService) ListCourses(ctx context.Context, params *utils.PaginationParams) ([]*models.Course, int64, error) {
	courses, total, err := s.courseRepo.ListPublished(ctx, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, total, nil
}
