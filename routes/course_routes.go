package routes

import (
	handlers "github.com/narendra12543/Learning-Management-System-sub001/internal/handlers/shared"

	"github.com/gin-gonic/gin"
)

// SetupCourseRoutes sets up the public catalog routes
func SetupCourseRoutes(r *gin.RouterGroup, courseHandler *handlers.CourseHandler) {
	courses := r.Group("/courses")
	{
		courses.GET("", courseHandler.ListCourses)
		courses.GET("/:id", courseHandler.GetCourse)
	}
}
