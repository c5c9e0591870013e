package handlers

import (
	"github.com/narendra12543/Learning-Management-System-sub001/internal/services"
	"github.com/narendra12543/Learning-Management-System-sub001/internal/utils"

	"github.com/gin-gonic/gin"
)

type CourseHandler struct {
	courseService services.CourseService
}

func NewCourseHandler(courseService services.CourseService) *CourseHandler {
	return &CourseHandler{
		courseService: courseService,
	}
}

func (h *CourseHandler) GetCourse(c *gin.Context) {
	courseID, ok := parseObjectIDParam(c, "id", "course")
	if !ok {
		return
	}

	course, err := h.courseService.GetCourse(c.Request.Context(), courseID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, "Course retrieved successfully", course)
}

func (h *CourseHandler) ListCourses(c *gin.Context) {
	params := utils.GetPaginationParams(c, "title", "fees")
	courses, total, err := h.courseService.ListCourses(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.PaginatedResponse(c, "Courses retrieved successfully", courses, params, total)
}
