package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/meireles/campus-records-api/internal/service"
	appErrors "github.com/meireles/campus-records-api/pkg/errors"
	"github.com/meireles/campus-records-api/pkg/response"
)

// EnrollmentHandler exposes degree, course-edition and activity enrollment
// endpoints.
type EnrollmentHandler struct {
	enrollments *service.EnrollmentService
}

// NewEnrollmentHandler constructs EnrollmentHandler.
func NewEnrollmentHandler(enrollments *service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments}
}

// EnrollDegree godoc
// @Summary Enroll a student in a degree
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param degree_id path int true "Degree ID"
// @Param payload body enrollDegreeRequest true "Student"
// @Success 200 {object} response.Envelope
// @Router /enroll_degree/{degree_id} [post]
func (h *EnrollmentHandler) EnrollDegree(c *gin.Context) {
	majorID, err := strconv.ParseInt(c.Param("degree_id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid degree id"))
		return
	}
	var req enrollDegreeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if req.StudentID == 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "student_id is required"))
		return
	}
	result, err := h.enrollments.EnrollDegree(c.Request.Context(), req.StudentID, majorID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// UnenrollDegree godoc
// @Summary Unenroll a student from their active degree
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param payload body enrollDegreeRequest true "Student"
// @Success 200 {object} response.Envelope
// @Router /unenroll_degree [post]
func (h *EnrollmentHandler) UnenrollDegree(c *gin.Context) {
	var req enrollDegreeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if req.StudentID == 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "student_id is required"))
		return
	}
	result, err := h.enrollments.UnenrollDegree(c.Request.Context(), req.StudentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// EnrollCourseEdition godoc
// @Summary Enroll the caller in a course edition
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param course_edition_id path int true "Course edition ID"
// @Param payload body service.EnrollCourseRequest true "Class selection"
// @Success 200 {object} response.Envelope
// @Router /enroll_course_edition/{course_edition_id} [post]
func (h *EnrollmentHandler) EnrollCourseEdition(c *gin.Context) {
	editionID, err := strconv.ParseInt(c.Param("course_edition_id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid course edition id"))
		return
	}
	var req service.EnrollCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	result, err := h.enrollments.EnrollCourseEdition(c.Request.Context(), claims.PersonID, editionID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// EnrollActivity godoc
// @Summary Enroll the caller in an extracurricular activity
// @Tags Enrollments
// @Produce json
// @Param activity_id path int true "Activity ID"
// @Success 200 {object} response.Envelope
// @Router /enroll_activity/{activity_id} [post]
func (h *EnrollmentHandler) EnrollActivity(c *gin.Context) {
	activityID, err := strconv.ParseInt(c.Param("activity_id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid activity id"))
		return
	}
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	result, err := h.enrollments.EnrollActivity(c.Request.Context(), claims.PersonID, activityID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

type enrollDegreeRequest struct {
	StudentID int64 `json:"student_id"`
}
