package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/meireles/campus-records-api/internal/service"
	appErrors "github.com/meireles/campus-records-api/pkg/errors"
	"github.com/meireles/campus-records-api/pkg/response"
)

// GradeHandler exposes grade submission endpoints.
type GradeHandler struct {
	grades *service.GradeService
}

// NewGradeHandler constructs GradeHandler.
func NewGradeHandler(grades *service.GradeService) *GradeHandler {
	return &GradeHandler{grades: grades}
}

// Submit godoc
// @Summary Submit a batch of grades for a course edition
// @Tags Grades
// @Accept json
// @Produce json
// @Param course_edition_id path int true "Course edition ID"
// @Param payload body service.SubmitGradesRequest true "Grades payload"
// @Success 200 {object} response.Envelope
// @Router /submit_grades/{course_edition_id} [post]
func (h *GradeHandler) Submit(c *gin.Context) {
	editionID, err := strconv.ParseInt(c.Param("course_edition_id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid course edition id"))
		return
	}
	var req service.SubmitGradesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	result, err := h.grades.Submit(c.Request.Context(), claims.PersonID, editionID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}
