package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/meireles/campus-records-api/internal/service"
	appErrors "github.com/meireles/campus-records-api/pkg/errors"
	"github.com/meireles/campus-records-api/pkg/response"
)

// ReportHandler exposes the read-only detail and ranking endpoints.
type ReportHandler struct {
	reports *service.ReportService
}

// NewReportHandler constructs ReportHandler.
func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// StudentDetails godoc
// @Summary Detail view of a student
// @Tags Reports
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /student_details/{id} [get]
func (h *ReportHandler) StudentDetails(c *gin.Context) {
	studentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid student id"))
		return
	}
	details, err := h.reports.StudentDetails(c.Request.Context(), studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, details)
}

// DegreeDetails godoc
// @Summary Per-edition statistics of a degree course
// @Tags Reports
// @Produce json
// @Param degree_id path int true "Degree ID"
// @Success 200 {object} response.Envelope
// @Router /degree_details/{degree_id} [get]
func (h *ReportHandler) DegreeDetails(c *gin.Context) {
	courseID, err := strconv.ParseInt(c.Param("degree_id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid degree id"))
		return
	}
	details, err := h.reports.DegreeDetails(c.Request.Context(), courseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, details)
}

// TopStudents godoc
// @Summary Top 3 students of the current academic year
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /top3 [get]
func (h *ReportHandler) TopStudents(c *gin.Context) {
	students, err := h.reports.TopStudents(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, students)
}

// TopByDistrict godoc
// @Summary Best-ranked student of each district
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /top_by_district [get]
func (h *ReportHandler) TopByDistrict(c *gin.Context) {
	students, err := h.reports.TopByDistrict(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, students)
}

// MonthlyReport godoc
// @Summary Course edition with most approvals per month
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /report [get]
func (h *ReportHandler) MonthlyReport(c *gin.Context) {
	rows, err := h.reports.MonthlyReport(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, rows)
}
