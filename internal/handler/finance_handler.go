package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/meireles/campus-records-api/internal/service"
	appErrors "github.com/meireles/campus-records-api/pkg/errors"
	"github.com/meireles/campus-records-api/pkg/response"
)

// FinanceHandler exposes the financial status endpoint.
type FinanceHandler struct {
	finance *service.FinanceService
}

// NewFinanceHandler constructs FinanceHandler.
func NewFinanceHandler(finance *service.FinanceService) *FinanceHandler {
	return &FinanceHandler{finance: finance}
}

// FinancialStatus godoc
// @Summary Financial status of a student
// @Tags Finance
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /financial_status/{id} [get]
func (h *FinanceHandler) FinancialStatus(c *gin.Context) {
	studentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid student id"))
		return
	}
	status, err := h.finance.FinancialStatus(c.Request.Context(), studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, status)
}
