package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/meireles/campus-records-api/internal/service"
	appErrors "github.com/meireles/campus-records-api/pkg/errors"
	"github.com/meireles/campus-records-api/pkg/response"
)

// PersonHandler exposes person lifecycle and role registration endpoints.
type PersonHandler struct {
	persons *service.PersonService
}

// NewPersonHandler constructs PersonHandler.
func NewPersonHandler(persons *service.PersonService) *PersonHandler {
	return &PersonHandler{persons: persons}
}

// Register godoc
// @Summary Register a new person
// @Tags Persons
// @Accept json
// @Produce json
// @Param payload body service.RegisterPersonRequest true "Person payload"
// @Success 200 {object} response.Envelope
// @Router /user [post]
func (h *PersonHandler) Register(c *gin.Context) {
	var req service.RegisterPersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	personID, err := h.persons.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"person_id": personID})
}

// List godoc
// @Summary List registered persons
// @Tags Persons
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /persons [get]
func (h *PersonHandler) List(c *gin.Context) {
	persons, err := h.persons.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, persons)
}

// RegisterStudent godoc
// @Summary Promote a person to student
// @Tags Persons
// @Accept json
// @Produce json
// @Param payload body service.RegisterStudentRequest true "Student payload"
// @Success 201 {object} response.Envelope
// @Router /register/student [post]
func (h *PersonHandler) RegisterStudent(c *gin.Context) {
	var req service.RegisterStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	student, err := h.persons.RegisterStudent(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student)
}

// RegisterStaff godoc
// @Summary Promote a person to staff
// @Tags Persons
// @Accept json
// @Produce json
// @Param payload body service.RegisterStaffRequest true "Staff payload"
// @Success 201 {object} response.Envelope
// @Router /register/staff [post]
func (h *PersonHandler) RegisterStaff(c *gin.Context) {
	var req service.RegisterStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	worker, err := h.persons.RegisterStaff(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, worker)
}

// RegisterInstructor godoc
// @Summary Promote a person to instructor
// @Tags Persons
// @Accept json
// @Produce json
// @Param payload body service.RegisterInstructorRequest true "Instructor payload"
// @Success 201 {object} response.Envelope
// @Router /register/instructor [post]
func (h *PersonHandler) RegisterInstructor(c *gin.Context) {
	var req service.RegisterInstructorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	instructor, err := h.persons.RegisterInstructor(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, instructor)
}

// Delete godoc
// @Summary Delete a person and all dependent records
// @Tags Persons
// @Produce json
// @Param id path int true "Person ID"
// @Success 200 {object} response.Envelope
// @Router /person/{id} [delete]
func (h *PersonHandler) Delete(c *gin.Context) {
	personID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid person id"))
		return
	}
	if err := h.persons.Delete(c.Request.Context(), personID); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"message": "person deleted", "person_id": personID})
}
