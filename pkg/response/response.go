package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/meireles/campus-records-api/pkg/errors"
)

// Envelope is the wire contract every endpoint answers with. Results is
// null on failure; Errors is null on success.
type Envelope struct {
	Status  int         `json:"status"`
	Errors  *string     `json:"errors"`
	Results interface{} `json:"results"`
}

// JSON sends a success envelope with the given HTTP status.
func JSON(c *gin.Context, status int, results interface{}) {
	c.Header("Cache-Control", "no-store")
	c.JSON(status, Envelope{Status: status, Results: results})
}

// OK responds with HTTP 200.
func OK(c *gin.Context, results interface{}) {
	JSON(c, http.StatusOK, results)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, results interface{}) {
	JSON(c, http.StatusCreated, results)
}

// Error sends a failure envelope derived from the error taxonomy.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	msg := appErr.Message
	c.Header("Cache-Control", "no-store")
	c.JSON(appErr.Status, Envelope{Status: appErr.Status, Errors: &msg})
}
