package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the error response shape: {"detail": "..."}.
type ErrorBody struct {
	Detail string `json:"detail"`
}

// Message is the confirmation response shape: {"message": "..."}.
type Message struct {
	Message string `json:"message"`
}

// OK sends a 200 JSON response with data.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created sends a 201 JSON response with data.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// BadRequest sends 400 with a detail message.
func BadRequest(c *gin.Context, detail string) {
	c.JSON(http.StatusBadRequest, ErrorBody{Detail: detail})
}

// NotFound sends 404.
func NotFound(c *gin.Context, detail string) {
	c.JSON(http.StatusNotFound, ErrorBody{Detail: detail})
}

// Unprocessable sends 422 for requests that fail parameter validation.
func Unprocessable(c *gin.Context, detail string) {
	c.JSON(http.StatusUnprocessableEntity, ErrorBody{Detail: detail})
}

// ServiceUnavailable sends 503.
func ServiceUnavailable(c *gin.Context, detail string) {
	c.JSON(http.StatusServiceUnavailable, ErrorBody{Detail: detail})
}

// Internal sends 500.
func Internal(c *gin.Context, detail string) {
	c.JSON(http.StatusInternalServerError, ErrorBody{Detail: detail})
}
