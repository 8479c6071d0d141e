package controller

import (
	"net/http"

	"github.com/stylevault/stylevault/pkg/server/router"
)

// OK sends the payload as-is with HTTP 200.
func OK(c router.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

// Created sends the payload as-is with HTTP 201,
// typically after creating a new resource.
func Created(c router.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, data)
}

// NoContent sends HTTP 204 with no body,
// typically after a successful delete.
func NoContent(c router.Context) error {
	c.Response().WriteHeader(http.StatusNoContent)
	return nil
}

// Error sends an error response with the appropriate HTTP status code.
// It uses MapError to convert application errors to HTTP responses.
func Error(c router.Context, err error) error {
	statusCode, errorResponse := MapError(c.Request().Context(), err)
	return c.JSON(statusCode, errorResponse)
}
