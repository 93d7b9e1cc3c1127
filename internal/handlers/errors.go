package handlers

import (
	"errors"
	"net/http"

	"dev.prompt.router/internal/models"
)

// ErrorResponse is the JSON body for every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// coder is implemented by every routing error carrying a stable code.
type coder interface {
	Code() string
}

// errorResponseFor maps an error onto an HTTP status and response body.
// Validation problems are the caller's fault; everything else is a 500
// carrying the error's code when it has one.
func errorResponseFor(err error) (int, ErrorResponse) {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest, ErrorResponse{Error: verr.Error(), Code: verr.Code()}
	}

	var c coder
	if errors.As(err, &c) {
		return http.StatusInternalServerError, ErrorResponse{Error: err.Error(), Code: c.Code()}
	}
	return http.StatusInternalServerError, ErrorResponse{Error: err.Error(), Code: "INTERNAL_ERROR"}
}
