package controllers

import (
	"errors"
	"net/http"

	"recordstore/repository"
	"recordstore/services"
)

// statusForError maps the service error taxonomy onto HTTP statuses:
// validation failures are 400, not-found probes are 404, anything else is
// a server-side failure.
func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidUserID),
		errors.Is(err, services.ErrInvalidDiscID),
		errors.Is(err, services.ErrInvalidOrderID),
		errors.Is(err, services.ErrInvalidQuantity),
		errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrEmptyAddress),
		errors.Is(err, services.ErrInvalidPaymentMethod),
		errors.Is(err, services.ErrInvalidPaymentStatus),
		errors.Is(err, services.ErrInvalidStatus):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, repository.ErrCartNotFound),
		errors.Is(err, repository.ErrItemNotFound),
		errors.Is(err, repository.ErrDiscNotFound),
		errors.Is(err, repository.ErrOrderNotFound),
		errors.Is(err, repository.ErrFeeNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func errorMessage(err error, status int) string {
	if status == http.StatusInternalServerError {
		// Internal detail stays in the logs.
		return "internal server error"
	}
	return err.Error()
}
