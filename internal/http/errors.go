package http

import (
	"errors"
	"net/http"

	"moneytrack/internal/core"
	"moneytrack/internal/state"
)

// errorMapping pairs a sentinel with its status and the toast shown for it.
type errorMapping struct {
	target  error
	status  int
	message string
}

var errorMappings = []errorMapping{
	{core.ErrNotFound, http.StatusNotFound, "Item not found"},
	{core.ErrDuplicateCategory, http.StatusConflict, "Category already exists"},
	{core.ErrCategoryInUse, http.StatusConflict, "Category is used by existing transactions"},
	{core.ErrInsufficientFunds, http.StatusUnprocessableEntity, "Insufficient funds"},
	{core.ErrInvalidAmount, http.StatusUnprocessableEntity, "Please enter a valid positive amount"},
	{core.ErrEmptyCategory, http.StatusUnprocessableEntity, "Please choose a category"},
	{core.ErrEmptyTitle, http.StatusUnprocessableEntity, "Please enter a title"},
	{core.ErrInvalidKind, http.StatusUnprocessableEntity, "Type must be income or expense"},
	{core.ErrInvalidTheme, http.StatusUnprocessableEntity, "Theme must be light or dark"},
	{core.ErrInvalidLimit, http.StatusUnprocessableEntity, "Limits must be positive amounts"},
	{core.ErrInvalidDate, http.StatusUnprocessableEntity, "Please enter a valid date"},
	{state.ErrIncompleteCommand, http.StatusInternalServerError, "Could not complete the request"},
}

var statusCodes = map[int]string{
	http.StatusNotFound:            "not_found",
	http.StatusConflict:            "conflict",
	http.StatusUnprocessableEntity: "validation_failed",
	http.StatusInternalServerError: "internal",
}

// rejection replaces the toast for one sentinel on one endpoint.
type rejection struct {
	target  error
	title   string
	message string
}

// commandError turns a rejected command into a response. Overrides are
// checked first; unknown errors are 500s.
func commandError(err error, overrides ...rejection) *HTMXResponseBuilder {
	status := statusFor(err)
	for _, o := range overrides {
		if errors.Is(err, o.target) {
			return TitledError(status, statusCodes[status], o.title, o.message)
		}
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return ErrorResponse(m.status, statusCodes[m.status], m.message)
		}
	}
	return InternalServerError("Something went wrong")
}

// statusFor exposes the mapping for logging.
func statusFor(err error) int {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status
		}
	}
	return http.StatusInternalServerError
}
