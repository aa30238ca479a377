package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	invoicedomain "github.com/railzwaylabs/invoicefmt/internal/invoice/domain"
	formatdomain "github.com/railzwaylabs/invoicefmt/internal/invoiceformat/domain"
)

// APIError is the error body returned by every endpoint.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return e.Code + ": " + e.Message
}

var (
	ErrInvalidRequest = &APIError{Status: http.StatusBadRequest, Code: "invalid_request", Message: "invalid request"}
	ErrNotFound       = &APIError{Status: http.StatusNotFound, Code: "not_found", Message: "resource not found"}
	ErrInternal       = &APIError{Status: http.StatusInternalServerError, Code: "internal_error", Message: "internal server error"}
)

func newValidationError(field, code, message string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: code, Message: field + ": " + message}
}

// AbortWithError maps err to an APIError and writes it.
func AbortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	apiErr := toAPIError(err)
	c.AbortWithStatusJSON(apiErr.Status, gin.H{"error": apiErr})
}

func toAPIError(err error) *APIError {
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, invoicedomain.ErrInvoiceNotFound):
		return &APIError{Status: http.StatusNotFound, Code: "invoice_not_found", Message: "invoice not found"}
	case errors.Is(err, invoicedomain.ErrInvalidInvoiceID):
		return newValidationError("id", "invalid_invoice_id", "must be a numeric invoice id")
	case errors.Is(err, formatdomain.ErrInvalidLocale):
		return newValidationError("locale", "invalid_locale", "must be a BCP 47 language tag")
	default:
		return ErrInternal
	}
}
