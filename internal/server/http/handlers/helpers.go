package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/gopherdine/internal/domain/errors"
	"github.com/polkiloo/gopherdine/internal/server/http/dto"
	"github.com/polkiloo/gopherdine/internal/server/http/middleware"
)

// retryAfterSeconds is advertised to clients that hit a lock timeout.
const retryAfterSeconds = 1

// CurrentCustomerID extracts authenticated customer identifier from context.
func CurrentCustomerID(c *gin.Context) int64 {
	val, ok := c.Get(middleware.CustomerIDContextKey)
	if !ok {
		return 0
	}
	id, _ := val.(int64)
	return id
}

// writeError maps ledger errors to HTTP responses. Unexpected errors are
// attached to the context for the request logger and hidden from the client.
func writeError(c *gin.Context, err error) {
	var (
		validation *domainErrors.ValidationError
		funds      *domainErrors.InsufficientFundsError
		points     *domainErrors.InsufficientPointsError
	)

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: validation.Reason})
	case errors.Is(err, domainErrors.ErrValidation):
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: err.Error()})
	case errors.As(err, &funds):
		c.JSON(http.StatusPaymentRequired, dto.ErrorResponse{
			Error:     "wallet amount exceeds usable balance",
			MaxUsable: dto.Money(funds.MaxUsable),
		})
	case errors.As(err, &points):
		spendable, required := points.Spendable, points.Required
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{
			Error:     "not enough loyalty points",
			Spendable: &spendable,
			Required:  &required,
		})
	case errors.Is(err, domainErrors.ErrConcurrencyTimeout):
		c.Header("Retry-After", strconv.Itoa(retryAfterSeconds))
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: "ledger is busy, retry later"})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal error"})
	}
}
