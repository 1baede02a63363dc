package apperror

import (
	"net/http"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("missing required fields: date"), http.StatusBadRequest},
		{"not found", NotFound("booking not found"), http.StatusNotFound},
		{"conflict", Conflict("user already exists"), http.StatusConflict},
		{"unauthorized", Unauthorized("no token"), http.StatusUnauthorized},
		{"forbidden", Forbidden("admins only"), http.StatusForbidden},
		{"gateway", Gateway(errors.New("card declined")), http.StatusInternalServerError},
		{"wrapped", errors.Wrap(NotFound("coupon not found"), "validate coupon"), http.StatusNotFound},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusCode(tt.err))
		})
	}
}

func TestGatewaySurfacesUpstreamMessage(t *testing.T) {
	upstream := errors.New("your card was declined")
	err := Gateway(upstream)

	assert.Equal(t, "your card was declined", err.Error())
	assert.True(t, errors.Is(err, upstream))
}

func TestInternalHidesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal(cause)

	assert.Equal(t, "internal server error", err.Message)
	assert.True(t, errors.Is(err, cause))
}

func TestMissingFields(t *testing.T) {
	err := MissingFields("courtId", "slots")

	assert.Equal(t, http.StatusBadRequest, err.Code)
	assert.Equal(t, "missing required fields: courtId, slots", err.Message)
}
