package errors_test

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	svcErr "github.com/oggyb/skilllink/internal/errors"
)

func TestMap(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		detail string
	}{
		{"conflict", svcErr.Conflict("Email already registered"), http.StatusBadRequest, "Email already registered"},
		{"wrapped not found", fmt.Errorf("load user: %w", svcErr.NotFound("User not found")), http.StatusNotFound, "User not found"},
		{"gorm not found", gorm.ErrRecordNotFound, http.StatusNotFound, "record not found"},
		{"validation", svcErr.InvalidArgument("cannot swipe on yourself"), http.StatusBadRequest, "cannot swipe on yourself"},
		{"unauthorized sentinel", svcErr.ErrUnauthorized, http.StatusUnauthorized, "Could not validate credentials"},
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), http.StatusServiceUnavailable, "service temporarily unavailable, please retry"},
		{"bad conn", driver.ErrBadConn, http.StatusServiceUnavailable, "service temporarily unavailable, please retry"},
		{"unknown", errors.New("syntax error near FROM"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, detail := svcErr.Map(tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.detail, detail)
		})
	}
}

func TestIsTransient(t *testing.T) {
	assert.True(t, svcErr.IsTransient(context.Canceled))
	assert.False(t, svcErr.IsTransient(svcErr.ErrNotFound))
	assert.False(t, svcErr.IsTransient(nil))
}
