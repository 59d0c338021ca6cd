package authpair

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{ErrConflict, http.StatusConflict},
		{ErrPasswordMismatch, http.StatusBadRequest},
		{ErrUserNotFound, http.StatusNotFound},
		{ErrInvalidCredentials, http.StatusNotFound},
		{ErrRefreshInvalid, http.StatusUnauthorized},
		{ErrRefreshStale, http.StatusUnauthorized},
		{ErrRefreshSignature, http.StatusUnauthorized},
		{ErrUnauthorized, http.StatusUnauthorized},
		{ErrRefreshCompromised, http.StatusForbidden},
		{ErrAccessCompromised, http.StatusForbidden},
		{ErrStoreUnavailable, http.StatusInternalServerError},
		{errors.New("anything else"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := StatusCode(tt.err); got != tt.want {
			t.Errorf("StatusCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestStatusCodeSeesThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("refresh: %w", ErrRefreshCompromised)
	if got := StatusCode(wrapped); got != http.StatusForbidden {
		t.Fatalf("StatusCode(wrapped) = %d, want 403", got)
	}
}
