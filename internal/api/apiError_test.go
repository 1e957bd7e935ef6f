package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/saketjha34/FileForge/internal/service"
	"github.com/saketjha34/FileForge/internal/store"
)

func TestFromServiceError(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{store.ErrNotFound, http.StatusNotFound},
		{store.ErrConflict, http.StatusConflict},
		{service.ErrInvalidArgument, http.StatusBadRequest},
		{service.ErrInvalidCredentials, http.StatusUnauthorized},
		{service.ErrStorageFailure, http.StatusBadGateway},
		{fmt.Errorf("wrapped: %w", store.ErrNotFound), http.StatusNotFound},
		// An unrecognized failure must not leak nor downgrade to a
		// client-error status.
		{errors.New("connection refused"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		require.Equal(t, tc.status, FromServiceError(tc.err).Status, "error: %v", tc.err)
	}
}
