package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shemaparfait19/centurysoapv2/internal/apierror"
	"github.com/shemaparfait19/centurysoapv2/internal/middleware"
	"github.com/shemaparfait19/centurysoapv2/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveError(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	// Same middleware chain the router installs around handlers.
	r.Use(middleware.Recovery())
	r.Use(middleware.ErrorHandler())
	r.GET("/boom", func(c *gin.Context) {
		respondServiceError(c, err)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	r.ServeHTTP(w, req)
	return w
}

func TestRespondServiceError_UnexpectedErrorWritesSingleBody(t *testing.T) {
	w := serveError(t, errors.New("pg: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	// Exactly one JSON document, nothing appended after it.
	var body apierror.APIError
	dec := json.NewDecoder(w.Body)
	require.NoError(t, dec.Decode(&body))
	assert.Equal(t, "Internal server error", body.Detail)
	assert.False(t, dec.More())
}

func TestRespondServiceError_MapsDomainErrors(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{fmt.Errorf("sale: %w", service.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("product: %w", service.ErrProductNotFound), http.StatusNotFound},
		{fmt.Errorf("size: %w", service.ErrSizeNotFound), http.StatusNotFound},
		{fmt.Errorf("name taken: %w", service.ErrDuplicateKey), http.StatusConflict},
		{&service.InsufficientStockError{Product: "Century Handwash", Size: "500ml", Requested: 5, Available: 2}, http.StatusConflict},
	}
	for _, tc := range cases {
		w := serveError(t, tc.err)
		assert.Equal(t, tc.code, w.Code, "error %v", tc.err)

		var body apierror.APIError
		dec := json.NewDecoder(w.Body)
		require.NoError(t, dec.Decode(&body))
		assert.False(t, dec.More())
	}
}
