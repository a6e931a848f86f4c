package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecovery(t *testing.T) {
	tests := []struct {
		handler        http.HandlerFunc
		name           string
		expectedStatus int
		expectPanic    bool
	}{
		{
			name: "Normal handler without panic",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("success"))
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Handler with panic (string)",
			handler: func(w http.ResponseWriter, r *http.Request) {
				panic("something went wrong")
			},
			expectPanic:    true,
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name: "Handler with panic (error)",
			handler: func(w http.ResponseWriter, r *http.Request) {
				panic(errors.New("nil map write"))
			},
			expectPanic:    true,
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name: "Handler with panic (custom type)",
			handler: func(w http.ResponseWriter, r *http.Request) {
				panic(struct{ msg string }{"critical error"})
			},
			expectPanic:    true,
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logBuf strings.Builder
			logger := slog.New(slog.NewTextHandler(&logBuf, nil))

			handler := Recovery(logger)(tt.handler)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
			w := httptest.NewRecorder()

			assert.NotPanics(t, func() {
				handler.ServeHTTP(w, req)
			})

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectPanic {
				assert.Equal(t, "internal server error", errorMessage(t, w))
				assert.Contains(t, logBuf.String(), "panic recovered")
				assert.Contains(t, logBuf.String(), "stack=")
				assert.Contains(t, logBuf.String(), "/api/v1/orders")
			} else {
				assert.Equal(t, "success", w.Body.String())
				assert.Empty(t, logBuf.String())
			}
		})
	}
}

func TestRecovery_ErrAbortHandlerPropagates(t *testing.T) {
	handler := Recovery(setupTestLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}
