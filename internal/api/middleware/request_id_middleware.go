package middleware

import (
	"context"
	"net/http"

	"github.com/RoyceAzure/lab/shoeshop/internal/constants"
	"github.com/google/uuid"
)

// RequestIDMiddleware 為每個請求產生 request id，沿用上游帶來的值
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		ctx := context.WithValue(r.Context(), constants.RequestIDKey, requestID)
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
