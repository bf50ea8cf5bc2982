package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/prazodigital/prazos-backend/pkg/logger"
)

const requestIDHeader = "X-Request-Id"

// RequestID tags the request with a correlation id, echoed back in the
// response header. An incoming id is kept only when it parses as a uuid;
// anything else is replaced so log queries stay clean.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := strings.TrimSpace(r.Header.Get(requestIDHeader))
			if _, err := uuid.Parse(reqID); err != nil {
				reqID = uuid.NewString()
			}

			w.Header().Set(requestIDHeader, reqID)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, reqID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
