package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/prazodigital/prazos-backend/api/responses"
	pkgerrors "github.com/prazodigital/prazos-backend/pkg/errors"
	"github.com/prazodigital/prazos-backend/pkg/logger"
)

// The inbox endpoints trust the frontend to identify the user; there is no
// session layer here. The recipient arrives in a header, with an optional
// tenant header for the deadline re-check.
const (
	recipientIDHeader = "X-Recipient-Id"
	tenantIDHeader    = "X-Tenant-Id"
)

type contextKey string

const (
	ctxRecipientID contextKey = "recipient_id"
	ctxTenantID    contextKey = "tenant_id"
)

// RecipientContext requires a valid X-Recipient-Id header and injects the
// recipient (and, when present, tenant) into the request context.
func RecipientContext(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			recipientID, err := uuid.Parse(r.Header.Get(recipientIDHeader))
			if err != nil {
				responses.WriteError(ctx, logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "a valid X-Recipient-Id header is required"))
				return
			}
			ctx = context.WithValue(ctx, ctxRecipientID, recipientID)
			if logg != nil {
				ctx = logg.WithRecipientID(ctx, recipientID.String())
			}

			if raw := r.Header.Get(tenantIDHeader); raw != "" {
				tenantID, err := uuid.Parse(raw)
				if err != nil {
					responses.WriteError(ctx, logg, w,
						pkgerrors.New(pkgerrors.CodeValidation, "X-Tenant-Id must be a valid uuid"))
					return
				}
				ctx = context.WithValue(ctx, ctxTenantID, tenantID)
				if logg != nil {
					ctx = logg.WithTenantID(ctx, tenantID.String())
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RecipientFromContext returns the recipient set by RecipientContext.
func RecipientFromContext(ctx context.Context) uuid.UUID {
	if v, ok := ctx.Value(ctxRecipientID).(uuid.UUID); ok {
		return v
	}
	return uuid.Nil
}

// TenantFromContext returns the tenant set by RecipientContext, if any.
func TenantFromContext(ctx context.Context) uuid.UUID {
	if v, ok := ctx.Value(ctxTenantID).(uuid.UUID); ok {
		return v
	}
	return uuid.Nil
}
