package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/prazodigital/prazos-backend/api/responses"
	"github.com/prazodigital/prazos-backend/internal/registry"
	pkgerrors "github.com/prazodigital/prazos-backend/pkg/errors"
	"github.com/prazodigital/prazos-backend/pkg/logger"
)

// ActivateTenant turns a provisioned tenant on. The route sits behind the
// Redis-backed rate limit because it is reachable without a session.
func ActivateTenant(writer registry.Writer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "tenantID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid tenant id"))
			return
		}

		tenant, err := writer.Activate(r.Context(), id)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "tenant not found"))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "activate tenant"))
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"id":     tenant.ID,
			"active": tenant.Active,
		})
	}
}
