package controllers

import (
	"net/http"

	"github.com/prazodigital/prazos-backend/api/middleware"
	"github.com/prazodigital/prazos-backend/api/responses"
	"github.com/prazodigital/prazos-backend/api/validators"
	"github.com/prazodigital/prazos-backend/internal/dismissal"
	pkgerrors "github.com/prazodigital/prazos-backend/pkg/errors"
	"github.com/prazodigital/prazos-backend/pkg/logger"
)

type dismissRequest struct {
	Kind string `json:"kind" validate:"required,oneof=overdue upcoming"`
}

// ReadDismissals returns today's banner dismissal flags for the recipient.
func ReadDismissals(store *dismissal.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipientID := middleware.RecipientFromContext(r.Context())

		state, err := store.Read(r.Context(), recipientID.String())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read dismissal state"))
			return
		}
		responses.WriteSuccess(w, state)
	}
}

// DismissAlert sets one banner's dismissed flag for the rest of the day.
func DismissAlert(store *dismissal.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipientID := middleware.RecipientFromContext(r.Context())

		var body dismissRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := store.Dismiss(r.Context(), recipientID.String(), dismissal.Kind(body.Kind)); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist dismissal"))
			return
		}

		state, err := store.Read(r.Context(), recipientID.String())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read dismissal state"))
			return
		}
		responses.WriteSuccess(w, state)
	}
}

// ResetDismissals clears the recipient's dismissal record unconditionally.
func ResetDismissals(store *dismissal.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipientID := middleware.RecipientFromContext(r.Context())

		if err := store.Reset(r.Context(), recipientID.String()); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reset dismissal state"))
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ok"})
	}
}
