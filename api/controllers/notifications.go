package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/prazodigital/prazos-backend/api/middleware"
	"github.com/prazodigital/prazos-backend/api/responses"
	"github.com/prazodigital/prazos-backend/internal/notifications"
	pkgerrors "github.com/prazodigital/prazos-backend/pkg/errors"
	"github.com/prazodigital/prazos-backend/pkg/logger"
)

// ListNotifications returns one cursor page of the recipient's inbox plus
// the unread count.
func ListNotifications(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipientID := middleware.RecipientFromContext(r.Context())

		params := notifications.ListParams{}
		if limitStr := strings.TrimSpace(r.URL.Query().Get("limit")); limitStr != "" {
			value, err := strconv.Atoi(limitStr)
			if err != nil || value <= 0 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "limit must be a positive integer"))
				return
			}
			params.Limit = value
		}
		params.Cursor = strings.TrimSpace(r.URL.Query().Get("cursor"))

		result, err := svc.List(r.Context(), recipientID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"items":        result.Items,
			"next_cursor":  result.NextCursor,
			"unread_count": result.UnreadCount,
		})
	}
}

// UnreadCount returns just the recipient's unread counter, for badge polling.
func UnreadCount(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipientID := middleware.RecipientFromContext(r.Context())

		count, err := svc.UnreadCount(r.Context(), recipientID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"unread_count": count})
	}
}

// MarkNotificationRead marks one notification as read.
func MarkNotificationRead(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipientID := middleware.RecipientFromContext(r.Context())

		id, err := uuid.Parse(chi.URLParam(r, "notificationID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid notification id"))
			return
		}

		if err := svc.MarkRead(r.Context(), recipientID, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"id": id})
	}
}

// MarkAllNotificationsRead marks the recipient's whole inbox as read.
func MarkAllNotificationsRead(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipientID := middleware.RecipientFromContext(r.Context())

		if err := svc.MarkAllRead(r.Context(), recipientID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ok"})
	}
}

// DeleteNotification removes one notification from the recipient's inbox.
func DeleteNotification(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipientID := middleware.RecipientFromContext(r.Context())

		id, err := uuid.Parse(chi.URLParam(r, "notificationID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid notification id"))
			return
		}

		if err := svc.Delete(r.Context(), recipientID, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"id": id})
	}
}

// RunDeadlineCheck re-evaluates the tenant's open protocols and returns how
// many new inbox rows the recipient gained. The inbox client calls this on
// its slow timer.
func RunDeadlineCheck(checker *notifications.DeadlineChecker, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipientID := middleware.RecipientFromContext(r.Context())
		tenantID := middleware.TenantFromContext(r.Context())
		if tenantID == uuid.Nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "a valid X-Tenant-Id header is required"))
			return
		}

		created, err := checker.Run(r.Context(), recipientID, tenantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"created": created})
	}
}
