package controllers

import (
	"context"
	"net/http"

	"github.com/prazodigital/prazos-backend/api/responses"
	"github.com/prazodigital/prazos-backend/internal/scan"
	"github.com/prazodigital/prazos-backend/pkg/logger"
)

type protocolScanner interface {
	Run(ctx context.Context) (*scan.ProtocolReport, error)
}

type accountScanner interface {
	Run(ctx context.Context) (*scan.AccountReport, error)
}

// ScanProtocolDeadlines triggers one protocol deadline scan cycle. The
// response shape is fixed: the scheduler and its dashboards consume it.
func ScanProtocolDeadlines(scanner protocolScanner, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := scanner.Run(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteRaw(w, http.StatusOK, report)
	}
}

// ScanAccountDeadlines triggers one account deadline scan cycle.
func ScanAccountDeadlines(scanner accountScanner, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := scanner.Run(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteRaw(w, http.StatusOK, report)
	}
}
