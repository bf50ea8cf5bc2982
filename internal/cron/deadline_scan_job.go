package cron

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/prazodigital/prazos-backend/internal/scan"
	"github.com/prazodigital/prazos-backend/pkg/logger"
)

type protocolScanRunner interface {
	Run(ctx context.Context) (*scan.ProtocolReport, error)
}

type accountScanRunner interface {
	Run(ctx context.Context) (*scan.AccountReport, error)
}

// DeadlineScanJobParams configure the scheduled deadline scans.
type DeadlineScanJobParams struct {
	Logger    *logger.Logger
	Protocols protocolScanRunner
	Accounts  accountScanRunner
}

// NewDeadlineScanJob wraps both deadline scanners into one worker job. Each
// scan runs even when the other fails; the job reports their combined error.
func NewDeadlineScanJob(params DeadlineScanJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Protocols == nil || params.Accounts == nil {
		return nil, fmt.Errorf("both scanners are required")
	}
	return &deadlineScanJob{
		logg:      params.Logger,
		protocols: params.Protocols,
		accounts:  params.Accounts,
	}, nil
}

type deadlineScanJob struct {
	logg      *logger.Logger
	protocols protocolScanRunner
	accounts  accountScanRunner
}

func (j *deadlineScanJob) Name() string { return "deadline-scans" }

func (j *deadlineScanJob) Run(ctx context.Context) error {
	var errs error

	protocolReport, err := j.protocols.Run(ctx)
	if err != nil {
		errs = multierr.Append(errs, fmt.Errorf("protocol scan: %w", err))
	} else {
		logCtx := j.logg.WithField(ctx, "protocol_notices", protocolReport.Sent)
		j.logg.Info(logCtx, "protocol deadline scan complete")
	}

	accountReport, err := j.accounts.Run(ctx)
	if err != nil {
		errs = multierr.Append(errs, fmt.Errorf("account scan: %w", err))
	} else {
		logCtx := j.logg.WithField(ctx, "account_notices", accountReport.Sent)
		j.logg.Info(logCtx, "account deadline scan complete")
	}

	return errs
}
