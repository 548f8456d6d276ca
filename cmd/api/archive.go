package main

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// archivePreviousMonth stores last month's CSV report for every organization.
// One failing organization does not stop the others.
func archivePreviousMonth(
	ctx context.Context,
	logger *slog.Logger,
	listOrgs func(ctx context.Context) ([]string, error),
	archive func(ctx context.Context, organizationID string, month time.Time) (bool, error),
	now time.Time,
) error {
	month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)

	ids, err := listOrgs(ctx)
	if err != nil {
		return err
	}

	var errs []error
	for _, id := range ids {
		written, err := archive(ctx, id, month)
		if err != nil {
			logger.Error("failed to archive monthly report", "organization_id", id, "month", month.Format("2006-01"), "error", err)
			errs = append(errs, err)
			continue
		}
		if written {
			logger.Info("monthly report archived", "organization_id", id, "month", month.Format("2006-01"))
		}
	}
	return errors.Join(errs...)
}
