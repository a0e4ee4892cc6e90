package engine

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dm/casamatriz/internal/client"
)

// DefaultStatusTimeout bounds a single status poll.
const DefaultStatusTimeout = 2 * time.Second

// PollStatus fetches /api/system-status bounded by timeout. A non-positive
// timeout falls back to DefaultStatusTimeout.
func PollStatus(ctx context.Context, c client.MiddlewareClient, timeout time.Duration) (client.SystemStatus, error) {
	if timeout <= 0 {
		timeout = DefaultStatusTimeout
	}
	pollCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return c.GetSystemStatus(pollCtx)
}

// CheckReport is the outcome of a one-shot check of every middleware endpoint.
// Each endpoint is reported independently; a failure in one does not hide the
// others.
type CheckReport struct {
	Status    client.SystemStatus
	StatusErr error

	Health    *client.MiddlewareHealth
	HealthErr error

	Lists    []client.ListSummary
	ListsErr error

	// Items holds the items of the first list, when there is one.
	Items    []client.ListItem
	ItemsErr error

	Appointments    []client.Appointment
	AppointmentsErr error

	FetchedAt time.Time
}

// Healthy reports whether every fetch succeeded and every monitored service
// reported "up".
func (r *CheckReport) Healthy() bool {
	if r.StatusErr != nil || r.HealthErr != nil || r.ListsErr != nil ||
		r.ItemsErr != nil || r.AppointmentsErr != nil {
		return false
	}
	for _, key := range []string{client.ServiceMiddleware, client.ServiceApp1, client.ServiceHospital} {
		if r.Status[key] != "up" {
			return false
		}
	}
	return true
}

// CheckAll calls the status, health, lists and appointments endpoints
// concurrently, then the items endpoint for the first list returned. The
// status call is bounded by statusTimeout; the rest only by ctx.
func CheckAll(ctx context.Context, c client.MiddlewareClient, statusTimeout time.Duration) *CheckReport {
	report := &CheckReport{}

	// Errors are recorded per endpoint rather than returned, so a failing
	// endpoint never cancels its siblings.
	var g errgroup.Group

	g.Go(func() error {
		report.Status, report.StatusErr = PollStatus(ctx, c, statusTimeout)
		return nil
	})

	g.Go(func() error {
		report.Health, report.HealthErr = c.GetHealth(ctx)
		return nil
	})

	g.Go(func() error {
		report.Lists, report.ListsErr = c.GetLists(ctx)
		if report.ListsErr != nil || len(report.Lists) == 0 {
			return nil
		}
		report.Items, report.ItemsErr = c.GetItems(ctx, report.Lists[0].ID)
		return nil
	})

	g.Go(func() error {
		report.Appointments, report.AppointmentsErr = c.GetAppointments(ctx)
		return nil
	})

	_ = g.Wait()
	report.FetchedAt = time.Now()
	return report
}
