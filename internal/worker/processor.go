package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cuongbtq/job-board/internal/events"
	"github.com/cuongbtq/job-board/internal/metrics"
	"github.com/cuongbtq/job-board/internal/worker/domain"
)

// processEvent runs the integrity check for one event under the event timeout
func (w *Worker) processEvent(ctx context.Context, msg *domain.EventMessage) error {
	event := msg.Event

	eventCtx, cancel := context.WithTimeout(ctx, w.eventTimeout)
	defer cancel()

	var (
		outcome string
		err     error
	)
	switch event.Type {
	case events.JobDeleted:
		outcome, err = w.checkDeletedJob(eventCtx, event)
	case events.ResumeOrphaned:
		outcome, err = w.checkOrphanedResume(eventCtx, event)
	default:
		outcome = domain.OutcomeIgnored
		w.logger.Debug("Event needs no integrity check",
			slog.String("event_id", event.ID),
			slog.String("type", event.Type),
			slog.Int64("entity_id", event.EntityID),
		)
	}

	if err != nil {
		outcome = domain.OutcomeFailed
	}
	metrics.WorkerEventsProcessedTotal.WithLabelValues(event.Type, outcome).Inc()

	return err
}

// checkDeletedJob reports applications still pointing at a deleted job.
// They are left in place.
func (w *Worker) checkDeletedJob(ctx context.Context, event events.Event) (string, error) {
	exists, err := w.store.JobExists(ctx, event.EntityID)
	if err != nil {
		return "", domain.NewRetryableError(err)
	}
	if exists {
		w.logger.Info("Deleted job id resolves again, skipping",
			slog.Int64("job_id", event.EntityID),
		)
		return domain.OutcomeClean, nil
	}

	count, err := w.store.CountApplicationsByJob(ctx, event.EntityID)
	if err != nil {
		return "", domain.NewRetryableError(err)
	}
	if count == 0 {
		return domain.OutcomeClean, nil
	}

	metrics.OrphanedApplicationsFound.Add(float64(count))
	w.logger.Warn("Applications reference a deleted job",
		slog.String("event_id", event.ID),
		slog.Int64("job_id", event.EntityID),
		slog.Int("applications", count),
	)
	return domain.OutcomeReported, nil
}

// checkOrphanedResume reports a stored resume that no application references
func (w *Worker) checkOrphanedResume(ctx context.Context, event events.Event) (string, error) {
	resumeURL := event.Attributes[events.AttrResumeURL]
	if resumeURL == "" {
		return "", fmt.Errorf("%w: %s without %s", domain.ErrInvalidEvent, event.Type, events.AttrResumeURL)
	}

	count, err := w.store.CountApplicationsByResume(ctx, resumeURL)
	if err != nil {
		return "", domain.NewRetryableError(err)
	}
	if count > 0 {
		return domain.OutcomeClean, nil
	}

	w.logger.Warn("Stored resume has no application",
		slog.String("event_id", event.ID),
		slog.String("resume_url", resumeURL),
		slog.String("reason", event.Attributes[events.AttrReason]),
		slog.Int64("job_id", event.EntityID),
	)
	return domain.OutcomeReported, nil
}
