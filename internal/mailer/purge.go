package mailer

import (
	"context"
	"log/slog"
	"time"

	"github.com/riverqueue/river"
)

// PurgeEmailsArgs drives the periodic cleanup of the staging table. Rows are
// never delivered, so without a purge the table grows forever.
type PurgeEmailsArgs struct {
	RetentionHours int `json:"retention_hours"`
}

func (PurgeEmailsArgs) Kind() string { return "purge_pending_emails" }

type PurgeEmailsWorker struct {
	river.WorkerDefaults[PurgeEmailsArgs]
	store Store
	log   *slog.Logger
}

func NewPurgeEmailsWorker(store Store, log *slog.Logger) *PurgeEmailsWorker {
	if log == nil {
		log = slog.Default()
	}
	return &PurgeEmailsWorker{store: store, log: log}
}

func (w *PurgeEmailsWorker) Work(ctx context.Context, job *river.Job[PurgeEmailsArgs]) error {
	retention := time.Duration(job.Args.RetentionHours) * time.Hour
	cutoff := time.Now().Add(-retention)
	n, err := w.store.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		return err
	}
	if n > 0 {
		w.log.Info("purged staged emails", "count", n, "cutoff", cutoff)
	}
	return nil
}
