package service

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/ASEODA/narashop-estimate/internal/events"
	"github.com/ASEODA/narashop-estimate/internal/history/repository"
	"github.com/ASEODA/narashop-estimate/platform/logger"
)

const contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Archiver stores generated documents in object storage.
type Archiver interface {
	PutObject(ctx context.Context, bucket, fileKey, contentType string, reader io.Reader, size int64) error
}

// Enqueuer hands an entry to the background worker.
type Enqueuer interface {
	EnqueueHistoryAppend(ctx context.Context, entry repository.Entry) error
}

// Recorder turns EstimateGenerated events into history entries. It runs
// after the response is prepared, so every failure is logged and dropped.
type Recorder struct {
	store    repository.Store
	archiver Archiver // optional
	bucket   string
	enqueuer Enqueuer // optional
	log      *logger.Logger
}

func NewRecorder(store repository.Store, log *logger.Logger) *Recorder {
	return &Recorder{store: store, log: log}
}

// SetArchiver enables archiving documents into bucket.
func (r *Recorder) SetArchiver(archiver Archiver, bucket string) {
	r.archiver = archiver
	r.bucket = bucket
}

// SetEnqueuer routes appends through the background worker.
func (r *Recorder) SetEnqueuer(enqueuer Enqueuer) {
	r.enqueuer = enqueuer
}

// Subscribe registers the recorder on bus.
func (r *Recorder) Subscribe(bus events.Bus) {
	bus.Subscribe(events.EstimateGenerated{}.EventName(), r)
}

// Handle implements events.Handler.
func (r *Recorder) Handle(ctx context.Context, event events.Event) error {
	e, ok := event.(events.EstimateGenerated)
	if !ok {
		return nil
	}
	log := r.log.WithContext(ctx)

	entry := repository.Entry{
		ID:           e.EstimateID,
		CreatedAt:    e.OccurredAt(),
		CustomerName: e.CustomerName,
		ProjectName:  e.ProjectName,
		TotalAmount:  e.TotalAmount,
		ItemCount:    e.ItemCount,
		Filename:     e.Filename,
		Request:      e.Request,
	}

	if r.archiver != nil && len(e.Document) > 0 {
		key := DocumentKey(entry)
		err := r.archiver.PutObject(ctx, r.bucket, key, contentTypeXLSX, bytes.NewReader(e.Document), int64(len(e.Document)))
		if err != nil {
			log.BestEffortFailure("history.archive", err, "estimate_id", entry.ID)
		} else {
			entry.DocumentKey = key
		}
	}

	if r.enqueuer != nil {
		err := r.enqueuer.EnqueueHistoryAppend(ctx, entry)
		if err == nil {
			return nil
		}
		log.BestEffortFailure("history.enqueue", err, "estimate_id", entry.ID)
	}

	if err := r.store.Append(ctx, entry); err != nil {
		log.BestEffortFailure("history.append", err, "estimate_id", entry.ID)
	}
	return nil
}

// DocumentKey is the object key of an archived document, grouped by day.
func DocumentKey(entry repository.Entry) string {
	return fmt.Sprintf("estimates/%s/%s.xlsx", entry.CreatedAt.UTC().Format("2006/01/02"), entry.ID)
}
