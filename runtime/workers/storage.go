package workers

import (
	"context"
	"fmt"
	"log/slog"

	"babelroom/contract"
	"babelroom/domain"
	"babelroom/observability"
)

// Ensure *StorageWorker implements the contract.Worker interface at compile
// time. This acts as a static assertion of our architectural rules.
var _ contract.Worker = (*StorageWorker)(nil)

// StorageWorker drains the segment channel and persists each record.
// Durable writes happen here, off the delivery path: a storage stall or
// failure is logged and counted but never blocks fan-out to participants.
type StorageWorker struct {
	segments   chan domain.Segment
	repository contract.ISegmentRepository
	stats      *observability.PipelineStats
	log        *slog.Logger
}

func NewStorageWorker(
	segments chan domain.Segment,
	repository contract.ISegmentRepository,
	stats *observability.PipelineStats,
	log *slog.Logger) *StorageWorker {
	return &StorageWorker{
		segments:   segments,
		repository: repository,
		stats:      stats,
		log:        log,
	}
}

func (w *StorageWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping worker")
			return ctx.Err()
		case segment, ok := <-w.segments:
			if !ok {
				w.log.Debug("Channel is closed")
				return nil
			}
			w.store(segment)
		}
	}
}

func (w *StorageWorker) store(segment domain.Segment) {
	var err error
	switch s := segment.(type) {
	case domain.TranscriptionSegment:
		err = w.repository.StoreTranscription(s)
	case domain.TranslationSegment:
		err = w.repository.StoreTranslation(s)
	default:
		w.log.Debug(fmt.Sprintf("Not implemented segment : %T", s))
		return
	}
	if err != nil {
		w.stats.IncrPersistenceFailures()
		w.log.Error("Segment write failed", "segment_id", segment.SegmentID(), "error", err)
		return
	}
	w.stats.IncrSegmentsPersisted()
}
