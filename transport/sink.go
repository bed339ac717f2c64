package transport

import (
	"context"

	"babelroom/contract"
	"babelroom/domain/event"
	apperrors "babelroom/errors"
)

var _ contract.EventSink = (*wsSink)(nil)

// wsSink buffers events for one connection's write pump.
type wsSink struct {
	events chan event.SessionEvent
}

func newWSSink(bufferSize int) *wsSink {
	return &wsSink{events: make(chan event.SessionEvent, bufferSize)}
}

// Consume is called by the session's fan-out. It never blocks: when the
// buffer is full the event is refused so a slow consumer only loses its own
// events, it never serializes delivery to the rest of the room.
func (s *wsSink) Consume(ctx context.Context, e event.SessionEvent) error {
	select {
	case s.events <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return apperrors.ErrSlowConsumer
	}
}
