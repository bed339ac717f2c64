package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"babelroom/contract"
	"babelroom/domain"
	apperrors "babelroom/errors"
	"babelroom/observability"
)

// Dependencies is everything a new MeetingSession needs to run its pipeline.
type Dependencies struct {
	Providers    Providers
	Meetings     contract.IMeetingRepository
	Participants contract.IParticipantRepository
	Segments     chan<- domain.Segment
	Stats        *observability.PipelineStats
	Log          *slog.Logger
}

// SessionRegistry maps meeting id to its live MeetingSession and guarantees
// at most one live session per meeting, even when several participants
// connect to the same meeting at the same instant.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*MeetingSession
	deps     Dependencies
}

func NewSessionRegistry(deps Dependencies) *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[uuid.UUID]*MeetingSession),
		deps:     deps,
	}
}

// GetOrCreate returns the existing live session for a meeting, or validates
// the meeting record and creates one. The registry mutex is held across the
// lookup and the construction, so a creation race yields exactly one session
// object. An Ended session left in the table is discarded on the way.
func (r *SessionRegistry) GetOrCreate(ctx context.Context, meetingID uuid.UUID) (*MeetingSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.sessions[meetingID]; ok {
		if existing.State() != Ended {
			return existing, nil
		}
		delete(r.sessions, meetingID)
	}

	meeting, err := r.deps.Meetings.GetMeeting(meetingID)
	if err != nil {
		if err == apperrors.ErrMeetingNotFound {
			return nil, apperrors.ErrMeetingNotFound
		}
		return nil, err
	}
	if !meeting.IsActive {
		return nil, apperrors.ErrMeetingInactive
	}

	s := newMeetingSession(meeting, r.deps)
	r.sessions[meetingID] = s
	return s, nil
}

// Remove drops a session from the table once it is Ended and has no remaining
// connected participant. Idempotent: removing an unknown id does nothing.
func (r *SessionRegistry) Remove(meetingID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, meetingID)
}

// Len reports the number of live sessions, for telemetry and tests.
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
