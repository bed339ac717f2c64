// Package session owns the live state of meetings: one MeetingSession per
// active meeting, plus the process-wide SessionRegistry. It orchestrates the
// transcribe/translate/synthesize pipeline without containing transport or
// storage logic.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"babelroom/contract"
	"babelroom/domain"
	"babelroom/domain/event"
	apperrors "babelroom/errors"
	"babelroom/observability"
)

type State int

const (
	Connecting State = iota
	Active
	Ended
)

// Providers bundles the three external capabilities the pipeline drives.
type Providers struct {
	Transcriber contract.Transcriber
	Translator  contract.Translator
	Synthesizer contract.SpeechSynthesizer
}

// MeetingSession is the live control structure for one meeting.
//
// All mutable state (participant table, meeting flags, sinks) lives behind a
// single session mutex: audio from different participants arrives
// concurrently and cross-participant state must never be touched without
// exclusion. Provider calls and persistence never happen under the lock.
type MeetingSession struct {
	mu           sync.RWMutex
	state        State
	meeting      domain.Meeting
	participants map[uuid.UUID]*domain.Participant
	sinks        map[uuid.UUID]contract.EventSink

	providers       Providers
	meetingRepo     contract.IMeetingRepository
	participantRepo contract.IParticipantRepository
	segments        chan<- domain.Segment
	stats           *observability.PipelineStats
	log             *slog.Logger
}

func newMeetingSession(meeting domain.Meeting, deps Dependencies) *MeetingSession {
	return &MeetingSession{
		state:           Connecting,
		meeting:         meeting,
		participants:    make(map[uuid.UUID]*domain.Participant),
		sinks:           make(map[uuid.UUID]contract.EventSink),
		providers:       deps.Providers,
		meetingRepo:     deps.Meetings,
		participantRepo: deps.Participants,
		segments:        deps.Segments,
		stats:           deps.Stats,
		log:             deps.Log.With("meeting", meeting.ID),
	}
}

// JoinRequest carries the identity a connecting participant presents.
type JoinRequest struct {
	UserID    *uuid.UUID
	Name      string
	Email     *string
	Speaking  string
	Listening string
	Sink      contract.EventSink
}

// Join establishes or creates the participant and registers their sink.
// A registered user reconnecting to the same meeting reuses their existing
// participant record; guests always get a fresh one. The session enters
// Active on the first successful join.
func (s *MeetingSession) Join(ctx context.Context, req JoinRequest) (domain.Participant, error) {
	s.mu.Lock()
	if s.state == Ended {
		s.mu.Unlock()
		return domain.Participant{}, apperrors.ErrSessionEnded
	}
	if !s.meeting.IsActive {
		s.mu.Unlock()
		return domain.Participant{}, apperrors.ErrMeetingInactive
	}
	meetingID := s.meeting.ID
	s.mu.Unlock()

	participant, created, err := s.establishParticipant(meetingID, req)
	if err != nil {
		return domain.Participant{}, err
	}

	s.mu.Lock()
	if s.state == Ended {
		// The meeting ended while we were creating the record.
		s.mu.Unlock()
		return domain.Participant{}, apperrors.ErrSessionEnded
	}
	s.participants[participant.ID] = &participant
	s.sinks[participant.ID] = req.Sink
	s.state = Active
	snapshot := participant
	s.mu.Unlock()

	s.log.Info("Participant joined",
		"participant", snapshot.ID,
		"name", snapshot.Name,
		"speaking", snapshot.SpeakingLanguage,
		"listening", snapshot.ListeningLanguage,
		"created", created)
	return snapshot, nil
}

// establishParticipant resolves the durable participant record, outside the
// session lock since it hits storage.
func (s *MeetingSession) establishParticipant(meetingID uuid.UUID, req JoinRequest) (domain.Participant, bool, error) {
	if req.UserID != nil {
		existing, err := s.participantRepo.GetByUser(meetingID, *req.UserID)
		if err == nil {
			// Returning user: clear the departure mark, keep their languages.
			existing.LeaveTime = nil
			if err = s.participantRepo.UpdateParticipant(existing); err != nil {
				return domain.Participant{}, false, err
			}
			return existing, false, nil
		}
		if err != apperrors.ErrParticipantUnknown {
			return domain.Participant{}, false, err
		}
	}

	participant := domain.NewParticipant(meetingID, req.UserID, req.Name, req.Email, req.Speaking, req.Listening)
	if err := s.participantRepo.CreateParticipant(participant); err != nil {
		return domain.Participant{}, false, err
	}
	return participant, true, nil
}

// HandleAudio runs the full pipeline for one utterance. It is a silent no-op
// when the session is not Active or the sender is unknown. The caller's
// goroutine carries the pipeline, which preserves the relative order of a
// single participant's utterances; other participants' goroutines proceed
// concurrently and delivery never blocks on this call.
func (s *MeetingSession) HandleAudio(ctx context.Context, participantID uuid.UUID, audio []byte) {
	s.mu.RLock()
	if s.state != Active {
		s.mu.RUnlock()
		return
	}
	participant, ok := s.participants[participantID]
	if !ok {
		s.mu.RUnlock()
		return
	}
	source := participant.SpeakingLanguage
	meeting := s.meeting
	s.mu.RUnlock()

	text, err := s.providers.Transcriber.Transcribe(ctx, audio, source)
	if err != nil {
		s.stats.IncrProviderFailures()
		s.log.Warn("Transcription failed", "participant", participantID, "error", err)
		return
	}
	if text == "" {
		// Silence or failed recognition is not an error.
		return
	}

	segment := domain.NewTranscriptionSegment(meeting.ID, participantID, text, source)
	s.persistAsync(segment)
	s.stats.IncrUtterances()
	s.broadcast(ctx, event.TranscriptionReady{
		Meeting:       meeting.ID,
		ParticipantID: participantID,
		Text:          text,
		Language:      source,
		At:            segment.Timestamp,
	})

	// Each target language is independent: translate them concurrently,
	// but keep each target's translate then synthesize chain sequential.
	var wg sync.WaitGroup
	for _, target := range meeting.Targets(source) {
		wg.Add(1)
		go func(target string) {
			defer wg.Done()
			s.translateAndDeliver(ctx, segment, source, target)
		}(target)
	}
	wg.Wait()
}

func (s *MeetingSession) translateAndDeliver(ctx context.Context, segment domain.TranscriptionSegment, source, target string) {
	translated, err := s.providers.Translator.Translate(ctx, segment.OriginalText, source, target)
	if err != nil {
		s.stats.IncrProviderFailures()
		s.log.Warn("Translation failed", "target", target, "error", err)
		return
	}
	if translated == "" {
		// Skipped target: no segment, no synthesis.
		return
	}
	if s.State() == Ended {
		// Late result on a terminated session is discarded.
		return
	}

	translation := domain.NewTranslationSegment(segment, target, translated)
	s.persistAsync(translation)
	s.stats.IncrTranslations()

	audio, err := s.providers.Synthesizer.Synthesize(ctx, translated, target)
	if err != nil {
		s.stats.IncrProviderFailures()
		s.log.Warn("Speech synthesis failed", "target", target, "error", err)
		audio = nil // the translation is still delivered without audio
	} else if len(audio) > 0 {
		s.stats.IncrSyntheses()
	}

	s.broadcast(ctx, event.TranslationReady{
		Meeting:        segment.MeetingID,
		ParticipantID:  segment.ParticipantID,
		Text:           translated,
		Audio:          audio,
		SourceLanguage: source,
		TargetLanguage: target,
		At:             time.Now().UTC(),
	})
}

// HandleControl dispatches one inbound control message from a participant.
// Unrecognized kinds are ignored.
func (s *MeetingSession) HandleControl(ctx context.Context, participantID uuid.UUID, msg domain.ControlMessage) {
	switch msg.Kind {
	case domain.ControlConfig:
		s.updateLanguages(participantID, msg.SpeakingLanguage, msg.ListeningLanguage)
	case domain.ControlEndMeeting:
		s.endMeeting(ctx)
	case domain.ControlStartMeeting:
		// The meeting record is activated before anyone connects.
	default:
	}
}

// updateLanguages takes effect immediately for subsequent events; already
// delivered events are never retracted or redelivered.
func (s *MeetingSession) updateLanguages(participantID uuid.UUID, speaking, listening string) {
	s.mu.Lock()
	if s.state != Active {
		s.mu.Unlock()
		return
	}
	participant, ok := s.participants[participantID]
	if !ok {
		s.mu.Unlock()
		return
	}
	if speaking != "" {
		participant.SpeakingLanguage = speaking
	}
	if listening != "" {
		participant.ListeningLanguage = listening
	}
	snapshot := *participant
	s.mu.Unlock()

	if err := s.participantRepo.UpdateParticipant(snapshot); err != nil {
		s.stats.IncrPersistenceFailures()
		s.log.Error("Participant update failed", "participant", participantID, "error", err)
	}
}

// endMeeting transitions the meeting to inactive and the session to Ended,
// then notifies every participant. Any participant can end the meeting.
func (s *MeetingSession) endMeeting(ctx context.Context) {
	now := time.Now().UTC()
	s.mu.Lock()
	if s.state == Ended {
		s.mu.Unlock()
		return
	}
	s.state = Ended
	s.meeting.End(now)
	meeting := s.meeting
	s.mu.Unlock()

	if err := s.meetingRepo.UpdateMeeting(meeting); err != nil {
		s.stats.IncrPersistenceFailures()
		s.log.Error("Meeting update failed", "error", err)
	}
	s.broadcast(ctx, event.MeetingEnded{Meeting: meeting.ID})
	s.log.Info("Meeting ended")
}

// Disconnect removes the participant from delivery routing and marks their
// departure. It never ends the meeting: teardown policy belongs to the
// surrounding application.
func (s *MeetingSession) Disconnect(participantID uuid.UUID) {
	now := time.Now().UTC()
	s.mu.Lock()
	delete(s.sinks, participantID)
	participant, ok := s.participants[participantID]
	var snapshot domain.Participant
	if ok {
		participant.Leave(now)
		snapshot = *participant
		delete(s.participants, participantID)
	}
	s.mu.Unlock()

	if !ok {
		return
	}
	if err := s.participantRepo.UpdateParticipant(snapshot); err != nil {
		s.stats.IncrPersistenceFailures()
		s.log.Error("Participant update failed", "participant", participantID, "error", err)
	}
	s.log.Info("Participant left", "participant", participantID)
}

// broadcast fans an event out to every connected participant whose current
// listening language passes the event's delivery predicate. A sink refusing
// the event (slow consumer) is counted and skipped, never waited on.
func (s *MeetingSession) broadcast(ctx context.Context, e event.SessionEvent) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == Ended {
		// Only the teardown notification may still go out.
		if _, terminal := e.(event.MeetingEnded); !terminal {
			return
		}
	}
	for id, participant := range s.participants {
		sink, connected := s.sinks[id]
		if !connected {
			continue
		}
		if !e.DeliverableTo(participant.ListeningLanguage) {
			continue
		}
		if err := sink.Consume(ctx, e); err != nil {
			s.stats.IncrDroppedDeliveries()
			s.log.Debug("Delivery dropped", "participant", id, "error", err)
		}
	}
}

// persistAsync hands a segment to the storage worker without ever blocking
// the delivery path. A full queue counts as a persistence failure: durability
// is best-effort relative to live delivery.
func (s *MeetingSession) persistAsync(segment domain.Segment) {
	if s.State() == Ended {
		// Guard against late pipeline results landing after teardown.
		return
	}
	select {
	case s.segments <- segment:
	default:
		s.stats.IncrPersistenceFailures()
		s.log.Warn("Segment queue full, dropping record", "segment_id", segment.SegmentID())
	}
}

func (s *MeetingSession) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Empty reports whether no participant connection remains.
func (s *MeetingSession) Empty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sinks) == 0
}

// Meeting returns a copy of the session's current meeting record.
func (s *MeetingSession) Meeting() domain.Meeting {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.meeting
}
