package session

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"babelroom/domain"
	apperrors "babelroom/errors"
)

func newTestRegistry(f *fixture) *SessionRegistry {
	return NewSessionRegistry(f.deps(Providers{
		Transcriber: &fakeTranscriber{text: "hello"},
		Translator:  &fakeTranslator{translations: map[string]string{"es": "hola"}},
		Synthesizer: &fakeSynthesizer{},
	}))
}

func TestGetOrCreate_OneSessionPerMeetingUnderConcurrency(t *testing.T) {
	req := require.New(t)

	// Given an active meeting and many participants connecting at once
	f := newFixture()
	meeting := domain.NewMeeting(uuid.New(), "standup", "en", []string{"es"})
	req.NoError(f.meetings.CreateMeeting(meeting))
	registry := newTestRegistry(f)

	const connections = 32
	sessions := make([]*MeetingSession, connections)
	var wg sync.WaitGroup
	for i := 0; i < connections; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := registry.GetOrCreate(context.Background(), meeting.ID)
			require.NoError(t, err)
			sessions[i] = s
		}(i)
	}
	wg.Wait()

	// Then every connection landed on the same session object
	for _, s := range sessions {
		req.Same(sessions[0], s)
	}
	req.Equal(1, registry.Len())
}

func TestGetOrCreate_UnknownMeetingIsRejected(t *testing.T) {
	req := require.New(t)
	registry := newTestRegistry(newFixture())

	_, err := registry.GetOrCreate(context.Background(), uuid.New())

	req.ErrorIs(err, apperrors.ErrMeetingNotFound)
	req.Equal(0, registry.Len())
}

func TestGetOrCreate_InactiveMeetingIsRejected(t *testing.T) {
	req := require.New(t)

	// Given a meeting that already ended
	f := newFixture()
	meeting := domain.NewMeeting(uuid.New(), "standup", "en", []string{"es"})
	meeting.End(meeting.StartTime.Add(1))
	req.NoError(f.meetings.CreateMeeting(meeting))
	registry := newTestRegistry(f)

	_, err := registry.GetOrCreate(context.Background(), meeting.ID)

	req.ErrorIs(err, apperrors.ErrMeetingInactive)
	req.Equal(0, registry.Len())
}

func TestGetOrCreate_DiscardsEndedSession(t *testing.T) {
	req := require.New(t)

	// Given a session whose meeting was ended from inside
	f := newFixture()
	meeting := domain.NewMeeting(uuid.New(), "standup", "en", []string{"es"})
	req.NoError(f.meetings.CreateMeeting(meeting))
	registry := newTestRegistry(f)
	sess, err := registry.GetOrCreate(context.Background(), meeting.ID)
	req.NoError(err)
	speaker, _ := join(t, sess, "alice", "en", "en")
	sess.HandleControl(context.Background(), speaker.ID, domain.ControlMessage{Kind: domain.ControlEndMeeting})

	// When someone connects to the same meeting again
	_, err = registry.GetOrCreate(context.Background(), meeting.ID)

	// Then the stale session is dropped and the inactive record rejects them
	req.ErrorIs(err, apperrors.ErrMeetingInactive)
	req.Equal(0, registry.Len())
}

func TestRemove_IsIdempotent(t *testing.T) {
	req := require.New(t)

	f := newFixture()
	meeting := domain.NewMeeting(uuid.New(), "standup", "en", []string{"es"})
	req.NoError(f.meetings.CreateMeeting(meeting))
	registry := newTestRegistry(f)
	_, err := registry.GetOrCreate(context.Background(), meeting.ID)
	req.NoError(err)

	registry.Remove(meeting.ID)
	registry.Remove(meeting.ID)
	registry.Remove(uuid.New())

	req.Equal(0, registry.Len())
}
