//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"babelroom/domain"
	"babelroom/domain/event"
	"context"
	"reflect"

	"github.com/google/uuid"
)

// Transcriber converts one bounded utterance of audio into text.
// An empty string with a nil error means silence or failed recognition,
// which is not an error for the pipeline.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, language string) (string, error)
}

// Translator translates text between language tags. An empty result is
// skipped by the pipeline, not treated as an error.
type Translator interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
	DetectLanguage(text string) string
}

// SpeechSynthesizer renders text to audio. A nil result is tolerated:
// translations are still delivered without audio.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text, language string) ([]byte, error)
}

// EventSink receives session events for one consumer. Per-participant sinks
// must not block: a slow consumer is isolated, not globally serialized.
type EventSink interface {
	Consume(ctx context.Context, e event.SessionEvent) error
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker lifecycle
// events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

type IMeetingRepository interface {
	CreateMeeting(m domain.Meeting) error
	GetMeeting(id uuid.UUID) (domain.Meeting, error)
	UpdateMeeting(m domain.Meeting) error
}

type IParticipantRepository interface {
	CreateParticipant(p domain.Participant) error
	GetByUser(meetingID, userID uuid.UUID) (domain.Participant, error)
	UpdateParticipant(p domain.Participant) error
	ListByMeeting(meetingID uuid.UUID) ([]domain.Participant, error)
}

type ISegmentRepository interface {
	StoreTranscription(s domain.TranscriptionSegment) error
	StoreTranslation(s domain.TranslationSegment) error
	GetTranscriptions(meetingID uuid.UUID) ([]domain.TranscriptionSegment, error)
	GetTranslations(transcriptionID uuid.UUID) ([]domain.TranslationSegment, error)
}
