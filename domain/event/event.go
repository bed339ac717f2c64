// Package event defines everything a live meeting session can broadcast to
// its participants. Events are immutable values; the delivery predicate they
// carry is the sole fan-out gate.
package event

import (
	"time"

	"github.com/google/uuid"
)

// SessionEvent is broadcast through the participant sinks of one meeting.
// DeliverableTo is evaluated per participant at delivery time against their
// current listening language, never against a setting captured earlier.
type SessionEvent interface {
	MeetingID() uuid.UUID
	DeliverableTo(listeningLanguage string) bool
}

// TranscriptionReady carries the original text of one utterance.
type TranscriptionReady struct {
	Meeting       uuid.UUID
	ParticipantID uuid.UUID
	Text          string
	Language      string
	At            time.Time
}

func (e TranscriptionReady) MeetingID() uuid.UUID { return e.Meeting }

// DeliverableTo compares the transcription language to the listener's
// language: listeners set to another language do not receive source captions.
func (e TranscriptionReady) DeliverableTo(listeningLanguage string) bool {
	return e.Language == listeningLanguage
}

// TranslationReady carries one translated utterance, with synthesized speech
// when the synthesis provider produced any.
type TranslationReady struct {
	Meeting        uuid.UUID
	ParticipantID  uuid.UUID
	Text           string
	Audio          []byte
	SourceLanguage string
	TargetLanguage string
	At             time.Time
}

func (e TranslationReady) MeetingID() uuid.UUID { return e.Meeting }

func (e TranslationReady) DeliverableTo(listeningLanguage string) bool {
	return e.TargetLanguage == listeningLanguage
}

// MeetingEnded is the terminal notification; it reaches every participant
// regardless of language settings.
type MeetingEnded struct {
	Meeting uuid.UUID
}

func (e MeetingEnded) MeetingID() uuid.UUID { return e.Meeting }

func (e MeetingEnded) DeliverableTo(string) bool { return true }
