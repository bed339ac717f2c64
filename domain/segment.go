package domain

import (
	"time"

	"github.com/google/uuid"
)

// Segment is anything the pipeline persists to the transcript log.
type Segment interface {
	SegmentID() uuid.UUID
}

// TranscriptionSegment is an immutable record of one transcribed utterance.
// Created exactly once per successful transcription result.
type TranscriptionSegment struct {
	ID             uuid.UUID
	MeetingID      uuid.UUID
	ParticipantID  uuid.UUID
	OriginalText   string
	SourceLanguage string
	Timestamp      time.Time
}

func NewTranscriptionSegment(meetingID, participantID uuid.UUID, text, sourceLanguage string) TranscriptionSegment {
	return TranscriptionSegment{
		ID:             uuid.New(),
		MeetingID:      meetingID,
		ParticipantID:  participantID,
		OriginalText:   text,
		SourceLanguage: sourceLanguage,
		Timestamp:      time.Now().UTC(),
	}
}

func (s TranscriptionSegment) SegmentID() uuid.UUID { return s.ID }

// TranslationSegment is an immutable record of one translated utterance.
// Created exactly once per (transcription, target language) pair where the
// target differs from the source.
type TranslationSegment struct {
	ID              uuid.UUID
	TranscriptionID uuid.UUID
	MeetingID       uuid.UUID
	TargetLanguage  string
	TranslatedText  string
}

func NewTranslationSegment(transcription TranscriptionSegment, targetLanguage, translatedText string) TranslationSegment {
	return TranslationSegment{
		ID:              uuid.New(),
		TranscriptionID: transcription.ID,
		MeetingID:       transcription.MeetingID,
		TargetLanguage:  targetLanguage,
		TranslatedText:  translatedText,
	}
}

func (s TranslationSegment) SegmentID() uuid.UUID { return s.ID }
