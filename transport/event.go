package transport

import (
	"babelroom/domain/event"
)

// wireEvent is the outbound JSON shape shared by every event type.
type wireEvent struct {
	Type           string `json:"type"`
	Text           string `json:"text,omitempty"`
	ParticipantID  string `json:"participant_id,omitempty"`
	Language       string `json:"language,omitempty"`
	SourceLanguage string `json:"source_language,omitempty"`
	TargetLanguage string `json:"target_language,omitempty"`
}

// toWireEvent maps a session event to its wire shape. Translation audio is
// returned separately: it is sent as a follow-up binary frame. The terminal
// flag marks the event after which the connection closes.
func toWireEvent(e event.SessionEvent) (wire *wireEvent, audio []byte, terminal bool) {
	switch evt := e.(type) {
	case event.TranscriptionReady:
		return &wireEvent{
			Type:          "transcription",
			Text:          evt.Text,
			ParticipantID: evt.ParticipantID.String(),
			Language:      evt.Language,
		}, nil, false
	case event.TranslationReady:
		return &wireEvent{
			Type:           "translation",
			Text:           evt.Text,
			ParticipantID:  evt.ParticipantID.String(),
			SourceLanguage: evt.SourceLanguage,
			TargetLanguage: evt.TargetLanguage,
		}, evt.Audio, false
	case event.MeetingEnded:
		return &wireEvent{Type: "meeting_ended"}, nil, true
	default:
		return nil, nil, false
	}
}
