package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultLanguage is used until a participant sends their first config message.
const DefaultLanguage = "en"

// Participant represents one person connected to a meeting, registered or
// guest. Language settings are mutable and independently settable at any time
// during the session. A participant is never deleted from the record, only
// marked departed through LeaveTime.
type Participant struct {
	ID                uuid.UUID
	MeetingID         uuid.UUID
	UserID            *uuid.UUID
	Name              string
	Email             *string
	SpeakingLanguage  string
	ListeningLanguage string
	JoinTime          time.Time
	LeaveTime         *time.Time
}

func NewParticipant(meetingID uuid.UUID, userID *uuid.UUID, name string, email *string, speaking, listening string) Participant {
	if name == "" {
		name = "Guest"
	}
	if speaking == "" {
		speaking = DefaultLanguage
	}
	if listening == "" {
		listening = DefaultLanguage
	}
	return Participant{
		ID:                uuid.New(),
		MeetingID:         meetingID,
		UserID:            userID,
		Name:              name,
		Email:             email,
		SpeakingLanguage:  speaking,
		ListeningLanguage: listening,
		JoinTime:          time.Now().UTC(),
	}
}

// Leave marks the participant departed. LeaveTime is set exactly once.
func (p *Participant) Leave(at time.Time) {
	if p.LeaveTime != nil {
		return
	}
	p.LeaveTime = &at
}
