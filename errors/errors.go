package errors

import "fmt"

var (
	ErrWorkerPanic        = fmt.Errorf("worker panic")
	ErrMeetingNotFound    = fmt.Errorf("meeting not found")
	ErrMeetingInactive    = fmt.Errorf("meeting is not active")
	ErrSessionEnded       = fmt.Errorf("session already ended")
	ErrParticipantUnknown = fmt.Errorf("participant unknown in this meeting")
	ErrSlowConsumer       = fmt.Errorf("participant sink is full")
)
