package domain

type ControlKind string

const (
	ControlConfig       ControlKind = "config"
	ControlStartMeeting ControlKind = "start_meeting"
	ControlEndMeeting   ControlKind = "end_meeting"
)

// ControlMessage is a parsed inbound control instruction from a participant.
// Empty language fields mean "leave unchanged".
type ControlMessage struct {
	Kind              ControlKind
	SpeakingLanguage  string
	ListeningLanguage string
}
