//go:generate go run go.uber.org/mock/mockgen -source=participant.go -destination=../mocks/mock_participant_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"babelroom/domain"
	apperrors "babelroom/errors"
)

type ParticipantRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewParticipantRepository(db *badger.DB, log *slog.Logger) ParticipantRepository {
	return ParticipantRepository{db: db, log: log}
}

type diskParticipant struct {
	ID                string     `json:"id"`
	MeetingID         string     `json:"meeting_id"`
	UserID            *string    `json:"user_id,omitempty"`
	Name              string     `json:"name"`
	Email             *string    `json:"email,omitempty"`
	SpeakingLanguage  string     `json:"speaking_language"`
	ListeningLanguage string     `json:"listening_language"`
	JoinTime          time.Time  `json:"join_time"`
	LeaveTime         *time.Time `json:"leave_time,omitempty"`
}

// participantKey scopes participants under their meeting so a prefix scan
// lists one meeting's membership.
func participantKey(meetingID, id uuid.UUID) []byte {
	return []byte(fmt.Sprintf("participant:%s:%s", meetingID, id))
}

func (r ParticipantRepository) CreateParticipant(p domain.Participant) error {
	return r.put(p)
}

func (r ParticipantRepository) UpdateParticipant(p domain.Participant) error {
	return r.put(p)
}

func (r ParticipantRepository) put(p domain.Participant) error {
	bytes, err := json.Marshal(fromParticipant(p))
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(participantKey(p.MeetingID, p.ID), bytes)
	})
}

// GetByUser finds the participant record a registered user already holds in a
// meeting, so a reconnect reuses it instead of creating a duplicate.
func (r ParticipantRepository) GetByUser(meetingID, userID uuid.UUID) (domain.Participant, error) {
	participants, err := r.ListByMeeting(meetingID)
	if err != nil {
		return domain.Participant{}, err
	}
	p, found := lo.Find(participants, func(p domain.Participant) bool {
		return p.UserID != nil && *p.UserID == userID
	})
	if !found {
		return domain.Participant{}, apperrors.ErrParticipantUnknown
	}
	return p, nil
}

func (r ParticipantRepository) ListByMeeting(meetingID uuid.UUID) ([]domain.Participant, error) {
	var stored []diskParticipant
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte(fmt.Sprintf("participant:%s:", meetingID))
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(value []byte) error {
				var dp diskParticipant
				if err := json.Unmarshal(value, &dp); err != nil {
					return err
				}
				stored = append(stored, dp)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	participants := make([]domain.Participant, 0, len(stored))
	for _, dp := range stored {
		p, err := toParticipant(dp)
		if err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	return participants, nil
}

func fromParticipant(p domain.Participant) diskParticipant {
	var userID *string
	if p.UserID != nil {
		userID = lo.ToPtr(p.UserID.String())
	}
	return diskParticipant{
		ID:                p.ID.String(),
		MeetingID:         p.MeetingID.String(),
		UserID:            userID,
		Name:              p.Name,
		Email:             p.Email,
		SpeakingLanguage:  p.SpeakingLanguage,
		ListeningLanguage: p.ListeningLanguage,
		JoinTime:          p.JoinTime,
		LeaveTime:         p.LeaveTime,
	}
}

func toParticipant(stored diskParticipant) (domain.Participant, error) {
	id, err := uuid.Parse(stored.ID)
	if err != nil {
		return domain.Participant{}, err
	}
	meetingID, err := uuid.Parse(stored.MeetingID)
	if err != nil {
		return domain.Participant{}, err
	}
	var userID *uuid.UUID
	if stored.UserID != nil {
		parsed, err := uuid.Parse(*stored.UserID)
		if err != nil {
			return domain.Participant{}, err
		}
		userID = &parsed
	}
	return domain.Participant{
		ID:                id,
		MeetingID:         meetingID,
		UserID:            userID,
		Name:              stored.Name,
		Email:             stored.Email,
		SpeakingLanguage:  stored.SpeakingLanguage,
		ListeningLanguage: stored.ListeningLanguage,
		JoinTime:          stored.JoinTime,
		LeaveTime:         stored.LeaveTime,
	}, nil
}
