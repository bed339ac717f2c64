//go:generate go run go.uber.org/mock/mockgen -source=meeting.go -destination=../mocks/mock_meeting_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"babelroom/domain"
	apperrors "babelroom/errors"
)

type MeetingRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewMeetingRepository(db *badger.DB, log *slog.Logger) MeetingRepository {
	return MeetingRepository{db: db, log: log}
}

// diskMeeting is the stored shape of a meeting record. Kept separate from the
// domain struct so the storage layout can evolve without touching the domain.
type diskMeeting struct {
	ID              string     `json:"id"`
	TenantID        string     `json:"tenant_id"`
	Name            string     `json:"name"`
	SourceLanguage  string     `json:"source_language"`
	TargetLanguages []string   `json:"target_languages"`
	IsActive        bool       `json:"is_active"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func meetingKey(id uuid.UUID) []byte {
	return []byte(fmt.Sprintf("meeting:%s", id))
}

func (r MeetingRepository) CreateMeeting(m domain.Meeting) error {
	return r.put(m)
}

func (r MeetingRepository) UpdateMeeting(m domain.Meeting) error {
	return r.put(m)
}

func (r MeetingRepository) put(m domain.Meeting) error {
	bytes, err := json.Marshal(fromMeeting(m))
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(meetingKey(m.ID), bytes)
	})
}

func (r MeetingRepository) GetMeeting(id uuid.UUID) (domain.Meeting, error) {
	var stored diskMeeting
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(meetingKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(value []byte) error {
			return json.Unmarshal(value, &stored)
		})
	})
	if err == badger.ErrKeyNotFound {
		return domain.Meeting{}, apperrors.ErrMeetingNotFound
	}
	if err != nil {
		return domain.Meeting{}, err
	}
	return toMeeting(stored)
}

func fromMeeting(m domain.Meeting) diskMeeting {
	return diskMeeting{
		ID:              m.ID.String(),
		TenantID:        m.TenantID.String(),
		Name:            m.Name,
		SourceLanguage:  m.SourceLanguage,
		TargetLanguages: m.TargetLanguages,
		IsActive:        m.IsActive,
		StartTime:       m.StartTime,
		EndTime:         m.EndTime,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func toMeeting(stored diskMeeting) (domain.Meeting, error) {
	id, err := uuid.Parse(stored.ID)
	if err != nil {
		return domain.Meeting{}, err
	}
	tenantID, err := uuid.Parse(stored.TenantID)
	if err != nil {
		return domain.Meeting{}, err
	}
	return domain.Meeting{
		ID:              id,
		TenantID:        tenantID,
		Name:            stored.Name,
		SourceLanguage:  stored.SourceLanguage,
		TargetLanguages: stored.TargetLanguages,
		IsActive:        stored.IsActive,
		StartTime:       stored.StartTime,
		EndTime:         stored.EndTime,
		CreatedAt:       stored.CreatedAt,
		UpdatedAt:       stored.UpdatedAt,
	}, nil
}
