//go:generate go run go.uber.org/mock/mockgen -source=segment.go -destination=../mocks/mock_segment_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"babelroom/domain"
)

type SegmentRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewSegmentRepository(db *badger.DB, log *slog.Logger) SegmentRepository {
	return SegmentRepository{db: db, log: log}
}

type diskTranscription struct {
	ID             string `json:"id"`
	MeetingID      string `json:"meeting_id"`
	ParticipantID  string `json:"participant_id"`
	OriginalText   string `json:"original_text"`
	SourceLanguage string `json:"source_language"`
	At             int64  `json:"at"`
}

type diskTranslation struct {
	ID              string `json:"id"`
	TranscriptionID string `json:"transcription_id"`
	MeetingID       string `json:"meeting_id"`
	TargetLanguage  string `json:"target_language"`
	TranslatedText  string `json:"translated_text"`
}

// StoreTranscription persists one utterance. The key is formatted as
// "transcript:{meeting_id}:{timestamp_padded}:{uuid}" to:
//  1. Ensure chronological sorting using 19-digit zero padding
//     (lexicographical order).
//  2. Prevent data loss by using the segment UUID as a collision
//     disconnector if two utterances land at the same nanosecond.
func (r SegmentRepository) StoreTranscription(s domain.TranscriptionSegment) error {
	key := fmt.Sprintf("transcript:%s:%019d:%s", s.MeetingID, s.Timestamp.UnixNano(), s.ID)
	bytes, err := json.Marshal(diskTranscription{
		ID:             s.ID.String(),
		MeetingID:      s.MeetingID.String(),
		ParticipantID:  s.ParticipantID.String(),
		OriginalText:   s.OriginalText,
		SourceLanguage: s.SourceLanguage,
		At:             s.Timestamp.UnixNano(),
	})
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), bytes)
	})
}

// StoreTranslation persists one translated rendition. One key per
// (transcription, target language) pair, so a retried write stays idempotent.
func (r SegmentRepository) StoreTranslation(s domain.TranslationSegment) error {
	key := fmt.Sprintf("translation:%s:%s", s.TranscriptionID, s.TargetLanguage)
	bytes, err := json.Marshal(diskTranslation{
		ID:              s.ID.String(),
		TranscriptionID: s.TranscriptionID.String(),
		MeetingID:       s.MeetingID.String(),
		TargetLanguage:  s.TargetLanguage,
		TranslatedText:  s.TranslatedText,
	})
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), bytes)
	})
}

// GetTranscriptions returns a meeting's utterances in chronological order.
// Thanks to the padded timestamp in the key, a forward prefix scan is enough.
func (r SegmentRepository) GetTranscriptions(meetingID uuid.UUID) ([]domain.TranscriptionSegment, error) {
	var stored []diskTranscription
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte(fmt.Sprintf("transcript:%s:", meetingID))
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(value []byte) error {
				var dt diskTranscription
				if err := json.Unmarshal(value, &dt); err != nil {
					return err
				}
				stored = append(stored, dt)
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

	segments := make([]domain.TranscriptionSegment, 0, len(stored))
	for _, dt := range stored {
		segment, err := toTranscription(dt)
		if err != nil {
			return nil, err
		}
		segments = append(segments, segment)
	}
	return segments, nil
}

func (r SegmentRepository) GetTranslations(transcriptionID uuid.UUID) ([]domain.TranslationSegment, error) {
	var stored []diskTranslation
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte(fmt.Sprintf("translation:%s:", transcriptionID))
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(value []byte) error {
				var dt diskTranslation
				if err := json.Unmarshal(value, &dt); err != nil {
					return err
				}
				stored = append(stored, dt)
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

	segments := make([]domain.TranslationSegment, 0, len(stored))
	for _, dt := range stored {
		segment, err := toTranslation(dt)
		if err != nil {
			return nil, err
		}
		segments = append(segments, segment)
	}
	return segments, nil
}

func toTranscription(stored diskTranscription) (domain.TranscriptionSegment, error) {
	id, err := uuid.Parse(stored.ID)
	if err != nil {
		return domain.TranscriptionSegment{}, err
	}
	meetingID, err := uuid.Parse(stored.MeetingID)
	if err != nil {
		return domain.TranscriptionSegment{}, err
	}
	participantID, err := uuid.Parse(stored.ParticipantID)
	if err != nil {
		return domain.TranscriptionSegment{}, err
	}
	return domain.TranscriptionSegment{
		ID:             id,
		MeetingID:      meetingID,
		ParticipantID:  participantID,
		OriginalText:   stored.OriginalText,
		SourceLanguage: stored.SourceLanguage,
		Timestamp:      time.Unix(0, stored.At).UTC(),
	}, nil
}

func toTranslation(stored diskTranslation) (domain.TranslationSegment, error) {
	id, err := uuid.Parse(stored.ID)
	if err != nil {
		return domain.TranslationSegment{}, err
	}
	transcriptionID, err := uuid.Parse(stored.TranscriptionID)
	if err != nil {
		return domain.TranslationSegment{}, err
	}
	meetingID, err := uuid.Parse(stored.MeetingID)
	if err != nil {
		return domain.TranslationSegment{}, err
	}
	return domain.TranslationSegment{
		ID:              id,
		TranscriptionID: transcriptionID,
		MeetingID:       meetingID,
		TargetLanguage:  stored.TargetLanguage,
		TranslatedText:  stored.TranslatedText,
	}, nil
}
