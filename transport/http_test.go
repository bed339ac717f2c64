package transport

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"babelroom/domain"
	apperrors "babelroom/errors"
)

type memMeetingRepo struct {
	mu       sync.Mutex
	meetings map[uuid.UUID]domain.Meeting
}

func newMemMeetingRepo() *memMeetingRepo {
	return &memMeetingRepo{meetings: make(map[uuid.UUID]domain.Meeting)}
}

func (r *memMeetingRepo) CreateMeeting(m domain.Meeting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.meetings[m.ID] = m
	return nil
}

func (r *memMeetingRepo) GetMeeting(id uuid.UUID) (domain.Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.meetings[id]
	if !ok {
		return domain.Meeting{}, apperrors.ErrMeetingNotFound
	}
	return m, nil
}

func (r *memMeetingRepo) UpdateMeeting(m domain.Meeting) error { return r.CreateMeeting(m) }

func newMeetingMux(repo *memMeetingRepo) *http.ServeMux {
	handler := NewMeetingHandler(slog.Default(), repo)
	mux := http.NewServeMux()
	mux.HandleFunc("POST /meetings", handler.Create)
	mux.HandleFunc("GET /meetings/{id}", handler.Get)
	return mux
}

func TestMeetingHandler_CreateAndGet(t *testing.T) {
	req := require.New(t)
	repo := newMemMeetingRepo()
	mux := newMeetingMux(repo)

	// When a meeting is created
	body, _ := json.Marshal(map[string]any{
		"name":             "standup",
		"source_language":  "en",
		"target_languages": []string{"es", "fr"},
	})
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/meetings", bytes.NewReader(body)))

	req.Equal(http.StatusCreated, rec.Code)
	var created meetingResponse
	req.NoError(json.Unmarshal(rec.Body.Bytes(), &created))
	req.Equal("standup", created.Name)
	req.Equal("en", created.SourceLanguage)
	req.Equal([]string{"es", "fr"}, created.TargetLanguages)
	req.True(created.IsActive)

	// Then it can be fetched by id
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/meetings/"+created.ID, nil))
	req.Equal(http.StatusOK, rec.Code)
	var fetched meetingResponse
	req.NoError(json.Unmarshal(rec.Body.Bytes(), &fetched))
	req.Equal(created.ID, fetched.ID)
}

func TestMeetingHandler_CreateCarriesTenant(t *testing.T) {
	req := require.New(t)
	mux := newMeetingMux(newMemMeetingRepo())
	tenantID := uuid.New()

	body, _ := json.Marshal(map[string]any{
		"name":             "standup",
		"tenant_id":        tenantID.String(),
		"target_languages": []string{"es"},
	})
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/meetings", bytes.NewReader(body)))

	req.Equal(http.StatusCreated, rec.Code)
	var created meetingResponse
	req.NoError(json.Unmarshal(rec.Body.Bytes(), &created))
	req.Equal(tenantID.String(), created.TenantID)
}

func TestMeetingHandler_CreateRejectsInvalidPayload(t *testing.T) {
	req := require.New(t)
	mux := newMeetingMux(newMemMeetingRepo())

	cases := []map[string]any{
		{"target_languages": []string{"es"}},
		{"name": "standup"},
		{"name": "standup", "target_languages": []string{"not a tag !!!"}},
		{"name": "standup", "target_languages": []string{}},
		{"name": "standup", "target_languages": []string{"es"}, "tenant_id": "not-a-uuid"},
	}
	for _, payload := range cases {
		body, _ := json.Marshal(payload)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/meetings", bytes.NewReader(body)))
		req.Equal(http.StatusBadRequest, rec.Code)
	}
}

func TestMeetingHandler_GetUnknownMeeting(t *testing.T) {
	req := require.New(t)
	mux := newMeetingMux(newMemMeetingRepo())

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/meetings/"+uuid.NewString(), nil))

	req.Equal(http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/meetings/not-a-uuid", nil))
	req.Equal(http.StatusBadRequest, rec.Code)
}
