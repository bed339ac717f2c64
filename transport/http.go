package transport

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"babelroom/contract"
	"babelroom/domain"
	apperrors "babelroom/errors"
)

// MeetingHandler exposes the meeting records over plain HTTP so a meeting can
// exist before any session attaches to it. CRUD only: no session logic here.
type MeetingHandler struct {
	log      *slog.Logger
	meetings contract.IMeetingRepository
	validate *validator.Validate
}

func NewMeetingHandler(log *slog.Logger, meetings contract.IMeetingRepository) *MeetingHandler {
	return &MeetingHandler{log: log, meetings: meetings, validate: validator.New()}
}

type createMeetingRequest struct {
	TenantID        string   `json:"tenant_id" validate:"omitempty,uuid4"`
	Name            string   `json:"name" validate:"required,max=200"`
	SourceLanguage  string   `json:"source_language" validate:"omitempty,bcp47_language_tag"`
	TargetLanguages []string `json:"target_languages" validate:"required,min=1,dive,bcp47_language_tag"`
}

type meetingResponse struct {
	ID              string     `json:"id"`
	TenantID        string     `json:"tenant_id"`
	Name            string     `json:"name"`
	SourceLanguage  string     `json:"source_language"`
	TargetLanguages []string   `json:"target_languages"`
	IsActive        bool       `json:"is_active"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time,omitempty"`
}

// Create handles POST /meetings.
func (h *MeetingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createMeetingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tenantID := uuid.Nil
	if req.TenantID != "" {
		parsed, err := uuid.Parse(req.TenantID)
		if err != nil {
			http.Error(w, "invalid tenant id", http.StatusBadRequest)
			return
		}
		tenantID = parsed
	}
	meeting := domain.NewMeeting(tenantID, req.Name, req.SourceLanguage, req.TargetLanguages)
	if err := h.meetings.CreateMeeting(meeting); err != nil {
		h.log.Error("Meeting creation failed", "error", err)
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(toMeetingResponse(meeting))
}

// Get handles GET /meetings/{id}.
func (h *MeetingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid meeting id", http.StatusBadRequest)
		return
	}
	meeting, err := h.meetings.GetMeeting(id)
	if err == apperrors.ErrMeetingNotFound {
		http.Error(w, "meeting not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.log.Error("Meeting lookup failed", "error", err)
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toMeetingResponse(meeting))
}

func toMeetingResponse(m domain.Meeting) meetingResponse {
	return meetingResponse{
		ID:              m.ID.String(),
		TenantID:        m.TenantID.String(),
		Name:            m.Name,
		SourceLanguage:  m.SourceLanguage,
		TargetLanguages: m.TargetLanguages,
		IsActive:        m.IsActive,
		StartTime:       m.StartTime,
		EndTime:         m.EndTime,
	}
}
