package delivery

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/Vovarama1992/mediameta/internal/domain"
	"github.com/Vovarama1992/mediameta/internal/ports"
	"github.com/go-chi/chi/v5"
)

type MediaHandler struct {
	media ports.MediaService
	log   *logger.ZapLogger
}

func NewMediaHandler(media ports.MediaService, log *logger.ZapLogger) *MediaHandler {
	return &MediaHandler{
		media: media,
		log:   log,
	}
}

// looseString takes a JSON string or number, so {"mobile_number":555} reads
// as "555".
type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		*s = looseString(str)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", b)
	}
	*s = looseString(n.String())
	return nil
}

type createMediaRequest struct {
	MobileNumber  looseString `json:"mobile_number"`
	PhoneNumberID looseString `json:"phone_number_id"`
	MediaID       looseString `json:"media_id"`
	Filename      looseString `json:"filename"`
}

type updateMediaRequest struct {
	MobileNumber looseString `json:"mobile_number"`
	MediaID      looseString `json:"media_id"`
	Filename     looseString `json:"filename"`
}

type messageResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (h *MediaHandler) fail(w http.ResponseWriter, op string, status int, message string, err error) {
	level := "info"
	resp := messageResponse{Message: message}
	if status >= http.StatusInternalServerError {
		level = "error"
		resp.Error = err.Error()
	}

	h.log.Log(logger.LogEntry{
		Level:   level,
		Message: op + " failed",
		Error:   err,
		Fields:  map[string]any{"status": status},
	})

	writeJSON(w, status, resp)
}

// POST /media
func (h *MediaHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createMediaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.fail(w, "create media", http.StatusBadRequest, "invalid json", err)
		return
	}

	m, err := h.media.CreateMedia(
		r.Context(),
		string(req.MobileNumber),
		string(req.PhoneNumberID),
		string(req.MediaID),
		string(req.Filename),
	)
	if err != nil {
		h.fail(w, "create media", http.StatusInternalServerError, "An error occurred while creating media", err)
		return
	}

	h.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "media created",
		Fields:  map[string]any{"mediaID": m.MediaID, "mobileNumber": m.MobileNumber},
	})

	writeJSON(w, http.StatusCreated, messageResponse{
		Message: "Media entry created successfully",
		Data:    m,
	})
}

// GET /media/{mobile_number}
func (h *MediaHandler) GetByOwner(w http.ResponseWriter, r *http.Request) {
	mobileNumber := chi.URLParam(r, "mobile_number")

	records, err := h.media.GetMediaByOwner(r.Context(), mobileNumber)
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		h.fail(w, "get media", http.StatusBadRequest, "mobile no is required", err)
		return
	case errors.Is(err, domain.ErrNotFound):
		h.fail(w, "get media", http.StatusNotFound, "No entry found", err)
		return
	case err != nil:
		h.fail(w, "get media", http.StatusInternalServerError, "An error occurred while fetching media", err)
		return
	}

	writeJSON(w, http.StatusOK, records)
}

// PUT /media/{mobile_number}
//
// The body's mobile_number selects the records; the path value is used when
// the body leaves it out.
func (h *MediaHandler) UpdateByOwner(w http.ResponseWriter, r *http.Request) {
	var req updateMediaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.fail(w, "update media", http.StatusBadRequest, "invalid json", err)
		return
	}
	mobileNumber := string(req.MobileNumber)
	if mobileNumber == "" {
		mobileNumber = chi.URLParam(r, "mobile_number")
	}
	mediaID := string(req.MediaID)

	err := h.media.UpdateMediaByOwner(r.Context(), mobileNumber, mediaID, string(req.Filename))
	switch {
	case errors.Is(err, domain.ErrDuplicateKey):
		h.fail(w, "update media", http.StatusBadRequest, "Duplicate media_id found", err)
		return
	case errors.Is(err, domain.ErrInvalidArgument):
		h.fail(w, "update media", http.StatusBadRequest, "media_id and filename are required", err)
		return
	case errors.Is(err, domain.ErrNotFound):
		h.fail(w, "update media", http.StatusNotFound, "No entry found to update", err)
		return
	case err != nil:
		h.fail(w, "update media", http.StatusInternalServerError, "An error occurred while updating media", err)
		return
	}

	h.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "media updated",
		Fields:  map[string]any{"mediaID": mediaID, "mobileNumber": mobileNumber},
	})

	writeJSON(w, http.StatusOK, messageResponse{Message: "Media entry updated successfully"})
}

// DELETE /media/{media_id}
func (h *MediaHandler) DeleteByMediaID(w http.ResponseWriter, r *http.Request) {
	mediaID := chi.URLParam(r, "media_id")

	err := h.media.DeleteMediaByMediaID(r.Context(), mediaID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		h.fail(w, "delete media", http.StatusNotFound, "No entry found to delete", err)
		return
	case err != nil:
		h.fail(w, "delete media", http.StatusInternalServerError, "An error occurred while deleting media", err)
		return
	}

	h.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "media deleted",
		Fields:  map[string]any{"mediaID": mediaID},
	})

	writeJSON(w, http.StatusOK, messageResponse{Message: "Media entry deleted successfully"})
}
