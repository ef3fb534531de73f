package delivery

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/Vovarama1992/mediameta/internal/domain"
	"github.com/Vovarama1992/mediameta/internal/infra"
	"github.com/Vovarama1992/mediameta/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestHandler() *MediaHandler {
	zl := logger.NewZapLogger(zap.NewNop().Sugar())
	return NewMediaHandler(domain.NewMediaService(infra.NewMemoryMediaRepo(), zl), zl)
}

func newTestRouter(h *MediaHandler) http.Handler {
	r := chi.NewRouter()
	RegisterRoutes(r, h)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp messageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Message
}

func TestLifecycleOverHTTP(t *testing.T) {
	r := newTestRouter(newTestHandler())

	rec := do(t, r, http.MethodPost, "/media",
		`{"mobile_number":"555","phone_number_id":"p1","media_id":"m1","filename":"a.jpg"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		Message string             `json:"message"`
		Data    models.MediaRecord `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Equal(t, "Media entry created successfully", created.Message)
	require.Equal(t, "m1", created.Data.MediaID)
	require.NotEmpty(t, created.Data.ID)

	rec = do(t, r, http.MethodGet, "/media/555", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var records []models.MediaRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Len(t, records, 1)
	require.Equal(t, "m1", records[0].MediaID)

	rec = do(t, r, http.MethodPut, "/media/555", `{"mobile_number":"555","media_id":"m2","filename":"b.jpg"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Media entry updated successfully", message(t, rec))

	rec = do(t, r, http.MethodGet, "/media/555", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Equal(t, "p1", records[0].PhoneNumberID)
	require.Equal(t, "b.jpg", records[0].Filename)

	rec = do(t, r, http.MethodDelete, "/media/m2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Media entry deleted successfully", message(t, rec))

	rec = do(t, r, http.MethodGet, "/media/555", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "No entry found", message(t, rec))
}

func TestCreateFailures(t *testing.T) {
	r := newTestRouter(newTestHandler())

	rec := do(t, r, http.MethodPost, "/media", `{"mobile_number":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, r, http.MethodPost, "/media", `{"mobile_number":"555","media_id":"m1","filename":"a.jpg"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp messageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Error)

	body := `{"mobile_number":"555","phone_number_id":"p1","media_id":"m1","filename":"a.jpg"}`
	require.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/media", body).Code)
	require.Equal(t, http.StatusInternalServerError, do(t, r, http.MethodPost, "/media", body).Code)
}

func TestGetByOwnerMissingParam(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/media/", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("mobile_number", "")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	rec := httptest.NewRecorder()
	h.GetByOwner(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "mobile no is required", message(t, rec))
}

func TestUpdateFailures(t *testing.T) {
	r := newTestRouter(newTestHandler())

	require.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/media",
		`{"mobile_number":"111","phone_number_id":"pa","media_id":"X","filename":"a.jpg"}`).Code)
	require.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/media",
		`{"mobile_number":"222","phone_number_id":"pb","media_id":"Y","filename":"b.jpg"}`).Code)

	rec := do(t, r, http.MethodPut, "/media/222", `{"mobile_number":"222","media_id":"X","filename":"c.jpg"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Duplicate media_id found", message(t, rec))

	rec = do(t, r, http.MethodPut, "/media/999", `{"mobile_number":"999","media_id":"Z","filename":"c.jpg"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "No entry found to update", message(t, rec))

	rec = do(t, r, http.MethodPut, "/media/222", `{"media_id":"","filename":"c.jpg"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, r, http.MethodPut, "/media/222", `not json`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateFallsBackToPathOwner(t *testing.T) {
	r := newTestRouter(newTestHandler())

	require.Equal(t, http.StatusCreated, do(t, r, http.MethodPost, "/media",
		`{"mobile_number":"111","phone_number_id":"pa","media_id":"X","filename":"a.jpg"}`).Code)

	rec := do(t, r, http.MethodPut, "/media/111", `{"media_id":"Z","filename":"z.jpg"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, r, http.MethodGet, "/media/111", "")
	var records []models.MediaRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Equal(t, "Z", records[0].MediaID)
}

func TestDeleteNotFound(t *testing.T) {
	r := newTestRouter(newTestHandler())

	rec := do(t, r, http.MethodDelete, "/media/nope", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "No entry found to delete", message(t, rec))
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestRouter(newTestHandler()), http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
}

func TestNumericFieldsReadAsStrings(t *testing.T) {
	r := newTestRouter(newTestHandler())

	rec := do(t, r, http.MethodPost, "/media",
		`{"mobile_number":555,"phone_number_id":12,"media_id":"m1","filename":"a.jpg"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, r, http.MethodPut, "/media/555", `{"mobile_number":555,"media_id":2,"filename":"b.jpg"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, r, http.MethodGet, "/media/555", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var records []models.MediaRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Equal(t, "12", records[0].PhoneNumberID)
	require.Equal(t, "2", records[0].MediaID)

	rec = do(t, r, http.MethodPost, "/media",
		`{"mobile_number":true,"phone_number_id":"p","media_id":"m9","filename":"a.jpg"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEmptyOwnerPathIsRouterNotFound(t *testing.T) {
	rec := do(t, newTestRouter(newTestHandler()), http.MethodGet, "/media/", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}
