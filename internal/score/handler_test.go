package score

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/engrave/internal/document"
	"github.com/inamate/engrave/internal/share"
)

func newTestRouter() (*mux.Router, *Service) {
	s, _ := newTestService()
	h := NewHandler(s, share.NewService("secret"))
	shares := share.NewService("secret")

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/scores", h.List).Methods("GET")
	api.HandleFunc("/scores", h.Create).Methods("POST")
	api.HandleFunc("/scores/{scoreId}", h.Get).Methods("GET")
	api.HandleFunc("/scores/{scoreId}", h.Delete).Methods("DELETE")
	api.HandleFunc("/scores/{scoreId}/snapshots", h.SaveSnapshot).Methods("POST")
	api.HandleFunc("/scores/{scoreId}/snapshots/latest", h.GetLatestSnapshot).Methods("GET")
	api.HandleFunc("/scores/{scoreId}/render", h.Render).Methods("GET")
	api.HandleFunc("/scores/{scoreId}/render.png", h.RenderPNG).Methods("GET")
	api.HandleFunc("/scores/{scoreId}/tuplets/{tupletId}", h.TupletGeometry).Methods("GET")
	api.HandleFunc("/scores/{scoreId}/share", h.Share).Methods("POST")

	shared := r.PathPrefix("/shared/{token}").Subrouter()
	shared.Use(shares.Middleware)
	shared.HandleFunc("/render", h.RenderShared).Methods("GET")
	return r, s
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rec
}

func createScore(t *testing.T, r http.Handler, sample bool) Score {
	t.Helper()
	body := `{"title":"Etude"}`
	if sample {
		body = `{"title":"Etude","sample":true}`
	}
	rec := do(r, http.MethodPost, "/api/scores", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var sc Score
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sc))
	return sc
}

func TestCreateValidation(t *testing.T) {
	r, _ := newTestRouter()

	rec := do(r, http.MethodPost, "/api/scores", `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(r, http.MethodPost, "/api/scores", `{"title":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"title is required"}`, rec.Body.String())
}

func TestScoreLifecycle(t *testing.T) {
	r, _ := newTestRouter()
	sc := createScore(t, r, false)

	rec := do(r, http.MethodGet, "/api/scores/"+sc.ID, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	doc, err := json.Marshal(document.NewSampleScore(sc.ID))
	require.NoError(t, err)
	rec = do(r, http.MethodPost, "/api/scores/"+sc.ID+"/snapshots", string(doc))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"version":2}`, rec.Body.String())

	rec = do(r, http.MethodGet, "/api/scores/"+sc.ID+"/snapshots/latest", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	rec = do(r, http.MethodGet, "/api/scores", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	var list []Score
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)

	rec = do(r, http.MethodDelete, "/api/scores/"+sc.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(r, http.MethodGet, "/api/scores/"+sc.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSaveInvalidSnapshot(t *testing.T) {
	r, _ := newTestRouter()
	sc := createScore(t, r, false)

	rec := do(r, http.MethodPost, "/api/scores/"+sc.ID+"/snapshots", `{"root":"x","elements":{}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid score")
}

func TestRenderRoutes(t *testing.T) {
	r, s := newTestRouter()
	sc := createScore(t, r, true)

	rec := do(r, http.MethodGet, "/api/scores/"+sc.ID+"/render", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var commands []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &commands))
	assert.NotEmpty(t, commands)

	rec = do(r, http.MethodGet, "/api/scores/"+sc.ID+"/render.png", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	e, err := s.load(t.Context(), sc.ID)
	require.NoError(t, err)
	tupletID := e.Tuplets()[1]
	rec = do(r, http.MethodGet, "/api/scores/"+sc.ID+"/tuplets/"+tupletID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var coords struct {
		Start struct{ X, Y int } `json:"start"`
		Up    bool               `json:"up"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &coords))
	assert.True(t, coords.Up)
	assert.Equal(t, 3927, coords.Start.Y)

	rec = do(r, http.MethodGet, "/api/scores/"+sc.ID+"/tuplets/tuplet_missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestShareLink(t *testing.T) {
	r, _ := newTestRouter()
	sc := createScore(t, r, true)

	rec := do(r, http.MethodPost, "/api/scores/"+sc.ID+"/share", `{"ttlHours":2}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	rec = do(r, http.MethodGet, resp["path"], "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(r, http.MethodPost, "/api/scores/score_missing/share", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
