package score

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/inamate/engrave/internal/engine"
	"github.com/inamate/engrave/internal/notation"
	"github.com/inamate/engrave/internal/share"
)

const maxDocumentBytes = 8 << 20

type Handler struct {
	service *Service
	shares  *share.Service
}

func NewHandler(service *Service, shares *share.Service) *Handler {
	return &Handler{service: service, shares: shares}
}

type createRequest struct {
	Title  string `json:"title"`
	Sample bool   `json:"sample"`
}

type shareRequest struct {
	TTLHours int `json:"ttlHours"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "title is required"})
		return
	}

	score, err := h.service.Create(r.Context(), req.Title, req.Sample)
	if err != nil {
		slog.Error("create score failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusCreated, score)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	scoreID := mux.Vars(r)["scoreId"]

	score, err := h.service.Get(r.Context(), scoreID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, score)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	scores, err := h.service.List(r.Context())
	if err != nil {
		slog.Error("list scores failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, scores)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	scoreID := mux.Vars(r)["scoreId"]

	if err := h.service.Delete(r.Context(), scoreID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SaveSnapshot(w http.ResponseWriter, r *http.Request) {
	scoreID := mux.Vars(r)["scoreId"]

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDocumentBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	version, err := h.service.SaveSnapshot(r.Context(), scoreID, body)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]int{"version": version})
}

func (h *Handler) GetLatestSnapshot(w http.ResponseWriter, r *http.Request) {
	scoreID := mux.Vars(r)["scoreId"]

	doc, err := h.service.LatestDocument(r.Context(), scoreID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(doc)
}

func (h *Handler) Render(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, mux.Vars(r)["scoreId"])
}

// RenderShared renders the score granted by the share token in the request context.
func (h *Handler) RenderShared(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, share.ScoreIDFromContext(r.Context()))
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, scoreID string) {
	commands, err := h.service.Render(r.Context(), scoreID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, commands)
}

func (h *Handler) RenderPNG(w http.ResponseWriter, r *http.Request) {
	scoreID := mux.Vars(r)["scoreId"]

	// Rendered into memory first so errors can still change the status code.
	var buf bytes.Buffer
	if err := h.service.RenderPNG(r.Context(), scoreID, &buf); err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (h *Handler) TupletGeometry(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	coords, err := h.service.TupletGeometry(r.Context(), vars["scoreId"], vars["tupletId"])
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, coords)
}

func (h *Handler) Share(w http.ResponseWriter, r *http.Request) {
	scoreID := mux.Vars(r)["scoreId"]

	var req shareRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
	}

	if _, err := h.service.Get(r.Context(), scoreID); err != nil {
		handleServiceError(w, err)
		return
	}

	token, err := h.shares.Issue(scoreID, time.Duration(req.TTLHours)*time.Hour)
	if err != nil {
		slog.Error("issue share token failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"token": token,
		"path":  "/shared/" + token + "/render",
	})
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, engine.ErrUnknownTuplet):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown tuplet"})
	case errors.Is(err, ErrInvalidDocument), errors.Is(err, notation.ErrInvalidScore):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	default:
		slog.Error("service error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
