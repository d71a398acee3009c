// Package render serves stateless rendering of score documents posted by clients.
package render

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"golang.org/x/crypto/blake2b"

	"github.com/inamate/engrave/internal/engine"
	"github.com/inamate/engrave/internal/notation"
)

const maxDocumentSize = 8 << 20 // 8MB

// Handler renders posted score documents and keeps rasterised pages on disk, keyed by a
// digest of the document and the render settings.
type Handler struct {
	dir        string
	engineOpts []engine.Option
	settings   string
}

// Settings are the engine parameters every render of the handler uses.
type Settings struct {
	StaffUnit  int
	PixelScale float64
	PageWidth  int
	PageHeight int
}

func (s Settings) options() []engine.Option {
	return []engine.Option{
		engine.WithStaffUnit(s.StaffUnit),
		engine.WithPixelScale(s.PixelScale),
		engine.WithPageSize(s.PageWidth, s.PageHeight),
	}
}

// NewHandler creates a render handler storing PNG files in dir.
func NewHandler(dir string, settings Settings) *Handler {
	if err := os.MkdirAll(dir, 0755); err != nil {
		slog.Error("create render dir", "error", err, "dir", dir)
	}
	return &Handler{
		dir:        dir,
		engineOpts: settings.options(),
		settings: fmt.Sprintf("unit=%d;scale=%g;page=%dx%d;",
			settings.StaffUnit, settings.PixelScale, settings.PageWidth, settings.PageHeight),
	}
}

// Commands handles POST /render: a score document in, draw commands out.
func (h *Handler) Commands(w http.ResponseWriter, r *http.Request) {
	e, _, ok := h.load(w, r)
	if !ok {
		return
	}

	commands, err := e.RenderCommands()
	if err != nil {
		slog.Error("render commands", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(commands)
}

// PNG handles POST /render.png. Identical documents are rendered once; later requests are
// answered from the stored file.
func (h *Handler) PNG(w http.ResponseWriter, r *http.Request) {
	e, body, ok := h.load(w, r)
	if !ok {
		return
	}

	key := h.key(body)
	etag := `"` + key + `"`
	name := key + ".png"
	path := filepath.Join(h.dir, name)

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Location", "/renders/"+name)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		var buf bytes.Buffer
		if err := e.RenderPNG(&buf); err != nil {
			if errors.Is(err, notation.ErrInvalidScore) {
				http.Error(w, err.Error(), http.StatusUnprocessableEntity)
				return
			}
			slog.Error("render png", "error", err)
			http.Error(w, "failed to render", http.StatusInternalServerError)
			return
		}
		data = buf.Bytes()
		if err := writeFile(path, data); err != nil {
			slog.Warn("store render", "error", err, "path", path)
		}
	} else if err != nil {
		slog.Error("read render", "error", err, "path", path)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// Serve returns an http.Handler for stored renders under /renders/.
func (h *Handler) Serve() http.Handler {
	fs := http.FileServer(http.Dir(h.dir))
	return http.StripPrefix("/renders/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Names are content digests, so files never change.
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		fs.ServeHTTP(w, r)
	}))
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) (*engine.Engine, []byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDocumentSize))
	if err != nil {
		http.Error(w, "document too large (max 8MB)", http.StatusRequestEntityTooLarge)
		return nil, nil, false
	}

	e := engine.NewEngine(h.engineOpts...)
	if err := e.LoadDocument(string(body)); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, notation.ErrInvalidScore) {
			status = http.StatusUnprocessableEntity
		}
		http.Error(w, err.Error(), status)
		return nil, nil, false
	}
	return e, body, true
}

func (h *Handler) key(body []byte) string {
	d, _ := blake2b.New(20, nil)
	d.Write([]byte(h.settings))
	d.Write(body)
	return hex.EncodeToString(d.Sum(nil))
}

// writeFile writes data next to path and renames it into place, so readers never see a
// partial file.
func writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".render-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
