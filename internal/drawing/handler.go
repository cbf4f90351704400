package drawing

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/inamate/draft/internal/auth"
	"github.com/inamate/draft/internal/command"
	"github.com/inamate/draft/internal/engine"
	"github.com/inamate/draft/internal/snap"
	"github.com/inamate/draft/internal/tools"
	"github.com/inamate/draft/internal/transform"
)

type Handler struct {
	service  *Service
	registry *command.Registry
}

func NewHandler(service *Service, registry *command.Registry) *Handler {
	return &Handler{service: service, registry: registry}
}

// Routes mounts the drawing API on r. r is expected to run the auth
// middleware.
func (h *Handler) Routes(r *mux.Router) {
	r.HandleFunc("/registry", h.Registry).Methods("GET")

	r.HandleFunc("/drawings", h.List).Methods("GET")
	r.HandleFunc("/drawings", h.Create).Methods("POST")
	r.HandleFunc("/drawings/{drawingId}", h.Get).Methods("GET")
	r.HandleFunc("/drawings/{drawingId}", h.Delete).Methods("DELETE")

	r.HandleFunc("/drawings/{drawingId}/elements", h.session(h.Elements)).Methods("GET")
	r.HandleFunc("/drawings/{drawingId}/render", h.session(h.Render)).Methods("GET")
	r.HandleFunc("/drawings/{drawingId}/commands", h.session(h.Commands)).Methods("POST")
	r.HandleFunc("/drawings/{drawingId}/events", h.session(h.Events)).Methods("POST")
	r.HandleFunc("/drawings/{drawingId}/undo", h.session(h.Undo)).Methods("POST")
	r.HandleFunc("/drawings/{drawingId}/redo", h.session(h.Redo)).Methods("POST")
	r.HandleFunc("/drawings/{drawingId}/tool", h.session(h.Tool)).Methods("POST")
	r.HandleFunc("/drawings/{drawingId}/selection", h.session(h.Selection)).Methods("POST")
	r.HandleFunc("/drawings/{drawingId}/selection", h.session(h.DeleteSelection)).Methods("DELETE")
	r.HandleFunc("/drawings/{drawingId}/snap", h.session(h.Snap)).Methods("POST")
}

type createRequest struct {
	Name string `json:"name"`
}

type toolRequest struct {
	Tool string `json:"tool"`
}

type selectionRequest struct {
	IDs []string `json:"ids"`
}

type commandsRequest struct {
	Commands []command.Command `json:"commands"`
}

// --- Drawings ---

func (h *Handler) Registry(w http.ResponseWriter, r *http.Request) {
	auth.WriteJSON(w, http.StatusOK, h.registry.Describe())
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	d, err := h.service.Create(r.Context(), req.Name, auth.UserIDFromContext(r.Context()))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	auth.WriteJSON(w, http.StatusCreated, d)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.Get(r.Context(), mux.Vars(r)["drawingId"], auth.UserIDFromContext(r.Context()))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, d)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	drawings, err := h.service.List(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, drawings)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.service.Delete(r.Context(), mux.Vars(r)["drawingId"], auth.UserIDFromContext(r.Context()))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Session ---

type sessionHandler func(w http.ResponseWriter, r *http.Request, s *Session)

// session resolves the drawing's live session before calling next.
func (h *Handler) session(next sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := h.service.Open(r.Context(), mux.Vars(r)["drawingId"], auth.UserIDFromContext(r.Context()))
		if err != nil {
			handleServiceError(w, err)
			return
		}
		next(w, r, s)
	}
}

func (h *Handler) Elements(w http.ResponseWriter, r *http.Request, s *Session) {
	auth.WriteJSON(w, http.StatusOK, s.State())
}

func (h *Handler) Render(w http.ResponseWriter, r *http.Request, s *Session) {
	cmds := s.Render()
	if cmds == nil {
		cmds = []engine.DrawCommand{}
	}
	auth.WriteJSON(w, http.StatusOK, cmds)
}

// Commands runs a batch. The body is either {"commands": [...]} or a bare
// array. A failed batch answers 422 with the partial result.
func (h *Handler) Commands(w http.ResponseWriter, r *http.Request, s *Session) {
	cmds, err := decodeCommands(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res := s.Execute(cmds)
	status := http.StatusOK
	if !res.Success {
		status = http.StatusUnprocessableEntity
	}
	auth.WriteJSON(w, status, res)
}

func decodeCommands(r *http.Request) ([]command.Command, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		return nil, err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		var cmds []command.Command
		err := json.Unmarshal(raw, &cmds)
		return cmds, err
	}
	var req commandsRequest
	err := json.Unmarshal(raw, &req)
	return req.Commands, err
}

// Events feeds one event or a list of events to the session and answers with
// one update per event.
func (h *Handler) Events(w http.ResponseWriter, r *http.Request, s *Session) {
	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var events []tools.Event
	if raw = bytes.TrimSpace(raw); len(raw) > 0 && raw[0] == '[' {
		if err := json.Unmarshal(raw, &events); err != nil {
			writeError(w, http.StatusBadRequest, "invalid events")
			return
		}
	} else {
		var ev tools.Event
		if err := json.Unmarshal(raw, &ev); err != nil {
			writeError(w, http.StatusBadRequest, "invalid event")
			return
		}
		events = []tools.Event{ev}
	}

	updates := make([]engine.Update, len(events))
	for i, ev := range events {
		updates[i] = s.HandleEvent(ev)
	}
	auth.WriteJSON(w, http.StatusOK, map[string]any{
		"updates": updates,
		"preview": s.Preview(),
	})
}

func (h *Handler) Undo(w http.ResponseWriter, r *http.Request, s *Session) {
	s.Undo()
	auth.WriteJSON(w, http.StatusOK, s.State())
}

func (h *Handler) Redo(w http.ResponseWriter, r *http.Request, s *Session) {
	s.Redo()
	auth.WriteJSON(w, http.StatusOK, s.State())
}

func (h *Handler) Tool(w http.ResponseWriter, r *http.Request, s *Session) {
	var req toolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.SetTool(req.Tool); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	auth.WriteJSON(w, http.StatusOK, s.State())
}

func (h *Handler) Selection(w http.ResponseWriter, r *http.Request, s *Session) {
	var req selectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	ids := s.SetSelection(req.IDs)
	if ids == nil {
		ids = []string{}
	}
	auth.WriteJSON(w, http.StatusOK, map[string][]string{"selection": ids})
}

func (h *Handler) DeleteSelection(w http.ResponseWriter, r *http.Request, s *Session) {
	if err := s.DeleteSelection(); err != nil {
		if errors.Is(err, transform.ErrEmptyTarget) {
			writeError(w, http.StatusConflict, "nothing selected")
			return
		}
		handleServiceError(w, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, s.State())
}

func (h *Handler) Snap(w http.ResponseWriter, r *http.Request, s *Session) {
	opts := snap.DefaultOptions()
	if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if opts.GridSpacing < 0 || opts.SnapDistance < 0 {
		writeError(w, http.StatusBadRequest, "gridSpacing and snapDistance must not be negative")
		return
	}
	s.SetSnap(opts)
	auth.WriteJSON(w, http.StatusOK, opts)
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	default:
		slog.Error("service error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	auth.WriteJSON(w, status, map[string]string{"error": msg})
}
