package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"impulse-server/internal/engine"
)

// DebugHandler предоставляет доступ к внутреннему состоянию конвейера ввода
type DebugHandler struct {
	Service *engine.Service
}

func NewDebugHandler(s *engine.Service) *DebugHandler {
	return &DebugHandler{Service: s}
}

// RegisterRoutes регистрирует debug-эндпоинты
func (h *DebugHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/debug/state", h.handleState)
	mux.HandleFunc("/debug/journal", h.handleJournal)
	mux.HandleFunc("/debug/recording", h.handleRecording)
}

// /debug/state - текущий снимок ядра (тот же DTO, что уходит по WS)
func (h *DebugHandler) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Service.BuildState())
}

// /debug/journal?limit=N - последние записи журнала команд
func (h *DebugHandler) handleJournal(w http.ResponseWriter, r *http.Request) {
	if h.Service.Journal == nil {
		http.Error(w, "journal disabled", http.StatusNotFound)
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 1000 {
			limit = n
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	entries, err := h.Service.Journal.Recent(ctx, limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, entries)
}

// /debug/recording - управление записью реплея.
// POST ?op=start начинает запись, POST ?op=stop сохраняет файл.
func (h *DebugHandler) handleRecording(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}

	switch r.URL.Query().Get("op") {
	case "start":
		session := h.Service.StartRecording()
		writeJSON(w, map[string]string{"session": session})

	case "stop":
		path, err := h.Service.StopRecording()
		if err != nil {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		writeJSON(w, map[string]string{"path": path})

	default:
		http.Error(w, "op must be start or stop", http.StatusBadRequest)
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
