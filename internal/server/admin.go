package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mfriesen/boardsync/internal/model"
	"github.com/mfriesen/boardsync/internal/version"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// handleInfo reports service identity and status.
func (s *Server) handleInfo(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Whiteboard WebSocket Server",
		"status":  "running",
		"version": version.Version,
	})
}

// handleRoomExists reports whether a room has a persisted snapshot.
func (s *Server) handleRoomExists(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomID"]

	exists, err := s.store.Exists(r.Context(), roomID)
	if err != nil {
		s.logger.Error("room existence check failed", "room_id", roomID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "storage unavailable"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"exists":  exists,
		"room_id": roomID,
	})
}

// handleRoomCreate creates an empty room snapshot unless one exists.
func (s *Server) handleRoomCreate(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomID"]

	exists, err := s.store.Exists(r.Context(), roomID)
	if err != nil {
		s.logger.Error("room existence check failed", "room_id", roomID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "storage unavailable"})
		return
	}
	if exists {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": false,
			"room_id": roomID,
			"message": "Room already exists",
		})
		return
	}

	if err := s.store.Save(r.Context(), roomID, model.RoomState{}); err != nil {
		s.logger.Error("room creation failed", "room_id", roomID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "storage unavailable"})
		return
	}
	s.registry.Seed(roomID, model.RoomState{})

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"room_id": roomID,
		"message": "Room created",
	})
}

// handleHealth reports component status, 503 when storage is down.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := struct {
		Status     string         `json:"status"`
		Components map[string]any `json:"components"`
	}{
		Status:     "healthy",
		Components: make(map[string]any),
	}

	if err := s.store.Ping(r.Context()); err != nil {
		health.Status = "unhealthy"
		health.Components["storage"] = map[string]string{
			"status": "unavailable",
			"error":  err.Error(),
		}
	} else {
		health.Components["storage"] = "connected"
	}

	health.Components["rooms"] = s.registry.Len()
	health.Components["clients"] = s.hub.ClientCount()

	status := http.StatusOK
	if health.Status == "unhealthy" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, health)
}
